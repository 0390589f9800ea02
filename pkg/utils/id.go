package utils

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDGenerator produces fresh identifiers for schema elements
type IDGenerator func() string

// GenerateID generates a new UUID v4 string
func GenerateID() string {
	return uuid.NewString()
}

// UUIDGenerator is the default IDGenerator
func UUIDGenerator() IDGenerator {
	return GenerateID
}

// SequenceGenerator returns deterministic ids "<prefix>-1", "<prefix>-2", ...
// It is safe for concurrent use.
func SequenceGenerator(prefix string) IDGenerator {
	var n atomic.Int64
	return func() string {
		return fmt.Sprintf("%s-%d", prefix, n.Add(1))
	}
}

// IsValidUUID checks if the string is a valid UUID
func IsValidUUID(u string) bool {
	_, err := uuid.Parse(u)
	return err == nil
}
