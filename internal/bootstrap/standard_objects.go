// Package bootstrap provides the schema a fresh installation starts with.
package bootstrap

import (
	_ "embed"
	"fmt"
	"time"

	"github.com/nexuscrm/builder/internal/codec"
	"github.com/nexuscrm/builder/internal/infrastructure/persistence"
	"github.com/nexuscrm/builder/pkg/fieldtypes"
	"github.com/nexuscrm/builder/pkg/models"
	"github.com/nexuscrm/builder/pkg/utils"
)

//go:embed standard_objects.json
var standardObjectsJSON []byte

// DefaultSchema builds the standard CRM objects (Account, Contact,
// Opportunity) with fresh identifiers. The result is unsaved: version 0.
func DefaultSchema(newID utils.IDGenerator, now time.Time) (*models.OrgSchema, error) {
	schema, err := codec.Decode(standardObjectsJSON, codec.FormatJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to parse standard_objects.json: %w", err)
	}
	for i := range schema.Objects {
		for j := range schema.Objects[i].Fields {
			fieldtypes.ApplyDefaults(&schema.Objects[i].Fields[j])
		}
	}
	codec.Rekey(schema, newID, now)
	schema.Version = 0
	return schema, nil
}

// Seed adapts DefaultSchema to persistence.SeedFunc. The embedded document is
// part of the binary, so a parse failure is a programming error and panics.
func Seed(newID utils.IDGenerator, clock func() time.Time) persistence.SeedFunc {
	if newID == nil {
		newID = utils.UUIDGenerator()
	}
	if clock == nil {
		clock = time.Now
	}
	return func() *models.OrgSchema {
		schema, err := DefaultSchema(newID, clock())
		if err != nil {
			panic(err)
		}
		return schema
	}
}
