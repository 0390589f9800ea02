package persistence

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

func init() {
	// Load .env so the redis integration test can pick up REDIS_URL.
	// Tests run from internal/infrastructure/persistence/, the file lives at the module root.
	paths := []string{
		"../../../.env",
		".env",
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			if err := godotenv.Load(p); err == nil {
				log.Printf("Loaded .env from %s for tests", p)
				return
			}
		}
	}
}
