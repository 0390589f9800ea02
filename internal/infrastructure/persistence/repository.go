// Package persistence stores the schema graph and its bounded version history.
package persistence

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nexuscrm/builder/pkg/constants"
	appErrors "github.com/nexuscrm/builder/pkg/errors"
	"github.com/nexuscrm/builder/pkg/models"
)

// SchemaRepository is versioned persistence of the whole schema graph.
// History is most-recent-first and holds at most constants.HistoryLimit entries.
type SchemaRepository interface {
	// Load returns the current schema, or the seed when nothing is persisted
	Load(ctx context.Context) (*models.OrgSchema, error)
	// Save persists schema as current and appends it to history
	Save(ctx context.Context, schema *models.OrgSchema) error
	// History returns the retained snapshots, most recent first
	History(ctx context.Context) ([]*models.OrgSchema, error)
	// Rollback saves a copy of the given version as a new version
	Rollback(ctx context.Context, version int, at time.Time) (*models.OrgSchema, error)
}

// SeedFunc builds the schema returned by Load on first run
type SeedFunc func() *models.OrgSchema

func seedOrEmpty(seed SeedFunc, now time.Time) *models.OrgSchema {
	if seed != nil {
		if s := seed(); s != nil {
			return s
		}
	}
	return &models.OrgSchema{Objects: []models.ObjectDef{}, PermissionSets: []models.PermissionSet{}, UpdatedAt: now}
}

// loader is the subset of SchemaRepository that rollback needs
type loader interface {
	Load(ctx context.Context) (*models.OrgSchema, error)
	Save(ctx context.Context, schema *models.OrgSchema) error
	History(ctx context.Context) ([]*models.OrgSchema, error)
}

// rollback copies version out of history and saves it as max(known)+1.
// History is never rewritten; the restored copy is appended like any save.
func rollback(ctx context.Context, repo loader, version int, at time.Time) (*models.OrgSchema, error) {
	history, err := repo.History(ctx)
	if err != nil {
		return nil, err
	}
	var target *models.OrgSchema
	maxVersion := 0
	for _, snap := range history {
		if snap.Version > maxVersion {
			maxVersion = snap.Version
		}
		if snap.Version == version && target == nil {
			target = snap
		}
	}
	if target == nil {
		return nil, appErrors.NewVersionNotFoundError(version)
	}
	current, err := repo.Load(ctx)
	if err != nil {
		return nil, err
	}
	if current.Version > maxVersion {
		maxVersion = current.Version
	}

	restored := target.Clone()
	restored.Version = maxVersion + 1
	restored.UpdatedAt = at
	if err := repo.Save(ctx, restored); err != nil {
		return nil, err
	}
	return restored.Clone(), nil
}

func encode(schema *models.OrgSchema) ([]byte, error) {
	data, err := json.Marshal(schema)
	if err != nil {
		return nil, appErrors.NewInternalError("encode schema", err)
	}
	return data, nil
}

func decode(data []byte) (*models.OrgSchema, error) {
	var schema models.OrgSchema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, err
	}
	return &schema, nil
}

// pushHistory prepends snap and applies FIFO eviction
func pushHistory(history []*models.OrgSchema, snap *models.OrgSchema) []*models.OrgSchema {
	out := make([]*models.OrgSchema, 0, constants.HistoryLimit)
	out = append(out, snap)
	for _, h := range history {
		if len(out) == constants.HistoryLimit {
			break
		}
		out = append(out, h)
	}
	return out
}

func cloneAll(in []*models.OrgSchema) []*models.OrgSchema {
	out := make([]*models.OrgSchema, len(in))
	for i, s := range in {
		out[i] = s.Clone()
	}
	return out
}
