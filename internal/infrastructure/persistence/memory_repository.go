package persistence

import (
	"context"
	"sync"
	"time"

	"github.com/nexuscrm/builder/pkg/models"
)

// MemoryRepository keeps snapshots in process memory. Reads return copies.
type MemoryRepository struct {
	mu      sync.RWMutex
	seed    SeedFunc
	current *models.OrgSchema
	history []*models.OrgSchema
}

// NewMemoryRepository creates an empty in-memory repository
func NewMemoryRepository(seed SeedFunc) *MemoryRepository {
	return &MemoryRepository{seed: seed}
}

func (r *MemoryRepository) Load(ctx context.Context) (*models.OrgSchema, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.current == nil {
		return seedOrEmpty(r.seed, time.Now()), nil
	}
	return r.current.Clone(), nil
}

func (r *MemoryRepository) Save(ctx context.Context, schema *models.OrgSchema) error {
	snap := schema.Clone()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = snap
	r.history = pushHistory(r.history, snap)
	return nil
}

func (r *MemoryRepository) History(ctx context.Context) ([]*models.OrgSchema, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneAll(r.history), nil
}

func (r *MemoryRepository) Rollback(ctx context.Context, version int, at time.Time) (*models.OrgSchema, error) {
	return rollback(ctx, r, version, at)
}
