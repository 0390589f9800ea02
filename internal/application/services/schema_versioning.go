package services

import (
	"context"

	"github.com/nexuscrm/builder/pkg/models"
	"go.uber.org/zap"
)

// Save persists the current schema as a new version and returns that version
func (s *SchemaStore) Save(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft := s.schema.Clone()
	if err := s.persistLocked(ctx, draft); err != nil {
		return 0, err
	}
	s.schema = draft
	return draft.Version, nil
}

// History returns the retained snapshots, most recent first
func (s *SchemaStore) History(ctx context.Context) ([]*models.OrgSchema, error) {
	return s.repo.History(ctx)
}

// Rollback restores the content of version as a new version appended to
// history. The restored schema becomes current.
func (s *SchemaStore) Rollback(ctx context.Context, version int) (*models.OrgSchema, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	restored, err := s.repo.Rollback(ctx, version, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.validateSchema(restored); err != nil {
		s.logger.Warn("Restored schema has consistency problems", zap.Int("version", restored.Version), zap.Error(err))
	}
	s.schema = restored.Clone()
	if restored.Version > s.lastVersion {
		s.lastVersion = restored.Version
	}
	s.logger.Info("Schema rolled back",
		zap.Int("from", version),
		zap.Int("version", restored.Version),
		zap.Int("objects", len(restored.Objects)))
	return restored, nil
}
