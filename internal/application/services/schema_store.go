package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nexuscrm/builder/internal/domain/layout"
	"github.com/nexuscrm/builder/internal/domain/object"
	"github.com/nexuscrm/builder/internal/infrastructure/persistence"
	appErrors "github.com/nexuscrm/builder/pkg/errors"
	"github.com/nexuscrm/builder/pkg/expression"
	"github.com/nexuscrm/builder/pkg/models"
	"github.com/nexuscrm/builder/pkg/utils"
	"go.uber.org/zap"
)

// SchemaStore is the single authorized mutation surface over the live schema
type SchemaStore struct {
	mu          sync.RWMutex
	repo        persistence.SchemaRepository
	schema      *models.OrgSchema
	lastVersion int

	engine   *expression.Engine
	rules    *expression.RuleEvaluator
	logger   *zap.Logger
	newID    utils.IDGenerator
	now      func() time.Time
	autoSave bool
}

// Option configures a SchemaStore
type Option func(*SchemaStore)

// WithLogger sets the logger; the default discards everything
func WithLogger(logger *zap.Logger) Option {
	return func(s *SchemaStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithIDGenerator sets the identifier source for new elements
func WithIDGenerator(gen utils.IDGenerator) Option {
	return func(s *SchemaStore) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// WithClock sets the time source used for timestamps
func WithClock(now func() time.Time) Option {
	return func(s *SchemaStore) {
		if now != nil {
			s.now = now
		}
	}
}

// WithAutoSave persists the schema after every successful mutation
func WithAutoSave(enabled bool) Option {
	return func(s *SchemaStore) {
		s.autoSave = enabled
	}
}

// WithEngine shares an expression engine with other components
func WithEngine(engine *expression.Engine) Option {
	return func(s *SchemaStore) {
		if engine != nil {
			s.engine = engine
		}
	}
}

// NewSchemaStore loads the current schema from repo
func NewSchemaStore(ctx context.Context, repo persistence.SchemaRepository, opts ...Option) (*SchemaStore, error) {
	s := &SchemaStore{
		repo:   repo,
		logger: zap.NewNop(),
		newID:  utils.UUIDGenerator(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.engine == nil {
		s.engine = expression.NewEngine()
	}
	s.rules = expression.NewRuleEvaluator(s.engine)

	schema, err := repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load schema: %w", err)
	}
	history, err := repo.History(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load schema history: %w", err)
	}

	s.schema = schema
	s.lastVersion = schema.Version
	for _, snap := range history {
		if snap.Version > s.lastVersion {
			s.lastVersion = snap.Version
		}
	}
	if err := s.validateSchema(schema); err != nil {
		s.logger.Warn("Loaded schema has consistency problems", zap.Error(err))
	}

	s.logger.Info("Schema store ready",
		zap.Int("version", schema.Version),
		zap.Int("objects", len(schema.Objects)),
		zap.Bool("autoSave", s.autoSave))
	return s, nil
}

// Engine returns the expression engine used for rule checks
func (s *SchemaStore) Engine() *expression.Engine {
	return s.engine
}

// Snapshot returns a copy of the committed schema
func (s *SchemaStore) Snapshot() *models.OrgSchema {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.schema.Clone()
}

// Version returns the version of the committed schema
func (s *SchemaStore) Version() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.schema.Version
}

// read runs fn against the committed schema under the read lock. fn must not
// retain or modify what it is given.
func (s *SchemaStore) read(fn func(schema *models.OrgSchema) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.schema)
}

// mutate applies fn to a copy of the schema and commits the copy when fn and
// whole-schema validation succeed (and, with autosave, persistence too).
func (s *SchemaStore) mutate(ctx context.Context, op string, fn func(draft *models.OrgSchema) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft := s.schema.Clone()
	if err := fn(draft); err != nil {
		return err
	}
	if err := s.validateSchema(draft); err != nil {
		return err
	}
	if s.autoSave {
		if err := s.persistLocked(ctx, draft); err != nil {
			return err
		}
	}
	s.schema = draft
	s.logger.Debug("Schema mutation committed", zap.String("operation", op), zap.Int("version", draft.Version))
	return nil
}

// persistLocked stamps draft with the next version and saves it. The caller
// holds the write lock; on failure draft is not committed.
func (s *SchemaStore) persistLocked(ctx context.Context, draft *models.OrgSchema) error {
	next := s.lastVersion + 1
	prevVersion, prevUpdated := draft.Version, draft.UpdatedAt
	draft.Version = next
	draft.UpdatedAt = s.now()
	if err := s.repo.Save(ctx, draft); err != nil {
		draft.Version, draft.UpdatedAt = prevVersion, prevUpdated
		s.logger.Error("Schema save failed", zap.Int("version", next), zap.Error(err))
		return err
	}
	s.lastVersion = next
	s.logger.Info("Schema saved", zap.Int("version", next), zap.Int("objects", len(draft.Objects)))
	return nil
}

// validateSchema checks every invariant of the whole graph
func (s *SchemaStore) validateSchema(schema *models.OrgSchema) error {
	var errs []error
	seen := make(map[string]struct{}, len(schema.Objects))
	for i := range schema.Objects {
		obj := &schema.Objects[i]
		if _, dup := seen[obj.APIName]; dup {
			errs = append(errs, appErrors.NewDuplicateObjectError(obj.APIName))
			continue
		}
		seen[obj.APIName] = struct{}{}

		if err := object.Validate(s.engine, obj); err != nil {
			errs = append(errs, err)
		}
		if err := layout.ValidateAll(obj); err != nil {
			errs = append(errs, err)
		}
		if err := object.ValidateLookups(schema, obj); err != nil {
			errs = append(errs, err)
		}
	}
	for _, ps := range schema.PermissionSets {
		if err := validatePermissionSet(schema, ps); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// findObject returns the object or a NotFoundError
func findObject(schema *models.OrgSchema, apiName string) (*models.ObjectDef, error) {
	obj := schema.FindObject(apiName)
	if obj == nil {
		return nil, appErrors.NewNotFoundError("Object", apiName)
	}
	return obj, nil
}

func (s *SchemaStore) touch(obj *models.ObjectDef) {
	obj.UpdatedAt = s.now()
}

func (s *SchemaStore) logImpacts(op string, impacts []object.Impact) {
	for _, imp := range impacts {
		s.logger.Warn("Cascade applied",
			zap.String("operation", op),
			zap.String("kind", string(imp.Kind)),
			zap.String("object", imp.Object),
			zap.String("detail", imp.Message))
	}
}
