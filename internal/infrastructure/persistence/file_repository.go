package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	appErrors "github.com/nexuscrm/builder/pkg/errors"
	"github.com/nexuscrm/builder/pkg/models"
	"go.uber.org/zap"
)

// SchemaFileName is the document written inside the data directory
const SchemaFileName = "schema.json"

type fileDocument struct {
	Current *models.OrgSchema `json:"current"`
	History []json.RawMessage `json:"history"`
}

// FileRepository persists current schema and history as one JSON document.
// Writes go to a temporary file that is renamed over the target, so readers
// never observe a partial document.
type FileRepository struct {
	mu     sync.Mutex
	path   string
	seed   SeedFunc
	logger *zap.Logger
}

// NewFileRepository creates a repository rooted at dir, creating dir if needed
func NewFileRepository(dir string, seed SeedFunc, logger *zap.Logger) (*FileRepository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileRepository{path: filepath.Join(dir, SchemaFileName), seed: seed, logger: logger}, nil
}

// Path returns the location of the schema document
func (r *FileRepository) Path() string {
	return r.path
}

func (r *FileRepository) read() (*models.OrgSchema, []*models.OrgSchema, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, appErrors.NewInternalError("read schema file", err)
	}

	var doc fileDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, appErrors.NewInternalError("decode schema file", err)
	}

	history := make([]*models.OrgSchema, 0, len(doc.History))
	for i, raw := range doc.History {
		snap, err := decode(raw)
		if err != nil {
			r.logger.Warn("Skipping unreadable schema snapshot",
				zap.String("path", r.path), zap.Int("index", i), zap.Error(err))
			continue
		}
		history = append(history, snap)
	}
	return doc.Current, history, nil
}

func (r *FileRepository) write(current *models.OrgSchema, history []*models.OrgSchema) error {
	doc := fileDocument{Current: current, History: make([]json.RawMessage, 0, len(history))}
	for _, snap := range history {
		raw, err := encode(snap)
		if err != nil {
			return err
		}
		doc.History = append(doc.History, raw)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return appErrors.NewInternalError("encode schema file", err)
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return appErrors.NewInternalError("write schema file", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		_ = os.Remove(tmp)
		return appErrors.NewInternalError("replace schema file", err)
	}
	return nil
}

func (r *FileRepository) Load(ctx context.Context) (*models.OrgSchema, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, _, err := r.read()
	if err != nil {
		return nil, err
	}
	if current == nil {
		return seedOrEmpty(r.seed, time.Now()), nil
	}
	return current, nil
}

func (r *FileRepository) Save(ctx context.Context, schema *models.OrgSchema) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, history, err := r.read()
	if err != nil {
		return err
	}
	snap := schema.Clone()
	if err := r.write(snap, pushHistory(history, snap)); err != nil {
		return err
	}
	r.logger.Debug("Schema written", zap.String("path", r.path), zap.Int("version", snap.Version))
	return nil
}

func (r *FileRepository) History(ctx context.Context) ([]*models.OrgSchema, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, history, err := r.read()
	if err != nil {
		return nil, err
	}
	return history, nil
}

func (r *FileRepository) Rollback(ctx context.Context, version int, at time.Time) (*models.OrgSchema, error) {
	return rollback(ctx, r, version, at)
}
