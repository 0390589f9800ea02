package persistence

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	appErrors "github.com/nexuscrm/builder/pkg/errors"
	"github.com/nexuscrm/builder/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var baseTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func schemaAt(version int) *models.OrgSchema {
	return &models.OrgSchema{
		Version: version,
		Objects: []models.ObjectDef{{
			ID:      fmt.Sprintf("obj-%d", version),
			APIName: fmt.Sprintf("Object%d", version),
			Label:   fmt.Sprintf("Object %d", version),
			Fields: []models.FieldDef{
				{ID: fmt.Sprintf("f-%d", version), APIName: "Name", Label: "Name", Type: "Text"},
			},
			RecordTypes:     []models.RecordType{},
			PageLayouts:     []models.PageLayout{},
			ValidationRules: []models.ValidationRule{},
			CreatedAt:       baseTime,
			UpdatedAt:       baseTime,
		}},
		PermissionSets: []models.PermissionSet{},
		UpdatedAt:      baseTime.Add(time.Duration(version) * time.Minute),
	}
}

func seed() *models.OrgSchema {
	return &models.OrgSchema{Version: 0, Objects: []models.ObjectDef{{ID: "seed", APIName: "Account", Label: "Account"}}}
}

func versions(history []*models.OrgSchema) []int {
	out := make([]int, len(history))
	for i, h := range history {
		out[i] = h.Version
	}
	return out
}

// runRepositoryContract exercises behaviour every SchemaRepository must share
func runRepositoryContract(t *testing.T, newRepo func(t *testing.T) SchemaRepository) {
	ctx := context.Background()

	t.Run("load returns seed on first run", func(t *testing.T) {
		repo := newRepo(t)
		schema, err := repo.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, schema.Version)
		require.Len(t, schema.Objects, 1)
		assert.Equal(t, "Account", schema.Objects[0].APIName)

		history, err := repo.History(ctx)
		require.NoError(t, err)
		assert.Empty(t, history)
	})

	t.Run("save then load", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Save(ctx, schemaAt(1)))

		loaded, err := repo.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, loaded.Version)
		assert.Equal(t, "Object1", loaded.Objects[0].APIName)
	})

	t.Run("history is most recent first", func(t *testing.T) {
		repo := newRepo(t)
		for v := 1; v <= 3; v++ {
			require.NoError(t, repo.Save(ctx, schemaAt(v)))
		}
		history, err := repo.History(ctx)
		require.NoError(t, err)
		assert.Equal(t, []int{3, 2, 1}, versions(history))
	})

	t.Run("history evicts oldest beyond ten", func(t *testing.T) {
		repo := newRepo(t)
		for v := 1; v <= 11; v++ {
			require.NoError(t, repo.Save(ctx, schemaAt(v)))
		}
		history, err := repo.History(ctx)
		require.NoError(t, err)
		assert.Equal(t, []int{11, 10, 9, 8, 7, 6, 5, 4, 3, 2}, versions(history))
	})

	t.Run("rollback appends a new version", func(t *testing.T) {
		repo := newRepo(t)
		for v := 1; v <= 3; v++ {
			require.NoError(t, repo.Save(ctx, schemaAt(v)))
		}
		at := baseTime.Add(time.Hour)

		restored, err := repo.Rollback(ctx, 2, at)
		require.NoError(t, err)
		assert.Equal(t, 4, restored.Version)
		assert.True(t, at.Equal(restored.UpdatedAt))
		assert.Equal(t, "Object2", restored.Objects[0].APIName)
		assert.Equal(t, schemaAt(2).Objects[0].Fields[0].ID, restored.Objects[0].Fields[0].ID)

		current, err := repo.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, 4, current.Version)

		history, err := repo.History(ctx)
		require.NoError(t, err)
		assert.Equal(t, []int{4, 3, 2, 1}, versions(history))
	})

	t.Run("rollback to unknown version", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Save(ctx, schemaAt(1)))

		_, err := repo.Rollback(ctx, 7, baseTime)
		require.Error(t, err)
		assert.True(t, appErrors.HasReason(err, appErrors.ReasonVersionNotFound))
		assert.True(t, appErrors.IsNotFound(err))

		current, err := repo.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, current.Version)
	})

	t.Run("saved snapshots are isolated from caller", func(t *testing.T) {
		repo := newRepo(t)
		s := schemaAt(1)
		require.NoError(t, repo.Save(ctx, s))
		s.Objects[0].APIName = "Mutated"

		loaded, err := repo.Load(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Object1", loaded.Objects[0].APIName)
	})
}

func TestMemoryRepository(t *testing.T) {
	runRepositoryContract(t, func(t *testing.T) SchemaRepository {
		return NewMemoryRepository(seed)
	})
}

func TestFileRepository(t *testing.T) {
	runRepositoryContract(t, func(t *testing.T) SchemaRepository {
		repo, err := NewFileRepository(t.TempDir(), seed, zap.NewNop())
		require.NoError(t, err)
		return repo
	})
}

func TestFileRepository_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	repo, err := NewFileRepository(dir, seed, nil)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, schemaAt(1)))
	require.NoError(t, repo.Save(ctx, schemaAt(2)))

	reopened, err := NewFileRepository(dir, seed, nil)
	require.NoError(t, err)
	current, err := reopened.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, current.Version)

	_, err = os.Stat(repo.Path() + ".tmp")
	assert.True(t, os.IsNotExist(err), "temporary file must not be left behind")
}

func TestFileRepository_SkipsUnreadableSnapshot(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	doc := `{"current": {"version": 2, "objects": [], "permissionSets": [], "updatedAt": "2024-03-01T12:00:00Z"},
	"history": [{"version": 2, "objects": [], "permissionSets": [], "updatedAt": "2024-03-01T12:00:00Z"}, {"version": "broken"}]}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, SchemaFileName), []byte(doc), 0o644))

	repo, err := NewFileRepository(dir, seed, nil)
	require.NoError(t, err)

	history, err := repo.History(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, versions(history))
}

func TestFileRepository_CorruptDocument(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, SchemaFileName), []byte("{not json"), 0o644))

	repo, err := NewFileRepository(dir, seed, nil)
	require.NoError(t, err)

	_, err = repo.Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, "INTERNAL_ERROR", appErrors.GetErrorCode(err))
}

func TestRollback_UsesMaxOfCurrentAndHistory(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository(seed)
	require.NoError(t, repo.Save(ctx, schemaAt(1)))
	require.NoError(t, repo.Save(ctx, schemaAt(5)))

	restored, err := repo.Rollback(ctx, 1, baseTime)
	require.NoError(t, err)
	assert.Equal(t, 6, restored.Version)
}
