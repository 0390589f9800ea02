package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/nexuscrm/builder/internal/bootstrap"
	"github.com/nexuscrm/builder/internal/infrastructure/persistence"
	"github.com/nexuscrm/builder/pkg/models"
	"github.com/nexuscrm/builder/pkg/utils"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 4, 1, 8, 0, 0, 0, time.UTC)

// testClock advances one minute per call so re-stamping is observable
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock { return &testClock{now: t0} }

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Minute)
	return c.now
}

func newTestStore(t *testing.T, opts ...Option) (*SchemaStore, *persistence.MemoryRepository) {
	t.Helper()
	repo := persistence.NewMemoryRepository(bootstrap.Seed(utils.SequenceGenerator("seed"), func() time.Time { return t0 }))
	clock := newTestClock()
	base := []Option{WithIDGenerator(utils.SequenceGenerator("id")), WithClock(clock.Now)}
	store, err := NewSchemaStore(context.Background(), repo, append(base, opts...)...)
	require.NoError(t, err)
	return store, repo
}

func layoutByName(t *testing.T, obj models.ObjectDef, name string) models.PageLayout {
	t.Helper()
	for _, l := range obj.PageLayouts {
		if l.Name == name {
			return l
		}
	}
	t.Fatalf("layout %q not found on %s", name, obj.APIName)
	return models.PageLayout{}
}

func sectionByLabel(t *testing.T, l models.PageLayout, label string) models.PageSection {
	t.Helper()
	for _, tab := range l.Tabs {
		for _, sec := range tab.Sections {
			if sec.Label == label {
				return sec
			}
		}
	}
	t.Fatalf("section %q not found in %s", label, l.Name)
	return models.PageSection{}
}

// failingRepository wraps a repository and fails every Save
type failingRepository struct {
	persistence.SchemaRepository
}

var errDiskFull = errors.New("disk full")

func (f failingRepository) Save(ctx context.Context, schema *models.OrgSchema) error {
	return errDiskFull
}
