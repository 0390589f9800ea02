package bootstrap

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/nexuscrm/builder/internal/config"
	"github.com/nexuscrm/builder/internal/infrastructure/database"
	"github.com/nexuscrm/builder/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

var nopCloser = closerFunc(func() error { return nil })

// OpenRepository builds the schema repository selected by cfg.Storage. The
// returned closer releases the underlying connection. Every driver seeds an
// empty store with the standard objects.
func OpenRepository(ctx context.Context, cfg config.Config, logger *zap.Logger) (persistence.SchemaRepository, io.Closer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	seed := Seed(nil, time.Now)

	switch cfg.Storage {
	case config.StorageMemory:
		return persistence.NewMemoryRepository(seed), nopCloser, nil

	case config.StorageFile:
		repo, err := persistence.NewFileRepository(cfg.DataDir, seed, logger)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Using file schema storage", zap.String("path", repo.Path()))
		return repo, nopCloser, nil

	case config.StorageMySQL:
		db, err := database.Open(ctx, cfg.DatabaseSettings())
		if err != nil {
			return nil, nil, err
		}
		repo := persistence.NewMySQLRepository(db, seed, logger)
		if err := repo.EnsureTables(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		logger.Info("Using MySQL schema storage",
			zap.String("host", cfg.MySQL.Host),
			zap.String("database", cfg.MySQL.Database))
		return repo, db, nil

	case config.StorageRedis:
		client, err := database.ConnectRedis(ctx, cfg.Redis.URL)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("Using Redis schema storage", zap.String("prefix", cfg.Redis.Prefix))
		return persistence.NewRedisRepository(client, cfg.Redis.Prefix, seed, logger), client, nil
	}
	return nil, nil, fmt.Errorf("unknown schema storage %q", cfg.Storage)
}
