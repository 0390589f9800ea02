package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/nexuscrm/builder/pkg/constants"
	appErrors "github.com/nexuscrm/builder/pkg/errors"
	"github.com/nexuscrm/builder/pkg/models"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultRedisPrefix namespaces the schema keys
const DefaultRedisPrefix = "nexus:schema"

// RedisRepository keeps the current schema under "<prefix>:current" and the
// history as a list under "<prefix>:history", newest at the head.
type RedisRepository struct {
	client *redis.Client
	prefix string
	seed   SeedFunc
	logger *zap.Logger
}

// NewRedisRepository creates a repository on an existing client
func NewRedisRepository(client *redis.Client, prefix string, seed SeedFunc, logger *zap.Logger) *RedisRepository {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisRepository{client: client, prefix: prefix, seed: seed, logger: logger}
}

func (r *RedisRepository) currentKey() string { return r.prefix + ":current" }
func (r *RedisRepository) historyKey() string { return r.prefix + ":history" }

func (r *RedisRepository) Load(ctx context.Context) (*models.OrgSchema, error) {
	data, err := r.client.Get(ctx, r.currentKey()).Bytes()
	if errors.Is(err, redis.Nil) {
		return seedOrEmpty(r.seed, time.Now()), nil
	}
	if err != nil {
		return nil, appErrors.NewInternalError("load schema", err)
	}
	schema, err := decode(data)
	if err != nil {
		return nil, appErrors.NewInternalError("decode schema", err)
	}
	return schema, nil
}

// Save writes current and history in one MULTI/EXEC so readers never see one without the other
func (r *RedisRepository) Save(ctx context.Context, schema *models.OrgSchema) error {
	data, err := encode(schema)
	if err != nil {
		return err
	}
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, r.currentKey(), data, 0)
		pipe.LPush(ctx, r.historyKey(), data)
		pipe.LTrim(ctx, r.historyKey(), 0, constants.HistoryLimit-1)
		return nil
	})
	if err != nil {
		return appErrors.NewInternalError("save schema", err)
	}
	return nil
}

func (r *RedisRepository) History(ctx context.Context) ([]*models.OrgSchema, error) {
	items, err := r.client.LRange(ctx, r.historyKey(), 0, constants.HistoryLimit-1).Result()
	if err != nil {
		return nil, appErrors.NewInternalError("query schema history", err)
	}
	history := make([]*models.OrgSchema, 0, len(items))
	for i, item := range items {
		snap, err := decode([]byte(item))
		if err != nil {
			r.logger.Warn("Skipping unreadable schema snapshot", zap.String("key", r.historyKey()), zap.Int("index", i), zap.Error(err))
			continue
		}
		history = append(history, snap)
	}
	return history, nil
}

func (r *RedisRepository) Rollback(ctx context.Context, version int, at time.Time) (*models.OrgSchema, error) {
	return rollback(ctx, r, version, at)
}

// Clear removes both keys
func (r *RedisRepository) Clear(ctx context.Context) error {
	return r.client.Del(ctx, r.currentKey(), r.historyKey()).Err()
}
