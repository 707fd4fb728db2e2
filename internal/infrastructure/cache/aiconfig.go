package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/summario-team/summario-api/internal/domain/entities"
	"github.com/summario-team/summario-api/internal/domain/repositories"
)

const aiConfigKeyPrefix = "aiconfig:"

// AIConfigCache is a read-through cache for per-user AI configuration
// (prompt, template, example protocol). Summary generation hits this on
// every job; the config itself changes rarely.
type AIConfigCache struct {
	store  Store
	users  repositories.UserRepository
	ttl    time.Duration
	logger *zap.Logger
}

// NewAIConfigCache creates an AI config cache backed by the given store
func NewAIConfigCache(store Store, users repositories.UserRepository, ttl time.Duration, logger *zap.Logger) *AIConfigCache {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &AIConfigCache{
		store:  store,
		users:  users,
		ttl:    ttl,
		logger: logger,
	}
}

// Get returns the user's AI configuration, loading it from the database
// on a cache miss. Returns (nil, nil) when the user has no configuration.
func (c *AIConfigCache) Get(ctx context.Context, userID uuid.UUID) (*entities.AIConfig, error) {
	key := aiConfigKeyPrefix + userID.String()

	if raw, found, err := c.store.Get(ctx, key); err != nil {
		// A broken cache must not block generation; fall through to the DB
		c.logger.Warn("ai config cache read failed", zap.Error(err), zap.String("user_id", userID.String()))
	} else if found {
		var cfg entities.AIConfig
		if err := json.Unmarshal([]byte(raw), &cfg); err == nil {
			return &cfg, nil
		}
		c.logger.Warn("ai config cache entry corrupt, reloading", zap.String("user_id", userID.String()))
	}

	user, err := c.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}

	cfg := user.AIConfiguration()
	if cfg == nil {
		return nil, nil
	}

	if encoded, err := json.Marshal(cfg); err == nil {
		if err := c.store.Set(ctx, key, string(encoded), c.ttl); err != nil {
			c.logger.Warn("ai config cache write failed", zap.Error(err), zap.String("user_id", userID.String()))
		}
	}

	return cfg, nil
}

// Invalidate drops the cached configuration for a user. Called after
// template generation or manual config updates.
func (c *AIConfigCache) Invalidate(ctx context.Context, userID uuid.UUID) {
	if err := c.store.Delete(ctx, aiConfigKeyPrefix+userID.String()); err != nil {
		c.logger.Warn("ai config cache invalidation failed", zap.Error(err), zap.String("user_id", userID.String()))
	}
}
