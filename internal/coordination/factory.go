package coordination

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/lmarchetti/voicesim/internal/config"
)

// NewStore selects the coordination backend from config: postgres when a
// database URL is set, redis when a redis address is set, otherwise
// in-memory. An explicit backend name overrides the auto selection.
func NewStore(ctx context.Context, cfg config.Config) (Store, error) {
	backend := strings.ToLower(strings.TrimSpace(cfg.CoordinationBackend))

	switch backend {
	case "postgres":
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("COORDINATION_BACKEND=postgres requires DATABASE_URL")
		}
		return NewPostgresStore(ctx, cfg.DatabaseURL)
	case "redis":
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("COORDINATION_BACKEND=redis requires REDIS_ADDR")
		}
		return newRedisFromConfig(cfg), nil
	case "memory":
		return NewInMemoryStore(), nil
	case "", "auto":
		if cfg.DatabaseURL != "" {
			return NewPostgresStore(ctx, cfg.DatabaseURL)
		}
		if cfg.RedisAddr != "" {
			return newRedisFromConfig(cfg), nil
		}
		return NewInMemoryStore(), nil
	default:
		return nil, fmt.Errorf("invalid coordination backend: %q", cfg.CoordinationBackend)
	}
}

func newRedisFromConfig(cfg config.Config) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	return NewRedisStore(client, cfg.CoordinationMaxAge)
}
