package coordination

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/lmarchetti/voicesim/internal/reliability"
)

const (
	lockKeyPrefix  = "voicesim:lock:"
	rolesKeyPrefix = "voicesim:roles:"

	// lockTTL bounds how long a crashed holder can block a session.
	lockTTL = 10 * time.Second

	lockRetryBase = 50 * time.Millisecond
	lockRetryCap  = 500 * time.Millisecond
)

// unlockScript deletes the lock only if this process still owns it.
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisStore keeps role tables in Redis. The session lock is a SET NX key
// with a TTL; role tables expire on their own, which covers age pruning.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Update(ctx context.Context, sessionID string, fn func(roles map[string]Role) (map[string]Role, error)) error {
	lockKey := lockKeyPrefix + sessionID
	token := uuid.NewString()

	if err := s.acquireLock(ctx, lockKey, token); err != nil {
		return err
	}
	defer func() {
		// Best-effort release; the TTL reclaims the lock if this fails.
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = unlockScript.Run(releaseCtx, s.client, []string{lockKey}, token).Err()
	}()

	roles, err := s.readRoles(ctx, sessionID)
	if err != nil {
		return err
	}

	updated, err := fn(roles)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(updated)
	if err != nil {
		return fmt.Errorf("marshal role table: %w", err)
	}
	if err := s.client.Set(ctx, rolesKeyPrefix+sessionID, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("persist role table: %w", err)
	}
	return nil
}

// acquireLock retries SET NX with capped exponential backoff until the
// context deadline, never an unbounded spin.
func (s *RedisStore) acquireLock(ctx context.Context, key, token string) error {
	for attempt := 0; ; attempt++ {
		ok, err := s.client.SetNX(ctx, key, token, lockTTL).Result()
		if err != nil {
			if errors.Is(err, context.DeadlineExceeded) {
				return fmt.Errorf("%w: %s", ErrLockTimeout, key)
			}
			return fmt.Errorf("acquire session lock: %w", err)
		}
		if ok {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %s", ErrLockTimeout, key)
		case <-time.After(reliability.ExponentialBackoff(attempt, lockRetryBase, lockRetryCap)):
		}
	}
}

func (s *RedisStore) readRoles(ctx context.Context, sessionID string) (map[string]Role, error) {
	val, err := s.client.Get(ctx, rolesKeyPrefix+sessionID).Result()
	if errors.Is(err, redis.Nil) {
		return make(map[string]Role), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read role table: %w", err)
	}

	var roles map[string]Role
	if err := json.Unmarshal([]byte(val), &roles); err != nil {
		return nil, fmt.Errorf("decode role table: %w", err)
	}
	if roles == nil {
		roles = make(map[string]Role)
	}
	return roles, nil
}

func (s *RedisStore) Snapshot(ctx context.Context, sessionID string) (map[string]Role, error) {
	return s.readRoles(ctx, sessionID)
}

// Prune is a no-op for Redis: role tables carry a TTL, so age-based cleanup
// happens server-side. The count bound is not tracked per key.
func (s *RedisStore) Prune(_ context.Context, _ time.Duration, _ int) error {
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
