package coordination

import (
	"context"
	"time"
)

// Store is the durable shared state behind role coordination. Implementations
// must make Update an atomic read-modify-write under an exclusive
// cross-process lock; Snapshot reads are advisory only.
type Store interface {
	// Update acquires the session's exclusive lock, passes the current role
	// table (worker id -> role) to fn, and persists whatever fn returns.
	// A lock that cannot be acquired within the context deadline yields
	// ErrLockTimeout.
	Update(ctx context.Context, sessionID string, fn func(roles map[string]Role) (map[string]Role, error)) error

	// Snapshot returns the current role table without taking the lock.
	Snapshot(ctx context.Context, sessionID string) (map[string]Role, error)

	// Prune drops sessions older than maxAge and, where the backend tracks
	// it, keeps at most keep of the most recently touched sessions.
	Prune(ctx context.Context, maxAge time.Duration, keep int) error

	Close() error
}

func cloneRoles(roles map[string]Role) map[string]Role {
	out := make(map[string]Role, len(roles))
	for w, r := range roles {
		out[w] = r
	}
	return out
}
