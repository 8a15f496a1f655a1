package coordination

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/lmarchetti/voicesim/internal/observability"
)

// Coordinator hands out mutually exclusive session roles to independently
// launched workers. The persisted role table is the sole source of truth;
// there is no participant-count guessing.
type Coordinator struct {
	store       Store
	metrics     *observability.Metrics
	lockTimeout time.Duration
	maxAge      time.Duration
	maxSessions int
}

func NewCoordinator(store Store, metrics *observability.Metrics, lockTimeout, maxAge time.Duration, maxSessions int) *Coordinator {
	if lockTimeout <= 0 {
		lockTimeout = 5 * time.Second
	}
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	if maxSessions <= 0 {
		maxSessions = 100
	}
	return &Coordinator{
		store:       store,
		metrics:     metrics,
		lockTimeout: lockTimeout,
		maxAge:      maxAge,
		maxSessions: maxSessions,
	}
}

// AssignRole returns the worker's role in the session. Calls are idempotent
// per (sessionID, workerID) and exclusive across workers: no two distinct
// workers ever hold the same role.
//
// A lock that cannot be acquired within the bound degrades to the
// deterministic fallback role (initiator) with a warning; exclusivity is not
// guaranteed for that call. A third distinct worker is a fatal
// RoleConflictError.
func (c *Coordinator) AssignRole(ctx context.Context, sessionID, workerID string) (Role, error) {
	// Advisory fast path: an existing assignment never changes, so a
	// lock-free read is safe for repeat callers.
	if roles, err := c.store.Snapshot(ctx, sessionID); err == nil {
		if role, ok := roles[workerID]; ok {
			return role, nil
		}
	}

	lockCtx, cancel := context.WithTimeout(ctx, c.lockTimeout)
	defer cancel()

	var assigned Role
	err := c.store.Update(lockCtx, sessionID, func(roles map[string]Role) (map[string]Role, error) {
		// Re-read under the lock: the advisory snapshot may be stale.
		if role, ok := roles[workerID]; ok {
			assigned = role
			return roles, nil
		}

		taken := make(map[Role]bool, len(roles))
		for _, role := range roles {
			taken[role] = true
		}
		for _, role := range rolePriority {
			if !taken[role] {
				assigned = role
				roles[workerID] = role
				return roles, nil
			}
		}
		return nil, &RoleConflictError{SessionID: sessionID, WorkerID: workerID}
	})

	if err != nil {
		var conflict *RoleConflictError
		if errors.As(err, &conflict) {
			return "", conflict
		}
		if errors.Is(err, ErrLockTimeout) || errors.Is(err, context.DeadlineExceeded) {
			log.Printf("coordination: lock timeout for session %s, falling back to %s; exclusivity not guaranteed for this call", sessionID, RoleInitiator)
			if c.metrics != nil {
				c.metrics.CoordinationWaits.Inc()
			}
			return RoleInitiator, nil
		}
		return "", err
	}

	if c.metrics != nil {
		c.metrics.RoleAssignments.WithLabelValues(string(assigned)).Inc()
	}
	return assigned, nil
}

// PruneStale drops coordination state beyond the age/count bounds. Called on
// startup and periodically by the janitor.
func (c *Coordinator) PruneStale(ctx context.Context) error {
	return c.store.Prune(ctx, c.maxAge, c.maxSessions)
}

// StartJanitor prunes stale sessions on an interval until ctx is done.
func (c *Coordinator) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := c.PruneStale(ctx); err != nil {
					log.Printf("coordination: prune failed: %v", err)
				}
			}
		}
	}()
}
