package coordination

import (
	"context"
	"sort"
	"sync"
	"time"
)

// InMemoryStore is a single-process store for tests and local runs. It keeps
// the same atomic read-modify-write contract as the durable backends but
// obviously offers no cross-process durability.
type InMemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*memorySession
}

type memorySession struct {
	roles     map[string]Role
	touchedAt time.Time
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{sessions: make(map[string]*memorySession)}
}

func (s *InMemoryStore) Update(ctx context.Context, sessionID string, fn func(roles map[string]Role) (map[string]Role, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		sess = &memorySession{roles: make(map[string]Role)}
		s.sessions[sessionID] = sess
	}

	updated, err := fn(cloneRoles(sess.roles))
	if err != nil {
		return err
	}
	sess.roles = cloneRoles(updated)
	sess.touchedAt = time.Now().UTC()
	return nil
}

func (s *InMemoryStore) Snapshot(_ context.Context, sessionID string) (map[string]Role, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return map[string]Role{}, nil
	}
	return cloneRoles(sess.roles), nil
}

func (s *InMemoryStore) Prune(_ context.Context, maxAge time.Duration, keep int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().UTC().Add(-maxAge)
	for id, sess := range s.sessions {
		if sess.touchedAt.Before(cutoff) {
			delete(s.sessions, id)
		}
	}

	if keep > 0 && len(s.sessions) > keep {
		type aged struct {
			id string
			at time.Time
		}
		all := make([]aged, 0, len(s.sessions))
		for id, sess := range s.sessions {
			all = append(all, aged{id: id, at: sess.touchedAt})
		}
		sort.Slice(all, func(i, j int) bool { return all[i].at.After(all[j].at) })
		for _, a := range all[keep:] {
			delete(s.sessions, a.id)
		}
	}
	return nil
}

func (s *InMemoryStore) Close() error { return nil }
