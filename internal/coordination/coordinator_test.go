package coordination

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func newTestCoordinator() *Coordinator {
	return NewCoordinator(NewInMemoryStore(), nil, time.Second, time.Hour, 100)
}

func TestAssignRoleExclusivityUnderConcurrency(t *testing.T) {
	for trial := 0; trial < 50; trial++ {
		c := newTestCoordinator()
		ctx := context.Background()

		var wg sync.WaitGroup
		results := make([]Role, 2)
		errs := make([]error, 2)
		workers := []string{"w1", "w2"}

		for i := range workers {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i], errs[i] = c.AssignRole(ctx, "s1", workers[i])
			}(i)
		}
		wg.Wait()

		for i, err := range errs {
			if err != nil {
				t.Fatalf("trial %d: AssignRole(%s) error = %v", trial, workers[i], err)
			}
		}
		if results[0] == results[1] {
			t.Fatalf("trial %d: both workers got role %q", trial, results[0])
		}
	}
}

func TestAssignRoleIdempotent(t *testing.T) {
	c := newTestCoordinator()
	ctx := context.Background()

	first, err := c.AssignRole(ctx, "s1", "w1")
	if err != nil {
		t.Fatalf("AssignRole() error = %v", err)
	}
	if first != RoleInitiator {
		t.Fatalf("first role = %q, want %q", first, RoleInitiator)
	}

	for i := 0; i < 5; i++ {
		again, err := c.AssignRole(ctx, "s1", "w1")
		if err != nil {
			t.Fatalf("repeat AssignRole() error = %v", err)
		}
		if again != first {
			t.Fatalf("repeat role = %q, want %q", again, first)
		}
	}
}

func TestAssignRoleFixedPriorityOrder(t *testing.T) {
	c := newTestCoordinator()
	ctx := context.Background()

	r1, err := c.AssignRole(ctx, "s1", "w1")
	if err != nil {
		t.Fatalf("AssignRole(w1) error = %v", err)
	}
	r2, err := c.AssignRole(ctx, "s1", "w2")
	if err != nil {
		t.Fatalf("AssignRole(w2) error = %v", err)
	}
	if r1 != RoleInitiator || r2 != RoleResponder {
		t.Fatalf("roles = %q/%q, want initiator/responder", r1, r2)
	}
}

func TestAssignRoleThirdWorkerConflicts(t *testing.T) {
	c := newTestCoordinator()
	ctx := context.Background()

	if _, err := c.AssignRole(ctx, "s1", "w1"); err != nil {
		t.Fatalf("AssignRole(w1) error = %v", err)
	}
	if _, err := c.AssignRole(ctx, "s1", "w2"); err != nil {
		t.Fatalf("AssignRole(w2) error = %v", err)
	}

	_, err := c.AssignRole(ctx, "s1", "w3")
	var conflict *RoleConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("AssignRole(w3) error = %v, want RoleConflictError", err)
	}
	if conflict.WorkerID != "w3" || conflict.SessionID != "s1" {
		t.Fatalf("unexpected conflict details: %+v", conflict)
	}
}

func TestAssignRoleIndependentSessions(t *testing.T) {
	c := newTestCoordinator()
	ctx := context.Background()

	r1, err := c.AssignRole(ctx, "s1", "w1")
	if err != nil {
		t.Fatalf("AssignRole() error = %v", err)
	}
	r2, err := c.AssignRole(ctx, "s2", "w1")
	if err != nil {
		t.Fatalf("AssignRole() error = %v", err)
	}
	if r1 != RoleInitiator || r2 != RoleInitiator {
		t.Fatalf("same worker should be initiator in both fresh sessions, got %q/%q", r1, r2)
	}
}

// lockTimeoutStore simulates a contended store whose lock never frees.
type lockTimeoutStore struct {
	InMemoryStore
}

func (s *lockTimeoutStore) Update(context.Context, string, func(map[string]Role) (map[string]Role, error)) error {
	return ErrLockTimeout
}

func (s *lockTimeoutStore) Snapshot(context.Context, string) (map[string]Role, error) {
	return map[string]Role{}, nil
}

func TestAssignRoleLockTimeoutFallsBackToInitiator(t *testing.T) {
	c := NewCoordinator(&lockTimeoutStore{}, nil, 100*time.Millisecond, time.Hour, 100)

	role, err := c.AssignRole(context.Background(), "s1", "w1")
	if err != nil {
		t.Fatalf("AssignRole() error = %v, want degraded success", err)
	}
	if role != RoleInitiator {
		t.Fatalf("fallback role = %q, want %q", role, RoleInitiator)
	}
}

func TestInMemoryStorePruneByAgeAndCount(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		err := s.Update(ctx, id, func(roles map[string]Role) (map[string]Role, error) {
			roles["w"] = RoleInitiator
			return roles, nil
		})
		if err != nil {
			t.Fatalf("Update(%s) error = %v", id, err)
		}
	}

	// Count bound drops the oldest sessions.
	if err := s.Prune(ctx, time.Hour, 2); err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	remaining := 0
	for _, id := range []string{"a", "b", "c"} {
		roles, err := s.Snapshot(ctx, id)
		if err != nil {
			t.Fatalf("Snapshot() error = %v", err)
		}
		if len(roles) > 0 {
			remaining++
		}
	}
	if remaining != 2 {
		t.Fatalf("remaining sessions = %d, want 2", remaining)
	}

	// Age bound of zero drops everything.
	if err := s.Prune(ctx, 0, 0); err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	roles, err := s.Snapshot(ctx, "b")
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if len(roles) != 0 {
		t.Fatalf("expected all sessions pruned, got %v", roles)
	}
}

func TestPersonaRoleMapping(t *testing.T) {
	if RoleInitiator.PersonaRole() != "customer" {
		t.Fatalf("initiator should map to customer")
	}
	if RoleResponder.PersonaRole() != "support" {
		t.Fatalf("responder should map to support")
	}
}
