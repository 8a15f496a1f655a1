package transport

import (
	"context"
	"errors"
	"time"

	"github.com/lmarchetti/voicesim/internal/coordination"
)

type Status string

const (
	StatusActive Status = "active"
	StatusEnded  Status = "ended"
)

var ErrNotFound = errors.New("session not found")

// Participant is one worker attached to a session with its assigned role.
type Participant struct {
	WorkerID string            `json:"worker_id"`
	Role     coordination.Role `json:"role"`
	JoinedAt time.Time         `json:"joined_at"`
}

// Session is one scheduled two-party conversation instance. Metadata is the
// opaque persona-pair + turn-limit triple, passed through unmodified.
type Session struct {
	ID             string        `json:"session_id"`
	Metadata       string        `json:"metadata"`
	Status         Status        `json:"status"`
	Participants   []Participant `json:"participants"`
	CreatedAt      time.Time     `json:"created_at"`
	LastActivityAt time.Time     `json:"last_activity_at"`
}

// Service is the session/transport collaborator consumed by the simulator.
// The core needs only these operations.
type Service interface {
	// Create schedules a session carrying the opaque metadata string.
	Create(ctx context.Context, metadata string) (*Session, error)
	// Dispatch attaches a worker to the session under its assigned role.
	Dispatch(ctx context.Context, sessionID, workerID string, role coordination.Role) error
	// Participants enumerates the workers currently attached and their roles.
	Participants(ctx context.Context, sessionID string) ([]Participant, error)
	// Get returns a point-in-time copy of the session.
	Get(ctx context.Context, sessionID string) (*Session, error)
	// Teardown ends the session. Ending an already-ended session is a no-op.
	Teardown(ctx context.Context, sessionID string) error
}
