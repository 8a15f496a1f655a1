package coordination

import (
	"errors"
	"fmt"
	"time"

	"github.com/lmarchetti/voicesim/internal/catalog"
)

// Role is one of the two mutually exclusive sides of a session.
type Role string

const (
	// RoleInitiator opens the conversation (the customer side).
	RoleInitiator Role = "initiator"
	// RoleResponder answers the call (the support side).
	RoleResponder Role = "responder"
)

// rolePriority is the fixed assignment order: the first worker to claim a
// slot becomes the initiator.
var rolePriority = []Role{RoleInitiator, RoleResponder}

// PersonaRole maps a session role onto the persona/voice role domain.
func (r Role) PersonaRole() catalog.Role {
	if r == RoleResponder {
		return catalog.RoleSupport
	}
	return catalog.RoleCustomer
}

// Assignment records one worker's role in a session.
type Assignment struct {
	SessionID  string    `json:"session_id"`
	WorkerID   string    `json:"worker_id"`
	Role       Role      `json:"role"`
	AssignedAt time.Time `json:"assigned_at"`
}

// ErrLockTimeout reports that the coordination lock could not be acquired
// within its bound. Callers degrade to a deterministic fallback role.
var ErrLockTimeout = errors.New("coordination lock timeout")

// RoleConflictError is fatal for the worker that triggered it: both roles
// were already held by other workers.
type RoleConflictError struct {
	SessionID string
	WorkerID  string
}

func (e *RoleConflictError) Error() string {
	return fmt.Sprintf("role conflict: session %q already has both roles assigned, worker %q must not proceed", e.SessionID, e.WorkerID)
}
