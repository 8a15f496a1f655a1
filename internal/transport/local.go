package transport

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lmarchetti/voicesim/internal/coordination"
)

// LocalService is an in-process Service for single-host runs and tests.
// Inactive sessions are expired by the janitor.
type LocalService struct {
	mu                sync.RWMutex
	sessions          map[string]*Session
	inactivityTimeout time.Duration
	onExpire          func(*Session)
}

func NewLocalService(inactivityTimeout time.Duration) *LocalService {
	if inactivityTimeout <= 0 {
		inactivityTimeout = 2 * time.Minute
	}
	return &LocalService{
		sessions:          make(map[string]*Session),
		inactivityTimeout: inactivityTimeout,
	}
}

// SetExpireHook registers a callback invoked for each session the janitor
// expires.
func (s *LocalService) SetExpireHook(hook func(*Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onExpire = hook
}

func (s *LocalService) Create(_ context.Context, metadata string) (*Session, error) {
	if _, err := ParseSessionMeta(metadata); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	sess := &Session{
		ID:             uuid.NewString(),
		Metadata:       metadata,
		Status:         StatusActive,
		CreatedAt:      now,
		LastActivityAt: now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
	return cloneSession(sess), nil
}

func (s *LocalService) Dispatch(_ context.Context, sessionID, workerID string, role coordination.Role) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return ErrNotFound
	}
	for i := range sess.Participants {
		if sess.Participants[i].WorkerID == workerID {
			sess.Participants[i].Role = role
			sess.LastActivityAt = time.Now().UTC()
			return nil
		}
	}
	sess.Participants = append(sess.Participants, Participant{
		WorkerID: workerID,
		Role:     role,
		JoinedAt: time.Now().UTC(),
	})
	sess.LastActivityAt = time.Now().UTC()
	return nil
}

func (s *LocalService) Participants(_ context.Context, sessionID string) ([]Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]Participant(nil), sess.Participants...), nil
}

func (s *LocalService) Get(_ context.Context, sessionID string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneSession(sess), nil
}

func (s *LocalService) Teardown(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return ErrNotFound
	}
	sess.Status = StatusEnded
	sess.LastActivityAt = time.Now().UTC()
	return nil
}

// Touch refreshes the inactivity clock for a live session.
func (s *LocalService) Touch(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return ErrNotFound
	}
	sess.LastActivityAt = time.Now().UTC()
	return nil
}

// ActiveCount reports the number of live sessions.
func (s *LocalService) ActiveCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, sess := range s.sessions {
		if sess.Status == StatusActive {
			count++
		}
	}
	return count
}

// All returns point-in-time copies of every tracked session.
func (s *LocalService) All() []*Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, cloneSession(sess))
	}
	return out
}

// StartJanitor expires inactive sessions on a fixed interval until ctx is
// cancelled.
func (s *LocalService) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.expireInactive()
			}
		}
	}()
}

func (s *LocalService) expireInactive() {
	now := time.Now().UTC()
	var expired []*Session

	s.mu.Lock()
	for _, sess := range s.sessions {
		if sess.Status != StatusActive {
			continue
		}
		if now.Sub(sess.LastActivityAt) < s.inactivityTimeout {
			continue
		}
		sess.Status = StatusEnded
		sess.LastActivityAt = now
		expired = append(expired, cloneSession(sess))
	}
	hook := s.onExpire
	s.mu.Unlock()

	if hook != nil {
		for _, sess := range expired {
			hook(sess)
		}
	}
}

func cloneSession(sess *Session) *Session {
	c := *sess
	c.Participants = append([]Participant(nil), sess.Participants...)
	return &c
}
