package dialogue

import (
	"time"

	"github.com/google/uuid"

	"github.com/lmarchetti/voicesim/internal/catalog"
)

// State is the lifecycle stage of one conversation. FAILED and CANCELLED are
// reachable from any non-terminal state.
type State string

const (
	StateOpening    State = "OPENING"
	StateInProgress State = "IN_PROGRESS"
	StateClosing    State = "CLOSING"
	StateComplete   State = "COMPLETE"
	StateFailed     State = "FAILED"
	StateCancelled  State = "CANCELLED"
)

// Terminal reports whether the state admits no further turns.
func (s State) Terminal() bool {
	switch s {
	case StateComplete, StateFailed, StateCancelled:
		return true
	}
	return false
}

// Turn is one utterance by one role. Turns are appended only by the
// orchestrator and never mutated after creation.
type Turn struct {
	Sequence  int          `json:"sequence"`
	Speaker   catalog.Role `json:"speaker"`
	Text      string       `json:"text"`
	Timestamp time.Time    `json:"timestamp"`
	LatencyMS float64      `json:"latency_ms"`
	AudioRef  string       `json:"audio_ref,omitempty"`

	Audio []byte `json:"-"`
}

// Config bounds one conversation. Zero values are replaced by defaults.
type Config struct {
	MaxTurns      int           `json:"max_turns"`
	MinTurns      int           `json:"min_turns"`
	Temperature   float64       `json:"temperature"`
	MaxTokens     int           `json:"max_tokens"`
	ContextWindow int           `json:"context_window"`
	TurnTimeout   time.Duration `json:"turn_timeout"`
}

func (c Config) withDefaults() Config {
	if c.MaxTurns <= 0 {
		c.MaxTurns = 5
	}
	if c.MinTurns <= 0 {
		c.MinTurns = 3
	}
	if c.MinTurns > c.MaxTurns {
		c.MinTurns = c.MaxTurns
	}
	if c.Temperature <= 0 {
		c.Temperature = 0.8
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = 150
	}
	if c.ContextWindow <= 0 {
		c.ContextWindow = 6
	}
	if c.TurnTimeout <= 0 {
		c.TurnTimeout = 30 * time.Second
	}
	return c
}

// Conversation is the full record of one bounded two-party exchange.
type Conversation struct {
	ID                 string    `json:"id"`
	SessionID          string    `json:"session_id,omitempty"`
	InitiatorPersonaID string    `json:"initiator_persona_id"`
	ResponderPersonaID string    `json:"responder_persona_id"`
	Scenario           string    `json:"scenario"`
	Config             Config    `json:"config"`
	State              State     `json:"state"`
	Turns              []Turn    `json:"turns"`
	ResolutionAchieved bool      `json:"resolution_achieved"`
	FailureReason      string    `json:"failure_reason,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
	CompletedAt        time.Time `json:"completed_at,omitempty"`
}

func newConversation(sessionID string, initiator, responder string, scenario string, cfg Config) *Conversation {
	return &Conversation{
		ID:                 uuid.NewString(),
		SessionID:          sessionID,
		InitiatorPersonaID: initiator,
		ResponderPersonaID: responder,
		Scenario:           scenario,
		Config:             cfg,
		State:              StateOpening,
		CreatedAt:          time.Now(),
	}
}

func (c *Conversation) appendTurn(speaker catalog.Role, text string, latency time.Duration) *Turn {
	c.Turns = append(c.Turns, Turn{
		Sequence:  len(c.Turns),
		Speaker:   speaker,
		Text:      text,
		Timestamp: time.Now(),
		LatencyMS: float64(latency.Milliseconds()),
	})
	return &c.Turns[len(c.Turns)-1]
}

// LastTurn returns the most recent turn, or nil before the greeting.
func (c *Conversation) LastTurn() *Turn {
	if len(c.Turns) == 0 {
		return nil
	}
	return &c.Turns[len(c.Turns)-1]
}

// Metrics aggregates counts and latencies for one conversation. Derived by
// the orchestrator; never mutated externally.
type Metrics struct {
	ConversationID     string    `json:"conversation_id"`
	TextProvider       string    `json:"text_provider"`
	SpeechProvider     string    `json:"speech_provider,omitempty"`
	StartedAt          time.Time `json:"started_at"`
	CompletedAt        time.Time `json:"completed_at"`
	TotalTurns         int       `json:"total_turns"`
	InitiatorTurns     int       `json:"initiator_turns"`
	ResponderTurns     int       `json:"responder_turns"`
	ResolutionAchieved bool      `json:"resolution_achieved"`
	TotalAudioBytes    int       `json:"total_audio_bytes"`
	AvgLatencyMS       float64   `json:"avg_latency_ms"`
	MinLatencyMS       float64   `json:"min_latency_ms"`
	MaxLatencyMS       float64   `json:"max_latency_ms"`

	latencies []float64
}

func (m *Metrics) addTurnLatency(latencyMS float64) {
	m.latencies = append(m.latencies, latencyMS)
}

func (m *Metrics) finalize(conv *Conversation) {
	m.CompletedAt = time.Now()
	m.TotalTurns = len(conv.Turns)
	m.InitiatorTurns = 0
	m.ResponderTurns = 0
	for _, t := range conv.Turns {
		if t.Speaker == catalog.RoleCustomer {
			m.InitiatorTurns++
		} else {
			m.ResponderTurns++
		}
	}
	m.ResolutionAchieved = conv.ResolutionAchieved

	if len(m.latencies) == 0 {
		return
	}
	sum := 0.0
	m.MinLatencyMS = m.latencies[0]
	m.MaxLatencyMS = m.latencies[0]
	for _, l := range m.latencies {
		sum += l
		if l < m.MinLatencyMS {
			m.MinLatencyMS = l
		}
		if l > m.MaxLatencyMS {
			m.MaxLatencyMS = l
		}
	}
	m.AvgLatencyMS = sum / float64(len(m.latencies))
}
