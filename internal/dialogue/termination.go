package dialogue

import (
	"strings"

	"github.com/lmarchetti/voicesim/internal/catalog"
)

// Action is the verdict of the termination heuristics after a turn.
type Action int

const (
	// ActionContinue keeps the conversation in progress.
	ActionContinue Action = iota
	// ActionClose moves to CLOSING: one final responder turn, then COMPLETE.
	ActionClose
	// ActionStop moves directly to COMPLETE with no further turns.
	ActionStop
)

// Reason records which heuristic produced a non-continue verdict.
// Resolution is credited only for ReasonSatisfied.
type Reason string

const (
	ReasonNone             Reason = ""
	ReasonTurnLimit        Reason = "turn_limit"
	ReasonSatisfied        Reason = "customer_satisfied"
	ReasonSignOff          Reason = "agent_sign_off"
	ReasonResolutionLikely Reason = "resolution_likely"
)

// Verdict is the outcome of one heuristic evaluation.
type Verdict struct {
	Action Action
	Reason Reason
}

// Heuristics holds the lexical tables driving early termination. The tables
// are tuned for an English/Hinglish mix; other language mixes need their own
// tables rather than a silent generalization.
type Heuristics struct {
	// Satisfaction phrases on the customer's latest turn move to CLOSING.
	Satisfaction []string
	// SignOff phrases on the support agent's latest turn end immediately.
	SignOff []string
	// Positive and Solution markers feed the soft early-exit heuristic.
	Positive []string
	Solution []string
}

// DefaultHeuristics returns the stock lexical tables.
func DefaultHeuristics() Heuristics {
	return Heuristics{
		Satisfaction: []string{
			"thank you", "thanks", "perfect", "great", "that works",
			"appreciate", "helpful", "solved", "fixed", "awesome",
			"wonderful", "excellent", "that's fine", "okay then",
		},
		SignOff: []string{
			"anything else", "have a great day", "thank you for calling",
			"goodbye", "take care", "resolved", "have a nice day",
			"is there anything else", "glad i could help",
		},
		Positive: []string{"understand", "help", "sure", "definitely", "absolutely"},
		Solution: []string{"will", "can", "let me", "i'll"},
	}
}

// Decide evaluates the termination heuristics against the turn history, in
// fixed order: hard turn cap, customer satisfaction, agent sign-off, then the
// soft resolution-likely check once the minimum turn count is reached. It is
// a pure function of its inputs.
func (h Heuristics) Decide(turns []Turn, cfg Config) Verdict {
	if len(turns) == 0 {
		return Verdict{Action: ActionContinue, Reason: ReasonNone}
	}
	last := turns[len(turns)-1]

	if len(turns) >= 2*cfg.MaxTurns {
		return Verdict{Action: ActionClose, Reason: ReasonTurnLimit}
	}
	if last.Speaker == catalog.RoleCustomer && containsAny(last.Text, h.Satisfaction) {
		return Verdict{Action: ActionClose, Reason: ReasonSatisfied}
	}
	if last.Speaker == catalog.RoleSupport && containsAny(last.Text, h.SignOff) {
		return Verdict{Action: ActionStop, Reason: ReasonSignOff}
	}
	if len(turns) >= cfg.MinTurns && h.resolutionLikely(turns) {
		return Verdict{Action: ActionClose, Reason: ReasonResolutionLikely}
	}
	return Verdict{Action: ActionContinue, Reason: ReasonNone}
}

// resolutionLikely scores the last three turns for solution-oriented
// language; two or more indicators suggest the exchange is winding down.
func (h Heuristics) resolutionLikely(turns []Turn) bool {
	if len(turns) < 2 {
		return false
	}
	recent := turns
	if len(recent) > 3 {
		recent = recent[len(recent)-3:]
	}
	indicators := 0
	for _, t := range recent {
		if containsAny(t.Text, h.Positive) {
			indicators++
		}
		if containsAny(t.Text, h.Solution) {
			indicators++
		}
	}
	return indicators >= 2
}

func containsAny(text string, phrases []string) bool {
	lower := strings.ToLower(text)
	for _, p := range phrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
