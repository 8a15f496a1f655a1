package dialogue

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/lmarchetti/voicesim/internal/catalog"
	"github.com/lmarchetti/voicesim/internal/observability"
	"github.com/lmarchetti/voicesim/internal/persona"
	"github.com/lmarchetti/voicesim/internal/speech"
	"github.com/lmarchetti/voicesim/internal/textgen"
)

type turnStage int

const (
	stageNormal turnStage = iota
	stageOpening
	stageClosing
)

// Options wires the orchestrator's collaborators. Generator is required;
// everything else degrades gracefully when absent.
type Options struct {
	Generator   textgen.Generator
	Synthesizer speech.Synthesizer
	Voices      *catalog.Catalog
	Provider    string // catalog provider used for voice selection
	Metrics     *observability.Metrics
	Heuristics  *Heuristics
	OnTurn      func(conv *Conversation, turn Turn)
}

// Orchestrator drives one bounded two-party conversation per Run call. Each
// instance runs single-threaded with at most one generation call in flight;
// run independent conversations on independent goroutines.
type Orchestrator struct {
	generator textgen.Generator
	synth     speech.Synthesizer
	voices    *catalog.Catalog
	provider  string
	metrics   *observability.Metrics
	heur      Heuristics
	onTurn    func(conv *Conversation, turn Turn)
}

func NewOrchestrator(opts Options) (*Orchestrator, error) {
	if opts.Generator == nil {
		return nil, fmt.Errorf("dialogue: text generator is required")
	}
	heur := DefaultHeuristics()
	if opts.Heuristics != nil {
		heur = *opts.Heuristics
	}
	return &Orchestrator{
		generator: opts.Generator,
		synth:     opts.Synthesizer,
		voices:    opts.Voices,
		provider:  opts.Provider,
		metrics:   opts.Metrics,
		heur:      heur,
		onTurn:    opts.OnTurn,
	}, nil
}

// Run generates a complete conversation between the initiator (customer) and
// responder (support) personas. It always returns the conversation, even on
// failure or cancellation, with the partial transcript retained.
func (o *Orchestrator) Run(ctx context.Context, sessionID string, initiator, responder persona.Persona, cfg Config) (*Conversation, *Metrics, error) {
	if initiator.Role != catalog.RoleCustomer {
		return nil, nil, fmt.Errorf("dialogue: initiator persona %q has role %q, want customer", initiator.ID, initiator.Role)
	}
	if responder.Role != catalog.RoleSupport {
		return nil, nil, fmt.Errorf("dialogue: responder persona %q has role %q, want support", responder.ID, responder.Role)
	}
	cfg = cfg.withDefaults()

	scenario := initiator.Name
	if scenario == "" {
		scenario = initiator.ID
	}
	conv := newConversation(sessionID, initiator.ID, responder.ID, scenario, cfg)
	metrics := &Metrics{
		ConversationID: conv.ID,
		TextProvider:   o.generator.Name(),
		StartedAt:      time.Now(),
	}
	if o.synth != nil {
		metrics.SpeechProvider = o.synth.Name()
	}
	if o.metrics != nil {
		o.metrics.ActiveConversations.Inc()
		defer o.metrics.ActiveConversations.Dec()
	}

	initiatorVoice := o.voiceFor(initiator)
	responderVoice := o.voiceFor(responder)

	log.Printf("conversation %s: scenario %q (%s vs %s, max_turns=%d)",
		conv.ID, scenario, initiator.ID, responder.ID, cfg.MaxTurns)

	// Turn 0: the responder greets.
	if err := o.takeTurn(ctx, conv, metrics, responder, responderVoice, stageOpening); err != nil {
		return o.finish(conv, metrics, err)
	}
	conv.State = StateInProgress

	for conv.State == StateInProgress {
		if err := ctx.Err(); err != nil {
			return o.finish(conv, metrics, err)
		}

		// Initiator's turn.
		if err := o.takeTurn(ctx, conv, metrics, initiator, initiatorVoice, stageNormal); err != nil {
			return o.finish(conv, metrics, err)
		}
		if done, err := o.evaluate(ctx, conv, metrics, responder, responderVoice); done || err != nil {
			return o.finish(conv, metrics, err)
		}

		// Responder's turn.
		if err := o.takeTurn(ctx, conv, metrics, responder, responderVoice, stageNormal); err != nil {
			return o.finish(conv, metrics, err)
		}
		if done, err := o.evaluate(ctx, conv, metrics, responder, responderVoice); done || err != nil {
			return o.finish(conv, metrics, err)
		}
	}

	return o.finish(conv, metrics, nil)
}

// evaluate runs the termination heuristics after a turn. On a close verdict
// it appends the single courtesy turn and completes; on a stop verdict it
// completes immediately.
func (o *Orchestrator) evaluate(ctx context.Context, conv *Conversation, metrics *Metrics, responder persona.Persona, responderVoice string) (bool, error) {
	verdict := o.heur.Decide(conv.Turns, conv.Config)
	switch verdict.Action {
	case ActionContinue:
		return false, nil
	case ActionStop:
		log.Printf("conversation %s: ending (%s)", conv.ID, verdict.Reason)
		conv.State = StateComplete
		return true, nil
	case ActionClose:
		log.Printf("conversation %s: closing (%s)", conv.ID, verdict.Reason)
		if verdict.Reason == ReasonSatisfied {
			conv.ResolutionAchieved = true
		}
		conv.State = StateClosing
		if err := o.takeTurn(ctx, conv, metrics, responder, responderVoice, stageClosing); err != nil {
			return true, err
		}
		conv.State = StateComplete
		return true, nil
	}
	return false, nil
}

// takeTurn generates one utterance for the persona, appends it as a turn and
// synthesizes audio when a voice is available. Audio failures degrade the
// audio track only.
func (o *Orchestrator) takeTurn(ctx context.Context, conv *Conversation, metrics *Metrics, p persona.Persona, voiceID string, stage turnStage) error {
	history := FormatContext(conv.Turns, conv.Config.ContextWindow)

	var system, prompt string
	if p.Role == catalog.RoleCustomer {
		system, prompt = BuildCustomerPrompt(p, history)
	} else {
		system, prompt = BuildSupportPrompt(p, history, stage == stageOpening, stage == stageClosing)
	}

	start := time.Now()
	text, err := o.generateWithRetry(ctx, conv.Config.TurnTimeout, textgen.Request{
		SystemInstructions: system,
		Prompt:             prompt,
		Temperature:        conv.Config.Temperature,
		MaxTokens:          conv.Config.MaxTokens,
	})
	if err != nil {
		return fmt.Errorf("generate %s turn %d: %w", p.Role, len(conv.Turns), err)
	}
	latency := time.Since(start)

	turn := conv.appendTurn(p.Role, text, latency)
	metrics.addTurnLatency(turn.LatencyMS)
	log.Printf("conversation %s: [%d] %s: %s", conv.ID, turn.Sequence, p.Role, text)

	if o.synth != nil && voiceID != "" {
		audio, synthErr := o.synth.Synthesize(ctx, text, voiceID)
		if synthErr != nil {
			log.Printf("conversation %s: audio for turn %d failed: %v", conv.ID, turn.Sequence, synthErr)
			if o.metrics != nil {
				o.metrics.ProviderErrors.WithLabelValues(o.synth.Name(), "synthesis").Inc()
			}
		} else {
			turn.Audio = audio
			turn.AudioRef = fmt.Sprintf("%s/turn-%03d.mp3", conv.ID, turn.Sequence)
			metrics.TotalAudioBytes += len(audio)
		}
	}

	if o.metrics != nil {
		o.metrics.Turns.WithLabelValues(string(p.Role)).Inc()
		o.metrics.ObserveTurnLatency(latency)
	}
	if o.onTurn != nil {
		o.onTurn(conv, *turn)
	}
	return nil
}

// generateWithRetry issues one generation call with a per-turn timeout and
// retries once on failure. Parent cancellation is never retried.
func (o *Orchestrator) generateWithRetry(ctx context.Context, timeout time.Duration, req textgen.Request) (string, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, timeout)
		text, err := o.generator.Generate(callCtx, req)
		cancel()
		if err == nil && strings.TrimSpace(text) != "" {
			return strings.TrimSpace(text), nil
		}
		if err == nil {
			err = errors.New("empty generation")
		}
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		lastErr = err
		if o.metrics != nil {
			o.metrics.ProviderErrors.WithLabelValues(o.generator.Name(), "generation").Inc()
		}
		if attempt == 0 {
			log.Printf("generation failed, retrying once: %v", err)
		}
	}
	return "", lastErr
}

// voiceFor resolves the synthesizable voice for a persona. A missing voice is
// fatal for audio only: the transcript is still produced.
func (o *Orchestrator) voiceFor(p persona.Persona) string {
	if o.synth == nil {
		return ""
	}
	if p.VoiceID != "" {
		return p.VoiceID
	}
	if o.voices == nil {
		return ""
	}
	voice, tier, err := o.voices.Select(o.provider, p.Languages, p.Accent, p.Gender, p.Role)
	if err != nil {
		log.Printf("persona %s: no voice available, audio disabled: %v", p.ID, err)
		return ""
	}
	if o.metrics != nil {
		o.metrics.VoiceSelections.WithLabelValues(string(tier)).Inc()
	}
	return voice.ID
}

// finish stamps the terminal state and aggregates. A nil error with a
// non-terminal state means the loop ended normally and the conversation is
// complete.
func (o *Orchestrator) finish(conv *Conversation, metrics *Metrics, err error) (*Conversation, *Metrics, error) {
	switch {
	case err == nil:
		if !conv.State.Terminal() {
			conv.State = StateComplete
		}
	case errors.Is(err, context.Canceled):
		conv.State = StateCancelled
		conv.FailureReason = "cancelled by caller"
	default:
		conv.State = StateFailed
		conv.FailureReason = err.Error()
	}
	conv.CompletedAt = time.Now()
	metrics.finalize(conv)

	if o.metrics != nil {
		o.metrics.Conversations.WithLabelValues(strings.ToLower(string(conv.State))).Inc()
	}
	log.Printf("conversation %s: %s after %d turns (resolution=%t)",
		conv.ID, conv.State, len(conv.Turns), conv.ResolutionAchieved)
	return conv, metrics, err
}
