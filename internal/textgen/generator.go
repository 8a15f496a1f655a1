package textgen

import "context"

// Request carries one utterance-generation call to the provider.
type Request struct {
	SystemInstructions string
	Prompt             string
	Temperature        float64
	MaxTokens          int
}

// Generator produces persona utterances. Implementations may fail or time
// out; the orchestrator owns retry policy.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
	Name() string
}
