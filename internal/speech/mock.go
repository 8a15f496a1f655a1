package speech

import (
	"context"
	"fmt"
)

// MockSynthesizer produces a deterministic placeholder payload without
// calling any provider. Used for offline runs and tests.
type MockSynthesizer struct{}

func NewMockSynthesizer() *MockSynthesizer { return &MockSynthesizer{} }

func (*MockSynthesizer) Name() string { return "mock" }

func (*MockSynthesizer) Synthesize(ctx context.Context, text, voiceID string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return []byte(fmt.Sprintf("mock-audio:%s:%d", voiceID, len(text))), nil
}
