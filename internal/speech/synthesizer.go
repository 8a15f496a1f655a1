package speech

import "context"

// Synthesizer renders one utterance as audio bytes for a catalog voice.
// Synthesis failures degrade the audio track only; transcripts are still
// produced.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voiceID string) ([]byte, error)
	Name() string
}
