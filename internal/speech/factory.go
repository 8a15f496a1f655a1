package speech

import (
	"fmt"
	"strings"

	"github.com/lmarchetti/voicesim/internal/config"
)

// NewSynthesizer builds the configured speech backend: elevenlabs when a key
// is present, otherwise the mock synthesizer.
func NewSynthesizer(cfg config.Config) (Synthesizer, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.SpeechProvider))
	switch mode {
	case "elevenlabs":
		return NewElevenLabsSynthesizer(ElevenLabsConfig{
			APIKey:       cfg.ElevenLabsAPIKey,
			BaseURL:      cfg.ElevenLabsBaseURL,
			ModelID:      cfg.ElevenLabsModel,
			OutputFormat: cfg.ElevenLabsOutputFormat,
		})
	case "mock":
		return NewMockSynthesizer(), nil
	case "none":
		return nil, nil
	case "", "auto":
		if cfg.ElevenLabsAPIKey != "" {
			return NewElevenLabsSynthesizer(ElevenLabsConfig{
				APIKey:       cfg.ElevenLabsAPIKey,
				BaseURL:      cfg.ElevenLabsBaseURL,
				ModelID:      cfg.ElevenLabsModel,
				OutputFormat: cfg.ElevenLabsOutputFormat,
			})
		}
		return NewMockSynthesizer(), nil
	default:
		return nil, fmt.Errorf("invalid SPEECH_PROVIDER: %q (expected auto|elevenlabs|mock|none)", cfg.SpeechProvider)
	}
}
