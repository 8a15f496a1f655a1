package textgen

import (
	"fmt"
	"strings"

	"github.com/lmarchetti/voicesim/internal/config"
)

// NewGenerator builds the configured text backend: openai when a key is
// present, otherwise the scripted offline generator.
func NewGenerator(cfg config.Config) (Generator, error) {
	mode := strings.ToLower(strings.TrimSpace(cfg.TextProvider))
	switch mode {
	case "openai":
		return NewOpenAIGenerator(OpenAIConfig{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.OpenAIModel,
		})
	case "scripted":
		return NewScriptedGenerator(nil, ""), nil
	case "", "auto":
		if cfg.OpenAIAPIKey != "" {
			return NewOpenAIGenerator(OpenAIConfig{
				APIKey:  cfg.OpenAIAPIKey,
				BaseURL: cfg.OpenAIBaseURL,
				Model:   cfg.OpenAIModel,
			})
		}
		return NewScriptedGenerator(nil, ""), nil
	default:
		return nil, fmt.Errorf("invalid TEXT_PROVIDER: %q (expected auto|openai|scripted)", cfg.TextProvider)
	}
}
