package speech

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
)

// NewFailoverSynthesizer builds a synthesizer that prefers the primary backend
// and automatically switches to fallback when primary synthesis fails.
// Once fallback succeeds, it stays active until fallback fails; then primary is retried.
func NewFailoverSynthesizer(primary, fallback Synthesizer, fallbackVoiceID string) Synthesizer {
	return &failoverSynthesizer{
		primary:         primary,
		fallback:        fallback,
		fallbackVoiceID: strings.TrimSpace(fallbackVoiceID),
	}
}

type failoverSynthesizer struct {
	fallbackActive  atomic.Bool
	primary         Synthesizer
	fallback        Synthesizer
	fallbackVoiceID string
}

func (s *failoverSynthesizer) Name() string {
	if s.fallbackActive.Load() {
		return s.fallback.Name()
	}
	return s.primary.Name()
}

func (s *failoverSynthesizer) Synthesize(ctx context.Context, text, voiceID string) ([]byte, error) {
	if s.fallbackActive.Load() {
		audio, fbErr := s.synthesizeFallback(ctx, text, voiceID)
		if fbErr == nil {
			return audio, nil
		}
		// Fallback failed after being active; try primary again.
		audio, prErr := s.primary.Synthesize(ctx, text, voiceID)
		if prErr == nil {
			s.fallbackActive.Store(false)
			return audio, nil
		}
		return nil, fmt.Errorf("fallback failed: %v; primary failed: %w", fbErr, prErr)
	}

	audio, prErr := s.primary.Synthesize(ctx, text, voiceID)
	if prErr == nil {
		return audio, nil
	}
	audio, fbErr := s.synthesizeFallback(ctx, text, voiceID)
	if fbErr != nil {
		return nil, fmt.Errorf("primary failed: %v; fallback failed: %w", prErr, fbErr)
	}
	s.fallbackActive.Store(true)
	return audio, nil
}

func (s *failoverSynthesizer) synthesizeFallback(ctx context.Context, text, voiceID string) ([]byte, error) {
	if s.fallbackVoiceID != "" {
		voiceID = s.fallbackVoiceID
	}
	return s.fallback.Synthesize(ctx, text, voiceID)
}
