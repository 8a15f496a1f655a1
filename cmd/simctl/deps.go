package main

import (
	"github.com/lmarchetti/voicesim/internal/catalog"
	"github.com/lmarchetti/voicesim/internal/config"
	"github.com/lmarchetti/voicesim/internal/dialogue"
	"github.com/lmarchetti/voicesim/internal/persona"
	"github.com/lmarchetti/voicesim/internal/speech"
	"github.com/lmarchetti/voicesim/internal/textgen"
)

// deps bundles the collaborators every subcommand builds from the
// environment configuration.
type deps struct {
	cfg      config.Config
	voices   *catalog.Catalog
	registry *persona.Registry
	orch     *dialogue.Orchestrator
}

func buildDeps(withAudio bool) (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	voices := catalog.Default()
	if cfg.CatalogPath != "" {
		voices, err = catalog.LoadFile(cfg.CatalogPath)
		if err != nil {
			return nil, err
		}
	}

	registry, err := persona.LoadRegistry(cfg.PersonaDir)
	if err != nil {
		return nil, err
	}

	generator, err := textgen.NewGenerator(cfg)
	if err != nil {
		return nil, err
	}

	var synth speech.Synthesizer
	if withAudio {
		synth, err = speech.NewSynthesizer(cfg)
		if err != nil {
			return nil, err
		}
	}

	orch, err := dialogue.NewOrchestrator(dialogue.Options{
		Generator:   generator,
		Synthesizer: synth,
		Voices:      voices,
		Provider:    cfg.TTSProviderName,
	})
	if err != nil {
		return nil, err
	}

	return &deps{cfg: cfg, voices: voices, registry: registry, orch: orch}, nil
}

func (d *deps) conversationConfig(maxTurns, minTurns int) dialogue.Config {
	cfg := dialogue.Config{
		MaxTurns:      d.cfg.MaxTurns,
		MinTurns:      d.cfg.MinTurns,
		Temperature:   d.cfg.Temperature,
		MaxTokens:     d.cfg.MaxTokens,
		ContextWindow: d.cfg.ContextWindow,
		TurnTimeout:   d.cfg.TurnTimeout,
	}
	if maxTurns > 0 {
		cfg.MaxTurns = maxTurns
	}
	if minTurns > 0 {
		cfg.MinTurns = minTurns
	}
	return cfg
}
