package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmarchetti/voicesim/internal/catalog"
	"github.com/lmarchetti/voicesim/internal/config"
	"github.com/lmarchetti/voicesim/internal/coordination"
	"github.com/lmarchetti/voicesim/internal/dialogue"
	"github.com/lmarchetti/voicesim/internal/httpapi"
	"github.com/lmarchetti/voicesim/internal/observability"
	"github.com/lmarchetti/voicesim/internal/persona"
	"github.com/lmarchetti/voicesim/internal/speech"
	"github.com/lmarchetti/voicesim/internal/textgen"
	"github.com/lmarchetti/voicesim/internal/transport"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	metrics := observability.NewMetrics(cfg.MetricsNamespace)

	ctx := context.Background()
	store, err := coordination.NewStore(ctx, cfg)
	if err != nil {
		log.Fatalf("coordination store init failed: %v", err)
	}
	defer store.Close()

	coordinator := coordination.NewCoordinator(store, metrics,
		cfg.CoordinationLockTimeout, cfg.CoordinationMaxAge, cfg.CoordinationMaxSessions)
	if err := coordinator.PruneStale(ctx); err != nil {
		log.Printf("startup prune failed: %v", err)
	}

	voices := catalog.Default()
	if cfg.CatalogPath != "" {
		voices, err = catalog.LoadFile(cfg.CatalogPath)
		if err != nil {
			log.Fatalf("voice catalog load failed: %v", err)
		}
		log.Printf("voice catalog loaded from %s (%d voices)", cfg.CatalogPath, len(voices.All("")))
	}

	registry, err := persona.LoadRegistry(cfg.PersonaDir)
	if err != nil {
		log.Fatalf("persona registry load failed: %v", err)
	}

	generator, err := textgen.NewGenerator(cfg)
	if err != nil {
		log.Fatalf("text provider init failed: %v", err)
	}
	log.Printf("text provider: %s", generator.Name())

	synth, err := speech.NewSynthesizer(cfg)
	if err != nil {
		log.Fatalf("speech provider init failed: %v", err)
	}
	if synth != nil {
		log.Printf("speech provider: %s", synth.Name())
	} else {
		log.Printf("speech provider: disabled")
	}

	sessions := transport.NewLocalService(cfg.SessionInactivityTimeout)

	orchOpts := dialogue.Options{
		Generator:   generator,
		Synthesizer: synth,
		Voices:      voices,
		Provider:    cfg.TTSProviderName,
		Metrics:     metrics,
	}

	api := httpapi.New(cfg, sessions, coordinator, registry, voices, orchOpts, metrics)
	httpServer := &http.Server{
		Addr:    cfg.BindAddr,
		Handler: api.Router(),
	}

	runCtx, runCancel := context.WithCancel(context.Background())
	defer runCancel()
	sessions.StartJanitor(runCtx, 5*time.Second)
	coordinator.StartJanitor(runCtx, time.Minute)

	go func() {
		log.Printf("server listening on %s", cfg.BindAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Printf("shutdown signal received")

	runCancel()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
		_ = httpServer.Close()
	}

	log.Printf("shutdown complete")
}
