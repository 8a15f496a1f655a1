package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	setCoreEnvEmpty(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.BindAddr != ":8080" {
		t.Fatalf("BindAddr = %q, want %q", cfg.BindAddr, ":8080")
	}
	if cfg.CoordinationBackend != "auto" {
		t.Fatalf("CoordinationBackend = %q, want %q", cfg.CoordinationBackend, "auto")
	}
	if cfg.MaxTurns != 5 || cfg.MinTurns != 3 {
		t.Fatalf("turn defaults = %d/%d, want 5/3", cfg.MaxTurns, cfg.MinTurns)
	}
	if cfg.ContextWindow != 6 {
		t.Fatalf("ContextWindow = %d, want 6", cfg.ContextWindow)
	}
	if cfg.CoordinationLockTimeout != 5*time.Second {
		t.Fatalf("CoordinationLockTimeout = %v, want 5s", cfg.CoordinationLockTimeout)
	}
}

func TestLoadRejectsInvalidTurnBounds(t *testing.T) {
	setCoreEnvEmpty(t)
	t.Setenv("CONVERSATION_MAX_TURNS", "2")
	t.Setenv("CONVERSATION_MIN_TURNS", "4")

	if _, err := Load(); err == nil {
		t.Fatalf("Load() should reject min_turns > max_turns")
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	setCoreEnvEmpty(t)
	t.Setenv("COORDINATION_BACKEND", "etcd")

	if _, err := Load(); err == nil {
		t.Fatalf("Load() should reject unknown coordination backend")
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	setCoreEnvEmpty(t)
	t.Setenv("CONVERSATION_TEMPERATURE", "0.4")
	t.Setenv("TURN_TIMEOUT", "10s")
	t.Setenv("COORDINATION_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Temperature != 0.4 {
		t.Fatalf("Temperature = %v, want 0.4", cfg.Temperature)
	}
	if cfg.TurnTimeout != 10*time.Second {
		t.Fatalf("TurnTimeout = %v, want 10s", cfg.TurnTimeout)
	}
	if cfg.CoordinationBackend != "redis" || cfg.RedisAddr != "localhost:6379" {
		t.Fatalf("redis settings not applied: %+v", cfg)
	}
}

func setCoreEnvEmpty(t *testing.T) {
	t.Helper()
	keys := []string{
		"APP_BIND_ADDR",
		"APP_SHUTDOWN_TIMEOUT",
		"APP_SESSION_INACTIVITY_TIMEOUT",
		"APP_METRICS_NAMESPACE",
		"APP_ALLOW_ANY_ORIGIN",
		"COORDINATION_BACKEND",
		"COORDINATION_LOCK_TIMEOUT",
		"COORDINATION_MAX_AGE",
		"COORDINATION_MAX_SESSIONS",
		"DATABASE_URL",
		"REDIS_ADDR",
		"REDIS_PASSWORD",
		"REDIS_DB",
		"TEXT_PROVIDER",
		"OPENAI_API_KEY",
		"OPENAI_BASE_URL",
		"OPENAI_MODEL",
		"SPEECH_PROVIDER",
		"ELEVENLABS_API_KEY",
		"ELEVENLABS_BASE_URL",
		"ELEVENLABS_TTS_MODEL_ID",
		"ELEVENLABS_TTS_OUTPUT_FORMAT",
		"TTS_PROVIDER_NAME",
		"VOICE_CATALOG_PATH",
		"PERSONA_DIR",
		"CONVERSATION_MAX_TURNS",
		"CONVERSATION_MIN_TURNS",
		"CONVERSATION_MAX_TOKENS",
		"CONVERSATION_CONTEXT_WINDOW",
		"CONVERSATION_TEMPERATURE",
		"TURN_TIMEOUT",
	}
	for _, key := range keys {
		t.Setenv(key, "")
	}
}
