package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config contains all runtime settings for the conversation simulator.
type Config struct {
	BindAddr         string
	ShutdownTimeout  time.Duration
	MetricsNamespace string

	AllowAnyOrigin bool

	// Coordination store selection: auto|postgres|redis|memory.
	CoordinationBackend string
	DatabaseURL         string
	RedisAddr           string
	RedisPassword       string
	RedisDB             int

	CoordinationLockTimeout time.Duration
	CoordinationMaxAge      time.Duration
	CoordinationMaxSessions int

	SessionInactivityTimeout time.Duration

	TextProvider  string
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	SpeechProvider         string
	ElevenLabsAPIKey       string
	ElevenLabsBaseURL      string
	ElevenLabsModel        string
	ElevenLabsOutputFormat string

	TTSProviderName string

	CatalogPath string
	PersonaDir  string

	MaxTurns      int
	MinTurns      int
	Temperature   float64
	MaxTokens     int
	ContextWindow int
	TurnTimeout   time.Duration
}

// Load reads environment variables and applies safe defaults.
func Load() (Config, error) {
	cfg := Config{
		BindAddr:            envOrDefault("APP_BIND_ADDR", ":8080"),
		MetricsNamespace:    envOrDefault("APP_METRICS_NAMESPACE", "voicesim"),
		AllowAnyOrigin:      false,
		CoordinationBackend: envOrDefault("COORDINATION_BACKEND", "auto"),
		DatabaseURL:         stringsTrimSpace("DATABASE_URL"),
		RedisAddr:           stringsTrimSpace("REDIS_ADDR"),
		RedisPassword:       stringsTrimSpace("REDIS_PASSWORD"),
		RedisDB:             0,
		TextProvider:        envOrDefault("TEXT_PROVIDER", "auto"),
		OpenAIAPIKey:        stringsTrimSpace("OPENAI_API_KEY"),
		OpenAIBaseURL:       stringsTrimSpace("OPENAI_BASE_URL"),
		OpenAIModel:         envOrDefault("OPENAI_MODEL", "gpt-4o-mini"),
		SpeechProvider:      envOrDefault("SPEECH_PROVIDER", "auto"),
		ElevenLabsAPIKey:    stringsTrimSpace("ELEVENLABS_API_KEY"),
		ElevenLabsBaseURL:   envOrDefault("ELEVENLABS_BASE_URL", "https://api.elevenlabs.io"),
		ElevenLabsModel:     envOrDefault("ELEVENLABS_TTS_MODEL_ID", "eleven_multilingual_v2"),
		// Low-bitrate MP3 keeps batch artifacts small.
		ElevenLabsOutputFormat: envOrDefault("ELEVENLABS_TTS_OUTPUT_FORMAT", "mp3_44100_128"),
		// TTSProviderName selects the catalog slice used for voice lookup.
		TTSProviderName: envOrDefault("TTS_PROVIDER_NAME", "cartesia"),
		CatalogPath:     stringsTrimSpace("VOICE_CATALOG_PATH"),
		PersonaDir:      stringsTrimSpace("PERSONA_DIR"),

		MaxTurns:      5,
		MinTurns:      3,
		Temperature:   0.8,
		MaxTokens:     150,
		ContextWindow: 6,

		ShutdownTimeout:          15 * time.Second,
		SessionInactivityTimeout: 2 * time.Minute,
		CoordinationLockTimeout:  5 * time.Second,
		CoordinationMaxAge:       time.Hour,
		CoordinationMaxSessions:  100,
		TurnTimeout:              30 * time.Second,
	}

	var err error
	cfg.ShutdownTimeout, err = durationFromEnv("APP_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.SessionInactivityTimeout, err = durationFromEnv("APP_SESSION_INACTIVITY_TIMEOUT", cfg.SessionInactivityTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.CoordinationLockTimeout, err = durationFromEnv("COORDINATION_LOCK_TIMEOUT", cfg.CoordinationLockTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.CoordinationMaxAge, err = durationFromEnv("COORDINATION_MAX_AGE", cfg.CoordinationMaxAge)
	if err != nil {
		return Config{}, err
	}
	cfg.CoordinationMaxSessions, err = intFromEnv("COORDINATION_MAX_SESSIONS", cfg.CoordinationMaxSessions)
	if err != nil {
		return Config{}, err
	}
	cfg.TurnTimeout, err = durationFromEnv("TURN_TIMEOUT", cfg.TurnTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.RedisDB, err = intFromEnv("REDIS_DB", cfg.RedisDB)
	if err != nil {
		return Config{}, err
	}
	cfg.MaxTurns, err = intFromEnv("CONVERSATION_MAX_TURNS", cfg.MaxTurns)
	if err != nil {
		return Config{}, err
	}
	cfg.MinTurns, err = intFromEnv("CONVERSATION_MIN_TURNS", cfg.MinTurns)
	if err != nil {
		return Config{}, err
	}
	cfg.MaxTokens, err = intFromEnv("CONVERSATION_MAX_TOKENS", cfg.MaxTokens)
	if err != nil {
		return Config{}, err
	}
	cfg.ContextWindow, err = intFromEnv("CONVERSATION_CONTEXT_WINDOW", cfg.ContextWindow)
	if err != nil {
		return Config{}, err
	}
	cfg.Temperature, err = floatFromEnv("CONVERSATION_TEMPERATURE", cfg.Temperature)
	if err != nil {
		return Config{}, err
	}
	cfg.AllowAnyOrigin, err = boolFromEnv("APP_ALLOW_ANY_ORIGIN", cfg.AllowAnyOrigin)
	if err != nil {
		return Config{}, err
	}

	if cfg.MaxTurns <= 0 {
		return Config{}, fmt.Errorf("CONVERSATION_MAX_TURNS must be positive")
	}
	if cfg.MinTurns < 0 || cfg.MinTurns > cfg.MaxTurns {
		return Config{}, fmt.Errorf("CONVERSATION_MIN_TURNS must be in [0, CONVERSATION_MAX_TURNS]")
	}
	if cfg.ContextWindow <= 0 {
		return Config{}, fmt.Errorf("CONVERSATION_CONTEXT_WINDOW must be positive")
	}
	if cfg.Temperature < 0 || cfg.Temperature > 2 {
		return Config{}, fmt.Errorf("CONVERSATION_TEMPERATURE must be in [0, 2]")
	}
	if cfg.CoordinationLockTimeout < 100*time.Millisecond {
		return Config{}, fmt.Errorf("COORDINATION_LOCK_TIMEOUT must be at least 100ms")
	}
	if cfg.CoordinationMaxSessions <= 0 {
		return Config{}, fmt.Errorf("COORDINATION_MAX_SESSIONS must be positive")
	}
	switch strings.ToLower(cfg.CoordinationBackend) {
	case "auto", "postgres", "redis", "memory":
	default:
		return Config{}, fmt.Errorf("invalid COORDINATION_BACKEND: %q (expected auto|postgres|redis|memory)", cfg.CoordinationBackend)
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func stringsTrimSpace(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return d, nil
}

func intFromEnv(key string, fallback int) (int, error) {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return n, nil
}

func floatFromEnv(key string, fallback float64) (float64, error) {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return f, nil
}

func boolFromEnv(key string, fallback bool) (bool, error) {
	v := strings.ToLower(stringsTrimSpace(key))
	if v == "" {
		return fallback, nil
	}
	switch v {
	case "1", "true", "t", "yes", "y", "on":
		return true, nil
	case "0", "false", "f", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("%s parse error: expected bool", key)
	}
}
