package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	PitchSourceAI        = "ai"
	PitchSourceGenerated = "generated"
	PitchSourceDemo      = "demo"

	NarrativeSourceAI    = "ai"
	NarrativeSourceLocal = "local"
)

type APIConfig struct {
	Addr            string
	DatabaseURL     string
	OpenAIKey       string
	OpenAIBaseURL   string
	Model           string
	PitchSource     string
	NarrativeSource string
	SessionTTL      time.Duration
	JanitorEvery    time.Duration
	RetryDelay      time.Duration
	MaxTicket       int64
	EasterEggChance float64
}

type CLIConfig struct {
	APIBaseURL  string
	PitchSource string
}

func LoadAPIFromEnv() (APIConfig, error) {
	addr := os.Getenv("PORT")
	if addr != "" {
		if !strings.HasPrefix(addr, ":") {
			addr = ":" + addr
		}
	} else {
		addr = envDefault("SEEDROUND_API_ADDR", ":8080")
	}

	cfg := APIConfig{
		Addr:            addr,
		DatabaseURL:     strings.TrimSpace(os.Getenv("DATABASE_URL")),
		OpenAIKey:       strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		OpenAIBaseURL:   strings.TrimRight(strings.TrimSpace(os.Getenv("OPENAI_BASE_URL")), "/"),
		Model:           envDefault("SEEDROUND_MODEL", "gpt-4o"),
		PitchSource:     envChoiceDefault("SEEDROUND_PITCH_SOURCE", PitchSourceGenerated, PitchSourceAI, PitchSourceGenerated, PitchSourceDemo),
		NarrativeSource: envChoiceDefault("SEEDROUND_NARRATIVE_SOURCE", NarrativeSourceLocal, NarrativeSourceAI, NarrativeSourceLocal),
		SessionTTL:      envDurationDefault("SEEDROUND_SESSION_TTL", 2*time.Hour),
		JanitorEvery:    envDurationDefault("SEEDROUND_JANITOR_EVERY", 5*time.Minute),
		RetryDelay:      envDurationDefault("SEEDROUND_RETRY_DELAY", time.Second),
		MaxTicket:       envInt64Default("SEEDROUND_MAX_TICKET", 0),
		EasterEggChance: envFloatDefault("SEEDROUND_EASTER_EGG_CHANCE", 0.05),
	}
	if cfg.EasterEggChance < 0 || cfg.EasterEggChance > 1 {
		return cfg, fmt.Errorf("SEEDROUND_EASTER_EGG_CHANCE must be between 0 and 1")
	}
	if cfg.MaxTicket < 0 {
		return cfg, fmt.Errorf("SEEDROUND_MAX_TICKET must not be negative")
	}
	if cfg.JanitorEvery <= 0 {
		return cfg, fmt.Errorf("SEEDROUND_JANITOR_EVERY must be positive")
	}
	if cfg.SessionTTL <= 0 {
		return cfg, fmt.Errorf("SEEDROUND_SESSION_TTL must be positive")
	}
	usesAI := cfg.PitchSource == PitchSourceAI || cfg.NarrativeSource == NarrativeSourceAI
	if usesAI && cfg.OpenAIKey == "" {
		return cfg, fmt.Errorf("OPENAI_API_KEY is required for ai sources")
	}
	return cfg, nil
}

func LoadCLIFromEnv() CLIConfig {
	return CLIConfig{
		APIBaseURL:  strings.TrimRight(envDefault("SR_API_BASE_URL", "http://localhost:8080"), "/"),
		PitchSource: envChoiceDefault("SR_PITCH_SOURCE", PitchSourceGenerated, PitchSourceGenerated, PitchSourceDemo),
	}
}

func envDefault(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func envDurationDefault(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func envFloatDefault(key string, fallback float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func envInt64Default(key string, fallback int64) int64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(strings.ReplaceAll(v, "_", ""), 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func envChoiceDefault(key, fallback string, allowed ...string) string {
	v := strings.ToLower(envDefault(key, ""))
	for _, a := range allowed {
		if v == a {
			return v
		}
	}
	return fallback
}
