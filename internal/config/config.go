package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultDBPath         = "./dev.db"
	defaultPort           = "8080"
	defaultGeminiModel    = "gemini-2.5-flash"
	defaultLogLevel       = "info"
	defaultInsightTimeout = 30 * time.Second
	defaultInsightTTL     = 24 * time.Hour
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	Port          string
	DBPath        string
	SessionSecret string
	LogLevel      string

	GeminiAPIKey string
	GeminiModel  string

	InsightTimeout  time.Duration
	InsightCacheTTL time.Duration

	// Warnings collected while loading, logged by the caller once logging
	// is configured.
	Warnings []string
}

// InsightEnabled reports whether a narrative-generation credential is configured.
func (c Config) InsightEnabled() bool {
	return c.GeminiAPIKey != ""
}

// Load reads environment variables and returns a populated Config.
func Load() Config {
	var warnings []string

	// Best-effort: production injects real environment variables.
	if err := loadDotEnv(".env"); err != nil {
		warnings = append(warnings, fmt.Sprintf("failed to read .env: %v", err))
	}

	cfg := Config{
		Port:          getenv("PORT", defaultPort),
		DBPath:        getenv("DB_PATH", defaultDBPath),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		LogLevel:      getenv("LOG_LEVEL", defaultLogLevel),
		GeminiAPIKey:  getenv("GEMINI_API_KEY", os.Getenv("API_KEY")),
		GeminiModel:   getenv("GEMINI_MODEL", defaultGeminiModel),
	}
	cfg.InsightTimeout = getDuration("INSIGHT_TIMEOUT", defaultInsightTimeout, &warnings)
	cfg.InsightCacheTTL = getDuration("INSIGHT_CACHE_TTL", defaultInsightTTL, &warnings)

	if cfg.SessionSecret == "" {
		warnings = append(warnings, "SESSION_SECRET is not set, using a per-process secret")
		cfg.SessionSecret = randomSecret()
	}
	if !cfg.InsightEnabled() {
		warnings = append(warnings, "GEMINI_API_KEY is not set, AI insight is disabled")
	}

	cfg.Warnings = warnings
	return cfg
}

// loadDotEnv loads KEY=VALUE pairs into the process environment without
// overwriting variables that already exist. A missing file is not an error.
func loadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration, warnings *[]string) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		*warnings = append(*warnings, fmt.Sprintf("invalid duration %s=%q, using default %s", key, raw, fallback))
		return fallback
	}
	return d
}

func randomSecret() string {
	buf := make([]byte, 32)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}
