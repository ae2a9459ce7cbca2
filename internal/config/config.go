package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ulule/limiter/v3"
)

const (
	// DefaultMaxRequestBytes caps request bodies at 10MB
	DefaultMaxRequestBytes = 10 << 20
	// DefaultRateLimit is the per-client relay request rate, in ulule format
	DefaultRateLimit = "10-M"
)

// Config holds the relay's configuration
type Config struct {
	ServerPort          string
	GrokAPIKey          string
	AIProvider          string
	AIModel             string
	AIBaseURL           string
	AITemperature       float64
	NormalizeEngagement bool
	AllowedOrigins      []string
	RateLimit           string
	RedisURL            string
	MaxRequestBytes     int64
	EnableHSTS          bool
	ServerDebugMode     bool
	OTELEnabled         bool
	OTELEndpoint        string
}

// Load loads configuration from environment variables.
// GROK_API_KEY is required; the relay must not start without it.
func Load() (*Config, error) {
	cfg := &Config{
		ServerPort:          getEnv("PORT", getEnv("SERVER_PORT", "3000")),
		GrokAPIKey:          getEnv("GROK_API_KEY", ""),
		AIProvider:          getEnv("AI_PROVIDER", "grok"),
		AIModel:             getEnv("AI_MODEL", "grok-4"),
		AIBaseURL:           getEnv("AI_BASE_URL", "https://api.x.ai/v1"),
		AITemperature:       getEnvFloat("AI_TEMPERATURE", 0.7),
		NormalizeEngagement: getEnvBool("NORMALIZE_ENGAGEMENT", false),
		AllowedOrigins:      getEnvList("ALLOWED_ORIGINS"),
		RateLimit:           getEnv("RATE_LIMIT", DefaultRateLimit),
		RedisURL:            getEnv("REDIS_URL", ""),
		MaxRequestBytes:     getEnvInt64("MAX_REQUEST_BYTES", DefaultMaxRequestBytes),
		EnableHSTS:          getEnvBool("ENABLE_HSTS", false),
		ServerDebugMode:     getEnvBool("SERVER_DEBUG_MODE", false),
		OTELEnabled:         getEnvBool("OTEL_ENABLED", false),
		OTELEndpoint:        getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}

	if cfg.GrokAPIKey == "" {
		return nil, fmt.Errorf("GROK_API_KEY is required")
	}

	if _, err := limiter.NewRateFromFormatted(cfg.RateLimit); err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT %q: %w", cfg.RateLimit, err)
	}

	if cfg.MaxRequestBytes <= 0 {
		return nil, fmt.Errorf("MAX_REQUEST_BYTES must be positive, got %d", cfg.MaxRequestBytes)
	}

	return cfg, nil
}

// ProviderConfig returns the settings map handed to the AI provider factory
func (c *Config) ProviderConfig() map[string]string {
	return map[string]string{
		"api_key":              c.GrokAPIKey,
		"base_url":             c.AIBaseURL,
		"model":                c.AIModel,
		"temperature":          strconv.FormatFloat(c.AITemperature, 'f', -1, 64),
		"normalize_engagement": strconv.FormatBool(c.NormalizeEngagement),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvList splits a comma-separated variable, dropping blanks
func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
