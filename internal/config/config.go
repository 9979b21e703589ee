package config

import (
	"os"
	"strconv"
	"strings"

	"goinsight/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database  DatabaseConfig
	Server    ServerConfig
	Scoring   ScoringConfig
	Profiling ProfilingConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port           string
	Environment    string
	Debug          bool
	AllowedOrigins []string
}

// ScoringConfig holds the immutable composite-score weights
type ScoringConfig struct {
	QualityWeight     float64
	PerformanceWeight float64
	ReliabilityWeight float64
}

// ProfilingConfig holds performance profiling settings
type ProfilingConfig struct {
	Port    string
	Enabled bool
}

// IsDevelopment reports whether the server runs in development mode
func (s ServerConfig) IsDevelopment() bool {
	return s.Environment == "development"
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Database: DatabaseConfig{
			URL:          os.Getenv("DATABASE_URL"),
			MaxOpenConns: getEnvIntOrDefault("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns: getEnvIntOrDefault("DB_MAX_IDLE_CONNS", 5),
		},
		Server: ServerConfig{
			Port:           getEnvOrDefault("PORT", "8080"),
			Environment:    getEnvOrDefault("ENVIRONMENT", "development"),
			Debug:          getEnvBoolOrDefault("DEBUG", true),
			AllowedOrigins: splitAndTrim(getEnvOrDefault("ALLOWED_ORIGINS", "*")),
		},
		Scoring: ScoringConfig{
			QualityWeight:     getEnvFloatOrDefault("SCORE_WEIGHT_QUALITY", 0.4),
			PerformanceWeight: getEnvFloatOrDefault("SCORE_WEIGHT_PERFORMANCE", 0.3),
			ReliabilityWeight: getEnvFloatOrDefault("SCORE_WEIGHT_RELIABILITY", 0.3),
		},
		Profiling: ProfilingConfig{
			Port:    getEnvOrDefault("PPROF_PORT", "6060"),
			Enabled: getEnvBoolOrDefault("PPROF_ENABLED", false),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func validateConfig(config *Config) error {
	if config.Database.URL == "" && !config.Server.IsDevelopment() {
		return errors.ConfigInvalid("DATABASE_URL is required outside development")
	}
	if config.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	w := config.Scoring
	if w.QualityWeight < 0 || w.PerformanceWeight < 0 || w.ReliabilityWeight < 0 {
		return errors.ConfigInvalid("score weights must be non-negative")
	}
	if w.QualityWeight+w.PerformanceWeight+w.ReliabilityWeight == 0 {
		return errors.ConfigInvalid("at least one score weight must be positive")
	}
	return nil
}

func splitAndTrim(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
