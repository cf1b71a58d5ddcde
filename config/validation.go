package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors aggregates every problem found in one pass.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, e := range v {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "\n")
}

// ValidateConfig checks if the configuration meets the requirements for its environment
func ValidateConfig(cfg *Config) error {
	var problems ValidationErrors
	add := func(field, msg string) {
		problems = append(problems, ValidationError{Field: field, Message: msg})
	}

	if cfg.ServerPort == "" {
		add("SERVER_PORT", "is required")
	}

	switch cfg.DBDriver {
	case "postgres":
		if cfg.DatabaseURL == "" && (cfg.DBHost == "" || cfg.DBName == "") {
			add("DATABASE_URL", "either DATABASE_URL or DB_HOST and DB_NAME must be set")
		}
	case "sqlite":
		if cfg.DBName == "" {
			add("DB_NAME", "sqlite needs a database file name")
		}
	default:
		add("DB_DRIVER", fmt.Sprintf("unsupported driver %q", cfg.DBDriver))
	}

	if cfg.JWTSecret == "" {
		add("JWT_SECRET", "is required")
	}
	if cfg.RateLimitRequests < 0 {
		add("RATE_LIMIT_REQUESTS", "must not be negative")
	}
	if cfg.RateLimitRequests > 0 && cfg.RateLimitWindow <= 0 {
		add("RATE_LIMIT_WINDOW", "must be positive when rate limiting is enabled")
	}

	if cfg.Environment.IsProduction() {
		if cfg.JWTSecret == defaultJWTSecret {
			add("JWT_SECRET", "development secret must not be used in production")
		}
		if cfg.DBDriver == "postgres" && cfg.DatabaseURL == "" && cfg.DBPassword == "" {
			add("DB_PASSWORD", "db_password secret is required")
		}
		if cfg.S3Bucket == "" {
			add("S3_BUCKET_NAME", "is required")
		}
	}

	if len(problems) > 0 {
		return problems
	}
	return nil
}
