package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultJWTSecret = "insecure-development-secret"

// Config holds all configuration for the application
type Config struct {
	Environment Environment

	// Server configuration
	ServerHost  string
	ServerPort  string
	CORSOrigins []string

	// Database configuration. DatabaseURL wins over the discrete fields.
	DBDriver      string
	DatabaseURL   string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string
	MigrationsDir string

	// Redis configuration
	RedisURL      string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// JWT configuration
	JWTSecret string

	// Recipe image storage
	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3PublicURL string

	LogLevel string

	// Recipe write rate limit
	RateLimitWindow   time.Duration
	RateLimitRequests int
}

// sensitive values are read from Docker secrets outside CI
var secretKeys = []string{"db_password", "jwt_secret", "redis_password"}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server_host", "0.0.0.0")
	v.SetDefault("server_port", "8080")
	v.SetDefault("cors_origins", "http://localhost:3000")
	v.SetDefault("db_driver", "postgres")
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_user", "postgres")
	v.SetDefault("db_name", "foodgram")
	v.SetDefault("db_ssl_mode", "disable")
	v.SetDefault("migrations_dir", "migrations")
	v.SetDefault("redis_host", "localhost")
	v.SetDefault("redis_port", "6379")
	v.SetDefault("redis_db", 0)
	v.SetDefault("s3_bucket_name", "foodgram-recipe-images")
	v.SetDefault("aws_region", "us-east-1")
	v.SetDefault("log_level", "info")
	v.SetDefault("rate_limit_window", time.Hour)
	v.SetDefault("rate_limit_requests", 30)
}

// LoadConfig reads configuration from the environment, an optional .env file
// and Docker secrets.
func LoadConfig() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	env := GetEnvironment()
	if env.UsesSecrets() {
		if err := applySecrets(v, secretsDir()); err != nil {
			return nil, err
		}
	}
	if !env.IsProduction() {
		v.SetDefault("jwt_secret", defaultJWTSecret)
	}

	cfg := fromViper(v)
	cfg.Environment = env

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		ServerHost:        v.GetString("server_host"),
		ServerPort:        v.GetString("server_port"),
		CORSOrigins:       splitList(v.GetString("cors_origins")),
		DBDriver:          strings.ToLower(v.GetString("db_driver")),
		DatabaseURL:       v.GetString("database_url"),
		DBHost:            v.GetString("db_host"),
		DBPort:            v.GetString("db_port"),
		DBUser:            v.GetString("db_user"),
		DBPassword:        v.GetString("db_password"),
		DBName:            v.GetString("db_name"),
		DBSSLMode:         v.GetString("db_ssl_mode"),
		MigrationsDir:     v.GetString("migrations_dir"),
		RedisURL:          v.GetString("redis_url"),
		RedisHost:         v.GetString("redis_host"),
		RedisPort:         v.GetString("redis_port"),
		RedisPassword:     v.GetString("redis_password"),
		RedisDB:           v.GetInt("redis_db"),
		JWTSecret:         v.GetString("jwt_secret"),
		S3Bucket:          v.GetString("s3_bucket_name"),
		S3Region:          v.GetString("aws_region"),
		S3Endpoint:        v.GetString("s3_endpoint"),
		S3PublicURL:       v.GetString("s3_public_url"),
		LogLevel:          v.GetString("log_level"),
		RateLimitWindow:   v.GetDuration("rate_limit_window"),
		RateLimitRequests: v.GetInt("rate_limit_requests"),
	}
}

// DSN returns the postgres connection string.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

func loadDotEnv() error {
	path := os.Getenv("ENV_FILE")
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func secretsDir() string {
	if dir := os.Getenv("SECRETS_DIR"); dir != "" {
		return dir
	}
	return "/run/secrets"
}

// applySecrets overrides sensitive keys with Docker secret files when present.
func applySecrets(v *viper.Viper, dir string) error {
	for _, name := range secretKeys {
		value, err := readSecret(dir, name)
		if err != nil {
			return err
		}
		if value != "" {
			v.Set(name, value)
		}
	}
	return nil
}

// readSecret reads a Docker secret. A missing file is not an error.
func readSecret(dir, name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read secret %s: %w", name, err)
	}
	return strings.TrimSpace(string(data)), nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
