package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points every external source at an empty temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("CI", "")
	t.Setenv("ENV", "test")
	t.Setenv("SECRETS_DIR", dir)
	t.Setenv("ENV_FILE", filepath.Join(dir, "missing.env"))
	return dir
}

func TestLoadConfig(t *testing.T) {
	isolate(t)
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_USER", "foodgram")
	t.Setenv("DB_NAME", "foodgram_test")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("REDIS_URL", "redis://localhost:6379/1")
	t.Setenv("RATE_LIMIT_WINDOW", "10m")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, Test, cfg.Environment)
	assert.Equal(t, "db", cfg.DBHost)
	assert.Equal(t, "5433", cfg.DBPort)
	assert.Equal(t, "foodgram", cfg.DBUser)
	assert.Equal(t, "foodgram_test", cfg.DBName)
	assert.Equal(t, "test-secret", cfg.JWTSecret)
	assert.Equal(t, "redis://localhost:6379/1", cfg.RedisURL)
	assert.Equal(t, 10*time.Minute, cfg.RateLimitWindow)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
}

func TestLoadConfigWithDefaults(t *testing.T) {
	isolate(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "5432", cfg.DBPort)
	assert.Equal(t, "foodgram", cfg.DBName)
	assert.Equal(t, "disable", cfg.DBSSLMode)
	assert.Equal(t, defaultJWTSecret, cfg.JWTSecret)
	assert.Equal(t, time.Hour, cfg.RateLimitWindow)
	assert.Equal(t, 30, cfg.RateLimitRequests)
}

func TestSecretsOverrideEnvironment(t *testing.T) {
	dir := isolate(t)
	t.Setenv("JWT_SECRET", "from-env")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "jwt_secret"), []byte("from-secret\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "db_password"), []byte("s3cret"), 0o600))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "from-secret", cfg.JWTSecret)
	assert.Equal(t, "s3cret", cfg.DBPassword)
}

func TestCIIgnoresSecrets(t *testing.T) {
	dir := isolate(t)
	t.Setenv("CI", "true")
	t.Setenv("JWT_SECRET", "from-env")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "jwt_secret"), []byte("from-secret"), 0o600))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, CI, cfg.Environment)
	assert.Equal(t, "from-env", cfg.JWTSecret)
}

func TestProductionRequiresSecrets(t *testing.T) {
	isolate(t)
	t.Setenv("ENV", "production")

	_, err := LoadConfig()
	require.Error(t, err)

	var problems ValidationErrors
	require.ErrorAs(t, err, &problems)
	fields := make([]string, 0, len(problems))
	for _, p := range problems {
		fields = append(fields, p.Field)
	}
	assert.Contains(t, fields, "JWT_SECRET")
	assert.Contains(t, fields, "DB_PASSWORD")
}

func TestValidateConfigRejectsUnknownDriver(t *testing.T) {
	err := ValidateConfig(&Config{ServerPort: "8080", DBDriver: "mysql", JWTSecret: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_DRIVER")
}

func TestParseEnvironment(t *testing.T) {
	assert.Equal(t, Production, ParseEnvironment("Production"))
	assert.Equal(t, Test, ParseEnvironment("test"))
	assert.Equal(t, Development, ParseEnvironment(""))
	assert.Equal(t, Development, ParseEnvironment("staging"))
}

func TestDSN(t *testing.T) {
	cfg := &Config{DBHost: "h", DBPort: "1", DBUser: "u", DBPassword: "p", DBName: "n", DBSSLMode: "disable"}
	assert.Equal(t, "host=h port=1 user=u password=p dbname=n sslmode=disable", cfg.DSN())

	cfg.DatabaseURL = "postgres://u:p@h:1/n"
	assert.Equal(t, "postgres://u:p@h:1/n", cfg.DSN())
}

func TestImagePolicy(t *testing.T) {
	s := &S3Config{BucketName: "foodgram-media"}
	policy, err := s.ImagePolicy()
	require.NoError(t, err)
	assert.Contains(t, policy, `"Resource":"arn:aws:s3:::foodgram-media/recipes/images/*"`)
	assert.Contains(t, policy, `"Action":"s3:GetObject"`)
}
