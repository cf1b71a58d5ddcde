package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/foodgram/backend/internal/service"
)

// isolate points the config at a throwaway SQLite file.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("CI", "true")
	t.Setenv("ENV_FILE", filepath.Join(dir, "missing.env"))
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_NAME", filepath.Join(dir, "admin.db"))
	t.Setenv("JWT_SECRET", "admin-test-secret")
	t.Setenv("LOG_LEVEL", "error")
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestMigrateAndLoad(t *testing.T) {
	dir := isolate(t)
	seed := filepath.Join(dir, "ingredients.csv")
	require.NoError(t, os.WriteFile(seed, []byte("name,measurement_unit\nsalt,g\nmilk,ml\n"), 0o600))

	out, err := execute(t, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "up to date")

	out, err = execute(t, "load", "ingredients", seed)
	require.NoError(t, err)
	assert.Equal(t, "ingredients: 2 read, 2 created\n", out)

	out, err = execute(t, "load", "ingredients", seed)
	require.NoError(t, err)
	assert.Equal(t, "ingredients: 2 read, 0 created\n", out)

	_, err = execute(t, "load", "tags")
	assert.Error(t, err)
}

func TestTokenCommand(t *testing.T) {
	isolate(t)

	out, err := execute(t, "token", "--username", "cook", "--admin")
	require.NoError(t, err)

	claims, err := service.NewAuthService(nil, "admin-test-secret", zap.NewNop()).ValidateToken(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "cook", claims.Username)
	assert.True(t, claims.IsAdmin)

	_, err = execute(t, "token", "--user-id", "nope")
	assert.Error(t, err)
}
