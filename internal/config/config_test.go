package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envVars = []string{
	"HP_HOST", "HP_PORT", "HP_DB_PATH", "HP_MAX_UPLOAD_BYTES",
	"HP_OPEN_BROWSER", "HP_REMOVE_RETURN_PATH",
}

func clearEnv(t *testing.T) {
	for _, env := range envVars {
		t.Setenv(env, "")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "localhost:8080", cfg.Address())
	assert.Equal(t, "http://localhost:8080", cfg.URL())
	assert.Equal(t, ":memory:", cfg.DBPath, "Nothing is persisted by default")
	assert.Equal(t, int64(32<<20), cfg.MaxUploadBytes)
	assert.True(t, cfg.Rewrite.RemoveReturnPath)
}

func TestLoad_EnvVarOverrides(t *testing.T) {
	t.Setenv("HP_HOST", "0.0.0.0")
	t.Setenv("HP_PORT", "9090")
	t.Setenv("HP_DB_PATH", "/tmp/hp.db")
	t.Setenv("HP_MAX_UPLOAD_BYTES", "1024")
	t.Setenv("HP_OPEN_BROWSER", "false")
	t.Setenv("HP_REMOVE_RETURN_PATH", "false")

	cfg := Load()

	assert.Equal(t, "0.0.0.0:9090", cfg.Address())
	assert.Equal(t, "/tmp/hp.db", cfg.DBPath)
	assert.Equal(t, int64(1024), cfg.MaxUploadBytes)
	assert.False(t, cfg.OpenBrowser)
	assert.False(t, cfg.Rewrite.RemoveReturnPath)
}

func TestLoad_InvalidEnvValuesIgnored(t *testing.T) {
	clearEnv(t)
	t.Setenv("HP_MAX_UPLOAD_BYTES", "lots")
	t.Setenv("HP_OPEN_BROWSER", "maybe")

	cfg := Load()

	assert.Equal(t, int64(defaultMaxUploadBytes), cfg.MaxUploadBytes)
	assert.True(t, cfg.OpenBrowser)
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
port: "3000"
db_path: ./workspace.db
open_browser: false
rewrite:
  remove_return_path: false
  from_name: Alice
  subject: Redacted
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFromFile(path)

	require.NoError(t, err)
	assert.Equal(t, "localhost", cfg.Host, "Unset keys keep defaults")
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "./workspace.db", cfg.DBPath)
	assert.False(t, cfg.OpenBrowser)
	assert.False(t, cfg.Rewrite.RemoveReturnPath)
	assert.Equal(t, "Alice", cfg.Rewrite.FromName)
	assert.Equal(t, "Redacted", cfg.Rewrite.Subject)
}

func TestLoadFromFile_EnvWins(t *testing.T) {
	clearEnv(t)
	t.Setenv("HP_PORT", "4000")
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: \"3000\"\n"), 0644))

	cfg, err := LoadFromFile(path)

	require.NoError(t, err)
	assert.Equal(t, "4000", cfg.Port)
}

func TestLoadFromFile_Errors(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: [unclosed"), 0644))
	_, err = LoadFromFile(path)
	assert.Error(t, err)
}
