package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/fifteen-days/pkg/locale"
)

// chdir moves into an empty directory so no stray .env file is read.
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t)
	for _, k := range []string{"PORT", "LOCALE", "DATA_DIR", "CONTENT_FORMAT", "STORAGE_BACKEND", "SESSION_TTL", "LOG_LEVEL", "LEVEL_SCRIPT", "SQLITE_PATH"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, locale.Chinese, cfg.Locale)
	assert.Equal(t, FormatCSV, cfg.ContentFormat)
	assert.Equal(t, BackendMemory, cfg.StorageBackend)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, filepath.Join("data", "levels.yaml"), cfg.LevelScript)
}

func TestLoad_Environment(t *testing.T) {
	chdir(t)
	t.Setenv("LOCALE", "en-US")
	t.Setenv("CONTENT_FORMAT", "SCRIPT")
	t.Setenv("STORAGE_BACKEND", "sqlite")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DATA_DIR", "content")
	t.Setenv("SQLITE_PATH", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, locale.English, cfg.Locale)
	assert.Equal(t, FormatScript, cfg.ContentFormat)
	assert.Equal(t, BackendSQLite, cfg.StorageBackend)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, filepath.Join("content", "sessions.db"), cfg.SQLitePath)
}

func TestLoad_DotEnv(t *testing.T) {
	dir := chdir(t)
	// Setenv restores the originals on cleanup; unset so .env can apply.
	for _, k := range []string{"PORT", "LOCALE"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PORT=9999\nLOCALE=english\n"), 0o644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9999", cfg.Port)
	assert.Equal(t, locale.English, cfg.Locale)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"bad format", "CONTENT_FORMAT", "xml"},
		{"bad backend", "STORAGE_BACKEND", "postgres"},
		{"bad ttl", "SESSION_TTL", "soon"},
		{"negative ttl", "SESSION_TTL", "-1h"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdir(t)
			t.Setenv(tt.key, tt.val)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
