package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"MODERATION_SECRET", "SQLITE_PATH", "LISTEN_ADDR", "PUBLIC_DIR",
		"RESET_INTERVAL_HOURS", "PHOTO_MAX_BYTES", "SNAPSHOT_LIMIT",
		"LOG_LEVEL", "CONFIG_ENV_PATH",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadRequiresModerationSecret(t *testing.T) {
	clearEnv(t)

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MODERATION_SECRET")
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("MODERATION_SECRET", "sesame")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sesame", cfg.ModerationSecret)
	assert.Equal(t, "./ads.db", cfg.SQLitePath)
	assert.Equal(t, ":3000", cfg.ListenAddr)
	assert.Equal(t, 24*time.Hour, cfg.ResetInterval)
	assert.Equal(t, 2<<20, cfg.PhotoMaxBytes)
	assert.Equal(t, 100, cfg.SnapshotLimit)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("MODERATION_SECRET", "sesame")
	t.Setenv("SQLITE_PATH", "/data/ads.db")
	t.Setenv("LISTEN_ADDR", ":8080")
	t.Setenv("RESET_INTERVAL_HOURS", "1")
	t.Setenv("PHOTO_MAX_BYTES", "1024")
	t.Setenv("SNAPSHOT_LIMIT", "10")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/data/ads.db", cfg.SQLitePath)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, time.Hour, cfg.ResetInterval)
	assert.Equal(t, 1024, cfg.PhotoMaxBytes)
	assert.Equal(t, 10, cfg.SnapshotLimit)
}
