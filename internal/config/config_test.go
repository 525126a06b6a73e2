package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "https://graphql.anilist.co", cfg.API.MetadataURL)
	assert.Equal(t, []string{"pahe", "zoro"}, cfg.Providers.Order)
	assert.Equal(t, "sub", cfg.Providers.AudioPreference)
	assert.Equal(t, "mpv", cfg.Player.Backend)
	assert.Equal(t, 24, cfg.UI.EpisodeGroupSize)
	assert.Equal(t, 30*24*time.Hour, cfg.Session.TokenLifetime)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"audio preference", func(c *Config) { c.Providers.AudioPreference = "raw" }},
		{"player backend", func(c *Config) { c.Player.Backend = "vlc" }},
		{"group size", func(c *Config) { c.UI.EpisodeGroupSize = 0 }},
		{"empty proxy url", func(c *Config) { c.API.ProxyURL = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	cfg := Default()
	cfg.Providers.AudioPreference = "DUB"
	assert.NoError(t, cfg.Validate())
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
providers:
  order: [zoro, pahe]
  audio_preference: dub
player:
  backend: print
api:
  timeout: 10s
ui:
  episode_group_size: 12
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, v, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, v)

	assert.Equal(t, path, v.ConfigFileUsed())
	assert.Equal(t, []string{"zoro", "pahe"}, cfg.Providers.Order)
	assert.Equal(t, "dub", cfg.Providers.AudioPreference)
	assert.Equal(t, "print", cfg.Player.Backend)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, 12, cfg.UI.EpisodeGroupSize)
	// untouched keys keep their defaults
	assert.Equal(t, "https://graphql.anilist.co", cfg.API.MetadataURL)
}

func TestLoad_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("player:\n  backend: vlc\n"), 0644))

	_, _, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("MUGIWARA_PLAYER_BACKEND", "browser")

	cfg, v, err := Load("")
	require.NoError(t, err)

	assert.Empty(t, v.ConfigFileUsed())
	assert.Equal(t, "browser", cfg.Player.Backend)
}

func TestSaveDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, SaveDefaultConfig(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "# mugiwara configuration")
	assert.Contains(t, string(data), "backend: mpv")

	cfg, _, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "mpv", cfg.Player.Backend)
	assert.Equal(t, []string{"pahe", "zoro"}, cfg.Providers.Order)
}

func TestDirs(t *testing.T) {
	root := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(root, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(root, "state"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(root, "cache"))

	assert.Equal(t, filepath.Join(root, "config", "mugiwara"), GetConfigDir())
	assert.Equal(t, filepath.Join(root, "data", "mugiwara"), GetDataDir())
	assert.Equal(t, filepath.Join(root, "cache", "mugiwara"), GetCacheDir())

	require.NoError(t, InitializeDirs())
	for _, dir := range []string{GetConfigDir(), GetDataDir(), GetStateDir(), GetCacheDir()} {
		assert.DirExists(t, dir)
	}
}

func TestInitLogger_File(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "logs", "mugiwara.log")
	logger, err := InitLogger(&LoggingConfig{Level: "debug", Format: "json", File: path, MaxSize: 1})
	require.NoError(t, err)

	logger.Debug("episode resolved", "anime_id", 21)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"episode resolved"`)
	assert.Contains(t, string(data), `"anime_id":21`)
}

func TestColoredTextHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewColoredTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	logger.Debug("hidden")
	logger.Warn("provider offline", "provider", "pahe")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "provider offline")
	assert.Contains(t, out, "provider=pahe")
}
