package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)

	require.Equal(t, 22, cfg.Port)
	require.Equal(t, []string{"mpv", "{url}"}, cfg.PlayerCommand)
	require.NotEmpty(t, cfg.DownloadDir)
}

func TestLoadFileValues(t *testing.T) {
	p := writeConfig(t, `{
		"host": "media.example.com",
		"user": "alice",
		"base_path": "/videos",
		"base_url": "https://media.example.com/v",
		"port": 2222,
		"player_command": ["vlc", "{url}"]
	}`)

	cfg, err := Load(p)
	require.NoError(t, err)
	require.Equal(t, "media.example.com", cfg.Host)
	require.Equal(t, 2222, cfg.Port)
	require.Equal(t, []string{"vlc", "{url}"}, cfg.PlayerCommand)
	require.NoError(t, cfg.Validate())
}

func TestEnvOverridesBeatFileValues(t *testing.T) {
	p := writeConfig(t, `{"host": "file-host", "user": "file-user", "base_path": "/file", "port": 2222}`)

	t.Setenv("LIBRARY_PLAYER_HOST", "env-host")
	t.Setenv("LIBRARY_PLAYER_PORT", "2200")
	t.Setenv("LIBRARY_PLAYER_BASE_PATH", "/env")

	cfg, err := Load(p)
	require.NoError(t, err)
	require.Equal(t, "env-host", cfg.Host)
	require.Equal(t, 2200, cfg.Port)
	require.Equal(t, "/env", cfg.BasePath)
	require.Equal(t, "file-user", cfg.User, "fields without overrides keep file values")
}

func TestBadJSON(t *testing.T) {
	p := writeConfig(t, `{not json`)
	_, err := Load(p)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	require.Error(t, cfg.Validate())

	cfg.Host = "h"
	require.Error(t, cfg.Validate())

	cfg.User = "u"
	require.Error(t, cfg.Validate())

	cfg.BasePath = "/videos"
	require.NoError(t, cfg.Validate())
}
