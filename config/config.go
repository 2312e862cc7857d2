package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
)

const envPrefix = "LIBRARY_PLAYER_"

// Config holds user-facing settings persisted to disk as JSON.
// Resolution order is flags > environment > file > defaults.
type Config struct {
	// Host and User identify the SSH server holding the media library.
	Host string `json:"host"`
	Port int    `json:"port,omitempty"`
	User string `json:"user"`

	// KeyFile is an explicit private key path. When empty, the
	// ssh-agent and default keys under ~/.ssh are tried.
	KeyFile string `json:"key_file,omitempty"`

	// KnownHostsFile overrides ~/.ssh/known_hosts.
	KnownHostsFile string `json:"known_hosts_file,omitempty"`

	// BasePath is the remote directory whose first entry is the
	// session's security hash.
	BasePath string `json:"base_path"`

	// BaseURL is the HTTP prefix playable URLs are built from, as
	// base_url/hash/relative_path.
	BaseURL string `json:"base_url"`

	// PlayerCommand is the argv template used to launch the external
	// player; every "{url}" token is replaced with the playable URL.
	PlayerCommand []string `json:"player_command,omitempty"`

	// DownloadDir is where fetched videos and subtitles land.
	DownloadDir string `json:"download_dir,omitempty"`

	LogLevel string `json:"log_level,omitempty"`
}

// configDir returns the platform-appropriate config directory:
//
//	Linux/macOS: ~/.config/library-player
//	Windows:     %APPDATA%\library-player
func configDir() (string, error) {
	if runtime.GOOS == "windows" {
		appdata := os.Getenv("APPDATA")
		if appdata == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			appdata = filepath.Join(home, "AppData", "Roaming")
		}
		return filepath.Join(appdata, "library-player"), nil
	}

	// XDG on Linux / macOS.
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "library-player"), nil
}

// Path returns the full path to the config JSON file.
func Path() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from path, or from the default location when
// path is empty. A missing file yields a zero config (not an error);
// env overrides and defaults are applied either way.
func Load(path string) (*Config, error) {
	var cfg Config

	if path == "" {
		p, err := Path()
		if err == nil {
			path = p
		}
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := json.Unmarshal(data, &cfg); err != nil {
				return nil, err
			}
		case errors.Is(err, os.ErrNotExist):
			// fresh install, keep zero config
		default:
			return nil, err
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return &cfg, nil
}

// Save writes the config to disk, creating the directory if needed.
func Save(cfg *Config) error {
	p, err := Path()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	return os.WriteFile(p, data, 0o644)
}

func (c *Config) applyEnv() {
	if v := os.Getenv(envPrefix + "HOST"); v != "" {
		c.Host = v
	}
	if v := os.Getenv(envPrefix + "PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Port = port
		}
	}
	if v := os.Getenv(envPrefix + "USER"); v != "" {
		c.User = v
	}
	if v := os.Getenv(envPrefix + "KEY_FILE"); v != "" {
		c.KeyFile = v
	}
	if v := os.Getenv(envPrefix + "KNOWN_HOSTS"); v != "" {
		c.KnownHostsFile = v
	}
	if v := os.Getenv(envPrefix + "BASE_PATH"); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv(envPrefix + "BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv(envPrefix + "DOWNLOAD_DIR"); v != "" {
		c.DownloadDir = v
	}
	if v := os.Getenv(envPrefix + "LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}

func (c *Config) applyDefaults() {
	if c.Port == 0 {
		c.Port = 22
	}
	if len(c.PlayerCommand) == 0 {
		c.PlayerCommand = []string{"mpv", "{url}"}
	}
	if c.DownloadDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			c.DownloadDir = filepath.Join(home, "Downloads")
		}
	}
}

// Validate checks the fields every remote operation needs.
func (c *Config) Validate() error {
	if c.Host == "" {
		return errors.New("host is required (config file or " + envPrefix + "HOST)")
	}
	if c.User == "" {
		return errors.New("user is required (config file or " + envPrefix + "USER)")
	}
	if c.BasePath == "" {
		return errors.New("base_path is required (config file or " + envPrefix + "BASE_PATH)")
	}
	return nil
}
