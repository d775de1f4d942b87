package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config is the local client configuration: where the server lives and a
// few machine-side knobs. Session state (user, CSRF token, theme) comes
// from the server's bootstrap payload, not from here.
type Config struct {
	// Server is the base URL of the bookmark navigation server.
	Server string `koanf:"server"`
	// Theme optionally overrides the server-advertised theme (light|dark).
	Theme string `koanf:"theme"`
	// CachePath is the offline bookmark cache location.
	CachePath string `koanf:"cachepath"`
	// LogFile receives structured logs from the TUI (stderr is owned by
	// the terminal UI). Empty disables file logging.
	LogFile string `koanf:"logfile"`
	// SuggestLimit caps suggestion results per query.
	SuggestLimit int `koanf:"suggestlimit"`
}

func Default() *Config {
	return &Config{
		Server:       "http://127.0.0.1:8765",
		SuggestLimit: 10,
	}
}

// DefaultPath returns ~/.marks/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".marks", "config.yaml"), nil
}

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (MARKS_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := Default()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// MARKS_SERVER -> server, MARKS_SUGGESTLIMIT -> suggestlimit, etc.
	if err := k.Load(env.Provider("MARKS_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "MARKS_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server) == "" {
		return fmt.Errorf("server is required")
	}
	switch strings.ToLower(strings.TrimSpace(c.Theme)) {
	case "", "light", "dark":
	default:
		return fmt.Errorf("invalid theme %q: must be light or dark", c.Theme)
	}
	if c.SuggestLimit < 0 {
		return fmt.Errorf("suggestlimit must be non-negative")
	}
	return nil
}
