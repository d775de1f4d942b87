package bootstrap

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"marks-cli/internal/model"
)

// Theme selects the client palette.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// RuntimeConfig is the typed form of the server's bootstrap payload.
//
// It is constructed once per run by Bridge.Load and is read-only from then
// on: consumers receive it by value and there is no refresh operation. A new
// config only exists after a full restart.
type RuntimeConfig struct {
	APIBaseURL string
	Theme      Theme
	// User is nil for an anonymous session.
	User      *model.User
	CSRFToken string
	Language  string
	Version   string
}

// Anonymous reports whether the session has no signed-in user.
func (c RuntimeConfig) Anonymous() bool { return c.User == nil }

// ConfigError reports a bootstrap payload that cannot support a session.
// It is fatal: without a base URL and CSRF token no authenticated request
// can be issued, so startup must not proceed.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("bootstrap config: %s: %s", e.Field, e.Reason)
}

// ErrAlreadyLoaded is returned when Load is called on a Bridge that has
// already produced a config. The payload is parsed exactly once per run.
var ErrAlreadyLoaded = errors.New("bootstrap: config already loaded")

// Bridge performs the one-shot handoff of server-computed configuration to
// the client runtime.
type Bridge struct {
	loaded bool
}

func NewBridge() *Bridge { return &Bridge{} }

// payload mirrors the server's injected object. Keys are bit-exact; the
// server side must not rename them without a coordinated client change.
type payload struct {
	APIBaseURL string      `json:"apiBaseUrl"`
	Theme      string      `json:"theme"`
	User       *model.User `json:"user"`
	CSRFToken  string      `json:"csrfToken"`
	Language   string      `json:"language"`
	Version    string      `json:"version"`
}

// Load parses the raw bootstrap payload into a RuntimeConfig.
func (b *Bridge) Load(raw []byte) (RuntimeConfig, error) {
	if b.loaded {
		return RuntimeConfig{}, ErrAlreadyLoaded
	}

	var p payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return RuntimeConfig{}, &ConfigError{Field: "payload", Reason: err.Error()}
	}
	if strings.TrimSpace(p.APIBaseURL) == "" {
		return RuntimeConfig{}, &ConfigError{Field: "apiBaseUrl", Reason: "missing or empty"}
	}
	if strings.TrimSpace(p.CSRFToken) == "" {
		return RuntimeConfig{}, &ConfigError{Field: "csrfToken", Reason: "missing or empty"}
	}

	cfg := RuntimeConfig{
		APIBaseURL: strings.TrimRight(strings.TrimSpace(p.APIBaseURL), "/"),
		Theme:      parseTheme(p.Theme),
		CSRFToken:  p.CSRFToken,
		Language:   p.Language,
		Version:    p.Version,
	}
	if p.User != nil {
		u := *p.User
		cfg.User = &u
	}

	b.loaded = true
	return cfg, nil
}

// parseTheme tolerates unknown values: the server may ship themes the client
// doesn't know, and a wrong palette is better than a failed boot.
func parseTheme(s string) Theme {
	if Theme(strings.ToLower(strings.TrimSpace(s))) == ThemeDark {
		return ThemeDark
	}
	return ThemeLight
}
