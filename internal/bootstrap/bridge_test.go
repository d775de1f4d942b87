package bootstrap

import (
	"errors"
	"testing"
)

func validPayload() []byte {
	return []byte(`{
		"apiBaseUrl": "http://127.0.0.1:8765/api/",
		"theme": "dark",
		"user": {"id": 7, "username": "ada", "role": "admin"},
		"csrfToken": "tok-1",
		"language": "en-US",
		"version": "1.4.0"
	}`)
}

func TestLoad_ValidPayload(t *testing.T) {
	t.Parallel()

	cfg, err := NewBridge().Load(validPayload())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIBaseURL != "http://127.0.0.1:8765/api" {
		t.Fatalf("expected trailing slash trimmed; got %q", cfg.APIBaseURL)
	}
	if cfg.Theme != ThemeDark {
		t.Fatalf("expected dark theme; got %q", cfg.Theme)
	}
	if cfg.User == nil || cfg.User.Username != "ada" || cfg.User.ID != 7 {
		t.Fatalf("unexpected user: %+v", cfg.User)
	}
	if cfg.CSRFToken != "tok-1" || cfg.Language != "en-US" || cfg.Version != "1.4.0" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoad_NullUserMeansAnonymous(t *testing.T) {
	t.Parallel()

	cfg, err := NewBridge().Load([]byte(`{"apiBaseUrl":"http://x","theme":"light","user":null,"csrfToken":"t","language":"en","version":"1"}`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Anonymous() {
		t.Fatalf("expected anonymous session; got user %+v", cfg.User)
	}
}

func TestLoad_MissingAPIBaseURL(t *testing.T) {
	t.Parallel()

	_, err := NewBridge().Load([]byte(`{"csrfToken":"t"}`))
	var ce *ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *ConfigError; got %v", err)
	}
	if ce.Field != "apiBaseUrl" {
		t.Fatalf("expected apiBaseUrl field; got %q", ce.Field)
	}
}

func TestLoad_EmptyCSRFToken(t *testing.T) {
	t.Parallel()

	_, err := NewBridge().Load([]byte(`{"apiBaseUrl":"http://x","csrfToken":"  "}`))
	var ce *ConfigError
	if !errors.As(err, &ce) || ce.Field != "csrfToken" {
		t.Fatalf("expected csrfToken ConfigError; got %v", err)
	}
}

func TestLoad_Garbage(t *testing.T) {
	t.Parallel()

	_, err := NewBridge().Load([]byte(`<!doctype html>`))
	var ce *ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *ConfigError for non-JSON payload; got %v", err)
	}
}

func TestLoad_SecondCallRejected(t *testing.T) {
	t.Parallel()

	b := NewBridge()
	if _, err := b.Load(validPayload()); err != nil {
		t.Fatalf("first Load: %v", err)
	}
	if _, err := b.Load(validPayload()); !errors.Is(err, ErrAlreadyLoaded) {
		t.Fatalf("expected ErrAlreadyLoaded; got %v", err)
	}
}

func TestLoad_FailedLoadDoesNotConsumeBridge(t *testing.T) {
	t.Parallel()

	b := NewBridge()
	if _, err := b.Load([]byte(`{}`)); err == nil {
		t.Fatalf("expected error for empty payload")
	}
	// A failed parse must not count as the one allowed load.
	if _, err := b.Load(validPayload()); err != nil {
		t.Fatalf("Load after failed attempt: %v", err)
	}
}

func TestParseTheme_UnknownFallsBackToLight(t *testing.T) {
	t.Parallel()

	cfg, err := NewBridge().Load([]byte(`{"apiBaseUrl":"http://x","theme":"solarized","csrfToken":"t"}`))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Theme != ThemeLight {
		t.Fatalf("expected light fallback; got %q", cfg.Theme)
	}
}
