package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

const testSeed = `
categories:
  - id: 1
    name: Dev
bookmarks:
  - id: 1
    title: Go Blog
    url: https://go.dev/blog
    categoryId: 1
    clickCount: 12
  - id: 2
    title: Go Docs
    url: https://go.dev/doc
    description: language documentation
    categoryId: 1
    clickCount: 40
`

func newTestServer(t *testing.T) *Server {
	t.Helper()
	seed := filepath.Join(t.TempDir(), "seed.yaml")
	if err := os.WriteFile(seed, []byte(testSeed), 0o644); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	srv, err := New(Config{Addr: ":0", SeedPath: seed, Version: "test"}, zerolog.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return srv
}

func TestNewRejectsEmptyAddr(t *testing.T) {
	t.Parallel()
	_, err := New(Config{SeedPath: "seed.yaml"}, zerolog.Nop())
	if err == nil {
		t.Fatal("expected error for empty addr")
	}
}

func TestBootstrapPayloadKeys(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/bootstrap", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"apiBaseUrl", "theme", "user", "csrfToken", "language", "version"} {
		if _, ok := got[key]; !ok {
			t.Errorf("payload missing %q", key)
		}
	}
	var token string
	if err := json.Unmarshal(got["csrfToken"], &token); err != nil || token != srv.CSRFToken() {
		t.Errorf("csrfToken = %q, want %q", token, srv.CSRFToken())
	}
}

func TestSuggestRanksByClicks(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/suggest?q=go", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Suggestions []struct {
			Title string `json:"title"`
		} `json:"suggestions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(body.Suggestions) != 2 {
		t.Fatalf("got %d suggestions, want 2", len(body.Suggestions))
	}
	if body.Suggestions[0].Title != "Go Docs" {
		t.Errorf("first suggestion = %q, want most-clicked first", body.Suggestions[0].Title)
	}
}

func TestSuggestRejectsBadLimit(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/suggest?q=go&limit=zero", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestClickRequiresCSRFToken(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	router := srv.Router()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/websites/1/click", nil))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("without token: status = %d, want 403", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/websites/1/click", nil)
	req.Header.Set("X-CSRF-Token", "wrong")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("wrong token: status = %d, want 403", rec.Code)
	}
}

func TestClickIncrementsCount(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	router := srv.Router()

	req := httptest.NewRequest(http.MethodPost, "/api/websites/1/click", nil)
	req.Header.Set("X-CSRF-Token", srv.CSRFToken())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var body struct {
		ClickCount int64 `json:"clickCount"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.ClickCount != 13 {
		t.Errorf("clickCount = %d, want 13", body.ClickCount)
	}
}

func TestClickUnknownID(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/websites/99/click", nil)
	req.Header.Set("X-CSRF-Token", srv.CSRFToken())
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "ok") {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
}
