package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"marks-cli/internal/bootstrap"
)

func testClient(t *testing.T, h http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := NewClient(bootstrap.RuntimeConfig{APIBaseURL: srv.URL + "/api", CSRFToken: "tok-42"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c, srv
}

func TestClick_AttachesCSRFToken(t *testing.T) {
	t.Parallel()

	var gotToken, gotPath, gotMethod string
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-CSRF-Token")
		gotPath = r.URL.Path
		gotMethod = r.Method
		w.Write([]byte(`{"clickCount": 12}`))
	})

	n, err := c.Click(context.Background(), 3)
	if err != nil {
		t.Fatalf("Click: %v", err)
	}
	if n != 12 {
		t.Fatalf("expected click count 12; got %d", n)
	}
	if gotToken != "tok-42" {
		t.Fatalf("state-mutating request missing CSRF token; got %q", gotToken)
	}
	if gotMethod != http.MethodPost || gotPath != "/api/websites/3/click" {
		t.Fatalf("unexpected request: %s %s", gotMethod, gotPath)
	}
}

func TestSuggest_EmptyTermSkipsRequest(t *testing.T) {
	t.Parallel()

	called := false
	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) { called = true })

	got, err := c.Suggest(context.Background(), "  ", 5)
	if err != nil || got != nil {
		t.Fatalf("expected empty result, no error; got %v, %v", got, err)
	}
	if called {
		t.Fatalf("empty term must not hit the network")
	}
}

func TestSuggest_ParsesResults(t *testing.T) {
	t.Parallel()

	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") != "go" || r.URL.Query().Get("limit") != "2" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		w.Write([]byte(`{"suggestions":[{"title":"Go","url":"https://go.dev","icon":"https://go.dev/favicon.ico"}]}`))
	})

	got, err := c.Suggest(context.Background(), "go", 2)
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Go" || got[0].IconURL != "https://go.dev/favicon.ico" {
		t.Fatalf("unexpected results: %+v", got)
	}
}

func TestDo_NonOKStatus(t *testing.T) {
	t.Parallel()

	c, _ := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	})

	_, err := c.Click(context.Background(), 1)
	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusForbidden {
		t.Fatalf("expected 403 StatusError; got %v", err)
	}
}

func TestNewClient_RejectsRelativeBase(t *testing.T) {
	t.Parallel()

	_, err := NewClient(bootstrap.RuntimeConfig{APIBaseURL: "/api", CSRFToken: "t"})
	if err == nil {
		t.Fatalf("expected error for relative base url")
	}
}

func TestFetchBootstrap(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/bootstrap" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"apiBaseUrl":"x","csrfToken":"t"}`))
	}))
	t.Cleanup(srv.Close)

	raw, err := FetchBootstrap(context.Background(), srv.URL+"/")
	if err != nil {
		t.Fatalf("FetchBootstrap: %v", err)
	}
	if string(raw) != `{"apiBaseUrl":"x","csrfToken":"t"}` {
		t.Fatalf("unexpected payload: %s", raw)
	}
}
