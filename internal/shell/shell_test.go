package shell

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"marks-cli/internal/bootstrap"
	"marks-cli/internal/model"
	"marks-cli/internal/store"

	"github.com/rs/zerolog"
)

const validPayload = `{
	"apiBaseUrl": "http://127.0.0.1:9/api",
	"theme": "dark",
	"csrfToken": "tok-1",
	"language": "en",
	"version": "1.0.0"
}`

func TestStart_AssemblesSubsystems(t *testing.T) {
	t.Parallel()
	app, err := Start(context.Background(), Options{
		Payload: []byte(validPayload),
		Log:     zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !app.Ready() {
		t.Error("app not ready after successful start")
	}
	if app.Notify == nil || app.Menu == nil || app.Suggest == nil {
		t.Error("subsystem left unconstructed")
	}
	if app.Config.APIBaseURL != "http://127.0.0.1:9/api" {
		t.Errorf("APIBaseURL = %q", app.Config.APIBaseURL)
	}
	if app.Config.Theme != bootstrap.ThemeDark {
		t.Errorf("Theme = %q, want dark", app.Config.Theme)
	}
}

func TestStart_ConfigFailureIsFatal(t *testing.T) {
	t.Parallel()
	app, err := Start(context.Background(), Options{
		Payload: []byte(`{"theme": "dark"}`),
		Log:     zerolog.Nop(),
	})
	if err == nil {
		t.Fatal("expected error for payload without apiBaseUrl")
	}
	if app.Ready() {
		t.Error("failed app reports ready")
	}
}

type slowSource struct {
	bookmarks []model.Bookmark
}

func (s slowSource) Bookmarks(context.Context) ([]model.Bookmark, error) {
	return s.bookmarks, nil
}

func TestStart_RunsBackgroundSync(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	cache, err := store.Open(ctx, filepath.Join(t.TempDir(), "cache.sqlite"))
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	defer cache.Close()

	src := slowSource{bookmarks: []model.Bookmark{
		{ID: 1, Title: "Go Blog", URL: "https://go.dev/blog"},
	}}
	app, err := Start(ctx, Options{
		Payload: []byte(validPayload),
		Cache:   cache,
		Source:  src,
		Log:     zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !app.Ready() {
		t.Fatal("app not ready")
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		n, err := cache.Count(ctx)
		if err != nil {
			t.Fatalf("count: %v", err)
		}
		if n == 1 {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("sync never populated cache, count = %d", n)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

type panicSource struct {
	entered chan struct{}
}

func (p panicSource) Bookmarks(context.Context) ([]model.Bookmark, error) {
	close(p.entered)
	panic("source blew up")
}

func TestStart_SurvivesSyncPanic(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	cache, err := store.Open(ctx, filepath.Join(t.TempDir(), "cache.sqlite"))
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	defer cache.Close()

	src := panicSource{entered: make(chan struct{})}
	app, err := Start(ctx, Options{
		Payload: []byte(validPayload),
		Cache:   cache,
		Source:  src,
		Log:     zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	select {
	case <-src.entered:
	case <-time.After(5 * time.Second):
		t.Fatal("background sync never ran")
	}
	// Give the recover a moment; an unrecovered panic would abort the
	// whole test binary.
	time.Sleep(20 * time.Millisecond)
	if !app.Ready() {
		t.Error("app lost readiness after background panic")
	}
}
