// Package shell assembles the client subsystems in their required startup
// order and owns the background sync task.
package shell

import (
	"context"
	"fmt"
	"time"

	"marks-cli/internal/bootstrap"
	"marks-cli/internal/menu"
	"marks-cli/internal/notify"
	"marks-cli/internal/store"
	"marks-cli/internal/suggest"

	"github.com/rs/zerolog"
)

// Options configures Start. Payload is the raw bootstrap document; it is
// mandatory. Cache and Source are optional: when both are set, Start kicks
// off a one-shot offline sync in the background.
type Options struct {
	Payload []byte
	Cache   *store.Cache
	Source  store.BookmarkSource
	Log     zerolog.Logger

	// Debounce overrides the suggestion debounce interval; zero keeps the
	// default.
	Debounce time.Duration
}

// App holds the fully assembled subsystems. Fields are only valid on an App
// returned by Start without error.
type App struct {
	Config  bootstrap.RuntimeConfig
	Notify  *notify.Center
	Menu    *menu.Controller
	Suggest *suggest.Overlay

	log   zerolog.Logger
	ready bool
}

// Start builds the application. Configuration is loaded first and a config
// failure is fatal: no other subsystem is constructed and the returned App
// is nil. Subsystems come up in a fixed order — config, notifications,
// context menu, suggestions — and only then is the app marked ready.
func Start(ctx context.Context, opts Options) (*App, error) {
	bridge := bootstrap.NewBridge()
	cfg, err := bridge.Load(opts.Payload)
	if err != nil {
		opts.Log.Error().Err(err).Msg("bootstrap failed")
		return nil, fmt.Errorf("shell: %w", err)
	}

	app := &App{
		Config: cfg,
		log:    opts.Log,
	}
	app.Notify = notify.NewCenter(notify.Options{})
	app.Menu = menu.NewController(nil)
	app.Suggest = suggest.NewOverlay(suggest.Options{Debounce: opts.Debounce})
	app.ready = true

	opts.Log.Info().
		Str("server", cfg.APIBaseURL).
		Str("theme", string(cfg.Theme)).
		Bool("signedIn", cfg.User != nil).
		Msg("ready")

	if opts.Cache != nil && opts.Source != nil {
		go app.guard("offline-sync", func() {
			store.Sync(ctx, opts.Cache, opts.Source, opts.Log)
		})
	}
	return app, nil
}

// Ready reports whether startup completed. An App that failed to start is
// never ready.
func (a *App) Ready() bool { return a != nil && a.ready }

// Log returns the logger the app was started with. Presentation layers use
// it so component failures end up in the same sink as startup and sync.
func (a *App) Log() zerolog.Logger { return a.log }

// guard runs fn and converts a panic into a log entry. Background tasks
// must never take the UI down with them.
func (a *App) guard(task string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			a.log.Error().Str("task", task).Interface("panic", r).Msg("background task panicked")
		}
	}()
	fn()
}
