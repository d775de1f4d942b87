package cli

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"marks-cli/internal/api"
	"marks-cli/internal/bootstrap"
	"marks-cli/internal/config"
	"marks-cli/internal/format"
	"marks-cli/internal/shell"
	"marks-cli/internal/store"
	"marks-cli/internal/tui"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type App struct {
	ConfigPath string
	Server     string
	Format     string
	PrettyJSON bool
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "marks",
		Short:        "Bookmark navigation client (CLI + TUI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  marks

  # Scriptable commands
  marks suggest golang
  marks click 42

  # Run a local server for development
  marks serve --seed seed.yaml
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", envOr("MARKS_CONFIG", ""), "Path to config file (default ~/.marks/config.yaml)")
	cmd.PersistentFlags().StringVar(&app.Server, "server", envOr("MARKS_SERVER", ""), "Server base URL (overrides config)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("MARKS_FORMAT", "json"), "Output format (json|yaml)")

	cmd.AddCommand(newSuggestCmd(app))
	cmd.AddCommand(newClickCmd(app))
	cmd.AddCommand(newCacheCmd(app))
	cmd.AddCommand(newServeCmd(app))
	cmd.AddCommand(newVersionCmd(app))

	return cmd
}

func loadConfig(app *App) (*config.Config, error) {
	path := app.ConfigPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if app.Server != "" {
		cfg.Server = app.Server
	}
	return cfg, nil
}

// fileLogger logs to the configured file. The TUI owns the terminal, so
// without a file the logs go nowhere.
func fileLogger(cfg *config.Config) (zerolog.Logger, func(), error) {
	if cfg.LogFile == "" {
		return zerolog.Nop(), func() {}, nil
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Nop(), func() {}, err
	}
	log := zerolog.New(f).With().Timestamp().Logger()
	return log, func() { _ = f.Close() }, nil
}

func consoleLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()
}

// fetchSession retrieves the bootstrap document and parses it into the
// runtime configuration plus an API client. The local theme preference, if
// set, wins over the server's.
func fetchSession(ctx context.Context, cfg *config.Config) (bootstrap.RuntimeConfig, *api.Client, error) {
	raw, err := api.FetchBootstrap(ctx, cfg.Server)
	if err != nil {
		return bootstrap.RuntimeConfig{}, nil, err
	}
	rc, err := bootstrap.NewBridge().Load(raw)
	if err != nil {
		return bootstrap.RuntimeConfig{}, nil, err
	}
	if cfg.Theme != "" {
		rc.Theme = bootstrap.Theme(cfg.Theme)
	}
	client, err := api.NewClient(rc)
	if err != nil {
		return bootstrap.RuntimeConfig{}, nil, err
	}
	return rc, client, nil
}

func openCache(ctx context.Context, cfg *config.Config) (*store.Cache, error) {
	path := cfg.CachePath
	if path == "" {
		p, err := store.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	return store.Open(ctx, path)
}

func runTUI(app *App) error {
	cfg, err := loadConfig(app)
	if err != nil {
		return err
	}
	log, closeLog, err := fileLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx := context.Background()

	// The cache is best effort: the TUI works without it, it just loses
	// offline fallback.
	cache, cacheErr := openCache(ctx, cfg)
	if cacheErr != nil {
		log.Warn().Err(cacheErr).Msg("offline cache unavailable")
	} else {
		defer cache.Close()
	}

	fetchCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	raw, fetchErr := api.FetchBootstrap(fetchCtx, cfg.Server)
	cancel()

	var backend tui.Backend
	var source store.BookmarkSource
	if fetchErr != nil {
		// Server unreachable: run against the offline cache alone.
		if cache == nil {
			return fetchErr
		}
		log.Warn().Err(fetchErr).Msg("server unreachable, starting offline")
		raw = offlinePayload(cfg)
		backend = tui.OfflineBackend{Cache: cache}
	} else {
		// Parse a throwaway copy of the payload to build the client; the
		// shell loads its own below.
		rc, err := bootstrap.NewBridge().Load(raw)
		if err != nil {
			return err
		}
		client, err := api.NewClient(rc)
		if err != nil {
			return err
		}
		backend = tui.CachedBackend{Live: client, Cache: cache}
		source = client
	}

	sh, err := shell.Start(ctx, shell.Options{
		Payload: raw,
		Cache:   cache,
		Source:  source,
		Log:     log,
	})
	if err != nil {
		return err
	}
	if cfg.Theme != "" {
		sh.Config.Theme = bootstrap.Theme(cfg.Theme)
	}

	return tui.Run(sh, backend, cfg.SuggestLimit)
}

// offlinePayload synthesizes a bootstrap document from local configuration
// so the shell can come up without a server. The CSRF token is a
// placeholder; clicks are rejected offline anyway.
func offlinePayload(cfg *config.Config) []byte {
	theme := cfg.Theme
	if theme == "" {
		theme = "light"
	}
	return []byte(`{"apiBaseUrl":"` + strings.TrimRight(cfg.Server, "/") + `/api","theme":"` + theme + `","csrfToken":"offline"}`)
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}
