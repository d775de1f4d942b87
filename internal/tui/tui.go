package tui

import (
	"context"
	"errors"

	"marks-cli/internal/shell"
	"marks-cli/internal/store"
	"marks-cli/internal/suggest"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the interactive client on an assembled shell. backend serves
// suggestions and click reporting; limit caps suggestion rows.
func Run(sh *shell.App, backend Backend, limit int) error {
	m := newAppModel(sh, backend, limit)
	_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}

// CachedBackend wraps a live backend with the offline cache: suggestion
// fetches that fail fall back to the local snapshot. Clicks are never
// queued offline, a miss is reported to the caller.
type CachedBackend struct {
	Live  Backend
	Cache *store.Cache
}

func (b CachedBackend) Suggest(ctx context.Context, term string, limit int) ([]suggest.Result, error) {
	results, err := b.Live.Suggest(ctx, term, limit)
	if err == nil {
		return results, nil
	}
	if b.Cache == nil {
		return nil, err
	}
	cached, cerr := b.Cache.Suggest(ctx, term, limit)
	if cerr != nil {
		return nil, err
	}
	return cached, nil
}

func (b CachedBackend) Click(ctx context.Context, id int64) (int64, error) {
	return b.Live.Click(ctx, id)
}

// OfflineBackend serves suggestions purely from the cache, for use when no
// server is reachable at startup.
type OfflineBackend struct {
	Cache *store.Cache
}

func (b OfflineBackend) Suggest(ctx context.Context, term string, limit int) ([]suggest.Result, error) {
	return b.Cache.Suggest(ctx, term, limit)
}

func (b OfflineBackend) Click(context.Context, int64) (int64, error) {
	return 0, errors.New("offline: click not recorded")
}
