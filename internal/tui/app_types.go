package tui

import (
	"context"
	"time"

	"marks-cli/internal/suggest"
)

// Backend is the slice of the HTTP client the TUI needs. The offline cache
// satisfies the suggestion half, so the two can be composed when the server
// is unreachable.
type Backend interface {
	Suggest(ctx context.Context, term string, limit int) ([]suggest.Result, error)
	Click(ctx context.Context, id int64) (int64, error)
}

// tickMsg is the heartbeat that drives every deadline: toast dismissal,
// the leave animation window, and the suggestion debounce.
type tickMsg struct{ at time.Time }

// suggestDoneMsg carries a finished suggestion fetch. seq must match the
// overlay's latest issued fetch or the payload is discarded.
type suggestDoneMsg struct {
	seq     int
	results []suggest.Result
	err     error
}

// clickDoneMsg reports the click-count round trip for an opened bookmark.
type clickDoneMsg struct {
	title string
	count int64
	err   error
}

// actionDoneMsg reports a context-menu action that ran off-model (clipboard,
// browser).
type actionDoneMsg struct {
	label string
	err   error
}
