package suggest

import (
	"fmt"
	"time"
)

// Result is one suggestion row. ID refers to the server-side bookmark so a
// selection can be reported back through the click API.
type Result struct {
	ID      int64  `json:"id"`
	Title   string `json:"title"`
	URL     string `json:"url"`
	IconURL string `json:"icon,omitempty"`
}

// Status describes the current query.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusPending   Status = "pending"
	StatusFulfilled Status = "fulfilled"
	StatusFailed    Status = "failed"
)

// Fetch is a request the caller must issue. Seq identifies it; a Resolve
// with a stale Seq is discarded, so a slow early response can never clobber
// a newer one (last request wins, not arrival order).
type Fetch struct {
	Seq      int
	Term     string
	IssuedAt time.Time
}

// EventKind labels overlay events for the presentation layer.
type EventKind string

const (
	// EventResults fires whenever the visible result set changes.
	EventResults EventKind = "results"
	EventFailed  EventKind = "failed"
	EventClosed  EventKind = "closed"
)

type Event struct {
	Kind    EventKind
	Term    string
	Results []Result
}

// OutOfRangeError reports a selection index outside the current results.
type OutOfRangeError struct {
	Index int
	Count int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("suggestion index %d out of range (%d results)", e.Index, e.Count)
}

// DefaultDebounce is the quiet interval a term must survive unchanged
// before a fetch is issued.
const DefaultDebounce = 250 * time.Millisecond

// Options configures an Overlay.
type Options struct {
	// Debounce overrides the quiet interval (<=0: default).
	Debounce time.Duration
	// OnEvent observes result/failure/close events. May be nil.
	OnEvent func(Event)
	// OnSelect receives the chosen suggestion. May be nil.
	OnSelect func(index int, r Result)
}

// Overlay owns debounced query issuance, the latest result set, and the
// open/closed state of the suggestion panel. It issues no I/O itself: the
// caller collects due fetches from Advance, performs them, and reports back
// through Resolve. All methods must be called from one goroutine.
type Overlay struct {
	opts Options

	term      string
	changedAt time.Time
	armed     bool

	seq     int // latest issued fetch
	status  Status
	results []Result
	open    bool
}

func NewOverlay(opts Options) *Overlay {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	return &Overlay{opts: opts, status: StatusIdle}
}

// SetQuery updates the current term. An empty term short-circuits to idle
// and clears the panel without any network traffic; in-flight responses for
// earlier terms become stale. A changed non-empty term re-arms the debounce
// clock, as does re-submitting the current term after a failed query.
func (o *Overlay) SetQuery(term string, now time.Time) {
	if term == "" {
		o.term = ""
		o.armed = false
		// Invalidate any outstanding fetch: clearing is semantic
		// cancellation, the response is simply ignored on arrival.
		o.seq++
		o.status = StatusIdle
		o.clearResults()
		o.close()
		return
	}
	if term == o.term {
		// Re-submitting the term that just failed is the user asking for a
		// retry; anything else unchanged stays a no-op.
		if o.status == StatusFailed {
			o.changedAt = now
			o.armed = true
		}
		return
	}
	o.term = term
	o.changedAt = now
	o.armed = true
}

// Advance returns the fetch that became due at now, if any. It marks the
// query pending; the caller must eventually call Resolve with the returned
// Seq.
func (o *Overlay) Advance(now time.Time) *Fetch {
	if !o.armed || now.Sub(o.changedAt) < o.opts.Debounce {
		return nil
	}
	o.armed = false
	o.seq++
	o.status = StatusPending
	return &Fetch{Seq: o.seq, Term: o.term, IssuedAt: now}
}

// Resolve reports the outcome of a fetch. A response whose seq is no longer
// the latest issued is stale and discarded silently; Resolve reports
// whether the response was applied.
func (o *Overlay) Resolve(seq int, results []Result, err error) bool {
	if seq != o.seq {
		return false
	}
	if err != nil {
		// Present an empty/error state. Retry is user-initiated via a
		// fresh SetQuery; the overlay never retries on its own.
		o.status = StatusFailed
		o.clearResults()
		o.open = true
		o.emit(Event{Kind: EventFailed, Term: o.term})
		return true
	}
	o.status = StatusFulfilled
	o.results = append([]Result(nil), results...)
	o.open = true
	o.emit(Event{Kind: EventResults, Term: o.term, Results: o.Results()})
	return true
}

// SelectSuggestion signals the chosen result to the caller and closes the
// panel. An out-of-range index fails and leaves the panel open.
func (o *Overlay) SelectSuggestion(i int) error {
	if i < 0 || i >= len(o.results) {
		return &OutOfRangeError{Index: i, Count: len(o.results)}
	}
	if o.opts.OnSelect != nil {
		o.opts.OnSelect(i, o.results[i])
	}
	o.close()
	return nil
}

// Close dismisses the panel (escape / focus loss). Results and status are
// kept so reopening is cheap. Idempotent.
func (o *Overlay) Close() { o.close() }

func (o *Overlay) close() {
	if !o.open {
		return
	}
	o.open = false
	o.emit(Event{Kind: EventClosed, Term: o.term})
}

func (o *Overlay) clearResults() {
	if len(o.results) == 0 {
		return
	}
	o.results = nil
	o.emit(Event{Kind: EventResults, Term: o.term})
}

// Term returns the current search term.
func (o *Overlay) Term() string { return o.term }

// Status returns the state of the latest query.
func (o *Overlay) Status() Status { return o.status }

// Open reports whether the suggestion panel is displayed.
func (o *Overlay) Open() bool { return o.open }

// Results returns a copy of the visible result set.
func (o *Overlay) Results() []Result {
	return append([]Result(nil), o.results...)
}

func (o *Overlay) emit(e Event) {
	if o.opts.OnEvent != nil {
		o.opts.OnEvent(e)
	}
}
