package notify

import "time"

// Kind classifies a notification for the presentation layer.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindWarning Kind = "warning"
	KindInfo    Kind = "info"
)

// State is a step in the notification lifecycle. Transitions for a given
// notification are strictly ordered: pending (only when the visible set is
// full) -> entering -> visible -> leaving -> removed.
type State string

const (
	StatePending  State = "pending"
	StateEntering State = "entering"
	StateVisible  State = "visible"
	StateLeaving  State = "leaving"
	StateRemoved  State = "removed"
)

// Notification is a read-only snapshot handed to the presentation layer.
type Notification struct {
	ID        int64
	Kind      Kind
	Message   string
	CreatedAt time.Time
	State     State
}

// Event reports a single state transition.
type Event struct {
	ID      int64
	Kind    Kind
	Message string
	From    State
	To      State
}

const (
	// DefaultDuration is the auto-dismiss timeout for info/success/warning.
	DefaultDuration = 4 * time.Second
	// ErrorDuration keeps errors on screen long enough to be read
	// deliberately.
	ErrorDuration = 8 * time.Second
	// LeaveWindow is how long a notification stays in leaving before it is
	// removed, giving the presentation layer time for an exit animation.
	LeaveWindow = 250 * time.Millisecond
	// DefaultMaxVisible caps concurrently displayed notifications. Beyond
	// the cap new notifications queue FIFO and are promoted as slots free.
	DefaultMaxVisible = 4
)

type notification struct {
	id        int64
	kind      Kind
	message   string
	createdAt time.Time
	state     State

	// duration is zero for manual-close notifications.
	duration time.Duration
	// dismissAt is set when the notification starts displaying; the
	// auto-dismiss clock does not run while queued.
	dismissAt time.Time
	removeAt  time.Time
}

// Options configures a Center. The zero value is usable.
type Options struct {
	// MaxVisible caps concurrently active notifications (<=0: default).
	MaxVisible int
	// LeaveWindow overrides the exit window (<=0: default).
	LeaveWindow time.Duration
	// OnEvent, if set, observes every state transition. It must not call
	// back into the Center.
	OnEvent func(Event)
}

// Center owns the queue of transient messages and their timing. It holds no
// rendering logic and runs no goroutines: the caller drives time by calling
// Advance. All methods must be called from one goroutine.
type Center struct {
	opts   Options
	nextID int64

	active  []*notification // entering/visible/leaving, display order
	pending []*notification // FIFO overflow queue
}

func NewCenter(opts Options) *Center {
	if opts.MaxVisible <= 0 {
		opts.MaxVisible = DefaultMaxVisible
	}
	if opts.LeaveWindow <= 0 {
		opts.LeaveWindow = LeaveWindow
	}
	return &Center{opts: opts}
}

// Push enqueues a notification with the default duration for its kind.
func (c *Center) Push(kind Kind, message string, now time.Time) int64 {
	d := DefaultDuration
	if kind == KindError {
		d = ErrorDuration
	}
	return c.PushFor(kind, message, d, now)
}

// PushFor enqueues a notification with an explicit auto-dismiss duration.
// A zero duration disables auto-dismiss; the notification stays until
// Dismiss is called.
func (c *Center) PushFor(kind Kind, message string, duration time.Duration, now time.Time) int64 {
	c.nextID++
	n := &notification{
		id:        c.nextID,
		kind:      kind,
		message:   message,
		createdAt: now,
		state:     StatePending,
		duration:  duration,
	}

	if len(c.active) < c.opts.MaxVisible {
		c.display(n, now)
	} else {
		c.pending = append(c.pending, n)
	}
	return n.id
}

// display starts showing a notification and arms its dismiss deadline.
func (c *Center) display(n *notification, now time.Time) {
	if n.duration > 0 {
		n.dismissAt = now.Add(n.duration)
	}
	c.transition(n, StateEntering)
	c.active = append(c.active, n)
}

// Dismiss moves a notification to leaving ahead of its timeout. Dismissing
// an unknown or already-dismissed id is a no-op.
func (c *Center) Dismiss(id int64, now time.Time) {
	for _, n := range c.active {
		if n.id != id {
			continue
		}
		if n.state == StateEntering || n.state == StateVisible {
			c.startLeaving(n, now)
		}
		return
	}
	for i, n := range c.pending {
		if n.id == id {
			// Never displayed; drop straight out of the queue.
			c.pending = append(c.pending[:i], c.pending[i+1:]...)
			c.transition(n, StateRemoved)
			return
		}
	}
}

// Advance applies every transition due at now and returns whether any
// notification is still live (so the caller knows to keep ticking).
func (c *Center) Advance(now time.Time) bool {
	// A single call may walk a notification through several stages (e.g. a
	// long-overdue entering -> visible -> leaving -> removed), so loop until
	// the state settles.
	for c.advanceOnce(now) {
	}
	return len(c.active) > 0 || len(c.pending) > 0
}

func (c *Center) advanceOnce(now time.Time) bool {
	changed := false
	remaining := c.active[:0]
	for _, n := range c.active {
		switch n.state {
		case StateEntering:
			// Entering is a single presentation beat; the first advance
			// after display promotes it.
			c.transition(n, StateVisible)
			changed = true
		case StateVisible:
			if !n.dismissAt.IsZero() && !now.Before(n.dismissAt) {
				// Anchor the exit window to the deadline, not the tick that
				// observed it, so removal lands at dismissAt+LeaveWindow even
				// under coarse ticking.
				c.startLeaving(n, n.dismissAt)
				changed = true
			}
		case StateLeaving:
			if !now.Before(n.removeAt) {
				c.transition(n, StateRemoved)
				changed = true
				continue // drop from active
			}
		}
		remaining = append(remaining, n)
	}
	c.active = remaining

	// Promote queued notifications into freed slots, FIFO.
	for len(c.pending) > 0 && len(c.active) < c.opts.MaxVisible {
		n := c.pending[0]
		c.pending = c.pending[1:]
		c.display(n, now)
		changed = true
	}
	return changed
}

func (c *Center) startLeaving(n *notification, now time.Time) {
	n.removeAt = now.Add(c.opts.LeaveWindow)
	c.transition(n, StateLeaving)
}

func (c *Center) transition(n *notification, to State) {
	from := n.state
	n.state = to
	if c.opts.OnEvent != nil {
		c.opts.OnEvent(Event{ID: n.id, Kind: n.kind, Message: n.message, From: from, To: to})
	}
}

// Active returns snapshots of the displayed notifications in display order.
func (c *Center) Active() []Notification {
	out := make([]Notification, 0, len(c.active))
	for _, n := range c.active {
		out = append(out, Notification{
			ID:        n.id,
			Kind:      n.kind,
			Message:   n.message,
			CreatedAt: n.createdAt,
			State:     n.state,
		})
	}
	return out
}

// PendingCount reports how many notifications are waiting for a slot.
func (c *Center) PendingCount() int { return len(c.pending) }

// Live reports whether anything is displayed or queued.
func (c *Center) Live() bool { return len(c.active) > 0 || len(c.pending) > 0 }
