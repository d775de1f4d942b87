package notify

import (
	"testing"
	"time"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestPush_AutoDismissLifecycle(t *testing.T) {
	t.Parallel()

	var events []Event
	c := NewCenter(Options{OnEvent: func(e Event) { events = append(events, e) }})

	id := c.Push(KindInfo, "saved", t0)
	if id != 1 {
		t.Fatalf("expected first id 1; got %d", id)
	}

	// Waiting past duration + exit window removes the notification.
	c.Advance(t0.Add(DefaultDuration + LeaveWindow))
	if got := len(c.Active()); got != 0 {
		t.Fatalf("expected empty queue; %d active", got)
	}

	want := []State{StateEntering, StateVisible, StateLeaving, StateRemoved}
	if len(events) != len(want) {
		t.Fatalf("expected %d events; got %d (%+v)", len(want), len(events), events)
	}
	for i, e := range events {
		if e.To != want[i] || e.ID != id {
			t.Fatalf("event %d: expected to=%s id=%d; got %+v", i, want[i], id, e)
		}
	}
	// Per-notification ordering: each transition starts where the last ended.
	for i := 1; i < len(events); i++ {
		if events[i].From != events[i-1].To {
			t.Fatalf("transition gap at %d: %+v -> %+v", i, events[i-1], events[i])
		}
	}
}

func TestPush_ErrorGetsLongerDefault(t *testing.T) {
	t.Parallel()

	c := NewCenter(Options{})
	c.Push(KindError, "boom", t0)

	// Past the info default but before the error default: still displayed.
	c.Advance(t0.Add(DefaultDuration + time.Second))
	if ns := c.Active(); len(ns) != 1 || ns[0].State != StateVisible {
		t.Fatalf("expected error still visible; got %+v", ns)
	}

	c.Advance(t0.Add(ErrorDuration + LeaveWindow))
	if got := len(c.Active()); got != 0 {
		t.Fatalf("expected error removed; %d active", got)
	}
}

func TestPushFor_ZeroDurationIsManualCloseOnly(t *testing.T) {
	t.Parallel()

	c := NewCenter(Options{})
	id := c.PushFor(KindWarning, "unsynced changes", 0, t0)

	c.Advance(t0.Add(time.Hour))
	if ns := c.Active(); len(ns) != 1 || ns[0].State != StateVisible {
		t.Fatalf("expected sticky notification; got %+v", ns)
	}

	c.Dismiss(id, t0.Add(time.Hour))
	c.Advance(t0.Add(time.Hour + LeaveWindow))
	if got := len(c.Active()); got != 0 {
		t.Fatalf("expected removal after manual dismiss; %d active", got)
	}
}

func TestDismiss_Idempotent(t *testing.T) {
	t.Parallel()

	var leavings int
	c := NewCenter(Options{OnEvent: func(e Event) {
		if e.To == StateLeaving {
			leavings++
		}
	}})
	id := c.Push(KindSuccess, "ok", t0)

	c.Dismiss(id, t0.Add(time.Second))
	c.Dismiss(id, t0.Add(2*time.Second)) // no-op, not an error
	c.Dismiss(999, t0)                   // unknown id, no-op

	if leavings != 1 {
		t.Fatalf("expected exactly one leaving transition; got %d", leavings)
	}
}

func TestAdvance_IndependentTimers(t *testing.T) {
	t.Parallel()

	c := NewCenter(Options{})
	c.PushFor(KindInfo, "one", 1*time.Second, t0)
	c.PushFor(KindInfo, "two", 5*time.Second, t0)

	// Both render simultaneously; the short one leaving does not delay or
	// gate the long one.
	c.Advance(t0)
	if got := len(c.Active()); got != 2 {
		t.Fatalf("expected both visible; got %d", got)
	}
	c.Advance(t0.Add(1*time.Second + LeaveWindow))
	ns := c.Active()
	if len(ns) != 1 || ns[0].Message != "two" || ns[0].State != StateVisible {
		t.Fatalf("expected only the long notification left; got %+v", ns)
	}
}

func TestPush_OverflowQueuesFIFO(t *testing.T) {
	t.Parallel()

	c := NewCenter(Options{MaxVisible: 2})
	c.PushFor(KindInfo, "a", 1*time.Second, t0)
	c.PushFor(KindInfo, "b", 1*time.Second, t0)
	c.PushFor(KindInfo, "c", 1*time.Second, t0)
	c.PushFor(KindInfo, "d", 1*time.Second, t0)

	if got := c.PendingCount(); got != 2 {
		t.Fatalf("expected 2 pending; got %d", got)
	}
	if got := len(c.Active()); got != 2 {
		t.Fatalf("expected 2 active; got %d", got)
	}

	// When a and b are gone, c then d are promoted in push order.
	c.Advance(t0.Add(1*time.Second + LeaveWindow))
	ns := c.Active()
	if len(ns) != 2 || ns[0].Message != "c" || ns[1].Message != "d" {
		t.Fatalf("expected c,d promoted; got %+v", ns)
	}
	if got := c.PendingCount(); got != 0 {
		t.Fatalf("expected empty pending queue; got %d", got)
	}
}

func TestDismiss_PendingNotificationIsDropped(t *testing.T) {
	t.Parallel()

	var removed []int64
	c := NewCenter(Options{MaxVisible: 1, OnEvent: func(e Event) {
		if e.To == StateRemoved {
			removed = append(removed, e.ID)
		}
	}})
	c.PushFor(KindInfo, "a", 0, t0)
	queued := c.PushFor(KindInfo, "b", 0, t0)

	c.Dismiss(queued, t0)
	if got := c.PendingCount(); got != 0 {
		t.Fatalf("expected pending drained; got %d", got)
	}
	if len(removed) != 1 || removed[0] != queued {
		t.Fatalf("expected removed event for %d; got %v", queued, removed)
	}
}

func TestIDs_Monotonic(t *testing.T) {
	t.Parallel()

	c := NewCenter(Options{})
	var last int64
	for i := 0; i < 5; i++ {
		id := c.Push(KindInfo, "n", t0)
		if id <= last {
			t.Fatalf("ids not monotonic: %d after %d", id, last)
		}
		last = id
	}
}

func TestAdvance_ReportsLiveness(t *testing.T) {
	t.Parallel()

	c := NewCenter(Options{})
	if c.Advance(t0) {
		t.Fatalf("empty center should not be live")
	}
	c.PushFor(KindInfo, "n", time.Second, t0)
	if !c.Advance(t0) {
		t.Fatalf("center with a visible notification should be live")
	}
	if c.Advance(t0.Add(time.Second + LeaveWindow)) {
		t.Fatalf("center should go idle after removal")
	}
}
