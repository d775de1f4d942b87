package menu

import "fmt"

// Point is the anchor position of a menu, in cells (or pixels — the core
// doesn't care, it only carries the value to the presentation layer).
type Point struct {
	X int
	Y int
}

// Item is a single context-menu entry. Action runs when the item is invoked
// while Enabled.
type Item struct {
	Label   string
	Icon    string
	Enabled bool
	Action  func()
}

// EventKind labels menu lifecycle events.
type EventKind string

const (
	EventOpened EventKind = "opened"
	EventClosed EventKind = "closed"
)

// Event is emitted on open/close for the presentation layer.
type Event struct {
	Kind   EventKind
	Anchor Point
	Items  int
}

// InvalidMenuError reports a caller-contract violation on Open or Invoke.
type InvalidMenuError struct {
	Reason string
}

func (e *InvalidMenuError) Error() string { return "context menu: " + e.Reason }

// DisabledItemError reports an Invoke against a disabled item. The menu is
// left untouched.
type DisabledItemError struct {
	Index int
	Label string
}

func (e *DisabledItemError) Error() string {
	return fmt.Sprintf("context menu: item %d (%s) is disabled", e.Index, e.Label)
}

// Controller owns at most one open context menu. Opening a new menu
// implicitly closes the previous one; there is never more than one.
// All methods must be called from one goroutine.
type Controller struct {
	anchor  Point
	items   []Item
	open    bool
	onEvent func(Event)
}

// NewController creates a Controller. onEvent may be nil.
func NewController(onEvent func(Event)) *Controller {
	return &Controller{onEvent: onEvent}
}

// Open shows a menu at anchor, replacing any menu already open.
func (c *Controller) Open(anchor Point, items []Item) error {
	if len(items) == 0 {
		return &InvalidMenuError{Reason: "open with no items"}
	}
	if c.open {
		c.Close()
	}
	c.anchor = anchor
	c.items = append([]Item(nil), items...)
	c.open = true
	c.emit(EventOpened)
	return nil
}

// Close dismisses the open menu. Safe to call when nothing is open; the
// presentation layer maps both outside pointer presses and escape here.
func (c *Controller) Close() {
	if !c.open {
		return
	}
	c.open = false
	c.emit(EventClosed)
	c.items = nil
}

// Invoke runs the action of item i and closes the menu. An invoked menu
// never stays open. A disabled item returns DisabledItemError and leaves
// the menu exactly as it was.
func (c *Controller) Invoke(i int) error {
	if !c.open {
		return &InvalidMenuError{Reason: "invoke with no open menu"}
	}
	if i < 0 || i >= len(c.items) {
		return &InvalidMenuError{Reason: fmt.Sprintf("invoke index %d out of %d items", i, len(c.items))}
	}
	it := c.items[i]
	if !it.Enabled {
		return &DisabledItemError{Index: i, Label: it.Label}
	}
	if it.Action != nil {
		it.Action()
	}
	c.Close()
	return nil
}

// IsOpen reports whether a menu is currently displayed.
func (c *Controller) IsOpen() bool { return c.open }

// Anchor returns the anchor of the open menu (zero when closed).
func (c *Controller) Anchor() Point {
	if !c.open {
		return Point{}
	}
	return c.anchor
}

// Items returns a copy of the open menu's items (nil when closed).
func (c *Controller) Items() []Item {
	if !c.open {
		return nil
	}
	return append([]Item(nil), c.items...)
}

func (c *Controller) emit(kind EventKind) {
	if c.onEvent != nil {
		c.onEvent(Event{Kind: kind, Anchor: c.anchor, Items: len(c.items)})
	}
}
