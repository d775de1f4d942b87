package tui

import (
	"context"
	"fmt"
	"time"

	"marks-cli/internal/menu"
	"marks-cli/internal/notify"
	"marks-cli/internal/suggest"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
)

func (m appModel) Init() tea.Cmd { return tick() }

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg { return tickMsg{at: t} })
}

// Update delegates to update and absorbs any panic on the way: the failure
// is logged and surfaced as an error toast, and the tick keeps the program
// alive instead of letting the runtime shut it down.
func (m appModel) Update(msg tea.Msg) (next tea.Model, cmd tea.Cmd) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Error().Interface("panic", r).Msg("update panicked")
			if m.center != nil {
				m.center.Push(notify.KindError, "Internal error; details are in the log file", time.Now())
			}
			next, cmd = m, tick()
		}
	}()
	return m.update(msg)
}

func (m appModel) update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.seenWindowSize = true
		return m, nil

	case tickMsg:
		m.center.Advance(msg.at)
		cmds := []tea.Cmd{tick()}
		if f := m.overlay.Advance(msg.at); f != nil {
			if m.fetchCancel != nil {
				m.fetchCancel()
			}
			ctx, cancel := context.WithCancel(context.Background())
			m.fetchCancel = cancel
			cmds = append(cmds, m.suggestCmd(ctx, *f))
		}
		return m, tea.Batch(cmds...)

	case suggestDoneMsg:
		if m.overlay.Resolve(msg.seq, msg.results, msg.err) {
			m.selIdx = 0
		}
		return m, nil

	case clickDoneMsg:
		if msg.err != nil {
			m.center.Push(notify.KindWarning, "Click not recorded: "+msg.err.Error(), time.Now())
			return m, nil
		}
		m.center.Push(notify.KindSuccess,
			fmt.Sprintf("Opened %q (%d clicks)", msg.title, msg.count), time.Now())
		return m, nil

	case actionDoneMsg:
		if msg.err != nil {
			m.center.Push(notify.KindError, msg.label+": "+msg.err.Error(), time.Now())
			return m, nil
		}
		switch msg.label {
		case menuCopyURLLabel:
			m.center.Push(notify.KindSuccess, "URL copied", time.Now())
		case menuCopyTitleLabel:
			m.center.Push(notify.KindSuccess, "Title copied", time.Now())
		}
		return m, nil

	case tea.MouseMsg:
		return m.updateMouse(msg)

	case tea.KeyMsg:
		return m.updateKey(msg)
	}
	return m, nil
}

func (m appModel) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress {
		return m, nil
	}
	switch msg.Button {
	case tea.MouseButtonRight:
		// Right-press anywhere (re)opens the menu at the pointer,
		// replacing any menu already on screen.
		if r, ok := m.selectedResult(); ok {
			m.menuTarget = r
			m.menuIdx = 0
			_ = m.menu.Open(menu.Point{X: msg.X, Y: msg.Y}, m.menuItems())
		}
		return m, nil

	case tea.MouseButtonLeft:
		if !m.menu.IsOpen() {
			return m, nil
		}
		x, y, w, h := m.menuRect()
		inside := msg.X >= x && msg.X < x+w && msg.Y >= y && msg.Y < y+h
		if !inside {
			// Pressing outside dismisses without activating anything
			// under the pointer.
			m.menu.Close()
			return m, nil
		}
		row := msg.Y - y - 1 // border
		if row >= 0 && row < len(m.menu.Items()) {
			m.menuIdx = row
			return m.invokeMenu(row)
		}
		return m, nil
	}
	return m, nil
}

func (m appModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	// An open menu is modal: every key is interpreted against it.
	if m.menu.IsOpen() {
		switch msg.String() {
		case "esc", "q":
			m.menu.Close()
		case "up", "k", "ctrl+p":
			if m.menuIdx > 0 {
				m.menuIdx--
			}
		case "down", "j", "ctrl+n":
			if m.menuIdx < len(m.menu.Items())-1 {
				m.menuIdx++
			}
		case "enter":
			return m.invokeMenu(m.menuIdx)
		}
		return m, nil
	}

	switch msg.String() {
	case "esc":
		if m.overlay.Open() {
			m.overlay.Close()
			return m, nil
		}
		if m.search.Value() != "" {
			m.search.SetValue("")
			m.overlay.SetQuery("", time.Now())
			return m, nil
		}
		return m.quit()

	case "enter":
		return m.selectCurrent()

	case "up", "ctrl+p":
		if m.selIdx > 0 {
			m.selIdx--
		}
		return m, nil

	case "down", "ctrl+n":
		if n := len(m.overlay.Results()); m.selIdx < n-1 {
			m.selIdx++
		}
		return m, nil

	case "ctrl+e":
		// Keyboard path to the context menu, anchored at the panel.
		if r, ok := m.selectedResult(); ok {
			m.menuTarget = r
			m.menuIdx = 0
			_ = m.menu.Open(menu.Point{X: 4, Y: 6 + m.selIdx}, m.menuItems())
		}
		return m, nil
	}

	before := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if v := m.search.Value(); v != before {
		m.overlay.SetQuery(v, time.Now())
	}
	return m, cmd
}

func (m appModel) quit() (tea.Model, tea.Cmd) {
	if m.fetchCancel != nil {
		m.fetchCancel()
	}
	m.quitting = true
	return m, tea.Quit
}

func (m appModel) selectedResult() (suggest.Result, bool) {
	rs := m.overlay.Results()
	if !m.overlay.Open() || m.selIdx < 0 || m.selIdx >= len(rs) {
		return suggest.Result{}, false
	}
	return rs[m.selIdx], true
}

// selectCurrent commits the highlighted suggestion: the panel closes, the
// bookmark opens in the browser and the click is reported to the server.
func (m appModel) selectCurrent() (tea.Model, tea.Cmd) {
	r, ok := m.selectedResult()
	if !ok {
		return m, nil
	}
	if err := m.overlay.SelectSuggestion(m.selIdx); err != nil {
		return m, nil
	}
	m.search.SetValue("")
	m.overlay.SetQuery("", time.Now())
	return m, tea.Batch(m.openCmd(r.URL), m.clickCmd(r))
}

func (m appModel) invokeMenu(idx int) (tea.Model, tea.Cmd) {
	items := m.menu.Items()
	if idx < 0 || idx >= len(items) {
		return m, nil
	}
	label := items[idx].Label
	if err := m.menu.Invoke(idx); err != nil {
		// Disabled rows and stale indices are silent no-ops; the menu
		// state is left exactly as it was.
		return m, nil
	}
	target := m.menuTarget
	switch label {
	case menuOpenLabel:
		return m, tea.Batch(m.openCmd(target.URL), m.clickCmd(target))
	case menuCopyURLLabel:
		return m, m.copyCmd(menuCopyURLLabel, target.URL)
	case menuCopyTitleLabel:
		return m, m.copyCmd(menuCopyTitleLabel, target.Title)
	}
	return m, nil
}

// guardCmd runs cmd and converts a panic into the message built by fail, so
// one misbehaving command degrades to an error toast instead of ending the
// program.
func guardCmd(log zerolog.Logger, task string, fail func(r any) tea.Msg, cmd func() tea.Msg) tea.Cmd {
	return func() (msg tea.Msg) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().Str("task", task).Interface("panic", r).Msg("command panicked")
				msg = fail(r)
			}
		}()
		return cmd()
	}
}

func (m appModel) suggestCmd(ctx context.Context, f suggest.Fetch) tea.Cmd {
	backend, limit := m.backend, m.limit
	return guardCmd(m.log, "suggest", func(r any) tea.Msg {
		return suggestDoneMsg{seq: f.Seq, err: fmt.Errorf("suggest: %v", r)}
	}, func() tea.Msg {
		results, err := backend.Suggest(ctx, f.Term, limit)
		return suggestDoneMsg{seq: f.Seq, results: results, err: err}
	})
}

func (m appModel) clickCmd(r suggest.Result) tea.Cmd {
	backend := m.backend
	return guardCmd(m.log, "click", func(v any) tea.Msg {
		return clickDoneMsg{title: r.Title, err: fmt.Errorf("click: %v", v)}
	}, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		count, err := backend.Click(ctx, r.ID)
		return clickDoneMsg{title: r.Title, count: count, err: err}
	})
}

func (m appModel) openCmd(url string) tea.Cmd {
	return guardCmd(m.log, "open-browser", func(r any) tea.Msg {
		return actionDoneMsg{label: menuOpenLabel, err: fmt.Errorf("open: %v", r)}
	}, func() tea.Msg {
		return actionDoneMsg{label: menuOpenLabel, err: openBrowser(url)}
	})
}

func (m appModel) copyCmd(label, s string) tea.Cmd {
	return guardCmd(m.log, "copy", func(r any) tea.Msg {
		return actionDoneMsg{label: label, err: fmt.Errorf("copy: %v", r)}
	}, func() tea.Msg {
		return actionDoneMsg{label: label, err: copyToClipboard(s)}
	})
}
