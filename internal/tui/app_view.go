package tui

import (
	"fmt"
	"strings"

	"marks-cli/internal/notify"
	"marks-cli/internal/suggest"

	"github.com/charmbracelet/lipgloss"
)

const idleHelpMarkdown = `# marks

Type to search your bookmarks. Suggestions appear as you pause.

- **enter** opens the highlighted bookmark and records the visit
- **ctrl+e** or right-click opens the context menu
- **esc** closes the panel, then clears the search, then quits
`

func (m appModel) View() string {
	if m.quitting {
		return ""
	}

	width := m.width
	if width < 40 {
		width = 80
	}

	header := headerStyle.Render("marks") + "  " +
		mutedStyle.Render(m.cfg.APIBaseURL) + "  " +
		mutedStyle.Render(m.userName())
	if m.cfg.Version != "" {
		header += "  " + faintStyle.Render("v"+m.cfg.Version)
	}

	var b strings.Builder
	b.WriteString(truncToWidth(header, width))
	b.WriteString("\n")
	b.WriteString(m.viewToasts(width))
	b.WriteString("\n")
	b.WriteString("/ " + m.search.View())
	b.WriteString("\n")

	switch {
	case m.overlay.Open():
		b.WriteString(m.viewPanel(width))
	case m.overlay.Status() == suggest.StatusPending:
		b.WriteString(mutedStyle.Render("searching…"))
	default:
		b.WriteString(m.renderMarkdown(idleHelpMarkdown, min(width-2, 72)))
	}

	b.WriteString("\n\n")
	b.WriteString(faintStyle.Render("enter: open  ctrl+e: menu  esc: close/clear/quit"))

	out := b.String()
	if m.menu.IsOpen() {
		x, y, _, _ := m.menuRect()
		out = overlayBox(out, m.viewMenu(), x, y)
	}
	return out
}

// viewToasts renders the visible notification stack, newest under oldest,
// right-aligned. A leaving toast fades via faint instead of animating out.
func (m appModel) viewToasts(width int) string {
	active := m.center.Active()
	if len(active) == 0 {
		return ""
	}
	var rows []string
	for _, n := range active {
		style := lipgloss.NewStyle().
			Background(toastBg(n.Kind)).
			Padding(0, 1)
		if n.State == notify.StateLeaving {
			style = style.Faint(true)
		}
		row := style.Render(truncToWidth(n.Message, width-4))
		rows = append(rows, lipgloss.PlaceHorizontal(width, lipgloss.Right, row))
	}
	if q := m.center.PendingCount(); q > 0 {
		rows = append(rows, lipgloss.PlaceHorizontal(width, lipgloss.Right,
			faintStyle.Render(fmt.Sprintf("+%d queued", q))))
	}
	return strings.Join(rows, "\n")
}

func (m appModel) viewPanel(width int) string {
	innerW := min(width-6, 76)

	if m.overlay.Status() == suggest.StatusFailed {
		return panelStyle.Render(
			lipgloss.NewStyle().Foreground(colorToastErrorBg).Render("Search is unavailable right now.") +
				"\n" + mutedStyle.Render("Keep typing to retry."))
	}

	results := m.overlay.Results()
	if len(results) == 0 {
		return panelStyle.Render(mutedStyle.Render(fmt.Sprintf("No matches for %q", m.overlay.Term())))
	}

	var rows []string
	for i, r := range results {
		icon := r.IconURL
		if icon == "" {
			icon = "·"
		}
		line := fmt.Sprintf("%s %s  %s", icon, r.Title, mutedStyle.Render(r.URL))
		line = truncToWidth(line, innerW)
		if i == m.selIdx {
			line = selectedRowStyle.Render(truncToWidth(fmt.Sprintf("%s %s  %s", icon, r.Title, r.URL), innerW))
		}
		rows = append(rows, line)
	}
	return panelStyle.Render(strings.Join(rows, "\n"))
}

func (m appModel) viewMenu() string {
	items := m.menu.Items()
	var rows []string
	for i, it := range items {
		label := it.Label
		if it.Icon != "" {
			label = it.Icon + " " + label
		}
		switch {
		case !it.Enabled:
			label = faintStyle.Render(label)
		case i == m.menuIdx:
			label = selectedRowStyle.Render(label)
		}
		rows = append(rows, label)
	}
	return menuStyle.Render(strings.Join(rows, "\n"))
}

// menuRect reports where the open menu is drawn: anchored at the pointer,
// shifted to stay fully inside the window.
func (m appModel) menuRect() (x, y, w, h int) {
	items := m.menu.Items()
	labels := make([]string, 0, len(items))
	for _, it := range items {
		l := it.Label
		if it.Icon != "" {
			l = it.Icon + " " + l
		}
		labels = append(labels, l)
	}
	w = maxLineWidth(labels) + 4 // padding + border
	h = len(items) + 2

	a := m.menu.Anchor()
	x, y = a.X, a.Y
	if m.width > 0 && x+w > m.width {
		x = m.width - w
	}
	if m.height > 0 && y+h > m.height {
		y = m.height - h
	}
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	return x, y, w, h
}

