package tui

import (
	"context"
	"strings"
	"sync"
	"time"

	"marks-cli/internal/bootstrap"
	"marks-cli/internal/menu"
	"marks-cli/internal/notify"
	"marks-cli/internal/shell"
	"marks-cli/internal/suggest"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/glamour"
	"github.com/rs/zerolog"
)

const tickInterval = 50 * time.Millisecond

// Context-menu labels double as dispatch keys; Invoke closes the menu and
// the model runs the matching command afterwards.
const (
	menuOpenLabel      = "Open in browser"
	menuCopyURLLabel   = "Copy URL"
	menuCopyTitleLabel = "Copy title"
)

type appModel struct {
	cfg     bootstrap.RuntimeConfig
	center  *notify.Center
	menu    *menu.Controller
	overlay *suggest.Overlay
	backend Backend
	limit   int
	log     zerolog.Logger

	width  int
	height int
	// The first WindowSizeMsg is initial sizing, not a user resize.
	seenWindowSize bool

	search textinput.Model
	selIdx int

	// menuIdx is the highlighted row of the open context menu; menuTarget
	// is the suggestion the menu was opened for.
	menuIdx    int
	menuTarget suggest.Result

	// fetchCancel aborts the in-flight suggestion request when a newer one
	// supersedes it. The stale response is also dropped by seq, this just
	// stops wasting the round trip.
	fetchCancel context.CancelFunc

	quitting bool
}

func newAppModel(sh *shell.App, backend Backend, limit int) appModel {
	applyTheme(sh.Config.Theme)
	if limit <= 0 {
		limit = 10
	}

	m := appModel{
		cfg:     sh.Config,
		center:  sh.Notify,
		menu:    sh.Menu,
		overlay: sh.Suggest,
		backend: backend,
		limit:   limit,
		log:     sh.Log(),
	}

	m.search = textinput.New()
	m.search.Placeholder = "Search bookmarks"
	m.search.CharLimit = 200
	m.search.Width = 48
	m.search.Focus()
	return m
}

func (m appModel) menuItems() []menu.Item {
	hasURL := strings.TrimSpace(m.menuTarget.URL) != ""
	hasTitle := strings.TrimSpace(m.menuTarget.Title) != ""
	return []menu.Item{
		{Label: menuOpenLabel, Icon: "↗", Enabled: hasURL},
		{Label: menuCopyURLLabel, Icon: "⧉", Enabled: hasURL},
		{Label: menuCopyTitleLabel, Icon: "⧉", Enabled: hasTitle},
	}
}

// userName returns the display name for the header.
func (m appModel) userName() string {
	if m.cfg.User == nil {
		return "anonymous"
	}
	return m.cfg.User.Username
}

var (
	mdRendererMu sync.Mutex
	// Renderers are cached per style+width. WithAutoStyle can block on
	// terminal capability queries, so the style always comes from the
	// bootstrap theme.
	mdRenderers = map[string]*glamour.TermRenderer{}
)

func (m appModel) renderMarkdown(md string, width int) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if width < 10 {
		width = 10
	}

	style := markdownStyle(m.cfg.Theme)
	key := style + ":" + itoa(width)

	mdRendererMu.Lock()
	r := mdRenderers[key]
	if r == nil {
		rr, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(style),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			mdRendererMu.Unlock()
			return md
		}
		mdRenderers[key] = rr
		r = rr
	}
	mdRendererMu.Unlock()

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
