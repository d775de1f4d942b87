package tui

import (
	"github.com/charmbracelet/lipgloss"

	"marks-cli/internal/bootstrap"
	"marks-cli/internal/notify"
)

// Palette. Adaptive colors keep both backgrounds readable; the bootstrap
// theme decides which side Lip Gloss picks.
var (
	colorAccent   = lipgloss.AdaptiveColor{Light: "#005F87", Dark: "#5FAFD7"}
	colorAccentFg = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#14191F"}
	colorMuted    = lipgloss.AdaptiveColor{Light: "#6C7086", Dark: "#8A8F98"}
	colorSurface  = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#1A1E24"}
	colorBorder   = lipgloss.AdaptiveColor{Light: "#C7CAD1", Dark: "#3A4149"}

	colorToastInfoBg    = lipgloss.AdaptiveColor{Light: "#DCEBF7", Dark: "#1F3A52"}
	colorToastSuccessBg = lipgloss.AdaptiveColor{Light: "#DBF0DC", Dark: "#1E4022"}
	colorToastWarningBg = lipgloss.AdaptiveColor{Light: "#FAF0D4", Dark: "#4F4218"}
	colorToastErrorBg   = lipgloss.AdaptiveColor{Light: "#FADCD9", Dark: "#55201C"}
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	faintStyle  = lipgloss.NewStyle().Faint(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(colorMuted)

	selectedRowStyle = lipgloss.NewStyle().
				Background(colorAccent).
				Foreground(colorAccentFg)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	menuStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(colorAccent).
			Padding(0, 1)
)

// applyTheme maps the server-advertised theme onto terminal rendering. The
// bootstrap document is authoritative; we never query the terminal for its
// background, which can block on some emulators.
func applyTheme(t bootstrap.Theme) {
	lipgloss.SetHasDarkBackground(t == bootstrap.ThemeDark)
}

// markdownStyle picks the glamour style matching the active theme.
func markdownStyle(t bootstrap.Theme) string {
	if t == bootstrap.ThemeDark {
		return "dark"
	}
	return "light"
}

func toastBg(kind notify.Kind) lipgloss.AdaptiveColor {
	switch kind {
	case notify.KindSuccess:
		return colorToastSuccessBg
	case notify.KindWarning:
		return colorToastWarningBg
	case notify.KindError:
		return colorToastErrorBg
	default:
		return colorToastInfoBg
	}
}
