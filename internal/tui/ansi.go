package tui

import (
	"strings"

	xansi "github.com/charmbracelet/x/ansi"
)

// truncToWidth shortens a possibly-styled line to the given display width.
func truncToWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if xansi.StringWidth(s) <= width {
		return s
	}
	return xansi.Truncate(s, width, "…")
}

// maxLineWidth returns the widest display width across lines.
func maxLineWidth(lines []string) int {
	w := 0
	for _, l := range lines {
		if lw := xansi.StringWidth(l); lw > w {
			w = lw
		}
	}
	return w
}

// overlayBox splices box lines over base starting at (x, y). Rows covered by
// the box lose their original content; partial-row compositing is not worth
// the ANSI surgery for a three-row menu.
func overlayBox(base, box string, x, y int) string {
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	baseLines := strings.Split(base, "\n")
	boxLines := strings.Split(box, "\n")
	for len(baseLines) < y+len(boxLines) {
		baseLines = append(baseLines, "")
	}
	pad := strings.Repeat(" ", x)
	for i, bl := range boxLines {
		baseLines[y+i] = pad + bl
	}
	return strings.Join(baseLines, "\n")
}
