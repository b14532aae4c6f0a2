package render

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// minWrapWidth keeps narrow terminals readable.
const minWrapWidth = 24

// Terminal renders markdown for terminal views and recreates the glamour
// renderer when the wrap width changes.
type Terminal struct {
	style    string
	width    int
	renderer *glamour.TermRenderer
}

// NewTerminal constructs a renderer using a glamour standard style such as "dark" or "notty".
func NewTerminal(style string) *Terminal {
	style = strings.TrimSpace(style)
	if style == "" {
		style = "dark"
	}
	return &Terminal{style: style}
}

// Render converts markdown into ANSI-styled text wrapped at width. On renderer
// failure the markdown is returned unchanged.
func (r *Terminal) Render(markdown string, width int) string {
	markdown = strings.TrimSpace(markdown)
	if markdown == "" {
		return ""
	}

	wrapWidth := max(width, minWrapWidth)
	if r.renderer == nil || r.width != wrapWidth {
		renderer, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(r.style),
			glamour.WithWordWrap(wrapWidth),
		)
		if err != nil {
			return markdown
		}
		r.renderer = renderer
		r.width = wrapWidth
	}

	rendered, err := r.renderer.Render(markdown)
	if err != nil {
		return markdown
	}
	return strings.TrimRight(rendered, "\n")
}
