package tui

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/evanschultz/todolist/internal/render"
)

type Option func(*Model)

// WithClipboard replaces the system clipboard writer.
func WithClipboard(write func(string) error) Option {
	return func(m *Model) {
		if write != nil {
			m.clipboard = write
		}
	}
}

// WithRenderer sets the markdown renderer used by the list preview.
func WithRenderer(r *render.Terminal) Option {
	return func(m *Model) {
		if r != nil {
			m.renderer = r
		}
	}
}

// WithAccentColor sets the highlight color from an ANSI index or hex value.
func WithAccentColor(c string) Option {
	return func(m *Model) {
		if c = strings.TrimSpace(c); c != "" {
			m.accent = lipgloss.Color(c)
		}
	}
}

func WithCompletedCount(show bool) Option {
	return func(m *Model) {
		m.showCompleted = show
	}
}
