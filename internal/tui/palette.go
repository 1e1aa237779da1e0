package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/verte-zerg/keycast/internal/model"
)

// Default label colors.
const (
	DefaultFg = "#f0f0f0"
	DefaultBg = "#1e1e1e"
)

// Palette holds the normalized label colors.
type Palette struct {
	Fg     string
	Bg     string
	Border string
}

// NewPalette validates hex colors and derives the border color as the Lab
// midpoint of foreground and background. Empty values use the defaults.
func NewPalette(fg, bg string) (Palette, error) {
	if fg == "" {
		fg = DefaultFg
	}
	if bg == "" {
		bg = DefaultBg
	}
	fgc, err := colorful.Hex(fg)
	if err != nil {
		return Palette{}, fmt.Errorf("%w: fg color %q", model.ErrInvalidConfig, fg)
	}
	bgc, err := colorful.Hex(bg)
	if err != nil {
		return Palette{}, fmt.Errorf("%w: bg color %q", model.ErrInvalidConfig, bg)
	}
	return Palette{
		Fg:     fgc.Hex(),
		Bg:     bgc.Hex(),
		Border: fgc.BlendLab(bgc, 0.5).Clamped().Hex(),
	}, nil
}

type styles struct {
	label    lipgloss.Style
	box      lipgloss.Style
	footer   lipgloss.Style
	errorMsg lipgloss.Style
}

func newStyles(p Palette) styles {
	label := lipgloss.NewStyle().
		Foreground(lipgloss.Color(p.Fg)).
		Background(lipgloss.Color(p.Bg))
	return styles{
		label: label,
		box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(p.Border)).
			Background(lipgloss.Color(p.Bg)).
			Padding(0, 1),
		footer:   lipgloss.NewStyle().Foreground(lipgloss.Color(p.Border)),
		errorMsg: lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F")),
	}
}
