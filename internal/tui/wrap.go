package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/keycast/internal/markup"
)

const ellipsis = "…"

type styledRune struct {
	s       string
	width   int
	newline bool
}

func buildStyledRunes(segs []markup.Segment, base lipgloss.Style) []styledRune {
	var out []styledRune
	for _, seg := range segs {
		style := base
		if seg.Underline {
			style = style.Underline(true)
		}
		if seg.Small {
			style = style.Faint(true)
		}
		for _, r := range seg.Text {
			if r == '\n' {
				out = append(out, styledRune{newline: true})
				continue
			}
			out = append(out, styledRune{
				s:     style.Render(string(r)),
				width: runewidth.RuneWidth(r),
			})
		}
	}
	return out
}

func splitLines(runes []styledRune) [][]styledRune {
	lines := [][]styledRune{{}}
	for _, item := range runes {
		if item.newline {
			lines = append(lines, []styledRune{})
			continue
		}
		lines[len(lines)-1] = append(lines[len(lines)-1], item)
	}
	return lines
}

// fitTail keeps the last maxLines lines and, on each, the rightmost runes
// that fit in width. Cut lines start with an ellipsis.
func fitTail(runes []styledRune, width, maxLines int) string {
	lines := splitLines(runes)
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[len(lines)-maxLines:]
	}
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		out = append(out, tailOf(line, width))
	}
	return strings.Join(out, "\n")
}

func tailOf(line []styledRune, width int) string {
	if width <= 0 || lineWidthOf(line) <= width {
		return renderStyledRunes(line)
	}
	budget := width - runewidth.StringWidth(ellipsis)
	start := len(line)
	used := 0
	for start > 0 && used+line[start-1].width <= budget {
		start--
		used += line[start].width
	}
	return ellipsis + renderStyledRunes(line[start:])
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

func lineWidthOf(line []styledRune) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}
