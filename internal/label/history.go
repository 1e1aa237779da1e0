package label

import (
	"fmt"
	"strings"
	"time"

	"github.com/verte-zerg/keycast/internal/model"
)

// History is the ordered list of rendered keys, oldest first.
type History []model.Entry

func (h *History) push(e model.Entry) {
	*h = append(*h, e)
}

func (h *History) pop() {
	if n := len(*h); n > 0 {
		*h = (*h)[:n-1]
	}
}

// remove drops every entry whose markup equals text.
func (h *History) remove(text string) {
	kept := (*h)[:0]
	for _, e := range *h {
		if e.Markup != text {
			kept = append(kept, e)
		}
	}
	*h = kept
}

// erasable reports whether a backspace may pop the last entry.
func (h History) erasable(mode model.BakMode) bool {
	if len(h) == 0 {
		return false
	}
	last := h[len(h)-1]
	if last.Combo {
		return false
	}
	if mode == model.BakModeBaked {
		return !last.HaltsBaked
	}
	return !last.Silent
}

// RenderOptions controls optional history decorations. The zero value renders
// a plain space-separated join.
type RenderOptions struct {
	// RecentThreshold underlines entries younger than this, starting at the
	// first such entry.
	RecentThreshold time.Duration
	// CompressCount collapses runs of identical entries longer than this
	// into a repeat marker.
	CompressCount int
}

func repeatMarker(n int) string {
	return fmt.Sprintf("<sub><small>…%d×</small></sub>", n)
}

// Render joins the history into a single markup label.
func (h History) Render(opts RenderOptions, now time.Time) string {
	parts := make([]string, 0, len(h))
	recent := false
	isRecent := func(e model.Entry) bool {
		return opts.RecentThreshold > 0 && !recent && now.Sub(e.Stamp) < opts.RecentThreshold
	}

	repeats := 0
	for i, e := range h {
		if opts.CompressCount > 0 && i > 0 && e.Markup == h[i-1].Markup {
			repeats++
			if repeats >= opts.CompressCount {
				if i == len(h)-1 || h[i+1].Markup != e.Markup {
					marker := repeatMarker(repeats + 1)
					if isRecent(e) {
						marker = "<u>" + marker
						recent = true
					}
					parts[len(parts)-1] += marker
				}
				continue
			}
		} else {
			repeats = 0
		}

		text := e.Markup
		if isRecent(e) {
			text = "<u>" + text
			recent = true
		}
		parts = append(parts, text)
	}

	out := strings.Join(parts, " ")
	if recent {
		out += "</u>"
	}
	return out
}
