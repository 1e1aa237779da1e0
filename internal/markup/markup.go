// Package markup formats glyphs into Pango-style label markup and parses it
// back for hosts that cannot render markup directly.
package markup

import (
	"sort"
	"strings"
)

var escaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"'", "&#39;",
	`"`, "&quot;",
)

// Escape makes literal text safe to embed in markup.
func Escape(s string) string {
	return escaper.Replace(s)
}

// Glyph is one display alternative for a key. An empty Font means the
// regular font, which always matches.
type Glyph struct {
	Text   string
	Font   string
	Suffix string
}

// Plain returns a single regular-font glyph.
func Plain(text string) []Glyph {
	return []Glyph{{Text: text}}
}

// FontSet is the set of font families the host can render.
type FontSet map[string]struct{}

// NewFontSet builds a FontSet from family names.
func NewFontSet(families ...string) FontSet {
	set := make(FontSet, len(families))
	for _, f := range families {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		set[f] = struct{}{}
	}
	return set
}

// Has reports whether a family is available.
func (s FontSet) Has(family string) bool {
	_, ok := s[family]
	return ok
}

// Names returns the families in sorted order.
func (s FontSet) Names() []string {
	out := make([]string, 0, len(s))
	for f := range s {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Render picks the first glyph whose font is available and returns its
// escaped markup. The suffix is escaped separately and placed outside the
// font span. Render returns "" when no alternative matches.
func Render(glyphs []Glyph, fonts FontSet) string {
	for _, g := range glyphs {
		sfx := Escape(g.Suffix)
		if g.Font == "" {
			return Escape(g.Text) + sfx
		}
		if fonts.Has(g.Font) {
			return `<span font_family="` + g.Font + `" font_weight="regular">` +
				Escape(g.Text) + `</span>` + sfx
		}
	}
	return ""
}
