// Package keysym holds the static symbol replacement and modifier tables.
package keysym

import (
	"sort"

	"github.com/verte-zerg/keycast/internal/markup"
)

// Policy describes how a known key symbol is displayed and how it interacts
// with backspace handling.
//
// HaltsBaked stops backspace erasing in baked mode; these keys usually move
// the caret. Silent stops erasing in both baked and full mode; these keys do
// not emit text. Spaced asks for strong spacing around the glyph.
type Policy struct {
	HaltsBaked bool
	Silent     bool
	Spaced     bool
	Display    []markup.Glyph
}

const fontAwesome = "FontAwesome"

func plain(haltsBaked, silent, spaced bool, text string) Policy {
	return Policy{HaltsBaked: haltsBaked, Silent: silent, Spaced: spaced, Display: markup.Plain(text)}
}

func media(glyph, fallback, glyphSuffix, fallbackSuffix string) Policy {
	return Policy{
		HaltsBaked: true,
		Silent:     true,
		Spaced:     true,
		Display: []markup.Glyph{
			{Text: glyph, Font: fontAwesome, Suffix: glyphSuffix},
			{Text: fallback, Suffix: fallbackSuffix},
		},
	}
}

var replacements = map[string]Policy{
	"Escape":       plain(true, true, true, "Esc"),
	"Tab":          plain(true, false, false, "↹"),
	"ISO_Left_Tab": plain(true, false, false, "↹"),
	"Return":       plain(true, false, false, "⏎"),
	"space":        plain(false, false, false, "␣"),
	"BackSpace":    plain(true, true, false, "⌫"),
	"Caps_Lock":    plain(true, true, true, "Caps"),
	"F1":           plain(true, true, true, "F1"),
	"F2":           plain(true, true, true, "F2"),
	"F3":           plain(true, true, true, "F3"),
	"F4":           plain(true, true, true, "F4"),
	"F5":           plain(true, true, true, "F5"),
	"F6":           plain(true, true, true, "F6"),
	"F7":           plain(true, true, true, "F7"),
	"F8":           plain(true, true, true, "F8"),
	"F9":           plain(true, true, true, "F9"),
	"F10":          plain(true, true, true, "F10"),
	"F11":          plain(true, true, true, "F11"),
	"F12":          plain(true, true, true, "F12"),
	"Up":           plain(true, true, false, "↑"),
	"Left":         plain(true, true, false, "←"),
	"Right":        plain(true, true, false, "→"),
	"Down":         plain(true, true, false, "↓"),
	"Prior":        plain(true, true, true, "PgUp"),
	"Next":         plain(true, true, true, "PgDn"),
	"Home":         plain(true, true, true, "Home"),
	"End":          plain(true, true, true, "End"),
	"Insert":       plain(false, true, true, "Ins"),
	"Delete":       plain(true, false, true, "Del"),
	"KP_End":       plain(false, false, true, "(1)"),
	"KP_Down":      plain(false, false, true, "(2)"),
	"KP_Next":      plain(false, false, true, "(3)"),
	"KP_Left":      plain(false, false, true, "(4)"),
	"KP_Begin":     plain(false, false, true, "(5)"),
	"KP_Right":     plain(false, false, true, "(6)"),
	"KP_Home":      plain(false, false, true, "(7)"),
	"KP_Up":        plain(false, false, true, "(8)"),
	"KP_Prior":     plain(false, false, true, "(9)"),
	"KP_Insert":    plain(false, false, true, "(0)"),
	"KP_Delete":    plain(false, false, true, "(.)"),
	"KP_Add":       plain(false, false, true, "(+)"),
	"KP_Subtract":  plain(false, false, true, "(-)"),
	"KP_Multiply":  plain(false, false, true, "(*)"),
	"KP_Divide":    plain(false, false, true, "(/)"),
	"KP_Enter":     plain(true, false, false, "⏎"),
	"Num_Lock":     plain(false, true, true, "NumLck"),
	"Scroll_Lock":  plain(false, true, true, "ScrLck"),
	"Pause":        plain(false, true, true, "Pause"),
	"Break":        plain(false, true, true, "Break"),
	"Print":        plain(false, true, true, "Print"),
	"Multi_key":    plain(false, true, true, "Compose"),

	// Multimedia
	"XF86AudioMute":         media("\uf026", "Mute", "", ""),
	"XF86AudioMicMute":      media("\uf131", "Rec", "", ""),
	"XF86AudioRaiseVolume":  media("\uf028", "Vol", "", "+"),
	"XF86AudioLowerVolume":  media("\uf027", "Vol", "", "-"),
	"XF86AudioPrev":         media("\uf048", "Prev", "", ""),
	"XF86AudioNext":         media("\uf051", "Next", "", ""),
	"XF86AudioPlay":         media("\uf04b", "▶", "", ""),
	"XF86AudioStop":         media("\uf04d", "⬛", "", ""),
	"XF86Eject":             media("\uf052", "Eject", "", ""),
	"XF86MonBrightnessDown": media("\uf185", "Bright", "-", "-"),
	"XF86MonBrightnessUp":   media("\uf185", "Bright", "+", "+"),
	"XF86Display":           media("\uf108", "Display", "", ""),
	"XF86WLAN":              media("\uf1eb", "WLAN", "", ""),
	"XF86Search":            media("\uf002", "Search", "", ""),
}

var whitespace = map[string]struct{}{
	"Tab":          {},
	"ISO_Left_Tab": {},
	"Return":       {},
	"space":        {},
	"KP_Enter":     {},
}

// Lookup returns the display policy for a known symbol.
func Lookup(symbol string) (Policy, bool) {
	p, ok := replacements[symbol]
	return p, ok
}

// Known reports whether a symbol has a replacement.
func Known(symbol string) bool {
	_, ok := replacements[symbol]
	return ok
}

// Symbols returns every symbol in the replacement table, sorted.
func Symbols() []string {
	out := make([]string, 0, len(replacements))
	for s := range replacements {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// IsWhitespace reports whether a symbol is collapsed when whitespace is hidden.
func IsWhitespace(symbol string) bool {
	_, ok := whitespace[symbol]
	return ok
}

// IsReturn reports whether a symbol ends a line.
func IsReturn(symbol string) bool {
	return symbol == "Return" || symbol == "KP_Enter"
}
