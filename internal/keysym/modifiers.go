package keysym

import (
	"github.com/verte-zerg/keycast/internal/markup"
	"github.com/verte-zerg/keycast/internal/model"
)

// Modifier names.
const (
	Shift = "shift"
	Ctrl  = "ctrl"
	Alt   = "alt"
	Super = "super"
	Hyper = "hyper"
	AltGr = "alt_gr"
)

// Modifier maps a modifier name to the symbols that activate it and the
// prefix it renders with in each style.
type Modifier struct {
	Name    string
	Mask    model.ModState
	Symbols []string
	Styles  map[model.ModsMode][]markup.Glyph
}

// Style returns the prefix glyphs for a style, falling back to normal.
func (m Modifier) Style(mode model.ModsMode) []markup.Glyph {
	if g, ok := m.Styles[mode]; ok {
		return g
	}
	return m.Styles[model.ModsModeNormal]
}

var modifiers = []Modifier{
	{
		Name:    Shift,
		Mask:    model.ModShift,
		Symbols: []string{"Shift_L", "Shift_R"},
		Styles: map[model.ModsMode][]markup.Glyph{
			model.ModsModeNormal: markup.Plain("Shift+"),
			model.ModsModeEmacs:  markup.Plain("S-"),
			model.ModsModeMac:    markup.Plain("⇧+"),
		},
	},
	{
		Name:    Ctrl,
		Mask:    model.ModCtrl,
		Symbols: []string{"Control_L", "Control_R"},
		Styles: map[model.ModsMode][]markup.Glyph{
			model.ModsModeNormal: markup.Plain("Ctrl+"),
			model.ModsModeEmacs:  markup.Plain("C-"),
			model.ModsModeMac:    markup.Plain("⌘+"),
		},
	},
	{
		Name:    Alt,
		Mask:    model.ModAlt,
		Symbols: []string{"Alt_L", "Alt_R", "Meta_L", "Meta_R"},
		Styles: map[model.ModsMode][]markup.Glyph{
			model.ModsModeNormal: markup.Plain("Alt+"),
			model.ModsModeEmacs:  markup.Plain("M-"),
			model.ModsModeMac:    markup.Plain("⌥+"),
		},
	},
	{
		Name:    Super,
		Mask:    model.ModSuper,
		Symbols: []string{"Super_L", "Super_R"},
		Styles: map[model.ModsMode][]markup.Glyph{
			model.ModsModeNormal: markup.Plain("Super+"),
			model.ModsModeEmacs:  markup.Plain("s-"),
			model.ModsModeWin: {
				{Text: "\uf17a", Font: fontAwesome, Suffix: "+"},
				{Text: "Win", Suffix: "+"},
			},
			model.ModsModeTux: {
				{Text: "\uf17c", Font: fontAwesome, Suffix: "+"},
				{Text: "Super", Suffix: "+"},
			},
		},
	},
	{
		Name:    Hyper,
		Mask:    model.ModHyper,
		Symbols: []string{"Hyper_L", "Hyper_R"},
		Styles: map[model.ModsMode][]markup.Glyph{
			model.ModsModeNormal: markup.Plain("Hyper+"),
			model.ModsModeEmacs:  markup.Plain("H-"),
		},
	},
	{
		Name:    AltGr,
		Mask:    model.ModAltGr,
		Symbols: []string{"ISO_Level3_Shift"},
		Styles: map[model.ModsMode][]markup.Glyph{
			model.ModsModeNormal: markup.Plain("AltGr+"),
			model.ModsModeEmacs:  markup.Plain("AltGr-"),
		},
	},
}

var symbolToModifier = func() map[string]string {
	out := map[string]string{}
	for _, m := range modifiers {
		for _, s := range m.Symbols {
			out[s] = m.Name
		}
	}
	return out
}()

// Modifiers returns the modifier table in its fixed iteration order:
// shift, ctrl, alt, super, hyper, alt_gr.
func Modifiers() []Modifier {
	return modifiers
}

// ModifierByName finds a modifier table entry.
func ModifierByName(name string) (Modifier, bool) {
	for _, m := range modifiers {
		if m.Name == name {
			return m, true
		}
	}
	return Modifier{}, false
}

// ToModifier returns the modifier a symbol activates, if any.
func ToModifier(symbol string) (string, bool) {
	name, ok := symbolToModifier[symbol]
	return name, ok
}
