package label

import (
	"time"
	"unicode/utf8"

	"github.com/verte-zerg/keycast/internal/keysym"
	"github.com/verte-zerg/keycast/internal/markup"
	"github.com/verte-zerg/keycast/internal/model"
)

// policy is a keysym.Policy with its display already rendered to markup.
type policy struct {
	haltsBaked bool
	silent     bool
	spaced     bool
	markup     string
}

func (p policy) entry(now time.Time, combo bool, text string) model.Entry {
	return model.Entry{
		Stamp:      now,
		Combo:      combo,
		HaltsBaked: p.haltsBaked,
		Silent:     p.silent,
		Spaced:     p.spaced,
		Markup:     text,
	}
}

func literal(text string) policy {
	return policy{
		spaced: utf8.RuneCountInString(text) > 1,
		markup: markup.Escape(text),
	}
}

type modPrefix struct {
	name   string
	mask   model.ModState
	markup string
}

type handlerFunc func(v *view, ev model.KeyEvent, h *History, now time.Time) bool

// view is an immutable snapshot of the configuration and every cache derived
// from it. It is rebuilt as a whole on reconfiguration.
type view struct {
	cfg     model.LabelConfig
	syms    map[string]policy
	mods    map[string]string
	normal  []modPrefix
	raw     []modPrefix
	ignore  map[string]struct{}
	render  RenderOptions
	handler handlerFunc
}

var normalPrefixOrder = []string{keysym.Ctrl, keysym.Alt, keysym.Super, keysym.Hyper}

func newView(cfg model.LabelConfig, fonts markup.FontSet) (*view, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	v := &view{
		cfg:    cfg,
		syms:   map[string]policy{},
		mods:   map[string]string{},
		ignore: map[string]struct{}{},
		render: RenderOptions{
			RecentThreshold: cfg.RecentThreshold,
			CompressCount:   cfg.CompressCount,
		},
	}
	for _, sym := range keysym.Symbols() {
		p, _ := keysym.Lookup(sym)
		v.syms[sym] = policy{
			haltsBaked: p.HaltsBaked,
			silent:     p.Silent,
			spaced:     p.Spaced,
			markup:     markup.Render(p.Display, fonts),
		}
	}
	for _, m := range keysym.Modifiers() {
		prefix := markup.Render(m.Style(cfg.ModsMode), fonts)
		v.mods[m.Name] = prefix
		v.raw = append(v.raw, modPrefix{name: m.Name, mask: m.Mask, markup: prefix})
	}
	for _, name := range normalPrefixOrder {
		m, _ := keysym.ModifierByName(name)
		v.normal = append(v.normal, modPrefix{name: name, mask: m.Mask, markup: v.mods[name]})
	}
	for _, sym := range cfg.Ignore {
		v.ignore[sym] = struct{}{}
	}

	switch cfg.KeyMode {
	case model.KeyModeComposed, model.KeyModeTranslated:
		v.handler = handleNormal
	case model.KeyModeRaw:
		v.handler = handleRaw
	case model.KeyModeKeysyms:
		v.handler = handleKeysyms
	}
	return v, nil
}

func (v *view) prefix(mods model.ModState, order []modPrefix) string {
	out := ""
	for _, m := range order {
		if mods.Has(m.mask) {
			out += m.markup
		}
	}
	return out
}

func (v *view) emacs() bool {
	return v.cfg.ModsMode == model.ModsModeEmacs
}

// joinPrefix appends a glyph to a modifier prefix. When the glyph starts with
// the character the prefix ends with, the glyph is quoted so "Ctrl++" reads
// as "Ctrl+‟+”".
func joinPrefix(prefix, glyph string, emacs bool) string {
	if emacs || glyph == "" || prefix == "" {
		return prefix + glyph
	}
	first, _ := utf8.DecodeRuneInString(glyph)
	last, _ := utf8.DecodeLastRuneInString(prefix)
	if first != last {
		return prefix + glyph
	}
	return prefix + "‟" + glyph + "”"
}

// toggleSuffix returns the lock state note for Caps_Lock and Num_Lock.
func toggleSuffix(ev model.KeyEvent) string {
	var mask model.ModState
	switch ev.Symbol {
	case "Caps_Lock":
		mask = model.ModCapsLock
	case "Num_Lock":
		mask = model.ModNumLock
	default:
		return ""
	}
	if ev.Mods.Has(mask) {
		return "(on)"
	}
	return "(off)"
}
