package label

import (
	"strings"
	"time"

	"github.com/verte-zerg/keycast/internal/keysym"
	"github.com/verte-zerg/keycast/internal/markup"
	"github.com/verte-zerg/keycast/internal/model"
)

// handleNormal emulates an edit buffer so the label reads like typed text.
func handleNormal(v *view, ev model.KeyEvent, h *History, now time.Time) bool {
	if !ev.Pressed || ev.Filtered {
		return false
	}
	mod := v.prefix(ev.Mods, v.normal)
	shift := ev.Mods.Has(model.ModShift)

	if ev.Symbol == "BackSpace" && !v.cfg.ModsOnly && mod == "" && !shift {
		bs := v.syms["BackSpace"]
		if v.cfg.BakMode != model.BakModeNormal && h.erasable(v.cfg.BakMode) {
			h.pop()
			return true
		}
		h.push(bs.entry(now, false, bs.markup))
		return true
	}

	p, replaced := v.syms[ev.Symbol]
	if !replaced {
		if _, ok := keysym.ToModifier(ev.Symbol); ok {
			return false
		}
		text := ev.String
		if text == "" {
			text = ev.Symbol
		}
		p = literal(text)
	}

	if shift && (replaced || (mod != "" && v.cfg.VisShift && !v.emacs())) {
		mod += v.mods[keysym.Shift]
	}

	if !v.cfg.VisSpace && mod == "" && keysym.IsWhitespace(ev.Symbol) {
		switch {
		case !keysym.IsReturn(ev.Symbol):
			p.markup = markup.Escape(ev.String)
		case v.cfg.Multiline:
			p.markup = ""
		}
	}

	if keysym.IsReturn(ev.Symbol) && v.cfg.Multiline {
		p.markup += "\n"
	}

	if mod == "" {
		if v.cfg.ModsOnly {
			return false
		}
		h.push(p.entry(now, false, p.markup+toggleSuffix(ev)))
		return true
	}
	h.push(p.entry(now, true, joinPrefix(mod, p.markup, v.emacs())))
	return true
}

// handleRaw shows every modifier and the unshifted key cap.
func handleRaw(v *view, ev model.KeyEvent, h *History, now time.Time) bool {
	if !ev.Pressed || ev.Filtered {
		return false
	}
	mod := v.prefix(ev.Mods, v.raw)

	p, ok := v.syms[ev.Symbol]
	if !ok {
		if _, isMod := keysym.ToModifier(ev.Symbol); isMod {
			return false
		}
		text := ev.Symbol
		if ev.String != "" {
			text = strings.ToUpper(ev.String)
		}
		p = literal(text)
	}

	if mod == "" {
		h.push(p.entry(now, false, p.markup+toggleSuffix(ev)))
		return true
	}
	h.push(p.entry(now, true, joinPrefix(mod, p.markup, v.emacs())))
	return true
}

// handleKeysyms shows which keys are currently held, one entry per key.
func handleKeysyms(_ *view, ev model.KeyEvent, h *History, now time.Time) bool {
	value := ev.Symbol
	if !keysym.Known(ev.Symbol) && ev.String != "" {
		value = ev.String
	}
	value = markup.Escape(value)

	before := len(*h)
	h.remove(value)
	if ev.Pressed {
		h.push(model.Entry{
			Stamp:      now,
			Combo:      true,
			HaltsBaked: true,
			Silent:     true,
			Spaced:     true,
			Markup:     value,
		})
	}
	return len(*h) != before
}
