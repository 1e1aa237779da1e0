package source

import (
	"fmt"
	"time"
	"unicode"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/keycast/internal/model"
)

type termKey struct {
	symbol string
	text   string
	mods   model.ModState
}

var termKeys = map[tea.KeyType]termKey{
	tea.KeySpace:     {symbol: "space", text: " "},
	tea.KeyEnter:     {symbol: "Return", text: "\r"},
	tea.KeyTab:       {symbol: "Tab", text: "\t"},
	tea.KeyShiftTab:  {symbol: "ISO_Left_Tab", mods: model.ModShift},
	tea.KeyBackspace: {symbol: "BackSpace", text: "\b"},
	tea.KeyEscape:    {symbol: "Escape", text: "\x1b"},
	tea.KeyCtrlAt:    {symbol: "space", text: " ", mods: model.ModCtrl},
	tea.KeyDelete:    {symbol: "Delete"},
	tea.KeyInsert:    {symbol: "Insert"},

	tea.KeyUp:     {symbol: "Up"},
	tea.KeyDown:   {symbol: "Down"},
	tea.KeyLeft:   {symbol: "Left"},
	tea.KeyRight:  {symbol: "Right"},
	tea.KeyHome:   {symbol: "Home"},
	tea.KeyEnd:    {symbol: "End"},
	tea.KeyPgUp:   {symbol: "Prior"},
	tea.KeyPgDown: {symbol: "Next"},

	tea.KeyCtrlUp:     {symbol: "Up", mods: model.ModCtrl},
	tea.KeyCtrlDown:   {symbol: "Down", mods: model.ModCtrl},
	tea.KeyCtrlLeft:   {symbol: "Left", mods: model.ModCtrl},
	tea.KeyCtrlRight:  {symbol: "Right", mods: model.ModCtrl},
	tea.KeyCtrlHome:   {symbol: "Home", mods: model.ModCtrl},
	tea.KeyCtrlEnd:    {symbol: "End", mods: model.ModCtrl},
	tea.KeyCtrlPgUp:   {symbol: "Prior", mods: model.ModCtrl},
	tea.KeyCtrlPgDown: {symbol: "Next", mods: model.ModCtrl},

	tea.KeyShiftUp:    {symbol: "Up", mods: model.ModShift},
	tea.KeyShiftDown:  {symbol: "Down", mods: model.ModShift},
	tea.KeyShiftLeft:  {symbol: "Left", mods: model.ModShift},
	tea.KeyShiftRight: {symbol: "Right", mods: model.ModShift},
	tea.KeyShiftHome:  {symbol: "Home", mods: model.ModShift},
	tea.KeyShiftEnd:   {symbol: "End", mods: model.ModShift},

	tea.KeyCtrlShiftUp:    {symbol: "Up", mods: model.ModCtrl | model.ModShift},
	tea.KeyCtrlShiftDown:  {symbol: "Down", mods: model.ModCtrl | model.ModShift},
	tea.KeyCtrlShiftLeft:  {symbol: "Left", mods: model.ModCtrl | model.ModShift},
	tea.KeyCtrlShiftRight: {symbol: "Right", mods: model.ModCtrl | model.ModShift},
	tea.KeyCtrlShiftHome:  {symbol: "Home", mods: model.ModCtrl | model.ModShift},
	tea.KeyCtrlShiftEnd:   {symbol: "End", mods: model.ModCtrl | model.ModShift},

	tea.KeyF1:  {symbol: "F1"},
	tea.KeyF2:  {symbol: "F2"},
	tea.KeyF3:  {symbol: "F3"},
	tea.KeyF4:  {symbol: "F4"},
	tea.KeyF5:  {symbol: "F5"},
	tea.KeyF6:  {symbol: "F6"},
	tea.KeyF7:  {symbol: "F7"},
	tea.KeyF8:  {symbol: "F8"},
	tea.KeyF9:  {symbol: "F9"},
	tea.KeyF10: {symbol: "F10"},
	tea.KeyF11: {symbol: "F11"},
	tea.KeyF12: {symbol: "F12"},
}

// X11 keysym names for printable ASCII punctuation.
var punctSymbols = map[rune]string{
	'!':  "exclam",
	'"':  "quotedbl",
	'#':  "numbersign",
	'$':  "dollar",
	'%':  "percent",
	'&':  "ampersand",
	'\'': "apostrophe",
	'(':  "parenleft",
	')':  "parenright",
	'*':  "asterisk",
	'+':  "plus",
	',':  "comma",
	'-':  "minus",
	'.':  "period",
	'/':  "slash",
	':':  "colon",
	';':  "semicolon",
	'<':  "less",
	'=':  "equal",
	'>':  "greater",
	'?':  "question",
	'@':  "at",
	'[':  "bracketleft",
	'\\': "backslash",
	']':  "bracketright",
	'^':  "asciicircum",
	'_':  "underscore",
	'`':  "grave",
	'{':  "braceleft",
	'|':  "bar",
	'}':  "braceright",
	'~':  "asciitilde",
}

// RuneSymbol returns the keysym name a terminal rune most likely came from.
func RuneSymbol(r rune) string {
	if r == ' ' {
		return "space"
	}
	if name, ok := punctSymbols[r]; ok {
		return name
	}
	return string(r)
}

// FromKeyMsg translates a bubbletea key message into press events. Terminals
// report no releases, so every event is a press. Pasted text yields one event
// per rune. Keys a terminal cannot describe produce no events.
func FromKeyMsg(msg tea.KeyMsg, now time.Time) []model.KeyEvent {
	var alt model.ModState
	if msg.Alt {
		alt = model.ModAlt
	}

	if msg.Type == tea.KeyRunes {
		events := make([]model.KeyEvent, 0, len(msg.Runes))
		for _, r := range msg.Runes {
			mods := model.ModState(0)
			if !msg.Paste {
				mods = alt
			}
			if unicode.IsUpper(r) {
				mods |= model.ModShift
			}
			events = append(events, model.KeyEvent{
				Symbol:  RuneSymbol(r),
				String:  string(r),
				Pressed: true,
				Mods:    mods,
				Code:    int(r),
				Time:    now,
			})
		}
		return events
	}

	if k, ok := termKeys[msg.Type]; ok {
		return []model.KeyEvent{{
			Symbol:  k.symbol,
			String:  k.text,
			Pressed: true,
			Mods:    k.mods | alt,
			Code:    int(msg.Type),
			Time:    now,
		}}
	}

	if msg.Type >= tea.KeyCtrlA && msg.Type <= tea.KeyCtrlZ {
		letter := string(rune('a' + int(msg.Type-tea.KeyCtrlA)))
		return []model.KeyEvent{{
			Symbol:  letter,
			String:  letter,
			Pressed: true,
			Mods:    model.ModCtrl | alt,
			Code:    int(msg.Type),
			Time:    now,
		}}
	}
	return nil
}

// KeyName renders a key message for debug logging.
func KeyName(msg tea.KeyMsg) string {
	return fmt.Sprintf("%s(%d)", msg.String(), int(msg.Type))
}
