// Package model defines shared data structures.
package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidConfig is wrapped by every configuration validation error.
var ErrInvalidConfig = errors.New("invalid config")

// ModState is a bitmask of held modifiers and lock toggles.
type ModState uint16

// Modifier and toggle bits.
const (
	ModShift ModState = 1 << iota
	ModCtrl
	ModAlt
	ModSuper
	ModHyper
	ModAltGr
	ModCapsLock
	ModNumLock
)

// Has reports whether every bit of m is set.
func (s ModState) Has(m ModState) bool {
	return s&m == m
}

// String renders the set bits for logging.
func (s ModState) String() string {
	names := []struct {
		bit  ModState
		name string
	}{
		{ModShift, "shift"},
		{ModCtrl, "ctrl"},
		{ModAlt, "alt"},
		{ModSuper, "super"},
		{ModHyper, "hyper"},
		{ModAltGr, "alt_gr"},
		{ModCapsLock, "caps_lock"},
		{ModNumLock, "num_lock"},
	}
	parts := make([]string, 0, len(names))
	for _, n := range names {
		if s.Has(n.bit) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

// KeyEvent is a single raw keyboard event delivered by a source.
//
// Symbol is always set. String is the decoded text and is empty for control
// keys. Lock toggle bits in Mods report the state the key leaves the lock in.
type KeyEvent struct {
	Symbol   string
	String   string
	Pressed  bool
	Repeated bool
	Filtered bool
	Mods     ModState
	Code     int
	Time     time.Time
}

// Entry is one rendered key in the label history.
type Entry struct {
	Stamp      time.Time
	Combo      bool
	HaltsBaked bool
	Silent     bool
	Spaced     bool
	Markup     string
}

// KeyMode selects how events are decoded and which handler runs.
type KeyMode string

// Key modes.
const (
	KeyModeComposed   KeyMode = "composed"
	KeyModeTranslated KeyMode = "translated"
	KeyModeRaw        KeyMode = "raw"
	KeyModeKeysyms    KeyMode = "keysyms"
)

// BakMode selects the backspace editing semantics.
type BakMode string

// Backspace modes.
const (
	BakModeNormal BakMode = "normal"
	BakModeBaked  BakMode = "baked"
	BakModeFull   BakMode = "full"
)

// ModsMode selects how modifier prefixes are rendered.
type ModsMode string

// Modifier styles.
const (
	ModsModeNormal ModsMode = "normal"
	ModsModeEmacs  ModsMode = "emacs"
	ModsModeMac    ModsMode = "mac"
	ModsModeWin    ModsMode = "win"
	ModsModeTux    ModsMode = "tux"
)

// KeyModes lists the accepted key modes.
var KeyModes = []KeyMode{KeyModeComposed, KeyModeTranslated, KeyModeRaw, KeyModeKeysyms}

// BakModes lists the accepted backspace modes.
var BakModes = []BakMode{BakModeNormal, BakModeBaked, BakModeFull}

// ModsModes lists the accepted modifier styles.
var ModsModes = []ModsMode{ModsModeNormal, ModsModeEmacs, ModsModeMac, ModsModeWin, ModsModeTux}

// ParseKeyMode validates a key mode name.
func ParseKeyMode(s string) (KeyMode, error) {
	for _, m := range KeyModes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown key mode %q: %w", s, ErrInvalidConfig)
}

// ParseBakMode validates a backspace mode name.
func ParseBakMode(s string) (BakMode, error) {
	for _, m := range BakModes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown backspace mode %q: %w", s, ErrInvalidConfig)
}

// ParseModsMode validates a modifier style name.
func ParseModsMode(s string) (ModsMode, error) {
	for _, m := range ModsModes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown modifier style %q: %w", s, ErrInvalidConfig)
}

// Decoding is what a source is asked to do with raw key codes.
type Decoding struct {
	Compose   bool
	Translate bool
}

// LabelConfig defines how events become label text.
type LabelConfig struct {
	KeyMode         KeyMode
	BakMode         BakMode
	ModsMode        ModsMode
	ModsOnly        bool
	Multiline       bool
	VisShift        bool
	VisSpace        bool
	RecentThreshold time.Duration
	CompressCount   int
	Ignore          []string
}

// DefaultLabelConfig returns the settings used when nothing is configured.
func DefaultLabelConfig() LabelConfig {
	return LabelConfig{
		KeyMode:  KeyModeComposed,
		BakMode:  BakModeBaked,
		ModsMode: ModsModeNormal,
	}
}

// Validate rejects values outside the recognized enumerations.
func (c LabelConfig) Validate() error {
	if _, err := ParseKeyMode(string(c.KeyMode)); err != nil {
		return err
	}
	if _, err := ParseBakMode(string(c.BakMode)); err != nil {
		return err
	}
	if _, err := ParseModsMode(string(c.ModsMode)); err != nil {
		return err
	}
	if c.RecentThreshold < 0 {
		return fmt.Errorf("recent threshold must be >= 0: %w", ErrInvalidConfig)
	}
	if c.CompressCount < 0 {
		return fmt.Errorf("compress count must be >= 0: %w", ErrInvalidConfig)
	}
	return nil
}

// Decoding derives the source decoding from the key mode.
func (c LabelConfig) Decoding() Decoding {
	return Decoding{
		Compose:   c.KeyMode == KeyModeComposed,
		Translate: c.KeyMode == KeyModeComposed || c.KeyMode == KeyModeTranslated,
	}
}

// Recording describes a stored event stream.
type Recording struct {
	ID        int64
	Name      string
	CreatedAt time.Time
	KeyMode   KeyMode
	Events    int
	Duration  time.Duration
}

// SymbolCount aggregates how often a symbol was pressed.
type SymbolCount struct {
	Symbol  string
	Presses int
	Repeats int
}
