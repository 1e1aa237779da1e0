package model

import (
	"errors"
	"testing"
)

func TestLabelConfigValidate(t *testing.T) {
	cfg := DefaultLabelConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should be valid: %v", err)
	}

	bad := cfg
	bad.KeyMode = "cooked"
	if err := bad.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig for key mode, got %v", err)
	}
	bad = cfg
	bad.BakMode = "half"
	if err := bad.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig for bak mode, got %v", err)
	}
	bad = cfg
	bad.ModsMode = "vim"
	if err := bad.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig for mods mode, got %v", err)
	}
	bad = cfg
	bad.CompressCount = -1
	if err := bad.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig for compress count, got %v", err)
	}
}

func TestDecodingFromKeyMode(t *testing.T) {
	cases := []struct {
		mode      KeyMode
		compose   bool
		translate bool
	}{
		{KeyModeComposed, true, true},
		{KeyModeTranslated, false, true},
		{KeyModeRaw, false, false},
		{KeyModeKeysyms, false, false},
	}
	for _, tc := range cases {
		d := LabelConfig{KeyMode: tc.mode}.Decoding()
		if d.Compose != tc.compose || d.Translate != tc.translate {
			t.Fatalf("%s: unexpected decoding %+v", tc.mode, d)
		}
	}
}

func TestModStateString(t *testing.T) {
	s := ModCtrl | ModShift | ModCapsLock
	if got := s.String(); got != "shift|ctrl|caps_lock" {
		t.Fatalf("unexpected mod string %q", got)
	}
	if !s.Has(ModCtrl | ModShift) {
		t.Fatalf("expected ctrl and shift to be set")
	}
	if s.Has(ModAlt) {
		t.Fatalf("alt should not be set")
	}
}
