package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/keycast/internal/config"
	"github.com/verte-zerg/keycast/internal/label"
	"github.com/verte-zerg/keycast/internal/model"
)

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func floatPtr(f float64) *float64 { return &f }

func TestLabelFlagsFileValuesYieldToFlags(t *testing.T) {
	var f labelFlags
	cmd := &cobra.Command{Use: "test"}
	f.register(cmd)
	if err := cmd.Flags().Set("bak-mode", "full"); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	f.apply(cmd, config.LabelSection{
		KeyMode:   strPtr("raw"),
		BakMode:   strPtr("normal"),
		Multiline: boolPtr(true),
		RecentThr: floatPtr(0.25),
		Ignore:    []string{"Escape"},
	})
	cfg, err := f.build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if cfg.KeyMode != model.KeyModeRaw {
		t.Fatalf("file key mode not applied: %s", cfg.KeyMode)
	}
	if cfg.BakMode != model.BakModeFull {
		t.Fatalf("flag must win over file, got %s", cfg.BakMode)
	}
	if !cfg.Multiline || cfg.RecentThreshold != 250*time.Millisecond {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if len(cfg.Ignore) != 1 || cfg.Ignore[0] != "Escape" {
		t.Fatalf("unexpected ignore list %v", cfg.Ignore)
	}
}

func TestLabelFlagsRejectUnknownModes(t *testing.T) {
	f := labelFlags{keyMode: "composed", bakMode: "baked", modsMode: "fancy"}
	if _, err := f.build(); !errors.Is(err, model.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	f = labelFlags{keyMode: "composed", bakMode: "baked", modsMode: "normal", recentThr: -1}
	if _, err := f.build(); !errors.Is(err, model.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig for negative threshold, got %v", err)
	}
}

func TestDisplayFlagsValidate(t *testing.T) {
	f := displayFlags{timeout: -1}
	if err := f.validate(); !errors.Is(err, model.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	f.timeout = 1.5
	if f.timeoutDuration() != 1500*time.Millisecond {
		t.Fatalf("unexpected timeout %s", f.timeoutDuration())
	}
}

func TestDefaultConfigTemplateDecodes(t *testing.T) {
	for _, name := range []string{"config.toml", "config.yaml"} {
		path := filepath.Join(t.TempDir(), name)
		if err := os.WriteFile(path, []byte(defaultConfigTemplate(path)), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
		cfg, err := config.LoadConfig(path)
		if err != nil {
			t.Fatalf("%s: template does not decode: %v", name, err)
		}
		if cfg.Label.KeyMode != nil || cfg.Display.Timeout != nil {
			t.Fatalf("%s: commented template must not set values", name)
		}
	}
}

func TestWriteReplayLine(t *testing.T) {
	var buf bytes.Buffer
	writeReplayLine(&buf, label.Update{Markup: "a <u>b</u>", Repeats: 2}, false, 1500*time.Millisecond)
	got := buf.String()
	if !strings.Contains(got, "1.50s  a b  (mods ×2)") {
		t.Fatalf("unexpected plain line %q", got)
	}
	buf.Reset()
	writeReplayLine(&buf, label.Update{Markup: "a <u>b</u>"}, true, 0)
	if !strings.Contains(buf.String(), "a <u>b</u>") {
		t.Fatalf("markup mode must keep tags, got %q", buf.String())
	}
}
