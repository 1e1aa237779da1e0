package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/keycast/internal/config"
	"github.com/verte-zerg/keycast/internal/fonts"
	"github.com/verte-zerg/keycast/internal/markup"
	"github.com/verte-zerg/keycast/internal/model"
	"github.com/verte-zerg/keycast/internal/tui"
)

const (
	defaultTimeout   = 2.5
	fontQueryTimeout = 3 * time.Second
)

type labelFlags struct {
	keyMode   string
	bakMode   string
	modsMode  string
	modsOnly  bool
	multiline bool
	visShift  bool
	visSpace  bool
	recentThr float64
	comprCnt  int
	ignore    []string
}

func (f *labelFlags) register(cmd *cobra.Command) {
	def := model.DefaultLabelConfig()
	cmd.Flags().StringVar(&f.keyMode, "key-mode", string(def.KeyMode), "key mode: composed, translated, raw or keysyms")
	cmd.Flags().StringVar(&f.bakMode, "bak-mode", string(def.BakMode), "backspace mode: normal, baked or full")
	cmd.Flags().StringVar(&f.modsMode, "mods-mode", string(def.ModsMode), "modifier style: normal, emacs, mac, win or tux")
	cmd.Flags().BoolVar(&f.modsOnly, "mods-only", false, "show only combinations with modifiers")
	cmd.Flags().BoolVar(&f.multiline, "multiline", false, "start a new line after Return")
	cmd.Flags().BoolVar(&f.visShift, "vis-shift", false, "always show Shift in combinations")
	cmd.Flags().BoolVar(&f.visSpace, "vis-space", false, "show a symbol for whitespace")
	cmd.Flags().Float64Var(&f.recentThr, "recent-thr", 0, "underline keys newer than this many seconds (0 disables)")
	cmd.Flags().IntVar(&f.comprCnt, "compr-cnt", 0, "collapse runs of identical keys longer than this (0 disables)")
	cmd.Flags().StringSliceVar(&f.ignore, "ignore", nil, "key symbols to ignore")
}

func (f *labelFlags) apply(cmd *cobra.Command, sec config.LabelSection) {
	applyStringConfig(cmd, "key-mode", &f.keyMode, sec.KeyMode)
	applyStringConfig(cmd, "bak-mode", &f.bakMode, sec.BakMode)
	applyStringConfig(cmd, "mods-mode", &f.modsMode, sec.ModsMode)
	applyBoolConfig(cmd, "mods-only", &f.modsOnly, sec.ModsOnly)
	applyBoolConfig(cmd, "multiline", &f.multiline, sec.Multiline)
	applyBoolConfig(cmd, "vis-shift", &f.visShift, sec.VisShift)
	applyBoolConfig(cmd, "vis-space", &f.visSpace, sec.VisSpace)
	applyFloatConfig(cmd, "recent-thr", &f.recentThr, sec.RecentThr)
	applyIntConfig(cmd, "compr-cnt", &f.comprCnt, sec.ComprCnt)
	applyStringsConfig(cmd, "ignore", &f.ignore, sec.Ignore)
}

func (f *labelFlags) build() (model.LabelConfig, error) {
	keyMode, err := model.ParseKeyMode(f.keyMode)
	if err != nil {
		return model.LabelConfig{}, fmt.Errorf("--key-mode: %w", err)
	}
	bakMode, err := model.ParseBakMode(f.bakMode)
	if err != nil {
		return model.LabelConfig{}, fmt.Errorf("--bak-mode: %w", err)
	}
	modsMode, err := model.ParseModsMode(f.modsMode)
	if err != nil {
		return model.LabelConfig{}, fmt.Errorf("--mods-mode: %w", err)
	}
	if f.recentThr < 0 {
		return model.LabelConfig{}, fmt.Errorf("--recent-thr must be >= 0: %w", model.ErrInvalidConfig)
	}
	cfg := model.LabelConfig{
		KeyMode:         keyMode,
		BakMode:         bakMode,
		ModsMode:        modsMode,
		ModsOnly:        f.modsOnly,
		Multiline:       f.multiline,
		VisShift:        f.visShift,
		VisSpace:        f.visSpace,
		RecentThreshold: time.Duration(f.recentThr * float64(time.Second)),
		CompressCount:   f.comprCnt,
		Ignore:          f.ignore,
	}
	if err := cfg.Validate(); err != nil {
		return model.LabelConfig{}, err
	}
	return cfg, nil
}

type displayFlags struct {
	timeout float64
	fg      string
	bg      string
	fonts   []string
}

func (f *displayFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.timeout, "timeout", defaultTimeout, "clear the label after this many idle seconds (0 disables)")
	cmd.Flags().StringVar(&f.fg, "fg", tui.DefaultFg, "label foreground color")
	cmd.Flags().StringVar(&f.bg, "bg", tui.DefaultBg, "label background color")
	registerFontFlag(cmd, &f.fonts)
}

func registerFontFlag(cmd *cobra.Command, target *[]string) {
	cmd.Flags().StringSliceVar(target, "font", nil, "font families to treat as installed (default: ask fontconfig)")
}

func (f *displayFlags) apply(cmd *cobra.Command, sec config.DisplaySection) {
	applyFloatConfig(cmd, "timeout", &f.timeout, sec.Timeout)
	applyStringConfig(cmd, "fg", &f.fg, sec.Fg)
	applyStringConfig(cmd, "bg", &f.bg, sec.Bg)
	applyStringsConfig(cmd, "font", &f.fonts, sec.Fonts)
}

func (f *displayFlags) validate() error {
	if f.timeout < 0 {
		return fmt.Errorf("--timeout must be >= 0: %w", model.ErrInvalidConfig)
	}
	return nil
}

func (f *displayFlags) timeoutDuration() time.Duration {
	return time.Duration(f.timeout * float64(time.Second))
}

func (f *displayFlags) fontSet(ctx context.Context, logger zerolog.Logger) markup.FontSet {
	return resolveFonts(ctx, f.fonts, logger)
}

// resolveFonts uses the configured families when given and otherwise asks
// fontconfig. A failed query yields an empty set so labels use text
// fallbacks.
func resolveFonts(ctx context.Context, configured []string, logger zerolog.Logger) markup.FontSet {
	if len(configured) > 0 {
		return markup.NewFontSet(configured...)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, fontQueryTimeout)
	defer cancel()
	set, err := fonts.Families(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("font query failed, using text labels")
		return markup.NewFontSet()
	}
	logger.Debug().Int("families", len(set)).Msg("fonts loaded")
	return set
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyStringsConfig(cmd *cobra.Command, name string, target *[]string, value []string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = append([]string(nil), value...)
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := configPath
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate(path)), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func defaultConfigTemplate(path string) string {
	def := model.DefaultLabelConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return fmt.Sprintf(`# keycast configuration
# Uncomment a value to enable it. CLI flags override config values.

label:
#  key-mode: %s        # composed, translated, raw or keysyms
#  bak-mode: %s           # normal, baked or full
#  mods-mode: %s        # normal, emacs, mac, win or tux
#  mods-only: false        # Show only combinations with modifiers
#  multiline: false        # Start a new line after Return
#  vis-shift: false        # Always show Shift in combinations
#  vis-space: false        # Show a symbol for whitespace
#  recent-thr: 0           # Underline keys newer than this many seconds
#  compr-cnt: 0            # Collapse runs of identical keys longer than this
#  ignore: []              # Key symbols to ignore

display:
#  timeout: %.1f           # Clear the label after this many idle seconds
#  fg: "%s"           # Label foreground color
#  bg: "%s"           # Label background color
#  fonts: []               # Font families to treat as installed
`, def.KeyMode, def.BakMode, def.ModsMode, defaultTimeout, tui.DefaultFg, tui.DefaultBg)
	default:
		return fmt.Sprintf(`# keycast configuration
# Uncomment a value to enable it. CLI flags override config values.

[label]
# key-mode = %q      # composed, translated, raw or keysyms
# bak-mode = %q         # normal, baked or full
# mods-mode = %q      # normal, emacs, mac, win or tux
# mods-only = false        # Show only combinations with modifiers
# multiline = false        # Start a new line after Return
# vis-shift = false        # Always show Shift in combinations
# vis-space = false        # Show a symbol for whitespace
# recent-thr = 0.0         # Underline keys newer than this many seconds
# compr-cnt = 0            # Collapse runs of identical keys longer than this
# ignore = []              # Key symbols to ignore

[display]
# timeout = %.1f           # Clear the label after this many idle seconds
# fg = %q          # Label foreground color
# bg = %q          # Label background color
# fonts = []               # Font families to treat as installed
`, def.KeyMode, def.BakMode, def.ModsMode, defaultTimeout, tui.DefaultFg, tui.DefaultBg)
	}
}
