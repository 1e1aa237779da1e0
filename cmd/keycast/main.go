// Package main provides the CLI entrypoint for keycast.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/keycast/internal/config"
	"github.com/verte-zerg/keycast/internal/label"
	"github.com/verte-zerg/keycast/internal/model"
	"github.com/verte-zerg/keycast/internal/source"
	"github.com/verte-zerg/keycast/internal/store"
	"github.com/verte-zerg/keycast/internal/tui"
)

const queueSize = 64

var (
	configPath string
	logPath    string
	debug      bool

	liveLabel   labelFlags
	liveDisplay displayFlags
	recordName  string
	recordForce bool
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "keycast",
		Short:         "Show keystrokes as a live label",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runLiveCmd,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultConfigPath(), "config file (.toml, .yaml or .yml)")
	rootCmd.PersistentFlags().StringVar(&logPath, "log-file", config.DefaultLogPath(), "log file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log every key event")

	liveLabel.register(rootCmd)
	liveDisplay.register(rootCmd)
	rootCmd.Flags().StringVar(&recordName, "record", "", "save the session's key events under this name")
	rootCmd.Flags().BoolVar(&recordForce, "force", false, "replace an existing recording with the same name")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newReplayCmd())
	rootCmd.AddCommand(newRecordingsCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newKeysCmd())

	return rootCmd
}

func runLiveCmd(cmd *cobra.Command, _ []string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("keycast needs an interactive terminal")
	}
	logger, closeLog, err := setupLogging(false)
	if err != nil {
		return err
	}
	defer closeLog()

	fileCfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	liveLabel.apply(cmd, fileCfg.Label)
	liveDisplay.apply(cmd, fileCfg.Display)
	cfg, err := liveLabel.build()
	if err != nil {
		return err
	}
	if err := liveDisplay.validate(); err != nil {
		return err
	}
	palette, err := tui.NewPalette(liveDisplay.fg, liveDisplay.bg)
	if err != nil {
		return err
	}
	fonts := liveDisplay.fontSet(cmd.Context(), logger)

	var st *store.Store
	if recordName != "" {
		st, err = openRecordingTarget(cmd.Context(), recordName, recordForce)
		if err != nil {
			return err
		}
		defer closeStore(st, logger)
	}

	updates := make(chan label.Update, queueSize)
	done := make(chan struct{})
	listener := func(u label.Update) {
		select {
		case updates <- u:
		case <-done:
		}
	}
	events := make(chan source.Message, queueSize)
	mgr, err := label.New(cfg, fonts, listener, source.ChannelOpener(events, logger), logger)
	if err != nil {
		return err
	}
	if err := mgr.Start(); err != nil {
		return fmt.Errorf("failed to start event source: %w", err)
	}
	logger.Info().
		Str("key_mode", string(cfg.KeyMode)).
		Str("bak_mode", string(cfg.BakMode)).
		Str("mods_mode", string(cfg.ModsMode)).
		Int("fonts", len(fonts)).
		Msg("live session started")

	startedAt := time.Now()
	var recorded []model.KeyEvent
	forward := func(ev model.KeyEvent) {
		if recordName != "" {
			recorded = append(recorded, ev)
		}
		select {
		case events <- source.Message{Event: ev}:
		default:
			logger.Warn().Str("symbol", ev.Symbol).Msg("event queue full, dropping key")
		}
	}

	m := tui.NewModel(tui.Options{
		Forward:    forward,
		Clear:      mgr.Clear,
		SetEnabled: mgr.SetEnabled,
		Updates:    updates,
		Timeout:    liveDisplay.timeoutDuration(),
		Palette:    palette,
		Status:     fmt.Sprintf("%s/%s/%s", cfg.KeyMode, cfg.BakMode, cfg.ModsMode),
		Logger:     logger,
	})
	program := tea.NewProgram(m, tea.WithAltScreen())
	_, runErr := program.Run()
	close(done)
	mgr.Stop()
	if runErr != nil {
		return fmt.Errorf("failed to run TUI: %w", runErr)
	}

	if st != nil {
		if _, err := st.InsertRecording(context.Background(), recordName, cfg.KeyMode, recorded, startedAt); err != nil {
			return fmt.Errorf("failed to save recording: %w", err)
		}
		logErrf("Saved recording %q (%d events)\n", recordName, len(recorded))
	}
	return nil
}

func openRecordingTarget(ctx context.Context, name string, force bool) (*store.Store, error) {
	st, err := openStore()
	if err != nil {
		return nil, err
	}
	_, err = st.GetRecording(ctx, name)
	switch {
	case err == nil && !force:
		_ = st.Close()
		return nil, fmt.Errorf("recording %q already exists (use --force to replace it)", name)
	case err == nil:
		if err := st.DeleteRecording(ctx, name); err != nil {
			_ = st.Close()
			return nil, fmt.Errorf("failed to replace recording: %w", err)
		}
	case !errors.Is(err, store.ErrNotFound):
		_ = st.Close()
		return nil, fmt.Errorf("failed to look up recording: %w", err)
	}
	return st, nil
}

// setupLogging sends logs to the log file, and also to stderr when the
// command does not own the terminal.
func setupLogging(toStderr bool) (zerolog.Logger, func(), error) {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	file, err := openLogFile(logPath)
	if err != nil {
		return zerolog.Nop(), func() {}, fmt.Errorf("failed to open log file: %w", err)
	}
	writers := []io.Writer{zerolog.ConsoleWriter{Out: file, NoColor: true, TimeFormat: time.RFC3339}}
	if toStderr {
		writers = append(writers, zerolog.ConsoleWriter{Out: os.Stderr})
	}
	writer := zerolog.MultiLevelWriter(writers...)
	logger := zerolog.New(writer).Level(level).With().Timestamp().Logger()
	log.Logger = logger
	closeFn := func() {
		if cerr := file.Close(); cerr != nil {
			// Best-effort log close.
			_ = cerr
		}
	}
	return logger, closeFn, nil
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

func closeStore(st *store.Store, logger zerolog.Logger) {
	if cerr := st.Close(); cerr != nil {
		logger.Error().Err(cerr).Msg("failed to close db")
	}
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
