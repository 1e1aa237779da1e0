package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/keycast/internal/config"
	"github.com/verte-zerg/keycast/internal/label"
	"github.com/verte-zerg/keycast/internal/markup"
	"github.com/verte-zerg/keycast/internal/model"
	"github.com/verte-zerg/keycast/internal/source"
	"github.com/verte-zerg/keycast/internal/stats"
	"github.com/verte-zerg/keycast/internal/store"
)

const (
	defaultTop    = 15
	defaultBucket = 1.0
)

var (
	replayLabel  labelFlags
	replayFonts  []string
	replayPace   bool
	replayMarkup bool

	statsTop    int
	statsBucket float64
	statsPlot   bool

	keysFonts []string
)

func newReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay NAME",
		Short: "Replay a recording and print every label update",
		Args:  cobra.ExactArgs(1),
		RunE:  runReplayCmd,
	}
	replayLabel.register(cmd)
	registerFontFlag(cmd, &replayFonts)
	cmd.Flags().BoolVar(&replayPace, "pace", false, "replay at the recorded speed (default: on when stdout is a terminal)")
	cmd.Flags().BoolVar(&replayMarkup, "markup", false, "print label markup instead of plain text")
	return cmd
}

func runReplayCmd(cmd *cobra.Command, args []string) error {
	logger, closeLog, err := setupLogging(debug)
	if err != nil {
		return err
	}
	defer closeLog()

	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st, logger)
	rec, events, err := st.LoadEvents(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to load recording: %w", err)
	}

	fileCfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	replayLabel.apply(cmd, fileCfg.Label)
	if !cmd.Flags().Changed("key-mode") && fileCfg.Label.KeyMode == nil {
		replayLabel.keyMode = string(rec.KeyMode)
	}
	applyStringsConfig(cmd, "font", &replayFonts, fileCfg.Display.Fonts)
	cfg, err := replayLabel.build()
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("pace") {
		replayPace = term.IsTerminal(int(os.Stdout.Fd()))
	}

	out := cmd.OutOrStdout()
	start := time.Now()
	listener := func(u label.Update) {
		writeReplayLine(out, u, replayMarkup, time.Since(start))
	}
	fonts := resolveFonts(cmd.Context(), replayFonts, logger)
	mgr, err := label.New(cfg, fonts, listener, source.ReplayOpener(events, replayPace, logger), logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	if err := mgr.Start(); err != nil {
		return fmt.Errorf("failed to start replay: %w", err)
	}
	go func() {
		<-ctx.Done()
		mgr.Stop()
	}()
	if err := mgr.Wait(); err != nil {
		return fmt.Errorf("replay failed: %w", err)
	}
	logger.Debug().Str("recording", rec.Name).Int("events", len(events)).Msg("replay done")
	return nil
}

func writeReplayLine(w io.Writer, u label.Update, raw bool, elapsed time.Duration) {
	if u.Err != nil {
		logErrf("replay source failed: %v\n", u.Err)
		return
	}
	text := u.Markup
	if !raw {
		text = markup.Text(text)
	}
	line := fmt.Sprintf("%7.2fs  %s", elapsed.Seconds(), text)
	if u.Repeats > 0 {
		line += fmt.Sprintf("  (mods ×%d)", u.Repeats)
	}
	if _, err := fmt.Fprintln(w, line); err != nil {
		// Best-effort output.
		_ = err
	}
}

func newRecordingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recordings",
		Short: "List recordings",
		Args:  cobra.NoArgs,
		RunE:  runRecordingsCmd,
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "rm NAME",
		Short: "Delete a recording",
		Args:  cobra.ExactArgs(1),
		RunE:  runRecordingsRmCmd,
	})
	return cmd
}

func runRecordingsCmd(cmd *cobra.Command, _ []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st, log.Logger)
	recs, err := st.ListRecordings(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list recordings: %w", err)
	}
	if err := stats.RenderRecordings(cmd.OutOrStdout(), recs); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func runRecordingsRmCmd(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st, log.Logger)
	if err := st.DeleteRecording(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to delete recording: %w", err)
	}
	logErrf("Deleted recording %q\n", args[0])
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats NAME",
		Short: "Show key frequency and typing rate for a recording",
		Args:  cobra.ExactArgs(1),
		RunE:  runStatsCmd,
	}
	cmd.Flags().IntVar(&statsTop, "top", defaultTop, "number of symbols to show (0 shows all)")
	cmd.Flags().Float64Var(&statsBucket, "bucket", defaultBucket, "seconds per typing rate bucket")
	cmd.Flags().BoolVar(&statsPlot, "plot", false, "plot the typing rate")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, args []string) error {
	if statsBucket <= 0 {
		return fmt.Errorf("--bucket must be > 0")
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st, log.Logger)

	ctx := cmd.Context()
	rec, events, err := st.LoadEvents(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to load recording: %w", err)
	}
	counts, err := st.SymbolCounts(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to count symbols: %w", err)
	}

	out := cmd.OutOrStdout()
	if err := stats.RenderRecordings(out, []model.Recording{rec}); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if _, err := fmt.Fprintln(out); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderSymbolTable(out, stats.TopSymbols(counts, statsTop)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	bucket := time.Duration(statsBucket * float64(time.Second))
	rates := stats.KeyRate(events, bucket)
	if len(rates) == 0 {
		return nil
	}
	if _, err := fmt.Fprintf(out, "\nRate  %s\n", stats.Sparkline(rates)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if statsPlot {
		title := fmt.Sprintf("Key presses per second (%.1fs buckets)", statsBucket)
		if err := stats.PlotRate(out, title, rates, 0, 0); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newKeysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "List known key symbols and how they render",
		Args:  cobra.NoArgs,
		RunE:  runKeysCmd,
	}
	registerFontFlag(cmd, &keysFonts)
	return cmd
}

func runKeysCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringsConfig(cmd, "font", &keysFonts, fileCfg.Display.Fonts)
	fonts := resolveFonts(cmd.Context(), keysFonts, log.Logger)
	if err := stats.RenderKeyTable(cmd.OutOrStdout(), fonts); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func openStore() (*store.Store, error) {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, nil
}
