package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jmartel/lehavre-events/internal/browser"
	"github.com/jmartel/lehavre-events/internal/scraper"
	"github.com/jmartel/lehavre-events/internal/storage"
)

const (
	ExitSuccess  = 0
	ExitNoEvents = 1
)

// exitCode is recorded by runScrape and applied by Execute only after the
// command has returned, so deferred cleanup (the browser session teardown in
// particular) always runs first.
var exitCode = ExitSuccess

var (
	flagDataFile  string
	flagMaxEvents int
	flagHeadless  bool
	flagTimeout   time.Duration
	flagDelay     time.Duration
	flagFormat    string
	flagVerbose   bool
)

// NewRootCmd creates the root command. No flag is required.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lehavre-events",
		Short: "Scrape and reconcile Le Havre concert events",
		Long: `Scrapes the Le Havre tourism agenda for concert events, merges them with
the previously saved dataset (deduplicating and dropping expired events),
and writes the updated, chronologically sorted dataset back to disk.`,
		SilenceUsage: true,
		RunE:         runScrape,
	}

	cmd.Flags().StringVar(&flagDataFile, "data-file", envOr("LEHAVRE_DATA_FILE", "lehavre_events.json"), "Path of the events JSON file")
	cmd.Flags().IntVar(&flagMaxEvents, "max-events", scraper.DefaultMaxEvents, "Maximum detail pages to visit per run")
	cmd.Flags().BoolVar(&flagHeadless, "headless", envOr("LEHAVRE_HEADLESS", "true") != "false", "Run the browser headless")
	cmd.Flags().DurationVar(&flagTimeout, "timeout", 20*time.Second, "Per-navigation browser timeout")
	cmd.Flags().DurationVar(&flagDelay, "delay", scraper.DefaultDelay, "Pacing delay between detail fetches")
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging")

	return cmd
}

// runScrape is the main command logic: one full pipeline pass.
func runScrape(cmd *cobra.Command, args []string) error {
	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}

	log := newLogger(flagVerbose)

	store, err := storage.New(flagDataFile, log)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}

	cfg := scraper.DefaultConfig()
	cfg.MaxEvents = flagMaxEvents
	cfg.Delay = flagDelay

	// The browser session is the run's one shared resource; it must be torn
	// down even when the run aborts partway.
	session := browser.NewSession(cmd.Context(), flagHeadless, flagTimeout, log)
	defer session.Close()

	code, err := run(cmd.Context(), session, store, cfg, format, os.Stdout, log)
	if err != nil {
		return err
	}
	exitCode = code
	return nil
}

// run executes one pipeline pass against injected collaborators and returns
// the process exit code: ExitNoEvents when the final dataset is empty.
func run(ctx context.Context, renderer scraper.Renderer, store *storage.Store, cfg scraper.Config, format OutputFormat, out io.Writer, log logrus.FieldLogger) (int, error) {
	persisted := store.Load()
	result := scraper.New(renderer, cfg, log).Run(ctx, persisted)

	// A failed save is the only fatal fault: the run exists to update the store.
	if err := store.Save(result.Events); err != nil {
		return ExitNoEvents, fmt.Errorf("saving events: %w", err)
	}

	if err := WriteOutput(out, result, format); err != nil {
		return ExitNoEvents, fmt.Errorf("writing output: %w", err)
	}

	if len(result.Events) == 0 {
		return ExitNoEvents, nil
	}
	return ExitSuccess, nil
}

// newLogger builds the injected logger; it writes to stderr so stdout stays
// reserved for the run summary.
func newLogger(verbose bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

// envOr reads an environment default (godotenv loads .env in main).
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Execute runs the CLI.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitNoEvents)
	}
	if exitCode != ExitSuccess {
		os.Exit(exitCode)
	}
}
