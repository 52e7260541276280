package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/devbush/vid2brief/internal/adapters/cli/tui"
	"github.com/devbush/vid2brief/internal/application"
	"github.com/devbush/vid2brief/internal/domain"
	"github.com/devbush/vid2brief/internal/ports"
)

var (
	// Global flags
	watchFlag    bool
	intervalFlag string
	notifyFlag   bool
	quietFlag    bool
	dateFlag     string
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "vid2brief [video-url|video-id]",
		Short: "Turn daily news videos into markdown digests",
		Long: `vid2brief watches a creator's feed for the daily news video,
pulls its text content (subtitle, description or speech-to-text) and
writes a structured markdown digest.

Provide a video URL or BV id to process it directly, run with --watch
for the continuous mode, or run without arguments for an interactive
menu.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runRoot,
	}

	rootCmd.PersistentFlags().BoolVarP(&watchFlag, "watch", "w", false, "Poll the feed continuously")
	rootCmd.PersistentFlags().StringVar(&intervalFlag, "interval", "", "Polling interval, e.g. 10m, 1h (watch mode)")
	rootCmd.PersistentFlags().BoolVar(&notifyFlag, "notify", false, "Send the digest by mail after generation")
	rootCmd.PersistentFlags().BoolVarP(&quietFlag, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().StringVar(&dateFlag, "date", "", "Override the processing date (YYYY-MM-DD)")

	rootCmd.AddCommand(NewHistoryCmd())
	rootCmd.AddCommand(NewDepsCmd())

	return rootCmd
}

func runRoot(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		return runVideo(args[0])
	}
	if watchFlag {
		return runWatch()
	}
	if isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd()) {
		return runInteractiveMenu()
	}
	return runScanOnce()
}

func runInteractiveMenu() error {
	options := []tui.MenuOption{
		{Label: "Generate today's digest now", Value: "once"},
		{Label: "Process a specific video", Value: "video"},
		{Label: "Watch the feed continuously", Value: "watch"},
		{Label: "Show processing history", Value: "history"},
	}

	selected, err := tui.RunMenu("What would you like to do?", options)
	if err != nil {
		return err
	}

	switch selected {
	case "once":
		return runScanOnce()
	case "video":
		fmt.Print("Enter video URL or BV id: ")
		var input string
		fmt.Scanln(&input)
		return runVideo(input)
	case "watch":
		return runWatch()
	case "history":
		return runHistory(20)
	case "":
		fmt.Println("Cancelled")
	}

	return nil
}

// processingDate resolves the --date override, defaulting to today.
func processingDate() (time.Time, error) {
	if dateFlag == "" {
		return time.Now(), nil
	}
	t, err := time.ParseInLocation("2006-01-02", dateFlag, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q (want YYYY-MM-DD): %w", dateFlag, err)
	}
	return t, nil
}

// runVideo processes one explicitly named video regardless of feed
// eligibility.
func runVideo(input string) error {
	app, err := NewApp(quietFlag)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer app.Close()

	parsed, err := domain.ParseVideoInput(input)
	if err != nil {
		return err
	}

	now, err := processingDate()
	if err != nil {
		return err
	}

	ctx := signalContext()
	video, err := app.Feed.GetVideo(ctx, parsed.ID)
	if err != nil {
		return fmt.Errorf("fetch video %s: %w", parsed.ID, err)
	}

	result, err := app.Processor.Process(ctx, video, domain.DateKey(now))
	if err != nil {
		return err
	}

	printResult(result)
	maybeNotify(ctx, app, video, result)
	return nil
}

// runScanOnce performs a single scan-and-process cycle.
func runScanOnce() error {
	app, err := NewApp(quietFlag)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer app.Close()

	now, err := processingDate()
	if err != nil {
		return err
	}
	date := domain.DateKey(now)

	ctx := signalContext()

	if exists, err := app.Writer.ExistsForDate(date); err == nil && exists {
		fmt.Printf("Digest for %s already exists, nothing to do.\n", date)
		return nil
	}

	video, err := app.Scanner.FindTodayDigest(ctx, now)
	if err != nil {
		return err
	}
	if video == nil {
		fmt.Printf("No digest video published yet for %s.\n", date)
		return nil
	}

	result, err := app.Processor.Process(ctx, video, date)
	if err != nil {
		return err
	}

	printResult(result)
	maybeNotify(ctx, app, video, result)
	return nil
}

// runWatch starts the polling loop until interrupted.
func runWatch() error {
	app, err := NewApp(quietFlag)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer app.Close()

	interval, err := app.Config.GetPollInterval()
	if err != nil {
		return err
	}
	if intervalFlag != "" {
		interval, err = time.ParseDuration(intervalFlag)
		if err != nil {
			return fmt.Errorf("invalid --interval %q: %w", intervalFlag, err)
		}
	}

	watcher := application.NewWatcher(
		app.Scanner,
		app.Processor,
		app.Writer,
		watchNotifier(app),
		application.RealClock(),
		interval,
		app.Logger,
	)

	ctx := signalContext()
	if err := watcher.Run(ctx); err != nil && err != context.Canceled {
		return err
	}
	return nil
}

// printResult renders a one-shot outcome for a human reader.
func printResult(result *application.ProcessResult) {
	if quietFlag {
		return
	}
	switch result.Status {
	case domain.StatusCompleted:
		fmt.Println(tui.StyleSuccess("✓ Digest generated"))
		fmt.Printf("  Video: %s\n", result.VideoID)
		fmt.Printf("  Tier:  %s\n", result.Tier)
		fmt.Printf("  File:  %s\n", result.DocumentPath)
	case domain.StatusSkippedDuplicate:
		fmt.Println(tui.StyleMuted("Already processed today, skipped."))
		if result.DocumentPath != "" {
			fmt.Printf("  File: %s\n", result.DocumentPath)
		}
	case domain.StatusSkippedNoContent:
		fmt.Println(tui.StyleWarn("No usable content for this video, skipped."))
	}
}

func maybeNotify(ctx context.Context, app *App, video *domain.Video, result *application.ProcessResult) {
	if !notifyFlag || result.Status != domain.StatusCompleted {
		return
	}
	if !app.Notifier.Configured() {
		fmt.Fprintln(os.Stderr, "mail not configured, skipping notification")
		return
	}
	if err := app.Notifier.SendReport(ctx, video, result.DocumentPath); err != nil {
		fmt.Fprintf(os.Stderr, "notification failed: %v\n", err)
		return
	}
	if !quietFlag {
		fmt.Println(tui.StyleMuted("Notification sent."))
	}
}

// watchNotifier returns the mail sender only when --notify is set, so
// the watcher's Configured check gates delivery.
func watchNotifier(app *App) ports.Notifier {
	if notifyFlag {
		return app.Notifier
	}
	return nil
}

func signalContext() context.Context {
	ctx, _ := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	return ctx
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
