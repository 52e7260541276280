package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// NewDepsCmd creates the deps subcommand
func NewDepsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deps",
		Short: "Manage external tools (yt-dlp, ffmpeg)",
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Show tool and credential status",
		RunE:  runDepsStatus,
	}

	updateCmd := &cobra.Command{
		Use:   "update",
		Short: "Update yt-dlp to latest version",
		RunE:  runDepsUpdate,
	}

	installCmd := &cobra.Command{
		Use:   "install",
		Short: "Install yt-dlp",
		RunE:  runDepsInstall,
	}

	cmd.AddCommand(statusCmd, updateCmd, installCmd)
	return cmd
}

func runDepsStatus(cmd *cobra.Command, args []string) error {
	app, err := NewApp(true)
	if err != nil {
		return err
	}
	defer app.Close()

	fmt.Println()
	fmt.Println("Dependency Status:")
	fmt.Println()

	if app.Downloader.IsAvailable() {
		fmt.Printf("  yt-dlp:  installed (%s)\n", app.Downloader.GetBinaryPath())
	} else {
		fmt.Println("  yt-dlp:  not found")
	}

	if app.Extractor.IsAvailable() {
		fmt.Printf("  ffmpeg:  installed (%s)\n", app.Extractor.GetBinaryPath())
	} else {
		fmt.Println("  ffmpeg:  not found")
	}

	if app.Recognizer.Configured() {
		fmt.Println("  speech:  credentials present")
	} else {
		fmt.Println("  speech:  no credentials (transcription tier disabled)")
	}
	fmt.Println()

	return nil
}

func runDepsUpdate(cmd *cobra.Command, args []string) error {
	app, err := NewApp(true)
	if err != nil {
		return err
	}
	defer app.Close()

	if !app.Downloader.IsAvailable() {
		return fmt.Errorf("yt-dlp is not installed. Run 'vid2brief deps install' first")
	}

	fmt.Println("Updating yt-dlp...")

	if err := app.Downloader.Update(context.Background()); err != nil {
		return err
	}

	fmt.Println("yt-dlp updated")
	return nil
}

func runDepsInstall(cmd *cobra.Command, args []string) error {
	app, err := NewApp(true)
	if err != nil {
		return err
	}
	defer app.Close()

	if app.Downloader.IsAvailable() {
		fmt.Println("yt-dlp is already installed")
		return nil
	}

	fmt.Println("Installing yt-dlp...")

	err = app.Downloader.Install(context.Background(), func(downloaded, total int64) {
		if total > 0 {
			pct := float64(downloaded) / float64(total) * 100
			fmt.Printf("\rProgress: %.1f%%", pct)
		}
	})
	if err != nil {
		return err
	}

	fmt.Println("\nyt-dlp installed")
	return nil
}
