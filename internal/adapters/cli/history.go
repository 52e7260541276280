package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/devbush/vid2brief/internal/adapters/cli/tui"
)

// NewHistoryCmd creates the history subcommand
func NewHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently processed videos",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(limit)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of records to show")
	return cmd
}

func runHistory(limit int) error {
	app, err := NewApp(true)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer app.Close()

	records, err := app.Ledger.List(context.Background(), limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No videos processed yet.")
		return nil
	}

	fmt.Println()
	for _, rec := range records {
		fmt.Println(tui.FormatRecordLine(rec))
	}
	fmt.Println()
	return nil
}
