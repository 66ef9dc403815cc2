package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:     "stats",
	Short:   "Show task counts by status",
	GroupID: "views",
	RunE: func(cmd *cobra.Command, args []string) error {
		stats, err := taskClient.GetStats(context.Background())
		if err != nil {
			return fmt.Errorf("fetching stats: %w", err)
		}

		if jsonOutput {
			printJSON(stats)
			return nil
		}

		total := stats.TotalPending + stats.TotalInProgress + stats.TotalCompleted + stats.TotalCancelled
		fmt.Println("Task Status")
		fmt.Printf("  Pending:     %d\n", stats.TotalPending)
		fmt.Printf("  In Progress: %d\n", stats.TotalInProgress)
		fmt.Printf("  Completed:   %d\n", stats.TotalCompleted)
		fmt.Printf("  Cancelled:   %d\n", stats.TotalCancelled)
		fmt.Printf("  Total:       %d\n", total)
		return nil
	},
}
