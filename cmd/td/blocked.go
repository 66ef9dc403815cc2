package main

import (
	"context"
	"fmt"

	"github.com/harkline/taskdeck/internal/ui"
	"github.com/spf13/cobra"
)

var blockedCmd = &cobra.Command{
	Use:     "blocked",
	Short:   "Show tasks waiting on incomplete blockers",
	GroupID: "views",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		blocked, err := taskClient.GetBlocked(context.Background(), limit)
		if err != nil {
			return fmt.Errorf("listing blocked tasks: %w", err)
		}

		if jsonOutput {
			printJSON(blocked)
			return nil
		}

		if len(blocked) == 0 {
			fmt.Println("No blocked tasks.")
			return nil
		}
		for _, b := range blocked {
			fmt.Printf("%s  %s\n", ui.RenderAccent(b.Task.ID), b.Task.Title)
			for _, reason := range b.BlockingReasons {
				fmt.Printf("    %s\n", ui.RenderMuted(reason))
			}
		}
		return nil
	},
}

func init() {
	blockedCmd.Flags().Int("limit", 20, "maximum number of results")
}
