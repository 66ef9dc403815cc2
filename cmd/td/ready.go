package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var readyCmd = &cobra.Command{
	Use:     "ready",
	Short:   "Show tasks ready to work on (pending, no incomplete blockers)",
	GroupID: "views",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		resp, err := taskClient.GetReady(context.Background(), limit)
		if err != nil {
			return fmt.Errorf("listing ready tasks: %w", err)
		}

		if jsonOutput {
			printJSON(resp.Tasks)
		} else {
			printTaskListTable(resp.Tasks, resp.Total)
		}
		return nil
	},
}

func init() {
	readyCmd.Flags().Int("limit", 20, "maximum number of results")
}
