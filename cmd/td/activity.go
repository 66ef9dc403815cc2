package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var activityCmd = &cobra.Command{
	Use:     "activity <task-id>",
	Short:   "Show the activity log of a task",
	GroupID: "views",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		activity, err := taskClient.GetActivity(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("fetching activity: %w", err)
		}

		if jsonOutput {
			printJSON(activity)
			return nil
		}

		if len(activity) == 0 {
			fmt.Println("No activity recorded.")
			return nil
		}
		for _, a := range activity {
			line := fmt.Sprintf("[%s] %s %s", a.CreatedAt.Format("2006-01-02 15:04:05"), a.Actor, a.Kind)
			if a.OldValue != "" || a.NewValue != "" {
				line += fmt.Sprintf(" (%s -> %s)", a.OldValue, a.NewValue)
			}
			fmt.Println(line)
			if a.Description != "" {
				fmt.Printf("  %s\n", a.Description)
			}
		}
		return nil
	},
}
