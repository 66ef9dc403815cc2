package main

import (
	"context"
	"fmt"
	"os"

	"github.com/harkline/taskdeck/internal/client"
	"github.com/spf13/cobra"
)

// setStatus updates each task to the given status, printing results in the
// single vs. multi form the other workflow commands use.
func setStatus(ids []string, status string, verb string) error {
	for _, id := range ids {
		task, err := taskClient.UpdateTask(context.Background(), id, &client.UpdateTaskRequest{
			Status: &status,
			Actor:  actor,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error %s %s: %v\n", verb, id, err)
			os.Exit(1)
		}

		if jsonOutput {
			printJSON(task)
		} else {
			if len(ids) > 1 {
				fmt.Printf("%s is now %s\n", task.ID, task.Status)
			} else {
				printTaskTable(task)
			}
		}
	}
	return nil
}

var startCmd = &cobra.Command{
	Use:     "start <id>...",
	Short:   "Start working on tasks (fails if blockers are incomplete)",
	GroupID: "workflow",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setStatus(args, "in_progress", "starting")
	},
}

var doneCmd = &cobra.Command{
	Use:     "done <id>...",
	Short:   "Mark tasks as completed",
	GroupID: "workflow",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		comment, _ := cmd.Flags().GetString("comment")
		if comment != "" {
			for _, id := range args {
				if _, err := taskClient.AddComment(context.Background(), id, actor, comment); err != nil {
					return fmt.Errorf("adding comment to %s: %w", id, err)
				}
			}
		}
		return setStatus(args, "completed", "completing")
	},
}

var cancelCmd = &cobra.Command{
	Use:     "cancel <id>...",
	Short:   "Cancel tasks (always allowed)",
	GroupID: "workflow",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setStatus(args, "cancelled", "cancelling")
	},
}

var reopenCmd = &cobra.Command{
	Use:     "reopen <id>...",
	Short:   "Reopen completed tasks (fails if active dependents exist)",
	GroupID: "workflow",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setStatus(args, "pending", "reopening")
	},
}

func init() {
	doneCmd.Flags().StringP("comment", "m", "", "completion comment to add before closing")
}
