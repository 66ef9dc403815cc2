package main

import (
	"context"
	"fmt"
	"time"

	"github.com/harkline/taskdeck/internal/client"
	"github.com/spf13/cobra"
)

var createCmd = &cobra.Command{
	Use:     "create <title>",
	Short:   "Create a new task",
	GroupID: "tasks",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		title := args[0]

		description, _ := cmd.Flags().GetString("description")
		priority, _ := cmd.Flags().GetInt("priority")
		assignee, _ := cmd.Flags().GetString("assignee")
		category, _ := cmd.Flags().GetString("category")
		due, _ := cmd.Flags().GetString("due")

		req := &client.CreateTaskRequest{
			Title:       title,
			Description: description,
			Priority:    priority,
			Assignee:    assignee,
			CategoryID:  category,
			CreatedBy:   actor,
		}
		if due != "" {
			t, err := time.Parse("2006-01-02", due)
			if err != nil {
				return fmt.Errorf("invalid --due date %q: expected YYYY-MM-DD", due)
			}
			req.DueAt = &t
		}

		task, err := taskClient.CreateTask(context.Background(), req)
		if err != nil {
			return fmt.Errorf("creating task: %w", err)
		}

		if jsonOutput {
			printJSON(task)
		} else {
			printTaskTable(task)
		}
		return nil
	},
}

func init() {
	createCmd.Flags().StringP("description", "d", "", "task description")
	createCmd.Flags().IntP("priority", "p", 0, "task priority")
	createCmd.Flags().String("assignee", "", "assignee user ID")
	createCmd.Flags().StringP("category", "c", "", "category ID")
	createCmd.Flags().String("due", "", "due date (YYYY-MM-DD)")
}
