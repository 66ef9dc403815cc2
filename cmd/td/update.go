package main

import (
	"context"
	"fmt"
	"time"

	"github.com/harkline/taskdeck/internal/client"
	"github.com/spf13/cobra"
)

var updateCmd = &cobra.Command{
	Use:     "update <id>",
	Short:   "Update a task",
	GroupID: "tasks",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]

		req := &client.UpdateTaskRequest{Actor: actor}

		if cmd.Flags().Changed("title") {
			v, _ := cmd.Flags().GetString("title")
			req.Title = &v
		}
		if cmd.Flags().Changed("description") {
			v, _ := cmd.Flags().GetString("description")
			req.Description = &v
		}
		if cmd.Flags().Changed("status") {
			v, _ := cmd.Flags().GetString("status")
			req.Status = &v
		}
		if cmd.Flags().Changed("priority") {
			v, _ := cmd.Flags().GetInt("priority")
			req.Priority = &v
		}
		if cmd.Flags().Changed("assignee") {
			v, _ := cmd.Flags().GetString("assignee")
			req.Assignee = &v
		}
		if cmd.Flags().Changed("category") {
			v, _ := cmd.Flags().GetString("category")
			req.CategoryID = &v
		}
		if cmd.Flags().Changed("due") {
			v, _ := cmd.Flags().GetString("due")
			t, err := time.Parse("2006-01-02", v)
			if err != nil {
				return fmt.Errorf("invalid --due date %q: expected YYYY-MM-DD", v)
			}
			req.DueAt = &t
		}

		task, err := taskClient.UpdateTask(context.Background(), id, req)
		if err != nil {
			return fmt.Errorf("updating task: %w", err)
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
	updateCmd.Flags().String("title", "", "task title")
	updateCmd.Flags().StringP("description", "d", "", "task description")
	updateCmd.Flags().StringP("status", "s", "", "task status")
	updateCmd.Flags().IntP("priority", "p", 0, "task priority")
	updateCmd.Flags().String("assignee", "", "assignee user ID")
	updateCmd.Flags().StringP("category", "c", "", "category ID")
	updateCmd.Flags().String("due", "", "due date (YYYY-MM-DD)")
}
