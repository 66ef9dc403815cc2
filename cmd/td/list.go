package main

import (
	"context"
	"fmt"

	"github.com/harkline/taskdeck/internal/client"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Short:   "List tasks",
	GroupID: "tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		status, _ := cmd.Flags().GetStringSlice("status")
		assignee, _ := cmd.Flags().GetString("assignee")
		category, _ := cmd.Flags().GetString("category")
		search, _ := cmd.Flags().GetString("search")
		sort, _ := cmd.Flags().GetString("sort")
		limit, _ := cmd.Flags().GetInt("limit")
		offset, _ := cmd.Flags().GetInt("offset")

		req := &client.ListTasksRequest{
			Status:     status,
			Assignee:   assignee,
			CategoryID: category,
			Search:     search,
			Sort:       sort,
			Limit:      limit,
			Offset:     offset,
		}
		if cmd.Flags().Changed("priority") {
			p, _ := cmd.Flags().GetInt("priority")
			req.Priority = &p
		}

		resp, err := taskClient.ListTasks(context.Background(), req)
		if err != nil {
			return fmt.Errorf("listing tasks: %w", err)
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
	listCmd.Flags().StringSliceP("status", "s", nil, "filter by status (repeatable)")
	listCmd.Flags().String("assignee", "", "filter by assignee")
	listCmd.Flags().StringP("category", "c", "", "filter by category ID")
	listCmd.Flags().String("search", "", "full-text search over title and description")
	listCmd.Flags().String("sort", "", "sort column, prefix with - for descending")
	listCmd.Flags().IntP("priority", "p", 0, "filter by priority")
	listCmd.Flags().Int("limit", 20, "maximum number of tasks to return")
	listCmd.Flags().Int("offset", 0, "offset for pagination")
}
