package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:     "show <id>",
	Short:   "Show details of a task",
	GroupID: "tasks",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		task, err := taskClient.GetTask(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("fetching task: %w", err)
		}

		if jsonOutput {
			printJSON(task)
			return nil
		}

		printTaskTable(task)
		if len(task.Dependencies) > 0 {
			fmt.Println()
			fmt.Println("Depends on:")
			for _, d := range task.Dependencies {
				fmt.Printf("  %s\n", d.DependsOnID)
			}
		}
		if len(task.Comments) > 0 {
			fmt.Println()
			fmt.Println("Comments:")
			for _, c := range task.Comments {
				fmt.Printf("  [%s] %s: %s\n", c.CreatedAt.Format("2006-01-02 15:04:05"), c.Author, c.Text)
			}
		}
		return nil
	},
}
