package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var commentCmd = &cobra.Command{
	Use:     "comment",
	Short:   "Manage task comments",
	GroupID: "tasks",
}

var commentAddCmd = &cobra.Command{
	Use:   "add <task-id> <text>...",
	Short: "Add a comment to a task",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		taskID := args[0]
		text := strings.Join(args[1:], " ")

		c, err := taskClient.AddComment(context.Background(), taskID, actor, text)
		if err != nil {
			return fmt.Errorf("adding comment: %w", err)
		}

		if jsonOutput {
			printJSON(c)
		} else {
			fmt.Printf("ID:         %d\n", c.ID)
			fmt.Printf("Task:       %s\n", c.TaskID)
			fmt.Printf("Author:     %s\n", c.Author)
			fmt.Printf("Text:       %s\n", c.Text)
			if !c.CreatedAt.IsZero() {
				fmt.Printf("Created At: %s\n", c.CreatedAt.Format("2006-01-02 15:04:05"))
			}
		}
		return nil
	},
}

var commentListCmd = &cobra.Command{
	Use:   "list <task-id>",
	Short: "List comments on a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		comments, err := taskClient.GetComments(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("listing comments: %w", err)
		}

		if jsonOutput {
			printJSON(comments)
			return nil
		}

		if len(comments) == 0 {
			fmt.Println("No comments found.")
			return nil
		}
		for i, c := range comments {
			if i > 0 {
				fmt.Println("---")
			}
			fmt.Printf("[%s] %s:\n  %s\n", c.CreatedAt.Format("2006-01-02 15:04:05"), c.Author, c.Text)
		}
		return nil
	},
}

func init() {
	commentCmd.AddCommand(commentAddCmd)
	commentCmd.AddCommand(commentListCmd)
}
