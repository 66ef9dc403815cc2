package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/harkline/taskdeck/internal/model"
	"github.com/harkline/taskdeck/internal/ui"
)

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func printTaskTable(task *model.Task) {
	fmt.Printf("ID:          %s\n", ui.RenderAccent(task.ID))
	fmt.Printf("Title:       %s\n", task.Title)
	fmt.Printf("Status:      %s\n", ui.RenderStatus(task.Status))
	fmt.Printf("Priority:    %s\n", ui.RenderPriority(task.Priority))
	if task.Assignee != "" {
		fmt.Printf("Assignee:    %s\n", task.Assignee)
	}
	if task.CategoryID != "" {
		fmt.Printf("Category:    %s\n", task.CategoryID)
	}
	if task.Description != "" {
		fmt.Printf("Description: %s\n", task.Description)
	}
	if task.CreatedBy != "" {
		fmt.Printf("Created By:  %s\n", task.CreatedBy)
	}
	fmt.Printf("Created At:  %s\n", task.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Updated At:  %s\n", task.UpdatedAt.Format("2006-01-02 15:04:05"))
	if task.DueAt != nil {
		fmt.Printf("Due At:      %s\n", task.DueAt.Format("2006-01-02 15:04:05"))
	}
	if task.CompletedAt != nil {
		fmt.Printf("Completed:   %s\n", task.CompletedAt.Format("2006-01-02 15:04:05"))
	}
}

func printTaskListTable(tasks []*model.Task, total int) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tPRIORITY\tTITLE\tASSIGNEE")
	for _, t := range tasks {
		title := t.Title
		if len(title) > 50 {
			title = title[:47] + "..."
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			ui.RenderAccent(t.ID),
			ui.RenderStatus(t.Status),
			ui.RenderPriority(t.Priority),
			title,
			t.Assignee,
		)
	}
	w.Flush()
	fmt.Printf("\n%d tasks (%d total)\n", len(tasks), total)
}
