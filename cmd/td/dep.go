package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/harkline/taskdeck/internal/client"
	"github.com/harkline/taskdeck/internal/ui"
	"github.com/spf13/cobra"
)

var depCmd = &cobra.Command{
	Use:     "dep",
	Short:   "Manage task dependencies",
	GroupID: "tasks",
}

var depAddCmd = &cobra.Command{
	Use:   "add <task-id> <depends-on-id>",
	Short: "Add a dependency between tasks",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		dep, err := taskClient.AddDependency(context.Background(), &client.AddDependencyRequest{
			TaskID:      args[0],
			DependsOnID: args[1],
			CreatedBy:   actor,
		})
		if err != nil {
			return fmt.Errorf("adding dependency: %w", err)
		}

		if jsonOutput {
			printJSON(dep)
		} else {
			fmt.Printf("Task:        %s\n", dep.TaskID)
			fmt.Printf("Depends On:  %s\n", dep.DependsOnID)
			fmt.Printf("Created By:  %s\n", dep.CreatedBy)
			if !dep.CreatedAt.IsZero() {
				fmt.Printf("Created At:  %s\n", dep.CreatedAt.Format("2006-01-02 15:04:05"))
			}
		}
		return nil
	},
}

var depRemoveCmd = &cobra.Command{
	Use:   "remove <task-id> <depends-on-id>",
	Short: "Remove a dependency between tasks",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := taskClient.RemoveDependency(context.Background(), args[0], args[1]); err != nil {
			return fmt.Errorf("removing dependency: %w", err)
		}
		fmt.Println("Removed dependency")
		return nil
	},
}

var depListCmd = &cobra.Command{
	Use:   "list <task-id>",
	Short: "Show the dependency neighborhood of a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		view, err := taskClient.GetDependencies(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("listing dependencies: %w", err)
		}

		if jsonOutput {
			printJSON(view)
			return nil
		}

		if len(view.BlockedBy) == 0 && len(view.Blocks) == 0 {
			fmt.Println("No dependencies found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		if len(view.BlockedBy) > 0 {
			fmt.Fprintln(w, "BLOCKED BY\tSTATUS\tTITLE")
			for _, l := range view.BlockedBy {
				fmt.Fprintf(w, "%s\t%s\t%s\n", ui.RenderAccent(l.Task.ID), ui.RenderStatus(l.Task.Status), l.Task.Title)
			}
		}
		if len(view.Blocks) > 0 {
			fmt.Fprintln(w, "BLOCKS\tSTATUS\tTITLE")
			for _, l := range view.Blocks {
				fmt.Fprintf(w, "%s\t%s\t%s\n", ui.RenderAccent(l.Task.ID), ui.RenderStatus(l.Task.Status), l.Task.Title)
			}
		}
		w.Flush()

		if view.CanStart {
			fmt.Println("\nReady to start.")
		} else {
			fmt.Println("\nBlocked:")
			for _, reason := range view.BlockingReasons {
				fmt.Printf("  %s\n", ui.RenderMuted(reason))
			}
		}
		return nil
	},
}

var depCheckCmd = &cobra.Command{
	Use:   "check <task-id>",
	Short: "Check whether a task is clear to start",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		view, err := taskClient.GetDependencies(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("checking dependencies: %w", err)
		}

		if jsonOutput {
			printJSON(map[string]any{
				"can_start":        view.CanStart,
				"blocking_reasons": view.BlockingReasons,
			})
			return nil
		}

		if view.CanStart {
			fmt.Println("Ready to start.")
			return nil
		}
		fmt.Println("Blocked:")
		for _, reason := range view.BlockingReasons {
			fmt.Printf("  %s\n", ui.RenderMuted(reason))
		}
		return nil
	},
}

func init() {
	depCmd.AddCommand(depAddCmd)
	depCmd.AddCommand(depRemoveCmd)
	depCmd.AddCommand(depListCmd)
	depCmd.AddCommand(depCheckCmd)
}
