package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var categoryCmd = &cobra.Command{
	Use:     "category",
	Short:   "Manage categories",
	GroupID: "system",
}

var categoryCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		description, _ := cmd.Flags().GetString("description")

		c, err := taskClient.CreateCategory(context.Background(), args[0], description)
		if err != nil {
			return fmt.Errorf("creating category: %w", err)
		}

		if jsonOutput {
			printJSON(c)
		} else {
			fmt.Printf("ID:   %s\n", c.ID)
			fmt.Printf("Name: %s\n", c.Name)
			if c.Description != "" {
				fmt.Printf("Description: %s\n", c.Description)
			}
		}
		return nil
	},
}

var categoryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		categories, err := taskClient.ListCategories(context.Background())
		if err != nil {
			return fmt.Errorf("listing categories: %w", err)
		}

		if jsonOutput {
			printJSON(categories)
			return nil
		}

		if len(categories) == 0 {
			fmt.Println("No categories found.")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tDESCRIPTION")
		for _, c := range categories {
			fmt.Fprintf(w, "%s\t%s\t%s\n", c.ID, c.Name, c.Description)
		}
		return w.Flush()
	},
}

var categoryDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a category",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := taskClient.DeleteCategory(context.Background(), args[0]); err != nil {
			return fmt.Errorf("deleting category: %w", err)
		}
		fmt.Printf("Deleted %s\n", args[0])
		return nil
	},
}

func init() {
	categoryCreateCmd.Flags().StringP("description", "d", "", "category description")

	categoryCmd.AddCommand(categoryCreateCmd)
	categoryCmd.AddCommand(categoryListCmd)
	categoryCmd.AddCommand(categoryDeleteCmd)
}
