package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:     "user",
	Short:   "Manage users",
	GroupID: "system",
}

var userCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")

		u, err := taskClient.CreateUser(context.Background(), args[0], email)
		if err != nil {
			return fmt.Errorf("creating user: %w", err)
		}

		if jsonOutput {
			printJSON(u)
		} else {
			fmt.Printf("ID:    %s\n", u.ID)
			fmt.Printf("Name:  %s\n", u.Name)
			if u.Email != "" {
				fmt.Printf("Email: %s\n", u.Email)
			}
		}
		return nil
	},
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		users, err := taskClient.ListUsers(context.Background())
		if err != nil {
			return fmt.Errorf("listing users: %w", err)
		}

		if jsonOutput {
			printJSON(users)
			return nil
		}

		if len(users) == 0 {
			fmt.Println("No users found.")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tEMAIL")
		for _, u := range users {
			fmt.Fprintf(w, "%s\t%s\t%s\n", u.ID, u.Name, u.Email)
		}
		return w.Flush()
	},
}

var userDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := taskClient.DeleteUser(context.Background(), args[0]); err != nil {
			return fmt.Errorf("deleting user: %w", err)
		}
		fmt.Printf("Deleted %s\n", args[0])
		return nil
	},
}

func init() {
	userCreateCmd.Flags().String("email", "", "email address")

	userCmd.AddCommand(userCreateCmd)
	userCmd.AddCommand(userListCmd)
	userCmd.AddCommand(userDeleteCmd)
}
