package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Account management commands",
	}

	cmd.AddCommand(newUserRegisterCmd())
	cmd.AddCommand(newUserBadgesCmd())

	return cmd
}

func newUserRegisterCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new account",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"name": name}
			var result RegisterResult

			if err := client.Post("/api/v1/users", req, &result); err != nil {
				return err
			}

			// Save credentials; the key is only returned once
			if err := cfg.SaveCredentials(result.Name, result.APIKey); err != nil {
				return fmt.Errorf("failed to save credentials: %w", err)
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Account name (required)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newUserBadgesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "badges [name]",
		Short: "List a user's badges",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := cfg.User
			if len(args) > 0 {
				name = args[0]
			}
			if name == "" {
				return fmt.Errorf("a user name is required (argument or --user)")
			}

			var result BadgeList
			if err := client.Get("/api/v1/users/"+name+"/badges", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
