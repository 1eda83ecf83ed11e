package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newProgressCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Progress and badge eligibility commands",
	}

	cmd.AddCommand(newProgressGetCmd())
	cmd.AddCommand(newProgressAwardCmd())
	cmd.AddCommand(newProgressRevalidateCmd())

	return cmd
}

func resolveUserArg(args []string) (string, error) {
	if len(args) > 1 {
		return args[0], nil
	}
	if cfg.User == "" {
		return "", fmt.Errorf("a user name is required (argument or --user)")
	}
	return cfg.User, nil
}

func gameArg(args []string) string {
	return args[len(args)-1]
}

func newProgressGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get [name] <game_id>",
		Short: "Show a user's progress on a game",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := resolveUserArg(args)
			if err != nil {
				return err
			}

			var result Progress
			if err := client.Get("/api/v1/users/"+name+"/games/"+gameArg(args)+"/progress", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newProgressAwardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "award [name] <game_id>",
		Short: "Show a user's highest award for a game",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := resolveUserArg(args)
			if err != nil {
				return err
			}

			var result HighestAward
			if err := client.Get("/api/v1/users/"+name+"/games/"+gameArg(args)+"/award", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newProgressRevalidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "revalidate [name] <game_id>",
		Short: "Run a badge eligibility revalidation pass",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, err := resolveUserArg(args)
			if err != nil {
				return err
			}

			var result RevalidateResult
			if err := client.Post("/api/v1/users/"+name+"/games/"+gameArg(args)+"/revalidate", nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
