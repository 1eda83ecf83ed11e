package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Game registration and lookup commands",
	}

	cmd.AddCommand(newGameCreateCmd())
	cmd.AddCommand(newGameGetCmd())
	cmd.AddCommand(newGameUnlockCmd())

	return cmd
}

func newGameCreateCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a game from a JSON definition file",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("failed to read definition: %w", err)
			}

			var req map[string]any
			if err := json.Unmarshal(data, &req); err != nil {
				return fmt.Errorf("invalid definition file: %w", err)
			}

			var result Game
			if err := client.Post("/api/v1/games", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Game definition JSON file (required)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func newGameGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <game_id>",
		Short: "Show a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Game
			if err := client.Get("/api/v1/games/"+args[0], &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameUnlockCmd() *cobra.Command {
	var achievementID string
	var hardcore bool

	cmd := &cobra.Command{
		Use:   "unlock",
		Short: "Record an achievement unlock",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"achievement_id": achievementID,
				"hardcore":       hardcore,
			}
			var result UnlockRecordResult

			if err := client.Post("/api/v1/unlocks", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&achievementID, "achievement", "", "Achievement ID (required)")
	cmd.Flags().BoolVar(&hardcore, "hardcore", false, "Record as a hardcore unlock")
	_ = cmd.MarkFlagRequired("achievement")

	return cmd
}
