package cli

import (
	"github.com/spf13/cobra"
)

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Play session commands",
	}

	cmd.AddCommand(newSessionStartCmd())
	cmd.AddCommand(newSessionPingCmd())

	return cmd
}

func newSessionStartCmd() *cobra.Command {
	var gameID, hashID, richPresence string

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start (or resume) a play session",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"game_id":       gameID,
				"game_hash_id":  hashID,
				"rich_presence": richPresence,
			}
			var result StartSessionResult

			if err := client.Post("/api/v1/sessions/start", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&gameID, "game", "", "Game ID (required)")
	cmd.Flags().StringVar(&hashID, "hash", "", "Game hash ID")
	cmd.Flags().StringVar(&richPresence, "presence", "", "Rich presence text")
	_ = cmd.MarkFlagRequired("game")

	return cmd
}

func newSessionPingCmd() *cobra.Command {
	var gameID, hashID, richPresence string

	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Send a session heartbeat",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"game_id":       gameID,
				"game_hash_id":  hashID,
				"rich_presence": richPresence,
			}
			var result PingResult

			if err := client.Post("/api/v1/sessions/ping", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&gameID, "game", "", "Game ID (required)")
	cmd.Flags().StringVar(&hashID, "hash", "", "Game hash ID")
	cmd.Flags().StringVar(&richPresence, "presence", "", "Rich presence text")
	_ = cmd.MarkFlagRequired("game")

	return cmd
}
