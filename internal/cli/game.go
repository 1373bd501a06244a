package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Game session commands",
	}

	cmd.AddCommand(newGameCreateCmd())
	cmd.AddCommand(newGameGetCmd())
	cmd.AddCommand(newGameListCmd())
	cmd.AddCommand(newGameEndCmd())
	cmd.AddCommand(newGameHistoryCmd())
	cmd.AddCommand(newGameSettlementCmd())
	cmd.AddCommand(newGameStackCmd())

	return cmd
}

func newGameCreateCmd() *cobra.Command {
	var title, groupID, eventID string
	var smallBlind, bigBlind float64

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new game session",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"title": title,
			}
			if smallBlind > 0 {
				req["small_blind"] = smallBlind
			}
			if bigBlind > 0 {
				req["big_blind"] = bigBlind
			}
			if groupID != "" {
				req["group_id"] = groupID
			}
			if eventID != "" {
				req["linked_event_id"] = eventID
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

	cmd.Flags().StringVar(&title, "title", "", "Game title (required)")
	cmd.Flags().Float64Var(&smallBlind, "sb", 0, "Small blind")
	cmd.Flags().Float64Var(&bigBlind, "bb", 0, "Big blind")
	cmd.Flags().StringVar(&groupID, "group", "", "Group ID")
	cmd.Flags().StringVar(&eventID, "event", "", "Linked event ID")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newGameGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
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

func newGameListCmd() *cobra.Command {
	var hosting bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your active games",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/games"
			if hosting {
				path += "?filter=hosting"
			}

			var result GameList
			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&hosting, "hosting", false, "Only games you host")

	return cmd
}

func newGameEndCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "end <id>",
		Short: "End a game and compute settlement (host only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Game
			if err := client.Post("/api/v1/games/"+args[0]+"/end", nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history <id>",
		Short: "Show a game's audit trail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result GameHistory
			if err := client.Get("/api/v1/games/"+args[0]+"/history", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameSettlementCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "settlement <id>",
		Short: "Show who pays whom for a completed game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result GameSettlement
			if err := client.Get("/api/v1/games/"+args[0]+"/settlement", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameStackCmd() *cobra.Command {
	var userID string
	var stack, totalBuyIn float64

	cmd := &cobra.Command{
		Use:   "stack <id>",
		Short: "Correct a player's stack (host only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"stack":        stack,
				"total_buy_in": totalBuyIn,
			}

			var result Game
			if err := client.Patch(fmt.Sprintf("/api/v1/games/%s/players/%s/stack", args[0], userID), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "Target user ID (required)")
	cmd.Flags().Float64Var(&stack, "stack", 0, "New stack value")
	cmd.Flags().Float64Var(&totalBuyIn, "buyin", 0, "New total buy-in value")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}
