package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newBuyInCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "buyin",
		Short: "Buy-in workflow commands",
	}

	cmd.AddCommand(newBuyInSubmitCmd())
	cmd.AddCommand(newBuyInApproveCmd())
	cmd.AddCommand(newBuyInDeclineCmd())
	cmd.AddCommand(newBuyInDirectCmd())

	return cmd
}

func newBuyInSubmitCmd() *cobra.Command {
	var amount float64

	cmd := &cobra.Command{
		Use:   "submit <game-id>",
		Short: "Request a buy-in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{"amount": amount}

			var result BuyInRequest
			if err := client.Post("/api/v1/games/"+args[0]+"/buyins", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().Float64Var(&amount, "amount", 0, "Buy-in amount (required)")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func newBuyInApproveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "approve <game-id> <request-id>",
		Short: "Approve a pending buy-in (host only)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Game
			path := fmt.Sprintf("/api/v1/games/%s/buyins/%s/approve", args[0], args[1])
			if err := client.Post(path, nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newBuyInDeclineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decline <game-id> <request-id>",
		Short: "Decline a pending buy-in (host only)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Game
			path := fmt.Sprintf("/api/v1/games/%s/buyins/%s/decline", args[0], args[1])
			if err := client.Post(path, nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newBuyInDirectCmd() *cobra.Command {
	var userID string
	var amount float64

	cmd := &cobra.Command{
		Use:   "direct <game-id>",
		Short: "Buy a player in without the approval round-trip (host only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{
				"user_id": userID,
				"amount":  amount,
			}

			var result Game
			if err := client.Post("/api/v1/games/"+args[0]+"/buyins/direct", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "Target user ID (required)")
	cmd.Flags().Float64Var(&amount, "amount", 0, "Buy-in amount (required)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}
