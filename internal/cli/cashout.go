package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCashOutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cashout",
		Short: "Cash-out workflow commands",
	}

	cmd.AddCommand(newCashOutSubmitCmd())
	cmd.AddCommand(newCashOutProcessCmd())

	return cmd
}

func newCashOutSubmitCmd() *cobra.Command {
	var amount float64

	cmd := &cobra.Command{
		Use:   "submit <game-id>",
		Short: "Request a cash-out at your claimed final stack",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{"amount": amount}

			var result CashOutRequest
			if err := client.Post("/api/v1/games/"+args[0]+"/cashouts", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().Float64Var(&amount, "amount", 0, "Final stack value (required)")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func newCashOutProcessCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "process <game-id> <request-id>",
		Short: "Process a pending cash-out (host only)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Game
			path := fmt.Sprintf("/api/v1/games/%s/cashouts/%s/process", args[0], args[1])
			if err := client.Post(path, nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
