package cli

import (
	"github.com/spf13/cobra"
)

func newInviteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invite",
		Short: "Invite commands",
	}

	cmd.AddCommand(newInviteSendCmd())
	cmd.AddCommand(newInviteGroupCmd())
	cmd.AddCommand(newInviteListCmd())
	cmd.AddCommand(newInviteAcceptCmd())
	cmd.AddCommand(newInviteDeclineCmd())

	return cmd
}

func newInviteSendCmd() *cobra.Command {
	var userID, message string

	cmd := &cobra.Command{
		Use:   "send <game-id>",
		Short: "Invite a user to your game (host only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"user_id": userID,
				"message": message,
			}

			var result Invite
			if err := client.Post("/api/v1/games/"+args[0]+"/invites", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "User to invite (required)")
	cmd.Flags().StringVar(&message, "message", "", "Invite message")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func newInviteGroupCmd() *cobra.Command {
	var groupID, message string

	cmd := &cobra.Command{
		Use:   "group <game-id>",
		Short: "Invite all members of a group (host only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"group_id": groupID,
				"message":  message,
			}

			var result InviteList
			if err := client.Post("/api/v1/games/"+args[0]+"/invites/group", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&groupID, "group", "", "Group to invite (required)")
	cmd.Flags().StringVar(&message, "message", "", "Invite message")
	_ = cmd.MarkFlagRequired("group")

	return cmd
}

func newInviteListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List invites addressed to you",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result InviteList
			if err := client.Get("/api/v1/invites", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newInviteAcceptCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "accept <invite-id>",
		Short: "Accept an invite",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Invite
			if err := client.Post("/api/v1/invites/"+args[0]+"/accept", nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newInviteDeclineCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decline <invite-id>",
		Short: "Decline an invite",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Invite
			if err := client.Post("/api/v1/invites/"+args[0]+"/decline", nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
