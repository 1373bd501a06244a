package invites

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pdobson/homegame/internal/dependencies/clock"
	"github.com/pdobson/homegame/internal/model"
	"github.com/pdobson/homegame/internal/storage"
)

// Controller runs the invite lifecycle. Invites are their own unit of
// atomicity: responding to one never contends with writes to the game.
type Controller struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// NewController creates a new invite controller
func NewController(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Controller {
	return &Controller{
		storage: storage,
		clock:   clock,
		logger:  logger.With(slog.String("component", "invites")),
	}
}

// CreateInvite invites a single user to an active game. Only the host
// may invite; existing players and users with a pending invite are
// rejected.
func (c *Controller) CreateInvite(ctx context.Context, gameID model.GameID, actor, invitedUserID model.UserID, message string) (*model.GameInvite, error) {
	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game.CreatorID != actor {
		return nil, model.ErrNotHost
	}
	if game.Status != model.GameStatusActive {
		return nil, model.ErrGameNotActive
	}

	if err := c.checkInvitable(ctx, game, invitedUserID); err != nil {
		return nil, err
	}

	invite, err := c.buildInvite(ctx, game, invitedUserID, "", message)
	if err != nil {
		return nil, err
	}

	if err := c.storage.CreateInvite(ctx, invite); err != nil {
		return nil, err
	}

	c.logger.Info("invite created",
		slog.String("game_id", string(gameID)),
		slog.String("invited_user_id", string(invitedUserID)),
	)

	return invite, nil
}

// CreateGroupInvites fans one invite out to every member of a group,
// excluding the host, users already seated, and users who already have a
// pending invite. Each resulting invite is independently respondable.
func (c *Controller) CreateGroupInvites(ctx context.Context, gameID model.GameID, actor model.UserID, groupID model.GroupID, message string) ([]*model.GameInvite, error) {
	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game.CreatorID != actor {
		return nil, model.ErrNotHost
	}
	if game.Status != model.GameStatusActive {
		return nil, model.ErrGameNotActive
	}

	group, err := c.storage.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	var created []*model.GameInvite
	for _, memberID := range group.MemberIDs {
		if memberID == game.CreatorID {
			continue
		}
		if err := c.checkInvitable(ctx, game, memberID); err != nil {
			// Already seated or already invited; skip this member
			continue
		}

		invite, err := c.buildInvite(ctx, game, memberID, groupID, message)
		if err != nil {
			return nil, err
		}
		if err := c.storage.CreateInvite(ctx, invite); err != nil {
			return nil, err
		}
		created = append(created, invite)
	}

	c.logger.Info("group invites created",
		slog.String("game_id", string(gameID)),
		slog.String("group_id", string(groupID)),
		slog.Int("invited", len(created)),
	)

	return created, nil
}

// checkInvitable rejects users who are already seated or already have a
// pending invite to this game
func (c *Controller) checkInvitable(ctx context.Context, game *model.Game, userID model.UserID) error {
	if game.IsPlayer(userID) {
		return model.ErrAlreadyPlaying
	}
	existing, err := c.storage.InvitesByGame(ctx, game.ID)
	if err != nil {
		return err
	}
	for _, inv := range existing {
		if inv.InvitedUserID == userID && inv.Status == model.InviteStatusPending {
			return model.ErrAlreadyInvited
		}
	}
	return nil
}

func (c *Controller) buildInvite(ctx context.Context, game *model.Game, invitedUserID model.UserID, groupID model.GroupID, message string) (*model.GameInvite, error) {
	host, err := c.storage.GetUser(ctx, game.CreatorID)
	if err != nil {
		return nil, err
	}

	return &model.GameInvite{
		ID:             uuid.NewString(),
		GameID:         game.ID,
		GameTitle:      game.Title,
		HostID:         game.CreatorID,
		HostName:       host.DisplayName,
		InvitedUserID:  invitedUserID,
		InvitedGroupID: groupID,
		Message:        message,
		Status:         model.InviteStatusPending,
		CreatedAt:      c.clock.Now(),
	}, nil
}

// InvitesByGame lists a game's invites
func (c *Controller) InvitesByGame(ctx context.Context, gameID model.GameID) ([]*model.GameInvite, error) {
	return c.storage.InvitesByGame(ctx, gameID)
}

// InvitesByUser lists a user's invites
func (c *Controller) InvitesByUser(ctx context.Context, userID model.UserID) ([]*model.GameInvite, error) {
	return c.storage.InvitesByUser(ctx, userID)
}

// Accept marks a pending invite accepted. Only the invitee may accept,
// and only while the game is still active. Accepting does not seat the
// user; they join through a buy-in afterwards.
func (c *Controller) Accept(ctx context.Context, inviteID string, actor model.UserID) (*model.GameInvite, error) {
	invite, err := c.storage.GetInvite(ctx, inviteID)
	if err != nil {
		return nil, err
	}

	game, err := c.storage.GetGame(ctx, invite.GameID)
	if err != nil {
		return nil, err
	}
	if game.Status != model.GameStatusActive {
		return nil, model.ErrGameNotActive
	}

	return c.respond(ctx, inviteID, actor, model.InviteStatusAccepted)
}

// Decline marks a pending invite declined. Only the invitee may decline.
func (c *Controller) Decline(ctx context.Context, inviteID string, actor model.UserID) (*model.GameInvite, error) {
	return c.respond(ctx, inviteID, actor, model.InviteStatusDeclined)
}

func (c *Controller) respond(ctx context.Context, inviteID string, actor model.UserID, status model.InviteStatus) (*model.GameInvite, error) {
	invite, err := c.storage.UpdateInvite(ctx, inviteID, func(inv *model.GameInvite) error {
		if inv.InvitedUserID != actor {
			return model.ErrNotInvitee
		}
		if inv.Status != model.InviteStatusPending {
			return model.ErrInviteNotPending
		}
		now := c.clock.Now()
		inv.Status = status
		inv.RespondedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("invite responded",
		slog.String("invite_id", inviteID),
		slog.String("status", string(status)),
	)

	return invite, nil
}
