package requests

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pdobson/homegame/internal/dependencies/clock"
	"github.com/pdobson/homegame/internal/model"
	"github.com/pdobson/homegame/internal/services/settlement"
	"github.com/pdobson/homegame/internal/storage"
)

// Controller runs the buy-in and cash-out request lifecycle. Every
// mutation executes inside the store's atomic update, and all
// preconditions (host identity, request still pending, game still
// active) are checked against the snapshot read inside that update, so
// two racing approvals of the same request cannot both apply.
type Controller struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// NewController creates a new request workflow controller
func NewController(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Controller {
	return &Controller{
		storage: storage,
		clock:   clock,
		logger:  logger.With(slog.String("component", "requests")),
	}
}

// SubmitBuyIn files a pending buy-in request for the given user and
// records it in the audit trail immediately; the later approval is a
// second, separate audit entry.
func (c *Controller) SubmitBuyIn(ctx context.Context, gameID model.GameID, user *model.User, amount float64) (*model.BuyInRequest, error) {
	now := c.clock.Now()
	req := model.BuyInRequest{
		ID:          uuid.NewString(),
		UserID:      user.ID,
		DisplayName: user.DisplayName,
		Amount:      amount,
		Status:      model.BuyInStatusPending,
		RequestedAt: now,
	}

	_, err := c.storage.UpdateGame(ctx, gameID, func(g *model.Game) error {
		if g.Status != model.GameStatusActive {
			return model.ErrGameNotActive
		}
		g.BuyInRequests = append(g.BuyInRequests, req)
		g.AppendEvent(model.NewBuyInRequestedEvent(uuid.NewString(), now, user.ID, user.DisplayName, amount))
		g.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("buy-in requested",
		slog.String("game_id", string(gameID)),
		slog.String("user_id", string(user.ID)),
		slog.Float64("amount", amount),
	)

	return &req, nil
}

// ApproveBuyIn applies a pending buy-in request. An existing player has
// the amount added to stack and total buy-in; a cashed-out player is
// additionally returned to active (rebuy); an unseated user is seated as
// a new player funded with the amount.
func (c *Controller) ApproveBuyIn(ctx context.Context, gameID model.GameID, requestID string, actor model.UserID) (*model.Game, error) {
	game, err := c.storage.UpdateGame(ctx, gameID, func(g *model.Game) error {
		if err := hostOnly(g, actor); err != nil {
			return err
		}

		req := g.FindBuyInRequest(requestID)
		if req == nil {
			return model.ErrRequestNotFound
		}
		if req.Status != model.BuyInStatusPending {
			return model.ErrRequestNotPending
		}

		now := c.clock.Now()
		c.applyBuyIn(g, req.UserID, req.DisplayName, req.Amount, now, false)
		req.Status = model.BuyInStatusApproved
		g.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("buy-in approved",
		slog.String("game_id", string(gameID)),
		slog.String("request_id", requestID),
	)

	return game, nil
}

// DeclineBuyIn rejects a pending buy-in request; balances are untouched
func (c *Controller) DeclineBuyIn(ctx context.Context, gameID model.GameID, requestID string, actor model.UserID) (*model.Game, error) {
	game, err := c.storage.UpdateGame(ctx, gameID, func(g *model.Game) error {
		if err := hostOnly(g, actor); err != nil {
			return err
		}

		req := g.FindBuyInRequest(requestID)
		if req == nil {
			return model.ErrRequestNotFound
		}
		if req.Status != model.BuyInStatusPending {
			return model.ErrRequestNotPending
		}

		now := c.clock.Now()
		req.Status = model.BuyInStatusRejected
		g.AppendEvent(model.NewBuyInDeclinedEvent(uuid.NewString(), now, req.UserID, req.DisplayName, req.Amount))
		g.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("buy-in declined",
		slog.String("game_id", string(gameID)),
		slog.String("request_id", requestID),
	)

	return game, nil
}

// DirectBuyIn is the host shortcut that skips the request queue and
// applies the same balance update as an approval.
func (c *Controller) DirectBuyIn(ctx context.Context, gameID model.GameID, actor model.UserID, target *model.User, amount float64) (*model.Game, error) {
	game, err := c.storage.UpdateGame(ctx, gameID, func(g *model.Game) error {
		if err := hostOnly(g, actor); err != nil {
			return err
		}

		now := c.clock.Now()
		c.applyBuyIn(g, target.ID, target.DisplayName, amount, now, true)
		g.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("host buy-in applied",
		slog.String("game_id", string(gameID)),
		slog.String("user_id", string(target.ID)),
		slog.Float64("amount", amount),
	)

	return game, nil
}

// applyBuyIn seats or refunds a player and appends the buy-in audit entry
func (c *Controller) applyBuyIn(g *model.Game, userID model.UserID, displayName string, amount float64, now time.Time, byHost bool) {
	p := g.FindPlayer(userID)
	if p != nil {
		p.CurrentStack += amount
		p.TotalBuyIn += amount
		if p.Status == model.PlayerStatusCashedOut {
			// Rebuy: a cashed-out player returns to the table
			p.Status = model.PlayerStatusActive
			p.CashedOutAt = nil
		}
	} else {
		g.Players = append(g.Players, model.Player{
			ID:           uuid.NewString(),
			UserID:       userID,
			DisplayName:  displayName,
			CurrentStack: amount,
			TotalBuyIn:   amount,
			Status:       model.PlayerStatusActive,
			JoinedAt:     now,
		})
		g.AppendEvent(model.NewPlayerJoinedEvent(uuid.NewString(), now, userID, displayName))
	}
	g.AppendEvent(model.NewBuyInEvent(uuid.NewString(), now, userID, displayName, amount, byHost))
}

// SubmitCashOut files a pending cash-out request claiming the player's
// final stack value. Only a seated, active player may submit; the amount
// is deliberately not bounded by the current stack, since it is a claim
// subject to host approval.
func (c *Controller) SubmitCashOut(ctx context.Context, gameID model.GameID, user *model.User, amount float64) (*model.CashOutRequest, error) {
	now := c.clock.Now()
	req := model.CashOutRequest{
		ID:          uuid.NewString(),
		UserID:      user.ID,
		DisplayName: user.DisplayName,
		Amount:      amount,
		Status:      model.CashOutStatusPending,
		RequestedAt: now,
	}

	_, err := c.storage.UpdateGame(ctx, gameID, func(g *model.Game) error {
		if g.Status != model.GameStatusActive {
			return model.ErrGameNotActive
		}
		p := g.FindPlayer(user.ID)
		if p == nil {
			return model.ErrPlayerNotFound
		}
		if p.Status != model.PlayerStatusActive {
			return model.ErrPlayerNotActive
		}
		g.CashOutRequests = append(g.CashOutRequests, req)
		g.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("cash-out requested",
		slog.String("game_id", string(gameID)),
		slog.String("user_id", string(user.ID)),
		slog.Float64("amount", amount),
	)

	return &req, nil
}

// ProcessCashOut settles a pending cash-out: the player's stack is set
// to exactly the claimed amount (a terminal snapshot, not a withdrawal)
// and the player flips to cashed out. When the last active player of a
// standalone game cashes out, the game auto-completes with a settlement;
// games tied to a linked event must be ended explicitly.
func (c *Controller) ProcessCashOut(ctx context.Context, gameID model.GameID, requestID string, actor model.UserID) (*model.Game, error) {
	var autoCompleted bool

	game, err := c.storage.UpdateGame(ctx, gameID, func(g *model.Game) error {
		autoCompleted = false
		if err := hostOnly(g, actor); err != nil {
			return err
		}

		req := g.FindCashOutRequest(requestID)
		if req == nil {
			return model.ErrRequestNotFound
		}
		if req.Status != model.CashOutStatusPending {
			return model.ErrRequestNotPending
		}
		if req.Amount <= 0 {
			return model.ErrInvalidAmount
		}

		p := g.FindPlayer(req.UserID)
		if p == nil {
			return model.ErrPlayerNotFound
		}

		now := c.clock.Now()
		t := now
		p.CurrentStack = req.Amount
		p.Status = model.PlayerStatusCashedOut
		p.CashedOutAt = &t
		req.Status = model.CashOutStatusProcessed
		req.ProcessedAt = &t
		g.AppendEvent(model.NewCashOutEvent(uuid.NewString(), now, p.UserID, p.DisplayName, req.Amount, false))

		if g.AllCashedOut() && g.LinkedEventID == "" {
			g.AppendEvent(model.NewGameEndedEvent(uuid.NewString(), now, g.CreatorID, ""))
			g.Settlement = settlement.Compute(g.Players)
			g.Status = model.GameStatusCompleted
			autoCompleted = true
		}

		g.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("cash-out processed",
		slog.String("game_id", string(gameID)),
		slog.String("request_id", requestID),
		slog.Bool("auto_completed", autoCompleted),
	)

	return game, nil
}

// SetPlayerStack is the host's manual override of a player's stack and
// total buy-in. No bounds are applied; the before/after values land in
// the audit trail.
func (c *Controller) SetPlayerStack(ctx context.Context, gameID model.GameID, actor, targetUserID model.UserID, newStack, newTotalBuyIn float64) (*model.Game, error) {
	game, err := c.storage.UpdateGame(ctx, gameID, func(g *model.Game) error {
		if err := hostOnly(g, actor); err != nil {
			return err
		}

		p := g.FindPlayer(targetUserID)
		if p == nil {
			return model.ErrPlayerNotFound
		}

		now := c.clock.Now()
		g.AppendEvent(model.NewPlayerUpdatedEvent(uuid.NewString(), now, p.UserID, p.DisplayName,
			p.CurrentStack, newStack, p.TotalBuyIn, newTotalBuyIn))
		p.CurrentStack = newStack
		p.TotalBuyIn = newTotalBuyIn
		g.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("player stack updated",
		slog.String("game_id", string(gameID)),
		slog.String("user_id", string(targetUserID)),
	)

	return game, nil
}

// hostOnly validates a host-only operation against the in-transaction
// snapshot: the game must still be active and the actor must be the
// creator.
func hostOnly(g *model.Game, actor model.UserID) error {
	if g.Status == model.GameStatusCompleted {
		return model.ErrGameCompleted
	}
	if g.CreatorID != actor {
		return model.ErrNotHost
	}
	return nil
}
