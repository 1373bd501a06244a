package ledger

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pdobson/homegame/internal/dependencies/clock"
	"github.com/pdobson/homegame/internal/dependencies/random"
	"github.com/pdobson/homegame/internal/model"
	"github.com/pdobson/homegame/internal/services/settlement"
	"github.com/pdobson/homegame/internal/storage"
)

const (
	// GameIDLength is the length of generated game ids
	GameIDLength = 12
	// GameIDAlphabet is the characters used in game ids
	GameIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// Controller owns game lifecycle: creation, the canonical read path, and
// the end-of-game transition that freezes balances and computes the
// settlement.
type Controller struct {
	storage storage.Storage
	clock   clock.Clock
	random  random.Random
	logger  *slog.Logger
}

// NewController creates a new ledger controller
func NewController(storage storage.Storage, clock clock.Clock, random random.Random, logger *slog.Logger) *Controller {
	return &Controller{
		storage: storage,
		clock:   clock,
		random:  random,
		logger:  logger.With(slog.String("component", "ledger")),
	}
}

// CreateGameParams holds the inputs for creating a game
type CreateGameParams struct {
	Title          string
	Creator        *model.User
	InitialPlayers []*model.User // Seated instead of the creator when non-empty
	Stakes         model.Stakes
	GroupID        model.GroupID
	LinkedEventID  model.LinkedEventID
}

// CreateGame allocates a new active game with a gameCreated audit entry.
// The creator is auto-seated with a zero stack unless InitialPlayers
// supplies the roster. The "one active game per creator" rule is checked
// best-effort here; two racing creations can both pass the check.
func (c *Controller) CreateGame(ctx context.Context, params CreateGameParams) (*model.Game, error) {
	existing, err := c.storage.ActiveGamesByCreator(ctx, params.Creator.ID)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, model.ErrActiveGameExists
	}

	now := c.clock.Now()
	gameID := model.GameID(c.random.String(GameIDLength, GameIDAlphabet))

	seats := params.InitialPlayers
	if len(seats) == 0 {
		seats = []*model.User{params.Creator}
	}
	players := make([]model.Player, len(seats))
	for i, u := range seats {
		players[i] = model.Player{
			ID:          uuid.NewString(),
			UserID:      u.ID,
			DisplayName: u.DisplayName,
			Status:      model.PlayerStatusActive,
			JoinedAt:    now,
		}
	}

	game := &model.Game{
		ID:            gameID,
		Title:         params.Title,
		CreatorID:     params.Creator.ID,
		GroupID:       params.GroupID,
		LinkedEventID: params.LinkedEventID,
		Status:        model.GameStatusActive,
		Stakes:        params.Stakes,
		Players:       players,
		History: []model.GameEvent{
			model.NewGameCreatedEvent(uuid.NewString(), now, params.Creator.ID, params.Creator.DisplayName, params.Title),
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := c.storage.CreateGame(ctx, game); err != nil {
		c.logger.Error("failed to create game",
			slog.String("game_id", string(gameID)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	c.logger.Info("game created",
		slog.String("game_id", string(gameID)),
		slog.String("creator_id", string(params.Creator.ID)),
		slog.Int("player_count", len(players)),
	)

	return game, nil
}

// GetGame retrieves a game by id
func (c *Controller) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	return c.storage.GetGame(ctx, id)
}

// ActiveGamesByCreator lists the creator's active games
func (c *Controller) ActiveGamesByCreator(ctx context.Context, creatorID model.UserID) ([]*model.Game, error) {
	return c.storage.ActiveGamesByCreator(ctx, creatorID)
}

// ActiveGamesWithPlayer lists active games the user is seated in
func (c *Controller) ActiveGamesWithPlayer(ctx context.Context, userID model.UserID) ([]*model.Game, error) {
	return c.storage.ActiveGamesWithPlayer(ctx, userID)
}

// GamesByGroup lists all games in a group, active and completed
func (c *Controller) GamesByGroup(ctx context.Context, groupID model.GroupID) ([]*model.Game, error) {
	return c.storage.GamesByGroup(ctx, groupID)
}

// EndGame moves a game to its terminal state: every still-active player
// is force cashed-out at their current stack, the settlement is computed,
// and the status flips to completed. Only the creator may end a game.
// A linked external event is marked completed as a side effect.
func (c *Controller) EndGame(ctx context.Context, id model.GameID, requestedBy model.UserID) (*model.Game, error) {
	game, err := c.storage.UpdateGame(ctx, id, func(g *model.Game) error {
		if g.Status == model.GameStatusCompleted {
			return model.ErrGameCompleted
		}
		if g.CreatorID != requestedBy {
			return model.ErrNotHost
		}

		now := c.clock.Now()
		var endedByName string
		if host := g.FindPlayer(requestedBy); host != nil {
			endedByName = host.DisplayName
		}

		for i := range g.Players {
			p := &g.Players[i]
			if p.Status != model.PlayerStatusActive {
				continue
			}
			t := now
			p.Status = model.PlayerStatusCashedOut
			p.CashedOutAt = &t
			g.AppendEvent(model.NewCashOutEvent(uuid.NewString(), now, p.UserID, p.DisplayName, p.CurrentStack, true))
		}

		g.AppendEvent(model.NewGameEndedEvent(uuid.NewString(), now, requestedBy, endedByName))
		g.Settlement = settlement.Compute(g.Players)
		g.Status = model.GameStatusCompleted
		g.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}

	if game.LinkedEventID != "" {
		if err := c.completeLinkedEvent(ctx, game.LinkedEventID); err != nil {
			// The game itself is already ended; the external record is
			// best-effort and can be fixed up manually.
			c.logger.Warn("failed to complete linked event",
				slog.String("game_id", string(id)),
				slog.String("event_id", string(game.LinkedEventID)),
				slog.String("error", err.Error()),
			)
		}
	}

	c.logger.Info("game ended",
		slog.String("game_id", string(id)),
		slog.Int("settlement_transactions", len(game.Settlement)),
	)

	return game, nil
}

func (c *Controller) completeLinkedEvent(ctx context.Context, id model.LinkedEventID) error {
	ev, err := c.storage.GetLinkedEvent(ctx, id)
	if err != nil {
		return err
	}
	ev.Status = model.LinkedEventStatusCompleted
	return c.storage.SaveLinkedEvent(ctx, ev)
}
