package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/pdobson/homegame/internal/api/middleware"
	"github.com/pdobson/homegame/internal/api/request"
	"github.com/pdobson/homegame/internal/api/response"
	"github.com/pdobson/homegame/internal/model"
	"github.com/pdobson/homegame/internal/services/ledger"
	"github.com/pdobson/homegame/internal/services/requests"
	"github.com/pdobson/homegame/internal/storage"
)

// GameHandler handles game lifecycle endpoints
type GameHandler struct {
	ledgerController   *ledger.Controller
	requestsController *requests.Controller
	storage            storage.Storage
}

// NewGameHandler creates a new game handler
func NewGameHandler(ledgerController *ledger.Controller, requestsController *requests.Controller, store storage.Storage) *GameHandler {
	return &GameHandler{
		ledgerController:   ledgerController,
		requestsController: requestsController,
		storage:            store,
	}
}

// Create handles POST /api/v1/games
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	var req request.CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.Title == "" {
		WriteError(w, NewInvalidRequestError("title is required"))
		return
	}

	// Resolve an explicit roster if one was given
	var initialPlayers []*model.User
	for _, id := range req.PlayerIDs {
		u, err := h.storage.GetUser(r.Context(), model.UserID(id))
		if err != nil {
			WriteError(w, err)
			return
		}
		initialPlayers = append(initialPlayers, u)
	}

	game, err := h.ledgerController.CreateGame(r.Context(), ledger.CreateGameParams{
		Title:          req.Title,
		Creator:        user,
		InitialPlayers: initialPlayers,
		Stakes:         model.Stakes{SmallBlind: req.SmallBlind, BigBlind: req.BigBlind},
		GroupID:        model.GroupID(req.GroupID),
		LinkedEventID:  model.LinkedEventID(req.LinkedEventID),
	})
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.GameFromModel(game))
}

// Get handles GET /api/v1/games/{id}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := model.GameID(mux.Vars(r)["id"])

	game, err := h.ledgerController.GetGame(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(game))
}

// ListMine handles GET /api/v1/games?filter=playing|hosting
func (h *GameHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	var (
		games []*model.Game
		err   error
	)
	switch r.URL.Query().Get("filter") {
	case "hosting":
		games, err = h.ledgerController.ActiveGamesByCreator(r.Context(), user.ID)
	default:
		games, err = h.ledgerController.ActiveGamesWithPlayer(r.Context(), user.ID)
	}
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameListFromModels(games))
}

// ListByGroup handles GET /api/v1/groups/{id}/games
func (h *GameHandler) ListByGroup(w http.ResponseWriter, r *http.Request) {
	groupID := model.GroupID(mux.Vars(r)["id"])

	games, err := h.ledgerController.GamesByGroup(r.Context(), groupID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameListFromModels(games))
}

// End handles POST /api/v1/games/{id}/end
func (h *GameHandler) End(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	id := model.GameID(mux.Vars(r)["id"])

	game, err := h.ledgerController.EndGame(r.Context(), id, user.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(game))
}

// SetStack handles PATCH /api/v1/games/{id}/players/{user_id}/stack
func (h *GameHandler) SetStack(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	vars := mux.Vars(r)
	id := model.GameID(vars["id"])
	targetID := model.UserID(vars["user_id"])

	var req request.SetStackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	game, err := h.requestsController.SetPlayerStack(r.Context(), id, user.ID, targetID, req.Stack, req.TotalBuyIn)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(game))
}

// History handles GET /api/v1/games/{id}/history
func (h *GameHandler) History(w http.ResponseWriter, r *http.Request) {
	id := model.GameID(mux.Vars(r)["id"])

	game, err := h.ledgerController.GetGame(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	events := make([]response.GameEvent, len(game.History))
	for i := range game.History {
		events[i] = response.GameEventFromModel(&game.History[i])
	}
	response.JSON(w, http.StatusOK, response.GameHistory{GameID: string(game.ID), Events: events})
}

// Settlement handles GET /api/v1/games/{id}/settlement
func (h *GameHandler) Settlement(w http.ResponseWriter, r *http.Request) {
	id := model.GameID(mux.Vars(r)["id"])

	game, err := h.ledgerController.GetGame(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}

	transactions := make([]response.SettlementTransaction, len(game.Settlement))
	for i := range game.Settlement {
		transactions[i] = response.SettlementTransactionFromModel(&game.Settlement[i])
	}
	response.JSON(w, http.StatusOK, response.GameSettlement{
		GameID:       string(game.ID),
		Completed:    game.Status == model.GameStatusCompleted,
		Transactions: transactions,
	})
}
