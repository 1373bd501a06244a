package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/pdobson/homegame/internal/api/middleware"
	"github.com/pdobson/homegame/internal/api/request"
	"github.com/pdobson/homegame/internal/api/response"
	"github.com/pdobson/homegame/internal/model"
	"github.com/pdobson/homegame/internal/services/requests"
	"github.com/pdobson/homegame/internal/storage"
)

// RequestsHandler handles buy-in and cash-out workflow endpoints
type RequestsHandler struct {
	requestsController *requests.Controller
	storage            storage.Storage
}

// NewRequestsHandler creates a new requests handler
func NewRequestsHandler(requestsController *requests.Controller, store storage.Storage) *RequestsHandler {
	return &RequestsHandler{
		requestsController: requestsController,
		storage:            store,
	}
}

// SubmitBuyIn handles POST /api/v1/games/{id}/buyins
func (h *RequestsHandler) SubmitBuyIn(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	gameID := model.GameID(mux.Vars(r)["id"])

	var req request.BuyInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	buyIn, err := h.requestsController.SubmitBuyIn(r.Context(), gameID, user, req.Amount)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.BuyInRequestFromModel(buyIn))
}

// ApproveBuyIn handles POST /api/v1/games/{id}/buyins/{request_id}/approve
func (h *RequestsHandler) ApproveBuyIn(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	vars := mux.Vars(r)
	gameID := model.GameID(vars["id"])

	game, err := h.requestsController.ApproveBuyIn(r.Context(), gameID, vars["request_id"], user.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(game))
}

// DeclineBuyIn handles POST /api/v1/games/{id}/buyins/{request_id}/decline
func (h *RequestsHandler) DeclineBuyIn(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	vars := mux.Vars(r)
	gameID := model.GameID(vars["id"])

	game, err := h.requestsController.DeclineBuyIn(r.Context(), gameID, vars["request_id"], user.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(game))
}

// DirectBuyIn handles POST /api/v1/games/{id}/buyins/direct
func (h *RequestsHandler) DirectBuyIn(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	gameID := model.GameID(mux.Vars(r)["id"])

	var req request.DirectBuyInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.UserID == "" {
		WriteError(w, NewInvalidRequestError("user_id is required"))
		return
	}

	target, err := h.storage.GetUser(r.Context(), model.UserID(req.UserID))
	if err != nil {
		WriteError(w, err)
		return
	}

	game, err := h.requestsController.DirectBuyIn(r.Context(), gameID, user.ID, target, req.Amount)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(game))
}

// SubmitCashOut handles POST /api/v1/games/{id}/cashouts
func (h *RequestsHandler) SubmitCashOut(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	gameID := model.GameID(mux.Vars(r)["id"])

	var req request.CashOutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	cashOut, err := h.requestsController.SubmitCashOut(r.Context(), gameID, user, req.Amount)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.CashOutRequestFromModel(cashOut))
}

// ProcessCashOut handles POST /api/v1/games/{id}/cashouts/{request_id}/process
func (h *RequestsHandler) ProcessCashOut(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	vars := mux.Vars(r)
	gameID := model.GameID(vars["id"])

	game, err := h.requestsController.ProcessCashOut(r.Context(), gameID, vars["request_id"], user.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.GameFromModel(game))
}
