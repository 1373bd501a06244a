package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/pdobson/homegame/internal/api/middleware"
	"github.com/pdobson/homegame/internal/api/request"
	"github.com/pdobson/homegame/internal/api/response"
	"github.com/pdobson/homegame/internal/model"
	"github.com/pdobson/homegame/internal/services/invites"
)

// InviteHandler handles invite lifecycle endpoints
type InviteHandler struct {
	invitesController *invites.Controller
}

// NewInviteHandler creates a new invite handler
func NewInviteHandler(invitesController *invites.Controller) *InviteHandler {
	return &InviteHandler{
		invitesController: invitesController,
	}
}

// Create handles POST /api/v1/games/{id}/invites
func (h *InviteHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	gameID := model.GameID(mux.Vars(r)["id"])

	var req request.CreateInviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.UserID == "" {
		WriteError(w, NewInvalidRequestError("user_id is required"))
		return
	}

	invite, err := h.invitesController.CreateInvite(r.Context(), gameID, user.ID, model.UserID(req.UserID), req.Message)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.InviteFromModel(invite))
}

// CreateForGroup handles POST /api/v1/games/{id}/invites/group
func (h *InviteHandler) CreateForGroup(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	gameID := model.GameID(mux.Vars(r)["id"])

	var req request.CreateGroupInvitesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.GroupID == "" {
		WriteError(w, NewInvalidRequestError("group_id is required"))
		return
	}

	created, err := h.invitesController.CreateGroupInvites(r.Context(), gameID, user.ID, model.GroupID(req.GroupID), req.Message)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, response.InviteListFromModels(created))
}

// ListByGame handles GET /api/v1/games/{id}/invites
func (h *InviteHandler) ListByGame(w http.ResponseWriter, r *http.Request) {
	gameID := model.GameID(mux.Vars(r)["id"])

	list, err := h.invitesController.InvitesByGame(r.Context(), gameID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.InviteListFromModels(list))
}

// ListMine handles GET /api/v1/invites
func (h *InviteHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	list, err := h.invitesController.InvitesByUser(r.Context(), user.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.InviteListFromModels(list))
}

// Accept handles POST /api/v1/invites/{id}/accept
func (h *InviteHandler) Accept(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	inviteID := mux.Vars(r)["id"]

	invite, err := h.invitesController.Accept(r.Context(), inviteID, user.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.InviteFromModel(invite))
}

// Decline handles POST /api/v1/invites/{id}/decline
func (h *InviteHandler) Decline(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())
	inviteID := mux.Vars(r)["id"]

	invite, err := h.invitesController.Decline(r.Context(), inviteID, user.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.InviteFromModel(invite))
}
