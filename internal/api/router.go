package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/pdobson/homegame/internal/api/handler"
	apimiddleware "github.com/pdobson/homegame/internal/api/middleware"
	"github.com/pdobson/homegame/internal/middleware"
	"github.com/pdobson/homegame/internal/services/auth"
	"github.com/pdobson/homegame/internal/services/invites"
	"github.com/pdobson/homegame/internal/services/ledger"
	"github.com/pdobson/homegame/internal/services/requests"
	"github.com/pdobson/homegame/internal/storage"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger             *slog.Logger
	Storage            storage.Storage
	AuthService        *auth.Service
	LedgerController   *ledger.Controller
	RequestsController *requests.Controller
	InvitesController  *invites.Controller
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	userHandler := handler.NewUserHandler(cfg.AuthService)
	gameHandler := handler.NewGameHandler(cfg.LedgerController, cfg.RequestsController, cfg.Storage)
	requestsHandler := handler.NewRequestsHandler(cfg.RequestsController, cfg.Storage)
	inviteHandler := handler.NewInviteHandler(cfg.InvitesController)
	eventsHandler := handler.NewEventsHandler(cfg.Storage, cfg.Logger)

	// Create middleware
	authMiddleware := apimiddleware.Auth(cfg.AuthService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := apimiddleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// User routes (no auth required for registering/logging in)
	api.HandleFunc("/users/register", userHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/users/login", userHandler.Login).Methods(http.MethodPost)

	// Protected user routes
	users := api.PathPrefix("/users").Subrouter()
	users.Use(authMiddleware)
	users.HandleFunc("/me", userHandler.GetMe).Methods(http.MethodGet)
	users.HandleFunc("/logout", userHandler.Logout).Methods(http.MethodPost)

	// Game routes (all require auth)
	games := api.PathPrefix("/games").Subrouter()
	games.Use(authMiddleware)
	games.HandleFunc("", gameHandler.Create).Methods(http.MethodPost)
	games.HandleFunc("", gameHandler.ListMine).Methods(http.MethodGet)
	games.HandleFunc("/{id}", gameHandler.Get).Methods(http.MethodGet)
	games.HandleFunc("/{id}/end", gameHandler.End).Methods(http.MethodPost)
	games.HandleFunc("/{id}/history", gameHandler.History).Methods(http.MethodGet)
	games.HandleFunc("/{id}/settlement", gameHandler.Settlement).Methods(http.MethodGet)
	games.HandleFunc("/{id}/players/{user_id}/stack", gameHandler.SetStack).Methods(http.MethodPatch)
	games.HandleFunc("/{id}/events", eventsHandler.StreamGame).Methods(http.MethodGet)

	// Buy-in / cash-out workflow
	games.HandleFunc("/{id}/buyins", requestsHandler.SubmitBuyIn).Methods(http.MethodPost)
	games.HandleFunc("/{id}/buyins/direct", requestsHandler.DirectBuyIn).Methods(http.MethodPost)
	games.HandleFunc("/{id}/buyins/{request_id}/approve", requestsHandler.ApproveBuyIn).Methods(http.MethodPost)
	games.HandleFunc("/{id}/buyins/{request_id}/decline", requestsHandler.DeclineBuyIn).Methods(http.MethodPost)
	games.HandleFunc("/{id}/cashouts", requestsHandler.SubmitCashOut).Methods(http.MethodPost)
	games.HandleFunc("/{id}/cashouts/{request_id}/process", requestsHandler.ProcessCashOut).Methods(http.MethodPost)

	// Invites on a game
	games.HandleFunc("/{id}/invites", inviteHandler.Create).Methods(http.MethodPost)
	games.HandleFunc("/{id}/invites", inviteHandler.ListByGame).Methods(http.MethodGet)
	games.HandleFunc("/{id}/invites/group", inviteHandler.CreateForGroup).Methods(http.MethodPost)

	// Invites addressed to the caller
	invitesRouter := api.PathPrefix("/invites").Subrouter()
	invitesRouter.Use(authMiddleware)
	invitesRouter.HandleFunc("", inviteHandler.ListMine).Methods(http.MethodGet)
	invitesRouter.HandleFunc("/events", eventsHandler.StreamInvites).Methods(http.MethodGet)
	invitesRouter.HandleFunc("/{id}/accept", inviteHandler.Accept).Methods(http.MethodPost)
	invitesRouter.HandleFunc("/{id}/decline", inviteHandler.Decline).Methods(http.MethodPost)

	// Group game listing
	groups := api.PathPrefix("/groups").Subrouter()
	groups.Use(authMiddleware)
	groups.HandleFunc("/{id}/games", gameHandler.ListByGroup).Methods(http.MethodGet)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
