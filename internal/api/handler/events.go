package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/pdobson/homegame/internal/api/middleware"
	"github.com/pdobson/homegame/internal/api/response"
	"github.com/pdobson/homegame/internal/model"
	"github.com/pdobson/homegame/internal/storage"
)

// Time between keepalive comments on an open stream
const keepAlivePeriod = 15 * time.Second

// EventsHandler streams live updates over server-sent events
type EventsHandler struct {
	storage storage.Storage
	logger  *slog.Logger
}

// NewEventsHandler creates a new events handler
func NewEventsHandler(store storage.Storage, logger *slog.Logger) *EventsHandler {
	return &EventsHandler{
		storage: store,
		logger:  logger.With(slog.String("component", "sse")),
	}
}

// StreamGame handles GET /api/v1/games/{id}/events
//
// Each committed mutation of the game is delivered as a full snapshot in
// a "game" event. The first event is the current state at subscribe time.
func (h *EventsHandler) StreamGame(w http.ResponseWriter, r *http.Request) {
	gameID := model.GameID(mux.Vars(r)["id"])

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	game, err := h.storage.GetGame(r.Context(), gameID)
	if err != nil {
		WriteError(w, err)
		return
	}

	feed, err := h.storage.SubscribeGame(r.Context(), gameID)
	if err != nil {
		WriteError(w, err)
		return
	}
	defer feed.Close()

	writeSSEHeaders(w)

	if err := writeSSEEvent(w, "game", response.GameFromModel(game)); err != nil {
		return
	}
	flusher.Flush()

	ticker := time.NewTicker(keepAlivePeriod)
	defer ticker.Stop()

	for {
		select {
		case snapshot, ok := <-feed.Snapshots():
			if !ok {
				return
			}
			if err := writeSSEEvent(w, "game", response.GameFromModel(snapshot)); err != nil {
				return
			}
			flusher.Flush()

		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": keepalive\n\n"); err != nil {
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}

// StreamInvites handles GET /api/v1/invites/events
//
// The authenticated user's full invite list is re-sent whenever any of
// their invites changes.
func (h *EventsHandler) StreamInvites(w http.ResponseWriter, r *http.Request) {
	user := middleware.MustGetUser(r.Context())

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	list, err := h.storage.InvitesByUser(r.Context(), user.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	feed, err := h.storage.SubscribeInvites(r.Context(), user.ID)
	if err != nil {
		WriteError(w, err)
		return
	}
	defer feed.Close()

	writeSSEHeaders(w)

	if err := writeSSEEvent(w, "invites", response.InviteListFromModels(list)); err != nil {
		return
	}
	flusher.Flush()

	ticker := time.NewTicker(keepAlivePeriod)
	defer ticker.Stop()

	for {
		select {
		case invites, ok := <-feed.Snapshots():
			if !ok {
				return
			}
			if err := writeSSEEvent(w, "invites", response.InviteListFromModels(invites)); err != nil {
				return
			}
			flusher.Flush()

		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": keepalive\n\n"); err != nil {
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}

func writeSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering
}

func writeSSEEvent(w http.ResponseWriter, event string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, payload)
	return err
}
