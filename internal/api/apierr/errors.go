package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pdobson/homegame/internal/model"
	"github.com/pdobson/homegame/internal/services/auth"
	"github.com/pdobson/homegame/internal/storage"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Common error codes
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeInvalidAmount      = "INVALID_AMOUNT"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeNotHost            = "NOT_HOST"
	CodeNotRequestOwner    = "NOT_REQUEST_OWNER"
	CodeNotInvitee         = "NOT_INVITEE"
	CodeGameNotFound       = "GAME_NOT_FOUND"
	CodePlayerNotFound     = "PLAYER_NOT_FOUND"
	CodeRequestNotFound    = "REQUEST_NOT_FOUND"
	CodeInviteNotFound     = "INVITE_NOT_FOUND"
	CodeUserNotFound       = "USER_NOT_FOUND"
	CodeGroupNotFound      = "GROUP_NOT_FOUND"
	CodeEventNotFound      = "EVENT_NOT_FOUND"
	CodeGameCompleted      = "GAME_COMPLETED"
	CodeGameNotActive      = "GAME_NOT_ACTIVE"
	CodeActiveGameExists   = "ACTIVE_GAME_EXISTS"
	CodeRequestNotPending  = "REQUEST_NOT_PENDING"
	CodeInviteNotPending   = "INVITE_NOT_PENDING"
	CodeAlreadyInvited     = "ALREADY_INVITED"
	CodeAlreadyPlaying     = "ALREADY_PLAYING"
	CodePlayerNotActive    = "PLAYER_NOT_ACTIVE"
	CodeWriteConflict      = "WRITE_CONFLICT"
	CodeUsernameExists     = "USERNAME_EXISTS"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeInternalError      = "INTERNAL_ERROR"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	// Check for specific error types
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	// Map model errors
	switch {
	case errors.Is(err, model.ErrGameNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeGameNotFound, "Game not found"}}
	case errors.Is(err, model.ErrPlayerNotFound):
		return &httpError{http.StatusNotFound, APIError{CodePlayerNotFound, "Player not in this game"}}
	case errors.Is(err, model.ErrRequestNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeRequestNotFound, "Request not found"}}
	case errors.Is(err, model.ErrInviteNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeInviteNotFound, "Invite not found"}}
	case errors.Is(err, model.ErrUserNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeUserNotFound, "User not found"}}
	case errors.Is(err, model.ErrGroupNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeGroupNotFound, "Group not found"}}
	case errors.Is(err, model.ErrLinkedEventNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeEventNotFound, "Linked event not found"}}
	case errors.Is(err, model.ErrNotHost):
		return &httpError{http.StatusForbidden, APIError{CodeNotHost, "Only the host can perform this action"}}
	case errors.Is(err, model.ErrNotRequestOwner):
		return &httpError{http.StatusForbidden, APIError{CodeNotRequestOwner, "Request belongs to another player"}}
	case errors.Is(err, model.ErrNotInvitee):
		return &httpError{http.StatusForbidden, APIError{CodeNotInvitee, "Invite is addressed to another user"}}
	case errors.Is(err, model.ErrGameCompleted):
		return &httpError{http.StatusConflict, APIError{CodeGameCompleted, "Game has already been completed"}}
	case errors.Is(err, model.ErrGameNotActive):
		return &httpError{http.StatusConflict, APIError{CodeGameNotActive, "Game is not active"}}
	case errors.Is(err, model.ErrActiveGameExists):
		return &httpError{http.StatusConflict, APIError{CodeActiveGameExists, "You already have an active game"}}
	case errors.Is(err, model.ErrRequestNotPending):
		return &httpError{http.StatusConflict, APIError{CodeRequestNotPending, "Request has already been resolved"}}
	case errors.Is(err, model.ErrInviteNotPending):
		return &httpError{http.StatusConflict, APIError{CodeInviteNotPending, "Invite has already been resolved"}}
	case errors.Is(err, model.ErrAlreadyInvited):
		return &httpError{http.StatusConflict, APIError{CodeAlreadyInvited, "User already has a pending invite"}}
	case errors.Is(err, model.ErrAlreadyPlaying):
		return &httpError{http.StatusConflict, APIError{CodeAlreadyPlaying, "User is already seated in this game"}}
	case errors.Is(err, model.ErrPlayerNotActive):
		return &httpError{http.StatusConflict, APIError{CodePlayerNotActive, "Player has already cashed out"}}
	case errors.Is(err, model.ErrInvalidAmount):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidAmount, "Amount must be positive"}}

	// A write that kept losing races; clients should retry
	case errors.Is(err, storage.ErrConflict):
		return &httpError{http.StatusConflict, APIError{CodeWriteConflict, "Too many concurrent updates, retry"}}

	// Map auth errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		return &httpError{http.StatusUnauthorized, APIError{CodeInvalidCredentials, "Invalid username or password"}}
	case errors.Is(err, auth.ErrInvalidSession):
		return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Invalid or expired session"}}
	case errors.Is(err, auth.ErrUsernameExists):
		return &httpError{http.StatusConflict, APIError{CodeUsernameExists, "Username already exists"}}

	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
