package model

import "errors"

// Common errors used across the application
var (
	// Not found
	ErrGameNotFound        = errors.New("game not found")
	ErrPlayerNotFound      = errors.New("player not found in game")
	ErrRequestNotFound     = errors.New("request not found")
	ErrInviteNotFound      = errors.New("invite not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrGroupNotFound       = errors.New("group not found")
	ErrLinkedEventNotFound = errors.New("linked event not found")

	// Authorization
	ErrNotHost         = errors.New("only the game host can perform this action")
	ErrNotRequestOwner = errors.New("only the requesting player can perform this action")
	ErrNotInvitee      = errors.New("only the invited user can respond to this invite")

	// Invalid state
	ErrGameCompleted     = errors.New("game is already completed")
	ErrGameNotActive     = errors.New("game is not active")
	ErrActiveGameExists  = errors.New("creator already has an active game")
	ErrRequestNotPending = errors.New("request is no longer pending")
	ErrInviteNotPending  = errors.New("invite is no longer pending")
	ErrAlreadyInvited    = errors.New("user already has a pending invite")
	ErrAlreadyPlaying    = errors.New("user is already a player in this game")
	ErrPlayerNotActive   = errors.New("player has already cashed out")

	// Validation
	ErrInvalidAmount = errors.New("amount must be greater than zero")
)
