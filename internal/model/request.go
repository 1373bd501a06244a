package model

import "time"

// BuyInStatus represents the lifecycle of a buy-in request
type BuyInStatus string

const (
	BuyInStatusPending  BuyInStatus = "pending"
	BuyInStatusApproved BuyInStatus = "approved"
	BuyInStatusRejected BuyInStatus = "rejected"
)

// CashOutStatus represents the lifecycle of a cash-out request
type CashOutStatus string

const (
	CashOutStatusPending   CashOutStatus = "pending"
	CashOutStatusProcessed CashOutStatus = "processed"
)

// BuyInRequest is a player's request to add chips to their stack.
// It stays in the game's request history after resolution.
type BuyInRequest struct {
	ID          string
	UserID      UserID
	DisplayName string
	Amount      float64
	Status      BuyInStatus
	RequestedAt time.Time
}

// CashOutRequest is a player's claim of their final stack value, subject
// to host approval. The amount is the terminal stack snapshot, not a
// withdrawal from the current stack.
type CashOutRequest struct {
	ID          string
	UserID      UserID
	DisplayName string
	Amount      float64
	Status      CashOutStatus
	RequestedAt time.Time
	ProcessedAt *time.Time // nil until processed
}
