package model

import "time"

// User is the identity record for an acting user
type User struct {
	ID          UserID
	DisplayName string
	CreatedAt   time.Time
}

// RegisteredUser extends User with authentication data.
// Stored separately so the password hash is never carried with sessions.
type RegisteredUser struct {
	UserID       UserID
	Username     string // login username (immutable)
	PasswordHash string // bcrypt hash
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Group is a named set of users that can be invited to a game together
type Group struct {
	ID        GroupID
	Name      string
	MemberIDs []UserID
	CreatedAt time.Time
}

// LinkedEventStatus values for external event records
const (
	LinkedEventStatusUpcoming  = "upcoming"
	LinkedEventStatusCompleted = "completed"
)

// LinkedEvent is an external tournament/event record referenced by a game.
// The ledger treats it as opaque apart from flipping its status when the
// linked game ends.
type LinkedEvent struct {
	ID     LinkedEventID
	Title  string
	Status string
}
