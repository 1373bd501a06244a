package model

import "time"

// InviteStatus represents the lifecycle of a game invite
type InviteStatus string

const (
	InviteStatusPending  InviteStatus = "pending"
	InviteStatusAccepted InviteStatus = "accepted"
	InviteStatusDeclined InviteStatus = "declined"
	InviteStatusExpired  InviteStatus = "expired"
)

// GameInvite invites a user to an active game. Game title and host info
// are denormalized so invite lists render without extra reads.
// Accepting an invite does not seat the user; it is expected to be
// followed by a buy-in through the request workflow.
type GameInvite struct {
	ID             string
	GameID         GameID
	GameTitle      string
	HostID         UserID
	HostName       string
	InvitedUserID  UserID
	InvitedGroupID GroupID // Set when the invite came from a group fan-out
	Message        string
	Status         InviteStatus
	CreatedAt      time.Time
	RespondedAt    *time.Time // nil while pending
}
