package storage

import (
	"context"
	"errors"

	"github.com/pdobson/homegame/internal/model"
)

// ErrConflict is returned when an atomic update could not commit within
// the store's retry budget. Callers treat it as a transient failure.
var ErrConflict = errors.New("storage: too many write conflicts")

// GameMutator computes the next state of a game in place. It runs against
// a freshly read snapshot inside an atomic update; returning an error
// aborts the update without writing anything.
type GameMutator func(game *model.Game) error

// InviteMutator is the invite counterpart of GameMutator
type InviteMutator func(invite *model.GameInvite) error

// GameFeed is a standing subscription delivering every committed snapshot
// of one game until closed. Close is idempotent.
type GameFeed interface {
	Snapshots() <-chan *model.Game
	Close()
}

// InviteFeed delivers the invitee's full invite list after every change
// to any of their invites, until closed. Close is idempotent.
type InviteFeed interface {
	Snapshots() <-chan []*model.GameInvite
	Close()
}

// Storage defines the interface for data persistence.
//
// Games and invites are each a single unit of atomicity: UpdateGame and
// UpdateInvite implement read-modify-write with retry on conflicting
// concurrent writes, and either fully commit or leave the record
// untouched. Implementations recompute the game's derived PlayerIDs
// mirror on every commit.
type Storage interface {
	// User operations
	SaveUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, id model.UserID) (*model.User, error)
	SaveRegisteredUser(ctx context.Context, ru *model.RegisteredUser) error
	GetRegisteredUserByUsername(ctx context.Context, username string) (*model.RegisteredUser, error)

	// Group operations
	SaveGroup(ctx context.Context, group *model.Group) error
	GetGroup(ctx context.Context, id model.GroupID) (*model.Group, error)

	// Linked external event operations
	SaveLinkedEvent(ctx context.Context, ev *model.LinkedEvent) error
	GetLinkedEvent(ctx context.Context, id model.LinkedEventID) (*model.LinkedEvent, error)

	// Game operations
	CreateGame(ctx context.Context, game *model.Game) error
	GetGame(ctx context.Context, id model.GameID) (*model.Game, error)
	UpdateGame(ctx context.Context, id model.GameID, mutate GameMutator) (*model.Game, error)

	// Game list queries. Reads skip individual records that fail to
	// decode rather than failing the whole query.
	ActiveGamesByCreator(ctx context.Context, creatorID model.UserID) ([]*model.Game, error)
	ActiveGamesWithPlayer(ctx context.Context, userID model.UserID) ([]*model.Game, error)
	GamesByGroup(ctx context.Context, groupID model.GroupID) ([]*model.Game, error)

	// Invite operations
	CreateInvite(ctx context.Context, invite *model.GameInvite) error
	GetInvite(ctx context.Context, id string) (*model.GameInvite, error)
	UpdateInvite(ctx context.Context, id string, mutate InviteMutator) (*model.GameInvite, error)
	InvitesByGame(ctx context.Context, gameID model.GameID) ([]*model.GameInvite, error)
	InvitesByUser(ctx context.Context, userID model.UserID) ([]*model.GameInvite, error)

	// Subscriptions
	SubscribeGame(ctx context.Context, id model.GameID) (GameFeed, error)
	SubscribeInvites(ctx context.Context, userID model.UserID) (InviteFeed, error)
}
