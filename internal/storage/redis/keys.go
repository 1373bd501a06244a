package redis

import (
	"fmt"

	"github.com/pdobson/homegame/internal/model"
)

// Key prefix for all ledger data
const keyPrefix = "homegame"

// userKey returns the Redis key for a User
func userKey(id model.UserID) string {
	return fmt.Sprintf("%s:user:%s", keyPrefix, id)
}

// registeredUserKey returns the Redis key for a RegisteredUser
func registeredUserKey(id model.UserID) string {
	return fmt.Sprintf("%s:registered_user:%s", keyPrefix, id)
}

// usernameIndexKey returns the Redis key for the username -> user_id index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}

// groupKey returns the Redis key for a Group
func groupKey(id model.GroupID) string {
	return fmt.Sprintf("%s:group:%s", keyPrefix, id)
}

// linkedEventKey returns the Redis key for a LinkedEvent
func linkedEventKey(id model.LinkedEventID) string {
	return fmt.Sprintf("%s:event:%s", keyPrefix, id)
}

// gameKey returns the Redis key for a Game
func gameKey(id model.GameID) string {
	return fmt.Sprintf("%s:game:%s", keyPrefix, id)
}

// gameChannel returns the pub/sub channel carrying a game's snapshots
func gameChannel(id model.GameID) string {
	return fmt.Sprintf("%s:watch:game:%s", keyPrefix, id)
}

// activeByCreatorKey returns the SET of active game keys per creator
func activeByCreatorKey(id model.UserID) string {
	return fmt.Sprintf("%s:idx:active_by_creator:%s", keyPrefix, id)
}

// activeWithPlayerKey returns the SET of active game keys a user plays in
func activeWithPlayerKey(id model.UserID) string {
	return fmt.Sprintf("%s:idx:active_with_player:%s", keyPrefix, id)
}

// gamesByGroupKey returns the SET of game keys in a group
func gamesByGroupKey(id model.GroupID) string {
	return fmt.Sprintf("%s:idx:games_by_group:%s", keyPrefix, id)
}

// inviteKey returns the Redis key for a GameInvite
func inviteKey(id string) string {
	return fmt.Sprintf("%s:invite:%s", keyPrefix, id)
}

// invitesByGameKey returns the SET of invite keys per game
func invitesByGameKey(id model.GameID) string {
	return fmt.Sprintf("%s:idx:invites_by_game:%s", keyPrefix, id)
}

// invitesByUserKey returns the SET of invite keys per invitee
func invitesByUserKey(id model.UserID) string {
	return fmt.Sprintf("%s:idx:invites_by_user:%s", keyPrefix, id)
}

// inviteChannel returns the pub/sub channel notified when any of a
// user's invites change
func inviteChannel(id model.UserID) string {
	return fmt.Sprintf("%s:watch:invites:%s", keyPrefix, id)
}
