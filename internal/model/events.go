package model

import (
	"fmt"
	"time"
)

// EventType identifies the type of audit event
type EventType string

const (
	EventGameCreated   EventType = "game_created"
	EventPlayerJoined  EventType = "player_joined"
	EventPlayerLeft    EventType = "player_left"
	EventBuyIn         EventType = "buy_in"
	EventCashOut       EventType = "cash_out"
	EventGameEnded     EventType = "game_ended"
	EventPlayerUpdated EventType = "player_updated" // Manual stack edits
)

// GameEvent is one immutable entry in a game's audit trail. The aggregate
// is persisted as a single document, so the event is a flat record;
// each variant is built through its constructor below, which sets only
// the fields relevant to that variant.
type GameEvent struct {
	ID          string
	Type        EventType
	Timestamp   time.Time
	UserID      UserID
	UserName    string
	Amount      *float64 // Set only for buy-in / cash-out / stack edits
	Description string
}

// NewGameCreatedEvent records the creation of a game
func NewGameCreatedEvent(id string, at time.Time, creatorID UserID, creatorName, title string) GameEvent {
	return GameEvent{
		ID:          id,
		Type:        EventGameCreated,
		Timestamp:   at,
		UserID:      creatorID,
		UserName:    creatorName,
		Description: fmt.Sprintf("%s started game %q", creatorName, title),
	}
}

// NewPlayerJoinedEvent records a player being seated
func NewPlayerJoinedEvent(id string, at time.Time, userID UserID, userName string) GameEvent {
	return GameEvent{
		ID:          id,
		Type:        EventPlayerJoined,
		Timestamp:   at,
		UserID:      userID,
		UserName:    userName,
		Description: fmt.Sprintf("%s joined the game", userName),
	}
}

// NewBuyInRequestedEvent records a buy-in request being submitted,
// before any approval decision
func NewBuyInRequestedEvent(id string, at time.Time, userID UserID, userName string, amount float64) GameEvent {
	return GameEvent{
		ID:          id,
		Type:        EventBuyIn,
		Timestamp:   at,
		UserID:      userID,
		UserName:    userName,
		Amount:      &amount,
		Description: fmt.Sprintf("%s requested a buy-in of %.2f", userName, amount),
	}
}

// NewBuyInEvent records an approved or host-applied buy-in
func NewBuyInEvent(id string, at time.Time, userID UserID, userName string, amount float64, byHost bool) GameEvent {
	desc := fmt.Sprintf("%s bought in for %.2f", userName, amount)
	if byHost {
		desc += " (added by host)"
	}
	return GameEvent{
		ID:          id,
		Type:        EventBuyIn,
		Timestamp:   at,
		UserID:      userID,
		UserName:    userName,
		Amount:      &amount,
		Description: desc,
	}
}

// NewBuyInDeclinedEvent records a rejected buy-in request; no balances change
func NewBuyInDeclinedEvent(id string, at time.Time, userID UserID, userName string, amount float64) GameEvent {
	return GameEvent{
		ID:          id,
		Type:        EventBuyIn,
		Timestamp:   at,
		UserID:      userID,
		UserName:    userName,
		Amount:      &amount,
		Description: fmt.Sprintf("buy-in of %.2f for %s was declined", amount, userName),
	}
}

// NewCashOutEvent records a player leaving the table at a final stack value
func NewCashOutEvent(id string, at time.Time, userID UserID, userName string, amount float64, forced bool) GameEvent {
	desc := fmt.Sprintf("%s cashed out at %.2f", userName, amount)
	if forced {
		desc = fmt.Sprintf("%s was cashed out at %.2f when the game ended", userName, amount)
	}
	return GameEvent{
		ID:          id,
		Type:        EventCashOut,
		Timestamp:   at,
		UserID:      userID,
		UserName:    userName,
		Amount:      &amount,
		Description: desc,
	}
}

// NewPlayerUpdatedEvent records a manual stack edit with before/after values
func NewPlayerUpdatedEvent(id string, at time.Time, userID UserID, userName string, oldStack, newStack, oldBuyIn, newBuyIn float64) GameEvent {
	return GameEvent{
		ID:        id,
		Type:      EventPlayerUpdated,
		Timestamp: at,
		UserID:    userID,
		UserName:  userName,
		Amount:    &newStack,
		Description: fmt.Sprintf("host updated %s: stack %.2f -> %.2f, total buy-in %.2f -> %.2f",
			userName, oldStack, newStack, oldBuyIn, newBuyIn),
	}
}

// NewGameEndedEvent records the game reaching its terminal state
func NewGameEndedEvent(id string, at time.Time, endedBy UserID, endedByName string) GameEvent {
	return GameEvent{
		ID:          id,
		Type:        EventGameEnded,
		Timestamp:   at,
		UserID:      endedBy,
		UserName:    endedByName,
		Description: "game ended",
	}
}
