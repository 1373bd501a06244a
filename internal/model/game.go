package model

import "time"

// GameID uniquely identifies a game
type GameID string

// UserID uniquely identifies a user across the system
type UserID string

// GroupID identifies an optional grouping context for games and invites
type GroupID string

// LinkedEventID references an external event record tied to a game
type LinkedEventID string

// GameStatus represents the lifecycle phase of a game
type GameStatus string

const (
	GameStatusActive    GameStatus = "active"
	GameStatusCompleted GameStatus = "completed" // Terminal; never reopened
)

// PlayerStatus represents whether a player is still in the game
type PlayerStatus string

const (
	PlayerStatusActive    PlayerStatus = "active"
	PlayerStatusCashedOut PlayerStatus = "cashed_out"
)

// Stakes holds display-only blind sizes for a game
type Stakes struct {
	SmallBlind float64
	BigBlind   float64
}

// Player represents a participant in a game, host included if they play.
// CurrentStack and TotalBuyIn are driven only by approved buy-ins,
// cash-outs and host stack edits, never written directly by callers.
type Player struct {
	ID           string
	UserID       UserID
	DisplayName  string
	CurrentStack float64
	TotalBuyIn   float64
	Status       PlayerStatus
	JoinedAt     time.Time
	CashedOutAt  *time.Time // nil while active
}

// Balance returns the player's net result so far
func (p *Player) Balance() float64 {
	return p.CurrentStack - p.TotalBuyIn
}

// Game is the aggregate root for one cash session. The whole Game is the
// unit of concurrency control: nested collections are only mutated as part
// of a whole-game atomic update.
type Game struct {
	ID            GameID
	Title         string
	CreatorID     UserID
	GroupID       GroupID       // Empty for standalone games
	LinkedEventID LinkedEventID // Empty unless tied to an external event
	Status        GameStatus
	Stakes        Stakes

	Players []Player

	// PlayerIDs mirrors Players[].UserID for membership queries.
	// It is recomputed by the storage layer after every committed
	// mutation and must never be updated independently.
	PlayerIDs []UserID

	// Request history is retained, never deleted
	BuyInRequests   []BuyInRequest
	CashOutRequests []CashOutRequest

	// History is the append-only audit trail
	History []GameEvent

	// Settlement is populated exactly once, when the game completes
	Settlement []SettlementTransaction

	CreatedAt time.Time
	UpdatedAt time.Time
}

// FindPlayer returns the player seated for the given user, or nil
func (g *Game) FindPlayer(userID UserID) *Player {
	for i := range g.Players {
		if g.Players[i].UserID == userID {
			return &g.Players[i]
		}
	}
	return nil
}

// IsPlayer reports whether the given user is seated in this game
func (g *Game) IsPlayer(userID UserID) bool {
	return g.FindPlayer(userID) != nil
}

// AllCashedOut reports whether every seated player has cashed out
func (g *Game) AllCashedOut() bool {
	if len(g.Players) == 0 {
		return false
	}
	for i := range g.Players {
		if g.Players[i].Status == PlayerStatusActive {
			return false
		}
	}
	return true
}

// FindBuyInRequest returns the buy-in request with the given id, or nil
func (g *Game) FindBuyInRequest(id string) *BuyInRequest {
	for i := range g.BuyInRequests {
		if g.BuyInRequests[i].ID == id {
			return &g.BuyInRequests[i]
		}
	}
	return nil
}

// FindCashOutRequest returns the cash-out request with the given id, or nil
func (g *Game) FindCashOutRequest(id string) *CashOutRequest {
	for i := range g.CashOutRequests {
		if g.CashOutRequests[i].ID == id {
			return &g.CashOutRequests[i]
		}
	}
	return nil
}

// AppendEvent appends an entry to the audit trail
func (g *Game) AppendEvent(e GameEvent) {
	g.History = append(g.History, e)
}

// RecomputeDerived rebuilds the PlayerIDs mirror from the roster.
// Storage implementations call this after every successful mutation so
// the mirror can never drift from Players.
func (g *Game) RecomputeDerived() {
	ids := make([]UserID, len(g.Players))
	for i := range g.Players {
		ids[i] = g.Players[i].UserID
	}
	g.PlayerIDs = ids
}

// Clone returns a deep copy of the game. Mutating operations work on a
// clone so a failed mutation never leaves partial changes behind.
func (g *Game) Clone() *Game {
	dup := *g
	dup.Players = make([]Player, len(g.Players))
	copy(dup.Players, g.Players)
	for i := range g.Players {
		if g.Players[i].CashedOutAt != nil {
			t := *g.Players[i].CashedOutAt
			dup.Players[i].CashedOutAt = &t
		}
	}
	dup.PlayerIDs = append([]UserID(nil), g.PlayerIDs...)
	dup.BuyInRequests = append([]BuyInRequest(nil), g.BuyInRequests...)
	dup.CashOutRequests = make([]CashOutRequest, len(g.CashOutRequests))
	copy(dup.CashOutRequests, g.CashOutRequests)
	for i := range g.CashOutRequests {
		if g.CashOutRequests[i].ProcessedAt != nil {
			t := *g.CashOutRequests[i].ProcessedAt
			dup.CashOutRequests[i].ProcessedAt = &t
		}
	}
	dup.History = make([]GameEvent, len(g.History))
	copy(dup.History, g.History)
	for i := range g.History {
		if g.History[i].Amount != nil {
			a := *g.History[i].Amount
			dup.History[i].Amount = &a
		}
	}
	dup.Settlement = append([]SettlementTransaction(nil), g.Settlement...)
	return &dup
}
