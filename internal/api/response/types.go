package response

import (
	"time"

	"github.com/pdobson/homegame/internal/model"
	"github.com/pdobson/homegame/internal/services/auth"
)

// User represents a user in API responses
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// UserFromModel converts a model.User to a response User
func UserFromModel(u *model.User) User {
	return User{
		ID:          string(u.ID),
		DisplayName: u.DisplayName,
	}
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	User         User   `json:"user"`
	SessionToken string `json:"session_token"`
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(s *auth.Session) AuthResponse {
	return AuthResponse{
		User:         UserFromModel(&s.User),
		SessionToken: s.Token,
	}
}

// Player represents a seated player
type Player struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	DisplayName  string     `json:"display_name"`
	CurrentStack float64    `json:"current_stack"`
	TotalBuyIn   float64    `json:"total_buy_in"`
	Balance      float64    `json:"balance"`
	Status       string     `json:"status"`
	JoinedAt     time.Time  `json:"joined_at"`
	CashedOutAt  *time.Time `json:"cashed_out_at,omitempty"`
}

// PlayerFromModel converts model.Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		ID:           p.ID,
		UserID:       string(p.UserID),
		DisplayName:  p.DisplayName,
		CurrentStack: p.CurrentStack,
		TotalBuyIn:   p.TotalBuyIn,
		Balance:      p.Balance(),
		Status:       string(p.Status),
		JoinedAt:     p.JoinedAt,
		CashedOutAt:  p.CashedOutAt,
	}
}

// BuyInRequest represents a buy-in request
type BuyInRequest struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	DisplayName string    `json:"display_name"`
	Amount      float64   `json:"amount"`
	Status      string    `json:"status"`
	RequestedAt time.Time `json:"requested_at"`
}

// BuyInRequestFromModel converts model.BuyInRequest
func BuyInRequestFromModel(r *model.BuyInRequest) BuyInRequest {
	return BuyInRequest{
		ID:          r.ID,
		UserID:      string(r.UserID),
		DisplayName: r.DisplayName,
		Amount:      r.Amount,
		Status:      string(r.Status),
		RequestedAt: r.RequestedAt,
	}
}

// CashOutRequest represents a cash-out request
type CashOutRequest struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	DisplayName string     `json:"display_name"`
	Amount      float64    `json:"amount"`
	Status      string     `json:"status"`
	RequestedAt time.Time  `json:"requested_at"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
}

// CashOutRequestFromModel converts model.CashOutRequest
func CashOutRequestFromModel(r *model.CashOutRequest) CashOutRequest {
	return CashOutRequest{
		ID:          r.ID,
		UserID:      string(r.UserID),
		DisplayName: r.DisplayName,
		Amount:      r.Amount,
		Status:      string(r.Status),
		RequestedAt: r.RequestedAt,
		ProcessedAt: r.ProcessedAt,
	}
}

// GameEvent represents an audit trail entry
type GameEvent struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	UserID      string    `json:"user_id,omitempty"`
	UserName    string    `json:"user_name,omitempty"`
	Amount      *float64  `json:"amount,omitempty"`
	Description string    `json:"description"`
}

// GameEventFromModel converts model.GameEvent
func GameEventFromModel(e *model.GameEvent) GameEvent {
	return GameEvent{
		ID:          e.ID,
		Type:        string(e.Type),
		Timestamp:   e.Timestamp,
		UserID:      string(e.UserID),
		UserName:    e.UserName,
		Amount:      e.Amount,
		Description: e.Description,
	}
}

// SettlementTransaction represents one settlement transfer
type SettlementTransaction struct {
	ID         string  `json:"id"`
	FromPlayer string  `json:"from_player"`
	ToPlayer   string  `json:"to_player"`
	Amount     float64 `json:"amount"`
	Index      int     `json:"index"`
}

// SettlementTransactionFromModel converts model.SettlementTransaction
func SettlementTransactionFromModel(t *model.SettlementTransaction) SettlementTransaction {
	return SettlementTransaction{
		ID:         t.ID,
		FromPlayer: t.FromPlayer,
		ToPlayer:   t.ToPlayer,
		Amount:     t.Amount,
		Index:      t.Index,
	}
}

// GameHistory is the audit trail of one game
type GameHistory struct {
	GameID string      `json:"game_id"`
	Events []GameEvent `json:"events"`
}

// GameSettlement is the settlement view of one game. Transactions is
// empty until the game completes.
type GameSettlement struct {
	GameID       string                  `json:"game_id"`
	Completed    bool                    `json:"completed"`
	Transactions []SettlementTransaction `json:"transactions"`
}

// Stakes represents game stakes
type Stakes struct {
	SmallBlind float64 `json:"small_blind"`
	BigBlind   float64 `json:"big_blind"`
}

// Game represents a game in API responses
type Game struct {
	ID              string                  `json:"id"`
	Title           string                  `json:"title"`
	CreatorID       string                  `json:"creator_id"`
	GroupID         string                  `json:"group_id,omitempty"`
	LinkedEventID   string                  `json:"linked_event_id,omitempty"`
	Status          string                  `json:"status"`
	Stakes          Stakes                  `json:"stakes"`
	Players         []Player                `json:"players"`
	BuyInRequests   []BuyInRequest          `json:"buy_in_requests"`
	CashOutRequests []CashOutRequest        `json:"cash_out_requests"`
	History         []GameEvent             `json:"history"`
	Settlement      []SettlementTransaction `json:"settlement,omitempty"`
	CreatedAt       time.Time               `json:"created_at"`
	UpdatedAt       time.Time               `json:"updated_at"`
}

// GameFromModel converts model.Game
func GameFromModel(g *model.Game) Game {
	players := make([]Player, len(g.Players))
	for i := range g.Players {
		players[i] = PlayerFromModel(&g.Players[i])
	}

	buyIns := make([]BuyInRequest, len(g.BuyInRequests))
	for i := range g.BuyInRequests {
		buyIns[i] = BuyInRequestFromModel(&g.BuyInRequests[i])
	}

	cashOuts := make([]CashOutRequest, len(g.CashOutRequests))
	for i := range g.CashOutRequests {
		cashOuts[i] = CashOutRequestFromModel(&g.CashOutRequests[i])
	}

	history := make([]GameEvent, len(g.History))
	for i := range g.History {
		history[i] = GameEventFromModel(&g.History[i])
	}

	var settlement []SettlementTransaction
	if len(g.Settlement) > 0 {
		settlement = make([]SettlementTransaction, len(g.Settlement))
		for i := range g.Settlement {
			settlement[i] = SettlementTransactionFromModel(&g.Settlement[i])
		}
	}

	return Game{
		ID:              string(g.ID),
		Title:           g.Title,
		CreatorID:       string(g.CreatorID),
		GroupID:         string(g.GroupID),
		LinkedEventID:   string(g.LinkedEventID),
		Status:          string(g.Status),
		Stakes:          Stakes{SmallBlind: g.Stakes.SmallBlind, BigBlind: g.Stakes.BigBlind},
		Players:         players,
		BuyInRequests:   buyIns,
		CashOutRequests: cashOuts,
		History:         history,
		Settlement:      settlement,
		CreatedAt:       g.CreatedAt,
		UpdatedAt:       g.UpdatedAt,
	}
}

// GameList is a list of games
type GameList struct {
	Games []Game `json:"games"`
}

// GameListFromModels converts a slice of games
func GameListFromModels(games []*model.Game) GameList {
	out := make([]Game, len(games))
	for i, g := range games {
		out[i] = GameFromModel(g)
	}
	return GameList{Games: out}
}

// Invite represents a game invite
type Invite struct {
	ID             string     `json:"id"`
	GameID         string     `json:"game_id"`
	GameTitle      string     `json:"game_title"`
	HostID         string     `json:"host_id"`
	HostName       string     `json:"host_name"`
	InvitedUserID  string     `json:"invited_user_id"`
	InvitedGroupID string     `json:"invited_group_id,omitempty"`
	Message        string     `json:"message,omitempty"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	RespondedAt    *time.Time `json:"responded_at,omitempty"`
}

// InviteFromModel converts model.GameInvite
func InviteFromModel(i *model.GameInvite) Invite {
	return Invite{
		ID:             i.ID,
		GameID:         string(i.GameID),
		GameTitle:      i.GameTitle,
		HostID:         string(i.HostID),
		HostName:       i.HostName,
		InvitedUserID:  string(i.InvitedUserID),
		InvitedGroupID: string(i.InvitedGroupID),
		Message:        i.Message,
		Status:         string(i.Status),
		CreatedAt:      i.CreatedAt,
		RespondedAt:    i.RespondedAt,
	}
}

// InviteList is a list of invites
type InviteList struct {
	Invites []Invite `json:"invites"`
}

// InviteListFromModels converts a slice of invites
func InviteListFromModels(invites []*model.GameInvite) InviteList {
	out := make([]Invite, len(invites))
	for i, inv := range invites {
		out[i] = InviteFromModel(inv)
	}
	return InviteList{Invites: out}
}
