package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case User:
		o.printUser(v)
	case AuthResult:
		o.printAuthResult(v)
	case Game:
		o.printGame(v)
	case GameList:
		o.printGameList(v)
	case GameHistory:
		o.printGameHistory(v)
	case GameSettlement:
		o.printGameSettlement(v)
	case BuyInRequest:
		o.printBuyInRequest(v)
	case CashOutRequest:
		o.printCashOutRequest(v)
	case Invite:
		o.printInvite(v)
	case InviteList:
		o.printInviteList(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// User response type (matches API)
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// AuthResult combines user and token
type AuthResult struct {
	User         User   `json:"user"`
	SessionToken string `json:"session_token"`
}

// Player response type
type Player struct {
	ID           string  `json:"id"`
	UserID       string  `json:"user_id"`
	DisplayName  string  `json:"display_name"`
	CurrentStack float64 `json:"current_stack"`
	TotalBuyIn   float64 `json:"total_buy_in"`
	Balance      float64 `json:"balance"`
	Status       string  `json:"status"`
}

// BuyInRequest response type
type BuyInRequest struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	DisplayName string    `json:"display_name"`
	Amount      float64   `json:"amount"`
	Status      string    `json:"status"`
	RequestedAt time.Time `json:"requested_at"`
}

// CashOutRequest response type
type CashOutRequest struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	DisplayName string    `json:"display_name"`
	Amount      float64   `json:"amount"`
	Status      string    `json:"status"`
	RequestedAt time.Time `json:"requested_at"`
}

// SettlementTransaction response type
type SettlementTransaction struct {
	FromPlayer string  `json:"from_player"`
	ToPlayer   string  `json:"to_player"`
	Amount     float64 `json:"amount"`
	Index      int     `json:"index"`
}

// Stakes response type
type Stakes struct {
	SmallBlind float64 `json:"small_blind"`
	BigBlind   float64 `json:"big_blind"`
}

// Game response type
type Game struct {
	ID              string                  `json:"id"`
	Title           string                  `json:"title"`
	CreatorID       string                  `json:"creator_id"`
	Status          string                  `json:"status"`
	Stakes          Stakes                  `json:"stakes"`
	Players         []Player                `json:"players"`
	BuyInRequests   []BuyInRequest          `json:"buy_in_requests"`
	CashOutRequests []CashOutRequest        `json:"cash_out_requests"`
	Settlement      []SettlementTransaction `json:"settlement,omitempty"`
	CreatedAt       time.Time               `json:"created_at"`
}

// GameList response type
type GameList struct {
	Games []Game `json:"games"`
}

// GameEvent response type
type GameEvent struct {
	Type        string    `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	Description string    `json:"description"`
}

// GameHistory response type
type GameHistory struct {
	GameID string      `json:"game_id"`
	Events []GameEvent `json:"events"`
}

// GameSettlement response type
type GameSettlement struct {
	GameID       string                  `json:"game_id"`
	Completed    bool                    `json:"completed"`
	Transactions []SettlementTransaction `json:"transactions"`
}

// Invite response type
type Invite struct {
	ID            string `json:"id"`
	GameID        string `json:"game_id"`
	GameTitle     string `json:"game_title"`
	HostName      string `json:"host_name"`
	InvitedUserID string `json:"invited_user_id"`
	Message       string `json:"message,omitempty"`
	Status        string `json:"status"`
}

// InviteList response type
type InviteList struct {
	Invites []Invite `json:"invites"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printUser(u User) {
	fmt.Printf("User: %s (%s)\n", u.DisplayName, u.ID)
}

func (o *Output) printAuthResult(a AuthResult) {
	o.printUser(a.User)
	fmt.Printf("Token: %s\n", a.SessionToken)
}

func (o *Output) printGame(g Game) {
	fmt.Printf("Game: %s (%s)\n", g.Title, g.ID)
	fmt.Printf("Status: %s\n", g.Status)
	fmt.Printf("Host: %s\n", g.CreatorID)
	if g.Stakes.BigBlind > 0 {
		fmt.Printf("Stakes: %.2f/%.2f\n", g.Stakes.SmallBlind, g.Stakes.BigBlind)
	}

	fmt.Printf("Players (%d):\n", len(g.Players))
	for _, p := range g.Players {
		status := ""
		if p.Status == "cashed_out" {
			status = " [cashed out]"
		}
		fmt.Printf("  - %s: stack %.2f, bought in %.2f, net %+.2f%s\n",
			p.DisplayName, p.CurrentStack, p.TotalBuyIn, p.Balance, status)
	}

	pending := 0
	for _, b := range g.BuyInRequests {
		if b.Status == "pending" {
			pending++
		}
	}
	for _, c := range g.CashOutRequests {
		if c.Status == "pending" {
			pending++
		}
	}
	if pending > 0 {
		fmt.Printf("Pending requests: %d\n", pending)
	}

	if len(g.Settlement) > 0 {
		fmt.Println("Settlement:")
		for _, t := range g.Settlement {
			fmt.Printf("  %d. %s pays %s %.2f\n", t.Index, t.FromPlayer, t.ToPlayer, t.Amount)
		}
	}
}

func (o *Output) printGameList(l GameList) {
	if len(l.Games) == 0 {
		fmt.Println("No games")
		return
	}
	for _, g := range l.Games {
		fmt.Printf("%s  %s  %s  %d players\n", g.ID, g.Status, g.Title, len(g.Players))
	}
}

func (o *Output) printGameHistory(h GameHistory) {
	if len(h.Events) == 0 {
		fmt.Println("No events")
		return
	}
	for _, e := range h.Events {
		fmt.Printf("%s  %-15s %s\n", e.Timestamp.Format(time.RFC3339), e.Type, e.Description)
	}
}

func (o *Output) printGameSettlement(s GameSettlement) {
	if !s.Completed {
		fmt.Println("Game is still active; settlement is computed when it ends")
		return
	}
	if len(s.Transactions) == 0 {
		fmt.Println("All square, no transfers needed")
		return
	}
	for _, t := range s.Transactions {
		fmt.Printf("%d. %s pays %s %.2f\n", t.Index, t.FromPlayer, t.ToPlayer, t.Amount)
	}
}

func (o *Output) printBuyInRequest(b BuyInRequest) {
	fmt.Printf("Buy-in request: %s\n", b.ID)
	fmt.Printf("Player: %s\n", b.DisplayName)
	fmt.Printf("Amount: %.2f\n", b.Amount)
	fmt.Printf("Status: %s\n", b.Status)
}

func (o *Output) printCashOutRequest(c CashOutRequest) {
	fmt.Printf("Cash-out request: %s\n", c.ID)
	fmt.Printf("Player: %s\n", c.DisplayName)
	fmt.Printf("Claimed stack: %.2f\n", c.Amount)
	fmt.Printf("Status: %s\n", c.Status)
}

func (o *Output) printInvite(i Invite) {
	fmt.Printf("Invite: %s\n", i.ID)
	fmt.Printf("Game: %s (%s)\n", i.GameTitle, i.GameID)
	fmt.Printf("Host: %s\n", i.HostName)
	fmt.Printf("Status: %s\n", i.Status)
	if i.Message != "" {
		fmt.Printf("Message: %s\n", i.Message)
	}
}

func (o *Output) printInviteList(l InviteList) {
	if len(l.Invites) == 0 {
		fmt.Println("No invites")
		return
	}
	for _, i := range l.Invites {
		fmt.Printf("%s  %s  %s (host %s)\n", i.ID, i.Status, i.GameTitle, i.HostName)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
