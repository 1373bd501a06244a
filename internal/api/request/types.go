package request

// RegisterRequest is the request body for registering a user
type RegisterRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CreateGameRequest is the request body for creating a game
type CreateGameRequest struct {
	Title         string   `json:"title"`
	SmallBlind    float64  `json:"small_blind,omitempty"`
	BigBlind      float64  `json:"big_blind,omitempty"`
	GroupID       string   `json:"group_id,omitempty"`
	LinkedEventID string   `json:"linked_event_id,omitempty"`
	PlayerIDs     []string `json:"player_ids,omitempty"`
}

// BuyInRequest is the request body for submitting a buy-in
type BuyInRequest struct {
	Amount float64 `json:"amount"`
}

// DirectBuyInRequest is the request body for a host buying a player in
// without the approval round-trip
type DirectBuyInRequest struct {
	UserID string  `json:"user_id"`
	Amount float64 `json:"amount"`
}

// CashOutRequest is the request body for submitting a cash-out.
// Amount is the player's claimed final stack.
type CashOutRequest struct {
	Amount float64 `json:"amount"`
}

// SetStackRequest is the request body for a host stack correction.
// The target player comes from the URL path.
type SetStackRequest struct {
	Stack      float64 `json:"stack"`
	TotalBuyIn float64 `json:"total_buy_in"`
}

// CreateInviteRequest is the request body for inviting a user
type CreateInviteRequest struct {
	UserID  string `json:"user_id"`
	Message string `json:"message,omitempty"`
}

// CreateGroupInvitesRequest is the request body for inviting a whole group
type CreateGroupInvitesRequest struct {
	GroupID string `json:"group_id"`
	Message string `json:"message,omitempty"`
}
