package model

// SettlementTransaction is one pairwise transfer instruction produced by
// the settlement engine. Immutable once created.
type SettlementTransaction struct {
	ID         string
	FromPlayer string // Display name of the debtor
	ToPlayer   string // Display name of the creditor
	Amount     float64
	Index      int // 1-based emission order
}
