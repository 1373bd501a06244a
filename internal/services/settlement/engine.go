package settlement

import (
	"math"

	"github.com/google/uuid"

	"github.com/pdobson/homegame/internal/model"
)

// Epsilon is the balance threshold below which a player is treated as
// fully settled. It absorbs rounding noise so near-zero balances never
// generate transfer instructions.
const Epsilon = 1.0

// Compute converts a completed game's player balances into an ordered
// list of pairwise transfer instructions.
//
// It is a greedy netting pass: repeatedly pair the first creditor with
// the first debtor in roster order and transfer the smaller of the two
// outstanding balances. The result is deterministic for a fixed roster
// order and always terminates with every balance inside Epsilon, but it
// is not guaranteed to be the minimum possible number of transfers.
func Compute(players []model.Player) []model.SettlementTransaction {
	type account struct {
		name    string
		balance float64
	}

	accounts := make([]account, len(players))
	for i, p := range players {
		accounts[i] = account{name: p.DisplayName, balance: p.Balance()}
	}

	var txns []model.SettlementTransaction
	for {
		creditor := -1
		debtor := -1
		for i := range accounts {
			if creditor == -1 && accounts[i].balance > Epsilon {
				creditor = i
			}
			if debtor == -1 && accounts[i].balance < -Epsilon {
				debtor = i
			}
			if creditor != -1 && debtor != -1 {
				break
			}
		}
		if creditor == -1 || debtor == -1 {
			break
		}

		amount := math.Min(accounts[creditor].balance, -accounts[debtor].balance)
		accounts[creditor].balance -= amount
		accounts[debtor].balance += amount

		txns = append(txns, model.SettlementTransaction{
			ID:         uuid.NewString(),
			FromPlayer: accounts[debtor].name,
			ToPlayer:   accounts[creditor].name,
			Amount:     amount,
			Index:      len(txns) + 1,
		})
	}

	return txns
}
