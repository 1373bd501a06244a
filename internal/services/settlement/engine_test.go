package settlement

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/pdobson/homegame/internal/model"
)

type EngineSuite struct {
	suite.Suite
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func player(name string, stack, buyIn float64) model.Player {
	return model.Player{
		DisplayName:  name,
		CurrentStack: stack,
		TotalBuyIn:   buyIn,
		Status:       model.PlayerStatusCashedOut,
	}
}

func (s *EngineSuite) TestSimpleTwoWayTransfer() {
	players := []model.Player{
		player("Alice", 150, 100),
		player("Bob", 50, 100),
	}

	txns := Compute(players)

	s.Require().Len(txns, 1)
	s.Equal("Bob", txns[0].FromPlayer)
	s.Equal("Alice", txns[0].ToPlayer)
	s.InDelta(50, txns[0].Amount, 0.001)
	s.Equal(1, txns[0].Index)
}

func (s *EngineSuite) TestOneDebtorPaysMultipleCreditors() {
	players := []model.Player{
		player("Alice", 180, 100),
		player("Bob", 140, 100),
		player("Carol", 0, 120),
	}

	txns := Compute(players)

	s.Require().Len(txns, 2)
	s.Equal("Carol", txns[0].FromPlayer)
	s.Equal("Alice", txns[0].ToPlayer)
	s.InDelta(80, txns[0].Amount, 0.001)
	s.Equal("Carol", txns[1].FromPlayer)
	s.Equal("Bob", txns[1].ToPlayer)
	s.InDelta(40, txns[1].Amount, 0.001)
}

func (s *EngineSuite) TestAllEvenProducesNoTransfers() {
	players := []model.Player{
		player("Alice", 100, 100),
		player("Bob", 100, 100),
	}

	s.Empty(Compute(players))
}

func (s *EngineSuite) TestBalancesInsideEpsilonAreIgnored() {
	players := []model.Player{
		player("Alice", 100.5, 100),
		player("Bob", 99.5, 100),
	}

	s.Empty(Compute(players))
}

func (s *EngineSuite) TestEmptyRoster() {
	s.Empty(Compute(nil))
}

func (s *EngineSuite) TestTransactionIndexesAreSequential() {
	players := []model.Player{
		player("Alice", 300, 100),
		player("Bob", 20, 100),
		player("Carol", 30, 100),
		player("Dave", 50, 100),
	}

	txns := Compute(players)

	s.Require().Len(txns, 3)
	for i, t := range txns {
		s.Equal(i+1, t.Index)
	}
}

func (s *EngineSuite) TestDeterministicForFixedRosterOrder() {
	players := []model.Player{
		player("Alice", 250, 100),
		player("Bob", 10, 100),
		player("Carol", 40, 100),
	}

	first := Compute(players)
	second := Compute(players)

	s.Require().Equal(len(first), len(second))
	for i := range first {
		s.Equal(first[i].FromPlayer, second[i].FromPlayer)
		s.Equal(first[i].ToPlayer, second[i].ToPlayer)
		s.InDelta(first[i].Amount, second[i].Amount, 0.001)
	}
}

func (s *EngineSuite) TestTransfersConserveBalances() {
	players := []model.Player{
		player("Alice", 320, 100),
		player("Bob", 15, 150),
		player("Carol", 90, 100),
		player("Dave", 25, 100),
	}

	txns := Compute(players)

	// Apply the transfers back onto the balances; everything must land
	// inside Epsilon of zero.
	balances := make(map[string]float64)
	for _, p := range players {
		balances[p.DisplayName] = p.Balance()
	}
	for _, t := range txns {
		s.Greater(t.Amount, 0.0)
		balances[t.FromPlayer] += t.Amount
		balances[t.ToPlayer] -= t.Amount
	}
	for name, b := range balances {
		s.LessOrEqual(b, Epsilon, "player %s not settled", name)
		s.GreaterOrEqual(b, -Epsilon, "player %s not settled", name)
	}
}

func (s *EngineSuite) TestPairsFirstCreditorWithFirstDebtor() {
	players := []model.Player{
		player("Bob", 50, 100),
		player("Alice", 150, 100),
		player("Carol", 100, 100),
	}

	txns := Compute(players)

	s.Require().Len(txns, 1)
	s.Equal("Bob", txns[0].FromPlayer)
	s.Equal("Alice", txns[0].ToPlayer)
}
