package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/pdobson/homegame/internal/dependencies/mocks"
	"github.com/pdobson/homegame/internal/model"
	"github.com/pdobson/homegame/internal/storage/memory"
	"github.com/pdobson/homegame/internal/testutil"
)

type ControllerSuite struct {
	suite.Suite
	storage    *memory.Storage
	clock      *mocks.MockClock
	random     *mocks.MockRandom
	controller *Controller
	ctx        context.Context
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2025, 6, 1, 19, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	s.controller = NewController(s.storage, s.clock, s.random, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ControllerSuite) createUser(id, name string) *model.User {
	u := &model.User{
		ID:          model.UserID(id),
		DisplayName: name,
		CreatedAt:   s.clock.Now(),
	}
	s.Require().NoError(s.storage.SaveUser(s.ctx, u))
	return u
}

func (s *ControllerSuite) TestCreateGameSeatsCreator() {
	s.random.QueueString("GAME00000001")
	host := s.createUser("u1", "Alice")

	game, err := s.controller.CreateGame(s.ctx, CreateGameParams{Title: "Friday Night", Creator: host})
	s.Require().NoError(err)

	s.Equal(model.GameID("GAME00000001"), game.ID)
	s.Equal(model.GameStatusActive, game.Status)
	s.Equal(host.ID, game.CreatorID)
	s.Require().Len(game.Players, 1)
	s.Equal(host.ID, game.Players[0].UserID)
	s.Equal(0.0, game.Players[0].CurrentStack)
	s.Equal(model.PlayerStatusActive, game.Players[0].Status)
}

func (s *ControllerSuite) TestCreateGameWithExplicitRoster() {
	s.random.QueueString("GAME00000001")
	host := s.createUser("u1", "Alice")
	bob := s.createUser("u2", "Bob")
	carol := s.createUser("u3", "Carol")

	game, err := s.controller.CreateGame(s.ctx, CreateGameParams{
		Title:          "Friday Night",
		Creator:        host,
		InitialPlayers: []*model.User{bob, carol},
	})
	s.Require().NoError(err)

	s.Require().Len(game.Players, 2)
	s.Equal(bob.ID, game.Players[0].UserID)
	s.Equal(carol.ID, game.Players[1].UserID)
	// Creator still hosts even when not seated
	s.Equal(host.ID, game.CreatorID)
}

func (s *ControllerSuite) TestCreateGameRecordsAuditEvent() {
	s.random.QueueString("GAME00000001")
	host := s.createUser("u1", "Alice")

	game, err := s.controller.CreateGame(s.ctx, CreateGameParams{Title: "Friday Night", Creator: host})
	s.Require().NoError(err)

	s.Require().Len(game.History, 1)
	s.Equal(model.EventGameCreated, game.History[0].Type)
	s.Equal(host.ID, game.History[0].UserID)
}

func (s *ControllerSuite) TestCreateGameIsPersisted() {
	s.random.QueueString("GAME00000001")
	host := s.createUser("u1", "Alice")

	game, err := s.controller.CreateGame(s.ctx, CreateGameParams{Title: "Friday Night", Creator: host})
	s.Require().NoError(err)

	retrieved, err := s.controller.GetGame(s.ctx, game.ID)
	s.Require().NoError(err)
	s.Equal(game.ID, retrieved.ID)
	s.Equal([]model.UserID{host.ID}, retrieved.PlayerIDs)
}

func (s *ControllerSuite) TestCreateGameRejectsSecondActiveGame() {
	s.random.QueueString("GAME00000001", "GAME00000002")
	host := s.createUser("u1", "Alice")

	_, err := s.controller.CreateGame(s.ctx, CreateGameParams{Title: "First", Creator: host})
	s.Require().NoError(err)

	_, err = s.controller.CreateGame(s.ctx, CreateGameParams{Title: "Second", Creator: host})
	s.ErrorIs(err, model.ErrActiveGameExists)
}

func (s *ControllerSuite) TestCreateGameAllowedAfterPreviousEnds() {
	s.random.QueueString("GAME00000001", "GAME00000002")
	host := s.createUser("u1", "Alice")

	first, err := s.controller.CreateGame(s.ctx, CreateGameParams{Title: "First", Creator: host})
	s.Require().NoError(err)
	_, err = s.controller.EndGame(s.ctx, first.ID, host.ID)
	s.Require().NoError(err)

	_, err = s.controller.CreateGame(s.ctx, CreateGameParams{Title: "Second", Creator: host})
	s.NoError(err)
}

func (s *ControllerSuite) TestGetGameNotFound() {
	_, err := s.controller.GetGame(s.ctx, "MISSING")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *ControllerSuite) TestEndGameRequiresHost() {
	s.random.QueueString("GAME00000001")
	host := s.createUser("u1", "Alice")
	game, _ := s.controller.CreateGame(s.ctx, CreateGameParams{Title: "Friday Night", Creator: host})

	_, err := s.controller.EndGame(s.ctx, game.ID, "u2")
	s.ErrorIs(err, model.ErrNotHost)
}

func (s *ControllerSuite) TestEndGameTwiceFails() {
	s.random.QueueString("GAME00000001")
	host := s.createUser("u1", "Alice")
	game, _ := s.controller.CreateGame(s.ctx, CreateGameParams{Title: "Friday Night", Creator: host})

	_, err := s.controller.EndGame(s.ctx, game.ID, host.ID)
	s.Require().NoError(err)

	_, err = s.controller.EndGame(s.ctx, game.ID, host.ID)
	s.ErrorIs(err, model.ErrGameCompleted)
}

func (s *ControllerSuite) TestEndGameForceCashesOutActivePlayers() {
	s.random.QueueString("GAME00000001")
	host := s.createUser("u1", "Alice")
	bob := s.createUser("u2", "Bob")
	game, _ := s.controller.CreateGame(s.ctx, CreateGameParams{
		Title:          "Friday Night",
		Creator:        host,
		InitialPlayers: []*model.User{host, bob},
	})

	// Give the players stacks directly through an update
	_, err := s.storage.UpdateGame(s.ctx, game.ID, func(g *model.Game) error {
		g.Players[0].CurrentStack = 150
		g.Players[0].TotalBuyIn = 100
		g.Players[1].CurrentStack = 50
		g.Players[1].TotalBuyIn = 100
		return nil
	})
	s.Require().NoError(err)

	ended, err := s.controller.EndGame(s.ctx, game.ID, host.ID)
	s.Require().NoError(err)

	s.Equal(model.GameStatusCompleted, ended.Status)
	for _, p := range ended.Players {
		s.Equal(model.PlayerStatusCashedOut, p.Status)
		s.NotNil(p.CashedOutAt)
	}
}

func (s *ControllerSuite) TestEndGameComputesSettlement() {
	s.random.QueueString("GAME00000001")
	host := s.createUser("u1", "Alice")
	bob := s.createUser("u2", "Bob")
	game, _ := s.controller.CreateGame(s.ctx, CreateGameParams{
		Title:          "Friday Night",
		Creator:        host,
		InitialPlayers: []*model.User{host, bob},
	})

	_, err := s.storage.UpdateGame(s.ctx, game.ID, func(g *model.Game) error {
		g.Players[0].CurrentStack = 150
		g.Players[0].TotalBuyIn = 100
		g.Players[1].CurrentStack = 50
		g.Players[1].TotalBuyIn = 100
		return nil
	})
	s.Require().NoError(err)

	ended, err := s.controller.EndGame(s.ctx, game.ID, host.ID)
	s.Require().NoError(err)

	s.Require().Len(ended.Settlement, 1)
	s.Equal("Bob", ended.Settlement[0].FromPlayer)
	s.Equal("Alice", ended.Settlement[0].ToPlayer)
	s.InDelta(50, ended.Settlement[0].Amount, 0.001)
}

func (s *ControllerSuite) TestEndGameAppendsGameEndedEvent() {
	s.random.QueueString("GAME00000001")
	host := s.createUser("u1", "Alice")
	game, _ := s.controller.CreateGame(s.ctx, CreateGameParams{Title: "Friday Night", Creator: host})

	ended, err := s.controller.EndGame(s.ctx, game.ID, host.ID)
	s.Require().NoError(err)

	last := ended.History[len(ended.History)-1]
	s.Equal(model.EventGameEnded, last.Type)
}

func (s *ControllerSuite) TestEndGameCompletesLinkedEvent() {
	s.random.QueueString("GAME00000001")
	host := s.createUser("u1", "Alice")
	s.Require().NoError(s.storage.SaveLinkedEvent(s.ctx, &model.LinkedEvent{
		ID:     "ev1",
		Title:  "League Night",
		Status: model.LinkedEventStatusUpcoming,
	}))

	game, err := s.controller.CreateGame(s.ctx, CreateGameParams{
		Title:         "Friday Night",
		Creator:       host,
		LinkedEventID: "ev1",
	})
	s.Require().NoError(err)

	_, err = s.controller.EndGame(s.ctx, game.ID, host.ID)
	s.Require().NoError(err)

	ev, err := s.storage.GetLinkedEvent(s.ctx, "ev1")
	s.Require().NoError(err)
	s.Equal(model.LinkedEventStatusCompleted, ev.Status)
}

func (s *ControllerSuite) TestListingsByCreatorAndPlayer() {
	s.random.QueueString("GAME00000001")
	host := s.createUser("u1", "Alice")
	bob := s.createUser("u2", "Bob")
	game, _ := s.controller.CreateGame(s.ctx, CreateGameParams{
		Title:          "Friday Night",
		Creator:        host,
		InitialPlayers: []*model.User{host, bob},
	})

	hosting, err := s.controller.ActiveGamesByCreator(s.ctx, host.ID)
	s.Require().NoError(err)
	s.Require().Len(hosting, 1)
	s.Equal(game.ID, hosting[0].ID)

	playing, err := s.controller.ActiveGamesWithPlayer(s.ctx, bob.ID)
	s.Require().NoError(err)
	s.Require().Len(playing, 1)
	s.Equal(game.ID, playing[0].ID)

	// Ending the game removes it from both active listings
	_, err = s.controller.EndGame(s.ctx, game.ID, host.ID)
	s.Require().NoError(err)

	hosting, _ = s.controller.ActiveGamesByCreator(s.ctx, host.ID)
	s.Empty(hosting)
	playing, _ = s.controller.ActiveGamesWithPlayer(s.ctx, bob.ID)
	s.Empty(playing)
}

func (s *ControllerSuite) TestGamesByGroupIncludesCompleted() {
	s.random.QueueString("GAME00000001")
	host := s.createUser("u1", "Alice")
	game, _ := s.controller.CreateGame(s.ctx, CreateGameParams{
		Title:   "Friday Night",
		Creator: host,
		GroupID: "grp1",
	})

	_, err := s.controller.EndGame(s.ctx, game.ID, host.ID)
	s.Require().NoError(err)

	games, err := s.controller.GamesByGroup(s.ctx, "grp1")
	s.Require().NoError(err)
	s.Require().Len(games, 1)
	s.Equal(model.GameStatusCompleted, games[0].Status)
}
