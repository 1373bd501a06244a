package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/pdobson/homegame/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

func (s *StorageSuite) newGame(id model.GameID, creator model.UserID) *model.Game {
	now := time.Date(2025, 6, 1, 19, 0, 0, 0, time.UTC)
	return &model.Game{
		ID:        id,
		Title:     "Friday Night",
		CreatorID: creator,
		Status:    model.GameStatusActive,
		Players: []model.Player{
			{
				ID:          "p1",
				UserID:      creator,
				DisplayName: "Alice",
				Status:      model.PlayerStatusActive,
				JoinedAt:    now,
			},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *StorageSuite) TestGameRoundTrip() {
	game := s.newGame("g1", "u1")
	s.Require().NoError(s.storage.CreateGame(s.ctx, game))

	got, err := s.storage.GetGame(s.ctx, "g1")
	s.Require().NoError(err)
	s.Equal(game.ID, got.ID)
	s.Equal(game.Title, got.Title)
	s.Len(got.Players, 1)
}

func (s *StorageSuite) TestGetMissingGame() {
	_, err := s.storage.GetGame(s.ctx, "nope")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *StorageSuite) TestReadsReturnIsolatedCopies() {
	s.Require().NoError(s.storage.CreateGame(s.ctx, s.newGame("g1", "u1")))

	first, err := s.storage.GetGame(s.ctx, "g1")
	s.Require().NoError(err)
	first.Title = "tampered"
	first.Players[0].CurrentStack = 9999

	second, err := s.storage.GetGame(s.ctx, "g1")
	s.Require().NoError(err)
	s.Equal("Friday Night", second.Title)
	s.Zero(second.Players[0].CurrentStack)
}

func (s *StorageSuite) TestCreateRecomputesPlayerIDs() {
	game := s.newGame("g1", "u1")
	game.PlayerIDs = nil
	s.Require().NoError(s.storage.CreateGame(s.ctx, game))

	got, _ := s.storage.GetGame(s.ctx, "g1")
	s.Equal([]model.UserID{"u1"}, got.PlayerIDs)
}

func (s *StorageSuite) TestUpdateGameCommitsMutation() {
	s.Require().NoError(s.storage.CreateGame(s.ctx, s.newGame("g1", "u1")))

	updated, err := s.storage.UpdateGame(s.ctx, "g1", func(g *model.Game) error {
		g.Players = append(g.Players, model.Player{
			ID: "p2", UserID: "u2", DisplayName: "Bob",
			Status: model.PlayerStatusActive,
		})
		return nil
	})
	s.Require().NoError(err)

	// The mirror tracks the new roster on the returned and stored game
	s.Equal([]model.UserID{"u1", "u2"}, updated.PlayerIDs)
	stored, _ := s.storage.GetGame(s.ctx, "g1")
	s.Equal([]model.UserID{"u1", "u2"}, stored.PlayerIDs)
}

func (s *StorageSuite) TestUpdateGameMutatorErrorAborts() {
	s.Require().NoError(s.storage.CreateGame(s.ctx, s.newGame("g1", "u1")))
	boom := errors.New("boom")

	_, err := s.storage.UpdateGame(s.ctx, "g1", func(g *model.Game) error {
		g.Title = "partial write"
		return boom
	})
	s.ErrorIs(err, boom)

	stored, _ := s.storage.GetGame(s.ctx, "g1")
	s.Equal("Friday Night", stored.Title)
}

func (s *StorageSuite) TestUpdateMissingGame() {
	_, err := s.storage.UpdateGame(s.ctx, "nope", func(g *model.Game) error { return nil })
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *StorageSuite) TestConcurrentUpdatesAllApply() {
	s.Require().NoError(s.storage.CreateGame(s.ctx, s.newGame("g1", "u1")))

	const writers = 32
	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func() {
			defer wg.Done()
			_, err := s.storage.UpdateGame(s.ctx, "g1", func(g *model.Game) error {
				g.Players[0].CurrentStack += 10
				return nil
			})
			s.NoError(err)
		}()
	}
	wg.Wait()

	// No update may be lost: each increment reads the previous commit
	stored, _ := s.storage.GetGame(s.ctx, "g1")
	s.InDelta(float64(writers*10), stored.Players[0].CurrentStack, 0.001)
}

func (s *StorageSuite) TestActiveGamesByCreator() {
	s.Require().NoError(s.storage.CreateGame(s.ctx, s.newGame("g1", "u1")))
	s.Require().NoError(s.storage.CreateGame(s.ctx, s.newGame("g2", "u2")))

	completed := s.newGame("g3", "u1")
	completed.Status = model.GameStatusCompleted
	s.Require().NoError(s.storage.CreateGame(s.ctx, completed))

	games, err := s.storage.ActiveGamesByCreator(s.ctx, "u1")
	s.Require().NoError(err)
	s.Require().Len(games, 1)
	s.Equal(model.GameID("g1"), games[0].ID)
}

func (s *StorageSuite) TestActiveGamesWithPlayer() {
	game := s.newGame("g1", "u1")
	game.Players = append(game.Players, model.Player{
		ID: "p2", UserID: "u2", DisplayName: "Bob",
		Status: model.PlayerStatusActive,
	})
	s.Require().NoError(s.storage.CreateGame(s.ctx, game))
	s.Require().NoError(s.storage.CreateGame(s.ctx, s.newGame("g2", "u3")))

	games, err := s.storage.ActiveGamesWithPlayer(s.ctx, "u2")
	s.Require().NoError(err)
	s.Require().Len(games, 1)
	s.Equal(model.GameID("g1"), games[0].ID)

	// Membership queries go through the recomputed mirror
	_, err = s.storage.UpdateGame(s.ctx, "g1", func(g *model.Game) error {
		g.Players = g.Players[:1]
		return nil
	})
	s.Require().NoError(err)
	games, err = s.storage.ActiveGamesWithPlayer(s.ctx, "u2")
	s.Require().NoError(err)
	s.Empty(games)
}

func (s *StorageSuite) TestGamesByGroupIncludesCompleted() {
	g1 := s.newGame("g1", "u1")
	g1.GroupID = "club"
	s.Require().NoError(s.storage.CreateGame(s.ctx, g1))

	g2 := s.newGame("g2", "u2")
	g2.GroupID = "club"
	g2.Status = model.GameStatusCompleted
	s.Require().NoError(s.storage.CreateGame(s.ctx, g2))

	s.Require().NoError(s.storage.CreateGame(s.ctx, s.newGame("g3", "u3")))

	games, err := s.storage.GamesByGroup(s.ctx, "club")
	s.Require().NoError(err)
	s.Len(games, 2)
}

func (s *StorageSuite) TestUserRoundTrip() {
	user := &model.User{ID: "u1", DisplayName: "Alice"}
	s.Require().NoError(s.storage.SaveUser(s.ctx, user))

	got, err := s.storage.GetUser(s.ctx, "u1")
	s.Require().NoError(err)
	s.Equal("Alice", got.DisplayName)

	_, err = s.storage.GetUser(s.ctx, "nope")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *StorageSuite) TestRegisteredUserLookupByUsername() {
	s.Require().NoError(s.storage.SaveRegisteredUser(s.ctx, &model.RegisteredUser{
		UserID:   "u1",
		Username: "alice",
	}))

	got, err := s.storage.GetRegisteredUserByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(model.UserID("u1"), got.UserID)

	_, err = s.storage.GetRegisteredUserByUsername(s.ctx, "nobody")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *StorageSuite) TestInviteRoundTripAndUpdate() {
	invite := &model.GameInvite{
		ID:            "i1",
		GameID:        "g1",
		InvitedUserID: "u2",
		Status:        model.InviteStatusPending,
	}
	s.Require().NoError(s.storage.CreateInvite(s.ctx, invite))

	updated, err := s.storage.UpdateInvite(s.ctx, "i1", func(inv *model.GameInvite) error {
		inv.Status = model.InviteStatusAccepted
		return nil
	})
	s.Require().NoError(err)
	s.Equal(model.InviteStatusAccepted, updated.Status)

	got, err := s.storage.GetInvite(s.ctx, "i1")
	s.Require().NoError(err)
	s.Equal(model.InviteStatusAccepted, got.Status)
}

func (s *StorageSuite) TestInviteMutatorErrorAborts() {
	s.Require().NoError(s.storage.CreateInvite(s.ctx, &model.GameInvite{
		ID: "i1", InvitedUserID: "u2", Status: model.InviteStatusPending,
	}))
	boom := errors.New("boom")

	_, err := s.storage.UpdateInvite(s.ctx, "i1", func(inv *model.GameInvite) error {
		inv.Status = model.InviteStatusAccepted
		return boom
	})
	s.ErrorIs(err, boom)

	got, _ := s.storage.GetInvite(s.ctx, "i1")
	s.Equal(model.InviteStatusPending, got.Status)
}

func (s *StorageSuite) TestInviteListings() {
	s.Require().NoError(s.storage.CreateInvite(s.ctx, &model.GameInvite{
		ID: "i1", GameID: "g1", InvitedUserID: "u2",
	}))
	s.Require().NoError(s.storage.CreateInvite(s.ctx, &model.GameInvite{
		ID: "i2", GameID: "g1", InvitedUserID: "u3",
	}))
	s.Require().NoError(s.storage.CreateInvite(s.ctx, &model.GameInvite{
		ID: "i3", GameID: "g2", InvitedUserID: "u2",
	}))

	byGame, err := s.storage.InvitesByGame(s.ctx, "g1")
	s.Require().NoError(err)
	s.Len(byGame, 2)

	byUser, err := s.storage.InvitesByUser(s.ctx, "u2")
	s.Require().NoError(err)
	s.Len(byUser, 2)
}

func (s *StorageSuite) TestGameFeedDeliversSnapshots() {
	s.Require().NoError(s.storage.CreateGame(s.ctx, s.newGame("g1", "u1")))

	feed, err := s.storage.SubscribeGame(s.ctx, "g1")
	s.Require().NoError(err)
	defer feed.Close()

	_, err = s.storage.UpdateGame(s.ctx, "g1", func(g *model.Game) error {
		g.Title = "renamed"
		return nil
	})
	s.Require().NoError(err)

	select {
	case snap := <-feed.Snapshots():
		s.Equal("renamed", snap.Title)
	case <-time.After(time.Second):
		s.Fail("no snapshot delivered")
	}
}

func (s *StorageSuite) TestGameFeedCloseIsIdempotent() {
	feed, err := s.storage.SubscribeGame(s.ctx, "g1")
	s.Require().NoError(err)

	feed.Close()
	feed.Close()

	// A closed feed's channel is closed, so receives don't block
	_, open := <-feed.Snapshots()
	s.False(open)
}

func (s *StorageSuite) TestClosedFeedStopsReceiving() {
	s.Require().NoError(s.storage.CreateGame(s.ctx, s.newGame("g1", "u1")))

	feed, err := s.storage.SubscribeGame(s.ctx, "g1")
	s.Require().NoError(err)
	feed.Close()

	// Publishing after close must not panic or deliver
	_, err = s.storage.UpdateGame(s.ctx, "g1", func(g *model.Game) error {
		g.Title = "renamed"
		return nil
	})
	s.Require().NoError(err)
}

func (s *StorageSuite) TestSlowGameFeedDoesNotBlockWriters() {
	s.Require().NoError(s.storage.CreateGame(s.ctx, s.newGame("g1", "u1")))

	feed, err := s.storage.SubscribeGame(s.ctx, "g1")
	s.Require().NoError(err)
	defer feed.Close()

	// Overflow the subscriber buffer without draining it
	for i := 0; i < feedBuffer*2; i++ {
		_, err := s.storage.UpdateGame(s.ctx, "g1", func(g *model.Game) error {
			g.Players[0].CurrentStack++
			return nil
		})
		s.Require().NoError(err)
	}

	// All writes committed even though the feed dropped snapshots
	stored, _ := s.storage.GetGame(s.ctx, "g1")
	s.InDelta(float64(feedBuffer*2), stored.Players[0].CurrentStack, 0.001)
}

func (s *StorageSuite) TestInviteFeedDeliversFullList() {
	feed, err := s.storage.SubscribeInvites(s.ctx, "u2")
	s.Require().NoError(err)
	defer feed.Close()

	s.Require().NoError(s.storage.CreateInvite(s.ctx, &model.GameInvite{
		ID: "i1", GameID: "g1", InvitedUserID: "u2", Status: model.InviteStatusPending,
	}))

	select {
	case list := <-feed.Snapshots():
		s.Require().Len(list, 1)
		s.Equal("i1", list[0].ID)
	case <-time.After(time.Second):
		s.Fail("no invite snapshot delivered")
	}

	s.Require().NoError(s.storage.CreateInvite(s.ctx, &model.GameInvite{
		ID: "i2", GameID: "g2", InvitedUserID: "u2", Status: model.InviteStatusPending,
	}))

	select {
	case list := <-feed.Snapshots():
		s.Len(list, 2)
	case <-time.After(time.Second):
		s.Fail("no invite snapshot delivered")
	}
}

func (s *StorageSuite) TestInviteFeedIgnoresOtherUsers() {
	feed, err := s.storage.SubscribeInvites(s.ctx, "u2")
	s.Require().NoError(err)
	defer feed.Close()

	s.Require().NoError(s.storage.CreateInvite(s.ctx, &model.GameInvite{
		ID: "i1", GameID: "g1", InvitedUserID: "u9",
	}))

	select {
	case <-feed.Snapshots():
		s.Fail("received a snapshot for another user's invite")
	case <-time.After(50 * time.Millisecond):
	}
}
