package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/pdobson/homegame/internal/model"
	"github.com/pdobson/homegame/internal/testutil"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	s.storage = NewWithClient(client, DefaultConfig(), testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
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

// User tests

func (s *StorageSuite) TestSaveAndGetUser() {
	user := &model.User{
		ID:          "u1",
		DisplayName: "Alice",
		CreatedAt:   time.Now().UTC(),
	}

	err := s.storage.SaveUser(s.ctx, user)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetUser(s.ctx, "u1")
	s.Require().NoError(err)
	s.Equal(user.ID, retrieved.ID)
	s.Equal(user.DisplayName, retrieved.DisplayName)
}

func (s *StorageSuite) TestGetUserNotFound() {
	_, err := s.storage.GetUser(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *StorageSuite) TestGetRegisteredUserByUsername() {
	ru := &model.RegisteredUser{
		UserID:       "u1",
		Username:     "alice",
		PasswordHash: "hash123",
	}
	s.Require().NoError(s.storage.SaveRegisteredUser(s.ctx, ru))

	retrieved, err := s.storage.GetRegisteredUserByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(model.UserID("u1"), retrieved.UserID)
	s.Equal("hash123", retrieved.PasswordHash)
}

func (s *StorageSuite) TestGetRegisteredUserByUsernameNotFound() {
	_, err := s.storage.GetRegisteredUserByUsername(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrUserNotFound)
}

// Group tests

func (s *StorageSuite) TestSaveAndGetGroup() {
	group := &model.Group{
		ID:        "g1",
		Name:      "Regulars",
		MemberIDs: []model.UserID{"u1", "u2"},
	}
	s.Require().NoError(s.storage.SaveGroup(s.ctx, group))

	retrieved, err := s.storage.GetGroup(s.ctx, "g1")
	s.Require().NoError(err)
	s.Equal("Regulars", retrieved.Name)
	s.Equal(group.MemberIDs, retrieved.MemberIDs)
}

func (s *StorageSuite) TestGetGroupNotFound() {
	_, err := s.storage.GetGroup(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrGroupNotFound)
}

// Linked event tests

func (s *StorageSuite) TestSaveAndGetLinkedEvent() {
	ev := &model.LinkedEvent{
		ID:     "ev1",
		Title:  "League Night",
		Status: model.LinkedEventStatusUpcoming,
	}
	s.Require().NoError(s.storage.SaveLinkedEvent(s.ctx, ev))

	retrieved, err := s.storage.GetLinkedEvent(s.ctx, "ev1")
	s.Require().NoError(err)
	s.Equal(model.LinkedEventStatusUpcoming, retrieved.Status)
}

func (s *StorageSuite) TestGetLinkedEventNotFound() {
	_, err := s.storage.GetLinkedEvent(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrLinkedEventNotFound)
}

// Game tests

func (s *StorageSuite) TestCreateAndGetGame() {
	game := s.newGame("game-1", "u1")
	s.Require().NoError(s.storage.CreateGame(s.ctx, game))

	retrieved, err := s.storage.GetGame(s.ctx, "game-1")
	s.Require().NoError(err)
	s.Equal(game.ID, retrieved.ID)
	s.Equal(game.Title, retrieved.Title)
	s.Equal([]model.UserID{"u1"}, retrieved.PlayerIDs)
}

func (s *StorageSuite) TestGetGameNotFound() {
	_, err := s.storage.GetGame(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *StorageSuite) TestUpdateGame() {
	s.Require().NoError(s.storage.CreateGame(s.ctx, s.newGame("game-1", "u1")))

	updated, err := s.storage.UpdateGame(s.ctx, "game-1", func(g *model.Game) error {
		g.Players[0].CurrentStack = 100
		g.Players[0].TotalBuyIn = 100
		return nil
	})
	s.Require().NoError(err)
	s.InDelta(100, updated.Players[0].CurrentStack, 0.001)

	stored, err := s.storage.GetGame(s.ctx, "game-1")
	s.Require().NoError(err)
	s.InDelta(100, stored.Players[0].CurrentStack, 0.001)
}

func (s *StorageSuite) TestUpdateGameNotFound() {
	_, err := s.storage.UpdateGame(s.ctx, "nonexistent", func(g *model.Game) error { return nil })
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *StorageSuite) TestUpdateGameMutatorErrorAborts() {
	s.Require().NoError(s.storage.CreateGame(s.ctx, s.newGame("game-1", "u1")))
	boom := errors.New("boom")

	_, err := s.storage.UpdateGame(s.ctx, "game-1", func(g *model.Game) error {
		g.Title = "partial write"
		return boom
	})
	s.ErrorIs(err, boom)

	stored, _ := s.storage.GetGame(s.ctx, "game-1")
	s.Equal("Friday Night", stored.Title)
}

func (s *StorageSuite) TestUpdateGameRecomputesPlayerIDs() {
	s.Require().NoError(s.storage.CreateGame(s.ctx, s.newGame("game-1", "u1")))

	updated, err := s.storage.UpdateGame(s.ctx, "game-1", func(g *model.Game) error {
		g.Players = append(g.Players, model.Player{
			ID: "p2", UserID: "u2", DisplayName: "Bob",
			Status: model.PlayerStatusActive,
		})
		return nil
	})
	s.Require().NoError(err)
	s.Equal([]model.UserID{"u1", "u2"}, updated.PlayerIDs)
}

// Index tests

func (s *StorageSuite) TestActiveGamesByCreator() {
	s.Require().NoError(s.storage.CreateGame(s.ctx, s.newGame("game-1", "u1")))
	s.Require().NoError(s.storage.CreateGame(s.ctx, s.newGame("game-2", "u2")))

	games, err := s.storage.ActiveGamesByCreator(s.ctx, "u1")
	s.Require().NoError(err)
	s.Require().Len(games, 1)
	s.Equal(model.GameID("game-1"), games[0].ID)
}

func (s *StorageSuite) TestCompletionRemovesActiveIndexes() {
	s.Require().NoError(s.storage.CreateGame(s.ctx, s.newGame("game-1", "u1")))

	_, err := s.storage.UpdateGame(s.ctx, "game-1", func(g *model.Game) error {
		g.Status = model.GameStatusCompleted
		return nil
	})
	s.Require().NoError(err)

	byCreator, err := s.storage.ActiveGamesByCreator(s.ctx, "u1")
	s.Require().NoError(err)
	s.Empty(byCreator)

	withPlayer, err := s.storage.ActiveGamesWithPlayer(s.ctx, "u1")
	s.Require().NoError(err)
	s.Empty(withPlayer)
}

func (s *StorageSuite) TestActiveGamesWithPlayer() {
	game := s.newGame("game-1", "u1")
	game.Players = append(game.Players, model.Player{
		ID: "p2", UserID: "u2", DisplayName: "Bob",
		Status: model.PlayerStatusActive,
	})
	s.Require().NoError(s.storage.CreateGame(s.ctx, game))

	games, err := s.storage.ActiveGamesWithPlayer(s.ctx, "u2")
	s.Require().NoError(err)
	s.Require().Len(games, 1)
	s.Equal(model.GameID("game-1"), games[0].ID)
}

func (s *StorageSuite) TestGamesByGroupKeepsCompletedGames() {
	game := s.newGame("game-1", "u1")
	game.GroupID = "club"
	s.Require().NoError(s.storage.CreateGame(s.ctx, game))

	_, err := s.storage.UpdateGame(s.ctx, "game-1", func(g *model.Game) error {
		g.Status = model.GameStatusCompleted
		return nil
	})
	s.Require().NoError(err)

	games, err := s.storage.GamesByGroup(s.ctx, "club")
	s.Require().NoError(err)
	s.Require().Len(games, 1)
	s.Equal(model.GameStatusCompleted, games[0].Status)
}

func (s *StorageSuite) TestIndexSkipsDeletedGameRecord() {
	s.Require().NoError(s.storage.CreateGame(s.ctx, s.newGame("game-1", "u1")))
	s.Require().NoError(s.storage.CreateGame(s.ctx, s.newGame("game-2", "u1")))

	// Simulate a record expiring out from under its index entry
	s.mini.Del(gameKey("game-2"))

	games, err := s.storage.ActiveGamesByCreator(s.ctx, "u1")
	s.Require().NoError(err)
	s.Require().Len(games, 1)
	s.Equal(model.GameID("game-1"), games[0].ID)
}

// Invite tests

func (s *StorageSuite) TestCreateAndGetInvite() {
	invite := &model.GameInvite{
		ID:            "i1",
		GameID:        "game-1",
		GameTitle:     "Friday Night",
		HostID:        "u1",
		InvitedUserID: "u2",
		Status:        model.InviteStatusPending,
	}
	s.Require().NoError(s.storage.CreateInvite(s.ctx, invite))

	retrieved, err := s.storage.GetInvite(s.ctx, "i1")
	s.Require().NoError(err)
	s.Equal(invite.GameTitle, retrieved.GameTitle)
	s.Equal(model.InviteStatusPending, retrieved.Status)
}

func (s *StorageSuite) TestGetInviteNotFound() {
	_, err := s.storage.GetInvite(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrInviteNotFound)
}

func (s *StorageSuite) TestUpdateInvite() {
	s.Require().NoError(s.storage.CreateInvite(s.ctx, &model.GameInvite{
		ID: "i1", GameID: "game-1", InvitedUserID: "u2",
		Status: model.InviteStatusPending,
	}))

	now := time.Now().UTC()
	updated, err := s.storage.UpdateInvite(s.ctx, "i1", func(inv *model.GameInvite) error {
		inv.Status = model.InviteStatusAccepted
		inv.RespondedAt = &now
		return nil
	})
	s.Require().NoError(err)
	s.Equal(model.InviteStatusAccepted, updated.Status)

	stored, err := s.storage.GetInvite(s.ctx, "i1")
	s.Require().NoError(err)
	s.Equal(model.InviteStatusAccepted, stored.Status)
	s.NotNil(stored.RespondedAt)
}

func (s *StorageSuite) TestUpdateInviteMutatorErrorAborts() {
	s.Require().NoError(s.storage.CreateInvite(s.ctx, &model.GameInvite{
		ID: "i1", InvitedUserID: "u2", Status: model.InviteStatusPending,
	}))
	boom := errors.New("boom")

	_, err := s.storage.UpdateInvite(s.ctx, "i1", func(inv *model.GameInvite) error {
		inv.Status = model.InviteStatusAccepted
		return boom
	})
	s.ErrorIs(err, boom)

	stored, _ := s.storage.GetInvite(s.ctx, "i1")
	s.Equal(model.InviteStatusPending, stored.Status)
}

func (s *StorageSuite) TestInvitesByGame() {
	s.Require().NoError(s.storage.CreateInvite(s.ctx, &model.GameInvite{
		ID: "i1", GameID: "game-1", InvitedUserID: "u2",
	}))
	s.Require().NoError(s.storage.CreateInvite(s.ctx, &model.GameInvite{
		ID: "i2", GameID: "game-1", InvitedUserID: "u3",
	}))
	s.Require().NoError(s.storage.CreateInvite(s.ctx, &model.GameInvite{
		ID: "i3", GameID: "game-2", InvitedUserID: "u2",
	}))

	invites, err := s.storage.InvitesByGame(s.ctx, "game-1")
	s.Require().NoError(err)
	s.Len(invites, 2)
}

func (s *StorageSuite) TestInvitesByUser() {
	s.Require().NoError(s.storage.CreateInvite(s.ctx, &model.GameInvite{
		ID: "i1", GameID: "game-1", InvitedUserID: "u2",
	}))
	s.Require().NoError(s.storage.CreateInvite(s.ctx, &model.GameInvite{
		ID: "i2", GameID: "game-2", InvitedUserID: "u2",
	}))

	invites, err := s.storage.InvitesByUser(s.ctx, "u2")
	s.Require().NoError(err)
	s.Len(invites, 2)

	none, err := s.storage.InvitesByUser(s.ctx, "u9")
	s.Require().NoError(err)
	s.Empty(none)
}
