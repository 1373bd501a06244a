package memory

import (
	"context"
	"sync"

	"github.com/pdobson/homegame/internal/model"
	"github.com/pdobson/homegame/internal/storage"
)

// feedBuffer is the per-subscriber snapshot buffer size. A subscriber
// that falls this far behind starts dropping snapshots rather than
// blocking writers.
const feedBuffer = 16

// Storage is an in-memory implementation of the storage interface.
// Reads return copies so callers can never mutate committed state.
type Storage struct {
	mu sync.RWMutex

	users           map[model.UserID]*model.User
	registeredUsers map[model.UserID]*model.RegisteredUser
	usernameIndex   map[string]model.UserID
	groups          map[model.GroupID]*model.Group
	linkedEvents    map[model.LinkedEventID]*model.LinkedEvent
	games           map[model.GameID]*model.Game
	invites         map[string]*model.GameInvite

	gameFeeds   map[model.GameID]map[*gameFeed]bool
	inviteFeeds map[model.UserID]map[*inviteFeed]bool
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		users:           make(map[model.UserID]*model.User),
		registeredUsers: make(map[model.UserID]*model.RegisteredUser),
		usernameIndex:   make(map[string]model.UserID),
		groups:          make(map[model.GroupID]*model.Group),
		linkedEvents:    make(map[model.LinkedEventID]*model.LinkedEvent),
		games:           make(map[model.GameID]*model.Game),
		invites:         make(map[string]*model.GameInvite),
		gameFeeds:       make(map[model.GameID]map[*gameFeed]bool),
		inviteFeeds:     make(map[model.UserID]map[*inviteFeed]bool),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// User operations

func (s *Storage) SaveUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := *user
	s.users[user.ID] = &u
	return nil
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	u := *user
	return &u, nil
}

func (s *Storage) SaveRegisteredUser(ctx context.Context, ru *model.RegisteredUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := *ru
	s.registeredUsers[ru.UserID] = &r
	s.usernameIndex[ru.Username] = ru.UserID
	return nil
}

func (s *Storage) GetRegisteredUserByUsername(ctx context.Context, username string) (*model.RegisteredUser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	userID, ok := s.usernameIndex[username]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	ru, ok := s.registeredUsers[userID]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	r := *ru
	return &r, nil
}

// Group operations

func (s *Storage) SaveGroup(ctx context.Context, group *model.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g := *group
	g.MemberIDs = append([]model.UserID(nil), group.MemberIDs...)
	s.groups[group.ID] = &g
	return nil
}

func (s *Storage) GetGroup(ctx context.Context, id model.GroupID) (*model.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	group, ok := s.groups[id]
	if !ok {
		return nil, model.ErrGroupNotFound
	}
	g := *group
	g.MemberIDs = append([]model.UserID(nil), group.MemberIDs...)
	return &g, nil
}

// Linked event operations

func (s *Storage) SaveLinkedEvent(ctx context.Context, ev *model.LinkedEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := *ev
	s.linkedEvents[ev.ID] = &e
	return nil
}

func (s *Storage) GetLinkedEvent(ctx context.Context, id model.LinkedEventID) (*model.LinkedEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ev, ok := s.linkedEvents[id]
	if !ok {
		return nil, model.ErrLinkedEventNotFound
	}
	e := *ev
	return &e, nil
}

// Game operations

func (s *Storage) CreateGame(ctx context.Context, game *model.Game) error {
	s.mu.Lock()
	snapshot := game.Clone()
	snapshot.RecomputeDerived()
	s.games[game.ID] = snapshot
	published := snapshot.Clone()
	s.mu.Unlock()

	s.publishGame(published)
	return nil
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.games[id]
	if !ok {
		return nil, model.ErrGameNotFound
	}
	return game.Clone(), nil
}

// UpdateGame implements atomic read-modify-write. The mutator runs on a
// clone of the committed state under the write lock, so a mutator error
// leaves the stored game untouched and concurrent updates serialize.
func (s *Storage) UpdateGame(ctx context.Context, id model.GameID, mutate storage.GameMutator) (*model.Game, error) {
	s.mu.Lock()
	current, ok := s.games[id]
	if !ok {
		s.mu.Unlock()
		return nil, model.ErrGameNotFound
	}

	next := current.Clone()
	if err := mutate(next); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	next.RecomputeDerived()
	s.games[id] = next
	result := next.Clone()
	published := next.Clone()
	s.mu.Unlock()

	s.publishGame(published)
	return result, nil
}

func (s *Storage) ActiveGamesByCreator(ctx context.Context, creatorID model.UserID) ([]*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var games []*model.Game
	for _, g := range s.games {
		if g.CreatorID == creatorID && g.Status == model.GameStatusActive {
			games = append(games, g.Clone())
		}
	}
	return games, nil
}

func (s *Storage) ActiveGamesWithPlayer(ctx context.Context, userID model.UserID) ([]*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var games []*model.Game
	for _, g := range s.games {
		if g.Status != model.GameStatusActive {
			continue
		}
		for _, pid := range g.PlayerIDs {
			if pid == userID {
				games = append(games, g.Clone())
				break
			}
		}
	}
	return games, nil
}

func (s *Storage) GamesByGroup(ctx context.Context, groupID model.GroupID) ([]*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var games []*model.Game
	for _, g := range s.games {
		if g.GroupID == groupID {
			games = append(games, g.Clone())
		}
	}
	return games, nil
}

// Invite operations

func (s *Storage) CreateInvite(ctx context.Context, invite *model.GameInvite) error {
	s.mu.Lock()
	stored := cloneInvite(invite)
	s.invites[invite.ID] = stored
	userID := invite.InvitedUserID
	list := s.invitesForUserLocked(userID)
	s.mu.Unlock()

	s.publishInvites(userID, list)
	return nil
}

func (s *Storage) GetInvite(ctx context.Context, id string) (*model.GameInvite, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	invite, ok := s.invites[id]
	if !ok {
		return nil, model.ErrInviteNotFound
	}
	return cloneInvite(invite), nil
}

func (s *Storage) UpdateInvite(ctx context.Context, id string, mutate storage.InviteMutator) (*model.GameInvite, error) {
	s.mu.Lock()
	current, ok := s.invites[id]
	if !ok {
		s.mu.Unlock()
		return nil, model.ErrInviteNotFound
	}

	next := cloneInvite(current)
	if err := mutate(next); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.invites[id] = next
	result := cloneInvite(next)
	userID := next.InvitedUserID
	list := s.invitesForUserLocked(userID)
	s.mu.Unlock()

	s.publishInvites(userID, list)
	return result, nil
}

func (s *Storage) InvitesByGame(ctx context.Context, gameID model.GameID) ([]*model.GameInvite, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var invites []*model.GameInvite
	for _, inv := range s.invites {
		if inv.GameID == gameID {
			invites = append(invites, cloneInvite(inv))
		}
	}
	return invites, nil
}

func (s *Storage) InvitesByUser(ctx context.Context, userID model.UserID) ([]*model.GameInvite, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.invitesForUserLocked(userID), nil
}

func (s *Storage) invitesForUserLocked(userID model.UserID) []*model.GameInvite {
	var invites []*model.GameInvite
	for _, inv := range s.invites {
		if inv.InvitedUserID == userID {
			invites = append(invites, cloneInvite(inv))
		}
	}
	return invites
}

func cloneInvite(inv *model.GameInvite) *model.GameInvite {
	dup := *inv
	if inv.RespondedAt != nil {
		t := *inv.RespondedAt
		dup.RespondedAt = &t
	}
	return &dup
}
