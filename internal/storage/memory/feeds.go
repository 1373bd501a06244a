package memory

import (
	"context"
	"sync"

	"github.com/pdobson/homegame/internal/model"
	"github.com/pdobson/homegame/internal/storage"
)

// gameFeed is a registered subscriber for one game's snapshots
type gameFeed struct {
	store  *Storage
	gameID model.GameID
	ch     chan *model.Game
	once   sync.Once
}

func (f *gameFeed) Snapshots() <-chan *model.Game {
	return f.ch
}

// Close detaches the feed. Safe to call multiple times.
func (f *gameFeed) Close() {
	f.once.Do(func() {
		f.store.mu.Lock()
		if subs, ok := f.store.gameFeeds[f.gameID]; ok {
			delete(subs, f)
			if len(subs) == 0 {
				delete(f.store.gameFeeds, f.gameID)
			}
		}
		f.store.mu.Unlock()
		close(f.ch)
	})
}

// inviteFeed is a registered subscriber for one user's invite list
type inviteFeed struct {
	store  *Storage
	userID model.UserID
	ch     chan []*model.GameInvite
	once   sync.Once
}

func (f *inviteFeed) Snapshots() <-chan []*model.GameInvite {
	return f.ch
}

// Close detaches the feed. Safe to call multiple times.
func (f *inviteFeed) Close() {
	f.once.Do(func() {
		f.store.mu.Lock()
		if subs, ok := f.store.inviteFeeds[f.userID]; ok {
			delete(subs, f)
			if len(subs) == 0 {
				delete(f.store.inviteFeeds, f.userID)
			}
		}
		f.store.mu.Unlock()
		close(f.ch)
	})
}

// SubscribeGame attaches a snapshot feed for a game. The game does not
// have to exist yet; snapshots start flowing from the first commit after
// the subscription.
func (s *Storage) SubscribeGame(ctx context.Context, id model.GameID) (storage.GameFeed, error) {
	feed := &gameFeed{
		store:  s,
		gameID: id,
		ch:     make(chan *model.Game, feedBuffer),
	}
	s.mu.Lock()
	if s.gameFeeds[id] == nil {
		s.gameFeeds[id] = make(map[*gameFeed]bool)
	}
	s.gameFeeds[id][feed] = true
	s.mu.Unlock()
	return feed, nil
}

// SubscribeInvites attaches a feed for a user's invite list
func (s *Storage) SubscribeInvites(ctx context.Context, userID model.UserID) (storage.InviteFeed, error) {
	feed := &inviteFeed{
		store:  s,
		userID: userID,
		ch:     make(chan []*model.GameInvite, feedBuffer),
	}
	s.mu.Lock()
	if s.inviteFeeds[userID] == nil {
		s.inviteFeeds[userID] = make(map[*inviteFeed]bool)
	}
	s.inviteFeeds[userID][feed] = true
	s.mu.Unlock()
	return feed, nil
}

// publishGame fans a committed snapshot out to subscribers. Sends are
// non-blocking; a full subscriber buffer drops the snapshot rather than
// stalling the committing writer.
func (s *Storage) publishGame(game *model.Game) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for feed := range s.gameFeeds[game.ID] {
		select {
		case feed.ch <- game:
		default:
		}
	}
}

func (s *Storage) publishInvites(userID model.UserID, list []*model.GameInvite) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for feed := range s.inviteFeeds[userID] {
		select {
		case feed.ch <- list:
		default:
		}
	}
}
