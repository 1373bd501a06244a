package redis

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/pdobson/homegame/internal/model"
	"github.com/pdobson/homegame/internal/storage"
)

// feedBuffer is the per-subscriber snapshot buffer size
const feedBuffer = 16

// gameFeed adapts a pub/sub subscription into a snapshot channel
type gameFeed struct {
	pubsub *redis.PubSub
	ch     chan *model.Game
	once   sync.Once
}

func (f *gameFeed) Snapshots() <-chan *model.Game {
	return f.ch
}

// Close detaches the feed. Safe to call multiple times.
func (f *gameFeed) Close() {
	f.once.Do(func() {
		_ = f.pubsub.Close()
	})
}

// SubscribeGame attaches a snapshot feed for a game. Every committed
// write publishes the full document, so subscribers see each commit in
// order without re-reading.
func (s *Storage) SubscribeGame(ctx context.Context, id model.GameID) (storage.GameFeed, error) {
	pubsub := s.client.Subscribe(ctx, gameChannel(id))
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, err
	}

	feed := &gameFeed{
		pubsub: pubsub,
		ch:     make(chan *model.Game, feedBuffer),
	}

	go func() {
		defer close(feed.ch)
		for msg := range pubsub.Channel() {
			var game model.Game
			if err := json.Unmarshal([]byte(msg.Payload), &game); err != nil {
				s.logger.Warn("skipping malformed game snapshot",
					slog.String("game_id", string(id)),
					slog.String("error", err.Error()),
				)
				continue
			}
			select {
			case feed.ch <- &game:
			default:
				// Subscriber fell behind; drop rather than block
			}
		}
	}()

	return feed, nil
}

// inviteFeed re-lists the user's invites on every change notification
type inviteFeed struct {
	pubsub *redis.PubSub
	ch     chan []*model.GameInvite
	once   sync.Once
}

func (f *inviteFeed) Snapshots() <-chan []*model.GameInvite {
	return f.ch
}

// Close detaches the feed. Safe to call multiple times.
func (f *inviteFeed) Close() {
	f.once.Do(func() {
		_ = f.pubsub.Close()
	})
}

// SubscribeInvites attaches a feed for a user's invite list
func (s *Storage) SubscribeInvites(ctx context.Context, userID model.UserID) (storage.InviteFeed, error) {
	pubsub := s.client.Subscribe(ctx, inviteChannel(userID))
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, err
	}

	feed := &inviteFeed{
		pubsub: pubsub,
		ch:     make(chan []*model.GameInvite, feedBuffer),
	}

	go func() {
		defer close(feed.ch)
		for range pubsub.Channel() {
			list, err := s.InvitesByUser(ctx, userID)
			if err != nil {
				s.logger.Warn("invite feed list failed",
					slog.String("user_id", string(userID)),
					slog.String("error", err.Error()),
				)
				continue
			}
			select {
			case feed.ch <- list:
			default:
			}
		}
	}()

	return feed, nil
}
