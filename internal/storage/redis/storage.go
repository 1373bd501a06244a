package redis

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pdobson/homegame/internal/model"
	"github.com/pdobson/homegame/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface.
// Each game and invite is one JSON document; atomic updates use WATCH
// optimistic transactions, and every commit publishes the new snapshot
// for subscribers.
type Storage struct {
	client *redis.Client
	cfg    Config
	logger *slog.Logger
}

// New creates a new Redis storage instance
func New(cfg Config, logger *slog.Logger) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return NewWithClient(client, cfg, logger), nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config, logger *slog.Logger) *Storage {
	if cfg.TxRetries <= 0 {
		cfg.TxRetries = DefaultConfig().TxRetries
	}
	return &Storage{
		client: client,
		cfg:    cfg,
		logger: logger.With(slog.String("component", "redis-storage")),
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// User operations

func (s *Storage) SaveUser(ctx context.Context, user *model.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, userKey(user.ID), data, 0).Err()
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	data, err := s.client.Get(ctx, userKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	var user model.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Storage) SaveRegisteredUser(ctx context.Context, ru *model.RegisteredUser) error {
	data, err := json.Marshal(ru)
	if err != nil {
		return err
	}

	// Pipeline for atomic save + username index update
	pipe := s.client.Pipeline()
	pipe.Set(ctx, registeredUserKey(ru.UserID), data, 0)
	pipe.Set(ctx, usernameIndexKey(ru.Username), string(ru.UserID), 0)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetRegisteredUserByUsername(ctx context.Context, username string) (*model.RegisteredUser, error) {
	userIDStr, err := s.client.Get(ctx, usernameIndexKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	data, err := s.client.Get(ctx, registeredUserKey(model.UserID(userIDStr))).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	var ru model.RegisteredUser
	if err := json.Unmarshal(data, &ru); err != nil {
		return nil, err
	}
	return &ru, nil
}

// Group operations

func (s *Storage) SaveGroup(ctx context.Context, group *model.Group) error {
	data, err := json.Marshal(group)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, groupKey(group.ID), data, 0).Err()
}

func (s *Storage) GetGroup(ctx context.Context, id model.GroupID) (*model.Group, error) {
	data, err := s.client.Get(ctx, groupKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrGroupNotFound
		}
		return nil, err
	}

	var group model.Group
	if err := json.Unmarshal(data, &group); err != nil {
		return nil, err
	}
	return &group, nil
}

// Linked event operations

func (s *Storage) SaveLinkedEvent(ctx context.Context, ev *model.LinkedEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, linkedEventKey(ev.ID), data, 0).Err()
}

func (s *Storage) GetLinkedEvent(ctx context.Context, id model.LinkedEventID) (*model.LinkedEvent, error) {
	data, err := s.client.Get(ctx, linkedEventKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrLinkedEventNotFound
		}
		return nil, err
	}

	var ev model.LinkedEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}

// Game operations

func (s *Storage) CreateGame(ctx context.Context, game *model.Game) error {
	game.RecomputeDerived()
	data, err := json.Marshal(game)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, gameKey(game.ID), data, 0)
	s.applyGameIndexes(ctx, pipe, game)
	pipe.Publish(ctx, gameChannel(game.ID), data)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	data, err := s.client.Get(ctx, gameKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrGameNotFound
		}
		return nil, err
	}

	var game model.Game
	if err := json.Unmarshal(data, &game); err != nil {
		return nil, err
	}
	return &game, nil
}

// UpdateGame implements atomic read-modify-write with WATCH. The mutator
// always runs against the snapshot read inside the transaction; if another
// writer commits between our read and write the transaction fails and is
// re-executed against the newer snapshot, up to the configured retry
// budget. Mutator errors abort immediately without retrying.
func (s *Storage) UpdateGame(ctx context.Context, id model.GameID, mutate storage.GameMutator) (*model.Game, error) {
	var updated *model.Game

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, gameKey(id)).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return model.ErrGameNotFound
			}
			return err
		}

		var game model.Game
		if err := json.Unmarshal(data, &game); err != nil {
			return err
		}

		if err := mutate(&game); err != nil {
			return err
		}
		game.RecomputeDerived()

		payload, err := json.Marshal(&game)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, gameKey(id), payload, 0)
			s.applyGameIndexes(ctx, pipe, &game)
			pipe.Publish(ctx, gameChannel(id), payload)
			return nil
		})
		if err == nil {
			updated = &game
		}
		return err
	}

	for i := 0; i < s.cfg.TxRetries; i++ {
		err := s.client.Watch(ctx, txf, gameKey(id))
		if err == nil {
			return updated, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			// Conflicting write landed first; re-read and retry
			continue
		}
		return nil, err
	}

	s.logger.Warn("game update exhausted tx retries",
		slog.String("game_id", string(id)),
		slog.Int("retries", s.cfg.TxRetries),
	)
	return nil, storage.ErrConflict
}

// applyGameIndexes keeps the membership index sets in sync with the game
// document inside the same pipeline as the write. Completion is terminal,
// so active-set removals never need to be undone.
func (s *Storage) applyGameIndexes(ctx context.Context, pipe redis.Pipeliner, game *model.Game) {
	key := gameKey(game.ID)
	if game.GroupID != "" {
		pipe.SAdd(ctx, gamesByGroupKey(game.GroupID), key)
	}
	if game.Status == model.GameStatusActive {
		pipe.SAdd(ctx, activeByCreatorKey(game.CreatorID), key)
		for _, uid := range game.PlayerIDs {
			pipe.SAdd(ctx, activeWithPlayerKey(uid), key)
		}
	} else {
		pipe.SRem(ctx, activeByCreatorKey(game.CreatorID), key)
		for _, uid := range game.PlayerIDs {
			pipe.SRem(ctx, activeWithPlayerKey(uid), key)
		}
	}
}

func (s *Storage) ActiveGamesByCreator(ctx context.Context, creatorID model.UserID) ([]*model.Game, error) {
	return s.gamesFromIndex(ctx, activeByCreatorKey(creatorID), true)
}

func (s *Storage) ActiveGamesWithPlayer(ctx context.Context, userID model.UserID) ([]*model.Game, error) {
	return s.gamesFromIndex(ctx, activeWithPlayerKey(userID), true)
}

func (s *Storage) GamesByGroup(ctx context.Context, groupID model.GroupID) ([]*model.Game, error) {
	return s.gamesFromIndex(ctx, gamesByGroupKey(groupID), false)
}

// gamesFromIndex resolves an index set to game documents. A document that
// is missing or fails to decode is skipped with a warning rather than
// failing the whole read.
func (s *Storage) gamesFromIndex(ctx context.Context, indexKey string, activeOnly bool) ([]*model.Game, error) {
	gameKeys, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, err
	}
	if len(gameKeys) == 0 {
		return nil, nil
	}

	values, err := s.client.MGet(ctx, gameKeys...).Result()
	if err != nil {
		return nil, err
	}

	games := make([]*model.Game, 0, len(values))
	for i, val := range values {
		if val == nil {
			continue
		}
		var game model.Game
		if err := json.Unmarshal([]byte(val.(string)), &game); err != nil {
			s.logger.Warn("skipping malformed game record",
				slog.String("key", gameKeys[i]),
				slog.String("error", err.Error()),
			)
			continue
		}
		if activeOnly && game.Status != model.GameStatusActive {
			continue
		}
		games = append(games, &game)
	}
	return games, nil
}

// Invite operations

func (s *Storage) CreateInvite(ctx context.Context, invite *model.GameInvite) error {
	data, err := json.Marshal(invite)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, inviteKey(invite.ID), data, 0)
	pipe.SAdd(ctx, invitesByGameKey(invite.GameID), inviteKey(invite.ID))
	pipe.SAdd(ctx, invitesByUserKey(invite.InvitedUserID), inviteKey(invite.ID))
	pipe.Publish(ctx, inviteChannel(invite.InvitedUserID), invite.ID)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetInvite(ctx context.Context, id string) (*model.GameInvite, error) {
	data, err := s.client.Get(ctx, inviteKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrInviteNotFound
		}
		return nil, err
	}

	var invite model.GameInvite
	if err := json.Unmarshal(data, &invite); err != nil {
		return nil, err
	}
	return &invite, nil
}

func (s *Storage) UpdateInvite(ctx context.Context, id string, mutate storage.InviteMutator) (*model.GameInvite, error) {
	var updated *model.GameInvite

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, inviteKey(id)).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return model.ErrInviteNotFound
			}
			return err
		}

		var invite model.GameInvite
		if err := json.Unmarshal(data, &invite); err != nil {
			return err
		}

		if err := mutate(&invite); err != nil {
			return err
		}

		payload, err := json.Marshal(&invite)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, inviteKey(id), payload, 0)
			pipe.Publish(ctx, inviteChannel(invite.InvitedUserID), invite.ID)
			return nil
		})
		if err == nil {
			updated = &invite
		}
		return err
	}

	for i := 0; i < s.cfg.TxRetries; i++ {
		err := s.client.Watch(ctx, txf, inviteKey(id))
		if err == nil {
			return updated, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return nil, err
	}

	s.logger.Warn("invite update exhausted tx retries",
		slog.String("invite_id", id),
		slog.Int("retries", s.cfg.TxRetries),
	)
	return nil, storage.ErrConflict
}

func (s *Storage) InvitesByGame(ctx context.Context, gameID model.GameID) ([]*model.GameInvite, error) {
	return s.invitesFromIndex(ctx, invitesByGameKey(gameID))
}

func (s *Storage) InvitesByUser(ctx context.Context, userID model.UserID) ([]*model.GameInvite, error) {
	return s.invitesFromIndex(ctx, invitesByUserKey(userID))
}

func (s *Storage) invitesFromIndex(ctx context.Context, indexKey string) ([]*model.GameInvite, error) {
	inviteKeys, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, err
	}
	if len(inviteKeys) == 0 {
		return nil, nil
	}

	values, err := s.client.MGet(ctx, inviteKeys...).Result()
	if err != nil {
		return nil, err
	}

	invites := make([]*model.GameInvite, 0, len(values))
	for i, val := range values {
		if val == nil {
			continue
		}
		var invite model.GameInvite
		if err := json.Unmarshal([]byte(val.(string)), &invite); err != nil {
			s.logger.Warn("skipping malformed invite record",
				slog.String("key", inviteKeys[i]),
				slog.String("error", err.Error()),
			)
			continue
		}
		invites = append(invites, &invite)
	}
	return invites, nil
}
