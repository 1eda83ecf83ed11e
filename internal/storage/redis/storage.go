package redis

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/playtrackhq/playtrack/internal/model"
	"github.com/playtrackhq/playtrack/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
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

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) getJSON(ctx context.Context, key string, target any, missing error) error {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return missing
		}
		return err
	}
	return json.Unmarshal(data, target)
}

// User operations

func (s *Storage) SaveUser(ctx context.Context, user *model.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}

	// Pipeline for atomic save + name index update
	pipe := s.client.Pipeline()
	pipe.Set(ctx, userKey(user.ID), data, 0)
	pipe.Set(ctx, usernameIndexKey(user.Name), string(user.ID), 0)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetUser(ctx context.Context, id model.UserID) (*model.User, error) {
	var user model.User
	if err := s.getJSON(ctx, userKey(id), &user, model.ErrUserNotFound); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *Storage) GetUserByName(ctx context.Context, name string) (*model.User, error) {
	userID, err := s.client.Get(ctx, usernameIndexKey(name)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}
	return s.GetUser(ctx, model.UserID(userID))
}

// Game operations

func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	data, err := json.Marshal(game)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, gameKey(game.ID), data, 0).Err()
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	var game model.Game
	if err := s.getJSON(ctx, gameKey(id), &game, model.ErrGameNotFound); err != nil {
		return nil, err
	}
	return &game, nil
}

// Achievement operations

func (s *Storage) SaveAchievement(ctx context.Context, achievement *model.Achievement) error {
	data, err := json.Marshal(achievement)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, achievementKey(achievement.ID), data, 0)
	pipe.SAdd(ctx, achievementsForGameIndexKey(achievement.GameID), string(achievement.ID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetAchievement(ctx context.Context, id model.AchievementID) (*model.Achievement, error) {
	var achievement model.Achievement
	if err := s.getJSON(ctx, achievementKey(id), &achievement, model.ErrAchievementNotFound); err != nil {
		return nil, err
	}
	return &achievement, nil
}

func (s *Storage) ListAchievementsForGame(ctx context.Context, gameID model.GameID) ([]*model.Achievement, error) {
	ids, err := s.client.SMembers(ctx, achievementsForGameIndexKey(gameID)).Result()
	if err != nil {
		return nil, err
	}

	result := make([]*model.Achievement, 0, len(ids))
	for _, id := range ids {
		achievement, err := s.GetAchievement(ctx, model.AchievementID(id))
		if err != nil {
			if errors.Is(err, model.ErrAchievementNotFound) {
				continue
			}
			return nil, err
		}
		result = append(result, achievement)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// Event operations

func (s *Storage) SaveEvent(ctx context.Context, event *model.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, eventKey(event.ID), data, 0)
	pipe.Set(ctx, eventForGameIndexKey(event.GameID), string(event.ID), 0)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetEventForGame(ctx context.Context, gameID model.GameID) (*model.Event, error) {
	eventID, err := s.client.Get(ctx, eventForGameIndexKey(gameID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrEventNotFound
		}
		return nil, err
	}

	var event model.Event
	if err := s.getJSON(ctx, eventKey(model.EventID(eventID)), &event, model.ErrEventNotFound); err != nil {
		return nil, err
	}
	return &event, nil
}

func (s *Storage) SaveEventMirror(ctx context.Context, mirror *model.EventMirror) error {
	data, err := json.Marshal(mirror)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, mirrorKey(mirror.AchievementID), data, 0)
	pipe.SAdd(ctx, mirrorsForSourceIndexKey(mirror.SourceAchievementID), string(mirror.AchievementID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) ListMirrorsForSource(ctx context.Context, sourceID model.AchievementID) ([]*model.EventMirror, error) {
	ids, err := s.client.SMembers(ctx, mirrorsForSourceIndexKey(sourceID)).Result()
	if err != nil {
		return nil, err
	}

	result := make([]*model.EventMirror, 0, len(ids))
	for _, id := range ids {
		var mirror model.EventMirror
		err := s.getJSON(ctx, mirrorKey(model.AchievementID(id)), &mirror, model.ErrAchievementNotFound)
		if err != nil {
			if errors.Is(err, model.ErrAchievementNotFound) {
				continue
			}
			return nil, err
		}
		result = append(result, &mirror)
	}
	return result, nil
}

// Progress operations

func (s *Storage) SaveProgress(ctx context.Context, progress *model.GameProgress) error {
	data, err := json.Marshal(progress)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, progressKey(progress.UserID, progress.GameID), data, 0).Err()
}

func (s *Storage) GetProgress(ctx context.Context, userID model.UserID, gameID model.GameID) (*model.GameProgress, error) {
	var progress model.GameProgress
	if err := s.getJSON(ctx, progressKey(userID, gameID), &progress, model.ErrProgressNotFound); err != nil {
		return nil, err
	}
	return &progress, nil
}

// Badge ledger operations

func (s *Storage) SaveBadge(ctx context.Context, badge *model.Badge) error {
	data, err := json.Marshal(badge)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, badgeKey(badge.ID), data, 0)
	pipe.SAdd(ctx, badgesForUserIndexKey(badge.OwnerID), badge.ID)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetBadge(ctx context.Context, id string) (*model.Badge, error) {
	var badge model.Badge
	if err := s.getJSON(ctx, badgeKey(id), &badge, model.ErrBadgeNotFound); err != nil {
		return nil, err
	}
	return &badge, nil
}

func (s *Storage) DeleteBadge(ctx context.Context, id string) error {
	badge, err := s.GetBadge(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrBadgeNotFound) {
			return nil
		}
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, badgeKey(id))
	pipe.SRem(ctx, badgesForUserIndexKey(badge.OwnerID), id)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) ListBadgesForUser(ctx context.Context, userID model.UserID) ([]*model.Badge, error) {
	ids, err := s.client.SMembers(ctx, badgesForUserIndexKey(userID)).Result()
	if err != nil {
		return nil, err
	}

	result := make([]*model.Badge, 0, len(ids))
	for _, id := range ids {
		badge, err := s.GetBadge(ctx, id)
		if err != nil {
			if errors.Is(err, model.ErrBadgeNotFound) {
				continue
			}
			return nil, err
		}
		result = append(result, badge)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].DisplayOrder < result[j].DisplayOrder })
	return result, nil
}

// Session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.PlaySession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}

	// The tracker serializes writes per (user, game), so the session being
	// saved is always the latest one for its pair.
	pipe := s.client.Pipeline()
	pipe.Set(ctx, sessionKey(session.ID), data, s.cfg.SessionTTL)
	pipe.Set(ctx, latestSessionIndexKey(session.UserID, session.GameID), string(session.ID), s.cfg.SessionTTL)
	pipe.ZAdd(ctx, sessionActivityIndexKey(), redis.Z{
		Score:  float64(session.LastActiveAt.Unix()),
		Member: string(session.ID),
	})
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) LatestSession(ctx context.Context, userID model.UserID, gameID model.GameID) (*model.PlaySession, error) {
	sessionID, err := s.client.Get(ctx, latestSessionIndexKey(userID, gameID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrSessionNotFound
		}
		return nil, err
	}

	var session model.PlaySession
	if err := s.getJSON(ctx, sessionKey(model.SessionID(sessionID)), &session, model.ErrSessionNotFound); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *Storage) ListSessionsActiveSince(ctx context.Context, since time.Time) ([]*model.PlaySession, error) {
	ids, err := s.client.ZRangeByScore(ctx, sessionActivityIndexKey(), &redis.ZRangeBy{
		Min: strconv.FormatInt(since.Unix(), 10),
		Max: "+inf",
	}).Result()
	if err != nil {
		return nil, err
	}

	result := make([]*model.PlaySession, 0, len(ids))
	for _, id := range ids {
		var session model.PlaySession
		err := s.getJSON(ctx, sessionKey(model.SessionID(id)), &session, model.ErrSessionNotFound)
		if err != nil {
			if errors.Is(err, model.ErrSessionNotFound) {
				continue
			}
			return nil, err
		}
		result = append(result, &session)
	}
	return result, nil
}

// Unlock operations

func (s *Storage) SaveUnlock(ctx context.Context, unlock *model.Unlock) error {
	data, err := json.Marshal(unlock)
	if err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, unlockKey(unlock.UserID, unlock.AchievementID), data, 0)
	pipe.SAdd(ctx, unlocksForGameIndexKey(unlock.UserID, unlock.GameID), string(unlock.AchievementID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetUnlock(ctx context.Context, userID model.UserID, achievementID model.AchievementID) (*model.Unlock, error) {
	var unlock model.Unlock
	if err := s.getJSON(ctx, unlockKey(userID, achievementID), &unlock, model.ErrAchievementNotFound); err != nil {
		return nil, err
	}
	return &unlock, nil
}

func (s *Storage) ListUnlocksForGame(ctx context.Context, userID model.UserID, gameID model.GameID) ([]*model.Unlock, error) {
	ids, err := s.client.SMembers(ctx, unlocksForGameIndexKey(userID, gameID)).Result()
	if err != nil {
		return nil, err
	}

	result := make([]*model.Unlock, 0, len(ids))
	for _, id := range ids {
		unlock, err := s.GetUnlock(ctx, userID, model.AchievementID(id))
		if err != nil {
			if errors.Is(err, model.ErrAchievementNotFound) {
				continue
			}
			return nil, err
		}
		result = append(result, unlock)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].AchievementID < result[j].AchievementID })
	return result, nil
}
