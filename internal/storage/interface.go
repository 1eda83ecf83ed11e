package storage

import (
	"context"
	"time"

	"github.com/playtrackhq/playtrack/internal/model"
)

// Storage defines the interface for data persistence
type Storage interface {
	// User operations
	SaveUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, id model.UserID) (*model.User, error)
	GetUserByName(ctx context.Context, name string) (*model.User, error)

	// Game operations
	SaveGame(ctx context.Context, game *model.Game) error
	GetGame(ctx context.Context, id model.GameID) (*model.Game, error)

	// Achievement operations
	SaveAchievement(ctx context.Context, achievement *model.Achievement) error
	GetAchievement(ctx context.Context, id model.AchievementID) (*model.Achievement, error)
	ListAchievementsForGame(ctx context.Context, gameID model.GameID) ([]*model.Achievement, error)

	// Event operations
	SaveEvent(ctx context.Context, event *model.Event) error
	GetEventForGame(ctx context.Context, gameID model.GameID) (*model.Event, error)
	SaveEventMirror(ctx context.Context, mirror *model.EventMirror) error
	ListMirrorsForSource(ctx context.Context, sourceID model.AchievementID) ([]*model.EventMirror, error)

	// Progress operations
	SaveProgress(ctx context.Context, progress *model.GameProgress) error
	GetProgress(ctx context.Context, userID model.UserID, gameID model.GameID) (*model.GameProgress, error)

	// Badge ledger operations
	SaveBadge(ctx context.Context, badge *model.Badge) error
	GetBadge(ctx context.Context, id string) (*model.Badge, error)
	DeleteBadge(ctx context.Context, id string) error
	ListBadgesForUser(ctx context.Context, userID model.UserID) ([]*model.Badge, error)

	// Session operations
	SaveSession(ctx context.Context, session *model.PlaySession) error
	LatestSession(ctx context.Context, userID model.UserID, gameID model.GameID) (*model.PlaySession, error)
	ListSessionsActiveSince(ctx context.Context, since time.Time) ([]*model.PlaySession, error)

	// Unlock operations
	SaveUnlock(ctx context.Context, unlock *model.Unlock) error
	GetUnlock(ctx context.Context, userID model.UserID, achievementID model.AchievementID) (*model.Unlock, error)
	ListUnlocksForGame(ctx context.Context, userID model.UserID, gameID model.GameID) ([]*model.Unlock, error)
}
