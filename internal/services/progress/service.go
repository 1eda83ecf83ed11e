package progress

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/playtrackhq/playtrack/internal/dependencies/clock"
	"github.com/playtrackhq/playtrack/internal/model"
	"github.com/playtrackhq/playtrack/internal/storage"
)

// Service maintains the per-(user, game) progress read model
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new progress service
func New(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		logger:  logger,
	}
}

// Get returns the progress snapshot for (user, game)
func (s *Service) Get(ctx context.Context, userID model.UserID, gameID model.GameID) (*model.GameProgress, error) {
	return s.storage.GetProgress(ctx, userID, gameID)
}

// Recompute rebuilds the progress aggregate from the user's unlock rows and
// the game's published achievement set, then saves it. Unlock counts, hardcore
// points, and completion timestamps are derived here; the beaten timestamps
// are owned by the beat-detection pipeline and carried over unchanged.
func (s *Service) Recompute(ctx context.Context, userID model.UserID, gameID model.GameID) (*model.GameProgress, error) {
	game, err := s.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	achievements, err := s.storage.ListAchievementsForGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	published := make(map[model.AchievementID]*model.Achievement)
	for _, a := range achievements {
		if a.Published {
			published[a.ID] = a
		}
	}

	unlocks, err := s.storage.ListUnlocksForGame(ctx, userID, gameID)
	if err != nil {
		return nil, err
	}

	progress := &model.GameProgress{
		UserID:            userID,
		GameID:            gameID,
		AchievementsTotal: len(published),
		UpdatedAt:         s.clock.Now(),
	}

	// Beaten state survives recomputes untouched.
	if existing, err := s.storage.GetProgress(ctx, userID, gameID); err == nil {
		progress.BeatenAt = existing.BeatenAt
		progress.BeatenHardcoreAt = existing.BeatenHardcoreAt
	} else if !errors.Is(err, model.ErrProgressNotFound) {
		return nil, err
	}

	var lastUnlock, lastHardcore *time.Time
	for _, u := range unlocks {
		achievement, ok := published[u.AchievementID]
		if !ok {
			continue
		}

		if u.HasSoftcore() || u.HasHardcore() {
			progress.AchievementsUnlocked++
			lastUnlock = laterOf(lastUnlock, u.UnlockedAt)
			lastUnlock = laterOf(lastUnlock, u.UnlockedHardcoreAt)
		}
		if u.HasHardcore() {
			progress.AchievementsUnlockedHardcore++
			progress.PointsHardcore += achievement.Points
			lastHardcore = laterOf(lastHardcore, u.UnlockedHardcoreAt)
		}
	}

	if progress.AchievementsTotal > 0 {
		if progress.AchievementsUnlocked == progress.AchievementsTotal {
			progress.CompletedAt = lastUnlock
		}
		if progress.AchievementsUnlockedHardcore == progress.AchievementsTotal {
			progress.CompletedHardcoreAt = lastHardcore
		}
	}

	if err := s.storage.SaveProgress(ctx, progress); err != nil {
		return nil, err
	}

	s.logger.Debug("progress recomputed",
		slog.String("user_id", string(userID)),
		slog.String("game_id", string(game.ID)),
		slog.Int("unlocked", progress.AchievementsUnlocked),
		slog.Int("unlocked_hardcore", progress.AchievementsUnlockedHardcore),
	)

	return progress, nil
}

// SetBeaten records beat-detection results on the progress row. A nil
// timestamp clears the corresponding state.
func (s *Service) SetBeaten(ctx context.Context, userID model.UserID, gameID model.GameID, beatenAt, beatenHardcoreAt *time.Time) (*model.GameProgress, error) {
	progress, err := s.storage.GetProgress(ctx, userID, gameID)
	if err != nil {
		return nil, err
	}

	progress.BeatenAt = beatenAt
	progress.BeatenHardcoreAt = beatenHardcoreAt
	progress.UpdatedAt = s.clock.Now()

	if err := s.storage.SaveProgress(ctx, progress); err != nil {
		return nil, err
	}
	return progress, nil
}

func laterOf(current, candidate *time.Time) *time.Time {
	if candidate == nil {
		return current
	}
	if current == nil || candidate.After(*current) {
		return candidate
	}
	return current
}
