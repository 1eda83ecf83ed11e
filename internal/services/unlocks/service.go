package unlocks

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"github.com/playtrackhq/playtrack/internal/model"
	"github.com/playtrackhq/playtrack/internal/storage"
)

// View is a single unlock row as surfaced to clients at session start
type View struct {
	AchievementID model.AchievementID
	When          time.Time
}

// Service decides which of a player's unlocks are surfaced as hardcore at
// session start. Hardcore credit on a source achievement is withheld while
// any currently-active event mirror of that achievement is still locked.
type Service struct {
	storage storage.Storage
	logger  *slog.Logger
}

// New creates a new unlock visibility service
func New(storage storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// VisibleUnlocks splits the player's unlocks for a game into the hardcore and
// softcore display lists. A hardcore unlock whose active event mirrors are not
// all unlocked in hardcore is demoted to the softcore list; mirrors whose
// window does not contain now are ignored. Both lists are ordered by unlock
// time.
func (s *Service) VisibleUnlocks(ctx context.Context, userID model.UserID, gameID model.GameID, now time.Time) (hardcore, softcore []View, err error) {
	unlocks, err := s.storage.ListUnlocksForGame(ctx, userID, gameID)
	if err != nil {
		return nil, nil, err
	}

	for _, u := range unlocks {
		if u.HasHardcore() {
			suppressed, err := s.suppressed(ctx, userID, u.AchievementID, now)
			if err != nil {
				return nil, nil, err
			}
			if !suppressed {
				hardcore = append(hardcore, View{
					AchievementID: u.AchievementID,
					When:          *u.UnlockedHardcoreAt,
				})
				continue
			}
		}

		when := u.UnlockedAt
		if when == nil {
			when = u.UnlockedHardcoreAt
		}
		if when == nil {
			continue
		}
		softcore = append(softcore, View{
			AchievementID: u.AchievementID,
			When:          *when,
		})
	}

	sortViews(hardcore)
	sortViews(softcore)
	return hardcore, softcore, nil
}

// suppressed reports whether hardcore credit for the source achievement is
// currently withheld by an un-unlocked active mirror
func (s *Service) suppressed(ctx context.Context, userID model.UserID, sourceID model.AchievementID, now time.Time) (bool, error) {
	mirrors, err := s.storage.ListMirrorsForSource(ctx, sourceID)
	if err != nil {
		return false, err
	}

	for _, m := range mirrors {
		if !m.ActiveAt(now) {
			continue
		}

		unlock, err := s.storage.GetUnlock(ctx, userID, m.AchievementID)
		if err != nil {
			if errors.Is(err, model.ErrAchievementNotFound) {
				return true, nil
			}
			return false, err
		}
		if !unlock.HasHardcore() {
			return true, nil
		}
	}

	// Every active mirror is unlocked in hardcore (or none is active):
	// the source unlock is revealed.
	return false, nil
}

func sortViews(views []View) {
	sort.Slice(views, func(i, j int) bool {
		if views[i].When.Equal(views[j].When) {
			return views[i].AchievementID < views[j].AchievementID
		}
		return views[i].When.Before(views[j].When)
	})
}
