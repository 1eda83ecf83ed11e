package factory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/playtrackhq/playtrack/internal/model"
)

func TestNewDefaultsToMemoryStorage(t *testing.T) {
	app, err := New(Config{})
	require.NoError(t, err)
	require.NotNil(t, app.Storage)
	require.NotNil(t, app.AwardService)
}

func TestNewRejectsUnknownStorageType(t *testing.T) {
	_, err := New(Config{StorageType: "cassette-tape"})
	require.Error(t, err)
}

func TestNewRedisRequiresConfig(t *testing.T) {
	_, err := New(Config{StorageType: StorageTypeRedis})
	require.Error(t, err)
}

// AppFlowSuite drives a full play flow through the wired application
type AppFlowSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestAppFlowSuite(t *testing.T) {
	suite.Run(t, new(AppFlowSuite))
}

func (s *AppFlowSuite) SetupTest() {
	s.app = NewTestApp()
	s.ctx = context.Background()
}

func (s *AppFlowSuite) seedGame(gameID model.GameID, achievements int) {
	now := s.app.MockClock.Now()
	s.Require().NoError(s.app.Storage.SaveGame(s.ctx, &model.Game{
		ID:                    gameID,
		Title:                 "Flow Game",
		Kind:                  model.GameKindStandard,
		AchievementsPublished: achievements,
		CreatedAt:             now,
	}))
	for i := 0; i < achievements; i++ {
		s.Require().NoError(s.app.Storage.SaveAchievement(s.ctx, &model.Achievement{
			ID:        model.AchievementID(fmt.Sprintf("%s-ach-%d", gameID, i)),
			GameID:    gameID,
			Title:     fmt.Sprintf("Achievement %d", i),
			Points:    5,
			Published: true,
			CreatedAt: now,
		}))
	}
}

func (s *AppFlowSuite) TestUnlockToMasteryFlow() {
	user, apiKey, err := s.app.IdentityService.Register(s.ctx, "alice")
	s.Require().NoError(err)
	s.NotEmpty(apiKey)

	s.seedGame("game-1", 6)

	// Start playing
	sess, outcome, err := s.app.SessionTracker.ReportActivity(s.ctx, user.ID, "game-1", "hash-1", "agent", "")
	s.Require().NoError(err)
	s.Equal("started", string(outcome))
	s.Equal(1, sess.Duration)

	// Unlock everything in hardcore, revalidating after each unlock the way
	// the unlock endpoint does
	for i := 0; i < 6; i++ {
		now := s.app.MockClock.Now()
		s.Require().NoError(s.app.Storage.SaveUnlock(s.ctx, &model.Unlock{
			UserID:             user.ID,
			AchievementID:      model.AchievementID(fmt.Sprintf("game-1-ach-%d", i)),
			GameID:             "game-1",
			UnlockedHardcoreAt: &now,
		}))

		_, err := s.app.ProgressService.Recompute(s.ctx, user.ID, "game-1")
		s.Require().NoError(err)

		_, err = s.app.AwardService.Revalidate(s.ctx, user.ID, "game-1")
		s.Require().NoError(err)

		s.app.MockClock.Advance(time.Minute)
	}

	// The full hardcore clear yields exactly one hardcore mastery badge
	badges, err := s.app.Storage.ListBadgesForUser(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Require().Len(badges, 1)
	s.Equal(model.BadgeMastery, badges[0].Type)
	s.Equal(model.VariantHardcore, badges[0].Variant)

	// The completion was recent, so the mastery broadcast fired alongside
	// the award and leaderboard invalidation
	types := make([]model.SignalType, 0, len(s.app.Signals.Signals))
	for _, sig := range s.app.Signals.Signals {
		types = append(types, sig.Type)
	}
	s.Contains(types, model.SignalBadgeAwarded)
	s.Contains(types, model.SignalGameCompleted)
	s.Contains(types, model.SignalFirstHardcoreMastery)
	s.Contains(types, model.SignalLeaderboardCacheInvalidate)

	// A session ping after the clear reports the same rolling session
	s.app.MockClock.Advance(2 * time.Minute)
	pinged, outcome, err := s.app.SessionTracker.ReportActivity(s.ctx, user.ID, "game-1", "hash-1", "agent", "")
	s.Require().NoError(err)
	s.Equal("extended", string(outcome))
	s.Equal(sess.ID, pinged.ID)
}
