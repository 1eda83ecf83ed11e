package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/playtrackhq/playtrack/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
	now     time.Time
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.SessionTTL = time.Hour

	s.storage = NewWithClient(client, cfg)
	s.ctx = context.Background()
	s.now = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

// User tests

func (s *StorageSuite) TestSaveAndGetUser() {
	user := &model.User{ID: "user-1", Name: "alice", APIKeyHash: "hash", CreatedAt: s.now}
	s.Require().NoError(s.storage.SaveUser(s.ctx, user))

	got, err := s.storage.GetUser(s.ctx, "user-1")
	s.Require().NoError(err)
	s.Equal("alice", got.Name)
	s.Equal("hash", got.APIKeyHash)
}

func (s *StorageSuite) TestGetUserByNameUsesIndex() {
	user := &model.User{ID: "user-1", Name: "alice", CreatedAt: s.now}
	s.Require().NoError(s.storage.SaveUser(s.ctx, user))

	got, err := s.storage.GetUserByName(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(model.UserID("user-1"), got.ID)

	_, err = s.storage.GetUserByName(s.ctx, "missing")
	s.ErrorIs(err, model.ErrUserNotFound)
}

// Game and achievement tests

func (s *StorageSuite) TestSaveAndGetGame() {
	game := &model.Game{ID: "game-1", Title: "Test", Kind: model.GameKindEvent, AchievementsPublished: 7, CreatedAt: s.now}
	s.Require().NoError(s.storage.SaveGame(s.ctx, game))

	got, err := s.storage.GetGame(s.ctx, "game-1")
	s.Require().NoError(err)
	s.Equal(model.GameKindEvent, got.Kind)
	s.Equal(7, got.AchievementsPublished)

	_, err = s.storage.GetGame(s.ctx, "missing")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *StorageSuite) TestListAchievementsForGame() {
	for _, a := range []*model.Achievement{
		{ID: "b-ach", GameID: "game-1", Title: "B", Points: 10, Published: true},
		{ID: "a-ach", GameID: "game-1", Title: "A", Points: 5, Published: true},
		{ID: "other", GameID: "game-2", Title: "Other"},
	} {
		s.Require().NoError(s.storage.SaveAchievement(s.ctx, a))
	}

	got, err := s.storage.ListAchievementsForGame(s.ctx, "game-1")
	s.Require().NoError(err)
	s.Require().Len(got, 2)
	s.Equal(model.AchievementID("a-ach"), got[0].ID)
	s.Equal(model.AchievementID("b-ach"), got[1].ID)
}

// Event tests

func (s *StorageSuite) TestSaveAndGetEventForGame() {
	event := &model.Event{
		ID:     "event-1",
		GameID: "game-1",
		Title:  "AotW",
		Tiers: []model.EventTier{
			{TierIndex: 0, Label: "Bronze", PointsRequired: 1000},
		},
	}
	s.Require().NoError(s.storage.SaveEvent(s.ctx, event))

	got, err := s.storage.GetEventForGame(s.ctx, "game-1")
	s.Require().NoError(err)
	s.Equal(model.EventID("event-1"), got.ID)
	s.Require().Len(got.Tiers, 1)
	s.Equal(1000, got.Tiers[0].PointsRequired)

	_, err = s.storage.GetEventForGame(s.ctx, "game-2")
	s.ErrorIs(err, model.ErrEventNotFound)
}

func (s *StorageSuite) TestListMirrorsForSource() {
	for _, m := range []*model.EventMirror{
		{AchievementID: "mirror-1", SourceAchievementID: "ach-1", ActiveFrom: s.now, ActiveUntil: s.now.Add(time.Hour)},
		{AchievementID: "mirror-2", SourceAchievementID: "ach-1", ActiveFrom: s.now, ActiveUntil: s.now.Add(time.Hour)},
		{AchievementID: "mirror-3", SourceAchievementID: "ach-2", ActiveFrom: s.now, ActiveUntil: s.now.Add(time.Hour)},
	} {
		s.Require().NoError(s.storage.SaveEventMirror(s.ctx, m))
	}

	got, err := s.storage.ListMirrorsForSource(s.ctx, "ach-1")
	s.Require().NoError(err)
	s.Len(got, 2)
}

// Progress tests

func (s *StorageSuite) TestSaveAndGetProgress() {
	completedAt := s.now.Add(-time.Hour)
	p := &model.GameProgress{
		UserID:               "user-1",
		GameID:               "game-1",
		AchievementsTotal:    10,
		AchievementsUnlocked: 10,
		CompletedAt:          &completedAt,
	}
	s.Require().NoError(s.storage.SaveProgress(s.ctx, p))

	got, err := s.storage.GetProgress(s.ctx, "user-1", "game-1")
	s.Require().NoError(err)
	s.Equal(10, got.AchievementsUnlocked)
	s.Require().NotNil(got.CompletedAt)
	s.True(got.CompletedAt.Equal(completedAt))

	_, err = s.storage.GetProgress(s.ctx, "user-2", "game-1")
	s.ErrorIs(err, model.ErrProgressNotFound)
}

// Badge tests

func (s *StorageSuite) TestBadgeLifecycle() {
	badge := &model.Badge{
		ID:        "badge-1",
		OwnerID:   "user-1",
		Type:      model.BadgeEvent,
		SubjectID: "event-1",
		Variant:   2,
		AwardedAt: s.now,
	}
	s.Require().NoError(s.storage.SaveBadge(s.ctx, badge))

	got, err := s.storage.GetBadge(s.ctx, "badge-1")
	s.Require().NoError(err)
	s.Equal(2, got.Variant)

	badges, err := s.storage.ListBadgesForUser(s.ctx, "user-1")
	s.Require().NoError(err)
	s.Len(badges, 1)

	s.Require().NoError(s.storage.DeleteBadge(s.ctx, "badge-1"))

	_, err = s.storage.GetBadge(s.ctx, "badge-1")
	s.ErrorIs(err, model.ErrBadgeNotFound)

	badges, err = s.storage.ListBadgesForUser(s.ctx, "user-1")
	s.Require().NoError(err)
	s.Empty(badges)
}

func (s *StorageSuite) TestDeleteMissingBadgeIsNoOp() {
	s.NoError(s.storage.DeleteBadge(s.ctx, "missing"))
}

// Session tests

func (s *StorageSuite) TestLatestSessionFollowsPointer() {
	first := &model.PlaySession{ID: "sess-1", UserID: "user-1", GameID: "game-1", Duration: 1, LastActiveAt: s.now.Add(-time.Hour)}
	second := &model.PlaySession{ID: "sess-2", UserID: "user-1", GameID: "game-1", Duration: 1, LastActiveAt: s.now}
	s.Require().NoError(s.storage.SaveSession(s.ctx, first))
	s.Require().NoError(s.storage.SaveSession(s.ctx, second))

	got, err := s.storage.LatestSession(s.ctx, "user-1", "game-1")
	s.Require().NoError(err)
	s.Equal(model.SessionID("sess-2"), got.ID)

	_, err = s.storage.LatestSession(s.ctx, "user-1", "game-2")
	s.ErrorIs(err, model.ErrSessionNotFound)
}

func (s *StorageSuite) TestListSessionsActiveSinceUsesActivityIndex() {
	old := &model.PlaySession{ID: "sess-1", UserID: "user-1", GameID: "game-1", LastActiveAt: s.now.Add(-time.Hour)}
	recent := &model.PlaySession{ID: "sess-2", UserID: "user-2", GameID: "game-1", LastActiveAt: s.now.Add(-time.Minute)}
	s.Require().NoError(s.storage.SaveSession(s.ctx, old))
	s.Require().NoError(s.storage.SaveSession(s.ctx, recent))

	got, err := s.storage.ListSessionsActiveSince(s.ctx, s.now.Add(-10*time.Minute))
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal(model.SessionID("sess-2"), got[0].ID)
}

// Unlock tests

func (s *StorageSuite) TestSaveAndGetUnlock() {
	hardAt := s.now.Add(-time.Hour)
	unlock := &model.Unlock{UserID: "user-1", AchievementID: "ach-1", GameID: "game-1", UnlockedHardcoreAt: &hardAt}
	s.Require().NoError(s.storage.SaveUnlock(s.ctx, unlock))

	got, err := s.storage.GetUnlock(s.ctx, "user-1", "ach-1")
	s.Require().NoError(err)
	s.True(got.HasHardcore())
	s.False(got.HasSoftcore())

	_, err = s.storage.GetUnlock(s.ctx, "user-1", "missing")
	s.ErrorIs(err, model.ErrAchievementNotFound)
}

func (s *StorageSuite) TestListUnlocksForGameIsScoped() {
	when := s.now
	for _, u := range []*model.Unlock{
		{UserID: "user-1", AchievementID: "ach-1", GameID: "game-1", UnlockedAt: &when},
		{UserID: "user-1", AchievementID: "ach-2", GameID: "game-2", UnlockedAt: &when},
		{UserID: "user-2", AchievementID: "ach-3", GameID: "game-1", UnlockedAt: &when},
	} {
		s.Require().NoError(s.storage.SaveUnlock(s.ctx, u))
	}

	got, err := s.storage.ListUnlocksForGame(s.ctx, "user-1", "game-1")
	s.Require().NoError(err)
	s.Require().Len(got, 1)
	s.Equal(model.AchievementID("ach-1"), got[0].AchievementID)
}
