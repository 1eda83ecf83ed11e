package unlocks

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/playtrackhq/playtrack/internal/model"
	"github.com/playtrackhq/playtrack/internal/storage/memory"
	"github.com/playtrackhq/playtrack/internal/testutil"
)

type VisibilitySuite struct {
	suite.Suite
	storage *memory.Storage
	service *Service
	now     time.Time
	ctx     context.Context
}

func TestVisibilitySuite(t *testing.T) {
	suite.Run(t, new(VisibilitySuite))
}

func (s *VisibilitySuite) SetupTest() {
	s.storage = memory.New()
	s.service = New(s.storage, testutil.NopLogger())
	s.now = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s.ctx = context.Background()
}

func (s *VisibilitySuite) saveUnlock(userID model.UserID, achievementID model.AchievementID, soft, hard *time.Time) {
	s.Require().NoError(s.storage.SaveUnlock(s.ctx, &model.Unlock{
		UserID:             userID,
		AchievementID:      achievementID,
		GameID:             "game-1",
		UnlockedAt:         soft,
		UnlockedHardcoreAt: hard,
	}))
}

func (s *VisibilitySuite) saveMirror(achievementID, sourceID model.AchievementID, from, until time.Time) {
	s.Require().NoError(s.storage.SaveEventMirror(s.ctx, &model.EventMirror{
		AchievementID:       achievementID,
		SourceAchievementID: sourceID,
		ActiveFrom:          from,
		ActiveUntil:         until,
	}))
}

func (s *VisibilitySuite) visible() (hardcore, softcore []View) {
	hardcore, softcore, err := s.service.VisibleUnlocks(s.ctx, "user-1", "game-1", s.now)
	s.Require().NoError(err)
	return hardcore, softcore
}

func (s *VisibilitySuite) ptr(t time.Time) *time.Time {
	return &t
}

func (s *VisibilitySuite) TestHardcoreUnlockVisibleWithoutMirrors() {
	when := s.now.Add(-time.Hour)
	s.saveUnlock("user-1", "ach-1", nil, s.ptr(when))

	hardcore, softcore := s.visible()

	s.Require().Len(hardcore, 1)
	s.Equal(model.AchievementID("ach-1"), hardcore[0].AchievementID)
	s.Equal(when, hardcore[0].When)
	s.Empty(softcore)
}

func (s *VisibilitySuite) TestSoftcoreUnlockListedSeparately() {
	s.saveUnlock("user-1", "ach-1", s.ptr(s.now.Add(-time.Hour)), nil)

	hardcore, softcore := s.visible()

	s.Empty(hardcore)
	s.Len(softcore, 1)
}

func (s *VisibilitySuite) TestActiveLockedMirrorDemotesHardcoreUnlock() {
	s.saveUnlock("user-1", "ach-1", nil, s.ptr(s.now.Add(-time.Hour)))
	s.saveMirror("mirror-1", "ach-1", s.now.Add(-24*time.Hour), s.now.Add(24*time.Hour))

	hardcore, softcore := s.visible()

	s.Empty(hardcore)
	s.Require().Len(softcore, 1)
	s.Equal(model.AchievementID("ach-1"), softcore[0].AchievementID)
}

func (s *VisibilitySuite) TestHardcoreUnlockedMirrorRevealsSource() {
	s.saveUnlock("user-1", "ach-1", nil, s.ptr(s.now.Add(-time.Hour)))
	s.saveMirror("mirror-1", "ach-1", s.now.Add(-24*time.Hour), s.now.Add(24*time.Hour))
	s.saveUnlock("user-1", "mirror-1", nil, s.ptr(s.now.Add(-30*time.Minute)))

	hardcore, softcore := s.visible()

	s.Len(hardcore, 1)
	s.Empty(softcore)
}

func (s *VisibilitySuite) TestSoftcoreOnlyMirrorUnlockStillDemotes() {
	s.saveUnlock("user-1", "ach-1", nil, s.ptr(s.now.Add(-time.Hour)))
	s.saveMirror("mirror-1", "ach-1", s.now.Add(-24*time.Hour), s.now.Add(24*time.Hour))
	s.saveUnlock("user-1", "mirror-1", s.ptr(s.now.Add(-30*time.Minute)), nil)

	hardcore, _ := s.visible()

	s.Empty(hardcore)
}

func (s *VisibilitySuite) TestExpiredMirrorIsIgnored() {
	s.saveUnlock("user-1", "ach-1", nil, s.ptr(s.now.Add(-time.Hour)))
	s.saveMirror("mirror-1", "ach-1", s.now.Add(-48*time.Hour), s.now.Add(-24*time.Hour))

	hardcore, _ := s.visible()

	s.Len(hardcore, 1)
}

func (s *VisibilitySuite) TestFutureMirrorIsIgnored() {
	s.saveUnlock("user-1", "ach-1", nil, s.ptr(s.now.Add(-time.Hour)))
	s.saveMirror("mirror-1", "ach-1", s.now.Add(24*time.Hour), s.now.Add(48*time.Hour))

	hardcore, _ := s.visible()

	s.Len(hardcore, 1)
}

func (s *VisibilitySuite) TestAllActiveMirrorsMustBeUnlocked() {
	s.saveUnlock("user-1", "ach-1", nil, s.ptr(s.now.Add(-time.Hour)))
	s.saveMirror("mirror-1", "ach-1", s.now.Add(-24*time.Hour), s.now.Add(24*time.Hour))
	s.saveMirror("mirror-2", "ach-1", s.now.Add(-24*time.Hour), s.now.Add(24*time.Hour))
	s.saveUnlock("user-1", "mirror-1", nil, s.ptr(s.now.Add(-30*time.Minute)))

	hardcore, _ := s.visible()

	s.Empty(hardcore)
}

func (s *VisibilitySuite) TestListsOrderedByUnlockTime() {
	s.saveUnlock("user-1", "ach-2", nil, s.ptr(s.now.Add(-time.Hour)))
	s.saveUnlock("user-1", "ach-1", nil, s.ptr(s.now.Add(-2*time.Hour)))

	hardcore, _ := s.visible()

	s.Require().Len(hardcore, 2)
	s.Equal(model.AchievementID("ach-1"), hardcore[0].AchievementID)
	s.Equal(model.AchievementID("ach-2"), hardcore[1].AchievementID)
}
