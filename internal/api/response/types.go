package response

import (
	"time"

	"github.com/playtrackhq/playtrack/internal/model"
	"github.com/playtrackhq/playtrack/internal/services/unlocks"
)

// RegisterResponse is returned once at account creation; the API key is not
// retrievable afterwards
type RegisterResponse struct {
	UserID model.UserID `json:"user_id"`
	Name   string       `json:"name"`
	APIKey string       `json:"api_key"`
}

// UnlockEntry is a single unlock in a session-start payload
type UnlockEntry struct {
	ID   model.AchievementID `json:"id"`
	When int64               `json:"when"`
}

// StartSessionResponse is the session-start payload
type StartSessionResponse struct {
	SessionID       model.SessionID `json:"session_id"`
	Outcome         string          `json:"outcome"`
	HardcoreUnlocks []UnlockEntry   `json:"hardcore_unlocks"`
	Unlocks         []UnlockEntry   `json:"unlocks"`
	ServerNow       int64           `json:"server_now"`
}

// PingResponse acknowledges a session heartbeat
type PingResponse struct {
	SessionID model.SessionID `json:"session_id"`
	Outcome   string          `json:"outcome"`
	Duration  int             `json:"duration"`
	ServerNow int64           `json:"server_now"`
}

// UnlockEntriesFromViews converts unlock views to wire entries
func UnlockEntriesFromViews(views []unlocks.View) []UnlockEntry {
	entries := make([]UnlockEntry, 0, len(views))
	for _, v := range views {
		entries = append(entries, UnlockEntry{ID: v.AchievementID, When: v.When.Unix()})
	}
	return entries
}

// BadgeResponse is a single badge row
type BadgeResponse struct {
	ID           string          `json:"id"`
	Type         model.BadgeType `json:"type"`
	SubjectID    model.SubjectID `json:"subject_id"`
	Variant      int             `json:"variant"`
	AwardedAt    time.Time       `json:"awarded_at"`
	DisplayOrder int             `json:"display_order"`
}

// BadgeListResponse lists a user's badges
type BadgeListResponse struct {
	Badges []BadgeResponse `json:"badges"`
}

// BadgeResponseFromModel converts a badge to its wire form
func BadgeResponseFromModel(b *model.Badge) BadgeResponse {
	return BadgeResponse{
		ID:           b.ID,
		Type:         b.Type,
		SubjectID:    b.SubjectID,
		Variant:      b.Variant,
		AwardedAt:    b.AwardedAt,
		DisplayOrder: b.DisplayOrder,
	}
}

// HighestAwardResponse is a user's most prestigious badge for a game
type HighestAwardResponse struct {
	Kind  model.AwardKind `json:"kind"`
	Badge BadgeResponse   `json:"badge"`
}

// ProgressResponse is the progress read model for (user, game)
type ProgressResponse struct {
	UserID                       model.UserID `json:"user_id"`
	GameID                       model.GameID `json:"game_id"`
	AchievementsTotal            int          `json:"achievements_total"`
	AchievementsUnlocked         int          `json:"achievements_unlocked"`
	AchievementsUnlockedHardcore int          `json:"achievements_unlocked_hardcore"`
	PointsHardcore               int          `json:"points_hardcore"`
	BeatenAt                     *time.Time   `json:"beaten_at"`
	BeatenHardcoreAt             *time.Time   `json:"beaten_hardcore_at"`
	CompletedAt                  *time.Time   `json:"completed_at"`
	CompletedHardcoreAt          *time.Time   `json:"completed_hardcore_at"`
}

// ProgressResponseFromModel converts a progress row to its wire form
func ProgressResponseFromModel(p *model.GameProgress) ProgressResponse {
	return ProgressResponse{
		UserID:                       p.UserID,
		GameID:                       p.GameID,
		AchievementsTotal:            p.AchievementsTotal,
		AchievementsUnlocked:         p.AchievementsUnlocked,
		AchievementsUnlockedHardcore: p.AchievementsUnlockedHardcore,
		PointsHardcore:               p.PointsHardcore,
		BeatenAt:                     p.BeatenAt,
		BeatenHardcoreAt:             p.BeatenHardcoreAt,
		CompletedAt:                  p.CompletedAt,
		CompletedHardcoreAt:          p.CompletedHardcoreAt,
	}
}

// SignalResponse is a domain signal emitted by a revalidation pass
type SignalResponse struct {
	Type      model.SignalType `json:"type"`
	SubjectID model.SubjectID  `json:"subject_id"`
	BadgeType model.BadgeType  `json:"badge_type,omitempty"`
	Variant   int              `json:"variant"`
	Hardcore  bool             `json:"hardcore"`
}

// RevalidateResponse reports the outcome of a revalidation pass
type RevalidateResponse struct {
	Mutations int              `json:"mutations"`
	Signals   []SignalResponse `json:"signals"`
}

// GameResponse is a game row
type GameResponse struct {
	ID                    model.GameID   `json:"id"`
	Title                 string         `json:"title"`
	Kind                  model.GameKind `json:"kind"`
	AchievementsPublished int            `json:"achievements_published"`
}

// GameResponseFromModel converts a game to its wire form
func GameResponseFromModel(g *model.Game) GameResponse {
	return GameResponse{
		ID:                    g.ID,
		Title:                 g.Title,
		Kind:                  g.Kind,
		AchievementsPublished: g.AchievementsPublished,
	}
}
