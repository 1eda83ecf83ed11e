package request

import (
	"time"

	"github.com/playtrackhq/playtrack/internal/model"
)

// RegisterRequest creates a user account
type RegisterRequest struct {
	Name string `json:"name"`
}

// StartSessionRequest reports the start (or continuation) of play
type StartSessionRequest struct {
	GameID       model.GameID     `json:"game_id"`
	GameHashID   model.GameHashID `json:"game_hash_id"`
	RichPresence string           `json:"rich_presence"`
}

// PingRequest is a session heartbeat carrying fresh rich-presence text
type PingRequest struct {
	GameID       model.GameID     `json:"game_id"`
	GameHashID   model.GameHashID `json:"game_hash_id"`
	RichPresence string           `json:"rich_presence"`
}

// CreateGameRequest registers a game and its achievement set
type CreateGameRequest struct {
	ID           model.GameID             `json:"id"`
	Title        string                   `json:"title"`
	Kind         model.GameKind           `json:"kind"`
	Achievements []CreateAchievement      `json:"achievements"`
	Event        *CreateEvent             `json:"event"`
	Mirrors      []CreateEventMirror      `json:"mirrors"`
}

// CreateAchievement is one achievement in a CreateGameRequest
type CreateAchievement struct {
	ID        model.AchievementID `json:"id"`
	Title     string              `json:"title"`
	Points    int                 `json:"points"`
	Published bool                `json:"published"`
}

// CreateEvent attaches a tier ladder to an event-kind game
type CreateEvent struct {
	ID    model.EventID `json:"id"`
	Title string        `json:"title"`
	Tiers []CreateTier  `json:"tiers"`
}

// CreateTier is one rung of an event ladder
type CreateTier struct {
	TierIndex      int    `json:"tier_index"`
	Label          string `json:"label"`
	PointsRequired int    `json:"points_required"`
}

// CreateEventMirror declares a time-boxed mirror of a source achievement
type CreateEventMirror struct {
	AchievementID       model.AchievementID `json:"achievement_id"`
	SourceAchievementID model.AchievementID `json:"source_achievement_id"`
	ActiveFrom          time.Time           `json:"active_from"`
	ActiveUntil         time.Time           `json:"active_until"`
}

// RecordUnlockRequest records an achievement unlock for the authenticated user
type RecordUnlockRequest struct {
	AchievementID model.AchievementID `json:"achievement_id"`
	Hardcore      bool                `json:"hardcore"`
}

// DeveloperYieldRequest reports a developer's yield statistic moving from
// old_value to new_value. Metric selects the statistic: "unlocks" for total
// unlocks granted by the developer's achievements, "points" for total points
type DeveloperYieldRequest struct {
	Metric   string `json:"metric"`
	OldValue int    `json:"old_value"`
	NewValue int    `json:"new_value"`
}

// SetBeatenRequest records beat-detection results on a progress row
type SetBeatenRequest struct {
	GameID           model.GameID `json:"game_id"`
	BeatenAt         *time.Time   `json:"beaten_at"`
	BeatenHardcoreAt *time.Time   `json:"beaten_hardcore_at"`
}
