package model

import "time"

// GameID uniquely identifies a game
type GameID string

// GameHashID identifies a specific ROM/build hash of a game
type GameHashID string

// AchievementID uniquely identifies an achievement
type AchievementID string

// GameKind distinguishes regular achievement sets from time-windowed events
type GameKind string

const (
	GameKindStandard GameKind = "standard"
	GameKindEvent    GameKind = "event"
)

// Game represents an achievement set a player can progress through
type Game struct {
	ID    GameID
	Title string
	Kind  GameKind

	// AchievementsPublished is the number of live achievements in the set
	AchievementsPublished int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsEvent returns true if the game is a time-windowed event set
func (g *Game) IsEvent() bool {
	return g.Kind == GameKindEvent
}

// Achievement is a single unlockable within a game's set
type Achievement struct {
	ID        AchievementID
	GameID    GameID
	Title     string
	Points    int
	Published bool
	CreatedAt time.Time
}
