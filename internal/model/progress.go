package model

import "time"

// MinimumMasteryCount is the minimum number of published achievements a set
// must have before mastery/completion badges are evaluated at all.
const MinimumMasteryCount = 6

// GameProgress is the per-(user, game) read model summarizing unlock state.
// Hardcore and softcore unlocks are independent ledgers; the hardcore
// counters are not required to be bounded by their softcore counterparts.
// Mutated only by the unlock-processing pipeline and the progress recompute;
// the badge revalidator treats it as a read-only snapshot.
type GameProgress struct {
	UserID UserID
	GameID GameID

	AchievementsTotal            int
	AchievementsUnlocked         int
	AchievementsUnlockedHardcore int
	PointsHardcore               int

	BeatenAt            *time.Time
	BeatenHardcoreAt    *time.Time
	CompletedAt         *time.Time
	CompletedHardcoreAt *time.Time

	UpdatedAt time.Time
}
