package award

import "github.com/playtrackhq/playtrack/internal/model"

// NoTier means the player is not eligible for any tier of an event
const NoTier = -1

// ResolveTier computes the highest event tier the player's hardcore points
// satisfy: among tiers whose points requirement is met, the one with the
// greatest requirement wins.
//
// An event with no tier ladder at all is a full-clear event: tier 0 is
// granted when every published achievement has been unlocked in hardcore,
// otherwise the player is not eligible.
func ResolveTier(tiers []model.EventTier, progress *model.GameProgress, achievementsPublished int) int {
	best := NoTier
	bestPoints := -1
	for _, tier := range tiers {
		if tier.PointsRequired <= progress.PointsHardcore && tier.PointsRequired > bestPoints {
			best = tier.TierIndex
			bestPoints = tier.PointsRequired
		}
	}
	if best != NoTier {
		return best
	}

	if len(tiers) == 0 &&
		achievementsPublished > 0 &&
		progress.AchievementsUnlockedHardcore == achievementsPublished {
		return 0
	}

	return NoTier
}
