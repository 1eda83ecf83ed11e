package model

import "time"

// MutationOp is the kind of change the revalidator wants applied to the ledger
type MutationOp string

const (
	MutationAward       MutationOp = "award"
	MutationUpgradeTier MutationOp = "upgrade_tier"
	MutationRetract     MutationOp = "retract"
)

// BadgeMutation is a single change to a user's badge ledger. The revalidator
// returns a complete ordered list of mutations for the caller to apply
// atomically; it never applies anything itself.
type BadgeMutation struct {
	Op        MutationOp
	Type      BadgeType
	SubjectID SubjectID

	// Variant is the hardcore flag (or target tier) being awarded,
	// upgraded to, or retracted.
	Variant int

	// Timestamp is the award/upgrade time. Zero for retractions.
	Timestamp time.Time
}

// SignalType identifies a domain signal emitted alongside ledger mutations
type SignalType string

const (
	SignalBadgeAwarded               SignalType = "badge_awarded"
	SignalBadgeLost                  SignalType = "badge_lost"
	SignalGameBeaten                 SignalType = "game_beaten"
	SignalGameCompleted              SignalType = "game_completed"
	SignalLeaderboardCacheInvalidate SignalType = "leaderboard_cache_invalidate"
	SignalFirstHardcoreBeaten        SignalType = "broadcast_first_hardcore_beaten"
	SignalFirstHardcoreMastery       SignalType = "broadcast_first_hardcore_mastery"
)

// Signal is an ordered domain event produced by a revalidation pass. The
// caller dispatches signals to the notification sink after the mutations
// they accompany have been applied.
type Signal struct {
	Type      SignalType
	UserID    UserID
	SubjectID SubjectID

	// BadgeType and Variant are set for badge_awarded / badge_lost
	BadgeType BadgeType
	Variant   int

	// Hardcore is set for game_beaten / game_completed
	Hardcore bool

	Timestamp time.Time
}
