package model

import "time"

// SubjectID is what a badge was earned for: a game id, an event id, or empty
// for badges not tied to a subject (developer yield tiers).
type SubjectID string

// BadgeType identifies the kind of milestone a badge credits
type BadgeType string

const (
	BadgeGameBeaten            BadgeType = "game_beaten"
	BadgeMastery               BadgeType = "mastery"
	BadgeEvent                 BadgeType = "event"
	BadgeDeveloperUnlocksYield BadgeType = "developer_unlocks_yield"
	BadgeDeveloperPointsYield  BadgeType = "developer_points_yield"
)

// Variant values for the hardcore flag on binary badge types.
// For BadgeEvent and developer yield types, Variant is a tier index instead.
const (
	VariantSoftcore = 0
	VariantHardcore = 1
)

// Badge is a persistent award held by a user.
//
// Identity for binary types is (OwnerID, Type, SubjectID, Variant). Event
// badges are identified by (OwnerID, Type, SubjectID) only: their tier is
// upgraded in place and never duplicated.
type Badge struct {
	ID        string
	OwnerID   UserID
	Type      BadgeType
	SubjectID SubjectID
	Variant   int
	AwardedAt time.Time

	DisplayOrder int
}

// IsHardcore reports whether a binary badge is the hardcore variant
func (b *Badge) IsHardcore() bool {
	return b.Variant == VariantHardcore
}

// Developer yield tier boundaries, ordered ascending. A developer badge at
// tier i credits crossing Thresholds()[i].
var (
	developerUnlockThresholds = []int{
		100, 250, 500, 1_000, 2_500, 5_000, 10_000, 25_000, 50_000,
		100_000, 250_000, 500_000, 1_000_000, 2_500_000, 5_000_000,
	}
	developerPointThresholds = []int{
		1_000, 2_500, 5_000, 10_000, 25_000, 50_000, 100_000, 250_000,
		500_000, 1_000_000, 2_500_000, 5_000_000, 10_000_000, 25_000_000,
		50_000_000,
	}
)

// Thresholds returns the ordered tier boundaries for tiered developer badge
// types, or nil for types whose variants are not threshold-based.
func (t BadgeType) Thresholds() []int {
	switch t {
	case BadgeDeveloperUnlocksYield:
		return developerUnlockThresholds
	case BadgeDeveloperPointsYield:
		return developerPointThresholds
	default:
		return nil
	}
}

// BadgeThreshold returns the boundary value credited by the given tier of a
// developer badge type, or 0 if the type or tier has no threshold.
func BadgeThreshold(t BadgeType, tier int) int {
	thresholds := t.Thresholds()
	if thresholds == nil || tier < 0 || tier >= len(thresholds) {
		return 0
	}
	return thresholds[tier]
}

// NewBadgeTier returns the highest tier newly crossed when a tracked value
// moves from oldValue to newValue. The second return is false when no
// boundary was crossed or the type is not threshold-based.
func NewBadgeTier(t BadgeType, oldValue, newValue int) (int, bool) {
	thresholds := t.Thresholds()
	for i := len(thresholds) - 1; i >= 0; i-- {
		if newValue >= thresholds[i] && oldValue < thresholds[i] {
			return i, true
		}
	}
	return 0, false
}

// AwardKind labels the prestige level of a user's best game award
type AwardKind string

const (
	AwardKindMastered       AwardKind = "mastered"
	AwardKindCompleted      AwardKind = "completed"
	AwardKindBeatenHardcore AwardKind = "beaten-hardcore"
	AwardKindBeatenSoftcore AwardKind = "beaten-softcore"
)

// highest-to-lowest prestige for game-related badges
var prestigeOrder = []struct {
	badgeType BadgeType
	variant   int
	kind      AwardKind
}{
	{BadgeMastery, VariantHardcore, AwardKindMastered},
	{BadgeMastery, VariantSoftcore, AwardKindCompleted},
	{BadgeGameBeaten, VariantHardcore, AwardKindBeatenHardcore},
	{BadgeGameBeaten, VariantSoftcore, AwardKindBeatenSoftcore},
}

// HighestAwardForGame returns the most prestigious badge a user holds for a
// game, searching the given slice of the user's badges. Returns false if the
// user holds no game-related badge for the subject.
func HighestAwardForGame(badges []*Badge, gameID GameID) (*Badge, AwardKind, bool) {
	subject := SubjectID(gameID)
	for _, p := range prestigeOrder {
		for _, b := range badges {
			if b.Type == p.badgeType && b.SubjectID == subject && b.Variant == p.variant {
				return b, p.kind, true
			}
		}
	}
	return nil, "", false
}
