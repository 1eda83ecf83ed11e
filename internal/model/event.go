package model

import "time"

// EventID uniquely identifies an event attached to an event-kind game
type EventID string

// EventTier is one rung of a tiered event award ladder. Tiers are naturally
// ordered by PointsRequired ascending; tier 0 is the lowest non-empty tier.
type EventTier struct {
	TierIndex      int
	Label          string
	PointsRequired int
}

// Event holds the award ladder for a time-windowed event game
type Event struct {
	ID     EventID
	GameID GameID
	Title  string
	Tiers  []EventTier
}

// EventMirror is a time-boxed duplicate of a source achievement used to gate
// event-specific credit. While a mirror is active and not yet unlocked in
// hardcore, the source achievement's hardcore unlock is hidden.
type EventMirror struct {
	AchievementID       AchievementID
	SourceAchievementID AchievementID
	ActiveFrom          time.Time
	ActiveUntil         time.Time
}

// ActiveAt reports whether the mirror's window [ActiveFrom, ActiveUntil)
// contains the given instant
func (m *EventMirror) ActiveAt(now time.Time) bool {
	return !now.Before(m.ActiveFrom) && now.Before(m.ActiveUntil)
}
