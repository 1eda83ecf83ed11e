package model

import "time"

// Unlock records a user's progress on a single achievement. The softcore and
// hardcore timestamps are independent; either may be set without the other.
type Unlock struct {
	UserID        UserID
	AchievementID AchievementID
	GameID        GameID

	UnlockedAt         *time.Time
	UnlockedHardcoreAt *time.Time
}

// HasSoftcore reports whether the achievement was unlocked in softcore
func (u *Unlock) HasSoftcore() bool {
	return u.UnlockedAt != nil
}

// HasHardcore reports whether the achievement was unlocked in hardcore
func (u *Unlock) HasHardcore() bool {
	return u.UnlockedHardcoreAt != nil
}
