package model

import "time"

// SessionID uniquely identifies a play session
type SessionID string

// PlaySession is a rolling record of a user's active-play window on a game.
// A session is considered open while its last-active time is within the
// tracker's inactivity window; after that a new ping opens a fresh session.
type PlaySession struct {
	ID         SessionID
	UserID     UserID
	GameID     GameID
	GameHashID GameHashID

	// Duration is the accumulated play time in whole minutes.
	// It never decreases.
	Duration int

	RichPresence string
	UserAgent    string

	StartedAt    time.Time
	LastActiveAt time.Time
}
