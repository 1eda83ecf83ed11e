package model

import "time"

// UserID uniquely identifies a player across the system
type UserID string

// User represents a tracked player account
type User struct {
	ID   UserID
	Name string

	// APIKeyHash is the bcrypt hash of the user's connect API key
	APIKeyHash string

	// Denormalized "currently playing" fields, refreshed by the session tracker
	LastGameID   GameID
	RichPresence string

	CreatedAt time.Time
	UpdatedAt time.Time
}
