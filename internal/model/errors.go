package model

import "errors"

// Common errors used across the application
var (
	// Subject errors
	ErrUserNotFound        = errors.New("user not found")
	ErrGameNotFound        = errors.New("game not found")
	ErrAchievementNotFound = errors.New("achievement not found")
	ErrEventNotFound       = errors.New("event not found")

	// Progress errors
	ErrProgressNotFound = errors.New("progress not found")

	// Badge errors
	ErrBadgeNotFound = errors.New("badge not found")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")
)
