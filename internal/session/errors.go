package session

import "errors"

var (
	// ErrNotFound is returned when no live entry has the requested ID.
	ErrNotFound = errors.New("session: entry not found")

	// ErrDuplicateID is returned by Add when the ID is already live.
	ErrDuplicateID = errors.New("session: duplicate entry id")

	// ErrThresholdUnsupported is returned when a threshold is requested for an
	// entry whose image is not single-channel.
	ErrThresholdUnsupported = errors.New("session: threshold requires a one-channel image")
)
