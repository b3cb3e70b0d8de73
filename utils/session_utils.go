package utils

import "github.com/google/uuid"

// NewSessionID returns a fresh id used to correlate telemetry from one
// running session.
func NewSessionID() string {
	return uuid.NewString()
}

// NewEventID returns a unique id for a stored telemetry row.
func NewEventID() string {
	return uuid.NewString()
}
