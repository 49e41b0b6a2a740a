package clock

import "time"

// Clock provides the current time and can be mocked for testing
type Clock interface {
	Now() time.Time
}

// UTCClock implements Clock using the system clock, normalized to UTC
type UTCClock struct{}

// New creates a new UTCClock
func New() *UTCClock {
	return &UTCClock{}
}

// Now returns the current UTC time
func (c *UTCClock) Now() time.Time {
	return time.Now().UTC()
}
