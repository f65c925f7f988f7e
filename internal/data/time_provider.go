package data

import "time"

// TimeProvider supplies the current time to repositories so tests can
// pin timestamps.
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider reads the system clock.
type RealTimeProvider struct{}

func (RealTimeProvider) Now() time.Time { return time.Now() }

// FixedTimeProvider always returns the same instant.
type FixedTimeProvider struct {
	Time time.Time
}

func (f FixedTimeProvider) Now() time.Time { return f.Time }
