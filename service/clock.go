package service

import "time"

// Clock supplies the current time. The mining service never reads the wall
// clock directly so tests can drive eligibility with synthetic timestamps.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

// NewClock returns a Clock backed by the system wall clock.
func NewClock() Clock {
	return systemClock{}
}
