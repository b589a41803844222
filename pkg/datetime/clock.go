package datetime

import "time"

// Clock supplies the current time to anything that evaluates loans "as of
// now".
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time {
	return time.Now()
}

// FixedClock always returns the same instant.
type FixedClock struct {
	T time.Time
}

// Now returns the fixed instant.
func (c FixedClock) Now() time.Time {
	return c.T
}
