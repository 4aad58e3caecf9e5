package state

import "time"

// Clock supplies wall-clock time to the snapshot store and effect
// registries. Production code uses SystemClock; tests substitute the
// manual clock from internal/testutil so expiry math is deterministic.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time {
	return time.Now()
}

// unixMilli converts a clock reading to the millisecond timeline all
// expiry instants live on.
func unixMilli(c Clock) int64 {
	return c.Now().UnixMilli()
}
