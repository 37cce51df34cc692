package util

import "time"

// NowUTC exposes time.Now for deterministic testing.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// FixedClock returns a clock frozen at ts, for tests and replays.
func FixedClock(ts time.Time) func() time.Time {
	return func() time.Time { return ts }
}
