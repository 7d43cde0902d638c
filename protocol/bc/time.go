package bc

import "time"

// NowMillis returns the current time in milliseconds,
// as defined by the protocol.
func NowMillis() uint64 {
	return Millis(time.Now())
}

// Millis converts a time.Time to a number of milliseconds since 1970.
func Millis(t time.Time) uint64 {
	return uint64(t.UnixNano()) / uint64(time.Millisecond)
}

// DurationMillis converts a time.Duration to a number of milliseconds.
func DurationMillis(d time.Duration) uint64 {
	return uint64(d / time.Millisecond)
}
