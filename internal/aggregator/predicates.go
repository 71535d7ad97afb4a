package aggregator

import "time"

// WithinGracePeriod reports whether now still falls inside the initial
// window after start during which signals are intentionally ignored.
func WithinGracePeriod(now, start time.Time, period time.Duration) bool {
	return now.Sub(start) < period
}

// ShouldDebounce reports whether an event at now is close enough to the
// previous one that both belong to the same physical action (a single
// alt-tab produces both a visibility and a blur signal). A zero lastEvent
// never debounces.
func ShouldDebounce(lastEvent, now time.Time, window time.Duration) bool {
	if lastEvent.IsZero() {
		return false
	}
	return now.Sub(lastEvent) < window
}
