package metronome

import "time"

// History holds the most recent taps of the current tapping session.
type History struct {
	capacity  int
	idleReset time.Duration
	taps      []time.Time
}

func NewHistory(capacity int, idleReset time.Duration) *History {
	return &History{capacity: capacity, idleReset: idleReset, taps: make([]time.Time, 0, capacity+1)}
}

// Record appends a tap. If more than idleReset has passed since the previous
// tap, the history is cleared first. The oldest tap is evicted when the
// capacity is exceeded. Returns true if the tap started a new session.
func (h *History) Record(now time.Time) (newSession bool) {
	if n := len(h.taps); n > 0 && now.Sub(h.taps[n-1]) > h.idleReset {
		h.taps = h.taps[:0]
	}
	newSession = len(h.taps) == 0
	h.taps = append(h.taps, now)
	if len(h.taps) > h.capacity {
		copy(h.taps, h.taps[1:])
		h.taps = h.taps[:len(h.taps)-1]
	}
	return newSession
}

// LatestInterval returns the time between the two most recent taps, rounded
// to milliseconds. ok is false with fewer than two taps.
func (h *History) LatestInterval() (d time.Duration, ok bool) {
	n := len(h.taps)
	if n < 2 {
		return 0, false
	}
	return h.taps[n-1].Sub(h.taps[n-2]).Round(time.Millisecond), true
}

func (h *History) Len() int { return len(h.taps) }

func (h *History) Clear() { h.taps = h.taps[:0] }

// Taps returns a copy of the recorded taps, oldest first.
func (h *History) Taps() []time.Time {
	return append([]time.Time(nil), h.taps...)
}
