package metronome

import (
	"time"

	"github.com/vsariola/taptempo"
)

// Estimator turns tap intervals and manual adjustments into tempos within
// Range. Default is the tempo used when adjusting up from idle (0).
type Estimator struct {
	Range   taptempo.Range
	Default float64
}

// Estimate derives the tempo from the latest interval of h. ok is false with
// fewer than two taps; the caller should then keep the previous tempo.
func (e Estimator) Estimate(h *History) (bpm float64, ok bool) {
	d, ok := h.LatestInterval()
	if !ok {
		return 0, false
	}
	return e.FromInterval(d), true
}

// FromInterval returns 60000 / interval in milliseconds, clamped. A zero or
// negative interval gives the maximum tempo.
func (e Estimator) FromInterval(d time.Duration) float64 {
	ms := float64(d) / float64(time.Millisecond)
	if ms <= 0 {
		return e.Range.Max
	}
	return e.Range.Clamp(60000 / ms)
}

// Adjust applies a manual change of delta BPM. From idle, a decrement stays
// idle and an increment jumps to the default tempo.
func (e Estimator) Adjust(current, delta float64) float64 {
	if current <= 0 {
		if delta > 0 {
			return e.Default
		}
		return 0
	}
	return e.Range.Clamp(current + delta)
}
