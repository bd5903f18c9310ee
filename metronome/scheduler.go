package metronome

import (
	"time"

	"github.com/vsariola/taptempo"
)

// Scheduler owns the periodic timer of the metronome. The timer runs if and
// only if the scheduler is active and the tempo is positive; there is never
// more than one.
type Scheduler struct {
	clock    taptempo.Clock
	fire     func()
	active   bool
	bpm      float64
	interval time.Duration
	timer    taptempo.Timer
}

// NewScheduler returns an inactive scheduler calling fire on every beat.
func NewScheduler(clock taptempo.Clock, fire func()) *Scheduler {
	return &Scheduler{clock: clock, fire: fire}
}

// Toggle starts or stops the metronome at the last tempo given to SetBPM.
func (s *Scheduler) Toggle() {
	s.active = !s.active
	s.restart()
}

// SetBPM changes the tempo. While active, the running timer is stopped
// before a new one is started at the new interval, so the new tempo is
// phased from this call. bpm <= 0 only stops the timer.
func (s *Scheduler) SetBPM(bpm float64) {
	s.bpm = bpm
	if s.active {
		s.restart()
	}
}

// Stop stops the timer and deactivates the scheduler.
func (s *Scheduler) Stop() {
	s.active = false
	s.stop()
}

func (s *Scheduler) Active() bool { return s.active }

// Running reports whether a timer is live.
func (s *Scheduler) Running() bool { return s.timer != nil }

// Interval is the period of the live timer, or 0 when there is none.
func (s *Scheduler) Interval() time.Duration { return s.interval }

func (s *Scheduler) restart() {
	s.stop()
	if !s.active || s.bpm <= 0 {
		return
	}
	s.interval = taptempo.BeatInterval(s.bpm)
	s.timer = s.clock.Every(s.interval, s.fire)
}

func (s *Scheduler) stop() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.interval = 0
}
