package metronome_test

import (
	"sort"
	"time"

	"github.com/vsariola/taptempo"
)

type (
	// manualClock only moves when Advance is called. Timers due at the same
	// instant fire in the order they were created.
	manualClock struct {
		now    time.Time
		seq    int
		timers []*manualTimer
	}

	manualTimer struct {
		clock   *manualClock
		at      time.Time
		period  time.Duration
		f       func()
		seq     int
		stopped bool
	}

	recordingSink struct {
		played []taptempo.Cue
		muted  bool
	}

	recordingDisplay struct {
		bpms   []float64
		stable []bool
		active []bool
	}
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func newManualClock() *manualClock {
	return &manualClock{now: epoch}
}

func (c *manualClock) Now() time.Time { return c.now }

func (c *manualClock) AfterFunc(d time.Duration, f func()) taptempo.Timer {
	return c.add(d, 0, f)
}

func (c *manualClock) Every(d time.Duration, f func()) taptempo.Timer {
	return c.add(d, d, f)
}

func (c *manualClock) add(d, period time.Duration, f func()) *manualTimer {
	c.seq++
	t := &manualTimer{clock: c, at: c.now.Add(d), period: period, f: f, seq: c.seq}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves the clock forward by d, firing every timer that comes due.
func (c *manualClock) Advance(d time.Duration) {
	end := c.now.Add(d)
	for {
		live := c.live()
		sort.Slice(live, func(i, j int) bool {
			if live[i].at.Equal(live[j].at) {
				return live[i].seq < live[j].seq
			}
			return live[i].at.Before(live[j].at)
		})
		if len(live) == 0 || live[0].at.After(end) {
			break
		}
		t := live[0]
		c.now = t.at
		if t.period > 0 {
			t.at = t.at.Add(t.period)
		} else {
			t.stopped = true
		}
		t.f()
	}
	c.now = end
}

// Set moves the clock to an absolute offset from the epoch.
func (c *manualClock) Set(ms int) {
	c.Advance(epoch.Add(time.Duration(ms) * time.Millisecond).Sub(c.now))
}

func (c *manualClock) live() []*manualTimer {
	var ret []*manualTimer
	for _, t := range c.timers {
		if !t.stopped {
			ret = append(ret, t)
		}
	}
	return ret
}

// Periodic returns the live periodic timers.
func (c *manualClock) Periodic() []*manualTimer {
	var ret []*manualTimer
	for _, t := range c.live() {
		if t.period > 0 {
			ret = append(ret, t)
		}
	}
	return ret
}

func (t *manualTimer) Stop() { t.stopped = true }

func (s *recordingSink) Play(cue taptempo.Cue)  { s.played = append(s.played, cue) }
func (s *recordingSink) SetMuted(muted bool)    { s.muted = muted }
func (s *recordingSink) Muted() bool            { return s.muted }
func (s *recordingSink) Reset()                 { s.played = nil }
func (s *recordingSink) Count() int             { return len(s.played) }
func (s *recordingSink) Last() taptempo.Cue     { return s.played[len(s.played)-1] }
func (s *recordingSink) Played() []taptempo.Cue { return s.played }

func (d *recordingDisplay) ShowBPM(bpm float64)            { d.bpms = append(d.bpms, bpm) }
func (d *recordingDisplay) SetStable(stable bool)          { d.stable = append(d.stable, stable) }
func (d *recordingDisplay) SetMetronomeActive(active bool) { d.active = append(d.active, active) }

func (d *recordingDisplay) Reset() {
	d.bpms, d.stable, d.active = nil, nil, nil
}

func (d *recordingDisplay) LastBPM() float64 {
	if len(d.bpms) == 0 {
		return -1
	}
	return d.bpms[len(d.bpms)-1]
}

func (d *recordingDisplay) LastStable() bool {
	return len(d.stable) > 0 && d.stable[len(d.stable)-1]
}

func ms(n int) time.Time {
	return epoch.Add(time.Duration(n) * time.Millisecond)
}
