package metronome_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vsariola/taptempo/metronome"
)

func TestSchedulerInactiveNeverFires(t *testing.T) {
	clock := newManualClock()
	fired := 0
	s := metronome.NewScheduler(clock, func() { fired++ })
	s.SetBPM(120)
	clock.Advance(10 * time.Second)
	assert.Equal(t, 0, fired)
	assert.False(t, s.Running())
}

func TestSchedulerToggle(t *testing.T) {
	clock := newManualClock()
	fired := 0
	s := metronome.NewScheduler(clock, func() { fired++ })
	s.SetBPM(120)
	s.Toggle()
	assert.True(t, s.Active())
	assert.Equal(t, 500*time.Millisecond, s.Interval())
	clock.Advance(2 * time.Second)
	assert.Equal(t, 4, fired)
	s.Toggle()
	assert.False(t, s.Active())
	assert.False(t, s.Running())
	assert.Empty(t, clock.Periodic())
	clock.Advance(10 * time.Second)
	assert.Equal(t, 4, fired, "no firing after deactivation")
}

func TestSchedulerRetimeKeepsOneTimer(t *testing.T) {
	clock := newManualClock()
	fired := 0
	s := metronome.NewScheduler(clock, func() { fired++ })
	s.SetBPM(60)
	s.Toggle()
	for _, bpm := range []float64{120, 90, 200, 150} {
		clock.Advance(250 * time.Millisecond)
		s.SetBPM(bpm)
		assert.Len(t, clock.Periodic(), 1)
	}
	assert.Equal(t, 0, fired, "each retime restarts the period")
	fired = 0
	clock.Advance(4 * time.Second)
	assert.Equal(t, 10, fired, "150 bpm over 4 s, no duplicate firings")
	assert.Equal(t, 400*time.Millisecond, s.Interval())
}

func TestSchedulerZeroBPMStops(t *testing.T) {
	clock := newManualClock()
	fired := 0
	s := metronome.NewScheduler(clock, func() { fired++ })
	s.SetBPM(120)
	s.Toggle()
	s.SetBPM(0)
	assert.True(t, s.Active())
	assert.False(t, s.Running())
	clock.Advance(5 * time.Second)
	assert.Equal(t, 0, fired)
	s.SetBPM(60)
	clock.Advance(3 * time.Second)
	assert.Equal(t, 3, fired)
}

func TestSchedulerRoundsInterval(t *testing.T) {
	clock := newManualClock()
	s := metronome.NewScheduler(clock, func() {})
	s.SetBPM(90)
	s.Toggle()
	assert.Equal(t, 667*time.Millisecond, s.Interval())
	s.SetBPM(123.4)
	assert.Equal(t, 486*time.Millisecond, s.Interval())
	s.Stop()
	assert.False(t, s.Active())
	assert.Empty(t, clock.Periodic())
}
