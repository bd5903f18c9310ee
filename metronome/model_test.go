package metronome_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vsariola/taptempo"
	"github.com/vsariola/taptempo/metronome"
)

type modelFixture struct {
	clock   *manualClock
	sink    *recordingSink
	display *recordingDisplay
	model   *metronome.Model
}

func newFixture() *modelFixture {
	f := &modelFixture{clock: newManualClock(), sink: &recordingSink{}, display: &recordingDisplay{}}
	f.model = metronome.New(taptempo.DefaultConfig(), metronome.NewBroker(), f.clock, f.sink, f.display)
	f.display.Reset()
	return f
}

// tap moves the clock to ms milliseconds after the epoch and taps.
func (f *modelFixture) tap(at int) {
	f.clock.Set(at)
	f.model.Tap(f.clock.Now())
}

func TestTapScenarios(t *testing.T) {
	tests := []struct {
		name string
		taps []int
		bpm  float64
	}{
		{"0,500", []int{0, 500}, 120},
		{"0,1000", []int{0, 1000}, 60},
		{"0,100", []int{0, 100}, 300},
		{"0,3000 is two sessions", []int{0, 3000}, 0},
		{"single tap", []int{0}, 0},
		{"0,500,1250", []int{0, 500, 1250}, 80},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			for _, at := range tt.taps {
				f.tap(at)
			}
			assert.Equal(t, tt.bpm, f.model.BPM())
			assert.Equal(t, len(tt.taps), f.sink.Count(), "every tap plays a cue")
		})
	}
}

func TestSingleTapKeepsTempo(t *testing.T) {
	f := newFixture()
	f.tap(0)
	f.tap(500)
	require.Equal(t, 120.0, f.model.BPM())
	f.tap(5000)
	assert.Equal(t, 120.0, f.model.BPM(), "a lone tap after an idle gap must not change the tempo")
	assert.Equal(t, 1, f.model.State().Taps)
	assert.True(t, f.display.LastStable())
}

func TestTapDisplay(t *testing.T) {
	f := newFixture()
	f.tap(0)
	assert.Equal(t, []bool{false, true}, f.display.stable, "a single tap is immediately stable")
	assert.Empty(t, f.display.bpms)
	f.display.Reset()
	f.tap(500)
	assert.Equal(t, []float64{120}, f.display.bpms)
	assert.Equal(t, []bool{false}, f.display.stable)
	f.clock.Set(1999)
	assert.Equal(t, []bool{false}, f.display.stable)
	f.clock.Set(2000)
	assert.Equal(t, []bool{false, true}, f.display.stable, "stable 1500 ms after the last tap")
	f.clock.Set(10000)
	assert.Equal(t, []bool{false, true}, f.display.stable, "the stability timer fires once")
	assert.True(t, f.model.State().Stable)
}

func TestTapReschedulesStability(t *testing.T) {
	f := newFixture()
	f.tap(0)
	f.tap(500)
	f.tap(1000)
	f.tap(1600)
	f.display.Reset()
	f.clock.Set(3099)
	assert.Empty(t, f.display.stable)
	f.clock.Set(3100)
	assert.Equal(t, []bool{true}, f.display.stable)
}

func TestIncrementDecrement(t *testing.T) {
	f := newFixture()
	f.model.Decrement()
	assert.Equal(t, 0.0, f.model.BPM(), "decrement from idle stays idle")
	assert.Empty(t, f.display.bpms)
	f.model.Increment()
	assert.Equal(t, 60.0, f.model.BPM(), "increment from idle starts at 60")
	assert.Equal(t, []float64{60}, f.display.bpms)
	f.model.Increment()
	assert.Equal(t, 61.0, f.model.BPM())
	f.model.Decrement()
	f.model.Decrement()
	assert.Equal(t, 59.0, f.model.BPM())
}

func TestAdjustBounds(t *testing.T) {
	f := newFixture()
	f.tap(0)
	f.tap(100)
	require.Equal(t, 300.0, f.model.BPM())
	f.display.Reset()
	f.model.Increment()
	assert.Equal(t, 300.0, f.model.BPM())
	assert.Empty(t, f.display.bpms, "no change, no output")
	for i := 0; i < 400; i++ {
		f.model.Decrement()
	}
	assert.Equal(t, 30.0, f.model.BPM())
	for i := 0; i < 400; i++ {
		f.model.Increment()
	}
	assert.Equal(t, 300.0, f.model.BPM())
}

func TestAdjustStability(t *testing.T) {
	f := newFixture()
	f.model.Increment()
	assert.Equal(t, []bool{false}, f.display.stable)
	f.clock.Advance(1500 * time.Millisecond)
	assert.Equal(t, []bool{false, true}, f.display.stable)
}

func TestToggleFromIdle(t *testing.T) {
	f := newFixture()
	f.model.ToggleMetronome()
	assert.Equal(t, 60.0, f.model.BPM())
	assert.Equal(t, []float64{60}, f.display.bpms)
	assert.Equal(t, []bool{true}, f.display.active)
	f.clock.Advance(3 * time.Second)
	assert.Equal(t, 3, f.sink.Count())
}

func TestToggleOffCancelsFirings(t *testing.T) {
	f := newFixture()
	f.tap(0)
	f.tap(500)
	f.model.ToggleMetronome()
	f.clock.Advance(1100 * time.Millisecond)
	before := f.sink.Count()
	assert.Equal(t, 4, before, "two taps and two firings")
	f.model.ToggleMetronome()
	assert.Equal(t, []bool{true, false}, f.display.active)
	f.clock.Advance(10 * time.Second)
	assert.Equal(t, before, f.sink.Count(), "no cue after deactivation")
	assert.Empty(t, f.clock.Periodic())
}

func TestTempoChangeWhileActive(t *testing.T) {
	f := newFixture()
	f.model.ToggleMetronome() // 60 bpm
	f.tap(10000)
	f.tap(10500) // 120 bpm
	assert.Len(t, f.clock.Periodic(), 1)
	f.sink.Reset()
	f.clock.Set(12500)
	assert.Equal(t, 4, f.sink.Count(), "one timer at 500 ms")
	f.model.Increment()
	assert.Len(t, f.clock.Periodic(), 1)
	f.sink.Reset()
	f.clock.Advance(5 * time.Second)
	// 121 bpm -> 496 ms
	assert.Equal(t, 10, f.sink.Count())
}

func TestTapsAndFiringsShareCursor(t *testing.T) {
	f := newFixture()
	f.tap(0)
	f.tap(500)
	f.model.ToggleMetronome()
	f.clock.Set(1500)
	f.tap(1700)
	p, a := taptempo.Primary, taptempo.Accent
	// taps at 0, 500 and 1700; firings at 1000 and 1500
	assert.Equal(t, []taptempo.Cue{p, a, a, a, p}, f.sink.Played())
	assert.Equal(t, uint64(5), f.model.State().Cues)
}

func TestReset(t *testing.T) {
	f := newFixture()
	f.tap(0)
	f.tap(500)
	f.model.ToggleMetronome()
	f.model.Reset()
	assert.Equal(t, 0.0, f.model.BPM())
	assert.Equal(t, 0.0, f.display.LastBPM())
	s := f.model.State()
	assert.True(t, s.Active)
	assert.False(t, s.Running)
	assert.Equal(t, 0, s.Taps)
	assert.Empty(t, s.Session)
	f.sink.Reset()
	f.clock.Advance(5 * time.Second)
	assert.Equal(t, 0, f.sink.Count())
	assert.False(t, f.display.LastStable(), "reset cancels the stability timer")
	f.model.Increment()
	assert.Equal(t, 60.0, f.model.BPM())
	f.clock.Advance(2 * time.Second)
	assert.Equal(t, 2, f.sink.Count(), "firing resumes at 60 bpm")
}

func TestSession(t *testing.T) {
	f := newFixture()
	f.tap(0)
	first := f.model.State().Session
	assert.NotEmpty(t, first)
	f.tap(500)
	assert.Equal(t, first, f.model.State().Session)
	f.tap(3000)
	assert.NotEqual(t, first, f.model.State().Session)
}

func TestMuted(t *testing.T) {
	f := newFixture()
	f.model.SetMuted(true)
	assert.True(t, f.sink.Muted())
	assert.True(t, f.model.Muted().Bool().Value())
	f.model.Muted().Bool().Toggle()
	assert.False(t, f.sink.Muted())
	assert.False(t, f.model.State().Muted)
}

func TestMetronomeBool(t *testing.T) {
	f := newFixture()
	b := f.model.Metronome().Bool()
	b.Set(true)
	assert.True(t, b.Value())
	b.Set(true)
	assert.Equal(t, []bool{true}, f.display.active, "setting the same value does nothing")
	b.Toggle()
	assert.False(t, b.Value())
}

func TestProcessMsg(t *testing.T) {
	f := newFixture()
	f.clock.Set(0)
	f.model.ProcessMsg(metronome.TapMsg{})
	f.model.ProcessMsg(metronome.TapMsg{At: ms(250)})
	assert.Equal(t, 240.0, f.model.BPM())
	f.model.ProcessMsg(metronome.DecrementMsg{})
	assert.Equal(t, 239.0, f.model.BPM())
	f.model.ProcessMsg(metronome.IncrementMsg{})
	f.model.ProcessMsg(metronome.IncrementMsg{})
	assert.Equal(t, 241.0, f.model.BPM())
	f.model.ProcessMsg(metronome.ToggleMsg{})
	assert.True(t, f.model.State().Active)
	f.model.ProcessMsg(metronome.MuteMsg{Muted: true})
	assert.True(t, f.sink.Muted())
	f.model.ProcessMsg(metronome.ToggleMuteMsg{})
	assert.False(t, f.sink.Muted())
	called := false
	f.model.ProcessMsg(func() { called = true })
	assert.True(t, called)
	c := make(chan metronome.State, 1)
	f.model.ProcessMsg(metronome.StateRequest(c))
	s := <-c
	assert.Equal(t, 241.0, s.BPM)
	f.model.ProcessMsg(metronome.ResetMsg{})
	assert.Equal(t, 0.0, f.model.BPM())
	f.model.ProcessMsg("bogus")
}

func TestRun(t *testing.T) {
	broker := metronome.NewBroker()
	clock := metronome.NewLoopClock(broker)
	sink := &recordingSink{}
	m := metronome.New(taptempo.DefaultConfig(), broker, clock, sink, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go m.Run(ctx)
	require.True(t, metronome.TrySend(broker.ToModel, any(metronome.IncrementMsg{})))
	require.True(t, metronome.TrySend(broker.ToModel, any(metronome.ToggleMsg{})))
	s, err := broker.RequestState(time.Second)
	require.NoError(t, err)
	assert.Equal(t, 60.0, s.BPM)
	assert.True(t, s.Active)
	assert.True(t, s.Running)
	broker.CloseModel <- struct{}{}
	select {
	case <-broker.FinishedModel:
	case <-time.After(time.Second):
		t.Fatal("model loop did not finish")
	}
}

func TestSimultaneousTapsAtHugeMaxTempo(t *testing.T) {
	cfg := taptempo.DefaultConfig()
	cfg.MaxBPM = 200000
	broker := metronome.NewBroker()
	m := metronome.New(cfg, broker, metronome.NewLoopClock(broker), nil, nil)
	defer m.Close()
	assert.NotPanics(t, func() {
		m.ToggleMetronome()
		m.Tap(ms(0))
		m.Tap(ms(0))
	})
	assert.Equal(t, 200000.0, m.BPM())
	assert.True(t, m.State().Running)
}
