// Package taptempo contains the types shared by the tap tempo engine and its
// front-ends: the audio cues, the interfaces the engine talks to (AudioSink,
// Display, Clock) and the configuration.
package taptempo

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type (
	// Cue identifies one of the audio clips the metronome can play.
	Cue int

	// Pattern is the cyclic accent pattern: the n:th cue played is
	// pattern[n % len(pattern)].
	Pattern []Cue

	// AudioSink plays cues. Play should never block for long and must not
	// fail loudly: a sink that is not ready simply skips the cue.
	AudioSink interface {
		Play(cue Cue)
		SetMuted(muted bool)
		Muted() bool
	}

	// Display receives the output requests of the engine. bpm == 0 means that
	// no tempo has been established.
	Display interface {
		ShowBPM(bpm float64)
		SetStable(stable bool)
		SetMetronomeActive(active bool)
	}

	// Displays fans the output requests out to several displays.
	Displays []Display

	// Clock abstracts the passing of time so the engine can be driven by a
	// manual clock in tests.
	Clock interface {
		Now() time.Time
		// AfterFunc calls f once after d.
		AfterFunc(d time.Duration, f func()) Timer
		// Every calls f every d until the timer is stopped.
		Every(d time.Duration, f func()) Timer
	}

	// Timer is a pending call scheduled with a Clock. After Stop returns, the
	// callback is never called again.
	Timer interface {
		Stop()
	}

	// Range is a closed interval of tempos.
	Range struct {
		Min, Max float64
	}

	NullAudioSink struct{ muted bool }
	NullDisplay   struct{}
)

const (
	Primary Cue = iota
	Accent
)

// NumCues is the number of distinct cues a sink has to provide.
const NumCues = 2

var cueNames = [NumCues]string{"primary", "accent"}

// DefaultPattern is the accent pattern used when the configuration does not
// give one.
var DefaultPattern = Pattern{Primary, Accent, Accent, Accent, Primary, Accent, Accent, Accent}

func (c Cue) String() string {
	if c >= 0 && int(c) < len(cueNames) {
		return cueNames[c]
	}
	return fmt.Sprintf("cue(%d)", int(c))
}

// Valid reports whether c is one of the known cues.
func (c Cue) Valid() bool {
	return c >= 0 && int(c) < NumCues
}

func (c Cue) MarshalYAML() (any, error) {
	return c.String(), nil
}

// UnmarshalYAML accepts either the name of the cue or its index.
func (c *Cue) UnmarshalYAML(value *yaml.Node) error {
	for i, name := range cueNames {
		if value.Value == name {
			*c = Cue(i)
			return nil
		}
	}
	i, err := strconv.Atoi(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: unknown cue %q", value.Line, value.Value)
	}
	*c = Cue(i)
	return nil
}

// At returns the cue for the n:th firing. An empty pattern always gives
// Primary.
func (p Pattern) At(n uint64) Cue {
	if len(p) == 0 {
		return Primary
	}
	return p[n%uint64(len(p))]
}

func (r Range) Clamp(value float64) float64 {
	return max(min(value, r.Max), r.Min)
}

func (r Range) Contains(value float64) bool {
	return value >= r.Min && value <= r.Max
}

// MaxTempo is the fastest tempo whose beat interval is still a whole
// millisecond.
const MaxTempo = 60000

// BeatInterval returns the period of the metronome at bpm, rounded to the
// nearest millisecond but never below one. bpm <= 0 returns 0.
func BeatInterval(bpm float64) time.Duration {
	if bpm <= 0 {
		return 0
	}
	return time.Duration(max(math.Round(60000/bpm), 1)) * time.Millisecond
}

// RoundBPM is the integer tempo shown to the user.
func RoundBPM(bpm float64) int {
	return int(math.Round(bpm))
}

func (d Displays) ShowBPM(bpm float64) {
	for _, x := range d {
		x.ShowBPM(bpm)
	}
}

func (d Displays) SetStable(stable bool) {
	for _, x := range d {
		x.SetStable(stable)
	}
}

func (d Displays) SetMetronomeActive(active bool) {
	for _, x := range d {
		x.SetMetronomeActive(active)
	}
}

func (s *NullAudioSink) Play(cue Cue)        {}
func (s *NullAudioSink) SetMuted(muted bool) { s.muted = muted }
func (s *NullAudioSink) Muted() bool         { return s.muted }

func (NullDisplay) ShowBPM(bpm float64)            {}
func (NullDisplay) SetStable(stable bool)          {}
func (NullDisplay) SetMetronomeActive(active bool) {}
