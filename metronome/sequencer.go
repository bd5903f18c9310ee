package metronome

import "github.com/vsariola/taptempo"

// Sequencer picks the cue of each click from the accent pattern. Taps and
// scheduled clicks share the same counter, so they interleave into one
// accent sequence.
type Sequencer struct {
	pattern taptempo.Pattern
	sink    taptempo.AudioSink
	count   uint64
}

func NewSequencer(pattern taptempo.Pattern, sink taptempo.AudioSink) *Sequencer {
	return &Sequencer{pattern: pattern, sink: sink}
}

// AdvanceAndPlay plays the cue at the current position and advances.
func (s *Sequencer) AdvanceAndPlay() taptempo.Cue {
	cue := s.pattern.At(s.count)
	s.sink.Play(cue)
	s.count++
	return cue
}

// CueAt returns the cue of the n:th click without side effects.
func (s *Sequencer) CueAt(n uint64) taptempo.Cue { return s.pattern.At(n) }

// Count is the number of cues played so far.
func (s *Sequencer) Count() uint64 { return s.count }
