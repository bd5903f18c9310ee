// Package oto plays the metronome cues through github.com/ebitengine/oto/v3.
package oto

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/ebitengine/oto/v3"
	"github.com/sirupsen/logrus"
	"github.com/vsariola/taptempo"
)

type (
	// Backend creates players for raw 16-bit little-endian stereo audio.
	Backend interface {
		NewPlayer(r io.Reader) Player
	}

	Player interface {
		Play()
		IsPlaying() bool
		Close() error
	}

	// Sink is a taptempo.AudioSink. Every Play starts a new player, so
	// overlapping clicks are mixed by the backend. The backend and the cue
	// buffers are published asynchronously; until they arrive, cues are
	// skipped.
	Sink struct {
		Log logrus.FieldLogger

		mu      sync.Mutex
		backend Backend
		cues    [taptempo.NumCues][]byte
		players []Player
		muted   bool
	}

	OtoContext struct {
		context *oto.Context
	}
)

func NewSink() *Sink {
	return &Sink{Log: logrus.WithField("component", "oto")}
}

// NewContext opens the audio device. The returned sink skips cues until the
// device is ready.
func NewContext(sampleRate int) (*Sink, *OtoContext, error) {
	context, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("cannot create oto context: %w", err)
	}
	s := NewSink()
	c := &OtoContext{context: context}
	go func() {
		<-ready
		s.SetBackend(c)
	}()
	return s, c, nil
}

func (c *OtoContext) NewPlayer(r io.Reader) Player {
	return c.context.NewPlayer(r)
}

// Close suspends the device; oto contexts cannot be closed.
func (c *OtoContext) Close() error {
	if err := c.context.Suspend(); err != nil {
		return fmt.Errorf("cannot suspend oto context: %w", err)
	}
	return nil
}

func (s *Sink) SetBackend(b Backend) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.backend = b
}

// SetCue publishes the audio of cue as a stereo interleaved float buffer.
func (s *Sink) SetCue(cue taptempo.Cue, stereo []float32) {
	if !cue.Valid() {
		return
	}
	pcm := FloatBufferTo16BitLE(stereo, make([]byte, 0, 2*len(stereo)))
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cues[cue] = pcm
}

// LoadCues loads the cue files in the background. Cues without a file get
// the built-in click. Failures are logged and leave the cue silent.
func (s *Sink) LoadCues(files taptempo.CueFiles, sampleRate int) *sync.WaitGroup {
	var wg sync.WaitGroup
	for i := 0; i < taptempo.NumCues; i++ {
		cue := taptempo.Cue(i)
		wg.Add(1)
		go func() {
			defer wg.Done()
			file := files.File(cue)
			if file == "" {
				s.SetCue(cue, taptempo.Stereo(taptempo.DefaultClick(sampleRate, cue)))
				return
			}
			buf, err := LoadWav(file, sampleRate)
			if err != nil {
				s.Log.WithError(err).WithField("cue", cue).Error("loading cue failed")
				return
			}
			s.SetCue(cue, buf)
			s.Log.WithFields(logrus.Fields{"cue": cue, "file": file}).Debug("cue loaded")
		}()
	}
	return &wg
}

// Play starts cue. It is skipped when the device is not ready, the cue is
// not loaded or the sink is muted.
func (s *Sink) Play(cue taptempo.Cue) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prune()
	log := s.Log.WithField("cue", cue)
	switch {
	case s.backend == nil:
		log.Debug("audio device not ready, cue skipped")
		return
	case !cue.Valid() || s.cues[cue] == nil:
		log.Debug("cue not loaded, skipped")
		return
	case s.muted:
		log.Debug("muted, cue skipped")
		return
	}
	p := s.backend.NewPlayer(bytes.NewReader(s.cues[cue]))
	p.Play()
	s.players = append(s.players, p)
}

func (s *Sink) SetMuted(muted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.muted = muted
}

func (s *Sink) Muted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.muted
}

// Close closes all players.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var firstErr error
	for _, p := range s.players {
		if err := p.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("cannot close oto player: %w", err)
		}
	}
	s.players = nil
	return firstErr
}

// Playing returns the number of players that have not been pruned yet.
func (s *Sink) Playing() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.players)
}

func (s *Sink) prune() {
	live := s.players[:0]
	for _, p := range s.players {
		if p.IsPlaying() {
			live = append(live, p)
			continue
		}
		if err := p.Close(); err != nil {
			s.Log.WithError(err).Warn("cannot close oto player")
		}
	}
	clear(s.players[len(live):])
	s.players = live
}
