// Package oscsync broadcasts the tempo and the metronome clicks with the
// oscsync protocol, so that other programs can follow the tapped tempo.
package oscsync

import (
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/hypebeast/go-osc/osc"
	"github.com/sirupsen/logrus"
	"github.com/vsariola/taptempo"
)

// OSC addresses.
const (
	AddressPulse = "/sync/pulse"
	AddressTempo = "/sync/tempo"
)

// TempoDebounce is how long tempo changes are coalesced before a
// /sync/tempo message is sent.
const TempoDebounce = 100 * time.Millisecond

type (
	Sender interface {
		Send(packet osc.Packet) error
	}

	// Broadcaster is a taptempo.Display that sends the tempo, and an
	// AudioSink that sends a /sync/pulse for every cue before passing it to
	// the wrapped sink. Pulses are sent even when the sink is muted.
	Broadcaster struct {
		Log logrus.FieldLogger

		sink      taptempo.AudioSink
		targets   []Sender
		debounced func(f func())

		mu    sync.Mutex
		tempo float32
		count int32
	}
)

// New creates a broadcaster sending to host:port targets over UDP.
func New(sink taptempo.AudioSink, targets []string) (*Broadcaster, error) {
	senders := make([]Sender, 0, len(targets))
	for _, t := range targets {
		host, portStr, err := net.SplitHostPort(t)
		if err != nil {
			return nil, fmt.Errorf("invalid OSC target %q: %w", t, err)
		}
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid OSC port in %q: %w", t, err)
		}
		senders = append(senders, osc.NewClient(host, port))
	}
	return NewWithSenders(sink, senders, TempoDebounce), nil
}

func NewWithSenders(sink taptempo.AudioSink, senders []Sender, delay time.Duration) *Broadcaster {
	if sink == nil {
		sink = &taptempo.NullAudioSink{}
	}
	return &Broadcaster{
		Log:       logrus.WithField("component", "oscsync"),
		sink:      sink,
		targets:   senders,
		debounced: debounce.New(delay),
	}
}

func (b *Broadcaster) Play(cue taptempo.Cue) {
	b.mu.Lock()
	msg := osc.NewMessage(AddressPulse, b.tempo, b.count)
	b.count++
	b.mu.Unlock()
	b.send(msg)
	b.sink.Play(cue)
}

func (b *Broadcaster) SetMuted(muted bool) { b.sink.SetMuted(muted) }
func (b *Broadcaster) Muted() bool         { return b.sink.Muted() }

func (b *Broadcaster) ShowBPM(bpm float64) {
	b.mu.Lock()
	b.tempo = float32(bpm)
	b.mu.Unlock()
	b.debounced(b.sendTempo)
}

func (b *Broadcaster) SetStable(stable bool)          {}
func (b *Broadcaster) SetMetronomeActive(active bool) {}

func (b *Broadcaster) sendTempo() {
	b.mu.Lock()
	msg := osc.NewMessage(AddressTempo, b.tempo)
	b.mu.Unlock()
	b.send(msg)
}

func (b *Broadcaster) send(msg *osc.Message) {
	for _, t := range b.targets {
		if err := t.Send(msg); err != nil {
			b.Log.WithError(err).WithField("address", msg.Address).Debug("OSC send failed")
		}
	}
}
