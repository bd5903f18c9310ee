// Package cmd holds the wiring shared by the taptempo commands.
package cmd

import (
	"io"

	"github.com/sirupsen/logrus"
	"github.com/vsariola/taptempo"
	"github.com/vsariola/taptempo/metronome"
	"github.com/vsariola/taptempo/oscsync"
	"github.com/vsariola/taptempo/oto"
)

// NewAudioSink opens the audio device and starts loading the configured cues.
// If the device cannot be opened, the error is logged and a silent sink is
// returned, so the metronome keeps running without sound. The returned func
// releases the device.
func NewAudioSink(cfg taptempo.Config) (taptempo.AudioSink, func()) {
	sink, context, err := oto.NewContext(cfg.SampleRate)
	if err != nil {
		logrus.WithError(err).Warn("audio disabled")
		return &taptempo.NullAudioSink{}, func() {}
	}
	sink.LoadCues(cfg.Cues, cfg.SampleRate)
	return sink, func() { CloseAll(logrus.StandardLogger(), sink, context) }
}

// CloseAll closes every closer, logging the failures.
func CloseAll(log logrus.FieldLogger, closers ...io.Closer) {
	for _, c := range closers {
		if err := c.Close(); err != nil {
			log.WithError(err).Warn("close failed")
		}
	}
}

// WithOSC wraps sink in an OSC broadcaster when targets are configured. The
// broadcaster is returned as a display too so it hears about tempo changes;
// without targets the display is nil.
func WithOSC(cfg taptempo.Config, sink taptempo.AudioSink) (taptempo.AudioSink, taptempo.Display, error) {
	if len(cfg.OSC.Targets) == 0 {
		return sink, nil, nil
	}
	b, err := oscsync.New(sink, cfg.OSC.Targets)
	if err != nil {
		return nil, nil, err
	}
	return b, b, nil
}

// StartMIDI creates the MIDI context and opens the configured input, if any.
// A missing device is logged, not fatal.
func StartMIDI(broker *metronome.Broker, cfg taptempo.Config) metronome.MIDIContext {
	ctx := NewMIDIContext(broker, cfg.MIDI.Note)
	if cfg.MIDI.Input == "" {
		return ctx
	}
	input, err := metronome.OpenMIDIInput(ctx, cfg.MIDI.Input)
	if err != nil {
		logrus.WithError(err).WithField("support", ctx.Support()).Warn("MIDI input not opened")
		return ctx
	}
	logrus.WithField("input", input.String()).Info("MIDI input opened")
	return ctx
}

// Displays drops the nil entries.
func Displays(displays ...taptempo.Display) taptempo.Displays {
	var ret taptempo.Displays
	for _, d := range displays {
		if d != nil {
			ret = append(ret, d)
		}
	}
	return ret
}
