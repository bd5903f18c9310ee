//go:build !cgo

package cmd

import (
	"github.com/vsariola/taptempo/metronome"
)

func NewMIDIContext(broker *metronome.Broker, note int) metronome.MIDIContext {
	// with no cgo, we cannot use MIDI, so return a null context
	return metronome.NullMIDIContext{}
}
