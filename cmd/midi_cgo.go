//go:build cgo

package cmd

import (
	"github.com/vsariola/taptempo/gomidi"
	"github.com/vsariola/taptempo/metronome"
)

func NewMIDIContext(broker *metronome.Broker, note int) metronome.MIDIContext {
	return gomidi.NewContext(broker, gomidi.NoteFilter{Note: note})
}
