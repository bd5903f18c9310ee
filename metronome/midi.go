package metronome

import (
	"errors"
	"fmt"
	"strings"
)

type (
	// MIDIContext lists the MIDI inputs. Opened inputs post a TapMsg to the
	// broker for every accepted note-on.
	MIDIContext interface {
		Inputs(yield func(input MIDIInputDevice) bool)
		Close()
		Support() MIDISupport
	}

	MIDIInputDevice interface {
		Open() error
		Close() error
		IsOpen() bool
		String() string
	}

	MIDISupport int

	NullMIDIContext struct{}
)

const (
	MIDISupportNotCompiled MIDISupport = iota
	MIDISupportNoDriver
	MIDISupported
)

var ErrNoMIDIInput = errors.New("no matching MIDI input")

func (s MIDISupport) String() string {
	switch s {
	case MIDISupportNotCompiled:
		return "not compiled (built without cgo)"
	case MIDISupportNoDriver:
		return "no driver"
	case MIDISupported:
		return "supported"
	}
	return fmt.Sprintf("MIDISupport(%d)", int(s))
}

// OpenMIDIInput opens the first input whose name starts with namePrefix. An
// empty prefix opens the first input.
func OpenMIDIInput(ctx MIDIContext, namePrefix string) (MIDIInputDevice, error) {
	for input := range ctx.Inputs {
		if !strings.HasPrefix(input.String(), namePrefix) {
			continue
		}
		if err := input.Open(); err != nil {
			return nil, fmt.Errorf("opening MIDI input %q failed: %w", input.String(), err)
		}
		return input, nil
	}
	return nil, fmt.Errorf("%w starting with %q", ErrNoMIDIInput, namePrefix)
}

func (m NullMIDIContext) Inputs(yield func(input MIDIInputDevice) bool) {}
func (m NullMIDIContext) Close()                                        {}
func (m NullMIDIContext) Support() MIDISupport                          { return MIDISupportNotCompiled }
