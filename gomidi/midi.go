// Package gomidi reads taps from MIDI inputs with the rtmidi driver of
// gitlab.com/gomidi/midi/v2.
package gomidi

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/vsariola/taptempo/metronome"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

type (
	RTMIDIContext struct {
		driver             *rtmididrv.Driver
		broker             *metronome.Broker
		filter             NoteFilter
		log                logrus.FieldLogger
		currentIn          drivers.In
		stopListening      func()
		inputDevices       []RTMIDIDevice
		devicesInitialized bool
	}

	RTMIDIDevice struct {
		context *RTMIDIContext
		in      drivers.In
	}
)

// NewContext opens the driver. Taps are posted to broker. If the driver
// cannot be opened, the context has no inputs and Support reports it.
func NewContext(broker *metronome.Broker, filter NoteFilter) *RTMIDIContext {
	m := RTMIDIContext{broker: broker, filter: filter, log: logrus.WithField("component", "midi")}
	var err error
	if m.driver, err = rtmididrv.New(); err != nil {
		m.log.WithError(err).Warn("no MIDI driver")
		m.driver = nil
	}
	return &m
}

func (m *RTMIDIContext) Inputs(yield func(metronome.MIDIInputDevice) bool) {
	if m.devicesInitialized {
		m.yieldCachedInputDevices(yield)
	} else {
		m.initInputDevices(yield)
	}
}

func (m *RTMIDIContext) yieldCachedInputDevices(yield func(metronome.MIDIInputDevice) bool) {
	for _, device := range m.inputDevices {
		if !yield(device) {
			break
		}
	}
}

func (m *RTMIDIContext) initInputDevices(yield func(metronome.MIDIInputDevice) bool) {
	if m.driver == nil {
		return
	}
	ins, err := m.driver.Ins()
	if err != nil {
		m.log.WithError(err).Warn("cannot list MIDI inputs")
		return
	}
	m.inputDevices = m.inputDevices[:0]
	for _, in := range ins {
		m.inputDevices = append(m.inputDevices, RTMIDIDevice{context: m, in: in})
	}
	m.devicesInitialized = true
	m.yieldCachedInputDevices(yield)
}

func (m *RTMIDIContext) Support() metronome.MIDISupport {
	if m.driver == nil {
		return metronome.MIDISupportNoDriver
	}
	return metronome.MIDISupported
}

func (m *RTMIDIContext) Close() {
	if m.driver == nil {
		return
	}
	m.closeCurrent()
	m.driver.Close()
}

func (m *RTMIDIContext) HasDeviceOpen() bool {
	return m.currentIn != nil && m.currentIn.IsOpen()
}

func (m *RTMIDIContext) closeCurrent() {
	if m.stopListening != nil {
		m.stopListening()
		m.stopListening = nil
	}
	if m.HasDeviceOpen() {
		m.currentIn.Close()
	}
	m.currentIn = nil
}

// HandleMessage is called by the driver on its own goroutine.
func (m *RTMIDIContext) HandleMessage(msg midi.Message, timestampms int32) {
	if !m.filter.IsTap(msg) {
		return
	}
	// if the channel is full, just drop the tap
	if !metronome.TrySend(m.broker.ToModel, any(metronome.TapMsg{})) {
		m.log.Warn("model queue full, MIDI tap dropped")
	}
}

// Open an input device while closing the currently open if necessary.
func (d RTMIDIDevice) Open() error {
	m := d.context
	if m.currentIn == d.in && m.HasDeviceOpen() {
		return nil
	}
	if m.driver == nil {
		return errors.New("no driver available")
	}
	m.closeCurrent()
	if err := d.in.Open(); err != nil {
		return fmt.Errorf("opening MIDI input failed: %w", err)
	}
	stop, err := midi.ListenTo(d.in, m.HandleMessage)
	if err != nil {
		d.in.Close()
		return fmt.Errorf("listening to MIDI input failed: %w", err)
	}
	m.currentIn = d.in
	m.stopListening = stop
	return nil
}

func (d RTMIDIDevice) Close() error {
	if d.context.currentIn == d.in {
		d.context.closeCurrent()
		return nil
	}
	return d.in.Close()
}

func (d RTMIDIDevice) IsOpen() bool { return d.in.IsOpen() }

func (d RTMIDIDevice) String() string { return d.in.String() }
