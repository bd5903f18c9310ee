package gomidi

import "gitlab.com/gomidi/midi/v2"

// NoteFilter decides which MIDI messages count as taps: note-ons with a
// positive velocity, on any note when Note is negative, otherwise only on
// Note.
type NoteFilter struct {
	Note int
}

func (f NoteFilter) IsTap(msg midi.Message) bool {
	var channel, key, velocity uint8
	if !msg.GetNoteOn(&channel, &key, &velocity) || velocity == 0 {
		return false
	}
	return f.Note < 0 || int(key) == f.Note
}
