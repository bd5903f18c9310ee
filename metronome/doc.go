// Package metronome implements the tap tempo engine: the tap history, tempo
// estimation, the metronome scheduler, the accent sequencer and the Model that
// ties them together.
//
// The Model is not safe for concurrent use. It is owned by one goroutine,
// which either calls Run or selects on Broker.ToModel itself and passes the
// messages to ProcessMsg. Other goroutines (input devices, HTTP handlers,
// timers) only send messages to the broker. Timers created by LoopClock post
// their callbacks to the same channel, so every state change happens on the
// owning goroutine.
package metronome
