package metronome

import (
	"errors"
	"time"
)

type (
	// Broker is the channel through which everything outside the model
	// goroutine talks to the Model. At the moment, it is just many-to-one
	// communication to the model.
	//
	// For closing, the broker has two channels: CloseModel and FinishedModel.
	// CloseModel has a capacity of 1, so you can always send an empty message
	// (struct{}{}) to it without blocking. If the channel is already full,
	// someone else has already requested the closure, so dropping the message
	// is fine. FinishedModel is closed when the loop has stopped and the
	// timers are cancelled. Nothing is ever sent to it. You can wait until the
	// loop is done with "<- FinishedModel", which for avoiding deadlocks can be
	// combined with a timeout:
	//    select {
	//      case <-FinishedModel:
	//      case <-time.After(3 * time.Second):
	//    }
	Broker struct {
		ToModel chan any

		CloseModel    chan struct{}
		FinishedModel chan struct{}
	}

	// TapMsg is a tap. A zero At means the time the message is processed.
	TapMsg struct {
		At time.Time
	}

	IncrementMsg  struct{}
	DecrementMsg  struct{}
	ResetMsg      struct{}
	ToggleMsg     struct{}
	ToggleMuteMsg struct{}
	MuteMsg       struct{ Muted bool }

	// StateRequest asks the model for a snapshot of its State. The channel
	// should be buffered; the model never blocks on it.
	StateRequest chan<- State
)

func NewBroker() *Broker {
	return &Broker{
		ToModel:       make(chan any, 1024),
		CloseModel:    make(chan struct{}, 1),
		FinishedModel: make(chan struct{}),
	}
}

var (
	// ErrModelBusy means the request could not be queued because ToModel is
	// full.
	ErrModelBusy = errors.New("model is busy")
	// ErrModelTimeout means the model did not answer in time.
	ErrModelTimeout = errors.New("model did not answer")
)

// RequestState asks the model for its state and waits at most timeout for
// the answer.
func (b *Broker) RequestState(timeout time.Duration) (State, error) {
	c := make(chan State, 1)
	if !TrySend(b.ToModel, any(StateRequest(c))) {
		return State{}, ErrModelBusy
	}
	state, ok := TimeoutReceive(c, timeout)
	if !ok {
		return State{}, ErrModelTimeout
	}
	return state, nil
}

// TrySend is a helper function to send a value to a channel if it is not full.
// It is guaranteed to be non-blocking. Return true if the value was sent, false
// otherwise.
func TrySend[T any](c chan<- T, v T) bool {
	select {
	case c <- v:
	default:
		return false
	}
	return true
}

// TimeoutReceive is a helper function to block until a value is received from a
// channel, or timing out after t. ok will be false if the timeout occurred or
// if the channel is closed.
func TimeoutReceive[T any](c <-chan T, t time.Duration) (v T, ok bool) {
	select {
	case v, ok = <-c:
		return v, ok
	case <-time.After(t):
		return v, false
	}
}
