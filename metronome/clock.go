package metronome

import (
	"sync"
	"time"

	"github.com/vsariola/taptempo"
)

type (
	// LoopClock is a real-time taptempo.Clock whose callbacks run on the
	// model goroutine: when a timer expires, a func() is posted to
	// Broker.ToModel and the model executes it in ProcessMsg.
	//
	// The timers must be stopped from the model goroutine. A callback that
	// was already posted when Stop was called is dropped when it is
	// dispatched.
	LoopClock struct {
		broker *Broker
	}

	loopTimer struct {
		stopped  bool // only accessed from the model goroutine
		done     chan struct{}
		stopOnce sync.Once
		timer    *time.Timer
		ticker   *time.Ticker
	}
)

func NewLoopClock(broker *Broker) *LoopClock {
	return &LoopClock{broker: broker}
}

func (c *LoopClock) Now() time.Time { return time.Now() }

func (c *LoopClock) AfterFunc(d time.Duration, f func()) taptempo.Timer {
	t := &loopTimer{done: make(chan struct{})}
	t.timer = time.AfterFunc(d, func() { c.post(t, f) })
	return t
}

func (c *LoopClock) Every(d time.Duration, f func()) taptempo.Timer {
	t := &loopTimer{done: make(chan struct{}), ticker: time.NewTicker(d)}
	go func() {
		for {
			select {
			case <-t.ticker.C:
				c.post(t, f)
			case <-t.done:
				return
			}
		}
	}()
	return t
}

func (c *LoopClock) post(t *loopTimer, f func()) {
	g := func() {
		if !t.stopped {
			f()
		}
	}
	select {
	case c.broker.ToModel <- g:
	case <-t.done:
	}
}

func (t *loopTimer) Stop() {
	t.stopped = true
	t.stopOnce.Do(func() {
		close(t.done)
		if t.timer != nil {
			t.timer.Stop()
		}
		if t.ticker != nil {
			t.ticker.Stop()
		}
	})
}
