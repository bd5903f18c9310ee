package metronome

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/vsariola/taptempo"
)

type (
	// Model is the tap tempo controller. It is only ever touched from one
	// goroutine; see the package documentation.
	Model struct {
		Log logrus.FieldLogger

		clock     taptempo.Clock
		sink      taptempo.AudioSink
		display   taptempo.Display
		broker    *Broker
		history   *History
		estimator Estimator
		scheduler *Scheduler
		sequencer *Sequencer

		bpm         float64
		stable      bool
		stableDelay time.Duration
		stableTimer taptempo.Timer
		session     uuid.UUID
	}

	// State is a snapshot of the model, safe to pass to other goroutines.
	State struct {
		BPM     float64 `json:"bpm"`
		Active  bool    `json:"active"`
		Running bool    `json:"running"`
		Muted   bool    `json:"muted"`
		Stable  bool    `json:"stable"`
		Taps    int     `json:"taps"`
		Cues    uint64  `json:"cues"`
		Session string  `json:"session,omitempty"`
	}
)

// New returns a model with an inactive metronome and no tempo. The broker
// may be nil if the model is driven only by direct method calls.
func New(cfg taptempo.Config, broker *Broker, clock taptempo.Clock, sink taptempo.AudioSink, display taptempo.Display) *Model {
	if sink == nil {
		sink = &taptempo.NullAudioSink{}
	}
	if display == nil {
		display = taptempo.NullDisplay{}
	}
	m := &Model{
		Log:         logrus.WithField("component", "metronome"),
		clock:       clock,
		sink:        sink,
		display:     display,
		broker:      broker,
		history:     NewHistory(cfg.HistoryCapacity, cfg.IdleReset),
		estimator:   Estimator{Range: cfg.Range(), Default: cfg.DefaultBPM},
		sequencer:   NewSequencer(cfg.Pattern, sink),
		stableDelay: cfg.StableDelay,
	}
	m.scheduler = NewScheduler(clock, m.beat)
	sink.SetMuted(cfg.Muted)
	display.ShowBPM(0)
	display.SetMetronomeActive(false)
	return m
}

func (m *Model) Broker() *Broker { return m.broker }

// Tap records a tap at now, plays the next cue immediately and derives a new
// tempo when there are at least two taps in the session.
func (m *Model) Tap(now time.Time) {
	if m.history.Record(now) {
		m.session = uuid.New()
		m.Log.WithField("session", m.session).Debug("new tapping session")
	}
	m.sequencer.AdvanceAndPlay()
	m.setStable(false)
	bpm, ok := m.estimator.Estimate(m.history)
	if !ok {
		m.cancelStable()
		m.setStable(true)
		return
	}
	m.setBPM(bpm)
}

func (m *Model) Increment() { m.adjust(1) }

func (m *Model) Decrement() { m.adjust(-1) }

func (m *Model) adjust(delta float64) {
	bpm := m.estimator.Adjust(m.bpm, delta)
	if bpm == m.bpm {
		return
	}
	m.setStable(false)
	m.setBPM(bpm)
}

// Reset forgets the tempo and the taps. An active metronome stays active but
// is silent until a new tempo is set.
func (m *Model) Reset() {
	m.history.Clear()
	m.cancelStable()
	m.session = uuid.Nil
	m.bpm = 0
	m.setStable(false)
	m.display.ShowBPM(0)
	m.scheduler.SetBPM(0)
}

// ToggleMetronome starts or stops the metronome. Starting without a tempo
// first sets the default tempo.
func (m *Model) ToggleMetronome() {
	if !m.scheduler.Active() && m.bpm <= 0 {
		m.bpm = m.estimator.Adjust(0, 1)
		m.display.ShowBPM(m.bpm)
		m.scheduler.SetBPM(m.bpm)
	}
	m.scheduler.Toggle()
	m.Log.WithFields(logrus.Fields{"active": m.scheduler.Active(), "interval": m.scheduler.Interval()}).Debug("metronome toggled")
	m.display.SetMetronomeActive(m.scheduler.Active())
}

func (m *Model) SetMuted(muted bool) {
	m.sink.SetMuted(muted)
}

func (m *Model) BPM() float64 { return m.bpm }

func (m *Model) State() State {
	s := State{
		BPM:     m.bpm,
		Active:  m.scheduler.Active(),
		Running: m.scheduler.Running(),
		Muted:   m.sink.Muted(),
		Stable:  m.stable,
		Taps:    m.history.Len(),
		Cues:    m.sequencer.Count(),
	}
	if m.session != uuid.Nil {
		s.Session = m.session.String()
	}
	return s
}

// ProcessMsg handles one message received from the broker.
func (m *Model) ProcessMsg(msg any) {
	switch e := msg.(type) {
	case TapMsg:
		at := e.At
		if at.IsZero() {
			at = m.clock.Now()
		}
		m.Tap(at)
	case IncrementMsg:
		m.Increment()
	case DecrementMsg:
		m.Decrement()
	case ResetMsg:
		m.Reset()
	case ToggleMsg:
		m.ToggleMetronome()
	case MuteMsg:
		m.SetMuted(e.Muted)
	case ToggleMuteMsg:
		m.Muted().Bool().Toggle()
	case StateRequest:
		TrySend(e, m.State())
	case func():
		e()
	default:
		m.Log.WithField("msg", msg).Warn("unknown message")
	}
}

// Run processes messages until ctx is done or a close is requested via the
// broker. The timers are stopped before Run returns.
func (m *Model) Run(ctx context.Context) {
	defer close(m.broker.FinishedModel)
	defer m.Close()
	for {
		select {
		case msg := <-m.broker.ToModel:
			m.ProcessMsg(msg)
		case <-m.broker.CloseModel:
			return
		case <-ctx.Done():
			return
		}
	}
}

// Close stops the metronome and the stability timer.
func (m *Model) Close() {
	m.scheduler.Stop()
	m.cancelStable()
}

func (m *Model) beat() {
	cue := m.sequencer.AdvanceAndPlay()
	m.Log.WithField("cue", cue).Trace("beat")
}

func (m *Model) setBPM(bpm float64) {
	m.bpm = bpm
	m.display.ShowBPM(bpm)
	m.scheduleStable()
	m.scheduler.SetBPM(bpm)
}

func (m *Model) setStable(stable bool) {
	m.stable = stable
	m.display.SetStable(stable)
}

func (m *Model) scheduleStable() {
	m.cancelStable()
	m.stableTimer = m.clock.AfterFunc(m.stableDelay, func() {
		m.stableTimer = nil
		m.setStable(true)
	})
}

func (m *Model) cancelStable() {
	if m.stableTimer != nil {
		m.stableTimer.Stop()
		m.stableTimer = nil
	}
}
