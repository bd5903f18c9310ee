// Package console is a terminal front-end: a one-line status display and a
// line based keyboard reader.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig"
	"github.com/vsariola/taptempo"
	"github.com/vsariola/taptempo/metronome"
)

type (
	// Status is the data given to the status line template.
	Status struct {
		BPM       float64
		IdleLabel string
		Stable    bool
		Active    bool
		Muted     bool
		Cue       string
	}

	// Display renders the status line to a terminal on every change. It also
	// wraps the AudioSink to show the last cue played. It must only be used
	// from the model goroutine.
	Display struct {
		w      io.Writer
		tmpl   *template.Template
		sink   taptempo.AudioSink
		status Status
		last   string
	}
)

var ErrQuit = errors.New("quit")

// Help describes the keys understood by ReadInput.
const Help = "enter/space: tap  +/-: adjust  m: metronome  s: mute  r: reset  q: quit"

func New(w io.Writer, format, lang string, sink taptempo.AudioSink) (*Display, error) {
	tmpl, err := template.New("status").Funcs(sprig.TxtFuncMap()).Parse(format)
	if err != nil {
		return nil, fmt.Errorf("invalid status format: %w", err)
	}
	if sink == nil {
		sink = &taptempo.NullAudioSink{}
	}
	return &Display{
		w:      w,
		tmpl:   tmpl,
		sink:   sink,
		status: Status{IdleLabel: taptempo.IdleLabel(lang), Muted: sink.Muted()},
	}, nil
}

// Line renders the current status.
func (d *Display) Line() (string, error) {
	var b strings.Builder
	if err := d.tmpl.Execute(&b, d.status); err != nil {
		return "", fmt.Errorf("rendering status failed: %w", err)
	}
	return b.String(), nil
}

func (d *Display) render() {
	line, err := d.Line()
	if err != nil {
		line = err.Error()
	}
	if line == d.last {
		return
	}
	d.last = line
	fmt.Fprintf(d.w, "\r%s\033[K", line)
}

func (d *Display) ShowBPM(bpm float64) {
	d.status.BPM = bpm
	d.render()
}

func (d *Display) SetStable(stable bool) {
	d.status.Stable = stable
	d.render()
}

func (d *Display) SetMetronomeActive(active bool) {
	d.status.Active = active
	d.render()
}

func (d *Display) Play(cue taptempo.Cue) {
	d.sink.Play(cue)
	d.status.Cue = cue.String()
	d.render()
}

func (d *Display) SetMuted(muted bool) {
	d.sink.SetMuted(muted)
	d.status.Muted = muted
	d.render()
}

func (d *Display) Muted() bool { return d.sink.Muted() }

// ReadInput reads commands from r, one or more per line, and posts them to
// the broker until r ends, ctx is done or a quit command is read. An empty
// line is a tap.
func ReadInput(ctx context.Context, r io.Reader, broker *metronome.Broker) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := scanner.Text()
		if line == "" {
			metronome.TrySend(broker.ToModel, any(metronome.TapMsg{}))
			continue
		}
		for _, c := range line {
			var msg any
			switch c {
			case ' ':
				msg = metronome.TapMsg{}
			case '+', '=':
				msg = metronome.IncrementMsg{}
			case '-', '_':
				msg = metronome.DecrementMsg{}
			case 'm', 'M':
				msg = metronome.ToggleMsg{}
			case 's', 'S':
				msg = metronome.ToggleMuteMsg{}
			case 'r', 'R':
				msg = metronome.ResetMsg{}
			case 'q', 'Q':
				return ErrQuit
			default:
				continue
			}
			metronome.TrySend(broker.ToModel, msg)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input failed: %w", err)
	}
	return nil
}
