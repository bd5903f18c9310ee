// Package gioui is a single window front-end for the tap tempo model: a large
// tap area showing the tempo, with buttons for adjusting the tempo, toggling
// the metronome and muting.
package gioui

import (
	"image"
	"image/color"
	"strconv"
	"strings"
	"time"

	"gioui.org/app"
	"gioui.org/font/gofont"
	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/io/pointer"
	"gioui.org/io/system"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"github.com/vsariola/taptempo"
	"github.com/vsariola/taptempo/metronome"
	"golang.org/x/exp/shiny/materialdesign/icons"
)

type (
	// TapPad is both the window and a taptempo.Display. The display methods
	// are called by the model, which runs on the window goroutine, so no
	// locking is needed.
	TapPad struct {
		Theme       *material.Theme
		Preferences Preferences

		idleLabel string
		bpm       float64
		stable    bool
		active    bool

		pad       int // tag for the tap area events
		increase  widget.Clickable
		decrease  widget.Clickable
		reset     widget.Clickable
		metronome widget.Clickable
		muted     widget.Bool
	}

	C = layout.Context
	D = layout.Dimensions
)

var (
	backgroundColor = color.NRGBA{R: 18, G: 18, B: 18, A: 255}
	idleColor       = color.NRGBA{R: 48, G: 48, B: 48, A: 255}
	tappedColor     = color.NRGBA{R: 206, G: 147, B: 216, A: 255}
	stableColor     = color.NRGBA{R: 128, G: 222, B: 234, A: 255}
	padTextColor    = color.NRGBA{R: 18, G: 18, B: 18, A: 255}
	activeIconColor = color.NRGBA{R: 206, G: 147, B: 216, A: 255}
	textColor       = color.NRGBA{R: 222, G: 222, B: 222, A: 222}
)

func NewTapPad(lang string, preferences Preferences) *TapPad {
	th := material.NewTheme()
	th.Shaper = text.NewShaper(text.WithCollection(gofont.Collection()))
	th.Palette.Bg = backgroundColor
	th.Palette.Fg = textColor
	th.Palette.ContrastBg = tappedColor
	th.Palette.ContrastFg = padTextColor
	return &TapPad{
		Theme:       th,
		Preferences: preferences,
		idleLabel:   strings.ToUpper(taptempo.IdleLabel(lang)),
	}
}

func (t *TapPad) ShowBPM(bpm float64)            { t.bpm = bpm }
func (t *TapPad) SetStable(stable bool)          { t.stable = stable }
func (t *TapPad) SetMetronomeActive(active bool) { t.active = active }

// Label is the text shown in the tap area.
func (t *TapPad) Label() string {
	if t.bpm == 0 {
		return t.idleLabel
	}
	return strconv.Itoa(taptempo.RoundBPM(t.bpm))
}

func (t *TapPad) Stable() bool { return t.stable }
func (t *TapPad) Active() bool { return t.active }

// Main runs the window and the model loop until the window is closed or a
// close is requested through the broker. It must be called on its own
// goroutine while app.Main runs on the main goroutine.
func (t *TapPad) Main(model *metronome.Model) {
	var ops op.Ops
	broker := model.Broker()
	w := t.newWindow()
	acks := make(chan struct{})
	events := make(chan event.Event)
	go func() {
		for {
			ev := w.Event()
			events <- ev
			<-acks
			if _, ok := ev.(app.DestroyEvent); ok {
				return
			}
		}
	}()
	for {
		select {
		case e := <-broker.ToModel:
			model.ProcessMsg(e)
			w.Invalidate()
		case <-broker.CloseModel:
			w.Perform(system.ActionClose)
		case e := <-events:
			switch e := e.(type) {
			case app.DestroyEvent:
				acks <- struct{}{}
				model.Close()
				close(broker.FinishedModel)
				return
			case app.FrameEvent:
				gtx := app.NewContext(&ops, e)
				t.Layout(gtx, model)
				e.Frame(gtx.Ops)
			}
			acks <- struct{}{}
		}
	}
}

func (t *TapPad) newWindow() *app.Window {
	w := new(app.Window)
	w.Option(app.Title("Tap Tempo"), app.Size(t.Preferences.WindowSize()))
	if t.Preferences.Window.Maximized {
		w.Option(app.Maximized.Option())
	}
	return w
}

func (t *TapPad) Layout(gtx C, model *metronome.Model) D {
	if z := t.Preferences.Zoom; z > 0 {
		gtx.Metric.PxPerDp *= z
		gtx.Metric.PxPerSp *= z
	}
	defer clip.Rect(image.Rectangle{Max: gtx.Constraints.Max}).Push(gtx.Ops).Pop()
	paint.Fill(gtx.Ops, t.Theme.Palette.Bg)
	t.handleKeys(gtx, model)
	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Flexed(1, func(gtx C) D { return t.layoutPad(gtx, model) }),
		layout.Rigid(func(gtx C) D { return t.layoutControls(gtx, model) }),
	)
}

func (t *TapPad) handleKeys(gtx C, model *metronome.Model) {
	for {
		ev, ok := gtx.Event(
			key.Filter{Name: key.NameSpace},
			key.Filter{Name: key.NameReturn},
			key.Filter{Name: key.NameUpArrow},
			key.Filter{Name: key.NameDownArrow},
			key.Filter{Name: "M"},
			key.Filter{Name: "S"},
			key.Filter{Name: "R"},
		)
		if !ok {
			break
		}
		e, ok := ev.(key.Event)
		if !ok || e.State != key.Press {
			continue
		}
		switch e.Name {
		case key.NameSpace, key.NameReturn:
			model.Tap(time.Now())
		case key.NameUpArrow:
			model.Increment()
		case key.NameDownArrow:
			model.Decrement()
		case "M":
			model.Metronome().Bool().Toggle()
		case "S":
			model.Muted().Bool().Toggle()
		case "R":
			model.Reset()
		}
	}
}

func (t *TapPad) layoutPad(gtx C, model *metronome.Model) D {
	for {
		ev, ok := gtx.Event(pointer.Filter{Target: &t.pad, Kinds: pointer.Press})
		if !ok {
			break
		}
		if e, ok := ev.(pointer.Event); ok && e.Kind == pointer.Press {
			model.Tap(time.Now())
		}
	}
	return layout.UniformInset(unit.Dp(16)).Layout(gtx, func(gtx C) D {
		size := gtx.Constraints.Max
		rect := image.Rectangle{Max: size}
		defer clip.UniformRRect(rect, gtx.Dp(unit.Dp(12))).Push(gtx.Ops).Pop()
		paint.Fill(gtx.Ops, t.padColor())
		event.Op(gtx.Ops, &t.pad)
		gtx.Constraints.Min = size
		layout.Center.Layout(gtx, func(gtx C) D {
			return layout.Flex{Axis: layout.Vertical, Alignment: layout.Middle}.Layout(gtx,
				layout.Rigid(func(gtx C) D {
					label := material.H1(t.Theme, t.Label())
					label.Color = padTextColor
					return label.Layout(gtx)
				}),
				layout.Rigid(func(gtx C) D {
					if t.bpm == 0 {
						return D{}
					}
					label := material.Body1(t.Theme, "BPM")
					label.Color = padTextColor
					return label.Layout(gtx)
				}),
			)
		})
		return D{Size: size}
	})
}

func (t *TapPad) padColor() color.NRGBA {
	switch {
	case t.bpm == 0:
		return idleColor
	case t.stable:
		return stableColor
	default:
		return tappedColor
	}
}

func (t *TapPad) layoutControls(gtx C, model *metronome.Model) D {
	for t.decrease.Clicked(gtx) {
		model.Decrement()
	}
	for t.increase.Clicked(gtx) {
		model.Increment()
	}
	for t.reset.Clicked(gtx) {
		model.Reset()
	}
	for t.metronome.Clicked(gtx) {
		model.Metronome().Bool().Toggle()
	}
	if t.muted.Update(gtx) {
		model.Muted().Bool().Set(t.muted.Value)
	}
	t.muted.Value = model.Muted().Bool().Value()
	icon := icons.AVPlayArrow
	if t.active {
		icon = icons.AVStop
	}
	metronomeBtn := material.IconButton(t.Theme, &t.metronome, widgetForIcon(icon), "Metronome")
	metronomeBtn.Background = idleColor
	if t.active {
		metronomeBtn.Color = activeIconColor
	}
	metronomeBtn.Inset = layout.UniformInset(unit.Dp(8))
	mute := material.CheckBox(t.Theme, &t.muted, "Mute")
	mute.Color = textColor
	mute.IconColor = activeIconColor
	return layout.Inset{Left: unit.Dp(16), Right: unit.Dp(16), Bottom: unit.Dp(16)}.Layout(gtx, func(gtx C) D {
		return layout.Flex{Axis: layout.Horizontal, Alignment: layout.Middle, Spacing: layout.SpaceBetween}.Layout(gtx,
			layout.Rigid(t.button(&t.decrease, "−")),
			layout.Rigid(t.button(&t.increase, "+")),
			layout.Rigid(metronomeBtn.Layout),
			layout.Rigid(t.button(&t.reset, "Reset")),
			layout.Rigid(mute.Layout),
		)
	})
}

func (t *TapPad) button(w *widget.Clickable, label string) layout.Widget {
	btn := material.Button(t.Theme, w, label)
	btn.Background = idleColor
	btn.Color = textColor
	btn.Inset = layout.UniformInset(unit.Dp(8))
	return btn.Layout
}
