package metronome

type (
	Bool struct {
		BoolData
	}

	BoolData interface {
		Value() bool
		Enabled() bool
		setValue(bool)
	}

	Muted     Model
	Metronome Model
)

func (v Bool) Toggle() {
	v.Set(!v.Value())
}

func (v Bool) Set(value bool) {
	if v.Enabled() && v.Value() != value {
		v.setValue(value)
	}
}

// Model methods

func (m *Model) Muted() *Muted         { return (*Muted)(m) }
func (m *Model) Metronome() *Metronome { return (*Metronome)(m) }

// Muted methods

func (m *Muted) Bool() Bool          { return Bool{m} }
func (m *Muted) Value() bool         { return m.sink.Muted() }
func (m *Muted) Enabled() bool       { return true }
func (m *Muted) setValue(value bool) { (*Model)(m).SetMuted(value) }

// Metronome methods

func (m *Metronome) Bool() Bool    { return Bool{m} }
func (m *Metronome) Value() bool   { return m.scheduler.Active() }
func (m *Metronome) Enabled() bool { return true }
func (m *Metronome) setValue(bool) { (*Model)(m).ToggleMetronome() }
