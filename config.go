package taptempo

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type (
	// Config holds every tunable of the engine and its front-ends. The zero
	// value is not usable; start from DefaultConfig.
	Config struct {
		MinBPM          float64       `yaml:"minbpm"`
		MaxBPM          float64       `yaml:"maxbpm"`
		DefaultBPM      float64       `yaml:"defaultbpm"`
		IdleReset       time.Duration `yaml:"idlereset"`
		StableDelay     time.Duration `yaml:"stabledelay"`
		HistoryCapacity int           `yaml:"historycapacity"`
		Pattern         Pattern       `yaml:"pattern"`
		Cues            CueFiles      `yaml:"cues"`
		SampleRate      int           `yaml:"samplerate"`
		Muted           bool          `yaml:"muted"`
		Language        string        `yaml:"language"`
		StatusFormat    string        `yaml:"statusformat"`
		HTTP            HTTPConfig    `yaml:"http"`
		OSC             OSCConfig     `yaml:"osc"`
		MIDI            MIDIConfig    `yaml:"midi"`
	}

	// CueFiles names the wav files for the cues. An empty name means the
	// built-in synthesized click.
	CueFiles struct {
		Primary string `yaml:"primary"`
		Accent  string `yaml:"accent"`
	}

	HTTPConfig struct {
		Addr           string   `yaml:"addr"`
		AllowedOrigins []string `yaml:"allowedorigins"`
	}

	OSCConfig struct {
		// Targets are host:port addresses receiving tempo and pulses.
		Targets []string `yaml:"targets"`
	}

	MIDIConfig struct {
		// Input is a prefix of the name of the MIDI input to open.
		Input string `yaml:"input"`
		// Note restricts taps to one note number; negative accepts any note.
		Note int `yaml:"note"`
	}
)

//go:embed config.yml
var defaultConfigYaml []byte

// DefaultConfig returns the embedded default configuration.
func DefaultConfig() Config {
	cfg, err := ReadConfig(bytes.NewReader(defaultConfigYaml), Config{})
	if err != nil {
		panic(fmt.Errorf("failed to unmarshal default config: %w", err))
	}
	return cfg
}

// ReadConfig decodes YAML from r on top of base. Unknown keys are an error.
func ReadConfig(r io.Reader, base Config) (Config, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&base); err != nil && !errors.Is(err, io.EOF) {
		return base, fmt.Errorf("could not decode config: %w", err)
	}
	return base, nil
}

// LoadConfig returns the default configuration overridden by the file at
// path. With an empty path, <UserConfigDir>/taptempo/config.yml is used if it
// exists.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return cfg, nil
		}
		path = filepath.Join(configDir, "taptempo", "config.yml")
		if _, err := os.Stat(path); err != nil {
			return cfg, nil
		}
	}
	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("could not open config: %w", err)
	}
	defer f.Close()
	cfg, err = ReadConfig(f, cfg)
	if err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.MinBPM <= 0 {
		return fmt.Errorf("minbpm must be positive, got %v", c.MinBPM)
	}
	if c.MinBPM > c.MaxBPM {
		return fmt.Errorf("minbpm (%v) must not exceed maxbpm (%v)", c.MinBPM, c.MaxBPM)
	}
	if c.MaxBPM > MaxTempo {
		return fmt.Errorf("maxbpm must be at most %v, got %v", MaxTempo, c.MaxBPM)
	}
	if !c.Range().Contains(c.DefaultBPM) {
		return fmt.Errorf("defaultbpm (%v) must be within [%v, %v]", c.DefaultBPM, c.MinBPM, c.MaxBPM)
	}
	if c.IdleReset <= 0 {
		return fmt.Errorf("idlereset must be positive, got %v", c.IdleReset)
	}
	if c.StableDelay <= 0 {
		return fmt.Errorf("stabledelay must be positive, got %v", c.StableDelay)
	}
	if c.HistoryCapacity < 2 {
		return fmt.Errorf("historycapacity must be at least 2, got %v", c.HistoryCapacity)
	}
	if len(c.Pattern) == 0 {
		return errors.New("pattern must not be empty")
	}
	for i, cue := range c.Pattern {
		if !cue.Valid() {
			return fmt.Errorf("pattern[%d]: invalid cue %d", i, int(cue))
		}
	}
	if c.SampleRate <= 0 {
		return fmt.Errorf("samplerate must be positive, got %v", c.SampleRate)
	}
	return nil
}

func (c Config) Range() Range {
	return Range{Min: c.MinBPM, Max: c.MaxBPM}
}

// File returns the configured file for cue, or "" for the built-in click.
func (c CueFiles) File(cue Cue) string {
	switch cue {
	case Primary:
		return c.Primary
	case Accent:
		return c.Accent
	}
	return ""
}
