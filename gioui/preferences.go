package gioui

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"gioui.org/unit"
	"gopkg.in/yaml.v3"
)

type (
	Preferences struct {
		Window WindowPreferences `yaml:"window"`
		Zoom   float32           `yaml:"zoom"`
	}

	WindowPreferences struct {
		Width     int  `yaml:"width"`
		Height    int  `yaml:"height"`
		Maximized bool `yaml:"maximized,omitempty"`
	}
)

//go:embed preferences.yml
var defaultPreferencesYaml []byte

func loadDefaultPreferences() Preferences {
	var preferences Preferences
	if err := decodeStrict(defaultPreferencesYaml, &preferences); err != nil {
		panic(fmt.Errorf("failed to unmarshal preferences: %w", err))
	}
	return preferences
}

func decodeStrict(data []byte, target any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(target); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// MakePreferences returns the embedded defaults, overridden by
// taptempo/preferences.yml in the user config directory when it exists. A
// broken user file is reported as a warning alongside the defaults.
func MakePreferences() (Preferences, error) {
	preferences := loadDefaultPreferences()
	configDir, err := os.UserConfigDir()
	if err != nil {
		return preferences, nil
	}
	data, err := os.ReadFile(filepath.Join(configDir, "taptempo", "preferences.yml"))
	if errors.Is(err, fs.ErrNotExist) {
		return preferences, nil
	}
	if err != nil {
		return preferences, err
	}
	custom := preferences
	if err := decodeStrict(data, &custom); err != nil {
		return preferences, fmt.Errorf("invalid preferences.yml: %w", err)
	}
	return custom, nil
}

func (p Preferences) WindowSize() (unit.Dp, unit.Dp) {
	return unit.Dp(p.Window.Width), unit.Dp(p.Window.Height)
}
