package main

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRenderWav(t *testing.T) {
	path := filepath.Join(t.TempDir(), "click.wav")
	_, err := execute(t, "render", "--bpm", "120", "--beats", "4", "-o", path, "--pcm", "--raw=false")
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	// 500 ms beats at 44.1 kHz, stereo, 2 bytes per sample
	frames := 4 * 22050
	require.Len(t, data, 44+frames*2*2)
	assert.Equal(t, "RIFF", string(data[:4]))
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(data[20:22]), "PCM format")
}

func TestRenderRawToStdout(t *testing.T) {
	out, err := execute(t, "render", "--bpm", "60", "--beats", "1", "-o", "-", "--raw", "--pcm=false")
	require.NoError(t, err)
	assert.Len(t, out, 44100*2*4)
}

func TestRenderRejectsTempoOutOfRange(t *testing.T) {
	_, err := execute(t, "render", "--bpm", "301", "-o", filepath.Join(t.TempDir(), "x.wav"))
	assert.Error(t, err)
	_, err = execute(t, "render", "--bpm", "120", "--beats", "0", "-o", filepath.Join(t.TempDir(), "x.wav"))
	assert.Error(t, err)
}

func TestConfigFlag(t *testing.T) {
	config := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(config, []byte("minbpm: 100\ndefaultbpm: 120\n"), 0o644))
	_, err := execute(t, "--config", config, "render", "--bpm", "90", "--beats", "1", "-o", filepath.Join(t.TempDir(), "x.wav"))
	assert.Error(t, err)
	configPath = ""
}

func TestInvalidLogLevel(t *testing.T) {
	_, err := execute(t, "--log-level", "loud", "midi")
	assert.Error(t, err)
	logLevel = "warn"
}

func TestMIDIList(t *testing.T) {
	out, err := execute(t, "--log-level", "warn", "midi")
	require.NoError(t, err)
	assert.Contains(t, out, "MIDI support:")
}
