package oto

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-audio/wav"
)

var ErrInvalidWav = errors.New("not a valid wav file")

// DecodeWav decodes a PCM wav file into a stereo interleaved float buffer at
// sampleRate. Mono files are copied to both channels; channels beyond the
// second are ignored.
func DecodeWav(r io.ReadSeeker, sampleRate int) ([]float32, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return nil, ErrInvalidWav
	}
	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("could not decode wav: %w", err)
	}
	channels := buf.Format.NumChannels
	if channels < 1 {
		return nil, fmt.Errorf("%w: %d channels", ErrInvalidWav, channels)
	}
	bitDepth := buf.SourceBitDepth
	if bitDepth == 0 {
		bitDepth = int(d.BitDepth)
	}
	scale := 1 / float32(int64(1)<<(bitDepth-1))
	offset := 0
	if bitDepth == 8 {
		// 8-bit wav samples are unsigned, silence is 128
		offset = 128
	}
	frames := len(buf.Data) / channels
	stereo := make([]float32, 2*frames)
	for i := 0; i < frames; i++ {
		l := buf.Data[i*channels] - offset
		r := l
		if channels > 1 {
			r = buf.Data[i*channels+1] - offset
		}
		stereo[2*i] = float32(l) * scale
		stereo[2*i+1] = float32(r) * scale
	}
	return Resample(stereo, buf.Format.SampleRate, sampleRate), nil
}

// LoadWav reads a wav file from disk, see DecodeWav.
func LoadWav(path string, sampleRate int) ([]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open cue file: %w", err)
	}
	defer f.Close()
	ret, err := DecodeWav(f, sampleRate)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ret, nil
}

// Resample converts a stereo interleaved buffer from rate from to rate to
// with linear interpolation.
func Resample(stereo []float32, from, to int) []float32 {
	if from == to || from <= 0 || to <= 0 {
		return stereo
	}
	frames := len(stereo) / 2
	outFrames := int(int64(frames) * int64(to) / int64(from))
	ret := make([]float32, 2*outFrames)
	ratio := float64(from) / float64(to)
	for i := 0; i < outFrames; i++ {
		pos := float64(i) * ratio
		j := int(pos)
		frac := float32(pos - float64(j))
		k := min(j+1, frames-1)
		for c := 0; c < 2; c++ {
			a, b := stereo[2*j+c], stereo[2*k+c]
			ret[2*i+c] = a + (b-a)*frac
		}
	}
	return ret
}
