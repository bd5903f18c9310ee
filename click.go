package taptempo

import (
	"math"
	"time"

	"github.com/viterin/vek/vek32"
)

// ClickLength is the length of the built-in clicks.
const ClickLength = 30 * time.Millisecond

var clickFrequencies = [NumCues]float64{1760, 880}

// SynthesizeClick returns a mono click: a sine at freq with an exponential
// decay reaching -60 dB at the end.
func SynthesizeClick(sampleRate int, freq float64, length time.Duration) []float32 {
	n := int(int64(length) * int64(sampleRate) / int64(time.Second))
	if n <= 0 {
		return nil
	}
	tone := make([]float32, n)
	env := make([]float32, n)
	decay := math.Log(1000) / float64(n)
	for i := range tone {
		tone[i] = float32(math.Sin(2 * math.Pi * freq * float64(i) / float64(sampleRate)))
		env[i] = float32(math.Exp(-decay * float64(i)))
	}
	vek32.Mul_Inplace(tone, env)
	vek32.MulNumber_Inplace(tone, 0.8)
	return tone
}

// DefaultClick returns the built-in mono buffer for cue.
func DefaultClick(sampleRate int, cue Cue) []float32 {
	freq := clickFrequencies[Primary]
	if cue.Valid() {
		freq = clickFrequencies[cue]
	}
	return SynthesizeClick(sampleRate, freq, ClickLength)
}

// Stereo interleaves a mono buffer into L R L R ...
func Stereo(mono []float32) []float32 {
	ret := make([]float32, 2*len(mono))
	for i, v := range mono {
		ret[2*i] = v
		ret[2*i+1] = v
	}
	return ret
}

// Peak returns the largest absolute sample value of buf.
func Peak(buf []float32) float32 {
	if len(buf) == 0 {
		return 0
	}
	tmp := make([]float32, len(buf))
	copy(tmp, buf)
	vek32.Abs_Inplace(tmp)
	return vek32.Max(tmp)
}
