package taptempo

// Render mixes beats cues at bpm into a stereo interleaved buffer, choosing
// the cue of each beat from pattern. clicks holds one stereo interleaved
// buffer per cue; a click longer than the remaining buffer is cut. The
// result is exactly beats * BeatInterval(bpm) long.
func Render(clicks [NumCues][]float32, pattern Pattern, sampleRate int, bpm float64, beats int) []float32 {
	interval := BeatInterval(bpm)
	if interval <= 0 || beats <= 0 {
		return nil
	}
	framesPerBeat := int(interval.Milliseconds()) * sampleRate / 1000
	out := make([]float32, 2*framesPerBeat*beats)
	for n := 0; n < beats; n++ {
		cue := pattern.At(uint64(n))
		if !cue.Valid() {
			continue
		}
		start := 2 * n * framesPerBeat
		dst := out[start:]
		src := clicks[cue]
		if len(src) > len(dst) {
			src = src[:len(dst)]
		}
		for i, v := range src {
			dst[i] += v
		}
	}
	return out
}

// DefaultClicks returns the built-in clicks as stereo buffers, ready for
// Render.
func DefaultClicks(sampleRate int) (ret [NumCues][]float32) {
	for i := range ret {
		ret[i] = Stereo(DefaultClick(sampleRate, Cue(i)))
	}
	return
}
