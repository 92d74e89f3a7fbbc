package haptics

import (
	"encoding/binary"
	"math"
)

// Click synthesis parameters. A short decaying sine reads as a mechanical
// detent on most speakers.
const (
	clickFrequency = 2200.0
	clickDuration  = 0.012
	clickDecay     = 400.0
)

// Click renders one mono click at intensity in [0,1].
func Click(intensity float64, sampleRate int) []int16 {
	intensity = math.Max(0, math.Min(1, intensity))
	if intensity == 0 || sampleRate <= 0 {
		return nil
	}

	n := int(clickDuration * float64(sampleRate))
	out := make([]int16, n)
	amp := intensity * math.MaxInt16

	for i := range out {
		t := float64(i) / float64(sampleRate)
		out[i] = int16(amp * math.Exp(-clickDecay*t) * math.Sin(2*math.Pi*clickFrequency*t))
	}

	return out
}

// Int16ToBytes writes samples as S16LE into dst and returns the number of
// bytes written. Samples that do not fit are ignored.
func Int16ToBytes(dst []byte, samples []int16) int {
	n := min(len(samples), len(dst)/2)
	for i := range n {
		binary.LittleEndian.PutUint16(dst[i*2:], uint16(samples[i]))
	}

	return n * 2
}
