package audio

import (
	"encoding/binary"
	"math"
	"math/cmplx"
)

const (
	analyserSize = 256
	quietLevel   = 5.0

	minDecibels = -100.0
	maxDecibels = -30.0
)

// frequencyLevel returns the mean of the byte-scaled (0..255) magnitude
// spectrum of the last analyserSize samples, like a browser AnalyserNode.
func frequencyLevel(samples []float64) float64 {
	if len(samples) > analyserSize {
		samples = samples[len(samples)-analyserSize:]
	}
	if len(samples) < analyserSize {
		padded := make([]float64, analyserSize)
		copy(padded[analyserSize-len(samples):], samples)
		samples = padded
	}

	windowed := make([]float64, analyserSize)
	for i, s := range samples {
		windowed[i] = s * blackman(i, analyserSize)
	}

	bins := analyserSize / 2
	var sum float64
	for k := 0; k < bins; k++ {
		var x complex128
		for n, s := range windowed {
			angle := -2 * math.Pi * float64(k*n) / analyserSize
			x += complex(s*math.Cos(angle), s*math.Sin(angle))
		}
		sum += byteScale(cmplx.Abs(x) / analyserSize)
	}
	return sum / float64(bins)
}

func blackman(i, n int) float64 {
	const a = 0.16
	a0, a1, a2 := (1-a)/2, 0.5, a/2
	x := float64(i) / float64(n)
	return a0 - a1*math.Cos(2*math.Pi*x) + a2*math.Cos(4*math.Pi*x)
}

func byteScale(magnitude float64) float64 {
	if magnitude <= 0 {
		return 0
	}
	db := 20 * math.Log10(magnitude)
	scaled := 255 * (db - minDecibels) / (maxDecibels - minDecibels)
	return math.Max(0, math.Min(255, scaled))
}

// pcm16Samples decodes little-endian 16-bit PCM, skipping a WAV header
func pcm16Samples(chunk []byte) []float64 {
	if len(chunk) >= 44 && string(chunk[:4]) == "RIFF" && string(chunk[8:12]) == "WAVE" {
		chunk = chunk[44:]
	}
	samples := make([]float64, len(chunk)/2)
	for i := range samples {
		v := int16(binary.LittleEndian.Uint16(chunk[2*i:]))
		samples[i] = float64(v) / 32768
	}
	return samples
}
