package testutil

import "math"

// DeterministicSine returns length samples of amplitude*sin(2π·f·n/sr).
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// Square returns the sign of a sine at freqHz, with zero where the sine is
// exactly zero.
func Square(freqHz, sampleRate float64, length int) []float64 {
	out := DeterministicSine(freqHz, sampleRate, 1, length)
	for i, x := range out {
		switch {
		case x > 0:
			out[i] = 1
		case x < 0:
			out[i] = -1
		}
	}
	return out
}

// DC returns length copies of value.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// Ones returns n samples of 1.
func Ones(n int) []float64 { return DC(1, n) }
