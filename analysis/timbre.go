package analysis

import (
	"math"

	"github.com/cwbudde/algo-synth/dsp/spectrum"
)

// RolloffFraction is the share of spectral energy below Timbre.Rolloff.
const RolloffFraction = 0.85

// Timbre holds shape descriptors of a magnitude spectrum.
type Timbre struct {
	Centroid  float64 // Hz, magnitude weighted
	Spread    float64 // Hz, standard deviation around the centroid
	Flatness  float64 // geometric over arithmetic mean, DC excluded, 0..1
	Rolloff   float64 // Hz
	Bandwidth float64 // Hz, -3 dB width around the strongest bin
}

// DescribeSpectrum computes the shape descriptors of s.
func DescribeSpectrum(s spectrum.Spectrum) Timbre {
	mag := s.Magnitude
	if len(mag) < 2 {
		return Timbre{}
	}

	var sum, energy, weighted float64
	for k, v := range mag {
		sum += v
		energy += v * v
		weighted += s.Frequency(float64(k)) * v
	}
	if sum == 0 {
		return Timbre{}
	}

	t := Timbre{Centroid: weighted / sum}

	var sq float64
	for k, v := range mag {
		d := s.Frequency(float64(k)) - t.Centroid
		sq += d * d * v
	}
	t.Spread = math.Sqrt(sq / sum)
	t.Flatness = flatness(mag)
	t.Rolloff = rolloff(s, energy)
	t.Bandwidth = bandwidth(s)
	return t
}

func flatness(mag []float64) float64 {
	var lin, logSum float64
	for _, v := range mag[1:] {
		if v <= 0 {
			return 0
		}
		lin += v
		logSum += math.Log(v)
	}

	n := float64(len(mag) - 1)
	return math.Exp(logSum/n) / (lin / n)
}

func rolloff(s spectrum.Spectrum, energy float64) float64 {
	threshold := RolloffFraction * energy
	cum := 0.0
	for k, v := range s.Magnitude {
		cum += v * v
		if cum >= threshold {
			return s.Frequency(float64(k))
		}
	}
	return s.Frequency(float64(len(s.Magnitude) - 1))
}

func bandwidth(s spectrum.Spectrum) float64 {
	mag := s.Magnitude
	peak := 0
	for k, v := range mag {
		if v > mag[peak] {
			peak = k
		}
	}
	if mag[peak] == 0 {
		return 0
	}

	threshold := mag[peak] / math.Sqrt2

	lower := 0.0
	for k := peak; k >= 1; k-- {
		if mag[k-1] <= threshold {
			lower = crossing(k-1, mag[k-1], mag[k], threshold)
			break
		}
	}

	upper := float64(len(mag) - 1)
	for k := peak; k < len(mag)-1; k++ {
		if mag[k+1] <= threshold {
			upper = crossing(k, mag[k], mag[k+1], threshold)
			break
		}
	}

	return max(0, s.Frequency(upper)-s.Frequency(lower))
}

// crossing returns the fractional bin between k and k+1 where the linear
// interpolation of a and b meets threshold.
func crossing(k int, a, b, threshold float64) float64 {
	if a == b {
		return float64(k) + 0.5
	}
	return float64(k) + (threshold-a)/(b-a)
}
