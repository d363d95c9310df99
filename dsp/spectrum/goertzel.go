package spectrum

import (
	"fmt"
	"math"
)

// Goertzel evaluates a single DFT term over the samples processed since the
// last Reset. Power is equivalent to |X(f)|^2 of a DFT of the same block.
type Goertzel struct {
	frequency  float64
	sampleRate float64
	coeff      float64
	s0, s1     float64
}

// NewGoertzel creates an analyzer for frequency, which must lie in
// [0, sampleRate/2].
func NewGoertzel(frequency, sampleRate float64) (*Goertzel, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("goertzel: sample rate must be > 0: %v", sampleRate)
	}

	if frequency < 0 || frequency > sampleRate/2 || math.IsNaN(frequency) {
		return nil, fmt.Errorf("goertzel: frequency must be between 0 and sampleRate/2: %v", frequency)
	}

	return &Goertzel{
		frequency:  frequency,
		sampleRate: sampleRate,
		coeff:      2 * math.Cos(2*math.Pi*frequency/sampleRate),
	}, nil
}

// Reset clears the internal state.
func (g *Goertzel) Reset() {
	g.s0 = 0
	g.s1 = 0
}

// ProcessBlock updates the internal state with a block of samples.
func (g *Goertzel) ProcessBlock(input []float64) {
	s0, s1 := g.s0, g.s1

	coeff := g.coeff
	for _, x := range input {
		s := x + coeff*s0 - s1
		s1 = s0
		s0 = s
	}

	g.s0, g.s1 = s0, s1
}

// Power returns the squared magnitude of the frequency component.
func (g *Goertzel) Power() float64 {
	return g.s0*g.s0 + g.s1*g.s1 - g.coeff*g.s0*g.s1
}

// Magnitude returns the magnitude of the frequency component.
func (g *Goertzel) Magnitude() float64 {
	p := g.Power()
	if p <= 0 {
		return 0
	}

	return math.Sqrt(p)
}

// Frequency returns the target frequency.
func (g *Goertzel) Frequency() float64 { return g.frequency }

// HarmonicLevels returns the amplitude of the first count harmonics of
// fundamental in buf (index 0 is the fundamental). Amplitudes are scaled so a
// full-scale sine at a harmonic reads 1. Harmonics above Nyquist read 0.
func HarmonicLevels(buf []float64, fundamental, sampleRate float64, count int) ([]float64, error) {
	if len(buf) == 0 {
		return nil, ErrEmpty
	}
	if fundamental <= 0 || count <= 0 {
		return nil, fmt.Errorf("spectrum: invalid harmonic request f0=%v count=%d", fundamental, count)
	}

	levels := make([]float64, count)
	scale := 2 / float64(len(buf))
	for h := range levels {
		f := fundamental * float64(h+1)
		if f > sampleRate/2 {
			break
		}

		g, err := NewGoertzel(f, sampleRate)
		if err != nil {
			return nil, err
		}

		g.ProcessBlock(buf)
		levels[h] = g.Magnitude() * scale
	}

	return levels, nil
}
