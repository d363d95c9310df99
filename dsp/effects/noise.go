package effects

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

// NoiseOption configures a Noise stage.
type NoiseOption func(*Noise)

// WithNoiseRand sets the random source. A nil source is ignored.
func WithNoiseRand(rng *rand.Rand) NoiseOption {
	return func(n *Noise) {
		if rng != nil {
			n.rng = rng
		}
	}
}

// Noise adds zero-mean Gaussian noise with a fixed standard deviation.
// It is not safe for concurrent use.
type Noise struct {
	stdDev float64
	rng    *rand.Rand
}

// NewNoise creates a noise stage with the given standard deviation (>= 0).
func NewNoise(stdDev float64, opts ...NoiseOption) (*Noise, error) {
	if stdDev < 0 || math.IsNaN(stdDev) || math.IsInf(stdDev, 0) {
		return nil, fmt.Errorf("noise level must be >= 0 and finite: %f", stdDev)
	}

	n := &Noise{stdDev: stdDev}
	for _, opt := range opts {
		if opt != nil {
			opt(n)
		}
	}
	if n.rng == nil {
		n.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return n, nil
}

// ProcessInPlace adds one noise draw to every sample of buf.
func (n *Noise) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] += n.rng.NormFloat64() * n.stdDev
	}
}

// StdDev returns the noise standard deviation.
func (n *Noise) StdDev() float64 { return n.stdDev }
