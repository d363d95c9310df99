package signal

import (
	"math"
	"math/rand"
	"time"

	"github.com/cwbudde/algo-vecmath"
)

const (
	customSineWeight  = 0.7
	customNoiseWeight = 0.3
)

// Generator is the oscillator bank. It renders periodic and noise shapes over
// a TimeBase. A Generator is not safe for concurrent use because it owns a
// random source.
type Generator struct {
	rng *rand.Rand
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets a deterministic random seed for the noise-bearing shapes.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.rng = rand.New(rand.NewSource(seed))
	}
}

// WithRand installs an existing random source.
func WithRand(rng *rand.Rand) Option {
	return func(g *Generator) {
		if rng != nil {
			g.rng = rng
		}
	}
}

// NewGenerator creates an oscillator bank. Without WithSeed or WithRand the
// random source is seeded from the clock.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return g
}

// Rand returns the generator's random source.
func (g *Generator) Rand() *rand.Rand { return g.rng }

// Generate renders shape at freqHz over tb. The result always has tb.Len()
// samples. Non-positive frequencies are not rejected.
func (g *Generator) Generate(shape Shape, tb *TimeBase, freqHz float64) []float64 {
	out := make([]float64, tb.Len())
	g.GenerateInto(out, shape, tb, freqHz)
	return out
}

// GenerateInto renders shape into dst, which must have tb.Len() samples.
func (g *Generator) GenerateInto(dst []float64, shape Shape, tb *TimeBase, freqHz float64) {
	t := tb.Instants()
	_ = dst[len(t)-1]

	w := 2 * math.Pi * freqHz

	switch shape {
	case ShapeSquare:
		for i, ti := range t {
			dst[i] = Square(w * ti)
		}
	case ShapeSawtooth:
		for i, ti := range t {
			dst[i] = Sawtooth(w*ti, 1)
		}
	case ShapeTriangle:
		for i, ti := range t {
			dst[i] = Sawtooth(w*ti, 0.5)
		}
	case ShapeNoise:
		for i := range t {
			dst[i] = g.rng.NormFloat64()
		}
	case ShapeCustom:
		for i, ti := range t {
			dst[i] = customSineWeight * math.Sin(w*ti)
		}
		for i := range t {
			dst[i] += customNoiseWeight * g.rng.NormFloat64()
		}
	default:
		for i, ti := range t {
			dst[i] = math.Sin(w * ti)
		}
	}
}

// Gaussian returns n independent normal samples with mean 0 and the given
// standard deviation.
func (g *Generator) Gaussian(n int, stdDev float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = stdDev * g.rng.NormFloat64()
	}
	return out
}

// Square is a bipolar square wave of the phase: +1 on the first half of each
// 2π period and -1 on the second.
func Square(phase float64) float64 {
	if wrapPhase(phase) < math.Pi {
		return 1
	}
	return -1
}

// Sawtooth is a periodic ramp of the phase. With width 1 it rises linearly
// from -1 to 1 over each period; width 0.5 yields a symmetric triangle.
func Sawtooth(phase, width float64) float64 {
	p := wrapPhase(phase)
	if width <= 0 {
		return 1 - p/math.Pi
	}
	if width >= 1 {
		return p/math.Pi - 1
	}
	if p < 2*math.Pi*width {
		return p/(math.Pi*width) - 1
	}
	return (math.Pi*(width+1) - p) / (math.Pi * (1 - width))
}

func wrapPhase(phase float64) float64 {
	p := math.Mod(phase, 2*math.Pi)
	if p < 0 {
		p += 2 * math.Pi
	}
	return p
}

// Mix writes a*(1-mix) + b*mix into dst. b is used as scratch and is
// overwritten.
func Mix(dst, a, b []float64, mix float64) {
	vecmath.ScaleBlock(dst, a, 1-mix)
	vecmath.ScaleBlockInPlace(b, mix)
	vecmath.AddBlockInPlace(dst, b)
}

// NormalizePeak scales buf in place so its peak absolute value is 1. It
// returns false and leaves buf untouched when the buffer is empty, all zero,
// or not finite.
func NormalizePeak(buf []float64) bool {
	if len(buf) == 0 {
		return false
	}
	peak := vecmath.MaxAbs(buf)
	if peak == 0 || math.IsNaN(peak) || math.IsInf(peak, 0) {
		return false
	}
	vecmath.ScaleBlockInPlace(buf, 1/peak)
	return true
}

// Peak returns the largest absolute sample value.
func Peak(buf []float64) float64 {
	if len(buf) == 0 {
		return 0
	}
	return vecmath.MaxAbs(buf)
}
