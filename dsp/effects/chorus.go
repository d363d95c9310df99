package effects

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-synth/dsp/interp"
	"github.com/cwbudde/algo-vecmath"
)

const (
	// ChorusMaxDelay is the delay in seconds at depth 1.
	ChorusMaxDelay = 0.03
)

// ChorusOption configures a Chorus.
type ChorusOption func(*chorusConfig) error

type chorusConfig struct {
	depth float64
	mix   float64
}

// WithChorusDepth sets the depth (>= 0). The delay is depth*ChorusMaxDelay.
func WithChorusDepth(depth float64) ChorusOption {
	return func(cfg *chorusConfig) error {
		if depth < 0 || math.IsNaN(depth) || math.IsInf(depth, 0) {
			return fmt.Errorf("chorus depth must be >= 0 and finite: %f", depth)
		}
		cfg.depth = depth
		return nil
	}
}

// WithChorusMix sets the gain (>= 0) of the delayed copy added to the dry
// signal. It is not limited to 1.
func WithChorusMix(mix float64) ChorusOption {
	return func(cfg *chorusConfig) error {
		if mix < 0 || math.IsNaN(mix) || math.IsInf(mix, 0) {
			return fmt.Errorf("chorus mix must be >= 0 and finite: %f", mix)
		}
		cfg.mix = mix
		return nil
	}
}

// Chorus adds a delayed copy of a finite buffer back onto itself:
// y[i] = x[i] + mix*x(t_i - delay). The delayed read interpolates linearly
// and is silent before the start of the buffer.
type Chorus struct {
	sampleRate float64
	depth      float64
	mix        float64

	scratch []float64
}

// NewChorus creates a chorus for buffers sampled at sampleRate.
func NewChorus(sampleRate float64, opts ...ChorusOption) (*Chorus, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("chorus sample rate must be > 0 and finite: %f", sampleRate)
	}

	var cfg chorusConfig
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	return &Chorus{sampleRate: sampleRate, depth: cfg.depth, mix: cfg.mix}, nil
}

// Delay returns the delay of the copy in seconds.
func (c *Chorus) Delay() float64 { return ChorusMaxDelay * c.depth }

// DelaySamples returns the delay in (fractional) samples.
func (c *Chorus) DelaySamples() float64 { return c.Delay() * c.sampleRate }

// ProcessInPlace mixes the delayed copy into buf.
func (c *Chorus) ProcessInPlace(buf []float64) {
	if c.mix == 0 || len(buf) == 0 {
		return
	}
	if cap(c.scratch) < len(buf) {
		c.scratch = make([]float64, len(buf))
	}
	wet := c.scratch[:len(buf)]

	interp.DelayInto(wet, buf, c.DelaySamples())
	vecmath.ScaleBlockInPlace(wet, c.mix)
	vecmath.AddBlockInPlace(buf, wet)
}
