package effects

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-synth/dsp/filter/biquad"
	"github.com/cwbudde/algo-synth/dsp/filter/design"
)

const defaultLowpassOrder = 2

// LowpassOption configures a Lowpass stage.
type LowpassOption func(*lowpassConfig) error

type lowpassConfig struct {
	order int
}

// WithLowpassOrder sets the Butterworth order in [1, 8].
func WithLowpassOrder(order int) LowpassOption {
	return func(cfg *lowpassConfig) error {
		if order < 1 || order > 8 {
			return fmt.Errorf("lowpass order must be in [1, 8]: %d", order)
		}
		cfg.order = order
		return nil
	}
}

// Lowpass is a zero-phase Butterworth low-pass. Each call to ProcessInPlace
// filters the whole buffer forward and then backward, so the magnitude
// response is squared and no group delay is introduced.
type Lowpass struct {
	cutoff     float64
	sampleRate float64
	chain      *biquad.Chain
}

// NewLowpass designs a low-pass at cutoff Hz. cutoff must lie strictly
// between 0 and the Nyquist frequency.
func NewLowpass(sampleRate, cutoff float64, opts ...LowpassOption) (*Lowpass, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return nil, fmt.Errorf("lowpass sample rate must be > 0 and finite: %f", sampleRate)
	}
	if !design.ValidCutoff(cutoff, sampleRate) {
		return nil, fmt.Errorf("lowpass cutoff must be in (0, %g): %f", sampleRate/2, cutoff)
	}

	cfg := lowpassConfig{order: defaultLowpassOrder}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	return &Lowpass{
		cutoff:     cutoff,
		sampleRate: sampleRate,
		chain:      biquad.NewChain(design.ButterworthLP(cutoff, cfg.order, sampleRate)),
	}, nil
}

// ProcessInPlace filters buf with forward-backward filtering.
func (l *Lowpass) ProcessInPlace(buf []float64) {
	copy(buf, l.chain.FiltFilt(buf))
}

// Cutoff returns the -3 dB frequency of a single pass in Hz.
func (l *Lowpass) Cutoff() float64 { return l.cutoff }

// SampleRate returns the design sample rate in Hz.
func (l *Lowpass) SampleRate() float64 { return l.sampleRate }
