package signal

import (
	"fmt"
	"sync"

	"github.com/cwbudde/algo-synth/dsp/core"
)

// TimeBase is an immutable, evenly spaced sequence of sample instants
// covering [0, duration] with both endpoints included.
type TimeBase struct {
	sampleRate float64
	duration   float64
	instants   []float64
}

type timeBaseKey struct {
	sampleRate float64
	duration   float64
}

var timeBases sync.Map // timeBaseKey -> *TimeBase

// NewTimeBase builds a time base of round(sampleRate*duration) instants.
func NewTimeBase(cfg core.ProcessorConfig) (*TimeBase, error) {
	if cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("signal: time base sample rate must be > 0: %f", cfg.SampleRate)
	}
	if cfg.Duration <= 0 {
		return nil, fmt.Errorf("signal: time base duration must be > 0: %f", cfg.Duration)
	}

	n := cfg.NumSamples()
	if n <= 0 {
		return nil, fmt.Errorf("signal: time base has no samples (rate=%f, duration=%f)",
			cfg.SampleRate, cfg.Duration)
	}

	instants := make([]float64, n)
	if n > 1 {
		step := cfg.Duration / float64(n-1)
		for i := range instants {
			instants[i] = step * float64(i)
		}
		instants[n-1] = cfg.Duration
	}

	return &TimeBase{
		sampleRate: cfg.SampleRate,
		duration:   cfg.Duration,
		instants:   instants,
	}, nil
}

// SharedTimeBase returns the process-wide time base for cfg, building it on
// first use. Renders with the same sample rate and duration share one
// instance.
func SharedTimeBase(cfg core.ProcessorConfig) (*TimeBase, error) {
	key := timeBaseKey{sampleRate: cfg.SampleRate, duration: cfg.Duration}
	if tb, ok := timeBases.Load(key); ok {
		return tb.(*TimeBase), nil
	}

	tb, err := NewTimeBase(cfg)
	if err != nil {
		return nil, err
	}

	actual, _ := timeBases.LoadOrStore(key, tb)
	return actual.(*TimeBase), nil
}

// Len returns the number of instants.
func (tb *TimeBase) Len() int { return len(tb.instants) }

// At returns the i-th instant in seconds.
func (tb *TimeBase) At(i int) float64 { return tb.instants[i] }

// Instants exposes the underlying instants. Callers must not modify them.
func (tb *TimeBase) Instants() []float64 { return tb.instants }

// SampleRate returns the sample rate in Hz.
func (tb *TimeBase) SampleRate() float64 { return tb.sampleRate }

// Duration returns the covered duration in seconds.
func (tb *TimeBase) Duration() float64 { return tb.duration }

// Config returns the configuration the time base was built from.
func (tb *TimeBase) Config() core.ProcessorConfig {
	return core.ProcessorConfig{SampleRate: tb.sampleRate, Duration: tb.duration}
}

// Step returns the spacing between consecutive instants in seconds, or 0 for
// a single-instant time base.
func (tb *TimeBase) Step() float64 {
	if len(tb.instants) < 2 {
		return 0
	}
	return tb.duration / float64(len(tb.instants)-1)
}
