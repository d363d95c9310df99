package core

import "math"

// ProcessorConfig defines the engine-wide rendering settings shared by every
// render that uses the same time base.
type ProcessorConfig struct {
	SampleRate float64
	Duration   float64 // seconds
}

// ProcessorOption mutates a ProcessorConfig.
type ProcessorOption func(*ProcessorConfig)

// DefaultProcessorConfig returns the engine defaults: 44.1 kHz, two seconds.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		SampleRate: 44100,
		Duration:   2,
	}
}

// WithSampleRate sets the processing sample rate.
func WithSampleRate(sampleRate float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if sampleRate > 0 && !math.IsInf(sampleRate, 0) {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithDuration sets the rendered buffer duration in seconds.
func WithDuration(seconds float64) ProcessorOption {
	return func(cfg *ProcessorConfig) {
		if seconds > 0 && !math.IsInf(seconds, 0) {
			cfg.Duration = seconds
		}
	}
}

// ApplyProcessorOptions applies zero or more options to the default config.
func ApplyProcessorOptions(opts ...ProcessorOption) ProcessorConfig {
	cfg := DefaultProcessorConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// NumSamples returns the buffer length implied by the configuration.
func (c ProcessorConfig) NumSamples() int {
	return int(math.Round(c.SampleRate * c.Duration))
}

// Nyquist returns half the sample rate.
func (c ProcessorConfig) Nyquist() float64 {
	return c.SampleRate / 2
}
