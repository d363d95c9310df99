package analysis

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/dsp/spectrum"
)

// DefaultHarmonics is the number of partials measured by Analyze.
const DefaultHarmonics = 8

// Report summarizes one buffer.
type Report struct {
	SampleRate float64
	Level      Level
	Timbre     Timbre

	// Fundamental is the dominant partial in Hz, 0 for silence.
	Fundamental float64
	Note        int
	Cents       float64 // deviation of Fundamental from Note

	// Harmonics holds the amplitude of partials 1..n of Fundamental.
	Harmonics []float64
	// THD is the RMS sum of partials 2..n relative to the fundamental.
	THD float64
}

// Option configures Analyze.
type Option func(*config)

type config struct {
	harmonics int
	minFreq   float64
}

// WithHarmonics sets how many partials to measure. Values below 1 are
// ignored.
func WithHarmonics(n int) Option {
	return func(c *config) {
		if n >= 1 {
			c.harmonics = n
		}
	}
}

// WithMinFrequency ignores partials below freq Hz when searching for the
// fundamental.
func WithMinFrequency(freq float64) Option {
	return func(c *config) {
		if freq >= 0 {
			c.minFreq = freq
		}
	}
}

// Analyze measures buf. A silent buffer yields a report with levels only.
func Analyze(buf []float64, sampleRate float64, opts ...Option) (Report, error) {
	cfg := config{harmonics: DefaultHarmonics, minFreq: 20}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	sp, err := spectrum.Analyze(buf, sampleRate)
	if err != nil {
		return Report{}, fmt.Errorf("analysis: %w", err)
	}

	r := Report{
		SampleRate: sampleRate,
		Level:      MeasureLevel(buf),
		Timbre:     DescribeSpectrum(sp),
	}

	f0, err := spectrum.PeakFrequency(buf, sampleRate, spectrum.WithMinFrequency(cfg.minFreq))
	if errors.Is(err, spectrum.ErrSilent) {
		return r, nil
	}
	if err != nil {
		return Report{}, fmt.Errorf("analysis: %w", err)
	}

	r.Fundamental = f0
	r.Note = core.FrequencyToNote(f0)
	r.Cents = 1200 * math.Log2(f0/core.NoteToFrequency(r.Note))

	r.Harmonics, err = spectrum.HarmonicLevels(buf, f0, sampleRate, cfg.harmonics)
	if err != nil {
		return Report{}, fmt.Errorf("analysis: %w", err)
	}
	r.THD = thd(r.Harmonics)
	return r, nil
}

func thd(levels []float64) float64 {
	if len(levels) < 2 || levels[0] == 0 {
		return 0
	}
	var sq float64
	for _, h := range levels[1:] {
		sq += h * h
	}
	return math.Sqrt(sq) / levels[0]
}
