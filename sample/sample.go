// Package sample holds a loaded base recording and pitch-shifts it to note
// frequencies by band-limited resampling. Pitch and duration move together.
package sample

import (
	"errors"
	"fmt"

	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/dsp/resample"
	"github.com/cwbudde/algo-synth/dsp/signal"
	"github.com/cwbudde/algo-synth/dsp/spectrum"
	"github.com/cwbudde/algo-synth/wavio"
)

// DefaultRootNote is the MIDI note a sample is assumed to sound at (C4).
const DefaultRootNote = 60

// ErrNoSample is returned when resampling is requested without a loaded
// sample.
var ErrNoSample = errors.New("sample: no sample loaded")

// BaseSample is a mono recording with its native rate and root note. It is
// never modified after loading.
type BaseSample struct {
	Path       string
	SampleRate float64
	Data       []float64
	RootNote   int
}

type loadConfig struct {
	root       int
	detect     bool
	targetRate float64
	resample   []resample.Option
}

// LoadOption configures Load and New.
type LoadOption func(*loadConfig)

// WithRootNote sets the note the recording sounds at. Invalid notes are
// ignored.
func WithRootNote(note int) LoadOption {
	return func(c *loadConfig) {
		if core.ValidNote(note) {
			c.root = note
		}
	}
}

// WithDetectRoot estimates the root note from the strongest spectral peak.
// When detection fails the configured root note is kept.
func WithDetectRoot() LoadOption {
	return func(c *loadConfig) { c.detect = true }
}

// WithTargetRate converts the recording to rate on load, so resampled notes
// play back at the right pitch on an engine running at rate.
func WithTargetRate(rate float64) LoadOption {
	return func(c *loadConfig) {
		if rate > 0 {
			c.targetRate = rate
		}
	}
}

// WithResampleOptions passes options to the polyphase resampler.
func WithResampleOptions(opts ...resample.Option) LoadOption {
	return func(c *loadConfig) { c.resample = append(c.resample, opts...) }
}

// Load reads a WAV file, collapsing it to normalized mono.
func Load(path string, opts ...LoadOption) (*BaseSample, error) {
	a, err := wavio.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sample: load: %w", err)
	}

	b, err := New(a.Data, a.SampleRate, opts...)
	if err != nil {
		return nil, err
	}
	b.Path = path
	return b, nil
}

// New wraps data recorded at sampleRate. data is copied and normalized to
// peak 1 after any rate conversion.
func New(data []float64, sampleRate float64, opts ...LoadOption) (*BaseSample, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("sample: %w", ErrNoSample)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample: sample rate must be > 0: %v", sampleRate)
	}

	cfg := loadConfig{root: DefaultRootNote}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	buf := append([]float64(nil), data...)
	rate := sampleRate

	if cfg.targetRate > 0 && cfg.targetRate != sampleRate {
		n := resample.LengthFor(len(buf), sampleRate/cfg.targetRate)
		converted, err := resample.ToLength(buf, n, cfg.resample...)
		if err != nil {
			return nil, fmt.Errorf("sample: rate conversion: %w", err)
		}
		buf, rate = converted, cfg.targetRate
	}
	signal.NormalizePeak(buf)

	root := cfg.root
	if cfg.detect {
		if f, err := spectrum.PeakFrequency(buf, rate, spectrum.WithMinFrequency(minDetectFrequency)); err == nil {
			root = core.FrequencyToNote(f)
		}
	}

	return &BaseSample{SampleRate: rate, Data: buf, RootNote: root}, nil
}

// minDetectFrequency keeps DC and rumble out of root detection.
const minDetectFrequency = 20

// RootFrequency returns the equal-tempered frequency of the root note.
func (b *BaseSample) RootFrequency() float64 {
	return core.NoteToFrequency(b.RootNote)
}

// Len returns the sample length.
func (b *BaseSample) Len() int { return len(b.Data) }

// Resample returns a new buffer pitched to target Hz:
// round(Len() * root / target) samples of band-limited resampled data.
func Resample(b *BaseSample, target float64, opts ...resample.Option) ([]float64, error) {
	if b == nil || len(b.Data) == 0 {
		return nil, ErrNoSample
	}
	if target <= 0 {
		return nil, fmt.Errorf("sample: target frequency must be > 0: %v", target)
	}

	n := resample.LengthFor(len(b.Data), target/b.RootFrequency())
	out, err := resample.ToLength(b.Data, n, opts...)
	if err != nil {
		return nil, fmt.Errorf("sample: resample to %.2f Hz: %w", target, err)
	}
	return out, nil
}

// RenderNote resamples b to the equal-tempered frequency of note.
func (b *BaseSample) RenderNote(note int) ([]float64, error) {
	if !core.ValidNote(note) {
		return nil, fmt.Errorf("sample: invalid note %d", note)
	}
	return Resample(b, core.NoteToFrequency(note))
}
