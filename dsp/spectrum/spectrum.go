package spectrum

import (
	"errors"
	"fmt"
	"math"
	"sync"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-synth/dsp/window"
)

var (
	// ErrEmpty indicates an empty input buffer.
	ErrEmpty = errors.New("spectrum: empty input")
	// ErrSilent indicates that no spectral peak could be found.
	ErrSilent = errors.New("spectrum: no energy in analysis band")
)

const (
	defaultMaxFFTSize = 1 << 16
	minFFTSize        = 16
)

// Option configures Analyze and PeakFrequency.
type Option func(*config)

type config struct {
	window  window.Type
	maxSize int
	minFreq float64
}

// WithWindow selects the analysis window. The default is Hann.
func WithWindow(t window.Type) Option {
	return func(c *config) {
		c.window = t
	}
}

// WithMaxFFTSize caps the transform length. Values are rounded down to a
// power of two; non-positive values are ignored.
func WithMaxFFTSize(n int) Option {
	return func(c *config) {
		if n >= minFFTSize {
			c.maxSize = floorPow2(n)
		}
	}
}

// WithMinFrequency ignores bins below freq Hz when searching for peaks.
func WithMinFrequency(freq float64) Option {
	return func(c *config) {
		if freq >= 0 {
			c.minFreq = freq
		}
	}
}

// Spectrum is a one-sided magnitude spectrum.
type Spectrum struct {
	// Magnitude holds |X[k]| for k in [0, Size/2].
	Magnitude  []float64
	Size       int
	SampleRate float64
}

// BinWidth returns the frequency spacing of the bins in Hz.
func (s Spectrum) BinWidth() float64 {
	return s.SampleRate / float64(s.Size)
}

// Frequency returns the center frequency of bin k in Hz.
func (s Spectrum) Frequency(k float64) float64 {
	return k * s.BinWidth()
}

var plans sync.Map // int -> *algofft.Plan[complex128]

func planFor(n int) (*algofft.Plan[complex128], error) {
	if p, ok := plans.Load(n); ok {
		return p.(*algofft.Plan[complex128]), nil
	}

	p, err := algofft.NewPlan64(n)
	if err != nil {
		return nil, fmt.Errorf("spectrum: fft plan %d: %w", n, err)
	}

	actual, _ := plans.LoadOrStore(n, p)
	return actual.(*algofft.Plan[complex128]), nil
}

// Analyze returns the magnitude spectrum of the leading frame of buf. The
// frame is the largest power of two not exceeding len(buf) or the configured
// maximum, zero-padded when buf is shorter than the minimum size.
func Analyze(buf []float64, sampleRate float64, opts ...Option) (Spectrum, error) {
	if len(buf) == 0 {
		return Spectrum{}, ErrEmpty
	}
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return Spectrum{}, fmt.Errorf("spectrum: sample rate must be > 0: %v", sampleRate)
	}

	cfg := config{window: window.TypeHann, maxSize: defaultMaxFFTSize}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	size := max(minFFTSize, min(floorPow2(len(buf)), cfg.maxSize))
	frame := min(size, len(buf))

	coeffs := window.Generate(cfg.window, frame, window.WithPeriodic())

	in := make([]complex128, size)
	for i := range frame {
		in[i] = complex(buf[i]*coeffs[i], 0)
	}

	plan, err := planFor(size)
	if err != nil {
		return Spectrum{}, err
	}

	out := make([]complex128, size)
	if err := plan.Forward(out, in); err != nil {
		return Spectrum{}, fmt.Errorf("spectrum: forward transform: %w", err)
	}

	return Spectrum{
		Magnitude:  Magnitude(out[:size/2+1]),
		Size:       size,
		SampleRate: sampleRate,
	}, nil
}

// PeakFrequency estimates the frequency in Hz of the strongest partial in
// buf. The peak bin is refined by fitting a parabola through the log
// magnitudes of its neighbours.
func PeakFrequency(buf []float64, sampleRate float64, opts ...Option) (float64, error) {
	spec, err := Analyze(buf, sampleRate, opts...)
	if err != nil {
		return 0, err
	}

	cfg := config{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	lo := max(1, int(math.Ceil(cfg.minFreq/spec.BinWidth())))
	mag := spec.Magnitude

	peak := -1
	for k := lo; k < len(mag)-1; k++ {
		if peak < 0 || mag[k] > mag[peak] {
			peak = k
		}
	}
	if peak < 0 || mag[peak] == 0 {
		return 0, ErrSilent
	}

	return spec.Frequency(float64(peak) + parabolicOffset(mag[peak-1], mag[peak], mag[peak+1])), nil
}

// parabolicOffset returns the vertex offset in (-0.5, 0.5) of the parabola
// through the log magnitudes a, b, c at bins -1, 0, +1.
func parabolicOffset(a, b, c float64) float64 {
	const floor = 1e-300
	la := math.Log(math.Max(a, floor))
	lb := math.Log(math.Max(b, floor))
	lc := math.Log(math.Max(c, floor))

	den := la - 2*lb + lc
	if den == 0 {
		return 0
	}

	d := 0.5 * (la - lc) / den
	return math.Max(-0.5, math.Min(0.5, d))
}

// Magnitude returns |X[k]| for each complex spectrum bin.
func Magnitude(in []complex128) []float64 {
	if len(in) == 0 {
		return nil
	}

	out := make([]float64, len(in))
	re := make([]float64, len(in))
	im := make([]float64, len(in))

	for i, c := range in {
		re[i] = real(c)
		im[i] = imag(c)
	}

	vecmath.Magnitude(out, re, im)
	return out
}

func floorPow2(n int) int {
	p := 1
	for p*2 <= n {
		p *= 2
	}
	return p
}
