package synth

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/cwbudde/algo-synth/dsp/effectchain"
	"github.com/cwbudde/algo-synth/dsp/signal"
)

var (
	// ErrUnknownParam is returned for a parameter name the engine does not know.
	ErrUnknownParam = errors.New("synth: unknown parameter")
	// ErrInvalidParam is returned when a parameter value is out of range.
	ErrInvalidParam = errors.New("synth: invalid parameter")
)

// Parameter names.
const (
	KeyWaveShape1      = "wave_shape1"
	KeyWaveShape2      = "wave_shape2"
	KeyWaveMix         = "wave_mix"
	KeyFrequency       = "frequency"
	KeyFreqMod         = "freq_mod"
	KeyFreqModRate     = "freq_mod_rate"
	KeyAmpMod          = "amp_mod"
	KeyAmpModRate      = "amp_mod_rate"
	KeyAttackTime      = "attack_time"
	KeyDecayTime       = "decay_time"
	KeySustainLevel    = "sustain_level"
	KeyReleaseTime     = "release_time"
	KeyVibratoRate     = "vibrato_rate"
	KeyVibratoDepth    = "vibrato_depth"
	KeyTremoloRate     = "tremolo_rate"
	KeyTremoloDepth    = "tremolo_depth"
	KeyDistortion      = effectchain.KeyDistortion
	KeyNoiseLevel      = effectchain.KeyNoiseLevel
	KeyBitCrush        = effectchain.KeyBitCrush
	KeyFoldAmount      = effectchain.KeyFoldAmount
	KeyFilterCutoff    = effectchain.KeyFilterCutoff
	KeyFilterResonance = "filter_resonance"
	KeyChorusDepth     = effectchain.KeyChorusDepth
	KeyChorusRate      = effectchain.KeyChorusRate
)

// NumHarmonics is the number of overtone weights in a parameter set.
const NumHarmonics = 5

// HarmonicKey returns the parameter name of harmonic i (1-based).
func HarmonicKey(i int) string {
	return fmt.Sprintf("harm%d_weight", i)
}

// Params is a complete snapshot of the synthesis knobs. The zero value is not
// meaningful; start from DefaultParams.
type Params struct {
	Shape1, Shape2 signal.Shape
	WaveMix        float64
	Frequency      float64

	FreqMod, FreqModRate float64
	AmpMod, AmpModRate   float64

	// Harmonics[i] weights the sine at (i+1) times the frequency.
	Harmonics [NumHarmonics]float64

	Attack, Decay, Sustain, Release float64

	VibratoRate, VibratoDepth float64
	TremoloRate, TremoloDepth float64

	Distortion, NoiseLevel, BitCrush, FoldAmount float64

	FilterCutoff float64
	// FilterResonance is carried for document compatibility and not used.
	FilterResonance float64

	ChorusDepth, ChorusRate float64
}

// DefaultParams returns the documented defaults: two sines mixed evenly at
// 440 Hz, harmonic weights halving from 1, a (0.1, 0.2, 0.7, 0.3) envelope,
// the filter open at 20 kHz and every modulation and effect off.
func DefaultParams() Params {
	return Params{
		Shape1:       signal.ShapeSine,
		Shape2:       signal.ShapeSine,
		WaveMix:      0.5,
		Frequency:    440,
		Harmonics:    [NumHarmonics]float64{1, 0.5, 0.25, 0.125, 0.0625},
		Attack:       0.1,
		Decay:        0.2,
		Sustain:      0.7,
		Release:      0.3,
		FilterCutoff: effectchain.FilterCeiling,
	}
}

// numParam describes one numeric knob.
type numParam struct {
	name string
	// randMax is the upper bound used by Randomize.
	randMax float64
	field   func(*Params) *float64
}

var numParams = buildNumParams()

func buildNumParams() []numParam {
	ps := []numParam{
		{KeyWaveMix, 1, func(p *Params) *float64 { return &p.WaveMix }},
		{KeyFrequency, 2000, func(p *Params) *float64 { return &p.Frequency }},
		{KeyFreqMod, 2000, func(p *Params) *float64 { return &p.FreqMod }},
		{KeyFreqModRate, 2000, func(p *Params) *float64 { return &p.FreqModRate }},
		{KeyAmpMod, 1, func(p *Params) *float64 { return &p.AmpMod }},
		{KeyAmpModRate, 2000, func(p *Params) *float64 { return &p.AmpModRate }},
		{KeyAttackTime, 2, func(p *Params) *float64 { return &p.Attack }},
		{KeyDecayTime, 2, func(p *Params) *float64 { return &p.Decay }},
		{KeySustainLevel, 1, func(p *Params) *float64 { return &p.Sustain }},
		{KeyReleaseTime, 2, func(p *Params) *float64 { return &p.Release }},
		{KeyVibratoRate, 2000, func(p *Params) *float64 { return &p.VibratoRate }},
		{KeyVibratoDepth, 1, func(p *Params) *float64 { return &p.VibratoDepth }},
		{KeyTremoloRate, 2000, func(p *Params) *float64 { return &p.TremoloRate }},
		{KeyTremoloDepth, 1, func(p *Params) *float64 { return &p.TremoloDepth }},
		{KeyDistortion, 1, func(p *Params) *float64 { return &p.Distortion }},
		{KeyNoiseLevel, 1, func(p *Params) *float64 { return &p.NoiseLevel }},
		{KeyBitCrush, 1, func(p *Params) *float64 { return &p.BitCrush }},
		{KeyFoldAmount, 1, func(p *Params) *float64 { return &p.FoldAmount }},
		{KeyFilterCutoff, effectchain.FilterCeiling, func(p *Params) *float64 { return &p.FilterCutoff }},
		{KeyFilterResonance, 1, func(p *Params) *float64 { return &p.FilterResonance }},
		{KeyChorusDepth, 1, func(p *Params) *float64 { return &p.ChorusDepth }},
		{KeyChorusRate, 2000, func(p *Params) *float64 { return &p.ChorusRate }},
	}
	for i := range NumHarmonics {
		idx := i
		ps = append(ps, numParam{HarmonicKey(i + 1), 1, func(p *Params) *float64 { return &p.Harmonics[idx] }})
	}
	return ps
}

func lookupNum(name string) (numParam, bool) {
	for _, np := range numParams {
		if np.name == name {
			return np, true
		}
	}
	return numParam{}, false
}

func shapeField(p *Params, name string) (*signal.Shape, bool) {
	switch name {
	case KeyWaveShape1:
		return &p.Shape1, true
	case KeyWaveShape2:
		return &p.Shape2, true
	default:
		return nil, false
	}
}

// Keys returns every parameter name in sorted order.
func Keys() []string {
	keys := []string{KeyWaveShape1, KeyWaveShape2}
	for _, np := range numParams {
		keys = append(keys, np.name)
	}
	sort.Strings(keys)
	return keys
}

// IsShapeKey reports whether name holds a wave shape rather than a number.
func IsShapeKey(name string) bool {
	return name == KeyWaveShape1 || name == KeyWaveShape2
}

// Num returns the numeric parameter name.
func (p Params) Num(name string) (float64, error) {
	np, ok := lookupNum(name)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownParam, name)
	}
	return *np.field(&p), nil
}

// SetNum sets the numeric parameter name. The value is not validated; call
// Validate before rendering.
func (p *Params) SetNum(name string, v float64) error {
	np, ok := lookupNum(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownParam, name)
	}
	*np.field(p) = v
	return nil
}

// Shape returns the wave shape parameter name.
func (p Params) Shape(name string) (signal.Shape, error) {
	f, ok := shapeField(&p, name)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownParam, name)
	}
	return *f, nil
}

// SetShape sets the wave shape parameter name.
func (p *Params) SetShape(name string, s signal.Shape) error {
	f, ok := shapeField(p, name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownParam, name)
	}
	*f = s
	return nil
}

// Values returns every parameter as a name to value map. Shapes map to their
// names, everything else to float64.
func (p Params) Values() map[string]any {
	out := make(map[string]any, len(numParams)+2)
	out[KeyWaveShape1] = p.Shape1.String()
	out[KeyWaveShape2] = p.Shape2.String()
	for _, np := range numParams {
		out[np.name] = *np.field(&p)
	}
	return out
}

// Set assigns a value decoded from a document: a string for shapes, any
// numeric type for knobs.
func (p *Params) Set(name string, v any) error {
	if IsShapeKey(name) {
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("%w: %s must be a shape name, got %T", ErrInvalidParam, name, v)
		}
		shape, err := signal.ParseShape(s)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidParam, name, err)
		}
		return p.SetShape(name, shape)
	}

	f, ok := toFloat(v)
	if !ok {
		if _, known := lookupNum(name); !known {
			return fmt.Errorf("%w: %q", ErrUnknownParam, name)
		}
		return fmt.Errorf("%w: %s must be numeric, got %T", ErrInvalidParam, name, v)
	}
	return p.SetNum(name, f)
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case int32:
		return float64(x), true
	default:
		return 0, false
	}
}

// Effects returns the knobs read by the effect chain.
func (p Params) Effects() effectchain.Params {
	return effectchain.Params{Num: map[string]float64{
		KeyNoiseLevel:   p.NoiseLevel,
		KeyDistortion:   p.Distortion,
		KeyBitCrush:     p.BitCrush,
		KeyFoldAmount:   p.FoldAmount,
		KeyFilterCutoff: p.FilterCutoff,
		KeyChorusDepth:  p.ChorusDepth,
		KeyChorusRate:   p.ChorusRate,
	}}
}

// Envelope returns the ADSR times and level.
func (p Params) Envelope() (attack, decay, sustain, release float64) {
	return p.Attack, p.Decay, p.Sustain, p.Release
}

// WithFrequency returns a copy of p tuned to freq.
func (p Params) WithFrequency(freq float64) Params {
	p.Frequency = freq
	return p
}

// Deterministic reports whether rendering p draws no random numbers.
func (p Params) Deterministic() bool {
	if p.NoiseLevel > 0 {
		return false
	}
	// FM and vibrato replace the oscillator output, discarding any noise.
	if p.FreqMod > 0 || p.VibratoDepth > 0 {
		return true
	}
	return !p.Shape1.Random() && !p.Shape2.Random()
}

// Validate checks every knob. All problems are reported together.
func (p Params) Validate() error {
	var errs []error

	for _, name := range []string{KeyWaveShape1, KeyWaveShape2} {
		s, _ := p.Shape(name)
		if _, err := s.MarshalText(); err != nil {
			errs = append(errs, fmt.Errorf("%w: %s: %w", ErrInvalidParam, name, err))
		}
	}

	for _, np := range numParams {
		v := *np.field(&p)
		switch {
		case math.IsNaN(v) || math.IsInf(v, 0):
			errs = append(errs, fmt.Errorf("%w: %s is not finite", ErrInvalidParam, np.name))
		case v < 0:
			errs = append(errs, fmt.Errorf("%w: %s must be >= 0: %g", ErrInvalidParam, np.name, v))
		}
	}

	if p.Frequency <= 0 {
		errs = append(errs, fmt.Errorf("%w: %s must be > 0: %g", ErrInvalidParam, KeyFrequency, p.Frequency))
	}
	if p.FilterCutoff <= 0 {
		errs = append(errs, fmt.Errorf("%w: %s must be > 0: %g", ErrInvalidParam, KeyFilterCutoff, p.FilterCutoff))
	}
	if p.WaveMix > 1 {
		errs = append(errs, fmt.Errorf("%w: %s must be <= 1: %g", ErrInvalidParam, KeyWaveMix, p.WaveMix))
	}
	if p.Sustain > 1 {
		errs = append(errs, fmt.Errorf("%w: %s must be <= 1: %g", ErrInvalidParam, KeySustainLevel, p.Sustain))
	}

	return errors.Join(errs...)
}

// Randomize returns a parameter set with shapes drawn uniformly from the
// shape set and every knob drawn uniformly from [0, max]: 1 for weights,
// levels, depths, mixes and amounts, 2 s for times, 2000 for frequencies and
// rates, and up to 20 kHz for the filter cutoff.
func Randomize(rng *rand.Rand) Params {
	var p Params
	p.Shape1 = signal.RandomShape(rng)
	p.Shape2 = signal.RandomShape(rng)
	for _, np := range numParams {
		*np.field(&p) = rng.Float64() * np.randMax
	}
	// Keep the oscillator audible when the draw lands on zero.
	if p.Frequency <= 0 {
		p.Frequency = DefaultParams().Frequency
	}
	if p.FilterCutoff <= 0 {
		p.FilterCutoff = effectchain.FilterCeiling
	}
	return p
}
