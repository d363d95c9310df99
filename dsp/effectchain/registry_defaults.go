package effectchain

import (
	"math"

	"github.com/cwbudde/algo-synth/dsp/effects"
)

// Stage names of the built-in effects, in pipeline order.
const (
	StageNoise      = "noise"
	StageDistortion = "distortion"
	StageBitCrush   = "bitcrush"
	StageFold       = "fold"
	StageLowpass    = "lowpass"
	StageChorus     = "chorus"
)

// Parameter keys read by the built-in stages.
const (
	KeyNoiseLevel   = "noise_level"
	KeyDistortion   = "distortion"
	KeyBitCrush     = "bit_crush"
	KeyFoldAmount   = "fold_amount"
	KeyFilterCutoff = "filter_cutoff"
	KeyChorusDepth  = "chorus_depth"
	KeyChorusRate   = "chorus_rate"
)

// FilterCeiling is the cutoff at and above which the low-pass stage is
// bypassed, independent of the sample rate.
const FilterCeiling = 20000.0

// DefaultOrder is the fixed effect order: noise injection, distortion,
// bit-crush, wave-fold, low-pass, chorus.
func DefaultOrder() []string {
	return []string{StageNoise, StageDistortion, StageBitCrush, StageFold, StageLowpass, StageChorus}
}

// DefaultRegistry returns a Registry pre-populated with the built-in stages.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.MustRegister(StageNoise, func(_ Context) (Runtime, error) { return &noiseRuntime{}, nil })
	r.MustRegister(StageDistortion, func(_ Context) (Runtime, error) { return &distortionRuntime{}, nil })
	r.MustRegister(StageBitCrush, func(_ Context) (Runtime, error) { return &bitCrushRuntime{}, nil })
	r.MustRegister(StageFold, func(_ Context) (Runtime, error) { return &foldRuntime{}, nil })
	r.MustRegister(StageLowpass, func(_ Context) (Runtime, error) { return &lowpassRuntime{}, nil })
	r.MustRegister(StageChorus, func(_ Context) (Runtime, error) { return &chorusRuntime{}, nil })

	return r
}

// FilterActive reports whether a cutoff engages the low-pass stage at
// sampleRate: 0 < cutoff < min(FilterCeiling, Nyquist).
func FilterActive(cutoff, sampleRate float64) bool {
	return cutoff > 0 && cutoff < math.Min(FilterCeiling, sampleRate/2)
}

type noiseRuntime struct {
	fx *effects.Noise
}

func (r *noiseRuntime) Active(_ Context, p Params) bool { return p.GetNum(KeyNoiseLevel, 0) > 0 }

func (r *noiseRuntime) Configure(ctx Context, p Params) error {
	fx, err := effects.NewNoise(p.GetNum(KeyNoiseLevel, 0), effects.WithNoiseRand(ctx.Rand))
	if err != nil {
		return err
	}
	r.fx = fx
	return nil
}

func (r *noiseRuntime) Process(block []float64) { r.fx.ProcessInPlace(block) }

type distortionRuntime struct {
	fx *effects.Distortion
}

func (r *distortionRuntime) Active(_ Context, p Params) bool { return p.GetNum(KeyDistortion, 0) > 0 }

func (r *distortionRuntime) Configure(_ Context, p Params) error {
	fx, err := effects.NewDistortion(
		effects.WithDistortionMode(effects.DistortionModeTanh),
		effects.WithDistortionAmount(p.GetNum(KeyDistortion, 0)),
	)
	if err != nil {
		return err
	}
	r.fx = fx
	return nil
}

func (r *distortionRuntime) Process(block []float64) { r.fx.ProcessInPlace(block) }

type bitCrushRuntime struct {
	fx *effects.BitCrusher
}

func (r *bitCrushRuntime) Active(_ Context, p Params) bool { return p.GetNum(KeyBitCrush, 0) > 0 }

func (r *bitCrushRuntime) Configure(_ Context, p Params) error {
	fx, err := effects.NewBitCrusher(effects.WithBitCrusherAmount(p.GetNum(KeyBitCrush, 0)))
	if err != nil {
		return err
	}
	r.fx = fx
	return nil
}

func (r *bitCrushRuntime) Process(block []float64) { r.fx.ProcessInPlace(block) }

type foldRuntime struct {
	fx *effects.WaveFolder
}

func (r *foldRuntime) Active(_ Context, p Params) bool { return p.GetNum(KeyFoldAmount, 0) > 0 }

func (r *foldRuntime) Configure(_ Context, p Params) error {
	fx, err := effects.NewWaveFolder(p.GetNum(KeyFoldAmount, 0))
	if err != nil {
		return err
	}
	r.fx = fx
	return nil
}

func (r *foldRuntime) Process(block []float64) { r.fx.ProcessInPlace(block) }

type lowpassRuntime struct {
	fx *effects.Lowpass
}

func (r *lowpassRuntime) Active(ctx Context, p Params) bool {
	return FilterActive(p.GetNum(KeyFilterCutoff, FilterCeiling), ctx.SampleRate)
}

func (r *lowpassRuntime) Configure(ctx Context, p Params) error {
	fx, err := effects.NewLowpass(ctx.SampleRate, p.GetNum(KeyFilterCutoff, FilterCeiling))
	if err != nil {
		return err
	}
	r.fx = fx
	return nil
}

func (r *lowpassRuntime) Process(block []float64) { r.fx.ProcessInPlace(block) }

type chorusRuntime struct {
	fx *effects.Chorus
}

func (r *chorusRuntime) Active(_ Context, p Params) bool { return p.GetNum(KeyChorusDepth, 0) > 0 }

func (r *chorusRuntime) Configure(ctx Context, p Params) error {
	fx, err := effects.NewChorus(ctx.stepRate(),
		effects.WithChorusDepth(p.GetNum(KeyChorusDepth, 0)),
		effects.WithChorusMix(p.GetNum(KeyChorusRate, 0)),
	)
	if err != nil {
		return err
	}
	r.fx = fx
	return nil
}

func (r *chorusRuntime) Process(block []float64) { r.fx.ProcessInPlace(block) }
