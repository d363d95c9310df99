package synth

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/dsp/effectchain"
	"github.com/cwbudde/algo-synth/dsp/envelope"
	"github.com/cwbudde/algo-synth/dsp/signal"
	"github.com/cwbudde/algo-vecmath"
)

// Stage names of the synthesis pipeline that are not effect stages.
const (
	StageOscillators = "oscillators"
	StageHarmonics   = "harmonics"
	StageFM          = "fm"
	StageAM          = "am"
	StageVibrato     = "vibrato"
	StageTremolo     = "tremolo"
	StageEffects     = "effects"
	StageEnvelope    = "envelope"
	StageNormalize   = "normalize"
)

// Mode states how a stage treats the signal it receives.
type Mode int

const (
	// Combine stages transform or add to the incoming signal.
	Combine Mode = iota
	// Replace stages discard the incoming signal and write a fresh one.
	Replace
)

// String returns "combine" or "replace".
func (m Mode) String() string {
	if m == Replace {
		return "replace"
	}
	return "combine"
}

// StageInfo describes one pipeline stage.
type StageInfo struct {
	Name string
	Mode Mode
}

// render holds the per-call state threaded through the stages.
type render struct {
	p       Params
	tb      *signal.TimeBase
	gen     *signal.Generator
	buf     []float64
	scratch []float64
}

type stage struct {
	StageInfo
	active func(p Params) bool
	apply  func(r *render)
}

// pipeline is the fixed stage order ahead of the effect chain. FM and vibrato
// replace whatever the earlier stages produced.
var pipeline = []stage{
	{StageInfo{StageOscillators, Replace}, always, renderOscillators},
	{StageInfo{StageHarmonics, Combine}, hasHarmonics, renderHarmonics},
	{StageInfo{StageFM, Replace}, func(p Params) bool { return p.FreqMod > 0 }, renderFM},
	{StageInfo{StageAM, Combine}, func(p Params) bool { return p.AmpMod > 0 }, renderAM},
	{StageInfo{StageVibrato, Replace}, func(p Params) bool { return p.VibratoDepth > 0 }, renderVibrato},
	{StageInfo{StageTremolo, Combine}, func(p Params) bool { return p.TremoloDepth > 0 }, renderTremolo},
}

// Stages lists the pipeline in processing order. The effect chain runs as one
// combine stage between tremolo and the envelope.
func Stages() []StageInfo {
	out := make([]StageInfo, 0, len(pipeline)+3)
	for _, s := range pipeline {
		out = append(out, s.StageInfo)
	}
	return append(out,
		StageInfo{StageEffects, Combine},
		StageInfo{StageEnvelope, Combine},
		StageInfo{StageNormalize, Combine},
	)
}

// Synthesizer renders parameter sets into normalized mono buffers over a
// shared time base. It is safe for concurrent use.
type Synthesizer struct {
	cfg   core.ProcessorConfig
	tb    *signal.TimeBase
	chain *effectchain.Chain
	seed  int64

	mu    sync.Mutex
	seeds *rand.Rand
}

type config struct {
	proc     []core.ProcessorOption
	seed     int64
	seeded   bool
	registry *effectchain.Registry
}

// Option configures a Synthesizer.
type Option func(*config)

// WithSampleRate sets the working sample rate. Invalid rates are ignored.
func WithSampleRate(sampleRate float64) Option {
	return func(c *config) { c.proc = append(c.proc, core.WithSampleRate(sampleRate)) }
}

// WithDuration sets the rendered buffer duration in seconds. Invalid
// durations are ignored.
func WithDuration(seconds float64) Option {
	return func(c *config) { c.proc = append(c.proc, core.WithDuration(seconds)) }
}

// WithProcessorConfig applies the rate and duration of cfg.
func WithProcessorConfig(cfg core.ProcessorConfig) Option {
	return func(c *config) {
		c.proc = append(c.proc, core.WithSampleRate(cfg.SampleRate), core.WithDuration(cfg.Duration))
	}
}

// WithSeed makes the per-render random sources derived by Render
// reproducible.
func WithSeed(seed int64) Option {
	return func(c *config) {
		c.seed = seed
		c.seeded = true
	}
}

// WithEffects replaces the effect stage registry. Stages still run in the
// default order.
func WithEffects(registry *effectchain.Registry) Option {
	return func(c *config) { c.registry = registry }
}

// New creates a Synthesizer. Defaults are 44.1 kHz and two seconds.
func New(opts ...Option) (*Synthesizer, error) {
	var c config
	for _, opt := range opts {
		if opt != nil {
			opt(&c)
		}
	}

	cfg := core.ApplyProcessorOptions(c.proc...)
	tb, err := signal.SharedTimeBase(cfg)
	if err != nil {
		return nil, fmt.Errorf("synth: %w", err)
	}

	chain, err := effectchain.New(c.registry)
	if err != nil {
		return nil, fmt.Errorf("synth: %w", err)
	}

	seed := c.seed
	if !c.seeded {
		seed = time.Now().UnixNano()
	}

	return &Synthesizer{
		cfg:   cfg,
		tb:    tb,
		chain: chain,
		seed:  seed,
		seeds: rand.New(rand.NewSource(seed)),
	}, nil
}

// Config returns the rate and duration renders use.
func (s *Synthesizer) Config() core.ProcessorConfig { return s.cfg }

// TimeBase returns the shared time base.
func (s *Synthesizer) TimeBase() *signal.TimeBase { return s.tb }

// Len returns the length of every rendered buffer.
func (s *Synthesizer) Len() int { return s.tb.Len() }

// Render runs the full pipeline for p and returns a buffer of Len() samples
// with peak 1, or all zeros when the signal cancels out completely. rng feeds
// the noise-bearing shapes and the noise stage; nil derives a fresh source
// from the synthesizer's seed sequence.
func (s *Synthesizer) Render(p Params, rng *rand.Rand) ([]float64, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("synth: render: %w", err)
	}
	if rng == nil {
		rng = s.nextRand()
	}

	n := s.tb.Len()
	r := &render{
		p:       p,
		tb:      s.tb,
		gen:     signal.NewGenerator(signal.WithRand(rng)),
		buf:     make([]float64, n),
		scratch: make([]float64, n),
	}

	for _, st := range pipeline {
		if st.active(p) {
			st.apply(r)
		}
	}

	ctx := effectchain.Context{SampleRate: s.cfg.SampleRate, Step: s.tb.Step(), Rand: rng}
	if _, err := s.chain.Process(ctx, p.Effects(), r.buf); err != nil {
		return nil, fmt.Errorf("synth: render: %w", err)
	}

	env := envelope.ADSR{Attack: p.Attack, Decay: p.Decay, Sustain: p.Sustain, Release: p.Release}
	env.Apply(r.buf, s.cfg.SampleRate)

	signal.NormalizePeak(r.buf)

	return r.buf, nil
}

// RenderNote renders p retuned to the equal-tempered frequency of note.
func (s *Synthesizer) RenderNote(p Params, note int, rng *rand.Rand) ([]float64, error) {
	if !core.ValidNote(note) {
		return nil, fmt.Errorf("synth: render note %d: %w", note, ErrInvalidParam)
	}
	return s.Render(p.WithFrequency(core.NoteToFrequency(note)), rng)
}

// ActiveStages returns the names of the stages that would run for p, in
// order. Effect stages are reported by their own names.
func (s *Synthesizer) ActiveStages(p Params) ([]string, error) {
	var names []string
	for _, st := range pipeline {
		if st.active(p) {
			names = append(names, st.Name)
		}
	}

	ctx := effectchain.Context{SampleRate: s.cfg.SampleRate, Step: s.tb.Step()}
	fx, err := s.chain.Active(ctx, p.Effects())
	if err != nil {
		return nil, fmt.Errorf("synth: %w", err)
	}

	names = append(names, fx...)
	return append(names, StageEnvelope, StageNormalize), nil
}

// NoteRand returns a random source derived from the synthesizer seed and
// note alone. It does not advance the per-render seed sequence.
func (s *Synthesizer) NoteRand(note int) *rand.Rand {
	mixed := uint64(s.seed) ^ (uint64(note)+1)*0x9e3779b97f4a7c15
	return rand.New(rand.NewSource(int64(mixed)))
}

func (s *Synthesizer) nextRand() *rand.Rand {
	s.mu.Lock()
	seed := s.seeds.Int63()
	s.mu.Unlock()
	return rand.New(rand.NewSource(seed))
}

func always(Params) bool { return true }

func hasHarmonics(p Params) bool {
	for _, w := range p.Harmonics {
		if w > 0 {
			return true
		}
	}
	return false
}

func renderOscillators(r *render) {
	r.gen.GenerateInto(r.buf, r.p.Shape1, r.tb, r.p.Frequency)
	r.gen.GenerateInto(r.scratch, r.p.Shape2, r.tb, r.p.Frequency)
	signal.Mix(r.buf, r.buf, r.scratch, r.p.WaveMix)
}

func renderHarmonics(r *render) {
	for i, w := range r.p.Harmonics {
		if w <= 0 {
			continue
		}
		r.gen.GenerateInto(r.scratch, signal.ShapeSine, r.tb, r.p.Frequency*float64(i+1))
		vecmath.ScaleBlockInPlace(r.scratch, w)
		vecmath.AddBlockInPlace(r.buf, r.scratch)
	}
}

func renderFM(r *render) {
	f, dev, rate := r.p.Frequency, r.p.FreqMod, r.p.FreqModRate
	for i, t := range r.tb.Instants() {
		inst := f + dev*math.Sin(2*math.Pi*rate*t)
		r.buf[i] = math.Sin(2 * math.Pi * inst * t)
	}
}

func renderAM(r *render) {
	lfo(r.scratch, r.tb, r.p.AmpMod, r.p.AmpModRate)
	vecmath.MulBlockInPlace(r.buf, r.scratch)
}

func renderVibrato(r *render) {
	f, depth, rate := r.p.Frequency, r.p.VibratoDepth, r.p.VibratoRate
	for i, t := range r.tb.Instants() {
		r.buf[i] = math.Sin(2*math.Pi*f*t + depth*math.Sin(2*math.Pi*rate*t))
	}
}

func renderTremolo(r *render) {
	lfo(r.scratch, r.tb, r.p.TremoloDepth, r.p.TremoloRate)
	vecmath.MulBlockInPlace(r.buf, r.scratch)
}

// lfo writes the gain curve 1 + depth*sin(2*pi*rate*t).
func lfo(dst []float64, tb *signal.TimeBase, depth, rate float64) {
	for i, t := range tb.Instants() {
		dst[i] = 1 + depth*math.Sin(2*math.Pi*rate*t)
	}
}
