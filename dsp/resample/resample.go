package resample

import "errors"

var (
	// ErrInvalidRatio indicates a conversion ratio that is not positive.
	ErrInvalidRatio = errors.New("resample: invalid ratio")
	// ErrInvalidLength indicates a non-positive target length.
	ErrInvalidLength = errors.New("resample: invalid target length")
)

// Quality selects the anti-aliasing filter defaults.
type Quality int

const (
	// QualityFast uses short filters.
	QualityFast Quality = iota
	// QualityBalanced is the default.
	QualityBalanced
	// QualityBest uses long filters with a flat passband.
	QualityBest
)

// Profile holds the filter defaults of a quality mode.
type Profile struct {
	TapsPerPhase      int
	CutoffScale       float64 // fraction of the anti-aliasing cutoff
	KaiserBeta        float64
	NominalStopbandDB float64
}

// QualityProfile returns the defaults of q.
func QualityProfile(q Quality) Profile {
	switch q {
	case QualityFast:
		return Profile{TapsPerPhase: 16, CutoffScale: 0.88, KaiserBeta: 5, NominalStopbandDB: 55}
	case QualityBest:
		return Profile{TapsPerPhase: 64, CutoffScale: 0.96, KaiserBeta: 9, NominalStopbandDB: 90}
	default:
		return Profile{TapsPerPhase: 32, CutoffScale: 0.92, KaiserBeta: 7.5, NominalStopbandDB: 75}
	}
}

type config struct {
	quality      Quality
	tapsPerPhase int
	cutoffScale  float64
	kaiserBeta   float64
	maxDen       int
}

// Option configures a conversion.
type Option func(*config)

// WithQuality selects a quality mode.
func WithQuality(q Quality) Option {
	return func(c *config) { c.quality = q }
}

// WithTapsPerPhase overrides the filter length per polyphase branch.
func WithTapsPerPhase(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.tapsPerPhase = n
		}
	}
}

// WithCutoffScale overrides the cutoff as a fraction in (0, 1] of the
// anti-aliasing limit.
func WithCutoffScale(v float64) Option {
	return func(c *config) {
		if v > 0 && v <= 1 {
			c.cutoffScale = v
		}
	}
}

// WithKaiserBeta overrides the Kaiser window shape. Zero keeps the default.
func WithKaiserBeta(beta float64) Option {
	return func(c *config) {
		if beta > 0 {
			c.kaiserBeta = beta
		}
	}
}

// WithMaxDenominator bounds the up/down pair approximating the ratio.
func WithMaxDenominator(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxDen = n
		}
	}
}

func newConfig(maxDen int, opts []Option) config {
	c := config{quality: QualityBalanced, maxDen: maxDen}
	for _, opt := range opts {
		if opt != nil {
			opt(&c)
		}
	}

	p := QualityProfile(c.quality)
	if c.tapsPerPhase == 0 {
		c.tapsPerPhase = p.TapsPerPhase
	}
	if c.cutoffScale == 0 {
		c.cutoffScale = p.CutoffScale
	}
	if c.kaiserBeta == 0 {
		c.kaiserBeta = p.KaiserBeta
	}
	return c
}

// polyphase converts by up/down with one FIR branch per output phase.
type polyphase struct {
	up, down int
	taps     int
	branches [][]float64
}

func newPolyphase(up, down int, c config) (*polyphase, error) {
	if up <= 0 || down <= 0 {
		return nil, ErrInvalidRatio
	}
	g := gcd(up, down)
	up, down = up/g, down/g

	proto, err := lowpass(up, down, c)
	if err != nil {
		return nil, err
	}

	branches := make([][]float64, up)
	for i, h := range proto {
		branches[i%up] = append(branches[i%up], h)
	}
	return &polyphase{up: up, down: down, taps: len(proto), branches: branches}, nil
}

// run converts x as one block from silence. Output m reads the upsampled
// position m*down.
func (p *polyphase) run(x []float64) []float64 {
	out := make([]float64, (len(x)*p.up+p.down-1)/p.down)
	for m := range out {
		pos := m * p.down
		i := pos / p.up

		var y float64
		for k, c := range p.branches[pos%p.up] {
			if i-k < 0 {
				break
			}
			y += c * x[i-k]
		}
		out[m] = y
	}
	return out
}

// delay is the prototype group delay in output samples.
func (p *polyphase) delay() int {
	return int(0.5*float64(p.taps-1)/float64(p.down) + 0.5)
}

// branchLen is the longest branch, the input history one output depends on.
func (p *polyphase) branchLen() int { return len(p.branches[0]) }
