package biquad

// Chain runs biquad sections in series after an input gain.
type Chain struct {
	sections []Section
	gain     float64
}

// ChainOption configures a Chain.
type ChainOption func(*Chain)

// WithGain scales the input before the first section. The default is 1.
func WithGain(g float64) ChainOption {
	return func(c *Chain) { c.gain = g }
}

// NewChain creates a cascade with one section per coefficient set.
func NewChain(coeffs []Coefficients, opts ...ChainOption) *Chain {
	c := &Chain{sections: make([]Section, len(coeffs)), gain: 1}
	for i, k := range coeffs {
		c.sections[i].Coefficients = k
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Len returns the number of sections.
func (c *Chain) Len() int { return len(c.sections) }

// ProcessSample filters one sample through every section.
func (c *Chain) ProcessSample(x float64) float64 {
	x *= c.gain
	for i := range c.sections {
		x = c.sections[i].ProcessSample(x)
	}
	return x
}

// ProcessBlock filters buf in place.
func (c *Chain) ProcessBlock(buf []float64) {
	if c.gain != 1 {
		for i := range buf {
			buf[i] *= c.gain
		}
	}
	for i := range c.sections {
		c.sections[i].ProcessBlock(buf)
	}
}

// Reset clears the state of every section.
func (c *Chain) Reset() {
	for i := range c.sections {
		c.sections[i].Reset()
	}
}

// State returns the delay-line state of every section.
func (c *Chain) State() [][2]float64 {
	states := make([][2]float64, len(c.sections))
	for i := range c.sections {
		states[i] = c.sections[i].State()
	}
	return states
}

// SetState restores states saved by State.
func (c *Chain) SetState(states [][2]float64) {
	for i := range c.sections {
		c.sections[i].SetState(states[i])
	}
}
