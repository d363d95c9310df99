package effectchain

import "math/rand"

// Context provides environmental information that stage runtimes need.
type Context struct {
	// SampleRate is the nominal engine rate in Hz; filter designs use it.
	SampleRate float64
	// Step is the spacing of the rendered time base in seconds. Time-domain
	// stages (chorus) use it so their delays line up with the time base.
	Step float64
	// Rand is the random source for stochastic stages. Nil means the stage
	// seeds its own.
	Rand *rand.Rand
}

// stepRate returns 1/Step, falling back to SampleRate.
func (c Context) stepRate() float64 {
	if c.Step > 0 {
		return 1 / c.Step
	}
	return c.SampleRate
}
