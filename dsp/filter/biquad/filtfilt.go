package biquad

// FiltFilt runs the cascade forward and then backward over x and returns the
// zero-phase result. The chain's own state is reset before and after.
//
// The input is extended at both ends by an odd (point-symmetric) reflection
// of 3*(2*sections+1) samples, and each pass starts from the step-response
// state scaled by its first sample, so the edges carry no start-up
// transient. Inputs shorter than the pad are padded by len(x)-1 samples.
func (c *Chain) FiltFilt(x []float64) []float64 {
	n := len(x)
	if n == 0 {
		return nil
	}

	out := make([]float64, n)
	if len(c.sections) == 0 {
		for i, v := range x {
			out[i] = v * c.gain * c.gain
		}
		return out
	}

	pad := c.padLen()
	if pad > n-1 {
		pad = n - 1
	}

	ext := oddExtend(x, pad)
	zi := c.stepStates()

	c.runFrom(ext, zi, ext[0])

	reverse(ext)
	c.runFrom(ext, zi, ext[0])
	reverse(ext)

	copy(out, ext[pad:pad+n])
	c.Reset()

	return out
}

func (c *Chain) padLen() int {
	taps := 2*len(c.sections) + 1
	firstOrder := 0
	for i := range c.sections {
		if c.sections[i].B2 == 0 && c.sections[i].A2 == 0 {
			firstOrder++
		}
	}
	return 3 * (taps - firstOrder)
}

// stepStates returns per-section initial states for a unit step at the
// chain input. Later sections see the DC gain of everything before them.
func (c *Chain) stepStates() [][2]float64 {
	states := make([][2]float64, len(c.sections))
	scale := c.gain
	for i := range c.sections {
		st := c.sections[i].StepState()
		states[i] = [2]float64{st[0] * scale, st[1] * scale}
		scale *= c.sections[i].DCGain()
	}
	return states
}

func (c *Chain) runFrom(buf []float64, zi [][2]float64, x0 float64) {
	for i := range c.sections {
		c.sections[i].SetState([2]float64{zi[i][0] * x0, zi[i][1] * x0})
	}
	c.ProcessBlock(buf)
}

// oddExtend returns x with pad samples of odd reflection on each side:
// 2*x[0]-x[pad..1] before and 2*x[n-1]-x[n-2..n-1-pad] after.
func oddExtend(x []float64, pad int) []float64 {
	n := len(x)
	ext := make([]float64, n+2*pad)

	first, last := x[0], x[n-1]
	for i := 0; i < pad; i++ {
		ext[i] = 2*first - x[pad-i]
		ext[pad+n+i] = 2*last - x[n-2-i]
	}
	copy(ext[pad:], x)

	return ext
}

func reverse(buf []float64) {
	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
}
