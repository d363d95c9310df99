// Package envelope computes amplitude envelopes sized to a rendered buffer.
package envelope

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// ADSR describes a one-shot Attack-Decay-Sustain-Release shape. Times are in
// seconds; Sustain is a level, normally in [0, 1].
type ADSR struct {
	Attack  float64
	Decay   float64
	Sustain float64
	Release float64
}

// Segments holds the sample counts of each envelope stage after fitting.
type Segments struct {
	Attack  int
	Decay   int
	Sustain int
	Release int
}

// Fit converts the stage times to sample counts for a buffer of length
// samples. When attack+decay+release exceed length, all three are scaled down
// proportionally (truncating) and sustain takes whatever remains.
func (e ADSR) Fit(length int, sampleRate float64) Segments {
	if length <= 0 {
		return Segments{}
	}

	a := secondsToSamples(e.Attack, sampleRate)
	d := secondsToSamples(e.Decay, sampleRate)
	r := secondsToSamples(e.Release, sampleRate)

	total := a + d + r
	if total > length {
		scale := float64(length) / float64(total)
		a = int(float64(a) * scale)
		d = int(float64(d) * scale)
		r = int(float64(r) * scale)
		total = a + d + r
	}

	return Segments{
		Attack:  a,
		Decay:   d,
		Sustain: max(0, length-total),
		Release: r,
	}
}

// Compute returns an envelope of exactly length samples. It starts at 0,
// ramps linearly to 1, falls to the sustain level, holds, and ramps to 0.
// Any shortfall is zero-padded.
func (e ADSR) Compute(length int, sampleRate float64) []float64 {
	if length <= 0 {
		return nil
	}

	sustain := e.Sustain
	if sustain < 0 || math.IsNaN(sustain) {
		sustain = 0
	}

	seg := e.Fit(length, sampleRate)
	out := make([]float64, length)

	pos := linspaceInto(out, 0, 0, 1, seg.Attack)
	pos = linspaceInto(out, pos, 1, sustain, seg.Decay)
	for end := min(length, pos+seg.Sustain); pos < end; pos++ {
		out[pos] = sustain
	}
	linspaceInto(out, pos, sustain, 0, seg.Release)

	return out
}

// Apply multiplies buf by the envelope fitted to len(buf).
func (e ADSR) Apply(buf []float64, sampleRate float64) {
	if len(buf) == 0 {
		return
	}
	vecmath.MulBlockInPlace(buf, e.Compute(len(buf), sampleRate))
}

// linspaceInto writes n evenly spaced values from start to stop (inclusive)
// at dst[pos:] and returns the next write position. Writes past the end of
// dst are dropped.
func linspaceInto(dst []float64, pos int, start, stop float64, n int) int {
	if n <= 0 {
		return pos
	}
	if n == 1 {
		if pos < len(dst) {
			dst[pos] = start
		}
		return pos + 1
	}

	step := (stop - start) / float64(n-1)
	for i := 0; i < n && pos < len(dst); i++ {
		v := start + step*float64(i)
		if i == n-1 {
			v = stop
		}
		dst[pos] = v
		pos++
	}
	return pos
}

func secondsToSamples(seconds, sampleRate float64) int {
	if seconds <= 0 || sampleRate <= 0 || math.IsNaN(seconds) {
		return 0
	}
	return int(seconds * sampleRate)
}
