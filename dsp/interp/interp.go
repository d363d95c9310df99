package interp

import "math"

// Linear2 interpolates between x0 and x1 at fraction t in [0,1].
func Linear2(t, x0, x1 float64) float64 {
	return x0 + t*(x1-x0)
}

// snapTolerance absorbs rounding in positions derived from seconds, so a
// delay of exactly k samples reads sample k rather than falling just outside
// the buffer.
const snapTolerance = 1e-9

// At reads buf at fractional index pos with 2-point linear interpolation.
// Positions outside [0, len(buf)-1] read as zero.
func At(buf []float64, pos float64) float64 {
	if r := math.Round(pos); math.Abs(pos-r) < snapTolerance {
		pos = r
	}

	n := len(buf)
	if n == 0 || pos < 0 || pos > float64(n-1) || math.IsNaN(pos) {
		return 0
	}

	i := int(pos)
	if i >= n-1 {
		return buf[n-1]
	}
	return Linear2(pos-float64(i), buf[i], buf[i+1])
}

// DelayInto writes src delayed by delay samples (fractional allowed) into
// dst: dst[i] = At(src, i-delay). dst must be at least as long as src.
func DelayInto(dst, src []float64, delay float64) {
	for i := range src {
		dst[i] = At(src, float64(i)-delay)
	}
}
