package resample

import "math"

// lengthMaxDen bounds the ratio approximation of ToLength. Pitch ratios are
// usually irrational (2^(k/12)) and the prototype grows with the numerator.
const lengthMaxDen = 1024

// LengthFor returns the output length for a pitch shift by ratio (target
// frequency over source frequency): max(1, round(n/ratio)). Pitch and
// duration move together, as with playing a recording at a different rate.
func LengthFor(n int, ratio float64) int {
	if n <= 0 || ratio <= 0 || math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return 1
	}
	return max(1, int(math.Round(float64(n)/ratio)))
}

// ToLength band-limits and resamples input to exactly n samples. The ratio
// n/len(input) is approximated by an up/down pair. The filter delay is
// removed and the tail flushed, so the output stays time-aligned with the
// input; a shortfall from the approximation is zero-filled and any excess
// dropped.
//
// Input is not modified. An empty input yields n zeros.
func ToLength(input []float64, n int, opts ...Option) ([]float64, error) {
	if n <= 0 {
		return nil, ErrInvalidLength
	}

	out := make([]float64, n)
	if len(input) == 0 {
		return out, nil
	}
	if n == len(input) {
		copy(out, input)
		return out, nil
	}

	c := newConfig(lengthMaxDen, opts)
	up, down := approximateRatio(float64(n)/float64(len(input)), c.maxDen)

	p, err := newPolyphase(up, down, c)
	if err != nil {
		return nil, err
	}

	padded := make([]float64, len(input)+p.branchLen()+1)
	copy(padded, input)

	y := p.run(padded)
	if d := p.delay(); d < len(y) {
		copy(out, y[d:])
	}
	return out, nil
}
