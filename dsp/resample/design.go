package resample

import (
	"fmt"
	"math"
)

// lowpass designs the Kaiser-windowed sinc prototype for an up/down
// conversion, scaled for unity passband gain after upsampling by up.
func lowpass(up, down int, c config) ([]float64, error) {
	if c.tapsPerPhase <= 0 {
		return nil, fmt.Errorf("resample: taps per phase must be > 0: %d", c.tapsPerPhase)
	}

	fc := 0.5 / float64(max(up, down)) * c.cutoffScale
	if fc <= 0 || fc >= 0.5 {
		return nil, fmt.Errorf("resample: invalid cutoff %.6f", fc)
	}

	n := c.tapsPerPhase * up
	h := make([]float64, n)
	center := 0.5 * float64(n-1)

	var sum float64
	for i := range h {
		h[i] = 2 * fc * sinc(2*fc*(float64(i)-center)) * kaiser(i, n, c.kaiserBeta)
		sum += h[i]
	}
	if sum == 0 {
		return nil, fmt.Errorf("resample: zero-sum prototype for %d/%d", up, down)
	}

	scale := float64(up) / sum
	for i := range h {
		h[i] *= scale
	}
	return h, nil
}

// approximateRatio returns the continued-fraction convergent of v with the
// largest denominator not above maxDen.
func approximateRatio(v float64, maxDen int) (num, den int) {
	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 1, 1
	}

	p0, q0 := 1.0, 0.0
	p1, q1 := math.Floor(v), 1.0
	for x := v; ; {
		frac := x - math.Floor(x)
		if frac == 0 {
			break
		}
		x = 1 / frac
		a := math.Floor(x)

		q2 := a*q1 + q0
		if q2 > float64(maxDen) {
			break
		}
		p0, p1 = p1, a*p1+p0
		q0, q1 = q1, q2
	}

	num, den = int(math.Round(p1)), int(math.Round(q1))
	if num <= 0 || den <= 0 {
		// v is below 1/maxDen.
		return 1, maxDen
	}
	g := gcd(num, den)
	return num / g, den / g
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}

func sinc(x float64) float64 {
	if math.Abs(x) < 1e-12 {
		return 1
	}
	return math.Sin(math.Pi*x) / (math.Pi * x)
}

func kaiser(i, n int, beta float64) float64 {
	if n <= 1 {
		return 1
	}
	t := 2*float64(i)/float64(n-1) - 1
	return besselI0(beta*math.Sqrt(max(0, 1-t*t))) / besselI0(beta)
}

// besselI0 evaluates the modified Bessel function of order zero by its
// power series.
func besselI0(x float64) float64 {
	sum, term := 1.0, 1.0
	q := x * x / 4
	for k := 1; k < 64; k++ {
		term *= q / float64(k*k)
		sum += term
		if term < 1e-16*sum {
			break
		}
	}
	return sum
}
