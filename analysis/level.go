package analysis

import "math"

// Level holds time-domain level statistics.
type Level struct {
	Length        int
	DC            float64 // mean
	RMS           float64
	Peak          float64 // max |x|
	PeakPos       int
	CrestFactor   float64 // peak / RMS, 0 for silence
	ZeroCrossings int
}

// MeasureLevel computes the level statistics of buf in a single pass.
func MeasureLevel(buf []float64) Level {
	l := Level{Length: len(buf)}
	if len(buf) == 0 {
		return l
	}

	var sum, sumSq float64
	for i, x := range buf {
		sum += x
		sumSq += x * x

		if a := math.Abs(x); a > l.Peak {
			l.Peak = a
			l.PeakPos = i
		}
		if i > 0 && buf[i-1]*x < 0 {
			l.ZeroCrossings++
		}
	}

	n := float64(len(buf))
	l.DC = sum / n
	l.RMS = math.Sqrt(sumSq / n)
	if l.RMS > 0 {
		l.CrestFactor = l.Peak / l.RMS
	}
	return l
}

// CrossingRate estimates the frequency of a periodic buffer from its zero
// crossings, two per cycle.
func (l Level) CrossingRate(sampleRate float64) float64 {
	if l.Length < 2 {
		return 0
	}
	return float64(l.ZeroCrossings) / 2 * sampleRate / float64(l.Length-1)
}

// DB converts a linear amplitude to decibels. Zero maps to -Inf.
func DB(v float64) float64 {
	a := math.Abs(v)
	if a == 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(a)
}
