package core

import "math"

const (
	defaultEpsilon = 1e-12

	// ConcertA is the reference pitch of MIDI note 69.
	ConcertA = 440.0
	// ConcertANote is the MIDI note number tuned to ConcertA.
	ConcertANote = 69
	// MaxNote is the highest valid MIDI note number.
	MaxNote = 127
)

// Clamp limits value to the inclusive range [min, max].
func Clamp(value, min, max float64) float64 {
	if min > max {
		min, max = max, min
	}

	if value < min {
		return min
	}

	if value > max {
		return max
	}

	return value
}

// NearlyEqual reports whether a and b are equal within eps.
func NearlyEqual(a, b, eps float64) bool {
	if eps <= 0 {
		eps = defaultEpsilon
	}

	diff := math.Abs(a - b)
	if diff <= eps {
		return true
	}

	largest := math.Max(math.Abs(a), math.Abs(b))
	if largest == 0 {
		return diff <= eps
	}

	return diff/largest <= eps
}

// NoteToFrequency returns the equal-tempered frequency of a MIDI note:
// 440 * 2^((note-69)/12).
func NoteToFrequency(note int) float64 {
	return ConcertA * math.Exp2(float64(note-ConcertANote)/12)
}

// FrequencyToNote returns the nearest MIDI note for freq, clamped to [0, 127].
// Non-positive frequencies map to note 0.
func FrequencyToNote(freq float64) int {
	if freq <= 0 || math.IsNaN(freq) {
		return 0
	}

	n := int(math.Round(ConcertANote + 12*math.Log2(freq/ConcertA)))
	if n < 0 {
		return 0
	}

	if n > MaxNote {
		return MaxNote
	}

	return n
}

// ValidNote reports whether note is a MIDI note number.
func ValidNote(note int) bool {
	return note >= 0 && note <= MaxNote
}
