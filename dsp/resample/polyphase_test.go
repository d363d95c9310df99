package resample

import (
	"math"
	"testing"
)

func TestApproximateRatio(t *testing.T) {
	tests := []struct {
		v        float64
		maxDen   int
		num, den int
	}{
		{48000.0 / 44100, 4096, 160, 147},
		{0.5, 1024, 1, 2},
		{3, 1024, 3, 1},
		{1e-5, 1024, 1, 1024},
		{math.NaN(), 1024, 1, 1},
		{-2, 1024, 1, 1},
	}
	for _, tc := range tests {
		num, den := approximateRatio(tc.v, tc.maxDen)
		if num != tc.num || den != tc.den {
			t.Fatalf("approximateRatio(%v, %d) = %d/%d, want %d/%d", tc.v, tc.maxDen, num, den, tc.num, tc.den)
		}
	}
}

func TestApproximateRatioSemitone(t *testing.T) {
	v := math.Pow(2, 1.0/12)
	num, den := approximateRatio(v, lengthMaxDen)
	if den > lengthMaxDen {
		t.Fatalf("den = %d, want <= %d", den, lengthMaxDen)
	}
	if got := float64(num) / float64(den); math.Abs(got-v) > 1e-5 {
		t.Fatalf("%d/%d = %v, want about %v", num, den, got, v)
	}
}

func TestPolyphaseReducesRatio(t *testing.T) {
	p, err := newPolyphase(4, 8, newConfig(lengthMaxDen, nil))
	if err != nil {
		t.Fatalf("newPolyphase() error = %v", err)
	}
	if p.up != 1 || p.down != 2 {
		t.Fatalf("ratio = %d/%d, want 1/2", p.up, p.down)
	}
	if _, err := newPolyphase(0, 2, newConfig(lengthMaxDen, nil)); err != ErrInvalidRatio {
		t.Fatalf("err = %v, want ErrInvalidRatio", err)
	}
}

func TestPolyphaseOutputLength(t *testing.T) {
	for _, r := range [][2]int{{1, 2}, {2, 1}, {3, 2}, {160, 147}, {147, 160}} {
		p, err := newPolyphase(r[0], r[1], newConfig(lengthMaxDen, nil))
		if err != nil {
			t.Fatalf("%d/%d: newPolyphase() error = %v", r[0], r[1], err)
		}
		in := sine(1000, 48000, 4800)
		want := int(math.Ceil(float64(len(in)) * float64(r[0]) / float64(r[1])))
		if got := len(p.run(in)); got != want {
			t.Fatalf("%d/%d: len = %d, want %d", r[0], r[1], got, want)
		}
	}
}

func TestQualityModesPassbandAndStopband(t *testing.T) {
	tests := []struct {
		name          string
		quality       Quality
		maxPassbandDB float64
		minStopbandDB float64
	}{
		{name: "fast", quality: QualityFast, maxPassbandDB: 0.7, minStopbandDB: 20},
		{name: "balanced", quality: QualityBalanced, maxPassbandDB: 0.35, minStopbandDB: 35},
		{name: "best", quality: QualityBest, maxPassbandDB: 0.2, minStopbandDB: 50},
	}

	for _, tc := range tests {
		inPass := sine(2000, 48000, 32768)
		inStop := sine(17000, 48000, 32768)

		// Half the length lowers the Nyquist limit to 12 kHz.
		outPass, err := ToLength(inPass, len(inPass)/2, WithQuality(tc.quality))
		if err != nil {
			t.Fatalf("%s: ToLength() error = %v", tc.name, err)
		}
		outStop, err := ToLength(inStop, len(inStop)/2, WithQuality(tc.quality))
		if err != nil {
			t.Fatalf("%s: ToLength() error = %v", tc.name, err)
		}

		passbandDB := math.Abs(dbRatio(rms(outPass[2048:14336]), rms(inPass[4096:28672])))
		if passbandDB > tc.maxPassbandDB {
			t.Fatalf("%s: passband droop %.2f dB > %.2f dB", tc.name, passbandDB, tc.maxPassbandDB)
		}

		stopbandDB := -dbRatio(rms(outStop[2048:14336]), rms(inStop[4096:28672]))
		if stopbandDB < tc.minStopbandDB {
			t.Fatalf("%s: stopband attenuation %.2f dB < %.2f dB", tc.name, stopbandDB, tc.minStopbandDB)
		}
	}
}

func sine(freq, sampleRate float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.Sin(2 * math.Pi * freq * float64(i) / sampleRate)
	}
	return out
}

func rms(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	var sum float64
	for _, v := range x {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(x)))
}

func dbRatio(out, in float64) float64 {
	return 20 * math.Log10(out/in)
}
