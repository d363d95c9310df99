package resample

import (
	"math"
	"testing"
)

func TestLengthFor(t *testing.T) {
	tests := []struct {
		n     int
		ratio float64
		want  int
	}{
		{1000, 2, 500},
		{1000, 0.5, 2000},
		{1000, math.Pow(2, 1.0/12), 944},
		{3, 100, 1},
		{0, 1, 1},
		{10, 0, 1},
	}
	for _, tc := range tests {
		if got := LengthFor(tc.n, tc.ratio); got != tc.want {
			t.Fatalf("LengthFor(%d, %v) = %d, want %d", tc.n, tc.ratio, got, tc.want)
		}
	}
}

func TestToLengthExactLength(t *testing.T) {
	in := sine(440, 44100, 4410)
	for _, semis := range []int{-12, -7, -1, 1, 5, 12, 24} {
		ratio := math.Pow(2, float64(semis)/12)
		n := LengthFor(len(in), ratio)

		out, err := ToLength(in, n)
		if err != nil {
			t.Fatalf("semis %d: ToLength() error = %v", semis, err)
		}
		if len(out) != n {
			t.Fatalf("semis %d: len = %d, want %d", semis, len(out), n)
		}
		want := float64(len(in)) / ratio
		if math.Abs(float64(len(out))-want) > 1 {
			t.Fatalf("semis %d: len = %d, want ~%.1f", semis, len(out), want)
		}
	}
}

func TestToLengthShiftsPitchWithoutDelay(t *testing.T) {
	const sr = 48000.0
	in := sine(250, sr, 9600)

	// Half the length doubles every frequency.
	out, err := ToLength(in, len(in)/2)
	if err != nil {
		t.Fatalf("ToLength() error = %v", err)
	}

	want := sine(500, sr, len(out))
	for i := 200; i < len(out)-200; i++ {
		if math.Abs(out[i]-want[i]) > 0.05 {
			t.Fatalf("sample %d: got %v, want %v", i, out[i], want[i])
		}
	}
}

func TestToLengthEdgeCases(t *testing.T) {
	if _, err := ToLength([]float64{1, 2}, 0); err != ErrInvalidLength {
		t.Fatalf("err = %v, want ErrInvalidLength", err)
	}

	out, err := ToLength(nil, 4)
	if err != nil || len(out) != 4 {
		t.Fatalf("empty input: len=%d err=%v", len(out), err)
	}

	in := []float64{0.1, 0.2, 0.3}
	out, _ = ToLength(in, 3)
	out[0] = 9
	if in[0] != 0.1 {
		t.Fatal("ToLength must not alias its input")
	}

	out, err = ToLength(sine(100, 8000, 1000), 1)
	if err != nil || len(out) != 1 {
		t.Fatalf("single-sample target: len=%d err=%v", len(out), err)
	}
}
