package window

import (
	"math"
	"testing"
)

func TestGenerateHannSymmetric(t *testing.T) {
	w := Generate(TypeHann, 5)
	want := []float64{0, 0.5, 1, 0.5, 0}
	for i := range want {
		if math.Abs(w[i]-want[i]) > 1e-12 {
			t.Fatalf("w[%d] = %v, want %v", i, w[i], want[i])
		}
	}
}

func TestGeneratePeriodic(t *testing.T) {
	w := Generate(TypeHann, 4, WithPeriodic())
	want := []float64{0, 0.5, 1, 0.5}
	for i := range want {
		if math.Abs(w[i]-want[i]) > 1e-12 {
			t.Fatalf("w[%d] = %v, want %v", i, w[i], want[i])
		}
	}
}

func TestEndpoints(t *testing.T) {
	tests := []struct {
		typ  Type
		edge float64
	}{
		{TypeRectangular, 1},
		{TypeHann, 0},
		{TypeHamming, 0.08},
		{TypeBlackman, 0},
	}
	for _, tc := range tests {
		t.Run(tc.typ.String(), func(t *testing.T) {
			w := Generate(tc.typ, 65)
			if math.Abs(w[0]-tc.edge) > 1e-12 || math.Abs(w[64]-tc.edge) > 1e-12 {
				t.Fatalf("edges = %v, %v, want %v", w[0], w[64], tc.edge)
			}
			if math.Abs(w[32]-1) > 1e-12 {
				t.Fatalf("center = %v, want 1", w[32])
			}
		})
	}
}

func TestApplyAndCoherentGain(t *testing.T) {
	buf := []float64{2, 2, 2, 2, 2}
	Apply(TypeHann, buf)
	if buf[2] != 2 || buf[0] != 0 {
		t.Fatalf("Apply = %v", buf)
	}

	cg := CoherentGain(Generate(TypeHann, 1024, WithPeriodic()))
	if math.Abs(cg-0.5) > 1e-12 {
		t.Fatalf("CoherentGain = %v, want 0.5", cg)
	}
	if Generate(TypeHann, 0) != nil {
		t.Fatal("zero length should be nil")
	}
}
