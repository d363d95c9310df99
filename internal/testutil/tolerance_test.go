package testutil

import "testing"

func TestRequireSliceNearlyEqualPasses(t *testing.T) {
	RequireSliceNearlyEqual(t, []float64{1, 2.0000001}, []float64{1, 2}, 1e-6)
}

func TestRequireFinitePasses(t *testing.T) {
	RequireFinite(t, []float64{0, -1, 1e300})
}

func TestDistinctCount(t *testing.T) {
	if got := DistinctCount([]float64{1, 2, 2, 3, 1}); got != 3 {
		t.Fatalf("DistinctCount = %d, want 3", got)
	}
	if got := DistinctCount(nil); got != 0 {
		t.Fatalf("DistinctCount(nil) = %d, want 0", got)
	}
}
