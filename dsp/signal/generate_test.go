package signal

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-synth/dsp/core"
)

func testTimeBase(t *testing.T, sampleRate, duration float64) *TimeBase {
	t.Helper()
	tb, err := NewTimeBase(core.ApplyProcessorOptions(
		core.WithSampleRate(sampleRate),
		core.WithDuration(duration),
	))
	if err != nil {
		t.Fatalf("NewTimeBase() error = %v", err)
	}
	return tb
}

func TestTimeBaseEndpoints(t *testing.T) {
	tb := testTimeBase(t, 44100, 2)
	if tb.Len() != 88200 {
		t.Fatalf("len = %d, want 88200", tb.Len())
	}
	if tb.At(0) != 0 {
		t.Fatalf("t[0] = %v, want 0", tb.At(0))
	}
	if tb.At(tb.Len()-1) != 2 {
		t.Fatalf("t[last] = %v, want 2", tb.At(tb.Len()-1))
	}
	for i := 1; i < tb.Len(); i++ {
		if tb.At(i) <= tb.At(i-1) {
			t.Fatalf("instants not increasing at %d", i)
		}
	}
}

func TestSharedTimeBaseReused(t *testing.T) {
	cfg := core.ApplyProcessorOptions(core.WithSampleRate(8000), core.WithDuration(0.25))
	a, err := SharedTimeBase(cfg)
	if err != nil {
		t.Fatalf("SharedTimeBase() error = %v", err)
	}
	b, err := SharedTimeBase(cfg)
	if err != nil {
		t.Fatalf("SharedTimeBase() error = %v", err)
	}
	if a != b {
		t.Fatal("expected the same time base instance")
	}
}

func TestNewTimeBaseRejectsInvalid(t *testing.T) {
	if _, err := NewTimeBase(core.ProcessorConfig{SampleRate: 0, Duration: 1}); err == nil {
		t.Fatal("expected error for zero sample rate")
	}
	if _, err := NewTimeBase(core.ProcessorConfig{SampleRate: 100, Duration: 0.001}); err == nil {
		t.Fatal("expected error for empty time base")
	}
}

func TestGenerateLengthAllShapes(t *testing.T) {
	tb := testTimeBase(t, 8000, 0.1)
	g := NewGenerator(WithSeed(1))
	for _, s := range Shapes() {
		out := g.Generate(s, tb, 220)
		if len(out) != tb.Len() {
			t.Fatalf("%s: len = %d, want %d", s, len(out), tb.Len())
		}
	}
}

func TestGenerateBoundedShapes(t *testing.T) {
	tb := testTimeBase(t, 8000, 0.1)
	g := NewGenerator(WithSeed(1))
	for _, s := range []Shape{ShapeSine, ShapeSquare, ShapeSawtooth, ShapeTriangle} {
		for i, v := range g.Generate(s, tb, 330) {
			if v < -1-1e-12 || v > 1+1e-12 {
				t.Fatalf("%s[%d] = %v out of [-1,1]", s, i, v)
			}
		}
	}
}

func TestSquareIsBipolar(t *testing.T) {
	tb := testTimeBase(t, 8000, 0.05)
	out := NewGenerator().Generate(ShapeSquare, tb, 100)
	for i, v := range out {
		if v != 1 && v != -1 {
			t.Fatalf("square[%d] = %v, want ±1", i, v)
		}
	}
}

func TestSawtoothAndTriangleShape(t *testing.T) {
	tests := []struct {
		name  string
		phase float64
		width float64
		want  float64
	}{
		{name: "saw start", phase: 0, width: 1, want: -1},
		{name: "saw mid", phase: math.Pi, width: 1, want: 0},
		{name: "tri start", phase: 0, width: 0.5, want: -1},
		{name: "tri peak", phase: math.Pi, width: 0.5, want: 1},
		{name: "tri quarter", phase: math.Pi / 2, width: 0.5, want: 0},
		{name: "tri three quarters", phase: 1.5 * math.Pi, width: 0.5, want: 0},
		{name: "negative phase wraps", phase: -math.Pi, width: 1, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sawtooth(tt.phase, tt.width)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Fatalf("Sawtooth(%v, %v) = %v, want %v", tt.phase, tt.width, got, tt.want)
			}
		})
	}
}

func TestNoiseDeterministicWithSeed(t *testing.T) {
	tb := testTimeBase(t, 8000, 0.01)
	a := NewGenerator(WithSeed(42)).Generate(ShapeNoise, tb, 440)
	b := NewGenerator(WithSeed(42)).Generate(ShapeNoise, tb, 440)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("noise mismatch at %d: %v != %v", i, a[i], b[i])
		}
	}
}

func TestNoiseStatistics(t *testing.T) {
	g := NewGenerator(WithSeed(7))
	n := g.Gaussian(200000, 1)

	var sum, sumSq float64
	for _, v := range n {
		sum += v
		sumSq += v * v
	}
	mean := sum / float64(len(n))
	variance := sumSq/float64(len(n)) - mean*mean

	if math.Abs(mean) > 0.01 {
		t.Fatalf("mean = %v, want ~0", mean)
	}
	if math.Abs(variance-1) > 0.02 {
		t.Fatalf("variance = %v, want ~1", variance)
	}
}

func TestCustomShapeBlendsSineAndNoise(t *testing.T) {
	tb := testTimeBase(t, 8000, 0.05)
	custom := NewGenerator(WithSeed(3)).Generate(ShapeCustom, tb, 200)
	noise := NewGenerator(WithSeed(3)).Gaussian(tb.Len(), 1)

	for i := range custom {
		want := 0.7*math.Sin(2*math.Pi*200*tb.At(i)) + 0.3*noise[i]
		if math.Abs(custom[i]-want) > 1e-12 {
			t.Fatalf("custom[%d] = %v, want %v", i, custom[i], want)
		}
	}
}

func TestParseShape(t *testing.T) {
	for _, s := range Shapes() {
		got, err := ParseShape(s.String())
		if err != nil || got != s {
			t.Fatalf("ParseShape(%q) = %v, %v", s.String(), got, err)
		}
	}
	if got, err := ParseShape(" Square "); err != nil || got != ShapeSquare {
		t.Fatalf("ParseShape(\" Square \") = %v, %v", got, err)
	}
	if _, err := ParseShape("pulse"); !errors.Is(err, ErrUnknownShape) {
		t.Fatalf("ParseShape(pulse) error = %v, want ErrUnknownShape", err)
	}
}

func TestMix(t *testing.T) {
	a := []float64{1, 1, 1}
	b := []float64{-1, 0, 1}
	dst := make([]float64, 3)
	Mix(dst, a, b, 0.25)

	want := []float64{0.5, 0.75, 1}
	for i := range want {
		if math.Abs(dst[i]-want[i]) > 1e-12 {
			t.Fatalf("dst[%d] = %v, want %v", i, dst[i], want[i])
		}
	}
}

func TestNormalizePeak(t *testing.T) {
	buf := []float64{0.1, -0.4, 0.2}
	if !NormalizePeak(buf) {
		t.Fatal("expected normalization to succeed")
	}
	if math.Abs(Peak(buf)-1) > 1e-12 {
		t.Fatalf("peak = %v, want 1", Peak(buf))
	}
	if math.Abs(buf[1]+1) > 1e-12 {
		t.Fatalf("buf[1] = %v, want -1", buf[1])
	}
}

func TestNormalizePeakZeroBuffer(t *testing.T) {
	buf := make([]float64, 8)
	if NormalizePeak(buf) {
		t.Fatal("expected zero buffer to be left alone")
	}
	for i, v := range buf {
		if v != 0 {
			t.Fatalf("buf[%d] = %v, want 0", i, v)
		}
	}
}
