package effectchain

import (
	"errors"
	"math"
	"math/rand"
	"reflect"
	"testing"

	"github.com/cwbudde/algo-synth/internal/testutil"
)

func TestNewRejectsUnknownStage(t *testing.T) {
	t.Parallel()

	if _, err := New(nil, StageNoise, "reverb"); !errors.Is(err, ErrUnknownStage) {
		t.Fatalf("err = %v, want ErrUnknownStage", err)
	}
}

func TestChainRunsActiveStagesInOrder(t *testing.T) {
	t.Parallel()

	var log []string
	r := NewRegistry()
	for _, s := range []struct {
		name   string
		active bool
	}{{"a", true}, {"b", false}, {"c", true}} {
		s := s
		r.MustRegister(s.name, func(_ Context) (Runtime, error) {
			return &stubRuntime{name: s.name, active: s.active, log: &log}, nil
		})
	}

	c, err := New(r, "c", "b", "a")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	block := []float64{0, 0}
	applied, err := c.Process(Context{SampleRate: 44100}, Params{}, block)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if want := []string{"c", "a"}; !reflect.DeepEqual(applied, want) || !reflect.DeepEqual(log, want) {
		t.Fatalf("applied=%v log=%v, want %v", applied, log, want)
	}
	if block[0] != 2 {
		t.Fatalf("block[0] = %v, want 2", block[0])
	}
}

func TestChainActiveDoesNotProcess(t *testing.T) {
	t.Parallel()

	c, err := New(nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	params := Params{Num: map[string]float64{
		KeyBitCrush:     1,
		KeyChorusDepth:  0.5,
		KeyFilterCutoff: 1000,
	}}

	active, err := c.Active(Context{SampleRate: 44100}, params)
	if err != nil {
		t.Fatalf("Active() error = %v", err)
	}

	if want := []string{StageBitCrush, StageLowpass, StageChorus}; !reflect.DeepEqual(active, want) {
		t.Fatalf("Active() = %v, want %v", active, want)
	}
}

func TestDefaultChainNoParamsIsIdentity(t *testing.T) {
	t.Parallel()

	c, err := New(nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	in := testutil.DeterministicSine(440, 44100, 1, 1024)
	out := append([]float64(nil), in...)
	applied, err := c.Process(Context{SampleRate: 44100}, Params{Num: map[string]float64{
		KeyFilterCutoff: FilterCeiling,
	}}, out)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if len(applied) != 0 {
		t.Fatalf("applied = %v, want none", applied)
	}
	testutil.RequireSliceNearlyEqual(t, out, in, 0)
}

func TestDefaultChainBitCrushFull(t *testing.T) {
	t.Parallel()

	c, _ := New(nil)
	buf := testutil.DeterministicSine(440, 44100, 1, 44100)
	applied, err := c.Process(Context{SampleRate: 44100}, Params{Num: map[string]float64{KeyBitCrush: 1}}, buf)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if !reflect.DeepEqual(applied, []string{StageBitCrush}) {
		t.Fatalf("applied = %v", applied)
	}
	if n := testutil.DistinctCount(buf); n > 16 {
		t.Fatalf("distinct values = %d, want <= 16", n)
	}
}

func TestDefaultChainDistortionThenFold(t *testing.T) {
	t.Parallel()

	c, _ := New(nil)
	buf := []float64{0.1, -0.3}
	_, err := c.Process(Context{SampleRate: 44100}, Params{Num: map[string]float64{
		KeyDistortion: 0.2,
		KeyFoldAmount: 0.5,
	}}, buf)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	for i, x := range []float64{0.1, -0.3} {
		want := math.Sin(math.Tanh(x*3) * math.Pi * 0.5)
		if math.Abs(buf[i]-want) > 1e-12 {
			t.Fatalf("buf[%d] = %v, want %v", i, buf[i], want)
		}
	}
}

func TestDefaultChainNoiseSeeded(t *testing.T) {
	t.Parallel()

	c, _ := New(nil)
	params := Params{Num: map[string]float64{KeyNoiseLevel: 0.1}}

	a := make([]float64, 64)
	b := make([]float64, 64)
	_, _ = c.Process(Context{SampleRate: 44100, Rand: rand.New(rand.NewSource(3))}, params, a)
	_, _ = c.Process(Context{SampleRate: 44100, Rand: rand.New(rand.NewSource(3))}, params, b)

	testutil.RequireSliceNearlyEqual(t, a, b, 0)
	if testutil.DistinctCount(a) < 60 {
		t.Fatal("noise stage did not run")
	}
}

func TestDefaultChainChorusUsesStep(t *testing.T) {
	t.Parallel()

	c, _ := New(nil)
	// Step 0.01 s and depth 1 give a 3-sample delay.
	buf := []float64{1, 0, 0, 0, 0}
	_, err := c.Process(Context{SampleRate: 44100, Step: 0.01}, Params{Num: map[string]float64{
		KeyChorusDepth: 1,
		KeyChorusRate:  0.5,
	}}, buf)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	if math.Abs(buf[3]-0.5) > 1e-9 {
		t.Fatalf("buf = %v, want echo of 0.5 at index 3", buf)
	}
}

func TestFilterActive(t *testing.T) {
	t.Parallel()

	tests := []struct {
		cutoff, rate float64
		want         bool
	}{
		{20000, 44100, false},
		{19999, 44100, true},
		{1000, 44100, true},
		{0, 44100, false},
		{12000, 22050, false},
		{11000, 22050, true},
	}
	for _, tc := range tests {
		if got := FilterActive(tc.cutoff, tc.rate); got != tc.want {
			t.Fatalf("FilterActive(%v, %v) = %v, want %v", tc.cutoff, tc.rate, got, tc.want)
		}
	}
}

func TestParamsGetNum(t *testing.T) {
	t.Parallel()

	p := Params{Num: map[string]float64{"a": 2, "nan": math.NaN()}}
	if p.GetNum("a", 0) != 2 || p.GetNum("nan", 7) != 7 || p.GetNum("missing", 5) != 5 {
		t.Fatal("GetNum returned unexpected values")
	}
	if (Params{}).GetNum("a", 1) != 1 {
		t.Fatal("nil map should yield default")
	}
}
