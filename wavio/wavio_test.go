package wavio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/cwbudde/algo-synth/dsp/signal"
	"github.com/cwbudde/algo-synth/internal/testutil"
	wav "github.com/youpy/go-wav"
)

func TestWriteLayout(t *testing.T) {
	t.Parallel()

	var b bytes.Buffer
	if err := Write(&b, []float64{0, 1, -1, 0.5}, 44100); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	data := b.Bytes()
	if got := string(data[0:4]); got != "RIFF" {
		t.Fatalf("magic = %q, want RIFF", got)
	}
	if got := string(data[8:12]); got != "WAVE" {
		t.Fatalf("form = %q, want WAVE", got)
	}
	if got := binary.LittleEndian.Uint16(data[22:24]); got != 2 {
		t.Fatalf("channels = %d, want 2", got)
	}
	if got := binary.LittleEndian.Uint32(data[24:28]); got != 44100 {
		t.Fatalf("sample rate = %d, want 44100", got)
	}
	if got := binary.LittleEndian.Uint16(data[34:36]); got != 16 {
		t.Fatalf("bits = %d, want 16", got)
	}

	pcm := data[44:]
	if len(pcm) != 4*4 {
		t.Fatalf("data bytes = %d, want 16", len(pcm))
	}

	want := []int16{0, 0, 32767, 32767, -32767, -32767, 16383, 16383}
	for i, w := range want {
		got := int16(binary.LittleEndian.Uint16(pcm[2*i:]))
		if got != w {
			t.Fatalf("pcm[%d] = %d, want %d", i, got, w)
		}
	}
}

func TestToPCM16(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   float64
		want int
	}{
		{0, 0},
		{1, 32767},
		{2, 32767},
		{-3, -32767},
		{0.5, 16383},
		{math.NaN(), 0},
	}

	for _, tt := range tests {
		if got := ToPCM16(tt.in); got != tt.want {
			t.Fatalf("ToPCM16(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestRoundTripFile(t *testing.T) {
	t.Parallel()

	in := testutil.DeterministicSine(440, 22050, 0.5, 2000)
	path := filepath.Join(t.TempDir(), Filename(440, ""))

	if err := WriteFile(path, in, 22050); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	a, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	if a.SampleRate != 22050 || a.Channels != 2 {
		t.Fatalf("rate=%v channels=%d, want 22050/2", a.SampleRate, a.Channels)
	}
	if len(a.Data) != len(in) {
		t.Fatalf("len = %d, want %d", len(a.Data), len(in))
	}

	// Import normalizes, so compare against the input scaled to peak 1.
	want := append([]float64(nil), in...)
	signal.NormalizePeak(want)
	testutil.RequireSliceNearlyEqual(t, a.Data, want, 1e-3)
}

func TestReadAveragesStereo(t *testing.T) {
	t.Parallel()

	const n = 64
	var b bytes.Buffer
	w := wav.NewWriter(&b, n, 2, 8000, 16)
	frames := make([]wav.Sample, n)
	for i := range frames {
		v := int(16000 * math.Sin(2*math.Pi*float64(i)/16))
		frames[i] = wav.Sample{Values: [2]int{v, 0}}
	}
	if err := w.WriteSamples(frames); err != nil {
		t.Fatalf("WriteSamples() error = %v", err)
	}

	a, err := Read(bytes.NewReader(b.Bytes()))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if a.SampleRate != 8000 {
		t.Fatalf("rate = %v, want 8000", a.SampleRate)
	}
	if peak := signal.Peak(a.Data); math.Abs(peak-1) > 1e-12 {
		t.Fatalf("peak = %v, want 1", peak)
	}
	// Sample 4 is the positive crest of the left channel.
	if math.Abs(a.Data[4]-1) > 1e-12 {
		t.Fatalf("Data[4] = %v, want 1", a.Data[4])
	}
}

func TestReadAveragesWideLayouts(t *testing.T) {
	t.Parallel()

	frames := [][]int16{
		{1000, 0, 0, 0},
		{4000, 4000, 4000, 4000},
		{8000, -8000, 0, 0},
		{-2000, -2000, -2000, -2000},
	}

	var b bytes.Buffer
	w := wav.NewWriter(&b, uint32(len(frames)), 4, 48000, 16)
	for _, fr := range frames {
		if err := binary.Write(w, binary.LittleEndian, fr); err != nil {
			t.Fatalf("binary.Write() error = %v", err)
		}
	}

	a, err := Read(bytes.NewReader(b.Bytes()))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if a.Channels != 4 || a.SampleRate != 48000 {
		t.Fatalf("channels=%d rate=%v, want 4/48000", a.Channels, a.SampleRate)
	}
	testutil.RequireSliceNearlyEqual(t, a.Data, []float64{0.0625, 1, 0, -0.5}, 1e-12)
}

func TestDecodeSample(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		in    []byte
		float bool
		want  float64
	}{
		{"u8 mid", []byte{128}, false, 0},
		{"u8 low", []byte{0}, false, -1},
		{"s16 min", []byte{0x00, 0x80}, false, -1},
		{"s16 half", []byte{0x00, 0x40}, false, 0.5},
		{"s24 negative half", []byte{0x00, 0x00, 0xc0}, false, -0.5},
		{"s32 quarter", []byte{0x00, 0x00, 0x00, 0x20}, false, 0.25},
		{"f32 one", []byte{0x00, 0x00, 0x80, 0x3f}, true, 1},
	}

	for _, tt := range tests {
		if got := decodeSample(tt.in, tt.float); got != tt.want {
			t.Fatalf("%s: decodeSample() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestReadMono(t *testing.T) {
	t.Parallel()

	var b bytes.Buffer
	w := wav.NewWriter(&b, 3, 1, 16000, 16)
	if err := w.WriteSamples([]wav.Sample{{Values: [2]int{100}}, {Values: [2]int{-200}}, {Values: [2]int{50}}}); err != nil {
		t.Fatalf("WriteSamples() error = %v", err)
	}

	a, err := Read(bytes.NewReader(b.Bytes()))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	testutil.RequireSliceNearlyEqual(t, a.Data, []float64{0.5, -1, 0.25}, 1e-12)
	if a.Channels != 1 {
		t.Fatalf("channels = %d, want 1", a.Channels)
	}
}

func TestReadEmpty(t *testing.T) {
	t.Parallel()

	var b bytes.Buffer
	if err := Write(&b, nil, 44100); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	if _, err := Read(bytes.NewReader(b.Bytes())); !errors.Is(err, ErrEmpty) {
		t.Fatalf("err = %v, want ErrEmpty", err)
	}
}

func TestWriteRejectsFractionalRate(t *testing.T) {
	t.Parallel()

	var b bytes.Buffer
	if err := Write(&b, []float64{0}, 44100.5); !errors.Is(err, ErrInvalidSampleRate) {
		t.Fatalf("err = %v, want ErrInvalidSampleRate", err)
	}
}

func TestFilename(t *testing.T) {
	t.Parallel()

	if got := Filename(440, ""); got != "custom_wave_440.0Hz.wav" {
		t.Fatalf("Filename() = %q", got)
	}
	if got := Filename(261.6256, "bell"); got != "preset_bell_261.6Hz.wav" {
		t.Fatalf("Filename() = %q", got)
	}
}
