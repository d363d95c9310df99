package preset

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-synth/dsp/signal"
	"github.com/cwbudde/algo-synth/synth"
)

func TestDecodeDefaultsAndPassThrough(t *testing.T) {
	t.Parallel()

	doc := `{
		"wave_shape1": "square",
		"frequency": 220,
		"harm2_weight": 0,
		"ui_color": "#ff0000",
		"reverb": {"size": 0.5}
	}`

	p, err := Decode(strings.NewReader(doc))
	require.NoError(t, err)

	require.Equal(t, signal.ShapeSquare, p.Params.Shape1)
	require.Equal(t, signal.ShapeSine, p.Params.Shape2)
	require.Equal(t, 220.0, p.Params.Frequency)
	require.Equal(t, 0.0, p.Params.Harmonics[1])
	require.Equal(t, 0.7, p.Params.Sustain)

	require.Len(t, p.Extra, 2)
	require.JSONEq(t, `"#ff0000"`, string(p.Extra["ui_color"]))
	require.JSONEq(t, `{"size": 0.5}`, string(p.Extra["reverb"]))
}

func TestEncodeRoundTrip(t *testing.T) {
	t.Parallel()

	p := New("lead")
	p.Params.Shape2 = signal.ShapeTriangle
	p.Params.ChorusDepth = 0.3
	p.Extra = map[string]json.RawMessage{"author": json.RawMessage(`"me"`)}

	var b bytes.Buffer
	require.NoError(t, Encode(&b, p))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(b.Bytes(), &doc))
	require.Len(t, doc, len(synth.Keys())+1)
	require.Equal(t, "triangle", doc[synth.KeyWaveShape2])
	require.Equal(t, "me", doc["author"])

	q, err := Decode(&b)
	require.NoError(t, err)
	require.Equal(t, p.Params, q.Params)
	require.Equal(t, p.Extra, q.Extra)
}

func TestDecodeErrors(t *testing.T) {
	t.Parallel()

	for _, doc := range []string{
		`[1, 2]`,
		`{"frequency": "fast"}`,
		`{"wave_shape1": "pulse"}`,
		`{"wave_mix": true}`,
		`not json`,
	} {
		_, err := Decode(strings.NewReader(doc))
		require.ErrorIs(t, err, ErrInvalid, doc)
	}
}

func TestSaveLoad(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "presets")

	p := New("pad")
	p.Params.Attack = 1.5
	path, err := Save(dir, p)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "pad.json"), path)

	q, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "pad", q.Name)
	require.Equal(t, 1.5, q.Params.Attack)

	_, err = Save(dir, Preset{})
	require.ErrorIs(t, err, ErrInvalid)
}

func TestLoadDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	for _, name := range []string{"a", "b"} {
		_, err := Save(dir, New(name))
		require.NoError(t, err)
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	bank, err := LoadDir(dir)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrInvalid)
	require.Equal(t, []string{"a", "b"}, bank.Names())

	empty, err := LoadDir(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestBankExportImport(t *testing.T) {
	t.Parallel()

	bass := New("bass")
	bass.Params.Frequency = 55
	bank := Bank{"bass": bass, "default": New("default")}

	var b bytes.Buffer
	require.NoError(t, ExportBank(&b, bank))

	got, err := ImportBank(&b)
	require.NoError(t, err)
	require.Equal(t, []string{"bass", "default"}, got.Names())
	require.Equal(t, 55.0, got["bass"].Params.Frequency)
	require.Equal(t, "bass", got["bass"].Name)

	merged := Bank{"lead": New("lead"), "bass": New("bass")}
	merged.Merge(got)
	require.Equal(t, []string{"bass", "default", "lead"}, merged.Names())
	require.Equal(t, 55.0, merged["bass"].Params.Frequency)
}
