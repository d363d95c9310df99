// Package wavio exports rendered buffers as 16-bit stereo PCM WAV files and
// imports WAV files of any channel count as normalized mono sample data.
package wavio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/cwbudde/algo-synth/dsp/signal"
	wav "github.com/youpy/go-wav"
)

const (
	bitsPerSample = 16
	numChannels   = 2
	fullScale     = 32767
	writeChunk    = 4096
	readChunk     = 8192
)

var (
	// ErrInvalidSampleRate is returned for a non-positive or non-integer rate.
	ErrInvalidSampleRate = errors.New("wavio: invalid sample rate")
	// ErrUnsupportedFormat is returned for WAV layouts the importer cannot read.
	ErrUnsupportedFormat = errors.New("wavio: unsupported format")
	// ErrEmpty is returned when a WAV file holds no sample frames.
	ErrEmpty = errors.New("wavio: no audio data")
)

// Audio is an imported recording collapsed to mono.
type Audio struct {
	Data       []float64
	SampleRate float64
	// Channels is the channel count of the source file.
	Channels int
}

// Source is what the WAV reader needs: sequential and random access.
type Source interface {
	io.Reader
	io.ReaderAt
}

// Write encodes buf as 16-bit signed PCM with the mono signal duplicated to
// both channels. Samples are clipped to [-1, 1] and scaled by 32767 with
// truncation toward zero.
func Write(w io.Writer, buf []float64, sampleRate float64) error {
	rate, err := integerRate(sampleRate)
	if err != nil {
		return err
	}

	ww := wav.NewWriter(w, uint32(len(buf)), numChannels, rate, bitsPerSample)

	frames := make([]wav.Sample, 0, writeChunk)
	for start := 0; start < len(buf); start += writeChunk {
		frames = frames[:0]
		for _, x := range buf[start:min(len(buf), start+writeChunk)] {
			v := ToPCM16(x)
			frames = append(frames, wav.Sample{Values: [2]int{v, v}})
		}
		if err := ww.WriteSamples(frames); err != nil {
			return fmt.Errorf("wavio: write: %w", err)
		}
	}

	return nil
}

// WriteFile writes buf to path, creating or truncating it.
func WriteFile(path string, buf []float64, sampleRate float64) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("wavio: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("wavio: %w", cerr)
		}
	}()

	return Write(f, buf, sampleRate)
}

// ToPCM16 converts one sample to a 16-bit integer value.
func ToPCM16(x float64) int {
	if math.IsNaN(x) {
		return 0
	}
	return int(math.Max(-1, math.Min(1, x)) * fullScale)
}

// Read decodes a WAV stream. Frames are averaged across all channels, and
// the result is scaled to peak 1 unless it is silent.
func Read(src Source) (Audio, error) {
	r := wav.NewReader(src)

	format, err := r.Format()
	if err != nil {
		return Audio{}, fmt.Errorf("wavio: read format: %w", err)
	}
	if format.NumChannels < 1 {
		return Audio{}, fmt.Errorf("%w: %d channels", ErrUnsupportedFormat, format.NumChannels)
	}
	if format.SampleRate == 0 {
		return Audio{}, fmt.Errorf("%w: sample rate 0", ErrUnsupportedFormat)
	}

	var data []float64
	if format.NumChannels <= 2 {
		data, err = readSamples(r, uint(format.NumChannels))
	} else {
		// wav.Sample holds two channels; wider layouts are decoded here.
		data, err = readInterleaved(r, format)
	}
	if err != nil {
		return Audio{}, err
	}

	if len(data) == 0 {
		return Audio{}, ErrEmpty
	}

	signal.NormalizePeak(data)

	return Audio{
		Data:       data,
		SampleRate: float64(format.SampleRate),
		Channels:   int(format.NumChannels),
	}, nil
}

func readSamples(r *wav.Reader, channels uint) ([]float64, error) {
	var data []float64
	for {
		frames, err := r.ReadSamples(readChunk)
		if errors.Is(err, io.EOF) {
			return data, nil
		}
		if err != nil {
			return nil, fmt.Errorf("wavio: read samples: %w", err)
		}
		for _, fr := range frames {
			var sum float64
			for ch := range channels {
				sum += r.FloatValue(fr, ch)
			}
			data = append(data, sum/float64(channels))
		}
	}
}

// readInterleaved decodes integer PCM (8 to 32 bit) or 32-bit float frames
// from the raw data chunk.
func readInterleaved(r *wav.Reader, format *wav.WavFormat) ([]float64, error) {
	channels := int(format.NumChannels)
	width := int(format.BitsPerSample) / 8
	block := int(format.BlockAlign)

	isFloat := format.AudioFormat == wav.AudioFormatIEEEFloat
	switch {
	case format.AudioFormat != wav.AudioFormatPCM && !isFloat,
		width < 1 || width > 4 || isFloat && width != 4,
		block < channels*width:
		return nil, fmt.Errorf("%w: format %d, %d bits, block %d",
			ErrUnsupportedFormat, format.AudioFormat, format.BitsPerSample, block)
	}

	buf := make([]byte, readChunk*block)
	pending := 0
	var data []float64
	for {
		n, err := r.Read(buf[pending:])
		pending += n

		frames := pending / block
		for i := range frames {
			frame := buf[i*block:]
			var sum float64
			for ch := range channels {
				sum += decodeSample(frame[ch*width:ch*width+width], isFloat)
			}
			data = append(data, sum/float64(channels))
		}
		pending = copy(buf, buf[frames*block:pending])

		if errors.Is(err, io.EOF) {
			return data, nil
		}
		if err != nil {
			return nil, fmt.Errorf("wavio: read frames: %w", err)
		}
	}
}

// decodeSample converts one little-endian sample to [-1, 1). 8-bit PCM is
// unsigned.
func decodeSample(b []byte, isFloat bool) float64 {
	switch len(b) {
	case 1:
		return (float64(b[0]) - 128) / 128
	case 2:
		return float64(int16(binary.LittleEndian.Uint16(b))) / (1 << 15)
	case 3:
		v := int32(uint32(b[0])<<8|uint32(b[1])<<16|uint32(b[2])<<24) >> 8
		return float64(v) / (1 << 23)
	default:
		bits := binary.LittleEndian.Uint32(b)
		if isFloat {
			return float64(math.Float32frombits(bits))
		}
		return float64(int32(bits)) / (1 << 31)
	}
}

// ReadFile opens and decodes path.
func ReadFile(path string) (Audio, error) {
	f, err := os.Open(path)
	if err != nil {
		return Audio{}, fmt.Errorf("wavio: %w", err)
	}
	defer f.Close()

	a, err := Read(f)
	if err != nil {
		return Audio{}, fmt.Errorf("%s: %w", path, err)
	}
	return a, nil
}

// Filename derives an export name from the rendered frequency and, when
// known, the preset name: custom_wave_440.0Hz.wav or
// preset_bell_440.0Hz.wav.
func Filename(frequency float64, preset string) string {
	if preset == "" {
		return fmt.Sprintf("custom_wave_%.1fHz.wav", frequency)
	}
	return fmt.Sprintf("preset_%s_%.1fHz.wav", preset, frequency)
}

func integerRate(sampleRate float64) (uint32, error) {
	if sampleRate <= 0 || sampleRate > math.MaxUint32 || sampleRate != math.Trunc(sampleRate) {
		return 0, fmt.Errorf("%w: %v", ErrInvalidSampleRate, sampleRate)
	}
	return uint32(sampleRate), nil
}
