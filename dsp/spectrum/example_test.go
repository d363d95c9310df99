package spectrum_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-synth/dsp/spectrum"
)

func ExamplePeakFrequency() {
	const sr = 44100.0
	buf := make([]float64, 8192)
	for i := range buf {
		buf[i] = math.Sin(2 * math.Pi * 440 * float64(i) / sr)
	}

	f, _ := spectrum.PeakFrequency(buf, sr)
	fmt.Printf("%.0f Hz\n", f)
	// Output:
	// 440 Hz
}
