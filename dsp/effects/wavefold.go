package effects

import (
	"fmt"
	"math"
)

// WaveFolder remaps a signal through sin(x*pi*amount). Larger amounts fold
// peaks back into range more often, adding dense upper partials.
type WaveFolder struct {
	amount float64
}

// NewWaveFolder returns a folder with the given amount (>= 0).
func NewWaveFolder(amount float64) (*WaveFolder, error) {
	if amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return nil, fmt.Errorf("wave folder amount must be >= 0 and finite: %f", amount)
	}
	return &WaveFolder{amount: amount}, nil
}

// ProcessSample folds one sample.
func (w *WaveFolder) ProcessSample(x float64) float64 {
	return math.Sin(x * math.Pi * w.amount)
}

// ProcessInPlace folds buf in place.
func (w *WaveFolder) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = w.ProcessSample(buf[i])
	}
}

// Amount returns the fold amount.
func (w *WaveFolder) Amount() float64 { return w.amount }
