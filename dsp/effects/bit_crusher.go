package effects

import (
	"fmt"
	"math"
)

const (
	crushFullScaleBits = 16
	crushRangeBits     = 14
)

// CrushLevels maps a crush amount to the quantization grid used by the
// synthesizer: 2^(16 - round(amount*14)). Amount 0 yields 65536 levels and
// amount 1 yields 4.
func CrushLevels(amount float64) float64 {
	return math.Exp2(crushFullScaleBits - math.Round(amount*crushRangeBits))
}

// BitCrusherOption mutates bit crusher construction parameters.
type BitCrusherOption func(*bitCrusherConfig) error

type bitCrusherConfig struct {
	levels float64
}

// WithBitCrusherAmount sets the grid from a crush amount via [CrushLevels].
func WithBitCrusherAmount(amount float64) BitCrusherOption {
	return func(cfg *bitCrusherConfig) error {
		if amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
			return fmt.Errorf("bit crusher amount must be >= 0 and finite: %f", amount)
		}
		cfg.levels = CrushLevels(amount)
		return nil
	}
}

// BitCrusher reduces the amplitude resolution of a signal. Each sample snaps
// to round(x*levels)/levels; values outside [-1, 1] are quantized but not
// clipped.
type BitCrusher struct {
	levels float64
}

// NewBitCrusher creates a bit crusher. Without options the grid is that of
// amount 0.
func NewBitCrusher(opts ...BitCrusherOption) (*BitCrusher, error) {
	cfg := bitCrusherConfig{levels: CrushLevels(0)}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	return &BitCrusher{levels: cfg.levels}, nil
}

// ProcessSample quantizes one sample.
func (bc *BitCrusher) ProcessSample(input float64) float64 {
	return math.Round(input*bc.levels) / bc.levels
}

// ProcessInPlace quantizes buf in place.
func (bc *BitCrusher) ProcessInPlace(buf []float64) {
	for i, x := range buf {
		buf[i] = bc.ProcessSample(x)
	}
}

// Levels returns the quantization grid.
func (bc *BitCrusher) Levels() float64 { return bc.levels }
