package effects

import (
	"fmt"
	"math"
)

const (
	defaultDistortionDrive = 1.0
	defaultDistortionMix   = 1.0
	maxDistortionDrive     = 1000.0

	// driveAmountScale maps a [0, 1] distortion amount onto drive 1..11.
	driveAmountScale = 10
)

// DriveForAmount maps a distortion amount to the input gain 1 + amount*10.
func DriveForAmount(amount float64) float64 {
	return 1 + amount*driveAmountScale
}

// DistortionMode selects the transfer function used by Distortion.
type DistortionMode int

const (
	// DistortionModeTanh saturates with tanh(drive*x).
	DistortionModeTanh DistortionMode = iota
	// DistortionModeSoftClip uses the rational curve x/(1+|x|).
	DistortionModeSoftClip
	// DistortionModeHardClip clamps drive*x to [-1, 1].
	DistortionModeHardClip
)

// String returns the mode name.
func (m DistortionMode) String() string {
	switch m {
	case DistortionModeTanh:
		return "tanh"
	case DistortionModeSoftClip:
		return "softclip"
	case DistortionModeHardClip:
		return "hardclip"
	default:
		return fmt.Sprintf("DistortionMode(%d)", int(m))
	}
}

// DistortionOption mutates construction-time parameters.
type DistortionOption func(*distortionConfig) error

type distortionConfig struct {
	mode  DistortionMode
	drive float64
	mix   float64
}

// WithDistortionMode selects the distortion transfer mode.
func WithDistortionMode(mode DistortionMode) DistortionOption {
	return func(cfg *distortionConfig) error {
		if mode < DistortionModeTanh || mode > DistortionModeHardClip {
			return fmt.Errorf("distortion mode is invalid: %d", mode)
		}
		cfg.mode = mode
		return nil
	}
}

// WithDistortionDrive sets input drive in (0, 1000].
func WithDistortionDrive(drive float64) DistortionOption {
	return func(cfg *distortionConfig) error {
		if drive <= 0 || drive > maxDistortionDrive || math.IsNaN(drive) {
			return fmt.Errorf("distortion drive must be in (0, %g]: %f", maxDistortionDrive, drive)
		}
		cfg.drive = drive
		return nil
	}
}

// WithDistortionAmount sets the drive from a distortion amount via
// [DriveForAmount].
func WithDistortionAmount(amount float64) DistortionOption {
	return func(cfg *distortionConfig) error {
		if amount < 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
			return fmt.Errorf("distortion amount must be >= 0 and finite: %f", amount)
		}
		return WithDistortionDrive(DriveForAmount(amount))(cfg)
	}
}

// WithDistortionMix sets the dry/wet mix in [0, 1].
func WithDistortionMix(mix float64) DistortionOption {
	return func(cfg *distortionConfig) error {
		if mix < 0 || mix > 1 || math.IsNaN(mix) {
			return fmt.Errorf("distortion mix must be in [0, 1]: %f", mix)
		}
		cfg.mix = mix
		return nil
	}
}

// Distortion is a memoryless waveshaper.
type Distortion struct {
	mode  DistortionMode
	drive float64
	mix   float64
}

// NewDistortion creates a distortion stage. The default is tanh with unity
// drive and a fully wet mix.
func NewDistortion(opts ...DistortionOption) (*Distortion, error) {
	cfg := distortionConfig{
		mode:  DistortionModeTanh,
		drive: defaultDistortionDrive,
		mix:   defaultDistortionMix,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	return &Distortion{mode: cfg.mode, drive: cfg.drive, mix: cfg.mix}, nil
}

// ProcessSample shapes one sample.
func (d *Distortion) ProcessSample(x float64) float64 {
	y := d.shape(x * d.drive)
	if d.mix == 1 {
		return y
	}
	return x*(1-d.mix) + y*d.mix
}

// ProcessInPlace shapes buf in place.
func (d *Distortion) ProcessInPlace(buf []float64) {
	for i := range buf {
		buf[i] = d.ProcessSample(buf[i])
	}
}

// Mode returns the transfer mode.
func (d *Distortion) Mode() DistortionMode { return d.mode }

// Drive returns the input gain.
func (d *Distortion) Drive() float64 { return d.drive }

func (d *Distortion) shape(x float64) float64 {
	switch d.mode {
	case DistortionModeSoftClip:
		return x / (1 + math.Abs(x))
	case DistortionModeHardClip:
		return math.Max(-1, math.Min(1, x))
	default:
		return math.Tanh(x)
	}
}
