package signal

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
)

// ErrUnknownShape is returned when a wave shape name is not recognized.
var ErrUnknownShape = errors.New("signal: unknown wave shape")

// Shape selects an oscillator waveform.
type Shape int

const (
	ShapeSine Shape = iota
	ShapeSquare
	ShapeSawtooth
	ShapeTriangle
	ShapeNoise
	ShapeCustom
)

var shapeNames = [...]string{
	ShapeSine:     "sine",
	ShapeSquare:   "square",
	ShapeSawtooth: "sawtooth",
	ShapeTriangle: "triangle",
	ShapeNoise:    "noise",
	ShapeCustom:   "custom",
}

// Shapes returns every supported shape in declaration order.
func Shapes() []Shape {
	return []Shape{ShapeSine, ShapeSquare, ShapeSawtooth, ShapeTriangle, ShapeNoise, ShapeCustom}
}

// String returns the canonical shape name.
func (s Shape) String() string {
	if s < 0 || int(s) >= len(shapeNames) {
		return fmt.Sprintf("shape(%d)", int(s))
	}
	return shapeNames[s]
}

// Random reports whether the shape draws from the random source.
func (s Shape) Random() bool {
	return s == ShapeNoise || s == ShapeCustom
}

// ParseShape resolves a shape name (case-insensitive).
func ParseShape(name string) (Shape, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, sn := range shapeNames {
		if sn == n {
			return Shape(i), nil
		}
	}
	return ShapeSine, fmt.Errorf("%w: %q", ErrUnknownShape, name)
}

// RandomShape picks a shape uniformly.
func RandomShape(rng *rand.Rand) Shape {
	return Shape(rng.Intn(len(shapeNames)))
}

// MarshalText implements encoding.TextMarshaler.
func (s Shape) MarshalText() ([]byte, error) {
	if s < 0 || int(s) >= len(shapeNames) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownShape, int(s))
	}
	return []byte(shapeNames[s]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Shape) UnmarshalText(text []byte) error {
	v, err := ParseShape(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
