// Package interp provides fractional-index reads used by delay-based DSP
// blocks.
//
// [At] performs 2-point linear interpolation and treats positions outside
// the buffer as silence, which makes a delayed copy of a finite buffer fade in
// from zero rather than wrap or clamp.
package interp
