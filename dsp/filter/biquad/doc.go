// Package biquad provides biquad (second-order IIR) filter runtime primitives.
//
// A [Section] implements Direct Form II Transposed processing for a single
// second-order section defined by [Coefficients]. Multiple sections can be
// cascaded via [Chain]. [Chain.FiltFilt] applies a cascade forward and
// backward for zero-phase offline filtering.
//
// This package provides the processing runtime only. Coefficient design
// lives in dsp/filter/design.
package biquad
