// Package design provides digital IIR lowpass coefficient designers.
//
// The functions in this package produce biquad coefficients consumable by
// dsp/filter/biquad: an RBJ-style second-order [Lowpass] and a cascaded
// [ButterworthLP] of arbitrary order built from it.
package design
