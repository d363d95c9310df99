// Package signal provides the shared time base, the oscillator bank and
// buffer-level helpers (mixing, peak normalization) used by the synthesizer.
//
// Oscillators evaluate closed-form waveforms at absolute sample instants
// rather than accumulating phase, so every render over the same TimeBase is
// sample-aligned and bit-reproducible for the deterministic shapes.
package signal
