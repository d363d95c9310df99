// Package synth turns a parameter set into one normalized audio buffer.
//
// A render runs a fixed pipeline over the shared time base: two mixed
// oscillators, the harmonic stack, frequency and amplitude modulation,
// vibrato and tremolo, the effect chain, the ADSR envelope and finally peak
// normalization. Every stage is tagged [Replace] or [Combine]. FM and vibrato
// are Replace stages: when active they discard the oscillator mix, the
// harmonics and any earlier modulation.
//
// Randomness is injected per render. Passing the same *rand.Rand seed yields
// bit-identical output even for noise-bearing parameter sets.
package synth
