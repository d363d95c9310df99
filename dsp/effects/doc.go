// Package effects provides the offline effect kernels of the synthesis
// pipeline. Each kernel processes a whole rendered buffer in place:
//
//   - Noise: additive Gaussian noise with a seedable source.
//   - Distortion: tanh, soft or hard clipping after a drive gain.
//   - BitCrusher: amplitude quantization.
//   - WaveFolder: sinusoidal wave folding.
//   - Lowpass: zero-phase (forward-backward) Butterworth low-pass.
//   - Chorus: a fixed delayed copy mixed back onto the dry signal.
//
// Constructors validate their parameters and return an error for values
// outside the documented range.
package effects
