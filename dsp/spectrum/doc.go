// Package spectrum provides spectral analysis of rendered buffers.
//
// [Analyze] windows a frame and transforms it with algo-fft; [PeakFrequency]
// locates the dominant partial with parabolic bin interpolation; the
// [Goertzel] analyzer measures individual partials such as the harmonics of a
// known fundamental.
package spectrum
