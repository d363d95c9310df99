// Package analysis summarizes rendered buffers: time-domain levels, spectral
// shape descriptors and the harmonic profile of the dominant partial.
//
// [Analyze] combines the three into a [Report]. [MeasureLevel] and
// [DescribeSpectrum] are usable on their own.
package analysis
