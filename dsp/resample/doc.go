// Package resample pitches finished buffers by band-limited rational
// resampling with a polyphase FIR.
//
// [LengthFor] gives the length a pitch shift implies and [ToLength] converts
// a buffer to exactly that length, delay-compensated. Quality modes trade
// filter length for attenuation:
//
//	mode            taps/phase   nominal stopband
//	QualityFast     16           ~55 dB
//	QualityBalanced 32           ~75 dB
//	QualityBest     64           ~90 dB
package resample
