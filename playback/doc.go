// Package playback mixes voices on a fixed channel pool and streams the mix
// to an audio device.
//
// [Mixer] implements the voice manager's backend contract and io.Reader: every
// Read renders the next frames as interleaved 16-bit little-endian stereo
// with the mono mix on both sides. [Output] feeds such a reader to the
// platform device through oto. Building with the headless tag swaps in a
// silent Output for machines without audio hardware.
package playback
