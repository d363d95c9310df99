// Package instrument holds the note buffer cache: one rendered buffer per
// MIDI note, rebuilt in bulk from a synthesizer parameter set or a loaded
// sample.
//
// A rebuild renders into a fresh snapshot off to the side and publishes it
// with a single atomic swap. Readers such as the voice manager therefore see
// either the complete previous snapshot or the complete new one. Buffers in a
// published snapshot are never written again and may be shared by any number
// of sounding voices.
package instrument
