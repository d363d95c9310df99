package instrument

import (
	"github.com/cwbudde/algo-synth/sample"
	"github.com/cwbudde/algo-synth/synth"
)

// Source renders the buffer for one MIDI note.
type Source interface {
	RenderNote(note int) ([]float64, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(note int) ([]float64, error)

// RenderNote calls f(note).
func (f SourceFunc) RenderNote(note int) ([]float64, error) { return f(note) }

// Synth renders every note with s from p, retuned to the note frequency.
// Noise-bearing parameters draw from a source keyed by the note, so a seeded
// synthesizer yields the same buffers with any number of workers.
func Synth(s *synth.Synthesizer, p synth.Params) Source {
	return SourceFunc(func(note int) ([]float64, error) {
		return s.RenderNote(p, note, s.NoteRand(note))
	})
}

// Sample pitches b to every note.
func Sample(b *sample.BaseSample) Source {
	return SourceFunc(func(note int) ([]float64, error) {
		if b == nil {
			return nil, sample.ErrNoSample
		}
		return b.RenderNote(note)
	})
}
