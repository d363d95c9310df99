package instrument

import "sort"

// Snapshot is an immutable note to buffer mapping.
type Snapshot struct {
	buffers map[int][]float64
}

var emptySnapshot = &Snapshot{buffers: map[int][]float64{}}

// Buffer returns the buffer cached for note. Callers must not modify it.
func (s *Snapshot) Buffer(note int) ([]float64, bool) {
	b, ok := s.buffers[note]
	return b, ok
}

// Len returns the number of cached notes.
func (s *Snapshot) Len() int { return len(s.buffers) }

// Notes returns the cached note numbers in ascending order.
func (s *Snapshot) Notes() []int {
	notes := make([]int, 0, len(s.buffers))
	for n := range s.buffers {
		notes = append(notes, n)
	}
	sort.Ints(notes)
	return notes
}
