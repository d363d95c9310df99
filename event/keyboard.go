package event

import (
	"bufio"
	"context"
	"io"

	"github.com/cwbudde/algo-synth/dsp/core"
)

// keyRow maps the home and upper letter rows to a chromatic octave and a
// half, starting at C.
const keyRow = "awsedftgyhujkolp;'"

// DefaultKeyboardVelocity is the velocity of computer keyboard notes.
const DefaultKeyboardVelocity = 100

// Keyboard turns computer key presses into MIDI triples. A terminal reports
// presses but not releases, so each note key toggles its note. 'z' and 'x'
// shift the octave and space releases every held note.
type Keyboard struct {
	Base     int
	Velocity byte
	held     map[int]bool
}

// NewKeyboard returns a keyboard whose 'a' key plays base.
func NewKeyboard(base int) *Keyboard {
	return &Keyboard{Base: base, Velocity: DefaultKeyboardVelocity, held: map[int]bool{}}
}

// Press handles one key and calls emit for every resulting MIDI message.
// It reports whether the key was bound.
func (k *Keyboard) Press(key rune, emit func(status, note, velocity byte)) bool {
	switch key {
	case 'z':
		k.Base = max(0, k.Base-12)
		return true
	case 'x':
		k.Base = min(core.MaxNote-11, k.Base+12)
		return true
	case ' ':
		for note := range k.held {
			emit(StatusNoteOff, byte(note), 0)
			delete(k.held, note)
		}
		return true
	}

	for i, r := range keyRow {
		if r != key {
			continue
		}
		note := k.Base + i
		if !core.ValidNote(note) {
			return true
		}
		if k.held[note] {
			delete(k.held, note)
			emit(StatusNoteOn, byte(note), 0)
		} else {
			k.held[note] = true
			emit(StatusNoteOn, byte(note), k.Velocity)
		}
		return true
	}
	return false
}

// Held returns the number of notes currently toggled on.
func (k *Keyboard) Held() int { return len(k.held) }

// ReadKeys delivers the runes read from r until r fails or ctx is done, then
// closes the channel. A read that is blocked when ctx ends returns with the
// next rune, which is discarded. The reader never blocks on an unreceived
// send after ctx is done.
func ReadKeys(ctx context.Context, r io.Reader) <-chan rune {
	keys := make(chan rune)
	go func() {
		defer close(keys)
		br := bufio.NewReader(r)
		for {
			c, _, err := br.ReadRune()
			if err != nil || ctx.Err() != nil {
				return
			}
			select {
			case keys <- c:
			case <-ctx.Done():
				return
			}
		}
	}()
	return keys
}
