package event

import "fmt"

// MIDI status nibbles.
const (
	StatusNoteOff = 0x80
	StatusNoteOn  = 0x90
)

// Kind classifies a decoded event.
type Kind uint8

const (
	KindIgnored Kind = iota
	KindNoteOn
	KindNoteOff
)

func (k Kind) String() string {
	switch k {
	case KindNoteOn:
		return "note-on"
	case KindNoteOff:
		return "note-off"
	default:
		return "ignored"
	}
}

// Event is a decoded note message. Channel is informational only.
type Event struct {
	Kind     Kind
	Channel  uint8
	Note     uint8
	Velocity uint8
}

func (e Event) String() string {
	return fmt.Sprintf("%s ch=%d note=%d vel=%d", e.Kind, e.Channel, e.Note, e.Velocity)
}

// Decode classifies a three-byte channel message. Note-on with velocity 0
// is a note-off. Every status other than note-on and note-off is ignored, as
// are data bytes with the high bit set.
func Decode(status, note, velocity byte) Event {
	ev := Event{Channel: status & 0x0f, Note: note, Velocity: velocity}
	if note > 0x7f || velocity > 0x7f {
		return ev
	}

	switch status & 0xf0 {
	case StatusNoteOn:
		if velocity > 0 {
			ev.Kind = KindNoteOn
		} else {
			ev.Kind = KindNoteOff
		}
	case StatusNoteOff:
		ev.Kind = KindNoteOff
	}
	return ev
}
