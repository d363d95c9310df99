// Package event decodes note events from MIDI devices and the computer
// keyboard and hands them to the voice manager.
//
// Producers call [Dispatcher.OnNoteEvent] from any goroutine, typically a
// driver callback. Events go into a bounded queue and are applied by a
// single consumer running [Dispatcher.Run]. A full queue drops the event
// rather than blocking the producer.
package event
