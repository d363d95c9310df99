package event

import (
	"context"
	"fmt"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// InPorts lists the names of the registered MIDI input ports. A driver
// must be registered by importing it, for example rtmididrv.
func InPorts() []string {
	ports := midi.GetInPorts()
	names := make([]string, len(ports))
	for i, p := range ports {
		names[i] = p.String()
	}
	return names
}

// OpenInPort finds an input port by name, or the first port when name is
// empty.
func OpenInPort(name string) (drivers.In, error) {
	var (
		in  drivers.In
		err error
	)
	if name == "" {
		in, err = midi.InPort(0)
	} else {
		in, err = midi.FindInPort(name)
	}
	if err != nil {
		return nil, fmt.Errorf("event: midi input %q: %w", name, err)
	}
	return in, nil
}

// ListenMIDI feeds note messages from in to d until ctx is done.
func ListenMIDI(ctx context.Context, in drivers.In, d *Dispatcher) error {
	stop, err := midi.ListenTo(in, func(msg midi.Message, _ int32) {
		if b := msg.Bytes(); len(b) >= 3 {
			d.OnNoteEvent(b[0], b[1], b[2])
		}
	})
	if err != nil {
		return fmt.Errorf("event: listen %s: %w", in.String(), err)
	}
	defer stop()

	d.logger.Info("listening for midi", "port", in.String())
	<-ctx.Done()
	return nil
}
