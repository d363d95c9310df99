package main

import (
	"context"
	"fmt"
	"os"

	"github.com/cwbudde/algo-synth/event"
)

func runPlay(ctx context.Context, args []string) error {
	var (
		ef   engineFlags
		rf   rangeFlags
		lf   liveFlags
		port string
		list bool
	)

	fs := newFlagSet("play", "[flags]")
	ef.register(fs)
	rf.register(fs)
	lf.register(fs)
	fs.StringVar(&port, "port", "", "MIDI input port name (default first port)")
	fs.BoolVar(&list, "list", false, "list MIDI input ports and exit")
	if err := parse(fs, args); err != nil {
		return err
	}

	if list {
		for _, name := range event.InPorts() {
			fmt.Println(name)
		}
		return nil
	}

	logger := ef.logger()

	in, err := event.OpenInPort(port)
	if err != nil {
		return err
	}
	defer func() {
		if err := in.Close(); err != nil {
			logger.Warn("closing midi input", "err", err)
		}
	}()

	l, err := startLive(ctx, &ef, &rf, &lf, logger)
	if err != nil {
		return err
	}
	defer l.close(os.Stderr)

	logger.Info("playing, press Ctrl-C to stop", "port", in.String())
	return l.run(ctx, func(ctx context.Context) error {
		return event.ListenMIDI(ctx, in, l.events)
	})
}
