package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/cwbudde/algo-synth/event"
)

const keysHelp = `keys: a w s e d f t g y h u j k o l p ; ' play notes (press again to release)
      z/x octave down/up, space releases all, q or Ctrl-C quits`

// Control bytes that end a keys session in raw mode.
const (
	keyCtrlC  = 3
	keyCtrlD  = 4
	keyEscape = 27
)

func runKeys(ctx context.Context, args []string) error {
	var (
		ef   engineFlags
		rf   rangeFlags
		lf   liveFlags
		base int
	)

	fs := newFlagSet("keys", "[flags]")
	ef.register(fs)
	rf.register(fs)
	lf.register(fs)
	fs.IntVar(&base, "base", 60, "MIDI note of the 'a' key")
	if err := parse(fs, args); err != nil {
		return err
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return errors.New("keys: stdin is not a terminal")
	}

	// Raw mode needs carriage returns on every line.
	out := crlf{os.Stderr}
	logger := ef.loggerTo(out)

	l, err := startLive(ctx, &ef, &rf, &lf, logger)
	if err != nil {
		return err
	}
	defer l.close(out)

	state, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("keys: raw mode: %w", err)
	}
	defer func() {
		if err := term.Restore(fd, state); err != nil {
			logger.Warn("restoring terminal", "err", err)
		}
	}()

	fmt.Fprintln(out, keysHelp)

	kb := event.NewKeyboard(base)
	readCtx, stopReading := context.WithCancel(ctx)
	defer stopReading()
	keys := event.ReadKeys(readCtx, os.Stdin)

	emit := func(status, note, velocity byte) { l.events.OnNoteEvent(status, note, velocity) }

	return l.run(ctx, func(ctx context.Context) error {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case c, ok := <-keys:
				if !ok {
					return nil
				}
				switch c {
				case 'q', keyCtrlC, keyCtrlD, keyEscape:
					return nil
				}
				if kb.Press(c, emit) {
					fmt.Fprintf(out, "\rbase %3d  held %2d ", kb.Base, kb.Held())
				}
			}
		}
	})
}
