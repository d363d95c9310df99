// Command synthctl renders, caches and plays parametric synth voices.
//
// Usage:
//
//	synthctl render  [-preset file] [-set key=value ...] [-out file] [-play [-loop]]
//	synthctl build   [-low 36] [-high 84] [-workers n] [-sample file.wav]
//	synthctl play    [-port name] [-sample file.wav]
//	synthctl keys    [-base 60] [-sample file.wav]
//	synthctl inspect [-in file.wav] [-harmonics 8]
//	synthctl params  [-random] [-json]
//	synthctl presets [-dir presets] [-export file]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
)

type command struct {
	summary string
	run     func(ctx context.Context, args []string) error
}

var commands = map[string]command{
	"render":  {"render one buffer and write it as WAV", runRender},
	"build":   {"pre-render a note range and report progress", runBuild},
	"play":    {"play the note cache from a MIDI input", runPlay},
	"keys":    {"play the note cache from the computer keyboard", runKeys},
	"inspect": {"print the spectral content of a render or WAV file", runInspect},
	"params":  {"list parameters with defaults or a random draw", runParams},
	"presets": {"list or export the presets of a directory", runPresets},
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "synthctl - parametric synthesis and sample mapping\n\n")
		fmt.Fprintf(os.Stderr, "Usage:\n  synthctl <command> [flags]\n\nCommands:\n")
		names := make([]string, 0, len(commands))
		for name := range commands {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(os.Stderr, "  %-8s  %s\n", name, commands[name].summary)
		}
		fmt.Fprintf(os.Stderr, "\nRun 'synthctl <command> -h' for command flags.\n")
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cmd, ok := commands[flag.Arg(0)]
	if !ok {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n\n", flag.Arg(0))
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := cmd.run(ctx, flag.Args()[1:])
	switch {
	case err == nil, errors.Is(err, flag.ErrHelp):
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(os.Stderr, "interrupted")
		os.Exit(130)
	default:
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
