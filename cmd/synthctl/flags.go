package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-synth/preset"
	"github.com/cwbudde/algo-synth/synth"
)

// assignments collects repeated -set key=value flags.
type assignments []string

func (a *assignments) String() string { return strings.Join(*a, ",") }

func (a *assignments) Set(v string) error {
	if !strings.Contains(v, "=") {
		return fmt.Errorf("want key=value, got %q", v)
	}
	*a = append(*a, v)
	return nil
}

// apply writes every assignment into p. Shape keys take a shape name, all
// other keys a number.
func (a assignments) apply(p *synth.Params) error {
	for _, kv := range a {
		key, value, _ := strings.Cut(kv, "=")
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		if synth.IsShapeKey(key) {
			if err := p.Set(key, value); err != nil {
				return err
			}
			continue
		}

		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		if err := p.SetNum(key, v); err != nil {
			return err
		}
	}
	return nil
}

// engineFlags are shared by every command that renders.
type engineFlags struct {
	rate     float64
	duration float64
	seed     int64
	preset   string
	random   bool
	verbose  bool
	sets     assignments
}

func (f *engineFlags) register(fs *flag.FlagSet) {
	fs.Float64Var(&f.rate, "rate", 44100, "sample rate in Hz")
	fs.Float64Var(&f.duration, "duration", 2, "buffer duration in seconds")
	fs.Int64Var(&f.seed, "seed", 0, "random seed (0 = time based)")
	fs.StringVar(&f.preset, "preset", "", "preset JSON file to start from")
	fs.BoolVar(&f.random, "random", false, "start from a randomized parameter set")
	fs.BoolVar(&f.verbose, "v", false, "verbose logging")
	fs.Var(&f.sets, "set", "parameter override key=value (repeatable)")
}

func (f *engineFlags) logger() *slog.Logger { return f.loggerTo(os.Stderr) }

func (f *engineFlags) loggerTo(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if f.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// rng returns a seeded source, or nil when no seed was given.
func (f *engineFlags) rng() *rand.Rand {
	if f.seed == 0 {
		return nil
	}
	return rand.New(rand.NewSource(f.seed))
}

func (f *engineFlags) synthesizer() (*synth.Synthesizer, error) {
	opts := []synth.Option{
		synth.WithSampleRate(f.rate),
		synth.WithDuration(f.duration),
	}
	if f.seed != 0 {
		opts = append(opts, synth.WithSeed(f.seed))
	}
	return synth.New(opts...)
}

// params resolves the parameter set and the preset name used for export
// filenames. -random draws before -preset is applied, -set overrides last.
func (f *engineFlags) params() (synth.Params, string, error) {
	p := synth.DefaultParams()
	name := ""

	if f.random {
		rng := f.rng()
		if rng == nil {
			rng = rand.New(rand.NewSource(rand.Int63()))
		}
		p = synth.Randomize(rng)
	}

	if f.preset != "" {
		pr, err := preset.Load(f.preset)
		if err != nil {
			return p, "", err
		}
		p = pr.Params
		name = pr.Name
	}

	if err := f.sets.apply(&p); err != nil {
		return p, "", err
	}
	return p, name, p.Validate()
}

// parse parses args and rejects stray positional arguments.
func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%s: unexpected argument %q", fs.Name(), fs.Arg(0))
	}
	return nil
}

func newFlagSet(name, synopsis string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: synthctl %s %s\n\nFlags:\n", name, synopsis)
		fs.PrintDefaults()
	}
	return fs
}
