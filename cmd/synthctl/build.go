package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/cwbudde/algo-synth/instrument"
	"github.com/cwbudde/algo-synth/sample"
	"github.com/cwbudde/algo-synth/wavio"
)

// rangeFlags select the instrument source and the note range to cache.
type rangeFlags struct {
	sample  string
	root    int
	detect  bool
	low     int
	high    int
	workers int
}

func (f *rangeFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.sample, "sample", "", "map this WAV file across the range instead of synthesizing")
	fs.IntVar(&f.root, "root", sample.DefaultRootNote, "root note of -sample")
	fs.BoolVar(&f.detect, "detect-root", false, "estimate the root note of -sample from its spectrum")
	fs.IntVar(&f.low, "low", 36, "lowest note to render")
	fs.IntVar(&f.high, "high", 84, "highest note to render")
	fs.IntVar(&f.workers, "workers", runtime.GOMAXPROCS(0), "parallel note renders")
}

// source returns the note source: the loaded sample, or the synthesizer
// driven by the engine flags.
func (f *rangeFlags) source(ef *engineFlags, logger *slog.Logger) (instrument.Source, error) {
	if f.sample != "" {
		opts := []sample.LoadOption{
			sample.WithRootNote(f.root),
			sample.WithTargetRate(ef.rate),
		}
		if f.detect {
			opts = append(opts, sample.WithDetectRoot())
		}
		b, err := sample.Load(f.sample, opts...)
		if err != nil {
			return nil, err
		}
		logger.Info("sample loaded", "path", b.Path, "root", b.RootNote, "samples", b.Len())
		return instrument.Sample(b), nil
	}

	s, err := ef.synthesizer()
	if err != nil {
		return nil, err
	}
	p, _, err := ef.params()
	if err != nil {
		return nil, err
	}
	return instrument.Synth(s, p), nil
}

// fill rebuilds cache over the range and prints progress to stderr.
func (f *rangeFlags) fill(ctx context.Context, cache *instrument.Cache, ef *engineFlags, logger *slog.Logger) (instrument.Result, error) {
	src, err := f.source(ef, logger)
	if err != nil {
		return instrument.Result{}, err
	}

	res, err := cache.Rebuild(ctx, src, f.low, f.high, func(done, total, note int) {
		fmt.Fprintf(os.Stderr, "\rrendering %3d/%-3d note %3d", done, total, note)
		if done == total {
			fmt.Fprintln(os.Stderr)
		}
	})
	if err != nil {
		return res, err
	}

	for _, ne := range res.Failed {
		logger.Warn("note failed", "note", ne.Note, "err", ne.Err)
	}
	logger.Info("cache ready", "notes", len(res.Rendered), "failed", len(res.Failed))
	return res, nil
}

func runBuild(ctx context.Context, args []string) error {
	var (
		ef     engineFlags
		rf     rangeFlags
		export string
	)

	fs := newFlagSet("build", "[flags]")
	ef.register(fs)
	rf.register(fs)
	fs.StringVar(&export, "export", "", "write every cached note as <dir>/note_<n>.wav")
	if err := parse(fs, args); err != nil {
		return err
	}

	logger := ef.logger()
	cache := instrument.NewCache(instrument.WithWorkers(rf.workers), instrument.WithLogger(logger))

	res, err := rf.fill(ctx, cache, &ef, logger)
	if err != nil {
		return err
	}

	if export != "" {
		if err := os.MkdirAll(export, 0o755); err != nil {
			return err
		}
		snap := cache.Snapshot()
		for _, note := range snap.Notes() {
			buf, _ := snap.Buffer(note)
			path := filepath.Join(export, "note_"+strconv.Itoa(note)+".wav")
			if err := wavio.WriteFile(path, buf, ef.rate); err != nil {
				return err
			}
			logger.Debug("exported", "note", note, "path", path)
		}
	}

	return res.Err()
}
