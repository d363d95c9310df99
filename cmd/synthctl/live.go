package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-synth/event"
	"github.com/cwbudde/algo-synth/instrument"
	"github.com/cwbudde/algo-synth/playback"
	"github.com/cwbudde/algo-synth/voice"
)

// liveFlags configure the real-time voice engine.
type liveFlags struct {
	volume   float64
	voices   int
	channels int
	loop     bool
}

func (f *liveFlags) register(fs *flag.FlagSet) {
	fs.Float64Var(&f.volume, "volume", voice.DefaultMasterVolume, "master volume 0..1")
	fs.IntVar(&f.voices, "voices", voice.DefaultCapacity, "maximum simultaneous voices")
	fs.IntVar(&f.channels, "channels", playback.DefaultChannels, "mixer channel pool size")
	fs.BoolVar(&f.loop, "loop", false, "loop note buffers while held")
}

// live wires the cache, voice manager, mixer and audio device together.
type live struct {
	cache  *instrument.Cache
	mixer  *playback.Mixer
	output *playback.Output
	voices *voice.Manager
	events *event.Dispatcher
	logger *slog.Logger
}

func startLive(ctx context.Context, ef *engineFlags, rf *rangeFlags, lf *liveFlags, logger *slog.Logger) (*live, error) {
	l := &live{
		cache:  instrument.NewCache(instrument.WithWorkers(rf.workers), instrument.WithLogger(logger)),
		mixer:  playback.NewMixer(playback.WithChannels(lf.channels), playback.WithLogger(logger)),
		logger: logger,
	}

	if _, err := rf.fill(ctx, l.cache, ef, logger); err != nil {
		return nil, err
	}

	l.voices = voice.NewManager(l.cache, l.mixer,
		voice.WithCapacity(lf.voices),
		voice.WithMasterVolume(lf.volume),
		voice.WithLoop(lf.loop),
		voice.WithLogger(logger),
	)
	l.events = event.NewDispatcher(l.voices, event.WithLogger(logger))

	output, err := playback.Open(l.mixer, int(ef.rate))
	if err != nil {
		return nil, err
	}
	l.output = output
	l.output.Start()
	return l, nil
}

// run applies events until ctx is done or feed returns. feed produces events
// into the dispatcher.
func (l *live) run(ctx context.Context, feed func(ctx context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return l.events.Run(gctx) })
	g.Go(func() error {
		defer cancel()
		return feed(gctx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	l.events.Drain()
	return nil
}

func (l *live) close(w io.Writer) {
	l.voices.AllNotesOff()
	if err := l.output.Close(); err != nil {
		l.logger.Warn("closing output", "err", err)
	}

	vs := l.voices.Stats()
	es := l.events.Stats()
	fmt.Fprintf(w, "events: queued=%d applied=%d ignored=%d dropped=%d failed=%d\n",
		es.Queued, es.Applied, es.Ignored, es.Dropped, es.Failed)
	fmt.Fprintf(w, "voices: triggered=%d dropped=%d missing=%d\n",
		vs.Triggered, vs.Dropped, vs.Missing)
}

// crlf rewrites line feeds for a terminal in raw mode.
type crlf struct{ w io.Writer }

func (c crlf) Write(p []byte) (int, error) {
	if _, err := io.WriteString(c.w, strings.ReplaceAll(string(p), "\n", "\r\n")); err != nil {
		return 0, err
	}
	return len(p), nil
}
