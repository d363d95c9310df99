package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/playback"
	"github.com/cwbudde/algo-synth/voice"
	"github.com/cwbudde/algo-synth/wavio"
)

func runRender(ctx context.Context, args []string) error {
	var (
		ef   engineFlags
		out  string
		dir  string
		play bool
		loop bool
		note int
	)

	fs := newFlagSet("render", "[flags]")
	ef.register(fs)
	fs.StringVar(&out, "out", "", "output WAV file (default derived from frequency and preset)")
	fs.StringVar(&dir, "dir", ".", "directory for the derived output name")
	fs.BoolVar(&play, "play", false, "play the result on the audio device")
	fs.BoolVar(&loop, "loop", false, "loop playback until interrupted (with -play)")
	fs.IntVar(&note, "note", -1, "render at this MIDI note instead of the frequency parameter")
	if err := parse(fs, args); err != nil {
		return err
	}

	logger := ef.logger()

	s, err := ef.synthesizer()
	if err != nil {
		return err
	}
	p, name, err := ef.params()
	if err != nil {
		return err
	}

	stages, err := s.ActiveStages(p)
	if err != nil {
		return err
	}
	logger.Debug("rendering", "frequency", p.Frequency, "samples", s.Len(), "stages", stages)

	var buf []float64
	if note >= 0 {
		buf, err = s.RenderNote(p, note, ef.rng())
	} else {
		buf, err = s.Render(p, ef.rng())
	}
	if err != nil {
		return err
	}

	if out == "" {
		freq := p.Frequency
		if note >= 0 {
			freq = core.NoteToFrequency(note)
		}
		out = filepath.Join(dir, wavio.Filename(freq, name))
	}
	if err := wavio.WriteFile(out, buf, s.Config().SampleRate); err != nil {
		return err
	}
	fmt.Println(out)

	if !play {
		return nil
	}
	return preview(ctx, logger, buf, s.Config().SampleRate, loop)
}

// preview plays buf once, or until ctx is done when loop is set.
func preview(ctx context.Context, logger *slog.Logger, buf []float64, sampleRate float64, loop bool) error {
	mixer := playback.NewMixer(playback.WithChannels(1), playback.WithLogger(logger))
	output, err := playback.Open(mixer, int(sampleRate))
	if err != nil {
		return err
	}
	defer func() {
		if err := output.Close(); err != nil {
			logger.Warn("closing output", "err", err)
		}
	}()

	ch, ok := mixer.AcquireChannel()
	if !ok {
		return voice.ErrNoChannel
	}
	mixer.Play(ch, buf, voice.DefaultMasterVolume, loop)
	output.Start()

	if loop {
		logger.Info("looping, press Ctrl-C to stop")
		<-ctx.Done()
		return nil
	}

	length := time.Duration(float64(len(buf)) / sampleRate * float64(time.Second))
	deadline := time.NewTimer(length + 200*time.Millisecond)
	defer deadline.Stop()
	tick := time.NewTicker(20 * time.Millisecond)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			return nil
		case <-tick.C:
			if mixer.Playing() == 0 {
				return nil
			}
		}
	}
}
