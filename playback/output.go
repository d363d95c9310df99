//go:build !headless

package playback

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

const deviceBuffer = 40 * time.Millisecond

// Output streams 16-bit stereo frames from a reader to the audio device.
// Only one Output may exist per process.
type Output struct {
	ctx    *oto.Context
	player *oto.Player

	mu      sync.Mutex
	started bool
}

// Open creates the device context at sampleRate and attaches src.
func Open(src io.Reader, sampleRate int) (*Output, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatSignedInt16LE,
		BufferSize:   deviceBuffer,
	})
	if err != nil {
		return nil, fmt.Errorf("playback: open device: %w", err)
	}
	<-ready

	return &Output{ctx: ctx, player: ctx.NewPlayer(src)}, nil
}

// Start begins pulling from the reader.
func (o *Output) Start() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !o.started && o.player != nil {
		o.player.Play()
		o.started = true
	}
}

// Close stops playback and releases the player.
func (o *Output) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.player == nil {
		return nil
	}
	err := o.player.Close()
	o.player = nil
	o.started = false
	if err != nil {
		return fmt.Errorf("playback: close: %w", err)
	}
	return nil
}

// Started reports whether Start has been called.
func (o *Output) Started() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.started
}
