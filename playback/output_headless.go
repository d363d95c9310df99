//go:build headless

package playback

import (
	"io"
	"sync"
)

// Output is a silent stand-in for the audio device. It never reads from its
// source.
type Output struct {
	mu      sync.Mutex
	started bool
}

// Open returns a silent Output.
func Open(_ io.Reader, _ int) (*Output, error) {
	return &Output{}, nil
}

// Start marks the output started.
func (o *Output) Start() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.started = true
}

// Close marks the output stopped.
func (o *Output) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.started = false
	return nil
}

// Started reports whether Start has been called.
func (o *Output) Started() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.started
}
