package event

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
)

// DefaultQueueSize is the default event queue capacity.
const DefaultQueueSize = 256

// Handler receives decoded note events. voice.Manager implements it.
type Handler interface {
	NoteOn(note, velocity int) error
	NoteOff(note int) bool
}

// Stats counts events seen by a Dispatcher.
type Stats struct {
	Queued  uint64
	Applied uint64
	Ignored uint64
	Dropped uint64 // queue full
	Failed  uint64 // handler reported an error
}

// Dispatcher queues note events for a single consumer.
type Dispatcher struct {
	handler Handler
	queue   chan Event
	logger  *slog.Logger

	queued, applied, ignored, dropped, failed atomic.Uint64
}

// Option configures a Dispatcher.
type Option func(*dispatcherConfig)

type dispatcherConfig struct {
	size   int
	logger *slog.Logger
}

// WithQueueSize sets the queue capacity. Values below 1 are ignored.
func WithQueueSize(n int) Option {
	return func(c *dispatcherConfig) {
		if n >= 1 {
			c.size = n
		}
	}
}

// WithLogger sets the event logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *dispatcherConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewDispatcher creates a Dispatcher feeding h.
func NewDispatcher(h Handler, opts ...Option) *Dispatcher {
	cfg := dispatcherConfig{
		size:   DefaultQueueSize,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return &Dispatcher{
		handler: h,
		queue:   make(chan Event, cfg.size),
		logger:  cfg.logger,
	}
}

// OnNoteEvent decodes a raw status/note/velocity triple and queues it. It
// never blocks and reports whether the event was queued.
func (d *Dispatcher) OnNoteEvent(status, note, velocity byte) bool {
	ev := Decode(status, note, velocity)
	if ev.Kind == KindIgnored {
		d.ignored.Add(1)
		return false
	}

	select {
	case d.queue <- ev:
		d.queued.Add(1)
		return true
	default:
		d.dropped.Add(1)
		d.logger.Warn("event queue full", "event", ev.String())
		return false
	}
}

// Run applies queued events until ctx is done. Only one Run may be active.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-d.queue:
			d.Dispatch(ev)
		}
	}
}

// Drain applies every event currently queued and returns how many it
// applied.
func (d *Dispatcher) Drain() int {
	n := 0
	for {
		select {
		case ev := <-d.queue:
			d.Dispatch(ev)
			n++
		default:
			return n
		}
	}
}

// Dispatch applies ev to the handler immediately.
func (d *Dispatcher) Dispatch(ev Event) {
	switch ev.Kind {
	case KindNoteOn:
		if err := d.handler.NoteOn(int(ev.Note), int(ev.Velocity)); err != nil {
			d.failed.Add(1)
			d.logger.Debug("note on not played", "note", ev.Note, "velocity", ev.Velocity,
				"channel", ev.Channel, "err", err)
			return
		}
	case KindNoteOff:
		d.handler.NoteOff(int(ev.Note))
	default:
		d.ignored.Add(1)
		return
	}

	d.applied.Add(1)
	d.logger.Debug("event", "kind", ev.Kind.String(), "note", ev.Note, "velocity", ev.Velocity,
		"channel", ev.Channel)
}

// Stats returns the event counters.
func (d *Dispatcher) Stats() Stats {
	return Stats{
		Queued:  d.queued.Load(),
		Applied: d.applied.Load(),
		Ignored: d.ignored.Load(),
		Dropped: d.dropped.Load(),
		Failed:  d.failed.Load(),
	}
}
