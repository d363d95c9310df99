package instrument

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-synth/dsp/core"
)

var (
	// ErrInvalidRange is returned for a note range outside 0..127 or with
	// low > high.
	ErrInvalidRange = errors.New("instrument: invalid note range")
	// ErrSilentBuffer marks a note whose render came back empty or all zero.
	ErrSilentBuffer = errors.New("instrument: silent buffer")
)

// ProgressFunc is called after every note of a rebuild with the number of
// finished notes, the range size and the note just finished. Calls are
// serialized.
type ProgressFunc func(done, total, note int)

// NoteError records the failure of one note.
type NoteError struct {
	Note int
	Err  error
}

func (e NoteError) Error() string { return fmt.Sprintf("note %d: %v", e.Note, e.Err) }

func (e NoteError) Unwrap() error { return e.Err }

// Result summarizes a rebuild.
type Result struct {
	// Rendered lists the notes now in the cache, ascending.
	Rendered []int
	// Failed lists the notes that were skipped, ascending.
	Failed []NoteError
}

// Err joins the per-note failures, or returns nil when every note rendered.
func (r Result) Err() error {
	errs := make([]error, len(r.Failed))
	for i, f := range r.Failed {
		errs[i] = f
	}
	return errors.Join(errs...)
}

// Cache is the note buffer cache. Reads are lock-free; rebuilds are
// serialized.
type Cache struct {
	snap atomic.Pointer[Snapshot]

	rebuild sync.Mutex
	workers int
	logger  *slog.Logger
}

// Option configures a Cache.
type Option func(*Cache)

// WithWorkers renders up to n notes concurrently. The default renders one
// note at a time. Values below 1 are ignored.
func WithWorkers(n int) Option {
	return func(c *Cache) {
		if n >= 1 {
			c.workers = n
		}
	}
}

// WithLogger sets the logger for per-note failures and rebuild summaries.
func WithLogger(l *slog.Logger) Option {
	return func(c *Cache) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewCache returns an empty cache.
func NewCache(opts ...Option) *Cache {
	c := &Cache{
		workers: 1,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	c.snap.Store(emptySnapshot)
	return c
}

// Snapshot returns the current snapshot.
func (c *Cache) Snapshot() *Snapshot { return c.snap.Load() }

// Buffer returns the buffer cached for note in the current snapshot.
func (c *Cache) Buffer(note int) ([]float64, bool) { return c.snap.Load().Buffer(note) }

// Clear drops every cached buffer.
func (c *Cache) Clear() { c.snap.Store(emptySnapshot) }

// Rebuild renders every note in [low, high] from src and replaces the cache
// with exactly the notes that succeeded. Failed notes are skipped and
// reported in the result.
//
// ctx is checked before each note. When it is cancelled, the previous
// snapshot stays in place and ctx.Err() is returned along with the partial
// result.
func (c *Cache) Rebuild(ctx context.Context, src Source, low, high int, progress ProgressFunc) (Result, error) {
	if !core.ValidNote(low) || !core.ValidNote(high) || low > high {
		return Result{}, fmt.Errorf("%w: %d..%d", ErrInvalidRange, low, high)
	}

	c.rebuild.Lock()
	defer c.rebuild.Unlock()

	total := high - low + 1
	buffers := make(map[int][]float64, total)

	var (
		mu     sync.Mutex
		done   int
		failed []NoteError
	)

	finish := func(note int, buf []float64, err error) {
		mu.Lock()
		defer mu.Unlock()

		if err != nil {
			failed = append(failed, NoteError{Note: note, Err: err})
			c.logger.Warn("note render failed", "note", note, "err", err)
		} else {
			buffers[note] = buf
		}

		done++
		if progress != nil {
			progress(done, total, note)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)

	for note := low; note <= high; note++ {
		if err := gctx.Err(); err != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			buf, err := renderNote(src, note)
			finish(note, buf, err)
			return nil
		})
	}

	werr := g.Wait()
	if werr == nil {
		werr = ctx.Err()
	}

	res := Result{Rendered: make([]int, 0, len(buffers)), Failed: failed}
	for n := range buffers {
		res.Rendered = append(res.Rendered, n)
	}
	sort.Ints(res.Rendered)
	sort.Slice(res.Failed, func(i, j int) bool { return res.Failed[i].Note < res.Failed[j].Note })

	if werr != nil {
		c.logger.Info("rebuild cancelled", "low", low, "high", high, "done", done, "err", werr)
		return res, fmt.Errorf("instrument: rebuild: %w", werr)
	}

	c.snap.Store(&Snapshot{buffers: buffers})
	c.logger.Debug("rebuild complete", "low", low, "high", high,
		"rendered", len(res.Rendered), "failed", len(res.Failed))

	return res, nil
}

func renderNote(src Source, note int) (buf []float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("render panicked: %v", r)
		}
	}()

	buf, err = src.RenderNote(note)
	if err != nil {
		return nil, err
	}
	if silent(buf) {
		return nil, ErrSilentBuffer
	}
	return buf, nil
}

func silent(buf []float64) bool {
	for _, v := range buf {
		if v != 0 {
			return false
		}
	}
	return true
}
