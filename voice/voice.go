// Package voice allocates playback channels to sounding notes.
//
// A Manager owns the active note table. Note events may arrive from any
// goroutine; every table mutation happens under one mutex, and buffers are
// read from a lock-free note cache snapshot.
package voice

import (
	"errors"
	"io"
	"log/slog"
	"math"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/cwbudde/algo-synth/dsp/core"
)

const (
	// DefaultCapacity is the default number of simultaneous voices.
	DefaultCapacity = 128
	// DefaultMasterVolume is the master gain applied to new voices.
	DefaultMasterVolume = 0.8
	maxVelocity         = 127
)

var (
	// ErrNoSound is returned by NoteOn when no buffer is cached for the note.
	ErrNoSound = errors.New("voice: no sound for note")
	// ErrNoChannel is returned by NoteOn when the voice pool is exhausted.
	ErrNoChannel = errors.New("voice: no free channel")
	// ErrInvalidNote is returned for note numbers outside 0..127.
	ErrInvalidNote = errors.New("voice: invalid note")
)

// Channel identifies one backend playback channel.
type Channel int

// Backend plays buffers on a fixed pool of channels.
type Backend interface {
	// AcquireChannel reserves an idle channel. ok is false when none is free.
	AcquireChannel() (ch Channel, ok bool)
	// Play starts buf on ch. buf is shared and must not be modified.
	Play(ch Channel, buf []float64, gain float64, loop bool)
	// Stop silences ch and returns it to the pool.
	Stop(ch Channel)
}

// GainSetter is implemented by backends that can change the gain of a
// sounding channel.
type GainSetter interface {
	SetGain(ch Channel, gain float64)
}

// Buffers looks up the rendered buffer of a note.
type Buffers interface {
	Buffer(note int) ([]float64, bool)
}

// Voice is one sounding note.
type Voice struct {
	Note     int
	Velocity int
	Channel  Channel
	// Gain is velocity/127 times the master volume at trigger time.
	Gain float64
}

// Stats counts note events since the manager was created.
type Stats struct {
	Triggered uint64
	Dropped   uint64 // no free channel
	Missing   uint64 // no cached buffer
	Active    int
}

// Manager is the voice allocator.
type Manager struct {
	buffers Buffers
	backend Backend

	capacity int
	loop     bool
	logger   *slog.Logger
	volume   atomic.Uint64 // math.Float64bits

	mu     sync.Mutex
	active map[int]Voice

	triggered, dropped, missing atomic.Uint64
}

// Option configures a Manager.
type Option func(*Manager)

// WithCapacity bounds the number of simultaneous voices. Values below 1 are
// ignored.
func WithCapacity(n int) Option {
	return func(m *Manager) {
		if n >= 1 {
			m.capacity = n
		}
	}
}

// WithMasterVolume sets the initial master volume, clamped to [0, 1].
func WithMasterVolume(v float64) Option {
	return func(m *Manager) { m.storeVolume(v) }
}

// WithLoop makes every voice loop its buffer until NoteOff.
func WithLoop(loop bool) Option {
	return func(m *Manager) { m.loop = loop }
}

// WithLogger sets the logger for dropped and missing notes.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewManager creates a Manager reading buffers and playing through backend.
func NewManager(buffers Buffers, backend Backend, opts ...Option) *Manager {
	m := &Manager{
		buffers:  buffers,
		backend:  backend,
		capacity: DefaultCapacity,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		active:   make(map[int]Voice),
	}
	m.storeVolume(DefaultMasterVolume)
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

// NoteOn starts note at velocity (clamped to 0..127). A note that is already
// sounding is stopped and retriggered. When no buffer is cached for note it
// returns ErrNoSound, and when the pool is exhausted ErrNoChannel; in both
// cases nothing else changes.
func (m *Manager) NoteOn(note, velocity int) error {
	if !core.ValidNote(note) {
		return ErrInvalidNote
	}
	velocity = max(0, min(maxVelocity, velocity))

	buf, ok := m.buffers.Buffer(note)
	if !ok || len(buf) == 0 {
		m.missing.Add(1)
		m.logger.Warn("no sound for note", "note", note)
		return ErrNoSound
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if prev, ok := m.active[note]; ok {
		m.backend.Stop(prev.Channel)
		delete(m.active, note)
	}

	if len(m.active) >= m.capacity {
		m.dropped.Add(1)
		m.logger.Warn("voice pool exhausted", "note", note, "velocity", velocity, "capacity", m.capacity)
		return ErrNoChannel
	}

	ch, ok := m.backend.AcquireChannel()
	if !ok {
		m.dropped.Add(1)
		m.logger.Warn("no free channel", "note", note, "velocity", velocity)
		return ErrNoChannel
	}

	gain := float64(velocity) / maxVelocity * m.MasterVolume()
	m.backend.Play(ch, buf, gain, m.loop)
	m.active[note] = Voice{Note: note, Velocity: velocity, Channel: ch, Gain: gain}
	m.triggered.Add(1)

	m.logger.Debug("note on", "note", note, "velocity", velocity, "channel", int(ch))
	return nil
}

// NoteOff stops note. It reports whether a voice was sounding.
func (m *Manager) NoteOff(note int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	v, ok := m.active[note]
	if !ok {
		return false
	}
	m.backend.Stop(v.Channel)
	delete(m.active, note)

	m.logger.Debug("note off", "note", note, "channel", int(v.Channel))
	return true
}

// AllNotesOff stops every sounding voice.
func (m *Manager) AllNotesOff() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for note, v := range m.active {
		m.backend.Stop(v.Channel)
		delete(m.active, note)
	}
}

// SetMasterVolume sets the gain for future notes, clamped to [0, 1]. When the
// backend implements GainSetter, sounding voices follow immediately.
func (m *Manager) SetMasterVolume(v float64) {
	m.storeVolume(v)

	gs, ok := m.backend.(GainSetter)
	if !ok {
		return
	}

	vol := m.MasterVolume()

	m.mu.Lock()
	defer m.mu.Unlock()

	for note, voice := range m.active {
		voice.Gain = float64(voice.Velocity) / maxVelocity * vol
		gs.SetGain(voice.Channel, voice.Gain)
		m.active[note] = voice
	}
}

// MasterVolume returns the current master volume.
func (m *Manager) MasterVolume() float64 {
	return math.Float64frombits(m.volume.Load())
}

// Active returns the sounding voices ordered by note.
func (m *Manager) Active() []Voice {
	m.mu.Lock()
	out := make([]Voice, 0, len(m.active))
	for _, v := range m.active {
		out = append(out, v)
	}
	m.mu.Unlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Note < out[j].Note })
	return out
}

// Stats returns the event counters.
func (m *Manager) Stats() Stats {
	m.mu.Lock()
	n := len(m.active)
	m.mu.Unlock()

	return Stats{
		Triggered: m.triggered.Load(),
		Dropped:   m.dropped.Load(),
		Missing:   m.missing.Load(),
		Active:    n,
	}
}

func (m *Manager) storeVolume(v float64) {
	if math.IsNaN(v) {
		return
	}
	m.volume.Store(math.Float64bits(core.Clamp(v, 0, 1)))
}
