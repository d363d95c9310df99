package playback

import (
	"encoding/binary"
	"io"
	"log/slog"
	"sync"

	"github.com/cwbudde/algo-synth/dsp/core"
	"github.com/cwbudde/algo-synth/voice"
	"github.com/cwbudde/algo-synth/wavio"
)

const (
	// DefaultChannels is the default pool size.
	DefaultChannels = voice.DefaultCapacity
	// FrameBytes is the size of one stereo 16-bit frame.
	FrameBytes = 4
)

type channel struct {
	buf     []float64
	pos     int
	gain    float64
	loop    bool
	busy    bool
	playing bool
}

// Mixer sums the buffers playing on its channels. A channel stays reserved
// from AcquireChannel until Stop, even after a one-shot buffer has run out,
// so a handle never changes owner behind the caller's back. It is safe for
// concurrent use.
type Mixer struct {
	mu     sync.Mutex
	chans  []channel
	mix    []float64
	logger *slog.Logger
}

// Option configures a Mixer.
type Option func(*Mixer)

// WithChannels sets the pool size. Values below 1 are ignored.
func WithChannels(n int) Option {
	return func(m *Mixer) {
		if n >= 1 {
			m.chans = make([]channel, n)
		}
	}
}

// WithLogger sets the logger for misuse of channel handles.
func WithLogger(l *slog.Logger) Option {
	return func(m *Mixer) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewMixer creates an idle mixer.
func NewMixer(opts ...Option) *Mixer {
	m := &Mixer{
		chans:  make([]channel, DefaultChannels),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

// Channels returns the pool size.
func (m *Mixer) Channels() int { return len(m.chans) }

// AcquireChannel reserves the lowest idle channel.
func (m *Mixer) AcquireChannel() (voice.Channel, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.chans {
		if !m.chans[i].busy {
			m.chans[i] = channel{busy: true}
			return voice.Channel(i), true
		}
	}
	return 0, false
}

// Play starts buf on ch from the beginning. buf is read, never written.
func (m *Mixer) Play(ch voice.Channel, buf []float64, gain float64, loop bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	c := m.lookup(ch)
	if c == nil {
		return
	}
	*c = channel{buf: buf, gain: gain, loop: loop, busy: true, playing: len(buf) > 0}
}

// Stop silences ch and returns it to the pool.
func (m *Mixer) Stop(ch voice.Channel) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c := m.lookup(ch); c != nil {
		*c = channel{}
	}
}

// SetGain changes the gain of ch while it plays.
func (m *Mixer) SetGain(ch voice.Channel, gain float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if c := m.lookup(ch); c != nil {
		c.gain = gain
	}
}

// Playing returns the number of channels still producing sound.
func (m *Mixer) Playing() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for i := range m.chans {
		if m.chans[i].playing {
			n++
		}
	}
	return n
}

// MixInto overwrites dst with the next len(dst) mono samples of the mix and
// advances every playing channel.
func (m *Mixer) MixInto(dst []float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.mixLocked(dst)
}

// Read implements io.Reader. It fills whole frames only and never returns an
// error.
func (m *Mixer) Read(p []byte) (int, error) {
	frames := len(p) / FrameBytes

	m.mu.Lock()
	defer m.mu.Unlock()

	m.mix = core.Scratch(m.mix, frames)
	m.mixLocked(m.mix)

	for i, x := range m.mix {
		v := uint16(int16(wavio.ToPCM16(x)))
		binary.LittleEndian.PutUint16(p[i*FrameBytes:], v)
		binary.LittleEndian.PutUint16(p[i*FrameBytes+2:], v)
	}
	return frames * FrameBytes, nil
}

func (m *Mixer) mixLocked(dst []float64) {
	clear(dst)

	for i := range m.chans {
		c := &m.chans[i]
		if !c.playing {
			continue
		}

		for j := range dst {
			if c.pos >= len(c.buf) {
				if !c.loop {
					c.playing = false
					break
				}
				c.pos = 0
			}
			dst[j] += c.gain * c.buf[c.pos]
			c.pos++
		}
	}
}

func (m *Mixer) lookup(ch voice.Channel) *channel {
	if ch < 0 || int(ch) >= len(m.chans) {
		m.logger.Warn("channel out of range", "channel", int(ch))
		return nil
	}
	c := &m.chans[ch]
	if !c.busy {
		m.logger.Warn("channel not acquired", "channel", int(ch))
		return nil
	}
	return c
}
