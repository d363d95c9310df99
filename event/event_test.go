package event

import (
	"context"
	"errors"
	"io"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestDecode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status byte
		note   byte
		vel    byte
		want   Kind
		ch     uint8
	}{
		{"note on", 0x90, 60, 100, KindNoteOn, 0},
		{"note on channel 10", 0x99, 36, 1, KindNoteOn, 9},
		{"note on zero velocity", 0x93, 60, 0, KindNoteOff, 3},
		{"note off", 0x80, 60, 64, KindNoteOff, 0},
		{"note off channel 16", 0x8f, 60, 0, KindNoteOff, 15},
		{"control change", 0xb0, 7, 100, KindIgnored, 0},
		{"pitch bend", 0xe0, 0, 64, KindIgnored, 0},
		{"bad data byte", 0x90, 0x80, 100, KindIgnored, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ev := Decode(tt.status, tt.note, tt.vel)
			if ev.Kind != tt.want || ev.Channel != tt.ch {
				t.Fatalf("Decode(%#x) = %v, want kind %v channel %d", tt.status, ev, tt.want, tt.ch)
			}
		})
	}
}

type recorder struct {
	mu    sync.Mutex
	calls []string
	fail  error
}

func (r *recorder) NoteOn(note, velocity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, Event{Kind: KindNoteOn, Note: uint8(note), Velocity: uint8(velocity)}.String())
	return r.fail
}

func (r *recorder) NoteOff(note int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, Event{Kind: KindNoteOff, Note: uint8(note)}.String())
	return true
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

func TestDispatcherQueuesInOrder(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	d := NewDispatcher(rec)

	if !d.OnNoteEvent(0x90, 60, 100) {
		t.Fatal("note on not queued")
	}
	if d.OnNoteEvent(0xb0, 1, 2) {
		t.Fatal("control change queued")
	}
	d.OnNoteEvent(0x90, 60, 0)

	if n := d.Drain(); n != 2 {
		t.Fatalf("Drain() = %d, want 2", n)
	}

	want := []string{"note-on ch=0 note=60 vel=100", "note-off ch=0 note=60 vel=0"}
	if got := rec.snapshot(); !reflect.DeepEqual(got, want) {
		t.Fatalf("calls = %v, want %v", got, want)
	}

	st := d.Stats()
	if st.Queued != 2 || st.Applied != 2 || st.Ignored != 1 {
		t.Fatalf("stats = %+v", st)
	}
}

func TestDispatcherDropsWhenFull(t *testing.T) {
	t.Parallel()

	d := NewDispatcher(&recorder{}, WithQueueSize(2))
	for i := range 5 {
		d.OnNoteEvent(0x90, byte(60+i), 90)
	}

	if st := d.Stats(); st.Queued != 2 || st.Dropped != 3 {
		t.Fatalf("stats = %+v, want 2 queued and 3 dropped", st)
	}
}

func TestDispatcherCountsHandlerFailures(t *testing.T) {
	t.Parallel()

	d := NewDispatcher(&recorder{fail: errors.New("no sound")})
	d.OnNoteEvent(0x90, 60, 90)
	d.Drain()

	if st := d.Stats(); st.Failed != 1 || st.Applied != 0 {
		t.Fatalf("stats = %+v, want 1 failed", st)
	}
}

func TestDispatcherRun(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	d := NewDispatcher(rec)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	var wg sync.WaitGroup
	for i := range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.OnNoteEvent(0x90, byte(40+i), 100)
		}()
	}
	wg.Wait()

	deadline := time.Now().Add(5 * time.Second)
	for d.Stats().Applied < 4 {
		if time.Now().After(deadline) {
			t.Fatalf("applied = %d, want 4", d.Stats().Applied)
		}
		time.Sleep(time.Millisecond)
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() = %v, want context.Canceled", err)
	}
}

func TestKeyboard(t *testing.T) {
	t.Parallel()

	type msg struct{ status, note, vel byte }
	var got []msg
	emit := func(s, n, v byte) { got = append(got, msg{s, n, v}) }

	k := NewKeyboard(60)

	k.Press('a', emit)
	k.Press('k', emit)
	k.Press('a', emit)
	if k.Held() != 1 {
		t.Fatalf("Held() = %d, want 1", k.Held())
	}

	want := []msg{{0x90, 60, 100}, {0x90, 72, 100}, {0x90, 60, 0}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("messages = %v, want %v", got, want)
	}

	got = nil
	k.Press(' ', emit)
	if !reflect.DeepEqual(got, []msg{{0x80, 72, 0}}) || k.Held() != 0 {
		t.Fatalf("release all = %v, held %d", got, k.Held())
	}

	k.Press('x', emit)
	got = nil
	k.Press('w', emit)
	if !reflect.DeepEqual(got, []msg{{0x90, 73, 100}}) {
		t.Fatalf("after octave up = %v", got)
	}

	if k.Press('m', emit) {
		t.Fatal("unbound key reported as bound")
	}
}

func TestKeyboardFeedsDispatcher(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	d := NewDispatcher(rec)
	k := NewKeyboard(48)

	k.Press('d', func(s, n, v byte) { d.OnNoteEvent(s, n, v) })
	k.Press('d', func(s, n, v byte) { d.OnNoteEvent(s, n, v) })
	d.Drain()

	want := []string{"note-on ch=0 note=52 vel=100", "note-off ch=0 note=52 vel=0"}
	if got := rec.snapshot(); !reflect.DeepEqual(got, want) {
		t.Fatalf("calls = %v, want %v", got, want)
	}
}

func TestReadKeys(t *testing.T) {
	t.Parallel()

	keys := ReadKeys(context.Background(), strings.NewReader("az"))
	var got []rune
	for c := range keys {
		got = append(got, c)
	}
	if string(got) != "az" {
		t.Fatalf("keys = %q, want %q", string(got), "az")
	}
}

func TestReadKeysStopsWithoutReceiver(t *testing.T) {
	t.Parallel()

	pr, pw := io.Pipe()
	defer pw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	keys := ReadKeys(ctx, pr)

	if _, err := pw.Write([]byte("a")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if c := <-keys; c != 'a' {
		t.Fatalf("key = %q, want 'a'", c)
	}

	// The next key arrives after cancel and must not be delivered.
	cancel()
	if _, err := pw.Write([]byte("s")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	select {
	case c, ok := <-keys:
		if ok {
			t.Fatalf("key %q delivered after cancel", c)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("reader still running after cancel")
	}
}
