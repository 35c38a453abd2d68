package playback

import (
	"context"
	"sync"
	"time"
)

// fakeTransport records every command and lets tests drive events.
type fakeTransport struct {
	mu       sync.Mutex
	events   Events
	url      string
	gate     chan struct{}
	loadErr  error
	duration time.Duration
	position time.Duration
	loaded   bool
	playing  bool
	muted    bool
	loop     bool
	loops    []bool
	level    float64
	seeks    []time.Duration
	plays    int
	closed   bool
}

// fakeFactory hands out fake transports and keeps them in creation order.
type fakeFactory struct {
	mu         sync.Mutex
	transports []*fakeTransport
	gated      bool
	loadErr    error
	duration   time.Duration
}

func (f *fakeFactory) new(events Events) Transport {
	f.mu.Lock()
	defer f.mu.Unlock()

	t := &fakeTransport{events: events, loadErr: f.loadErr, duration: f.duration}
	if f.gated {
		t.gate = make(chan struct{})
	}
	f.transports = append(f.transports, t)
	return t
}

func (f *fakeFactory) at(i int) *fakeTransport {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.transports[i]
}

func (f *fakeFactory) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.transports)
}

func (t *fakeTransport) Load(ctx context.Context, url string) error {
	t.mu.Lock()
	t.url = url
	gate := t.gate
	t.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.loadErr != nil {
		return t.loadErr
	}
	t.loaded = true
	return nil
}

// release unblocks a gated Load.
func (t *fakeTransport) release() { close(t.gate) }

func (t *fakeTransport) Play() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.loaded {
		t.playing = true
		t.plays++
	}
	return nil
}

func (t *fakeTransport) Pause() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.loaded {
		t.playing = false
	}
	return nil
}

func (t *fakeTransport) SetMuted(muted bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.muted = muted
}

func (t *fakeTransport) SetLoop(loop bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.loop = loop
	t.loops = append(t.loops, loop)
}

func (t *fakeTransport) SetVolume(level float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.level = level
}

func (t *fakeTransport) Seek(pos time.Duration) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.position = pos
	t.seeks = append(t.seeks, pos)
	return nil
}

func (t *fakeTransport) Position() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.position
}

func (t *fakeTransport) Duration() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.loaded {
		return 0
	}
	return t.duration
}

func (t *fakeTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
	t.playing = false
	return nil
}

// fakeSnapshot is a lock-free copy of a fake transport's recorded state.
type fakeSnapshot struct {
	url     string
	loaded  bool
	playing bool
	muted   bool
	loop    bool
	loops   []bool
	level   float64
	seeks   []time.Duration
	plays   int
	closed  bool
}

func (t *fakeTransport) snapshot() fakeSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return fakeSnapshot{
		url:     t.url,
		loaded:  t.loaded,
		playing: t.playing,
		muted:   t.muted,
		loop:    t.loop,
		loops:   append([]bool(nil), t.loops...),
		level:   t.level,
		seeks:   append([]time.Duration(nil), t.seeks...),
		plays:   t.plays,
		closed:  t.closed,
	}
}

func (t *fakeTransport) emitTime(pos time.Duration) { t.events.TimeUpdate(pos) }
func (t *fakeTransport) emitEnded() { t.events.Ended() }
func (t *fakeTransport) emitError(err error) { t.events.Error(err) }
