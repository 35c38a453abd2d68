//go:build cgo

package playback

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"

	"github.com/desertthunder/spin/internal/services"
)

// AudioAvailable reports whether this build can drive the sound card.
const AudioAvailable = true

const tickInterval = 250 * time.Millisecond

var (
	speakerOnce sync.Once
	speakerErr  error
)

// initSpeaker initializes the process-wide speaker once at rate.
func initSpeaker(rate beep.SampleRate) error {
	speakerOnce.Do(func() {
		speakerErr = speaker.Init(rate, rate.N(time.Second/10))
	})
	return speakerErr
}

// BeepTransport plays MP3 streams through the system speaker.
type BeepTransport struct {
	mu         sync.Mutex
	streamer   services.Streamer
	events     Events
	sampleRate beep.SampleRate
	logger     *log.Logger

	decoded beep.StreamSeekCloser
	format  beep.Format
	ctrl    *beep.Ctrl
	volume  *effects.Volume
	stop    chan struct{}

	loop   atomic.Bool
	closed atomic.Bool
	muted  bool
	level  float64
}

// NewBeepFactory returns a [TransportFactory] producing speaker-backed transports.
func NewBeepFactory(streamer services.Streamer, sampleRate int, logger *log.Logger) TransportFactory {
	if sampleRate <= 0 {
		sampleRate = 44100
	}
	return func(events Events) Transport {
		return &BeepTransport{
			streamer:   streamer,
			events:     events,
			sampleRate: beep.SampleRate(sampleRate),
			logger:     logger,
			level:      1,
		}
	}
}

func (t *BeepTransport) Load(ctx context.Context, url string) error {
	data, err := t.streamer.Fetch(ctx, url)
	if err != nil {
		return err
	}
	if t.closed.Load() {
		return context.Canceled
	}

	decoded, format, err := mp3.Decode(io.NopCloser(bytes.NewReader(data)))
	if err != nil {
		return fmt.Errorf("failed to decode stream: %w", err)
	}

	if err := initSpeaker(t.sampleRate); err != nil {
		decoded.Close()
		return fmt.Errorf("failed to initialize speaker: %w", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed.Load() {
		decoded.Close()
		return context.Canceled
	}

	t.decoded = decoded
	t.format = format

	looped := &loopStreamer{s: decoded, loop: &t.loop}
	resampled := beep.Resample(4, format.SampleRate, t.sampleRate, looped)
	t.ctrl = &beep.Ctrl{Streamer: resampled, Paused: true}
	t.volume = &effects.Volume{Streamer: t.ctrl, Base: 2}
	t.applyVolumeLocked()

	t.stop = make(chan struct{})
	speaker.Play(beep.Seq(t.volume, beep.Callback(func() {
		// Runs on the speaker goroutine with the speaker lock held.
		if !t.closed.Load() && t.events.Ended != nil {
			go t.events.Ended()
		}
	})))

	go t.tick(t.stop)
	return nil
}

// tick reports the position while the stream plays.
func (t *BeepTransport) tick(stop <-chan struct{}) {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if t.paused() || t.events.TimeUpdate == nil {
				continue
			}
			t.events.TimeUpdate(t.Position())
		}
	}
}

func (t *BeepTransport) paused() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.ctrl == nil {
		return true
	}
	speaker.Lock()
	defer speaker.Unlock()
	return t.ctrl.Paused
}

func (t *BeepTransport) setPaused(paused bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.ctrl == nil {
		return nil
	}
	speaker.Lock()
	t.ctrl.Paused = paused
	speaker.Unlock()
	return nil
}

func (t *BeepTransport) Play() error { return t.setPaused(false) }
func (t *BeepTransport) Pause() error { return t.setPaused(true) }

func (t *BeepTransport) SetLoop(loop bool) { t.loop.Store(loop) }

func (t *BeepTransport) SetMuted(muted bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.muted = muted
	t.applyVolumeLocked()
}

func (t *BeepTransport) SetVolume(level float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.level = level
	t.applyVolumeLocked()
}

// applyVolumeLocked maps the linear level onto the base-2 volume effect.
func (t *BeepTransport) applyVolumeLocked() {
	if t.volume == nil {
		return
	}
	speaker.Lock()
	defer speaker.Unlock()

	t.volume.Silent = t.muted || t.level <= 0
	if t.level > 0 {
		t.volume.Volume = math.Log2(t.level)
	}
}

func (t *BeepTransport) Seek(pos time.Duration) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.decoded == nil {
		return nil
	}
	speaker.Lock()
	defer speaker.Unlock()

	n := min(max(t.format.SampleRate.N(pos), 0), t.decoded.Len())
	return t.decoded.Seek(n)
}

func (t *BeepTransport) Position() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.decoded == nil {
		return 0
	}
	speaker.Lock()
	defer speaker.Unlock()
	return t.format.SampleRate.D(t.decoded.Position())
}

func (t *BeepTransport) Duration() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.decoded == nil {
		return 0
	}
	return t.format.SampleRate.D(t.decoded.Len())
}

func (t *BeepTransport) Close() error {
	if t.closed.Swap(true) {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stop != nil {
		close(t.stop)
	}
	if t.ctrl == nil {
		return nil
	}

	speaker.Lock()
	t.ctrl.Paused = true
	t.ctrl.Streamer = nil
	speaker.Unlock()

	return t.decoded.Close()
}

// loopStreamer rewinds s at its end while loop is set.
type loopStreamer struct {
	s    beep.StreamSeeker
	loop *atomic.Bool
}

func (l *loopStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	for n < len(samples) {
		sn, sok := l.s.Stream(samples[n:])
		n += sn
		if sok && sn > 0 {
			continue
		}
		if !l.loop.Load() || l.s.Len() == 0 {
			return n, n > 0
		}
		if err := l.s.Seek(0); err != nil {
			return n, n > 0
		}
	}
	return n, true
}

func (l *loopStreamer) Err() error { return l.s.Err() }
