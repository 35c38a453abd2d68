package playback

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/spin/internal/models"
	"github.com/desertthunder/spin/internal/notify"
	"github.com/desertthunder/spin/internal/shared"
)

// Widget plays one track for one mount.
type Widget struct {
	mu        sync.Mutex
	session   *Session
	gen       uint64
	track     models.ActiveTrack
	transport Transport
	state     State
	alive     bool
	lyricsSeq uint64
	loadErr   error
	cancel    context.CancelFunc
	ready     chan struct{}
	done      chan struct{}
	logger    *log.Logger
}

func newWidget(s *Session, gen uint64, track models.ActiveTrack) *Widget {
	w := &Widget{
		session: s,
		gen:     gen,
		track:   track,
		alive:   true,
		ready:   make(chan struct{}),
		done:    make(chan struct{}),
		logger:  shared.WithLogger(s.logger, "generation", gen),
	}
	w.state = State{Generation: gen, Volume: s.opts.Volume}
	return w
}

// mount builds the transport, applies the initial flags and starts loading. Called with the session lock held.
func (w *Widget) mount(ctx context.Context) {
	w.transport = w.session.opts.Transports(Events{
		TimeUpdate: w.onTimeUpdate,
		Ended:      w.onEnded,
		Error:      w.onError,
	})
	w.transport.SetLoop(w.state.IsLooping)
	w.transport.SetMuted(w.state.IsMuted)
	w.transport.SetVolume(w.state.Volume)

	// Autoplay: the widget wants to play as soon as the stream is ready.
	w.state.IsPlaying = true

	loadCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	w.cancel = cancel
	go w.load(loadCtx)
}

func (w *Widget) load(ctx context.Context) {
	defer close(w.ready)

	err := w.transport.Load(ctx, w.track.StreamURL)

	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.alive {
		return
	}

	if err != nil {
		w.loadErr = fmt.Errorf("%w: %v", shared.ErrTransportLoad, err)
		w.state.IsPlaying = false
		w.logger.Error("failed to load stream", "track", w.track.TrackID, "error", err)
		notify.Errorf(w.session.opts.Notifier, "Failed to load "+w.title())
		return
	}

	w.state.Ready = true
	w.state.Duration = seconds(w.transport.Duration())
	w.state.Position = w.clamp(seconds(w.transport.Position()))

	if w.state.IsPlaying {
		if err := w.transport.Play(); err != nil {
			w.state.IsPlaying = false
			w.logger.Error("autoplay failed", "error", err)
		}
	}
}

// teardown invalidates the widget and releases the transport. Called with the session lock held.
func (w *Widget) teardown() {
	w.mu.Lock()
	if !w.alive {
		w.mu.Unlock()
		return
	}
	w.alive = false
	w.state.IsPlaying = false
	w.cancel()
	close(w.done)
	w.mu.Unlock()

	if err := w.transport.Close(); err != nil {
		w.logger.Warn("failed to close transport", "error", err)
	}
}

func (w *Widget) title() string {
	if w.track.Title == "" {
		return "track"
	}
	return w.track.Title
}

// Track returns the track this widget is bound to.
func (w *Widget) Track() models.ActiveTrack { return w.track }

// Generation returns the mount generation.
func (w *Widget) Generation() uint64 { return w.gen }

// Ready is closed once loading finishes, successfully or not.
func (w *Widget) Ready() <-chan struct{} { return w.ready }

// Done is closed when the widget is unmounted.
func (w *Widget) Done() <-chan struct{} { return w.done }

// Wait blocks until loading finishes and returns the load error, if any.
func (w *Widget) Wait(ctx context.Context) error {
	select {
	case <-w.ready:
	case <-w.done:
		return shared.ErrWidgetDetached
	case <-ctx.Done():
		return ctx.Err()
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.alive {
		return shared.ErrWidgetDetached
	}
	return w.loadErr
}

// State returns a snapshot of the widget.
func (w *Widget) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()

	st := w.state
	if w.state.Lyrics.Text != nil {
		text := *w.state.Lyrics.Text
		st.Lyrics.Text = &text
	}
	return st
}

// TogglePlayPause flips between playing and paused.
//
// Before the stream is ready only the intent changes; it is honored when loading completes.
func (w *Widget) TogglePlayPause() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.alive {
		return shared.ErrWidgetDetached
	}

	if w.state.IsPlaying {
		if err := w.transport.Pause(); err != nil {
			return fmt.Errorf("failed to pause: %w", err)
		}
		w.state.IsPlaying = false
		return nil
	}

	if err := w.transport.Play(); err != nil {
		notify.Errorf(w.session.opts.Notifier, "Playback failed")
		return fmt.Errorf("failed to play: %w", err)
	}
	w.state.IsPlaying = true
	return nil
}

// ToggleMute flips the mute flag on the widget and the transport.
func (w *Widget) ToggleMute() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.alive {
		return shared.ErrWidgetDetached
	}
	w.state.IsMuted = !w.state.IsMuted
	w.transport.SetMuted(w.state.IsMuted)
	return nil
}

// ToggleLoop flips the loop flag and writes it to the transport.
func (w *Widget) ToggleLoop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.alive {
		return shared.ErrWidgetDetached
	}
	w.state.IsLooping = !w.state.IsLooping
	w.transport.SetLoop(w.state.IsLooping)
	w.logger.Debug("loop changed", "loop", w.state.IsLooping)
	return nil
}

// SetVolume sets the output level, clamped to [0, 1].
func (w *Widget) SetVolume(level float64) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.alive {
		return shared.ErrWidgetDetached
	}
	level = min(max(level, 0), 1)
	w.state.Volume = level
	w.transport.SetVolume(level)
	return nil
}

// BeginSeek starts a drag. Transport time updates no longer move the displayed position.
func (w *Widget) BeginSeek() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.alive {
		w.state.IsSeeking = true
	}
}

// Seek moves the displayed position to target seconds. Outside a drag the transport seeks immediately.
func (w *Widget) Seek(target float64) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.alive {
		return shared.ErrWidgetDetached
	}
	w.state.Position = w.clamp(target)
	if w.state.IsSeeking {
		return nil
	}
	return w.commitLocked()
}

// CommitSeek ends a drag and moves the transport to the displayed position.
func (w *Widget) CommitSeek() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.alive {
		return shared.ErrWidgetDetached
	}
	w.state.IsSeeking = false
	return w.commitLocked()
}

func (w *Widget) commitLocked() error {
	if err := w.transport.Seek(duration(w.state.Position)); err != nil {
		return fmt.Errorf("failed to seek: %w", err)
	}
	return nil
}

// clamp bounds a position to [0, Duration], or to >= 0 while the duration is unknown.
func (w *Widget) clamp(pos float64) float64 {
	pos = max(pos, 0)
	if w.state.Duration > 0 {
		pos = min(pos, w.state.Duration)
	}
	return pos
}

// Close asks the session to unmount this widget.
func (w *Widget) Close() {
	w.session.closeWidget(w.gen)
}

func (w *Widget) onTimeUpdate(pos time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.alive || w.state.IsSeeking {
		return
	}
	w.state.Position = w.clamp(seconds(pos))
}

func (w *Widget) onEnded() {
	w.mu.Lock()
	if !w.alive {
		w.mu.Unlock()
		return
	}

	if w.state.IsLooping {
		w.state.Position = 0
		if err := w.transport.Seek(0); err == nil {
			_ = w.transport.Play()
		}
		w.mu.Unlock()
		return
	}

	w.state.IsPlaying = false
	w.state.Position = w.state.Duration
	w.mu.Unlock()

	w.logger.Debug("track ended", "track", w.track.TrackID)
	w.session.closeWidget(w.gen)
}

func (w *Widget) onError(err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.alive {
		return
	}
	w.state.IsPlaying = false
	w.logger.Error("transport error", "error", err)
	notify.Errorf(w.session.opts.Notifier, "Playback error")
}

// FetchLyrics opens the lyrics panel and loads lyrics for the current track.
//
// Playback is never affected. A result that arrives after the widget was torn down, or after a
// newer request started, is dropped.
func (w *Widget) FetchLyrics(ctx context.Context) error {
	w.mu.Lock()
	if !w.alive {
		w.mu.Unlock()
		return shared.ErrWidgetDetached
	}
	if w.track.TrackID == "" {
		w.mu.Unlock()
		notify.Errorf(w.session.opts.Notifier, "Cannot fetch lyrics: Song ID not available")
		return fmt.Errorf("%w: track id not available", shared.ErrLyricsUnavailable)
	}
	if w.session.opts.Lyrics == nil {
		w.mu.Unlock()
		return fmt.Errorf("%w: no lyrics provider", shared.ErrLyricsUnavailable)
	}

	w.lyricsSeq++
	seq := w.lyricsSeq
	w.state.Lyrics = LyricsState{Open: true, Loading: true}
	trackID := w.track.TrackID
	w.mu.Unlock()

	raw, err := w.session.opts.Lyrics.GetLyrics(ctx, trackID)

	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.alive || seq != w.lyricsSeq {
		w.logger.Debug("discarding stale lyrics", "track", trackID)
		return nil
	}

	w.state.Lyrics.Loading = false
	if err != nil {
		w.state.Lyrics.Text = nil
		w.logger.Warn("failed to fetch lyrics", "track", trackID, "error", err)
		if errors.Is(err, shared.ErrLyricsUnavailable) {
			notify.Errorf(w.session.opts.Notifier, "Lyrics not available for this song")
			return err
		}
		notify.Errorf(w.session.opts.Notifier, "Failed to fetch lyrics")
		return fmt.Errorf("%w: %v", shared.ErrLyricsUnavailable, err)
	}

	text := CleanLyrics(raw)
	w.state.Lyrics.Text = &text
	return nil
}

// CloseLyrics hides the lyrics panel.
func (w *Widget) CloseLyrics() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.state.Lyrics.Open = false
}

// DownloadName is the file name used for a downloaded track.
func DownloadName(trackID string) string {
	id := strings.NewReplacer("/", "_", "\\", "_", "..", "_").Replace(strings.TrimSpace(trackID))
	if id == "" {
		id = "unknown"
	}
	return "song-" + id + ".mp3"
}

// Download saves the current stream as song-<id>.mp3 in the download directory and returns the path.
func (w *Widget) Download(ctx context.Context) (string, error) {
	w.mu.Lock()
	if !w.alive {
		w.mu.Unlock()
		return "", shared.ErrWidgetDetached
	}
	track := w.track
	w.mu.Unlock()

	opts := w.session.opts
	if opts.Streamer == nil {
		return "", fmt.Errorf("%w: no stream client", shared.ErrInvalidArgument)
	}

	data, err := opts.Streamer.Fetch(ctx, track.StreamURL)
	if err != nil {
		w.logger.Error("download failed", "track", track.TrackID, "error", err)
		notify.Errorf(opts.Notifier, "Failed to download file")
		return "", err
	}

	if err := os.MkdirAll(opts.DownloadDir, 0755); err != nil {
		notify.Errorf(opts.Notifier, "Failed to download file")
		return "", fmt.Errorf("failed to create download directory: %w", err)
	}

	path := filepath.Join(opts.DownloadDir, DownloadName(track.TrackID))
	if err := os.WriteFile(path, data, 0644); err != nil {
		notify.Errorf(opts.Notifier, "Failed to download file")
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}

	w.logger.Info("downloaded track", "track", track.TrackID, "path", path, "bytes", len(data))
	notify.Infof(opts.Notifier, "Downloaded "+filepath.Base(path))
	return path, nil
}
