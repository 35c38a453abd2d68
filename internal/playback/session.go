package playback

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/spin/internal/models"
	"github.com/desertthunder/spin/internal/notify"
	"github.com/desertthunder/spin/internal/services"
	"github.com/desertthunder/spin/internal/shared"
)

// Recorder is told about every mounted track. Failures are logged and never stop playback.
type Recorder interface {
	RecordPlay(ctx context.Context, track models.ActiveTrack) error
}

// Change is delivered to subscribers on every mount and unmount; Track is nil after an unmount.
type Change struct {
	Generation uint64
	Track      *models.ActiveTrack
}

// Options configures a [Session].
type Options struct {
	Transports  TransportFactory
	Lyrics      services.LyricsProvider
	Streamer    services.Streamer
	Notifier    notify.Notifier
	Recorder    Recorder
	DownloadDir string
	Volume      float64
	Logger      *log.Logger
}

// Session holds the process-wide active track.
//
// A widget is mounted exactly when the active track is non-nil. Selecting a new track tears
// the previous widget down before the next one mounts.
type Session struct {
	mu          sync.Mutex
	opts        Options
	current     *models.ActiveTrack
	widget      *Widget
	generation  uint64
	subscribers []func(Change)
	logger      *log.Logger
}

// NewSession creates an idle session.
func NewSession(opts Options) *Session {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Volume <= 0 || opts.Volume > 1 {
		opts.Volume = 1
	}
	if opts.DownloadDir == "" {
		opts.DownloadDir = "."
	}
	return &Session{opts: opts, logger: shared.WithLogger(opts.Logger, "component", "playback")}
}

// SetCurrentTrack replaces the active track. A nil track, or one without a stream URL, clears
// playback and unmounts the widget.
func (s *Session) SetCurrentTrack(ctx context.Context, track *models.ActiveTrack) {
	s.mu.Lock()

	if old := s.widget; old != nil {
		s.widget = nil
		s.current = nil
		old.teardown()
	}

	if track == nil || track.StreamURL == "" {
		gen := s.generation
		s.mu.Unlock()
		s.logger.Debug("playback cleared", "generation", gen)
		s.publish(Change{Generation: gen})
		return
	}

	s.generation++
	gen := s.generation
	active := *track
	s.current = &active
	s.widget = newWidget(s, gen, active)
	s.widget.mount(ctx)
	s.mu.Unlock()

	s.logger.Info("now playing", "track", active.TrackID, "title", active.Title, "generation", gen)
	s.publish(Change{Generation: gen, Track: &active})

	if s.opts.Recorder != nil {
		if err := s.opts.Recorder.RecordPlay(ctx, active); err != nil {
			s.logger.Warn("failed to record play", "track", active.TrackID, "error", err)
		}
	}
}

// CurrentTrack returns a copy of the active track, or nil.
func (s *Session) CurrentTrack() *models.ActiveTrack {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	active := *s.current
	return &active
}

// Widget returns the mounted widget, or nil.
func (s *Session) Widget() *Widget {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.widget
}

// Generation returns the generation of the most recent mount.
func (s *Session) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// Subscribe registers fn for mount and unmount changes. fn runs on the goroutine that caused the change.
func (s *Session) Subscribe(fn func(Change)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// Close stops playback.
func (s *Session) Close() {
	s.SetCurrentTrack(context.Background(), nil)
}

// closeWidget unmounts the widget of generation gen if it is still the mounted one.
func (s *Session) closeWidget(gen uint64) {
	s.mu.Lock()
	if s.widget == nil || s.widget.gen != gen {
		s.mu.Unlock()
		return
	}
	w := s.widget
	s.widget = nil
	s.current = nil
	w.teardown()
	s.mu.Unlock()

	s.logger.Debug("widget closed", "generation", gen)
	s.publish(Change{Generation: gen})
}

func (s *Session) publish(c Change) {
	s.mu.Lock()
	subs := append(([]func(Change))(nil), s.subscribers...)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(c)
	}
}
