// package playback owns the single active track and the widget that plays it
//
// A [Session] holds at most one [models.ActiveTrack] and mounts exactly one [Widget] for it.
// The widget drives a [Transport] (the audio output), tracks the timeline and runs the lyrics
// and download side-channels.
//
// Every mount gets a new generation number. Asynchronous work (stream loading, transport events,
// lyrics, downloads) belongs to the widget that started it, and once that widget is torn down its
// late results are discarded.
package playback

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"time"
)

// Transport is the audio output a widget controls.
//
// Setters may be called before Load completes; implementations remember the value and apply it
// once the stream is ready. Play and Pause before that point are accepted and ignored.
type Transport interface {
	// Load fetches and decodes the stream, blocking until the duration is known.
	Load(ctx context.Context, url string) error
	Play() error
	Pause() error
	SetMuted(muted bool)
	// SetLoop is the only writer of the native loop flag.
	SetLoop(loop bool)
	SetVolume(level float64)
	Seek(pos time.Duration) error
	Position() time.Duration
	Duration() time.Duration
	Close() error
}

// Events are the callbacks a transport raises from its own goroutines.
type Events struct {
	TimeUpdate func(pos time.Duration)
	Ended      func()
	Error      func(err error)
}

// TransportFactory builds a fresh transport for each mounted widget.
type TransportFactory func(events Events) Transport

// LyricsState is the lyrics panel.
type LyricsState struct {
	Open    bool
	Text    *string
	Loading bool
}

// State is a snapshot of a widget.
//
// Position and Duration are seconds; Duration is zero until the stream is loaded and
// Position stays within [0, Duration] once it is known.
type State struct {
	IsPlaying  bool
	IsMuted    bool
	IsLooping  bool
	IsSeeking  bool
	Position   float64
	Duration   float64
	Volume     float64
	Ready      bool
	Generation uint64
	Lyrics     LyricsState
}

// FormatTime renders seconds as m:ss, flooring fractional seconds.
func FormatTime(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		seconds = 0
	}
	total := int(math.Floor(seconds))
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

var (
	lineBreak = regexp.MustCompile(`(?i)<br\s*/?>`)
	anyTag    = regexp.MustCompile(`<[^>]*>`)
)

// CleanLyrics turns <br> variants into newlines and strips every other tag.
func CleanLyrics(raw string) string {
	return anyTag.ReplaceAllString(lineBreak.ReplaceAllString(raw, "\n"), "")
}

func seconds(d time.Duration) float64 {
	return d.Seconds()
}

func duration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
