//go:build !cgo

package playback

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/spin/internal/services"
	"github.com/desertthunder/spin/internal/shared"
)

// AudioAvailable reports whether this build can drive the sound card.
// Audio output needs cgo for the native sound libraries.
const AudioAvailable = false

// silentTransport accepts every command and fails to load.
type silentTransport struct{}

// NewBeepFactory returns transports that cannot produce sound in this build.
func NewBeepFactory(streamer services.Streamer, sampleRate int, logger *log.Logger) TransportFactory {
	return func(events Events) Transport { return silentTransport{} }
}

func (silentTransport) Load(ctx context.Context, url string) error {
	return fmt.Errorf("%w: audio output requires a cgo build", shared.ErrTransportLoad)
}

func (silentTransport) Play() error { return nil }
func (silentTransport) Pause() error { return nil }
func (silentTransport) SetMuted(bool) {}
func (silentTransport) SetLoop(bool) {}
func (silentTransport) SetVolume(float64) {}
func (silentTransport) Seek(time.Duration) error { return nil }
func (silentTransport) Position() time.Duration { return 0 }
func (silentTransport) Duration() time.Duration { return 0 }
func (silentTransport) Close() error { return nil }
