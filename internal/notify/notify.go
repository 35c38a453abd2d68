// package notify delivers transient, non-blocking notices to the user
//
// Notices replace the toasts of a browser UI: the CLI logs them, the TUI shows them in a
// toast line and desktop notifications are opt-in.
package notify

import (
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gen2brain/beeep"
)

// Level is the severity of a notice.
type Level int

const (
	Info Level = iota
	Error
)

func (l Level) String() string {
	if l == Error {
		return "error"
	}
	return "info"
}

// Notice is one transient message.
type Notice struct {
	Level   Level
	Message string
}

// Notifier publishes notices. Implementations must not block the caller.
type Notifier interface {
	Notify(n Notice)
}

// Infof and Errorf are shorthands for the common case.
func Infof(n Notifier, msg string) {
	if n != nil {
		n.Notify(Notice{Level: Info, Message: msg})
	}
}

func Errorf(n Notifier, msg string) {
	if n != nil {
		n.Notify(Notice{Level: Error, Message: msg})
	}
}

// LogNotifier writes notices to a [log.Logger].
type LogNotifier struct {
	logger *log.Logger
}

func NewLogNotifier(logger *log.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (l *LogNotifier) Notify(n Notice) {
	if n.Level == Error {
		l.logger.Error(n.Message)
		return
	}
	l.logger.Info(n.Message)
}

// DesktopNotifier raises OS notifications through beeep.
type DesktopNotifier struct {
	title  string
	logger *log.Logger
	send   func(title, message string, icon any) error
}

func NewDesktopNotifier(title string, logger *log.Logger) *DesktopNotifier {
	beeep.AppName = title
	return &DesktopNotifier{title: title, logger: logger, send: beeep.Notify}
}

// Notify dispatches on its own goroutine; delivery failures are logged at debug level.
func (d *DesktopNotifier) Notify(n Notice) {
	go func() {
		if err := d.send(d.title, n.Message, ""); err != nil && d.logger != nil {
			d.logger.Debug("desktop notification failed", "error", err)
		}
	}()
}

// ChanNotifier forwards notices to a buffered channel, dropping them when the channel is full.
type ChanNotifier struct {
	ch chan Notice
}

func NewChanNotifier(buffer int) *ChanNotifier {
	return &ChanNotifier{ch: make(chan Notice, buffer)}
}

func (c *ChanNotifier) Notify(n Notice) {
	select {
	case c.ch <- n:
	default:
	}
}

// C is the receive side consumed by the TUI.
func (c *ChanNotifier) C() <-chan Notice { return c.ch }

// Multi fans a notice out to every notifier.
type Multi []Notifier

func (m Multi) Notify(n Notice) {
	for _, notifier := range m {
		if notifier != nil {
			notifier.Notify(n)
		}
	}
}

// Recorder keeps every notice in memory.
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *Recorder) Notify(n Notice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, n)
}

// Notices returns a copy of everything recorded so far.
func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notice(nil), r.notices...)
}

// Last returns the most recent notice and whether there was one.
func (r *Recorder) Last() (Notice, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return Notice{}, false
	}
	return r.notices[len(r.notices)-1], true
}
