package notify

import (
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog"

	"github.com/zatekoja/boulevard/internal/domain/providers"
)

// LogNotifier forwards notices to a zerolog logger
type LogNotifier struct {
	logger *zerolog.Logger
}

// NewLogNotifier creates a notifier backed by logger
func NewLogNotifier(logger *zerolog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify implements providers.Notifier
func (n *LogNotifier) Notify(level providers.Level, message string) {
	var ev *zerolog.Event
	switch level {
	case providers.LevelError:
		ev = n.logger.Error()
	case providers.LevelWarning:
		ev = n.logger.Warn()
	default:
		ev = n.logger.Info()
	}
	ev.Str("notice", string(level)).Msg(message)
}

// WriterNotifier prints notices for a terminal user, one per line
type WriterNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterNotifier creates a notifier writing to w
func NewWriterNotifier(w io.Writer) *WriterNotifier {
	return &WriterNotifier{w: w}
}

// Notify implements providers.Notifier
func (n *WriterNotifier) Notify(level providers.Level, message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.w, "%s %s\n", prefix(level), message)
}

func prefix(level providers.Level) string {
	switch level {
	case providers.LevelSuccess:
		return "[ok]"
	case providers.LevelError:
		return "[error]"
	case providers.LevelWarning:
		return "[warn]"
	default:
		return "[info]"
	}
}

// Notice is one recorded notification
type Notice struct {
	Level   providers.Level
	Message string
}

// Recorder keeps every notice in memory
type Recorder struct {
	mu      sync.Mutex
	notices []Notice
}

// NewRecorder creates an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Notify implements providers.Notifier
func (r *Recorder) Notify(level providers.Level, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, Notice{Level: level, Message: message})
}

// Notices returns a copy of the recorded notices
func (r *Recorder) Notices() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notice, len(r.notices))
	copy(out, r.notices)
	return out
}

// Last returns the most recent notice
func (r *Recorder) Last() (Notice, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.notices) == 0 {
		return Notice{}, false
	}
	return r.notices[len(r.notices)-1], true
}

// Multi fans a notice out to several notifiers
func Multi(notifiers ...providers.Notifier) providers.Notifier {
	return providers.NotifierFunc(func(level providers.Level, message string) {
		for _, n := range notifiers {
			n.Notify(level, message)
		}
	})
}
