// Package notify delivers short user-facing messages raised by store actions.
package notify

import (
	"log/slog"
	"sync"
	"time"
)

// Level classifies a message
type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Message is one user-facing notice
type Message struct {
	Level Level     `json:"level"`
	Text  string    `json:"text"`
	At    time.Time `json:"at"`
}

// Notifier receives user-facing messages
type Notifier interface {
	Notify(level Level, text string)
}

func Success(n Notifier, text string) { n.Notify(LevelSuccess, text) }
func Info(n Notifier, text string)    { n.Notify(LevelInfo, text) }
func Warning(n Notifier, text string) { n.Notify(LevelWarning, text) }
func Error(n Notifier, text string)   { n.Notify(LevelError, text) }

// LogNotifier writes messages to a structured logger
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

func (l *LogNotifier) Notify(level Level, text string) {
	switch level {
	case LevelError:
		l.logger.Error(text, "notice", level)
	case LevelWarning:
		l.logger.Warn(text, "notice", level)
	default:
		l.logger.Info(text, "notice", level)
	}
}

// Recorder keeps the most recent messages in memory until drained
type Recorder struct {
	mu       sync.Mutex
	limit    int
	messages []Message
}

// NewRecorder keeps at most limit messages; non-positive means unbounded
func NewRecorder(limit int) *Recorder {
	return &Recorder{limit: limit}
}

func (r *Recorder) Notify(level Level, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.messages = append(r.messages, Message{Level: level, Text: text, At: time.Now()})
	if r.limit > 0 && len(r.messages) > r.limit {
		r.messages = r.messages[len(r.messages)-r.limit:]
	}
}

// Messages returns a copy without draining
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.messages...)
}

// Drain returns and forgets the pending messages
func (r *Recorder) Drain() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.messages
	r.messages = nil
	return out
}

// Last returns the most recent message
func (r *Recorder) Last() (Message, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.messages) == 0 {
		return Message{}, false
	}
	return r.messages[len(r.messages)-1], true
}

type multi []Notifier

func (m multi) Notify(level Level, text string) {
	for _, n := range m {
		n.Notify(level, text)
	}
}

// Multi fans a message out to every notifier
func Multi(notifiers ...Notifier) Notifier {
	return multi(notifiers)
}
