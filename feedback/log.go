package feedback

import (
	"fmt"
	"sync"
	"time"
)

// Level classifies an activity log entry.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelProcess Level = "process"
	LevelAI      Level = "ai"
)

var levelIcons = map[Level]string{
	LevelInfo:    "📝",
	LevelSuccess: "✅",
	LevelError:   "❌",
	LevelProcess: "⚙️",
	LevelAI:      "🤖",
}

// Icon returns the emoji shown in front of entries of this level.
func (l Level) Icon() string {
	if icon, ok := levelIcons[l]; ok {
		return icon
	}
	return "📝"
}

// Entry is a single log line with timestamp
type Entry struct {
	Timestamp time.Time `json:"timestamp"`
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
}

func (e Entry) String() string {
	return fmt.Sprintf("[%s] %s %s", e.Timestamp.Format("15:04:05"), e.Level.Icon(), e.Message)
}

// Log is the operator-facing activity log. It keeps the most recent entries only
// and is safe for use from the poller and request handlers at the same time.
type Log struct {
	mu      sync.RWMutex
	entries []Entry
	maxLogs int
	now     func() time.Time
}

// NewLog creates a log keeping at most maxLogs entries
func NewLog(maxLogs int) *Log {
	if maxLogs <= 0 {
		maxLogs = 50
	}
	return &Log{
		entries: make([]Entry, 0, maxLogs),
		maxLogs: maxLogs,
		now:     time.Now,
	}
}

// Add appends an entry, dropping the oldest once the log is full
func (l *Log) Add(level Level, format string, args ...interface{}) Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry := Entry{
		Timestamp: l.now(),
		Level:     level,
		Message:   fmt.Sprintf(format, args...),
	}
	l.entries = append(l.entries, entry)
	if len(l.entries) > l.maxLogs {
		l.entries = l.entries[len(l.entries)-l.maxLogs:]
	}
	return entry
}

func (l *Log) Info(format string, args ...interface{}) Entry {
	return l.Add(LevelInfo, format, args...)
}

func (l *Log) Success(format string, args ...interface{}) Entry {
	return l.Add(LevelSuccess, format, args...)
}

func (l *Log) Error(format string, args ...interface{}) Entry {
	return l.Add(LevelError, format, args...)
}

func (l *Log) Process(format string, args ...interface{}) Entry {
	return l.Add(LevelProcess, format, args...)
}

func (l *Log) AI(format string, args ...interface{}) Entry {
	return l.Add(LevelAI, format, args...)
}

// Entries returns a copy of the current entries, oldest first
func (l *Log) Entries() []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]Entry{}, l.entries...)
}

// Last returns up to n of the newest entries, oldest first
func (l *Log) Last(n int) []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if n <= 0 || n >= len(l.entries) {
		return append([]Entry{}, l.entries...)
	}
	return append([]Entry{}, l.entries[len(l.entries)-n:]...)
}

// Clear drops every entry
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = l.entries[:0]
}
