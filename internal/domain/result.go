package domain

import (
	"fmt"
	"strings"
	"time"
)

// LogLevel classifies a trace entry
type LogLevel string

const (
	LevelInfo    LogLevel = "INFO"
	LevelWarning LogLevel = "WARNING"
	LevelError   LogLevel = "ERROR"
	LevelSuccess LogLevel = "SUCCESS"
)

// LogEntry is one line of the resolution trace
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Level     LogLevel  `json:"level"`
	Text      string    `json:"text"`
}

func (e LogEntry) String() string {
	return fmt.Sprintf("[%s] [%s] %s", e.Timestamp.Format("2006-01-02 15:04:05"), e.Level, e.Text)
}

// Trace is the append-only ordered log accumulated during one resolution.
// Entries are never truncated or reordered once appended.
type Trace struct {
	entries []LogEntry
}

// Append adds a formatted entry at the given level.
func (t *Trace) Append(level LogLevel, format string, args ...interface{}) {
	t.entries = append(t.entries, LogEntry{
		Timestamp: time.Now(),
		Level:     level,
		Text:      fmt.Sprintf(format, args...),
	})
}

func (t *Trace) Infof(format string, args ...interface{}) { t.Append(LevelInfo, format, args...) }

func (t *Trace) Warnf(format string, args ...interface{}) { t.Append(LevelWarning, format, args...) }

func (t *Trace) Errorf(format string, args ...interface{}) { t.Append(LevelError, format, args...) }

func (t *Trace) Successf(format string, args ...interface{}) {
	t.Append(LevelSuccess, format, args...)
}

// Entries returns the accumulated entries in append order.
func (t *Trace) Entries() []LogEntry {
	return t.entries
}

// Lines renders each entry as a formatted human-readable line.
func (t *Trace) Lines() []string {
	lines := make([]string, 0, len(t.entries))
	for _, e := range t.entries {
		lines = append(lines, e.String())
	}
	return lines
}

// Text joins all formatted lines into a single block.
func (t *Trace) Text() string {
	return strings.Join(t.Lines(), "\n")
}

// NotificationOutcome reports whether a notification was delivered.
// A failed notification never invalidates a successful check.
type NotificationOutcome struct {
	Sent   bool   `json:"sent"`
	Detail string `json:"detail"`
}

// CheckResult is the outcome of one availability resolution. One instance
// per invocation; returned to the caller, never persisted.
type CheckResult struct {
	Success      bool
	Snapshot     *ProductSnapshot
	Method       string
	Err          error
	Trace        *Trace
	Notification *NotificationOutcome
	CheckedAt    time.Time
}

// InStock reports whether the resolution found the product in stock.
func (r *CheckResult) InStock() bool {
	return r.Snapshot != nil && r.Snapshot.InStock()
}
