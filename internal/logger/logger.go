// Package logger provides the leveled logger used across coffeepad.
// Three levels exist: off (no output), normal (info/warn/error), and
// verbose (adds debug). A Logger and all of its children are safe for
// concurrent use and share a single level.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

// Level controls the verbosity of the logger.
type Level int

const (
	// LevelOff disables all log output.
	LevelOff Level = iota
	// LevelNormal enables info, warn, and error output.
	LevelNormal
	// LevelVerbose enables all output including debug.
	LevelVerbose
)

func (l Level) String() string {
	switch l {
	case LevelOff:
		return "off"
	case LevelNormal:
		return "normal"
	case LevelVerbose:
		return "verbose"
	default:
		return fmt.Sprintf("level(%d)", int(l))
	}
}

// ParseLevel maps a config string to a Level. Accepted values are
// off/quiet/none, normal/info, and verbose/debug (case-insensitive).
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "quiet", "none":
		return LevelOff, nil
	case "", "normal", "info":
		return LevelNormal, nil
	case "verbose", "debug":
		return LevelVerbose, nil
	default:
		return LevelNormal, fmt.Errorf("unknown log level %q", s)
	}
}

type shared struct {
	mu    sync.RWMutex
	level Level
	out   *log.Logger
}

// Logger is a leveled logger. All methods are safe for concurrent use.
type Logger struct {
	s         *shared
	component string
}

// New creates a logger with the given level, writing to out.
// If out is nil, os.Stderr is used.
func New(level Level, out io.Writer) *Logger {
	if out == nil {
		out = os.Stderr
	}
	return &Logger{s: &shared{
		level: level,
		out:   log.New(out, "", log.Ltime),
	}}
}

// Discard returns a logger that drops everything. Handy in tests.
func Discard() *Logger {
	return New(LevelOff, io.Discard)
}

// With returns a child logger whose lines are tagged with component.
// The child shares the parent's level and output.
func (l *Logger) With(component string) *Logger {
	name := component
	if l.component != "" {
		name = l.component + "." + component
	}
	return &Logger{s: l.s, component: name}
}

// SetLevel changes the log level at runtime for this logger and every
// logger derived from the same root.
func (l *Logger) SetLevel(level Level) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	l.s.level = level
}

// GetLevel returns the current log level.
func (l *Logger) GetLevel() Level {
	l.s.mu.RLock()
	defer l.s.mu.RUnlock()
	return l.s.level
}

// Debug logs a message at debug level (only visible in verbose mode).
func (l *Logger) Debug(format string, args ...any) {
	l.emit(LevelVerbose, "DBG", format, args...)
}

// Info logs a message at info level.
func (l *Logger) Info(format string, args ...any) {
	l.emit(LevelNormal, "INF", format, args...)
}

// Warn logs a message at warn level.
func (l *Logger) Warn(format string, args ...any) {
	l.emit(LevelNormal, "WRN", format, args...)
}

// Error logs a message at error level.
func (l *Logger) Error(format string, args ...any) {
	l.emit(LevelNormal, "ERR", format, args...)
}

func (l *Logger) emit(min Level, tag, format string, args ...any) {
	if l == nil || l.s == nil {
		return
	}
	l.s.mu.RLock()
	defer l.s.mu.RUnlock()
	if l.s.level < min {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if l.component != "" {
		msg = "(" + l.component + ") " + msg
	}
	l.s.out.Output(3, "["+tag+"] "+msg)
}
