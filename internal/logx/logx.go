// Package logx prints bracket-prefixed progress lines, filtered by level.
package logx

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Level orders log lines by importance.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel maps a config value to a Level. Unknown values mean info.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger writes "[Prefix] message" lines. Copies made by With share the
// writer lock, so lines from parallel workers never interleave.
type Logger struct {
	mu     *sync.Mutex
	w      io.Writer
	level  Level
	prefix string
}

// New creates a Logger writing to w.
func New(w io.Writer, level Level) *Logger {
	return &Logger{mu: &sync.Mutex{}, w: w, level: level}
}

// Default logs info and above to stdout.
func Default() *Logger {
	return New(os.Stdout, LevelInfo)
}

// Discard drops everything.
func Discard() *Logger {
	return New(io.Discard, LevelError+1)
}

// With returns a logger that prefixes every line with "[tag]".
func (l *Logger) With(tag string) *Logger {
	cp := *l
	cp.prefix = "[" + tag + "] "
	return &cp
}

func (l *Logger) logf(level Level, label, format string, args ...any) {
	if level < l.level {
		return
	}
	msg := fmt.Sprintf(format, args...)
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.w, "%s%s%s\n", l.prefix, label, msg)
}

func (l *Logger) Debugf(format string, args ...any) { l.logf(LevelDebug, "", format, args...) }
func (l *Logger) Infof(format string, args ...any)  { l.logf(LevelInfo, "", format, args...) }
func (l *Logger) Warnf(format string, args ...any)  { l.logf(LevelWarn, "Warning: ", format, args...) }
func (l *Logger) Errorf(format string, args ...any) { l.logf(LevelError, "Error: ", format, args...) }
