package utils

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Level orders log severities; messages below the logger's level are dropped.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel maps "debug", "info", "warn" and "error" to a Level. Unknown
// names resolve to LevelInfo.
func ParseLevel(name string) Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
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

// Logger provides structured, leveled logging throughout the application.
type Logger struct {
	mu    *sync.Mutex
	out   io.Writer
	err   io.Writer
	level Level
	tag   string
}

// NewLogger creates a new Logger writing to stdout/stderr.
func NewLogger() *Logger {
	return NewLoggerTo(os.Stdout, os.Stderr, LevelInfo)
}

// NewLoggerTo creates a Logger writing info/debug/warn lines to out and
// errors to errOut.
func NewLoggerTo(out, errOut io.Writer, level Level) *Logger {
	return &Logger{mu: &sync.Mutex{}, out: out, err: errOut, level: level}
}

// With returns a logger that prefixes every message with [component].
func (l *Logger) With(component string) *Logger {
	child := *l
	child.tag = "[" + component + "] "
	return &child
}

// SetLevel changes the minimum level for this logger and every logger
// derived from it afterwards.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// Writer exposes the info stream, e.g. for gin's request logger.
func (l *Logger) Writer() io.Writer {
	return l.out
}

func (l *Logger) timestamp() string {
	return time.Now().Format("2006-01-02 15:04:05")
}

func (l *Logger) write(level Level, w io.Writer, label, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if level < l.level {
		return
	}
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintf(w, "[%s] %s %s%s\n", l.timestamp(), label, l.tag, msg)
}

func (l *Logger) Info(format string, args ...any) {
	l.write(LevelInfo, l.out, "\033[32mINFO\033[0m ", format, args...)
}

func (l *Logger) Warn(format string, args ...any) {
	l.write(LevelWarn, l.out, "\033[33mWARN\033[0m ", format, args...)
}

func (l *Logger) Error(format string, args ...any) {
	l.write(LevelError, l.err, "\033[31mERROR\033[0m", format, args...)
}

func (l *Logger) Debug(format string, args ...any) {
	l.write(LevelDebug, l.out, "\033[36mDEBUG\033[0m", format, args...)
}
