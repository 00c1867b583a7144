// Copyright 2026 The apk-bitminer Authors.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

// Package elog is a small leveled logger: a Logger interface plus a
// level-filtering Helper.
package elog

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Level is a logging severity.
type Level int

// Severity levels, lowest to highest.
const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Logger is the minimal sink every Helper writes through.
type Logger interface {
	Log(level Level, msg string)
}

// Helper wraps a Logger with level filtering and printf-style formatting.
type Helper struct {
	logger Logger
	min    Level
}

// NewHelper returns a Helper that drops anything below min.
func NewHelper(logger Logger, min Level) *Helper {
	return &Helper{logger: logger, min: min}
}

// NewDefault returns a Helper writing to stderr, filtered at LevelWarn —
// the fallback used when no custom *Options.Logger is supplied.
func NewDefault() *Helper {
	return NewHelper(NewStdLogger(os.Stderr), LevelWarn)
}

func (h *Helper) log(level Level, format string, args ...interface{}) {
	if h == nil || h.logger == nil || level < h.min {
		return
	}
	h.logger.Log(level, fmt.Sprintf(format, args...))
}

// Debugf logs at LevelDebug.
func (h *Helper) Debugf(format string, args ...interface{}) { h.log(LevelDebug, format, args...) }

// Infof logs at LevelInfo.
func (h *Helper) Infof(format string, args ...interface{}) { h.log(LevelInfo, format, args...) }

// Warnf logs at LevelWarn.
func (h *Helper) Warnf(format string, args ...interface{}) { h.log(LevelWarn, format, args...) }

// Errorf logs at LevelError.
func (h *Helper) Errorf(format string, args ...interface{}) { h.log(LevelError, format, args...) }

// stdLogger writes level-prefixed lines to a growing set of io.Writers, so
// a caller can attach an extra sink (e.g. a log file) alongside
// stdout/stderr without re-wiring the Logger interface. Writers cannot be
// detached once added.
type stdLogger struct {
	mu sync.Mutex
	ws []io.Writer
}

// NewStdLogger returns a Logger broadcasting to w. Additional writers can
// be attached later with AddWriter.
func NewStdLogger(w io.Writer) *stdLogger {
	return &stdLogger{ws: []io.Writer{w}}
}

// AddWriter fans subsequent log lines out to an additional writer, e.g. a
// log file opened after construction.
func (l *stdLogger) AddWriter(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ws = append(l.ws, w)
}

func (l *stdLogger) Log(level Level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, w := range l.ws {
		fmt.Fprintf(w, "[%s] %s\n", level, msg)
	}
}

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}
