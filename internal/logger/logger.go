// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logger provides leveled diagnostic logging for bloggpt on top of
// charmbracelet/log. Lines read "[LEVEL] message"; the level tag is colored
// when the writer is a color terminal. A nil *Logger discards everything, so
// components accept one without checking.
package logger

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// Level orders log severities. Messages below the logger's level are dropped.
type Level = log.Level

const (
	LevelDebug = log.DebugLevel
	LevelInfo  = log.InfoLevel
	LevelWarn  = log.WarnLevel
	LevelError = log.ErrorLevel
)

// ParseLevel converts a LOG_LEVEL value (case-insensitive) to a Level.
// The empty string maps to LevelInfo.
func ParseLevel(s string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "INFO":
		return LevelInfo, nil
	case "DEBUG":
		return LevelDebug, nil
	case "WARN", "WARNING":
		return LevelWarn, nil
	case "ERROR":
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

func styles() *log.Styles {
	st := log.DefaultStyles()
	tag := func(level Level, color string) lipgloss.Style {
		return lipgloss.NewStyle().
			SetString("[" + strings.ToUpper(level.String()) + "]").
			Bold(true).
			Foreground(lipgloss.Color(color))
	}
	st.Levels = map[Level]lipgloss.Style{
		LevelDebug: tag(LevelDebug, "8"),
		LevelInfo:  tag(LevelInfo, "12"),
		LevelWarn:  tag(LevelWarn, "11"),
		LevelError: tag(LevelError, "9"),
	}
	return st
}

// Logger writes leveled messages to a writer. It is safe for concurrent use.
type Logger struct {
	l *log.Logger
}

// New returns a Logger writing at or above level. A nil w yields a nil
// Logger.
func New(w io.Writer, level Level) *Logger {
	if w == nil {
		return nil
	}
	l := log.NewWithOptions(w, log.Options{Level: level})
	l.SetStyles(styles())
	return &Logger{l: l}
}

// Enabled reports whether messages at level would be written.
func (l *Logger) Enabled(level Level) bool {
	return l != nil && level >= l.l.GetLevel()
}

func (l *Logger) Debug(format string, args ...any) {
	if l.Enabled(LevelDebug) {
		l.l.Debugf(format, args...)
	}
}

func (l *Logger) Info(format string, args ...any) {
	if l.Enabled(LevelInfo) {
		l.l.Infof(format, args...)
	}
}

func (l *Logger) Warn(format string, args ...any) {
	if l.Enabled(LevelWarn) {
		l.l.Warnf(format, args...)
	}
}

func (l *Logger) Error(format string, args ...any) {
	if l.Enabled(LevelError) {
		l.l.Errorf(format, args...)
	}
}
