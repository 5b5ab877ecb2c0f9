// Copyright (c) 2025 Seedfast
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	perrors "portal/cli/internal/errors"
)

// Format selects the slog handler.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Options configures a Logger.
type Options struct {
	// Level is one of debug, info, warn, error. Unknown values mean info.
	Level  string
	Format Format
	// Output defaults to os.Stderr so diagnostics never mix with command output.
	Output io.Writer
}

// Logger is a thin structured logger over slog. Every string attribute is
// passed through Mask before it reaches the handler.
type Logger struct {
	slog *slog.Logger
}

// New creates a Logger from opts.
func New(opts Options) *Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	hopts := &slog.HandlerOptions{
		Level:       ParseLevel(opts.Level),
		ReplaceAttr: maskAttr,
	}

	var handler slog.Handler
	switch opts.Format {
	case FormatJSON:
		handler = slog.NewJSONHandler(out, hopts)
	default:
		handler = slog.NewTextHandler(out, hopts)
	}
	return &Logger{slog: slog.New(handler)}
}

// Discard returns a Logger that drops everything. Used in tests.
func Discard() *Logger {
	return &Logger{slog: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// ParseLevel maps a config string to a slog level.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// With returns a Logger that adds args to every entry.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{slog: l.slog.With(args...)}
}

// WithError attaches err and, for typed errors, its kind.
func (l *Logger) WithError(err error) *Logger {
	if err == nil {
		return l
	}
	if kind := perrors.KindOf(err); kind != "" {
		return l.With("error", err.Error(), "error_kind", string(kind))
	}
	return l.With("error", err.Error())
}

func (l *Logger) Debug(msg string, args ...any) { l.slog.Debug(msg, args...) }
func (l *Logger) Info(msg string, args ...any)  { l.slog.Info(msg, args...) }
func (l *Logger) Warn(msg string, args ...any)  { l.slog.Warn(msg, args...) }
func (l *Logger) Error(msg string, args ...any) { l.slog.Error(msg, args...) }

func maskAttr(_ []string, a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindString {
		a.Value = slog.StringValue(Mask(a.Value.String()))
	}
	return a
}
