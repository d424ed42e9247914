// SPDX-License-Identifier: GPL-2.0-or-later

// Package conlog builds the loggers used by the tools. Nothing in here is
// global, loggers are handed to whoever needs one.
package conlog

import (
	"io"
	"log/slog"
	"strings"

	"github.com/lmittmann/tint"
	"github.com/pkg/errors"
)

func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, errors.Errorf("unknown log level %q", s)
}

// New returns a logger writing to w. format is either "text" for colored
// human readable output or "json".
func New(w io.Writer, level, format string) (*slog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: lvl,
		})
	case "", "text":
		handler = tint.NewHandler(w, &tint.Options{
			Level: lvl,
		})
	default:
		return nil, errors.Errorf("unknown log format %q", format)
	}
	return slog.New(handler), nil
}

// Discard returns a logger dropping everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
