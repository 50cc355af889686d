package main

import (
	"fmt"
	"io"
	"log/slog"
)

// Levels beyond the ones slog defines
const (
	levelTrace    = slog.LevelDebug - 4
	levelCritical = slog.LevelError + 4
	levelOff      = slog.LevelError + 8
)

var verbosity = map[string]slog.Level{
	"trace":    levelTrace,
	"debug":    slog.LevelDebug,
	"info":     slog.LevelInfo,
	"warning":  slog.LevelWarn,
	"error":    slog.LevelError,
	"critical": levelCritical,
	"off":      levelOff,
}

// parseVerbosity maps a --verbose value to a level
func parseVerbosity(s string) (slog.Level, error) {
	level, ok := verbosity[s]
	if !ok {
		return 0, fmt.Errorf("invalid verbosity %q: must be one of trace, debug, info, warning, error, critical, off", s)
	}
	return level, nil
}

// newLogger writes records at or above level to w without timestamps
func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	})).With(slog.String("tool", "acyclic"))
}
