// Package vklog builds the slog.Handler the demonstration CLI installs as
// its default logger. The core registry package never imports it; it only
// accepts a *slog.Logger through registry.WithLogger.
package vklog

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Format selects the handler's output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

var (
	// ErrInvalidArgument indicates a level or format string wasn't
	// recognized.
	ErrInvalidArgument = errors.New("vklog: invalid argument")
	// ErrUnknownLevel indicates an unrecognized log level string.
	ErrUnknownLevel = errors.New("vklog: unknown log level")
	// ErrUnknownFormat indicates an unrecognized log format string.
	ErrUnknownFormat = errors.New("vklog: unknown log format")
)

// New builds a *slog.Logger from level and format strings, as typically
// supplied by CLI flags.
func New(w io.Writer, level, format string) (*slog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	fmtv, err := ParseFormat(format)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	return slog.New(NewHandler(w, lvl, fmtv)), nil
}

// NewHandler builds a slog.Handler for the given level and format.
func NewHandler(w io.Writer, level slog.Level, format Format) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if format == FormatJSON {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// ParseLevel parses a case-insensitive level name.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "", "info":
		return slog.LevelInfo, nil
	case "error":
		return slog.LevelError, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "debug":
		return slog.LevelDebug, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownLevel, level)
}

// ParseFormat parses a case-insensitive format name.
func ParseFormat(format string) (Format, error) {
	switch strings.ToLower(format) {
	case "", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}
