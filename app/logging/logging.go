// Package logging builds the service logger and its optional remote sink.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Options holds configuration for the service logger.
type Options struct {
	Level  string
	Format string
	// Sink, when set, receives a copy of every log line.
	Sink io.Writer
}

// New creates a logger writing to stderr and, if configured, to the sink.
func New(opts Options) *log.Logger {
	var w io.Writer = os.Stderr
	if opts.Sink != nil {
		w = io.MultiWriter(os.Stderr, opts.Sink)
	}
	return NewWithWriter(w, opts)
}

// NewWithWriter creates a logger on an arbitrary writer.
func NewWithWriter(w io.Writer, opts Options) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           ParseLevel(opts.Level),
		Formatter:       ParseFormatter(opts.Format),
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
	})
}

// ParseLevel parses a level name, falling back to info.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}

// ParseFormatter parses a formatter name, falling back to text.
func ParseFormatter(format string) log.Formatter {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return log.JSONFormatter
	case "logfmt":
		return log.LogfmtFormatter
	default:
		return log.TextFormatter
	}
}
