// Package logging configures the process logger.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// Options selects the level and destination of the logger.
type Options struct {
	Level   string
	Verbose bool
	Quiet   bool
	Out     io.Writer
}

// New builds a logger writing to Options.Out, or stderr. Verbose wins over
// Level, Quiet wins over both.
func New(opts Options) *log.Logger {
	out := opts.Out
	if out == nil {
		out = os.Stderr
	}

	logger := log.NewWithOptions(out, log.Options{
		ReportTimestamp: false,
		Prefix:          "populate",
	})
	logger.SetLevel(ParseLevel(opts.Level))

	if opts.Verbose {
		logger.SetLevel(log.DebugLevel)
	}
	if opts.Quiet {
		logger.SetLevel(log.ErrorLevel)
	}

	return logger
}

// ParseLevel maps debug|info|warn|error to a level, defaulting to warn.
func ParseLevel(level string) log.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.WarnLevel
	}
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.New(io.Discard)
}
