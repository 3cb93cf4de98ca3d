// Package logging builds the structured logger handed to every package.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

const prefix = "roomviz"

// New returns a logger writing to w at the given level. Unknown levels fall
// back to info.
func New(w io.Writer, level string) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		lvl = log.InfoLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:           lvl,
		Prefix:          prefix,
		ReportTimestamp: true,
	})
}

// Plain returns a logger in logfmt without timestamps, for output that is
// read back by tests or other programs.
func Plain(w io.Writer, level string) *log.Logger {
	lg := New(w, level)
	lg.SetReportTimestamp(false)
	lg.SetFormatter(log.LogfmtFormatter)
	return lg
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

// File opens path for appending and returns a logger on it. The returned
// closer must be called when the program exits.
func File(path, level string) (*log.Logger, io.Closer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return Plain(f, level), f, nil
}
