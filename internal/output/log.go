// Package output builds the loggers the CLI and API client write
// diagnostics to.
package output

import (
	"io"

	"github.com/charmbracelet/log"
)

// NewLogger returns a logger writing human-readable lines to w. Debug
// turns on debug-level output and timestamps; the default level is warn so
// normal runs only surface problems.
func NewLogger(w io.Writer, debug bool) *log.Logger {
	level := log.WarnLevel
	if debug {
		level = log.DebugLevel
	}

	return log.NewWithOptions(w, log.Options{
		Level:           level,
		ReportTimestamp: debug,
	})
}
