package model

import (
	"fmt"
	"io"
)

// Reporter receives one line per finished expansion level.
type Reporter interface {
	Printf(format string, args ...interface{})
}

// SilentReporter drops every report. It is the default when none is set.
type SilentReporter struct{}

func (r *SilentReporter) Printf(format string, args ...interface{}) {}

// ColorReporter writes the colorized level reports to a writer, usually stderr.
type ColorReporter struct {
	Writer io.Writer
}

func (r *ColorReporter) Printf(format string, args ...interface{}) {
	fmt.Fprintf(r.Writer, format, args...)
}
