// Package report writes the result of a --list run.
package report

import (
	"fmt"
	"io"
)

// Listing is what a run would hand to the formatter.
type Listing struct {
	StyleFile string
	Files     []string
	Invalid   []string
}

// Reporter writes a Listing in a particular format.
type Reporter interface {
	Write(w io.Writer, l *Listing) error
}

// New returns the reporter for format, which must be "text" or "json".
func New(format string, verbose bool) (Reporter, error) {
	switch format {
	case "", "text":
		return &TextReporter{Verbose: verbose}, nil
	case "json":
		return &JSONReporter{}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}
