package report

import (
	"fmt"
	"io"
)

// TextReporter writes one file path per line.
type TextReporter struct {
	// Verbose adds a trailing summary naming the style file.
	Verbose bool
}

func (tr *TextReporter) Write(w io.Writer, l *Listing) error {
	for _, f := range l.Files {
		if _, err := fmt.Fprintln(w, f); err != nil {
			return err
		}
	}
	if !tr.Verbose {
		return nil
	}

	_, err := fmt.Fprintf(w, "\n%d files, %d invalid paths, style file: %s\n", len(l.Files), len(l.Invalid), l.StyleFile)
	return err
}
