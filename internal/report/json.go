package report

import (
	"encoding/json"
	"io"
)

// JSONReporter writes the listing as a single JSON object.
type JSONReporter struct{}

type jsonOutput struct {
	StyleFile string   `json:"styleFile"`
	Files     []string `json:"files"`
	Invalid   []string `json:"invalid"`
}

func (jr *JSONReporter) Write(w io.Writer, l *Listing) error {
	out := jsonOutput{
		StyleFile: l.StyleFile,
		Files:     l.Files,
		Invalid:   l.Invalid,
	}
	// Emit [] rather than null.
	if out.Files == nil {
		out.Files = []string{}
	}
	if out.Invalid == nil {
		out.Invalid = []string{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
