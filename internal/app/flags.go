package app

import (
	"fmt"
	"strings"
)

// formatValue implements pflag.Value to provide a custom type name in help text
// and validation for output formats.
type formatValue string

func (f *formatValue) String() string {
	return string(*f)
}

func (f *formatValue) Set(v string) error {
	if v != "json" && v != "text" {
		return fmt.Errorf("must be 'text' or 'json'")
	}
	*f = formatValue(v)
	return nil
}

func (f *formatValue) Type() string {
	return "<format>"
}

// pathListValue implements pflag.Value for comma-separated path lists.
// Repeating the flag appends; blank entries are dropped.
type pathListValue []string

func (p *pathListValue) String() string {
	return strings.Join(*p, ",")
}

func (p *pathListValue) Set(v string) error {
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			*p = append(*p, part)
		}
	}
	return nil
}

func (p *pathListValue) Type() string {
	return "<paths>"
}

// pathValue implements pflag.Value to provide a custom type name in help text.
type pathValue string

func (p *pathValue) String() string {
	return string(*p)
}

func (p *pathValue) Set(v string) error {
	*p = pathValue(v)
	return nil
}

func (p *pathValue) Type() string {
	return "<path>"
}
