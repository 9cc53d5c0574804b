package formatter

import "fmt"

type ToolNotInstalledError struct {
	Tool    string
	Wrapped error
}

func (e *ToolNotInstalledError) Error() string {
	return fmt.Sprintf("%s is not installed or not on PATH", e.Tool)
}

func (e *ToolNotInstalledError) Unwrap() error {
	return e.Wrapped
}

type FormatterFailedError struct {
	Tool    string
	Files   int
	Check   bool
	Wrapped error
}

func (e *FormatterFailedError) Error() string {
	if e.Check {
		return fmt.Sprintf("%s reported files needing formatting among %d checked: %v", e.Tool, e.Files, e.Wrapped)
	}
	return fmt.Sprintf("%s failed formatting %d files: %v", e.Tool, e.Files, e.Wrapped)
}

func (e *FormatterFailedError) Unwrap() error {
	return e.Wrapped
}
