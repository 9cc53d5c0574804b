package sources

import "fmt"

type InvalidCompileDatabaseError struct {
	Path   string
	Reason string
}

func (e *InvalidCompileDatabaseError) Error() string {
	return fmt.Sprintf("compile database %s is invalid: %s", e.Path, e.Reason)
}

type InvalidPatternError struct {
	Pattern string
}

func (e *InvalidPatternError) Error() string {
	return fmt.Sprintf("exclude pattern '%s' is not a valid glob", e.Pattern)
}

type InvalidIgnoreFileError struct {
	Path    string
	Wrapped error
}

func (e *InvalidIgnoreFileError) Error() string {
	return fmt.Sprintf("could not read ignore file %s: %v", e.Path, e.Wrapped)
}

func (e *InvalidIgnoreFileError) Unwrap() error {
	return e.Wrapped
}
