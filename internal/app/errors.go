package app

import "fmt"

// NoWatchRootsError is returned when watch mode has no directory to watch.
type NoWatchRootsError struct{}

func (e *NoWatchRootsError) Error() string {
	return "watch mode needs at least one directory search path"
}

// InvalidJobsError is returned for a job count below one.
type InvalidJobsError struct {
	Jobs int
}

func (e *InvalidJobsError) Error() string {
	return fmt.Sprintf("jobs must be at least 1, got %d", e.Jobs)
}
