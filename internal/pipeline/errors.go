package pipeline

import "fmt"

// InsufficientDataError means the windowed return series is too short to fit
// a model. The run stops before fitting.
type InsufficientDataError struct {
	Available  int
	Required   int
	WindowDays int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("not enough data to fit GARCH model: %d valid returns in a %d-day window, need at least %d; supply more history or increase the window",
		e.Available, e.WindowDays, e.Required)
}
