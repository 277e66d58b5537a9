package garch

import (
	"errors"
	"fmt"
)

// Causes carried by ModelFitError, usable with errors.Is.
var (
	ErrTooFewObservations = errors.New("too few observations")
	ErrDegenerateInput    = errors.New("degenerate return series")
	ErrNoConvergence      = errors.New("optimizer did not converge")
	ErrInvalidForecast    = errors.New("invalid variance forecast")
)

// ModelFitError reports that a GARCH model could not be estimated or that the
// estimate produced an unusable forecast.
type ModelFitError struct {
	Cause        error
	Observations int
	Detail       string
}

func (e *ModelFitError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("model fit error (%d observations): %v", e.Observations, e.Cause)
	}
	return fmt.Sprintf("model fit error (%d observations): %v: %s", e.Observations, e.Cause, e.Detail)
}

func (e *ModelFitError) Unwrap() error { return e.Cause }

func fitError(cause error, n int, format string, args ...any) *ModelFitError {
	return &ModelFitError{Cause: cause, Observations: n, Detail: fmt.Sprintf(format, args...)}
}
