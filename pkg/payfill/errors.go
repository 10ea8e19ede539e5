package payfill

import (
	"errors"
	"fmt"
)

// ErrWorkbookNotFound indicates the input workbook does not exist.
var ErrWorkbookNotFound = errors.New("workbook not found")

// ErrInvalidWorkbook indicates the input file is not a readable xlsx workbook.
var ErrInvalidWorkbook = errors.New("invalid workbook format")

// RunError represents a fatal error during a fill run. Stage identifies the
// phase that failed: "config", "open", "template", "source", "plan",
// "rules", "commit", or "save". Failures before "commit" leave the workbook
// untouched.
type RunError struct {
	Stage string
	Err   error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("fill run failed during %s: %v", e.Stage, e.Err)
}

func (e *RunError) Unwrap() error {
	return e.Err
}

// NewRunError creates a new RunError.
func NewRunError(stage string, err error) *RunError {
	return &RunError{Stage: stage, Err: err}
}
