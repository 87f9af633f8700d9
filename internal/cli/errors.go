package cli

import (
	"errors"
	"fmt"
	"io"
)

// PreflightError is a user-facing failure with a hint on how to proceed.
type PreflightError struct {
	Message  string
	Hint     string
	NextStep string
	Err      error
}

func (e *PreflightError) Error() string {
	return e.Message
}

func (e *PreflightError) Unwrap() error {
	return e.Err
}

func printError(out io.Writer, err error) {
	fmt.Fprintf(out, "Error: %v\n", err)

	var preflight *PreflightError
	if !errors.As(err, &preflight) {
		return
	}
	if preflight.Hint != "" {
		fmt.Fprintf(out, "Hint: %s\n", preflight.Hint)
	}
	if preflight.NextStep != "" {
		fmt.Fprintf(out, "Next: %s\n", preflight.NextStep)
	}
}
