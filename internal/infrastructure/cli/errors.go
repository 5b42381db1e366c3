package cli

import (
	"errors"
	"fmt"

	"github.com/felixgeelhaar/loadline/pkg/domain/capacity"
)

// CLIError wraps domain errors with user-facing messages and actionable hints.
type CLIError struct {
	Message  string
	Hint     string
	Err      error
	ExitCode int
}

func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a CLIError with a default exit code of 1.
func NewCLIError(msg, hint string, err error) *CLIError {
	return &CLIError{
		Message:  msg,
		Hint:     hint,
		Err:      err,
		ExitCode: 1,
	}
}

// MapError converts known domain errors into CLIErrors with actionable hints.
// Unmapped errors are returned as-is.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	var upstream *capacity.UpstreamDataError
	if errors.As(err, &upstream) {
		return &CLIError{
			Message:  fmt.Sprintf("could not load capacity data (%s)", upstream.Op),
			Hint:     "Check the storage section of .loadline/config.yaml, or run 'loadline init' to create a workspace",
			Err:      err,
			ExitCode: 3,
		}
	}

	switch {
	case errors.Is(err, capacity.ErrInvalidRange):
		return &CLIError{
			Message:  "invalid forecast window",
			Hint:     "Check --start, --end and --months: dates are YYYY-MM-DD, months must be positive and the end must not precede the start",
			Err:      err,
			ExitCode: 2,
		}
	}

	return err
}
