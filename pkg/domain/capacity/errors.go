package capacity

import (
	"errors"
	"fmt"
)

// Domain errors for forecast queries.
var (
	// ErrInvalidRange indicates the requested period cannot be forecast.
	ErrInvalidRange = errors.New("invalid forecast range")

	// ErrUpstreamData indicates the data provider failed to return records.
	ErrUpstreamData = errors.New("upstream data unavailable")
)

// InvalidRangeError describes a rejected date range or month count.
type InvalidRangeError struct {
	Start  Date
	End    Date
	Months int
	Reason string
}

func (e *InvalidRangeError) Error() string {
	switch {
	case !e.Start.IsZero() && !e.End.IsZero():
		return fmt.Sprintf("invalid range %s..%s: %s", e.Start, e.End, e.Reason)
	case e.Months != 0:
		return fmt.Sprintf("invalid month count %d: %s", e.Months, e.Reason)
	default:
		return "invalid range: " + e.Reason
	}
}

// Is allows errors.Is to match ErrInvalidRange.
func (e *InvalidRangeError) Is(target error) bool {
	return target == ErrInvalidRange
}

// UpstreamDataError wraps a failure of one data-provider call.
type UpstreamDataError struct {
	Op  string
	Err error
}

func (e *UpstreamDataError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamDataError) Unwrap() error {
	return e.Err
}

// Is allows errors.Is to match ErrUpstreamData.
func (e *UpstreamDataError) Is(target error) bool {
	return target == ErrUpstreamData
}
