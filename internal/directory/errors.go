package directory

import (
	"errors"
	"fmt"
)

// ErrLookupFailed matches every *LookupFailedError through errors.Is.
var ErrLookupFailed = errors.New("station lookup failed")

// LookupFailedError reports that the station directory was unreachable or
// returned data that could not be parsed.
type LookupFailedError struct {
	Op         string
	Query      string
	StatusCode int
	Err        error
}

func (e *LookupFailedError) Error() string {
	msg := fmt.Sprintf("station lookup failed: %s %q", e.Op, e.Query)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s: status %d", msg, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *LookupFailedError) Unwrap() error {
	return e.Err
}

func (e *LookupFailedError) Is(target error) bool {
	return target == ErrLookupFailed
}

// NewLookupFailedError creates a new lookup error
func NewLookupFailedError(op, query string, err error) *LookupFailedError {
	return &LookupFailedError{
		Op:    op,
		Query: query,
		Err:   err,
	}
}
