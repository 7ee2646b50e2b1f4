package search

import (
	"errors"
	"fmt"
	"time"
)

// ErrTimeout matches every TimeoutError.
var ErrTimeout = errors.New("timeout")

// TimeoutError reports a provider that did not answer before its deadline.
type TimeoutError struct {
	After time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("timeout after %s", e.After)
}

func (e *TimeoutError) Is(target error) bool {
	return target == ErrTimeout
}

// ValidationError rejects a search before any provider is contacted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}
