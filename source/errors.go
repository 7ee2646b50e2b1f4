package source

import (
	"errors"
	"fmt"
)

// TransportError means the provider could not be reached or answered with an unusable response.
type TransportError struct {
	Source string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport: %v", e.Source, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ProviderError means the provider answered but reported a failure of its own.
type ProviderError struct {
	Source  string
	Message string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %s", e.Source, e.Message)
}

// Transport wraps err as a TransportError unless it already is one.
func Transport(id string, err error) error {
	if err == nil {
		return nil
	}

	var te *TransportError
	if errors.As(err, &te) {
		return err
	}

	return &TransportError{Source: id, Err: err}
}

// Providerf builds a ProviderError.
func Providerf(id, format string, args ...any) error {
	return &ProviderError{Source: id, Message: fmt.Sprintf(format, args...)}
}
