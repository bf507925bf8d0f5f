// Package errs holds the failure kinds the bot surfaces to the dispatcher.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrProviderUnavailable is returned when an external API call fails or times out.
	ErrProviderUnavailable = errors.New("provider unavailable")
	// ErrNoActiveSession is returned for quiz operations on a user without a session.
	ErrNoActiveSession = errors.New("no active quiz session")
	// ErrInvalidOption is returned when an answer index is outside the question's options.
	ErrInvalidOption = errors.New("invalid quiz option")
	// ErrStaleAnswer is returned when an answer targets a question other than the current one.
	ErrStaleAnswer = errors.New("answer is for another question")
	// ErrMalformedCommand is returned when a command does not have the expected shape.
	ErrMalformedCommand = errors.New("malformed command")
)

// ProviderError wraps a failed call to an external provider.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s provider unavailable: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Is reports ErrProviderUnavailable as a match so callers don't need errors.As.
func (e *ProviderError) Is(target error) bool {
	return target == ErrProviderUnavailable
}

// Unavailable wraps err as a ProviderError for the named provider.
func Unavailable(provider string, err error) error {
	return &ProviderError{Provider: provider, Err: err}
}
