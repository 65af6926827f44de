package backend

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a looked-up row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrNotConnected is returned by the demo variant for anything that needs a real backend.
	ErrNotConnected = errors.New("not connected to a backend")
	// ErrUnsupported is returned for operations the variant does not offer.
	ErrUnsupported = errors.New("operation not supported in this mode")
	// ErrNoSession is returned for missing, expired, revoked or forged session tokens.
	ErrNoSession = errors.New("no valid session")
)

// ProviderError wraps any failure reported by the auth provider, the row
// store or object storage. Its message is the provider's message.
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string {
	if e.Err == nil {
		return e.Op + ": provider error"
	}
	return e.Err.Error()
}

func (e *ProviderError) Unwrap() error { return e.Err }

// Wrap returns err as a *ProviderError tagged with op. Nil stays nil and
// errors that already are provider errors are returned unchanged.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		return err
	}
	return &ProviderError{Op: op, Err: err}
}

// IsProviderError reports whether err carries a *ProviderError.
func IsProviderError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}

// Describe is a log-friendly form including the operation.
func (e *ProviderError) Describe() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}
