// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Input errors.
	ErrUsage        = errors.New("usage error")
	ErrInputMissing = errors.New("input file missing")
	ErrInputInvalid = errors.New("input file invalid")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// InputError is a caller-supplied file that could not be used. Message is
// shown verbatim; Kind is ErrInputMissing or ErrInputInvalid.
type InputError struct {
	Kind    error
	Err     error
	Message string
}

func (e *InputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *InputError) Unwrap() []error {
	errs := make([]error, 0, 2)
	for _, err := range []error{e.Kind, e.Err} {
		if err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

// NewInputError creates an InputError of the given kind.
func NewInputError(kind error, message string, err error) error {
	return &InputError{Kind: kind, Message: message, Err: err}
}

// InputKind returns the kind of the InputError in err's chain, or
// ErrInputInvalid when there is none.
func InputKind(err error) error {
	var inputErr *InputError
	if errors.As(err, &inputErr) && inputErr.Kind != nil {
		return inputErr.Kind
	}
	return ErrInputInvalid
}

// ExitError asks the command runner to exit with Code. The command has
// already written its output.
type ExitError struct {
	Err  error
	Code int
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode returns the process exit code for err: 0 for nil, the requested
// code for an *ExitError and 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}
