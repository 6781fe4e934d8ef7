// Package errs defines the error taxonomy shared by the simulation core.
//
// Every error is raised synchronously where the scenario is built or a value
// is computed and is wrapped around one of the sentinels below, so callers
// classify failures with errors.Is.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration reports a malformed recurrence rule or band table.
	ErrConfiguration = errors.New("configuration error")

	// ErrOutOfRange reports a balance that fits no band.
	ErrOutOfRange = errors.New("out of range")

	// ErrInvalidTerm reports a non-positive term where one is required.
	ErrInvalidTerm = errors.New("invalid term")

	// ErrInvalidOption reports an unknown minimum payment policy.
	ErrInvalidOption = errors.New("invalid option")
)

// Configurationf wraps ErrConfiguration with a formatted message.
func Configurationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, args...))
}

// OutOfRangef wraps ErrOutOfRange with a formatted message.
func OutOfRangef(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrOutOfRange, fmt.Sprintf(format, args...))
}

// InvalidTermf wraps ErrInvalidTerm with a formatted message.
func InvalidTermf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidTerm, fmt.Sprintf(format, args...))
}

// InvalidOptionf wraps ErrInvalidOption with a formatted message.
func InvalidOptionf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidOption, fmt.Sprintf(format, args...))
}
