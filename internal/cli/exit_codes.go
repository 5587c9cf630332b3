package cli

import (
	stderrors "errors"
	"fmt"

	"github.com/coglog/coglog/internal/errors"
)

// Exit codes for the coglog CLI
// These codes support programmatic composition and CI/CD integration
const (
	// ExitSuccess indicates successful command execution
	ExitSuccess = 0

	// ExitFailure indicates an unexpected runtime failure
	ExitFailure = 1

	// ExitInvalidInput indicates the commit document could not be used
	ExitInvalidInput = 2

	// ExitInvalidArguments indicates invalid command arguments
	ExitInvalidArguments = 3

	// ExitConfigurationError indicates the configuration could not be loaded
	ExitConfigurationError = 4

	// ExitRepositoryError indicates the git repository could not be read
	ExitRepositoryError = 5
)

// exitError is a custom error type that carries an exit code.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}

// NewExitError returns an error that makes the process exit with code
// without printing anything.
func NewExitError(code int) error {
	return &exitError{code: code}
}

func isExitError(err error) bool {
	var e *exitError
	return stderrors.As(err, &e)
}

// ExitCode returns the exit code from an error.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var e *exitError
	if stderrors.As(err, &e) {
		return e.code
	}

	cliErr := errors.AsCLIError(err)
	if cliErr == nil {
		return ExitFailure
	}
	switch cliErr.Category {
	case errors.Argument:
		return ExitInvalidArguments
	case errors.Input:
		return ExitInvalidInput
	case errors.Configuration:
		return ExitConfigurationError
	case errors.Repository:
		return ExitRepositoryError
	default:
		return ExitFailure
	}
}
