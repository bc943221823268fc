package cmd

import (
	"errors"

	"github.com/syssam/spatial/compiler/gen"
	"github.com/syssam/spatial/compiler/load"
	"github.com/syssam/spatial/compiler/schemac"
)

// Exit codes.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError = 1

	// ExitSchemaError indicates an invalid bundle or a schema the generator
	// cannot translate.
	ExitSchemaError = 2

	// ExitConfigError indicates invalid flags or project file.
	ExitConfigError = 3

	// ExitCompilerError indicates the schema compiler failed.
	ExitCompilerError = 4
)

// ExitError wraps an error with an exit code.
type ExitError struct {
	Err  error
	Code int
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the wrapped error.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given error and exit code.
func NewExitError(err error, code int) *ExitError {
	return &ExitError{Err: err, Code: code}
}

// ExitCodeFromError determines the appropriate exit code for an error.
func ExitCodeFromError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	switch {
	case errors.Is(err, load.ErrInvalidBundle),
		errors.Is(err, load.ErrUnresolvedReference),
		errors.Is(err, gen.ErrGenerationFailed):
		return ExitSchemaError
	case errors.Is(err, gen.ErrMissingConfig):
		return ExitConfigError
	case errors.Is(err, schemac.ErrCompilerFailed),
		errors.Is(err, schemac.ErrNoLibDir):
		return ExitCompilerError
	default:
		return ExitGeneralError
	}
}
