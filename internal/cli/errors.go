package cli

import (
	"errors"

	"github.com/piwi3910/SawPlan/internal/engine"
	"github.com/piwi3910/SawPlan/internal/model"
	"github.com/piwi3910/SawPlan/internal/project"
)

// ExitCode is the process exit status of a failed command.
type ExitCode int

const (
	ExitSuccess      ExitCode = 0
	ExitGeneralError ExitCode = 1
	ExitInvalidInput ExitCode = 2 // Bad sheet, kerf, placement or flag value
	ExitJobNotFound  ExitCode = 3 // Job file or panel ID does not exist
	ExitConfigError  ExitCode = 4
)

// CLIError carries an exit code alongside a user-facing message.
type CLIError struct {
	Code    ExitCode
	Message string
	Err     error
}

func (e *CLIError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *CLIError) Unwrap() error {
	return e.Err
}

func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}

// exitCodeFor classifies errors that were not wrapped in a CLIError.
func exitCodeFor(err error) ExitCode {
	switch {
	case errors.Is(err, model.ErrInvalidSheet),
		errors.Is(err, model.ErrInvalidKerf),
		errors.Is(err, model.ErrInvalidPlacement),
		errors.Is(err, model.ErrInvalidMode),
		errors.Is(err, engine.ErrPerPanelBatch),
		errors.Is(err, project.ErrUnsupportedFormat):
		return ExitInvalidInput
	default:
		return ExitGeneralError
	}
}
