package cli

import (
	"errors"
	"io/fs"

	"github.com/yaklabco/mdlive/pkg/config"
)

// Exit codes for mdlive.
const (
	// ExitSuccess indicates successful execution.
	ExitSuccess = 0

	// ExitFailure indicates a generic command failure.
	ExitFailure = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

// ExitCode maps a command error to a process exit code.
func ExitCode(err error) int {
	var validation *config.ValidationError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.As(err, &validation):
		return ExitConfigError
	case errors.Is(err, ErrInvalidLineRange):
		return ExitInvalidUsage
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, fs.ErrPermission):
		return ExitIOError
	default:
		return ExitFailure
	}
}
