package cli

import molterrors "github.com/arcadegarden/molt/internal/errors"

// Exit codes for the molt CLI. A molt run that completes structurally
// exits 0 even when individual generations were rejected or failed; only
// resolution, configuration, and gate failures are non-zero.
const (
	// ExitSuccess indicates successful command execution.
	ExitSuccess = 0

	// ExitGateFailed indicates a score or verification gate did not pass.
	ExitGateFailed = 1

	// ExitResolutionFailed indicates the artifact or manifest could not be
	// resolved.
	ExitResolutionFailed = 2

	// ExitInvalidArguments indicates invalid command arguments.
	ExitInvalidArguments = 3

	// ExitConfigError indicates the configuration failed to load or
	// validate.
	ExitConfigError = 4

	// ExitPersistenceError indicates archive or manifest writes failed.
	ExitPersistenceError = 5
)

// ExitCode maps a command error to its process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	cliErr := molterrors.AsCLIError(err)
	if cliErr == nil {
		return ExitGateFailed
	}
	switch cliErr.Category {
	case molterrors.Resolution:
		return ExitResolutionFailed
	case molterrors.Argument:
		return ExitInvalidArguments
	case molterrors.Configuration:
		return ExitConfigError
	case molterrors.Persistence:
		return ExitPersistenceError
	default:
		return ExitGateFailed
	}
}
