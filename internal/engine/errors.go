package engine

import "errors"

var (
	// ErrValidation indicates a validation failure.
	ErrValidation = errors.New("validation failed")

	// ErrDaemonUnavailable indicates the daemon could not be reached.
	ErrDaemonUnavailable = errors.New("side is not running")

	// ErrNoWorkspace indicates the project has no workspace on the daemon.
	ErrNoWorkspace = errors.New("no workspace set up for this project")
)
