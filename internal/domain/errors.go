package domain

import "errors"

// Domain errors are returned by the public API and can be checked with errors.Is.
var (
	// ErrAlreadyRunning is returned when Start() is called on a running instance.
	ErrAlreadyRunning = errors.New("coopwatch: already running")

	// ErrNotRunning is returned when Stop() is called on a stopped instance.
	ErrNotRunning = errors.New("coopwatch: not running")

	// ErrShutdownTimeout is returned when graceful shutdown times out.
	ErrShutdownTimeout = errors.New("coopwatch: shutdown timeout")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("coopwatch: invalid configuration")

	// ErrUnknownControl is returned when a control name is not configured.
	ErrUnknownControl = errors.New("coopwatch: unknown control")

	// ErrInvalidTransition is returned for a connection state change that
	// the channel cannot make.
	ErrInvalidTransition = errors.New("coopwatch: invalid connection transition")
)
