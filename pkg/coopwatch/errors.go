package coopwatch

import "github.com/bft-labs/coopwatch/internal/domain"

// Errors returned by Watcher. Check them with errors.Is.
var (
	ErrAlreadyRunning  = domain.ErrAlreadyRunning
	ErrNotRunning      = domain.ErrNotRunning
	ErrShutdownTimeout = domain.ErrShutdownTimeout
	ErrInvalidConfig   = domain.ErrInvalidConfig
	ErrUnknownControl  = domain.ErrUnknownControl
)
