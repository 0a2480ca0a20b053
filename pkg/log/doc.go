// Package log is the structured logging abstraction used across coopwatch.
//
// Components log through the [Logger] interface so the status client, the
// command dispatcher and the terminal UI never depend on a concrete logging
// library. A zerolog-backed implementation is provided, together with a
// no-op logger that embedding applications and tests can use.
//
// # Usage
//
// Console output (plain mode):
//
//	logger := log.NewConsoleLogger(os.Stderr, log.ParseLevel("debug"))
//
// File output (the terminal UI owns stdout/stderr):
//
//	logger, closeFn, err := log.NewFileLogger(log.DefaultLogPath(), zerolog.InfoLevel)
//	if err != nil {
//	    return err
//	}
//	defer closeFn()
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
package log
