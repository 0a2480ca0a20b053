// Package domain contains the core types shared by the application layer:
// the status channel's connection phases and the sentinel errors returned
// through the public API.
//
// This package has no dependencies on infrastructure concerns.
package domain
