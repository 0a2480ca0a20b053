// Package view maps a door status record onto a display surface.
//
// A surface has two regions: a status text region and an indicator region
// holding a set of additive classes. The indicator region is cleared before
// every render, so rendering the same record twice leaves the surface in the
// same state.
//
// Class names are the state tag itself ("open", "closing", ...) plus "upper"
// and "lower" for active limit switches. The status text region receives the
// record's serialized form as a debugging fallback, or a placeholder message
// while no data is available.
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
package view
