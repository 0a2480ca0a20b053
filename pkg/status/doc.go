// Package status models the door's last-known state and turns the loosely
// framed text pushed by the door controller into that model.
//
// # Framing contract
//
// The controller prefixes every status record with informational lines, for
// example:
//
//	Status
//	{"state":"open","upper":1,"lower":0}
//
// [Parse] treats the payload as a log-prefixed record: only the last
// non-empty line is a candidate frame, everything before it is discarded. A
// candidate that is not a JSON object yields ok == false ("no update") and the
// caller keeps its last known state.
//
// # Reconciliation
//
// A [Reconciler] owns the current [Record]. Applying a parsed candidate
// replaces the record wholesale; arrival order is trusted because the
// transport carries no sequence numbers.
//
// # Version
//
// Current version: 1.0.0
// Minimum compatible version: 1.0.0
package status
