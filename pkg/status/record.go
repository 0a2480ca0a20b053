package status

import (
	"encoding/json"
	"strings"
)

// State is the door's primary position tag.
type State string

const (
	StateOpening State = "opening"
	StateClosing State = "closing"
	StateOpen    State = "open"
	StateClosed  State = "closed"
	StateUnknown State = "unknown"
)

// States lists every valid tag in display order.
var States = []State{StateOpening, StateClosing, StateOpen, StateClosed, StateUnknown}

// ParseState normalizes a reported tag. Anything outside the known set,
// including the controller's stopped/error/dead states, becomes StateUnknown.
func ParseState(s string) State {
	switch State(strings.ToLower(strings.TrimSpace(s))) {
	case StateOpening:
		return StateOpening
	case StateClosing:
		return StateClosing
	case StateOpen:
		return StateOpen
	case StateClosed:
		return StateClosed
	default:
		return StateUnknown
	}
}

// String returns the tag.
func (s State) String() string {
	if s == "" {
		return string(StateUnknown)
	}
	return string(s)
}

// Record is the door's last-known state.
type Record struct {
	State      State `json:"state"`
	UpperLimit bool  `json:"upper"`
	LowerLimit bool  `json:"lower"`
}

// Initial returns the record a client starts with.
func Initial() Record {
	return Record{State: StateUnknown}
}

// Normalize guarantees State is never empty or out of range.
func (r Record) Normalize() Record {
	r.State = ParseState(string(r.State))
	return r
}

// String returns the serialized form used as the raw textual fallback.
func (r Record) String() string {
	b, err := json.Marshal(r.Normalize())
	if err != nil {
		return `{"state":"unknown","upper":false,"lower":false}`
	}
	return string(b)
}
