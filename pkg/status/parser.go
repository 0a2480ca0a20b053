package status

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
)

// frame is the wire shape of a status record. Limit flags stay raw so both
// JSON booleans and the controller's 0/1 pin levels can be accepted.
type frame struct {
	State *json.RawMessage `json:"state"`
	Upper json.RawMessage  `json:"upper"`
	Lower json.RawMessage  `json:"lower"`
}

// LastLine returns the last non-empty line of payload with trailing
// whitespace removed. It returns "" when payload has no content.
func LastLine(payload string) string {
	trimmed := strings.TrimRight(payload, " \t\r\n")
	if i := strings.LastIndexByte(trimmed, '\n'); i >= 0 {
		trimmed = trimmed[i+1:]
	}
	return strings.TrimSpace(trimmed)
}

// Parse extracts a candidate Record from a raw status payload. ok is false
// when the payload carries no usable record; Parse never panics on input.
//
// Absent limit flags default to false, an absent or unrecognized state tag
// becomes StateUnknown. A state that is not a string, or a limit flag that is
// neither a boolean nor a number, rejects the whole frame.
func Parse(payload string) (rec Record, ok bool) {
	line := LastLine(payload)
	if line == "" || line[0] != '{' {
		return Record{}, false
	}

	var f frame
	dec := json.NewDecoder(strings.NewReader(line))
	if err := dec.Decode(&f); err != nil {
		return Record{}, false
	}
	// trailing garbage after the object
	if _, err := dec.Token(); err != io.EOF {
		return Record{}, false
	}

	rec.State = StateUnknown
	if f.State != nil && !isNull(*f.State) {
		var tag string
		if err := json.Unmarshal(*f.State, &tag); err != nil {
			return Record{}, false
		}
		rec.State = ParseState(tag)
	}

	if rec.UpperLimit, ok = parseFlag(f.Upper); !ok {
		return Record{}, false
	}
	if rec.LowerLimit, ok = parseFlag(f.Lower); !ok {
		return Record{}, false
	}
	return rec, true
}

// parseFlag accepts a JSON boolean or number (non-zero is true). Absent and
// null decode as false.
func parseFlag(raw json.RawMessage) (bool, bool) {
	if len(raw) == 0 || isNull(raw) {
		return false, true
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b, true
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n != 0, true
	}
	return false, false
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
