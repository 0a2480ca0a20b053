package command

import (
	"context"
	"fmt"
	"net/url"
	"sort"
)

// Control is a named door action and the endpoint that performs it.
// Target is a path resolved against the origin, or an absolute URL.
type Control struct {
	Name   string
	Target string
}

// DefaultControls mirrors the controller's web front end.
func DefaultControls() []Control {
	return []Control{
		{Name: "open", Target: "/open"},
		{Name: "close", Target: "/close"},
		{Name: "stop", Target: "/stop"},
	}
}

// ControlsFromMap builds a control list sorted by name, with the default
// actions first in their usual order.
func ControlsFromMap(m map[string]string) []Control {
	order := map[string]int{"open": 0, "close": 1, "stop": 2}
	out := make([]Control, 0, len(m))
	for name, target := range m {
		out = append(out, Control{Name: name, Target: target})
	}
	sort.Slice(out, func(i, j int) bool {
		oi, iok := order[out[i].Name]
		oj, jok := order[out[j].Name]
		switch {
		case iok && jok:
			return oi < oj
		case iok != jok:
			return iok
		default:
			return out[i].Name < out[j].Name
		}
	})
	return out
}

// Find returns the control called name.
func Find(controls []Control, name string) (Control, bool) {
	for _, c := range controls {
		if c.Name == name {
			return c, true
		}
	}
	return Control{}, false
}

// ResolveTarget turns target into an absolute URL using origin as the base.
func ResolveTarget(origin, target string) (string, error) {
	if target == "" {
		return "", fmt.Errorf("empty target")
	}
	ref, err := url.Parse(target)
	if err != nil {
		return "", fmt.Errorf("parse target %q: %w", target, err)
	}
	if ref.IsAbs() {
		return ref.String(), nil
	}
	base, err := url.Parse(origin)
	if err != nil {
		return "", fmt.Errorf("parse origin %q: %w", origin, err)
	}
	if !base.IsAbs() {
		return "", fmt.Errorf("origin %q is not an absolute URL", origin)
	}
	return base.ResolveReference(ref).String(), nil
}

// Dispatcher issues door actions.
type Dispatcher interface {
	// Dispatch starts the request for control and returns immediately.
	Dispatch(ctx context.Context, control Control)
}
