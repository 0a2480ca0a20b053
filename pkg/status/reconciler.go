package status

import "sync"

// Reconciler owns the current Record. Apply is meant to be called from a
// single goroutine; Current may be called from anywhere.
type Reconciler struct {
	mu      sync.RWMutex
	current Record
}

// NewReconciler starts from Initial().
func NewReconciler() *Reconciler {
	return &Reconciler{current: Initial()}
}

// Current returns a copy of the current record.
func (r *Reconciler) Current() Record {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// Apply replaces the current record with candidate when ok is true and
// reports whether the record changed. When ok is false nothing happens.
func (r *Reconciler) Apply(candidate Record, ok bool) (changed bool) {
	if !ok {
		return false
	}
	candidate = candidate.Normalize()

	r.mu.Lock()
	defer r.mu.Unlock()
	changed = r.current != candidate
	r.current = candidate
	return changed
}

// ApplyPayload parses payload and applies the result. It returns the
// resulting current record, whether a valid frame was found and whether the
// record changed.
func (r *Reconciler) ApplyPayload(payload string) (current Record, updated, changed bool) {
	candidate, ok := Parse(payload)
	changed = r.Apply(candidate, ok)
	return r.Current(), ok, changed
}
