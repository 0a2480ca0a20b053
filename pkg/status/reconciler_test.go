package status

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReconciler_StartsUnknown(t *testing.T) {
	r := NewReconciler()
	assert.Equal(t, Record{State: StateUnknown}, r.Current())
}

func TestReconciler_Apply(t *testing.T) {
	r := NewReconciler()

	changed := r.Apply(Record{State: StateClosed}, true)
	assert.True(t, changed)
	assert.Equal(t, Record{State: StateClosed}, r.Current())

	changed = r.Apply(Record{State: StateClosed}, true)
	assert.False(t, changed, "same record is not a change")

	changed = r.Apply(Record{State: StateOpen, UpperLimit: true}, false)
	assert.False(t, changed)
	assert.Equal(t, Record{State: StateClosed}, r.Current(), "no-update must not touch the record")
}

func TestReconciler_ReplacesWholesale(t *testing.T) {
	r := NewReconciler()
	r.Apply(Record{State: StateOpen, UpperLimit: true, LowerLimit: true}, true)

	r.Apply(Record{State: StateClosing}, true)
	assert.Equal(t, Record{State: StateClosing}, r.Current(), "limits are not carried over")
}

func TestReconciler_NormalizesEmptyState(t *testing.T) {
	r := NewReconciler()
	r.Apply(Record{UpperLimit: true}, true)
	assert.Equal(t, StateUnknown, r.Current().State)
}

func TestReconciler_ApplyPayload_NoiseKeepsState(t *testing.T) {
	r := NewReconciler()
	_, updated, _ := r.ApplyPayload(`{"state":"closed"}`)
	require.True(t, updated)

	for _, noise := range []string{"not json", "", "Status\n", `{"state":`, "[1,2]"} {
		before := r.Current()
		cur, updated, changed := r.ApplyPayload(noise)
		assert.False(t, updated, "payload %q", noise)
		assert.False(t, changed, "payload %q", noise)
		assert.Equal(t, before, cur)
		assert.Equal(t, Record{State: StateClosed}, r.Current())
	}
}

func TestReconciler_LastWriteWins(t *testing.T) {
	r := NewReconciler()
	for _, p := range []string{
		`{"state":"opening"}`,
		`{"state":"open","upper":1}`,
		`{"state":"closing"}`,
	} {
		r.ApplyPayload(p)
	}
	assert.Equal(t, Record{State: StateClosing}, r.Current())
}

func TestReconciler_ConcurrentReaders(t *testing.T) {
	r := NewReconciler()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = r.Current()
			}
		}()
	}
	for j := 0; j < 100; j++ {
		r.ApplyPayload(`{"state":"open"}`)
		r.ApplyPayload(`{"state":"closed"}`)
	}
	wg.Wait()
	assert.Equal(t, StateClosed, r.Current().State)
}
