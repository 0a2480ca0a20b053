package app

import (
	"context"
	"testing"
	"time"
)

func TestBackoff_NextDoublesAndCaps(t *testing.T) {
	b := newBackoff(100*time.Millisecond, 350*time.Millisecond)

	bases := []time.Duration{100, 200, 350, 350}
	for i, base := range bases {
		base *= time.Millisecond
		lo := time.Duration(float64(base) * 0.8)
		hi := time.Duration(float64(base) * 1.2)
		if d := b.Next(); d < lo || d > hi {
			t.Errorf("attempt %d: delay %v outside [%v, %v]", i, d, lo, hi)
		}
	}

	b.Reset()
	if b.Current() != 100*time.Millisecond {
		t.Errorf("Current() after Reset = %v, want 100ms", b.Current())
	}
}

func TestBackoff_Defaults(t *testing.T) {
	b := newBackoff(0, 0)
	if b.Current() != DefaultBackoffInitial {
		t.Errorf("Current() = %v, want %v", b.Current(), DefaultBackoffInitial)
	}
	if b.max != DefaultBackoffInitial {
		t.Errorf("max = %v, want clamped to initial", b.max)
	}
}

func TestBackoff_WaitHonoursContext(t *testing.T) {
	b := newBackoff(time.Hour, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	if err := b.Wait(ctx); err != context.Canceled {
		t.Errorf("Wait() = %v, want context.Canceled", err)
	}
	if time.Since(start) > time.Second {
		t.Error("Wait() ignored cancellation")
	}
}
