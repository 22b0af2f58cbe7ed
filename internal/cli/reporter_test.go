package cli

import (
	"errors"
	"testing"
)

func TestReporterCallbackTicksWithoutCancellation(t *testing.T) {
	cancelRequested = false
	r := NewReporter(true)
	cb := r.Callback()
	for i := 0; i < 3; i++ {
		if err := cb(nil); err != nil {
			t.Fatalf("unexpected error from callback: %v", err)
		}
	}
	if r.seen != 3 {
		t.Fatalf("expected 3 ticks, got %d", r.seen)
	}
}

func TestReporterCallbackHonorsCancellation(t *testing.T) {
	cancelRequested = true
	defer func() { cancelRequested = false }()

	r := NewReporter(true)
	cb := r.Callback()
	err := cb(nil)
	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
}
