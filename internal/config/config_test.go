package config

import "testing"

func TestNewDefaults(t *testing.T) {
	c := New()
	if c.MemLow != MemNormal || c.MemHigh != MemNormal {
		t.Fatalf("expected default memory bounds MemNormal, got %d/%d", c.MemLow, c.MemHigh)
	}
	if c.Iterations != 1 || c.ThreadCount != 1 {
		t.Fatalf("expected iterations=1 thread_count=1, got %d/%d", c.Iterations, c.ThreadCount)
	}
}

func TestSetModeMutualExclusion(t *testing.T) {
	c := New()
	if err := c.SetMode(ModeEncrypt); err != nil {
		t.Fatalf("first SetMode failed: %v", err)
	}
	if err := c.SetMode(ModeDecrypt); err == nil {
		t.Fatalf("expected error on second SetMode call")
	}
}

func TestTouchupClampsBatchSize(t *testing.T) {
	c := New()
	c.ThreadCount = 4
	c.ThreadBatchSize = 0
	c.Touchup()
	if c.ThreadBatchSize != 4 {
		t.Fatalf("expected batch size clamped to thread_count=4, got %d", c.ThreadBatchSize)
	}

	c.ThreadBatchSize = 100
	c.Touchup()
	if c.ThreadBatchSize != 4 {
		t.Fatalf("expected oversized batch size clamped to thread_count=4, got %d", c.ThreadBatchSize)
	}
}

func TestHighLowMemoryAdjustment(t *testing.T) {
	c := New()
	c.MemLow, c.MemHigh = 10, 10
	c.SetHighMemory(20)
	if c.MemLow != 20 {
		t.Fatalf("expected mem_low raised to match mem_high=20, got %d", c.MemLow)
	}

	c.MemLow, c.MemHigh = 20, 20
	c.SetLowMemory(10)
	if c.MemHigh != 20 {
		t.Fatalf("mem_high must never be lowered by SetLowMemory, got %d", c.MemHigh)
	}
	if c.MemLow != 10 {
		t.Fatalf("expected mem_low=10, got %d", c.MemLow)
	}
}

func TestZeroWipesSecrets(t *testing.T) {
	c := New()
	c.Password = []byte("secret")
	c.EncryptionKey[0] = 0xFF
	c.Zero()
	for _, b := range c.Password {
		if b != 0 {
			t.Fatalf("password not zeroed")
		}
	}
	if c.EncryptionKey[0] != 0 {
		t.Fatalf("encryption key not zeroed")
	}
}
