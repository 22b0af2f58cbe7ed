package primitives

import (
	"bytes"
	"testing"
)

func TestSkein512SumDeterministic(t *testing.T) {
	msg := []byte("the quick brown fox")
	a := Skein512Sum(msg)
	b := Skein512Sum(msg)
	if a != b {
		t.Fatalf("Skein512Sum not deterministic")
	}
}

func TestSkein512SumSensitivity(t *testing.T) {
	a := Skein512Sum([]byte("message one"))
	b := Skein512Sum([]byte("message two"))
	if a == b {
		t.Fatalf("distinct messages hashed to identical digests")
	}
}

func TestSkein512MACKeyed(t *testing.T) {
	msg := []byte("payload")
	m1 := Skein512MAC([]byte("key-a"), msg)
	m2 := Skein512MAC([]byte("key-b"), msg)
	if m1 == m2 {
		t.Fatalf("distinct keys produced identical MACs")
	}
}

func TestSkein512OutputArbitraryLength(t *testing.T) {
	out := Skein512Output(nil, []byte("expand me"), 128)
	if len(out) != 128 {
		t.Fatalf("expected 128 bytes, got %d", len(out))
	}
	if bytes.Equal(out[:64], out[64:]) {
		t.Fatalf("output blocks repeated, counter not advancing")
	}
}

func TestSkein512EmptyMessage(t *testing.T) {
	out := Skein512Sum(nil)
	var zero [64]byte
	if out == zero {
		t.Fatalf("empty-message hash collapsed to all-zero output")
	}
}
