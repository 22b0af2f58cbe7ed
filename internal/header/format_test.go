package header

import (
	"testing"

	"fourcrypt/internal/primitives"
)

func TestHeaderRoundTrip(t *testing.T) {
	h := Header{
		MemLow:      21,
		MemHigh:     21,
		Iterations:  2,
		PhiFlag:     true,
		FileSize:    4096,
		ThreadCount: 2,
	}
	for i := range h.Tweak {
		h.Tweak[i] = byte(i)
	}
	for i := range h.Salt {
		h.Salt[i] = byte(i * 2)
	}
	for i := range h.IV {
		h.IV[i] = byte(i * 3)
	}

	buf := EncodePlaintext(h)

	var key [64]byte
	var tweak16 [16]byte
	var iv32 [32]byte
	copy(tweak16[:], h.Tweak[:])
	copy(iv32[:], h.IV[:])
	ctr := primitives.NewCTR(key, tweak16, iv32)

	var tail [ReservedSecretSize]byte
	EncipherTail(ctr, &buf, &tail, 512)

	parsed, ok := DecodePlaintext(buf)
	if !ok {
		t.Fatalf("DecodePlaintext rejected a valid header (bad magic check)")
	}
	if parsed.MemLow != h.MemLow || parsed.ThreadCount != h.ThreadCount || parsed.FileSize != h.FileSize {
		t.Fatalf("plaintext fields did not round trip: got %+v", parsed)
	}
	if !ReservedPlainIsZero(parsed) {
		t.Fatalf("reserved_plain not zero after round trip")
	}

	ctr2 := primitives.NewCTR(key, tweak16, iv32)
	paddingSize, secret := DecryptTail(ctr2, &buf, &tail)
	if paddingSize != 512 {
		t.Fatalf("padding_size mismatch: got %d want 512", paddingSize)
	}
	if !ReservedSecretIsZero(secret) {
		t.Fatalf("reserved_secret did not decrypt to all-zero")
	}
}

func TestDecodePlaintextRejectsBadMagic(t *testing.T) {
	var buf [Size]byte
	if _, ok := DecodePlaintext(buf); ok {
		t.Fatalf("expected rejection of all-zero buffer (bad magic)")
	}
}
