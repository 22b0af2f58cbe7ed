package primitives

import "crypto/rand"

// CSPRNG is a Skein-512-seeded stream generator: it keeps a 64-byte state
// seeded from the OS entropy source and expands it on demand through
// Skein-512's output-block counter mechanism, re-keying the state from the
// tail of every expansion so no two calls ever repeat the same output.
type CSPRNG struct {
	state [64]byte
}

// NewCSPRNG seeds a CSPRNG from the OS entropy source (crypto/rand).
func NewCSPRNG() (*CSPRNG, error) {
	c := &CSPRNG{}
	if _, err := rand.Read(c.state[:]); err != nil {
		return nil, err
	}
	return c, nil
}

// Bytes fills buf with n pseudorandom bytes derived from the current state,
// then ratchets the state forward so the same bytes are never produced
// twice.
func (c *CSPRNG) Bytes(buf []byte, n int) {
	out := Skein512Output(nil, c.state[:], n+64)
	copy(buf[:n], out[:n])
	copy(c.state[:], out[n:n+64])
}

// ReseedFrom folds 64 bytes of caller-supplied entropy (e.g. the Skein-512
// hash of user-entered entropy under the SupplementEntropy flag) into the
// state.
func (c *CSPRNG) ReseedFrom(block [64]byte) {
	mixed := Skein512MAC(c.state[:], block[:])
	c.state = mixed
}
