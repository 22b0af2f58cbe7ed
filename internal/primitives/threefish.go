// Package primitives implements the Threefish-512 tweakable block cipher,
// its counter-mode stream, the Skein-512 hash/MAC built on Threefish-512 via
// UBI chaining, a Skein-512-seeded CSPRNG, and the Catena-512 memory-hard
// key derivation function.
//
// spec.md treats the algorithmic definitions of these primitives as given
// and specifies only the contracts this package exposes; no ready-made Go
// module implements Threefish/Skein/Catena, so this package is an original
// implementation grounded in the public Skein/Threefish specification
// (rotation and permutation constants, key/tweak schedule) and in
// original_source/Impl/Core.cc for how 4crypt drives them.
package primitives

const (
	// BlockBytes is the Threefish-512 block size in bytes.
	BlockBytes = 64
	// BlockWords is the Threefish-512 block size in 64-bit words.
	BlockWords = 8
	// TweakBytes is the size of a Threefish tweak in bytes.
	TweakBytes = 16
	// rounds is the number of Threefish-512 mix rounds.
	rounds = 72
	// keyScheduleConst is the key-schedule parity constant (C240).
	keyScheduleConst = 0x1BD11BDAA9FC1A22
)

// rotation constants R_{d mod 8, j}, j = 0..3, for Threefish-512.
var rotationConstants = [8][4]uint8{
	{46, 36, 19, 37},
	{33, 27, 14, 42},
	{17, 49, 36, 39},
	{44, 9, 54, 56},
	{39, 30, 34, 24},
	{13, 50, 10, 17},
	{25, 29, 39, 43},
	{8, 35, 56, 22},
}

// permutation applied to the 8 words after every round's MIX operations.
// wordPermutation[i] is the index of the MIX-output word that becomes word i.
var wordPermutation = [8]int{2, 1, 4, 7, 6, 5, 0, 3}

func rotl64(x uint64, r uint8) uint64 {
	return (x << r) | (x >> (64 - r))
}

// expandedKey returns the Nw+1 = 9 key-schedule words for a 512-bit key.
func expandedKey(key [8]uint64) [9]uint64 {
	var ks [9]uint64
	ks[8] = keyScheduleConst
	for i := 0; i < 8; i++ {
		ks[i] = key[i]
		ks[8] ^= key[i]
	}
	return ks
}

// expandedTweak returns the 3 tweak-schedule words for a 128-bit tweak.
func expandedTweak(tweak [2]uint64) [3]uint64 {
	return [3]uint64{tweak[0], tweak[1], tweak[0] ^ tweak[1]}
}

// encryptBlock enciphers the 8-word plaintext block in place using the
// given 512-bit key and 128-bit tweak, implementing the standard Threefish
// key-injection / MIX / permute round structure.
func encryptBlock(key [8]uint64, tweak [2]uint64, block [8]uint64) [8]uint64 {
	ks := expandedKey(key)
	ts := expandedTweak(tweak)

	x := block
	injectSubkey(&x, ks, ts, 0)

	for d := 0; d < rounds; d++ {
		rc := rotationConstants[d%8]
		mixRound(&x, rc)
		if (d+1)%4 == 0 {
			injectSubkey(&x, ks, ts, (d+1)/4)
		}
	}
	return x
}

func injectSubkey(x *[8]uint64, ks [9]uint64, ts [3]uint64, s int) {
	for i := 0; i < 8; i++ {
		x[i] += ks[(s+i)%9]
	}
	x[5] += ts[s%3]
	x[6] += ts[(s+1)%3]
	x[7] += uint64(s)
}

func mixRound(x *[8]uint64, rc [4]uint8) {
	var y [8]uint64
	for pair := 0; pair < 4; pair++ {
		a, b := x[2*pair], x[2*pair+1]
		y0 := a + b
		y1 := rotl64(b, rc[pair]) ^ y0
		y[2*pair] = y0
		y[2*pair+1] = y1
	}
	var permuted [8]uint64
	for i := 0; i < 8; i++ {
		permuted[i] = y[wordPermutation[i]]
	}
	*x = permuted
}

func bytesToWords(b []byte) [8]uint64 {
	var w [8]uint64
	for i := 0; i < 8; i++ {
		w[i] = leUint64(b[i*8 : i*8+8])
	}
	return w
}

func wordsToBytes(w [8]uint64, dst []byte) {
	for i := 0; i < 8; i++ {
		putLeUint64(dst[i*8:i*8+8], w[i])
	}
}

func leUint64(b []byte) uint64 {
	return uint64(b[0]) | uint64(b[1])<<8 | uint64(b[2])<<16 | uint64(b[3])<<24 |
		uint64(b[4])<<32 | uint64(b[5])<<40 | uint64(b[6])<<48 | uint64(b[7])<<56
}

func putLeUint64(b []byte, v uint64) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
	b[4] = byte(v >> 32)
	b[5] = byte(v >> 40)
	b[6] = byte(v >> 48)
	b[7] = byte(v >> 56)
}
