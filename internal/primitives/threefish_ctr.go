package primitives

// CTR is Threefish-512 run in counter mode as a keystream generator. A
// single CTR instance must only ever be used with strictly increasing,
// non-overlapping byte offsets within one file operation (spec.md §4.1
// ordering requirement / §5 ordering rules).
type CTR struct {
	key   [8]uint64
	tweak [2]uint64
	iv    [4]uint64 // 32-byte IV, folded into the per-counter-block nonce
}

// NewCTR builds a Threefish-512 counter-mode stream from a 64-byte key,
// 16-byte tweak, and 32-byte IV.
func NewCTR(key [64]byte, tweak [16]byte, iv [32]byte) *CTR {
	var ivWords [4]uint64
	for i := 0; i < 4; i++ {
		ivWords[i] = leUint64(iv[i*8 : i*8+8])
	}
	return &CTR{
		key:   bytesToWords(key[:]),
		tweak: [2]uint64{leUint64(tweak[0:8]), leUint64(tweak[8:16])},
		iv:    ivWords,
	}
}

// keystreamBlock returns the 64 keystream bytes for the block covering
// absolute byte offset blockIndex*BlockBytes.
func (c *CTR) keystreamBlock(blockIndex uint64) [64]byte {
	// The IV supplies the block's base words; the counter is folded into
	// the first IV word so that every block index addresses a distinct
	// Threefish-512 input block, and the tweak stays fixed for the file.
	block := [8]uint64{c.iv[0] + blockIndex, c.iv[1], c.iv[2], c.iv[3], 0, 0, 0, 0}
	ks := encryptBlock(c.key, c.tweak, block)
	var out [64]byte
	wordsToBytes(ks, out[:])
	return out
}

// XorInto XORs `n` bytes of keystream starting at absolute byte `offset`
// against `src`, writing the result into `dst`. `dst` and `src` must each
// be at least `n` bytes long and may be the same slice.
func (c *CTR) XorInto(dst, src []byte, n int, offset uint64) {
	produced := 0
	blockIndex := offset / BlockBytes
	inBlock := int(offset % BlockBytes)
	for produced < n {
		ks := c.keystreamBlock(blockIndex)
		avail := BlockBytes - inBlock
		take := n - produced
		if take > avail {
			take = avail
		}
		for i := 0; i < take; i++ {
			dst[produced+i] = src[produced+i] ^ ks[inBlock+i]
		}
		produced += take
		blockIndex++
		inBlock = 0
	}
}

// XorInplace XORs `n` bytes of keystream into buf starting at absolute byte
// `offset`, in place.
func (c *CTR) XorInplace(buf []byte, n int, offset uint64) {
	c.XorInto(buf, buf, n, offset)
}
