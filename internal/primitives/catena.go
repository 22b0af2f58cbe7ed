package primitives

// Catena-512 is a memory-hard password-hashing function: it builds a
// 2^(memShift+6)-byte graph of Skein-512 outputs, then runs `iterations`
// passes that rehash every slot against a small set of dependency indices
// (a bit-reversal schedule, the standard Catena construction) so that
// shrinking the memory budget forces a proportional increase in work. Phi
// mode additionally folds in a content-dependent index on every pass,
// hardening brute-force cost at the price of a cache-timing side channel.
//
// spec.md takes Catena-512's algorithmic definition as given; this is an
// original implementation grounded in the public Catena construction and
// in original_source/Impl/Core.cc's derive_from_Catena512 call shape.

const slotBytes = 64

// Derive runs Catena-512 over password/salt with the given memory bounds,
// iteration count, and Phi toggle, producing a 64-byte output. memShift
// selects the graph size actually used (2^(memShift+6) bytes); callers
// derive memShift from the KDF orchestrator's mem_low bound.
func Derive(password, salt []byte, memShift, iterations uint8, usePhi bool) ([64]byte, error) {
	if memShift > 63 {
		return [64]byte{}, ErrCatenaParams
	}
	if iterations == 0 {
		return [64]byte{}, ErrCatenaParams
	}

	slotCount := uint64(1) << memShift
	graph := make([][slotBytes]byte, slotCount)

	seed := Skein512Sum(append(append([]byte{}, password...), salt...))
	graph[0] = seed
	for i := uint64(1); i < slotCount; i++ {
		var idx [8]byte
		putLeUint64(idx[:], i)
		graph[i] = Skein512Sum(append(append([]byte{}, graph[i-1][:]...), idx[:]...))
	}

	for pass := uint8(0); pass < iterations; pass++ {
		for i := uint64(0); i < slotCount; i++ {
			left := graph[bitReverse(i, memShift)]
			prev := graph[(i+slotCount-1)%slotCount]

			buf := make([]byte, 0, slotBytes*3)
			buf = append(buf, prev[:]...)
			buf = append(buf, left[:]...)

			if usePhi {
				phiIdx := phiIndex(graph[i], slotCount)
				phiVal := graph[phiIdx]
				buf = append(buf, phiVal[:]...)
			}
			graph[i] = Skein512Sum(buf)
		}
	}

	var out [64]byte
	acc := graph[0]
	for i := uint64(1); i < slotCount; i++ {
		acc = Skein512MAC(acc[:], graph[i][:])
	}
	out = acc
	return out, nil
}

// bitReverse reverses the low `bits` bits of v, producing the Catena
// graph's characteristic bit-reversal dependency schedule.
func bitReverse(v uint64, bits uint8) uint64 {
	var r uint64
	for i := uint8(0); i < bits; i++ {
		r = (r << 1) | (v & 1)
		v >>= 1
	}
	return r
}

// phiIndex computes the Phi-mode data-dependent slot index from the
// current slot's content.
func phiIndex(slot [64]byte, slotCount uint64) uint64 {
	v := leUint64(slot[0:8])
	return v % slotCount
}
