// Package kdf drives the multi-threaded Catena-512 key-derivation pipeline:
// per-thread unique salts, batched parallel Catena runs, XOR-fold, and
// Skein-512 expansion into an encryption key and a MAC key.
package kdf

import (
	"sync"

	"fourcrypt/internal/log"
	"fourcrypt/internal/primitives"
)

// Params bundles the KDF orchestrator's tunable inputs, mirroring the
// relevant fields of the Configuration Record.
type Params struct {
	Password        []byte
	BaseSalt        [32]byte
	MemLow          uint8
	Iterations      uint8
	UsePhi          bool
	ThreadCount     uint64
	ThreadBatchSize uint64
}

// Keys holds the 128 bytes of derived secret split into its two halves.
type Keys struct {
	EncryptionKey [64]byte
	MACKey        [64]byte
}

// Zero overwrites both derived keys with zeros.
func (k *Keys) Zero() {
	for i := range k.EncryptionKey {
		k.EncryptionKey[i] = 0
	}
	for i := range k.MACKey {
		k.MACKey[i] = 0
	}
}

// Derive runs the full KDF orchestration described in spec.md §4.4: unique
// per-thread salts, batched parallel Catena-512 runs, XOR-fold, and
// Skein-512 expansion/split into encryption and MAC keys.
func Derive(p Params, logger log.Logger) (Keys, error) {
	n := p.ThreadCount
	if n == 0 {
		n = 1
	}
	batch := p.ThreadBatchSize
	if batch == 0 || batch > n {
		batch = n
	}

	outputs := make([][64]byte, n)
	failed := make([]bool, n)

	for start := uint64(0); start < n; start += batch {
		end := start + batch
		if end > n {
			end = n
		}
		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(idx uint64) {
				defer wg.Done()
				var idxBytes [8]byte
				putLE64(idxBytes[:], idx)
				saltInput := append(append([]byte{}, p.BaseSalt[:]...), idxBytes[:]...)
				uniqueSalt := primitives.Skein512Sum(saltInput)

				out, err := primitives.Derive(p.Password, uniqueSalt[:], p.MemLow, p.Iterations, p.UsePhi)
				if err != nil {
					failed[idx] = true
					return
				}
				outputs[idx] = out
			}(i)
		}
		wg.Wait()
		logger.Debug("kdf", log.Stage("Keyed"), log.Int64("batch_start", int64(start)), log.Int64("batch_end", int64(end)), log.Bool("phi", p.UsePhi))
	}

	anyFailed := false
	for _, f := range failed {
		if f {
			anyFailed = true
			break
		}
	}

	var fold [64]byte
	for _, out := range outputs {
		for i := 0; i < 64; i++ {
			fold[i] ^= out[i]
		}
	}
	for i := range outputs {
		zero64(&outputs[i])
	}

	if anyFailed {
		zero64(&fold)
		logger.Error("kdf: one or more thread derivations failed", log.Stage("Keyed"), log.Err(errKdfFailed))
		return Keys{}, errKdfFailed
	}

	expanded := primitives.Skein512Output(nil, fold[:], 128)
	zero64(&fold)

	var keys Keys
	copy(keys.EncryptionKey[:], expanded[:64])
	copy(keys.MACKey[:], expanded[64:128])
	for i := range expanded {
		expanded[i] = 0
	}
	return keys, nil
}

func zero64(b *[64]byte) {
	for i := range b {
		b[i] = 0
	}
}

func putLE64(b []byte, v uint64) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 24)
	b[4] = byte(v >> 32)
	b[5] = byte(v >> 40)
	b[6] = byte(v >> 48)
	b[7] = byte(v >> 56)
}
