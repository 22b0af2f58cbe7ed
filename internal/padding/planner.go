// Package padding normalizes a user's padding intent (Add/Target/AsIf) and
// a raw plaintext size into a padding byte count that makes the final
// output length a multiple of the pad factor.
package padding

import "fourcrypt/internal/header"

// Mode selects the interpretation of the user-supplied padding size.
type Mode int

const (
	Add Mode = iota
	Target
	AsIf
)

// ErrInvalidPadding is returned when Target/AsIf's requested size is
// smaller than the data it must contain.
type ErrInvalidPadding struct {
	Mode Mode
	Got  uint64
	Need uint64
}

func (e *ErrInvalidPadding) Error() string {
	return "padding: requested size too small for the given mode"
}

// Plan normalizes padding_size p (interpreted per mode) against plaintext
// size s, returning the padding byte count such that
// header.TotalHeaderBytes + padding + s + header.MACSize is both a
// multiple of header.PadFactor and at least header.MinOutput.
func Plan(mode Mode, p, s uint64) (uint64, error) {
	metadata := uint64(header.TotalHeaderBytes + header.MACSize)

	switch mode {
	case Add:
		return add(metadata, s, p), nil
	case Target:
		if p < s+metadata {
			return 0, &ErrInvalidPadding{Mode: mode, Got: p, Need: s + metadata}
		}
		r := p - (s + metadata)
		return add(metadata, s, r), nil
	case AsIf:
		if p < s {
			return 0, &ErrInvalidPadding{Mode: mode, Got: p, Need: s}
		}
		r := p - s
		return add(metadata, s, r), nil
	default:
		return add(metadata, s, p), nil
	}
}

// add implements the Add-mode normalization: the minimal p' >= p such that
// (s+p') mod PadFactor == 0, then bumps p' by whole pad-factor blocks, if
// needed, until metadata+s+p' reaches header.MinOutput.
func add(metadata, s, p uint64) uint64 {
	total := s + p
	rem := total % header.PadFactor
	if rem != 0 {
		p += header.PadFactor - rem
	}
	for metadata+s+p < header.MinOutput {
		p += header.PadFactor
	}
	return p
}
