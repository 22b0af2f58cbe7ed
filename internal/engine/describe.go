package engine

import (
	"fmt"
	"os"
	"strings"

	"fourcrypt/internal/config"
	fcerrors "fourcrypt/internal/errors"
	"fourcrypt/internal/header"
	"fourcrypt/internal/mmap"
)

// memoryUnit names one step of the binary byte-unit ladder used by
// makeMemoryString.
type memoryUnit struct {
	name   string
	shift  uint // bits
}

var memoryUnits = []memoryUnit{
	{"Byte", 0},
	{"Kibibyte", 10},
	{"Mebibyte", 20},
	{"Gibibyte", 30},
	{"Tebibyte", 40},
}

// makeMemoryStringBitShift renders a Catena memory bound (given as a
// bit-shift, memory = 2^(shift+6) bytes) as "<N>[.<frac>] <Unit>(s)",
// matching original_source/Impl/Core.cc's makeMemoryStringBitShift.
func makeMemoryStringBitShift(shift uint8) string {
	return makeMemoryString(uint64(1) << (uint(shift) + 6))
}

// makeMemoryString renders a byte count as "<N>[.<frac>] <Unit>(s)",
// matching makeMemoryString.
func makeMemoryString(bytes uint64) string {
	unit := memoryUnits[0]
	for _, u := range memoryUnits {
		if bytes>>u.shift == 0 {
			break
		}
		unit = u
	}
	whole := bytes >> unit.shift
	var frac uint64
	if unit.shift > 0 {
		mask := uint64(1)<<unit.shift - 1
		remainder := bytes & mask
		frac = remainder * 100 / (mask + 1)
	}
	plural := "s"
	if whole == 1 && frac == 0 {
		plural = ""
	}
	if frac == 0 {
		return fmt.Sprintf("%d %s%s", whole, unit.name, plural)
	}
	return fmt.Sprintf("%d.%02d %s%s", whole, frac, unit.name, plural)
}

// Describe maps input_path read-only, validates its basic metadata, and
// renders a human-readable report of its header fields.
func Describe(cfg *config.Config) (string, error) {
	if cfg.InputPath == "" {
		return "", fcerrors.New(fcerrors.ErrNoInputFilename, fcerrors.OriginCore, fcerrors.DirectionNone)
	}

	if _, err := os.Stat(cfg.InputPath); err != nil {
		return "", fcerrors.New(fcerrors.ErrGettingInputFilesize, fcerrors.OriginCore, fcerrors.DirectionInput)
	}

	inMap, err := mmap.OpenReadOnly(cfg.InputPath)
	if err != nil {
		return "", fcerrors.New(fcerrors.ErrInputMmapFailed, fcerrors.OriginMemMap, fcerrors.DirectionInput)
	}
	defer inMap.Close()
	in := inMap.Data()

	if !validateBasicMetadata(in) {
		return "", fcerrors.New(fcerrors.ErrMetadataValidationFailed, fcerrors.OriginCore, fcerrors.DirectionInput)
	}

	var hdrBuf [header.Size]byte
	copy(hdrBuf[:], in[:header.Size])
	h, ok := header.DecodePlaintext(hdrBuf)
	if !ok {
		return "", fcerrors.New(fcerrors.ErrMetadataValidationFailed, fcerrors.OriginCore, fcerrors.DirectionInput)
	}
	if !header.ReservedPlainIsZero(h) {
		return "", fcerrors.New(fcerrors.ErrReservedBytesUsed, fcerrors.OriginCore, fcerrors.DirectionInput)
	}

	var sb strings.Builder
	if h.PhiFlag {
		sb.WriteString("Warning: this file was encrypted with Phi enabled; key derivation is data-dependent and vulnerable to cache-timing analysis.\n")
	}
	fmt.Fprintf(&sb, "File size: %s (%d bytes)\n", makeMemoryString(h.FileSize), h.FileSize)
	if h.MemLow == h.MemHigh {
		fmt.Fprintf(&sb, "Memory: %s\n", makeMemoryStringBitShift(h.MemLow))
	} else {
		fmt.Fprintf(&sb, "Memory: %s (low) / %s (high)\n", makeMemoryStringBitShift(h.MemLow), makeMemoryStringBitShift(h.MemHigh))
	}
	fmt.Fprintf(&sb, "Thread count: %d\n", h.ThreadCount)
	fmt.Fprintf(&sb, "Iterations: %d\n", h.Iterations)
	fmt.Fprintf(&sb, "Tweak: %x\n", h.Tweak)
	fmt.Fprintf(&sb, "Salt: %x\n", h.Salt)
	fmt.Fprintf(&sb, "IV: %x\n", h.IV)
	return sb.String(), nil
}
