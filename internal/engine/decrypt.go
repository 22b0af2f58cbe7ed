package engine

import (
	"crypto/subtle"
	"os"
	"strings"

	"fourcrypt/internal/config"
	fcerrors "fourcrypt/internal/errors"
	"fourcrypt/internal/header"
	"fourcrypt/internal/kdf"
	"fourcrypt/internal/log"
	"fourcrypt/internal/mmap"
	"fourcrypt/internal/primitives"
)

const fourCryptSuffix = ".4c"

// Decrypt runs the decrypt state machine of spec.md §4.5.
func Decrypt(cfg *config.Config, prompter PasswordPrompter, progress ProgressFunc) error {
	logger := log.GetLogger()
	logger.Debug("decrypt", log.Stage("Start"), log.String("input", cfg.InputPath))

	if cfg.InputPath == "" {
		return fcerrors.New(fcerrors.ErrNoInputFilename, fcerrors.OriginCore, fcerrors.DirectionNone)
	}
	if cfg.OutputPath == "" {
		if !strings.HasSuffix(cfg.InputPath, fourCryptSuffix) {
			return fcerrors.New(fcerrors.ErrNoOutputFilename, fcerrors.OriginCore, fcerrors.DirectionNone)
		}
		cfg.OutputPath = strings.TrimSuffix(cfg.InputPath, fourCryptSuffix)
	}

	info, err := os.Stat(cfg.InputPath)
	if err != nil {
		return fcerrors.New(fcerrors.ErrGettingInputFilesize, fcerrors.OriginCore, fcerrors.DirectionInput)
	}
	if uint64(info.Size()) < header.MinOutput {
		return fcerrors.New(fcerrors.ErrInputFilesizeTooSmall, fcerrors.OriginCore, fcerrors.DirectionInput)
	}
	if _, statErr := os.Stat(cfg.OutputPath); statErr == nil {
		return fcerrors.New(fcerrors.ErrOutputFileExists, fcerrors.OriginCore, fcerrors.DirectionOutput)
	}

	inMap, err := mmap.OpenReadOnly(cfg.InputPath)
	if err != nil {
		return fcerrors.New(fcerrors.ErrInputMmapFailed, fcerrors.OriginMemMap, fcerrors.DirectionInput)
	}
	defer inMap.Close()
	in := inMap.Data()

	if !validateBasicMetadata(in) {
		logger.Warn("decrypt: basic metadata check failed", log.Stage("Prepared"))
		return fcerrors.New(fcerrors.ErrInvalidFormat, fcerrors.OriginCore, fcerrors.DirectionInput)
	}
	if err := notify(progress, nil); err != nil {
		return err
	}

	if len(cfg.Password) == 0 {
		pw, err := prompter.Prompt(false)
		if err != nil {
			return err
		}
		cfg.Password = pw
	}
	if err := notify(progress, nil); err != nil {
		return err
	}

	var hdrBuf [header.Size]byte
	copy(hdrBuf[:], in[:header.Size])
	h, ok := header.DecodePlaintext(hdrBuf)
	if !ok {
		return fcerrors.New(fcerrors.ErrInvalidFormat, fcerrors.OriginCore, fcerrors.DirectionInput)
	}
	if !header.ReservedPlainIsZero(h) {
		return fcerrors.New(fcerrors.ErrReservedBytesUsed, fcerrors.OriginCore, fcerrors.DirectionInput)
	}

	cfg.MemLow, cfg.MemHigh = h.MemLow, h.MemHigh
	cfg.Iterations = h.Iterations
	if h.PhiFlag {
		cfg.Flags |= config.EnablePhi
	}
	cfg.Tweak, cfg.Salt, cfg.IV = h.Tweak, h.Salt, h.IV
	cfg.ThreadCount = h.ThreadCount
	cfg.Touchup()

	logger.Debug("decrypt", log.Stage("Keyed"), log.Bool("phi", cfg.HasFlag(config.EnablePhi)), log.Int64("thread_count", int64(cfg.ThreadCount)))
	keys, err := kdf.Derive(kdf.Params{
		Password:        cfg.Password,
		BaseSalt:        cfg.Salt,
		MemLow:          cfg.MemLow,
		Iterations:      cfg.Iterations,
		UsePhi:          cfg.HasFlag(config.EnablePhi),
		ThreadCount:     cfg.ThreadCount,
		ThreadBatchSize: cfg.ThreadBatchSize,
	}, logger)
	if err != nil {
		logger.Error("decrypt: key derivation failed", log.Stage("Keyed"), log.Err(err))
		return fcerrors.New(fcerrors.ErrKdfFailed, fcerrors.OriginCore, fcerrors.DirectionNone)
	}
	cfg.EncryptionKey = keys.EncryptionKey
	cfg.MACKey = keys.MACKey
	for i := range cfg.Password {
		cfg.Password[i] = 0
	}
	if err := notify(progress, nil); err != nil {
		return err
	}

	mac := primitives.Skein512MAC(cfg.MACKey[:], in[:len(in)-header.MACSize])
	if subtle.ConstantTimeCompare(mac[:], in[len(in)-header.MACSize:]) != 1 {
		logger.Warn("decrypt: MAC validation failed", log.Stage("Authenticated"))
		return fcerrors.New(fcerrors.ErrMacValidationFailed, fcerrors.OriginCore, fcerrors.DirectionInput)
	}
	logger.Debug("decrypt", log.Stage("Authenticated"))

	ctr := primitives.NewCTR(cfg.EncryptionKey, cfg.Tweak, cfg.IV)
	var tail [header.ReservedSecretSize]byte
	copy(tail[:], in[header.Size:header.Size+header.ReservedSecretSize])
	paddingSize, reservedSecret := header.DecryptTail(ctr, &hdrBuf, &tail)
	if !header.ReservedSecretIsZero(reservedSecret) {
		return fcerrors.New(fcerrors.ErrReservedBytesUsed, fcerrors.OriginCore, fcerrors.DirectionInput)
	}

	metadata := uint64(header.TotalHeaderBytes + header.MACSize)
	if uint64(len(in)) < metadata+paddingSize {
		return fcerrors.New(fcerrors.ErrInputSizeMismatch, fcerrors.OriginCore, fcerrors.DirectionInput)
	}
	plainSize := uint64(len(in)) - metadata - paddingSize

	outMap, err := mmap.CreateExclusive(cfg.OutputPath, int64(plainSize))
	if err != nil {
		if os.IsExist(err) {
			return fcerrors.New(fcerrors.ErrOutputFileExists, fcerrors.OriginCore, fcerrors.DirectionOutput)
		}
		return fcerrors.New(fcerrors.ErrOutputMmapFailed, fcerrors.OriginMemMap, fcerrors.DirectionOutput)
	}
	cleanOutput := true
	defer func() {
		if cleanOutput {
			outMap.Close()
			os.Remove(cfg.OutputPath)
		}
	}()

	payloadStart := header.TotalHeaderBytes + int(paddingSize)
	out := outMap.Data()
	offset := uint64(16) + paddingSize
	ctr.XorInto(out, in[payloadStart:payloadStart+int(plainSize)], int(plainSize), offset)

	logger.Debug("decrypt", log.Stage("Written"), log.Int64("plain_size", int64(plainSize)))
	if err := notify(progress, nil); err != nil {
		return err
	}

	if err := outMap.Sync(); err != nil {
		logger.Error("decrypt: sync failed", log.Stage("Synced"), log.Err(err))
		return fcerrors.New(fcerrors.ErrOutputMmapFailed, fcerrors.OriginMemMap, fcerrors.DirectionOutput)
	}
	cleanOutput = false
	if err := outMap.Close(); err != nil {
		return fcerrors.New(fcerrors.ErrOutputMmapFailed, fcerrors.OriginMemMap, fcerrors.DirectionOutput)
	}
	logger.Info("decrypt", log.Stage("Synced"), log.String("output", cfg.OutputPath))
	if err := notify(progress, nil); err != nil {
		return err
	}

	cfg.Zero()
	return nil
}

// validateBasicMetadata reports whether in's length, magic, alignment, and
// embedded file_size field are all well-formed. It carries no error kind of
// its own: decrypt and describe each map a false result to their own
// uniform error kind (InvalidFormat and MetadataValidationFailed
// respectively), per spec.md §7 — the failing condition doesn't change
// which kind the caller reports, only whether the shared check passed.
func validateBasicMetadata(in []byte) bool {
	if len(in) < header.Size {
		return false
	}
	var magic [4]byte
	copy(magic[:], in[0:4])
	if magic != header.Magic {
		return false
	}
	if uint64(len(in))%header.PadFactor != 0 {
		return false
	}
	if uint64(len(in)) < header.MinOutput {
		return false
	}
	fileSize := leUint64(in[8:16])
	if fileSize != uint64(len(in)) {
		return false
	}
	return true
}

func leUint64(b []byte) uint64 {
	return uint64(b[0]) | uint64(b[1])<<8 | uint64(b[2])<<16 | uint64(b[3])<<24 |
		uint64(b[4])<<32 | uint64(b[5])<<40 | uint64(b[6])<<48 | uint64(b[7])<<56
}
