package engine

import (
	"os"

	"fourcrypt/internal/config"
	fcerrors "fourcrypt/internal/errors"
	"fourcrypt/internal/header"
	"fourcrypt/internal/kdf"
	"fourcrypt/internal/log"
	"fourcrypt/internal/mmap"
	"fourcrypt/internal/padding"
	"fourcrypt/internal/primitives"
)

// Encrypt runs the Start→Prepared→Keyed→Written→Authenticated→Synced
// state machine of spec.md §4.5.
func Encrypt(cfg *config.Config, prompter PasswordPrompter, progress ProgressFunc) error {
	logger := log.GetLogger()

	// Start
	logger.Debug("encrypt", log.Stage("Start"), log.String("input", cfg.InputPath))
	if cfg.InputPath == "" {
		return fcerrors.New(fcerrors.ErrNoInputFilename, fcerrors.OriginCore, fcerrors.DirectionNone)
	}
	if cfg.OutputPath == "" {
		cfg.OutputPath = cfg.InputPath + ".4c"
	}
	cfg.Touchup()

	// Prepared
	info, err := os.Stat(cfg.InputPath)
	if err != nil {
		logger.Error("encrypt: stat input failed", log.Stage("Prepared"), log.Err(err))
		return fcerrors.New(fcerrors.ErrGettingInputFilesize, fcerrors.OriginCore, fcerrors.DirectionInput)
	}
	plainSize := uint64(info.Size())

	paddingSize, err := padding.Plan(cfg.PaddingMode, cfg.PaddingSize, plainSize)
	if err != nil {
		return fcerrors.New(fcerrors.ErrInvalidPadding, fcerrors.OriginCore, fcerrors.DirectionNone)
	}
	cfg.PaddingSize = paddingSize

	totalSize := int64(header.TotalHeaderBytes) + int64(paddingSize) + int64(plainSize) + int64(header.MACSize)

	inMap, err := mmap.OpenReadOnly(cfg.InputPath)
	if err != nil {
		return fcerrors.New(fcerrors.ErrInputMmapFailed, fcerrors.OriginMemMap, fcerrors.DirectionInput)
	}
	defer inMap.Close()

	if _, statErr := os.Stat(cfg.OutputPath); statErr == nil {
		return fcerrors.New(fcerrors.ErrOutputFileExists, fcerrors.OriginCore, fcerrors.DirectionOutput)
	}
	outMap, err := mmap.CreateExclusive(cfg.OutputPath, totalSize)
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

	if err := notify(progress, nil); err != nil {
		return err
	}

	// Password acquisition
	if len(cfg.Password) == 0 {
		pw, err := prompter.Prompt(!cfg.HasFlag(config.EnterPassOnce))
		if err != nil {
			return err
		}
		cfg.Password = pw
		if cfg.HasFlag(config.SupplementEntropy) {
			ent, err := prompter.PromptEntropy()
			if err != nil {
				return err
			}
			cfg.Entropy = ent
		}
	}
	if err := notify(progress, nil); err != nil {
		return err
	}

	// Draw randomness
	csprng, err := primitives.NewCSPRNG()
	if err != nil {
		return err
	}
	if cfg.HasFlag(config.SupplementEntropy) && len(cfg.Entropy) > 0 {
		sum := primitives.Skein512Sum(cfg.Entropy)
		csprng.ReseedFrom(sum)
		for i := range cfg.Entropy {
			cfg.Entropy[i] = 0
		}
	}
	csprng.Bytes(cfg.Tweak[:], len(cfg.Tweak))
	csprng.Bytes(cfg.Salt[:], len(cfg.Salt))
	csprng.Bytes(cfg.IV[:], len(cfg.IV))
	*csprng = primitives.CSPRNG{}

	if err := notify(progress, nil); err != nil {
		return err
	}

	// Keyed
	logger.Debug("encrypt", log.Stage("Keyed"), log.Bool("phi", cfg.HasFlag(config.EnablePhi)), log.Int64("thread_count", int64(cfg.ThreadCount)))
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
		logger.Error("encrypt: key derivation failed", log.Stage("Keyed"), log.Err(err))
		return fcerrors.New(fcerrors.ErrKdfFailed, fcerrors.OriginCore, fcerrors.DirectionNone)
	}
	cfg.EncryptionKey = keys.EncryptionKey
	cfg.MACKey = keys.MACKey
	for i := range cfg.Password {
		cfg.Password[i] = 0
	}
	if err := notify(progress, nil); err != nil { // before payload write
		return err
	}

	// Written
	h := header.Header{
		MemLow:      cfg.MemLow,
		MemHigh:     cfg.MemHigh,
		Iterations:  cfg.Iterations,
		PhiFlag:     cfg.HasFlag(config.EnablePhi),
		FileSize:    uint64(totalSize),
		Tweak:       cfg.Tweak,
		Salt:        cfg.Salt,
		IV:          cfg.IV,
		ThreadCount: cfg.ThreadCount,
	}
	buf := header.EncodePlaintext(h)

	ctr := primitives.NewCTR(cfg.EncryptionKey, cfg.Tweak, cfg.IV)

	var tail [header.ReservedSecretSize]byte
	header.EncipherTail(ctr, &buf, &tail, paddingSize)

	out := outMap.Data()
	copy(out[0:header.Size], buf[:])
	copy(out[header.Size:header.Size+header.ReservedSecretSize], tail[:])

	offset := uint64(header.ReservedSecretSize + 8) // past the 16 enciphered header bytes already consumed

	// Padding region: ciphertext of an all-zero source, i.e. raw keystream.
	padStart := header.TotalHeaderBytes
	if paddingSize > 0 {
		zeroSrc := make([]byte, paddingSize)
		ctr.XorInto(out[padStart:padStart+int(paddingSize)], zeroSrc, int(paddingSize), offset)
		offset += paddingSize
	}

	// Payload region.
	payloadStart := padStart + int(paddingSize)
	ctr.XorInto(out[payloadStart:payloadStart+int(plainSize)], inMap.Data(), int(plainSize), offset)

	logger.Debug("encrypt", log.Stage("Written"), log.Int64("plain_size", int64(plainSize)), log.Int64("padding_size", int64(paddingSize)))

	// Authenticated
	mac := primitives.Skein512MAC(cfg.MACKey[:], out[:len(out)-header.MACSize])
	copy(out[len(out)-header.MACSize:], mac[:])
	logger.Debug("encrypt", log.Stage("Authenticated"))

	if err := notify(progress, nil); err != nil {
		return err
	}

	// Synced
	if err := outMap.Sync(); err != nil {
		logger.Error("encrypt: sync failed", log.Stage("Synced"), log.Err(err))
		return fcerrors.New(fcerrors.ErrOutputMmapFailed, fcerrors.OriginMemMap, fcerrors.DirectionOutput)
	}
	cleanOutput = false
	if err := outMap.Close(); err != nil {
		return fcerrors.New(fcerrors.ErrOutputMmapFailed, fcerrors.OriginMemMap, fcerrors.DirectionOutput)
	}
	logger.Info("encrypt", log.Stage("Synced"), log.String("output", cfg.OutputPath))
	if err := notify(progress, nil); err != nil {
		return err
	}

	cfg.Zero()
	return nil
}
