// Package config implements the Configuration Record: the single owning
// struct passed to every engine operation, populated by the CLI front-end
// and consumed by the KDF orchestrator, crypto engine, and padding
// planner.
package config

import (
	"errors"

	"fourcrypt/internal/padding"
)

// Mode selects the top-level operation a Config drives.
type Mode int

const (
	ModeNone Mode = iota
	ModeEncrypt
	ModeDecrypt
	ModeDescribe
)

// Flag is a single bit in Config.Flags.
type Flag uint8

const (
	EnablePhi Flag = 1 << iota
	SupplementEntropy
	EnterPassOnce
)

const (
	MemFast   uint8 = 21
	MemNormal uint8 = 24
	MemStrong uint8 = 25
	MaxPw           = 125
)

// ErrModeAlreadySet is returned by SetMode when execute_mode has already
// been assigned once; -e/-d/-D are mutually exclusive.
var ErrModeAlreadySet = errors.New("config: execute mode already set")

// Config is the Configuration Record of spec.md §3.
type Config struct {
	InputPath  string
	OutputPath string

	Mode Mode

	PaddingMode padding.Mode
	PaddingSize uint64

	MemLow     uint8
	MemHigh    uint8
	Iterations uint8

	ThreadCount     uint64
	ThreadBatchSize uint64

	Flags Flag

	Password []byte
	Entropy  []byte

	Tweak [16]byte
	Salt  [32]byte
	IV    [32]byte

	EncryptionKey [64]byte
	MACKey        [64]byte

	CounterIndex uint64

	modeSet bool
}

// New builds a Config with the defaults in spec.md §6 ("Defaults at
// construction").
func New() *Config {
	return &Config{
		PaddingMode: padding.Add,
		PaddingSize: 0,
		MemLow:      MemNormal,
		MemHigh:     MemNormal,
		Iterations:  1,
		ThreadCount: 1,
	}
}

// SetMode assigns execute_mode, failing if it was already set (mirroring
// the original's set_exemode assertion: -e/-d/-D are mutually exclusive).
func (c *Config) SetMode(m Mode) error {
	if c.modeSet {
		return ErrModeAlreadySet
	}
	c.Mode = m
	c.modeSet = true
	return nil
}

// SetFast applies the MEM_FAST preset to both memory bounds.
func (c *Config) SetFast() {
	c.MemLow, c.MemHigh = MemFast, MemFast
}

// SetNormal applies the MEM_NORMAL preset to both memory bounds.
func (c *Config) SetNormal() {
	c.MemLow, c.MemHigh = MemNormal, MemNormal
}

// SetStrong applies the MEM_STRONG preset to both memory bounds and
// enables Phi, matching the original's set_strong.
func (c *Config) SetStrong() {
	c.MemLow, c.MemHigh = MemStrong, MemStrong
	c.Flags |= EnablePhi
}

// SetHighMemory sets mem_high and raises mem_low to match if mem_low was
// lower, per the CLI's -H semantics.
func (c *Config) SetHighMemory(shift uint8) {
	c.MemHigh = shift
	if c.MemLow < c.MemHigh {
		c.MemLow = c.MemHigh
	}
}

// SetLowMemory sets mem_low and raises mem_high to match if mem_high was
// lower, per the CLI's -L semantics.
func (c *Config) SetLowMemory(shift uint8) {
	c.MemLow = shift
	if c.MemHigh < c.MemLow {
		c.MemHigh = c.MemLow
	}
}

// Touchup implements the thread_batch_size clamp required before Encrypt:
// 0 or a value exceeding thread_count collapses to thread_count.
func (c *Config) Touchup() {
	if c.ThreadBatchSize == 0 || c.ThreadBatchSize > c.ThreadCount {
		c.ThreadBatchSize = c.ThreadCount
	}
}

// HasFlag reports whether f is set in Flags.
func (c *Config) HasFlag(f Flag) bool {
	return c.Flags&f != 0
}

// Zero overwrites every secret field with zeros before the Config is
// dropped, per spec.md §3's lifecycle and §5's secret-handling rules.
func (c *Config) Zero() {
	for i := range c.Password {
		c.Password[i] = 0
	}
	for i := range c.Entropy {
		c.Entropy[i] = 0
	}
	for i := range c.EncryptionKey {
		c.EncryptionKey[i] = 0
	}
	for i := range c.MACKey {
		c.MACKey[i] = 0
	}
}
