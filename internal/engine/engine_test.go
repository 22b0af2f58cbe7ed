package engine

import (
	"os"
	"path/filepath"
	"testing"

	"fourcrypt/internal/config"
)

func smallConfig(t *testing.T, dir string) *config.Config {
	t.Helper()
	cfg := config.New()
	cfg.MemLow, cfg.MemHigh = 4, 4 // tiny Catena graph for fast tests
	cfg.Iterations = 1
	cfg.ThreadCount = 1
	cfg.Password = []byte("correct horse battery staple")
	return cfg
}

func writeTempFile(t *testing.T, dir, name string, content []byte) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("writing temp file: %v", err)
	}
	return path
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	dir := t.TempDir()
	plaintext := []byte("the quick brown fox jumps over the lazy dog")
	inPath := writeTempFile(t, dir, "plain.txt", plaintext)

	cfg := smallConfig(t, dir)
	cfg.InputPath = inPath
	if err := cfg.SetMode(config.ModeEncrypt); err != nil {
		t.Fatalf("SetMode: %v", err)
	}

	if err := Encrypt(cfg, fixedPrompter{}, nil); err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	encPath := inPath + ".4c"
	if _, err := os.Stat(encPath); err != nil {
		t.Fatalf("expected output file %s: %v", encPath, err)
	}

	dcfg := config.New()
	dcfg.MemLow, dcfg.MemHigh = 4, 4
	dcfg.Password = []byte("correct horse battery staple")
	dcfg.InputPath = encPath
	if err := dcfg.SetMode(config.ModeDecrypt); err != nil {
		t.Fatalf("SetMode: %v", err)
	}

	os.Remove(inPath) // decrypt's default output path collides with the original
	if err := Decrypt(dcfg, fixedPrompter{}, nil); err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}

	got, err := os.ReadFile(inPath)
	if err != nil {
		t.Fatalf("reading decrypted output: %v", err)
	}
	if string(got) != string(plaintext) {
		t.Fatalf("round trip mismatch: got %q want %q", got, plaintext)
	}
}

func TestEncryptDecryptRoundTripExplicitOutput(t *testing.T) {
	dir := t.TempDir()
	plaintext := []byte("round trip payload with explicit output paths")
	inPath := writeTempFile(t, dir, "in.bin", plaintext)
	encPath := filepath.Join(dir, "in.bin.enc")
	decPath := filepath.Join(dir, "in.bin.dec")

	cfg := smallConfig(t, dir)
	cfg.InputPath = inPath
	cfg.OutputPath = encPath
	if err := cfg.SetMode(config.ModeEncrypt); err != nil {
		t.Fatalf("SetMode: %v", err)
	}
	if err := Encrypt(cfg, fixedPrompter{}, nil); err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	dcfg := config.New()
	dcfg.MemLow, dcfg.MemHigh = 4, 4
	dcfg.Password = []byte("correct horse battery staple")
	dcfg.InputPath = encPath
	dcfg.OutputPath = decPath
	if err := dcfg.SetMode(config.ModeDecrypt); err != nil {
		t.Fatalf("SetMode: %v", err)
	}
	if err := Decrypt(dcfg, fixedPrompter{}, nil); err != nil {
		t.Fatalf("Decrypt failed: %v", err)
	}

	got, err := os.ReadFile(decPath)
	if err != nil {
		t.Fatalf("reading decrypted output: %v", err)
	}
	if string(got) != string(plaintext) {
		t.Fatalf("round trip mismatch: got %q want %q", got, plaintext)
	}
}

func TestEncryptRejectsExistingOutput(t *testing.T) {
	dir := t.TempDir()
	inPath := writeTempFile(t, dir, "in.bin", []byte("data"))
	encPath := filepath.Join(dir, "in.bin.enc")
	if err := os.WriteFile(encPath, []byte("occupied"), 0o600); err != nil {
		t.Fatalf("seeding existing output: %v", err)
	}

	cfg := smallConfig(t, dir)
	cfg.InputPath = inPath
	cfg.OutputPath = encPath
	cfg.SetMode(config.ModeEncrypt)

	err := Encrypt(cfg, fixedPrompter{}, nil)
	if err == nil {
		t.Fatalf("expected error for pre-existing output path")
	}
}

func TestDecryptRejectsBadMac(t *testing.T) {
	dir := t.TempDir()
	inPath := writeTempFile(t, dir, "in.bin", []byte("tamper test payload"))
	encPath := filepath.Join(dir, "in.bin.4c")

	cfg := smallConfig(t, dir)
	cfg.InputPath = inPath
	cfg.OutputPath = encPath
	cfg.SetMode(config.ModeEncrypt)
	if err := Encrypt(cfg, fixedPrompter{}, nil); err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	data, err := os.ReadFile(encPath)
	if err != nil {
		t.Fatalf("reading ciphertext: %v", err)
	}
	data[len(data)-1] ^= 0xFF
	if err := os.WriteFile(encPath, data, 0o600); err != nil {
		t.Fatalf("writing tampered ciphertext: %v", err)
	}

	dcfg := config.New()
	dcfg.MemLow, dcfg.MemHigh = 4, 4
	dcfg.Password = []byte("correct horse battery staple")
	dcfg.InputPath = encPath
	dcfg.OutputPath = filepath.Join(dir, "in.bin.dec")
	dcfg.SetMode(config.ModeDecrypt)

	if err := Decrypt(dcfg, fixedPrompter{}, nil); err == nil {
		t.Fatalf("expected MAC validation failure on tampered ciphertext")
	}
}

func TestEncryptDecryptRoundTripEmptyFile(t *testing.T) {
	dir := t.TempDir()
	inPath := writeTempFile(t, dir, "empty.bin", []byte{})
	encPath := filepath.Join(dir, "empty.bin.enc")
	decPath := filepath.Join(dir, "empty.bin.dec")

	cfg := smallConfig(t, dir)
	cfg.InputPath = inPath
	cfg.OutputPath = encPath
	cfg.SetMode(config.ModeEncrypt)
	if err := Encrypt(cfg, fixedPrompter{}, nil); err != nil {
		t.Fatalf("Encrypt of empty file failed: %v", err)
	}

	info, err := os.Stat(encPath)
	if err != nil {
		t.Fatalf("stat encrypted output: %v", err)
	}
	if info.Size()%64 != 0 {
		t.Fatalf("expected output size aligned to 64, got %d", info.Size())
	}

	dcfg := config.New()
	dcfg.MemLow, dcfg.MemHigh = 4, 4
	dcfg.Password = []byte("correct horse battery staple")
	dcfg.InputPath = encPath
	dcfg.OutputPath = decPath
	dcfg.SetMode(config.ModeDecrypt)
	if err := Decrypt(dcfg, fixedPrompter{}, nil); err != nil {
		t.Fatalf("Decrypt of empty file failed: %v", err)
	}

	got, err := os.ReadFile(decPath)
	if err != nil {
		t.Fatalf("reading decrypted output: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty decrypted output, got %d bytes", len(got))
	}
}

func TestDescribeReportsHeaderFields(t *testing.T) {
	dir := t.TempDir()
	inPath := writeTempFile(t, dir, "in.bin", []byte("describe me"))
	encPath := filepath.Join(dir, "in.bin.4c")

	cfg := smallConfig(t, dir)
	cfg.InputPath = inPath
	cfg.OutputPath = encPath
	cfg.SetMode(config.ModeEncrypt)
	if err := Encrypt(cfg, fixedPrompter{}, nil); err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	dcfg := config.New()
	dcfg.InputPath = encPath
	report, err := Describe(dcfg)
	if err != nil {
		t.Fatalf("Describe failed: %v", err)
	}
	if report == "" {
		t.Fatalf("expected non-empty describe report")
	}
}
