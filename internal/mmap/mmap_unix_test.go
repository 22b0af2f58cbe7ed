package mmap

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOpenReadOnlyEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty")
	if err := os.WriteFile(path, nil, 0o600); err != nil {
		t.Fatalf("writing empty file: %v", err)
	}

	m, err := OpenReadOnly(path)
	if err != nil {
		t.Fatalf("OpenReadOnly on empty file: %v", err)
	}
	defer m.Close()

	if len(m.Data()) != 0 {
		t.Fatalf("expected empty data, got %d bytes", len(m.Data()))
	}
	if err := m.Sync(); err != nil {
		t.Fatalf("Sync on unmapped empty Map: %v", err)
	}
}

func TestCreateExclusiveZeroSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out")

	m, err := CreateExclusive(path, 0)
	if err != nil {
		t.Fatalf("CreateExclusive with size 0: %v", err)
	}
	if len(m.Data()) != 0 {
		t.Fatalf("expected empty data, got %d bytes", len(m.Data()))
	}
	if err := m.Sync(); err != nil {
		t.Fatalf("Sync on unmapped zero-size Map: %v", err)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("Close on unmapped zero-size Map: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat output file: %v", err)
	}
	if info.Size() != 0 {
		t.Fatalf("expected 0-byte output file, got %d bytes", info.Size())
	}
}

func TestOpenReadOnlyRejectsMissingFile(t *testing.T) {
	if _, err := OpenReadOnly(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatalf("expected error opening a nonexistent file")
	}
}
