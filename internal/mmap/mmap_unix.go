// Package mmap implements the memory-mapping primitives the engine treats
// as an external collaborator: read-only input maps and create-new,
// fail-if-exists output maps, each with a sync+release contract.
package mmap

import (
	"os"

	"golang.org/x/sys/unix"
)

// Map is an open memory-mapped file.
type Map struct {
	file   *os.File
	data   []byte
	mapped bool
}

// Data returns the mapped bytes.
func (m *Map) Data() []byte {
	return m.data
}

// OpenReadOnly opens path and maps it read-only for its full size.
func OpenReadOnly(path string) (*Map, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	size := info.Size()
	if size == 0 {
		// mmap(2) rejects a zero-length mapping outright; an empty input
		// file has nothing to map, so hand back an empty, unmapped slice.
		return &Map{file: f, data: []byte{}}, nil
	}
	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &Map{file: f, data: data, mapped: true}, nil
}

// CreateExclusive creates path, failing if it already exists, truncates it
// to size, and maps it read-write.
func CreateExclusive(path string, size int64) (*Map, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, err
	}
	if err := f.Truncate(size); err != nil {
		f.Close()
		os.Remove(path)
		return nil, err
	}
	if size == 0 {
		return &Map{file: f, data: []byte{}}, nil
	}
	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		os.Remove(path)
		return nil, err
	}
	return &Map{file: f, data: data, mapped: true}, nil
}

// Sync flushes the mapped pages back to disk. A no-op for an unmapped
// (zero-length) Map.
func (m *Map) Sync() error {
	if !m.mapped {
		return nil
	}
	return unix.Msync(m.data, unix.MS_SYNC)
}

// Close unmaps the file and closes its descriptor. Callers should call
// Sync first if the mapping was writable.
func (m *Map) Close() error {
	var err error
	if m.mapped {
		err = unix.Munmap(m.data)
	}
	if cerr := m.file.Close(); err == nil {
		err = cerr
	}
	return err
}
