// Copyright 2024 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package chunkio holds the mmap-backed random-access helper shared by
// every backend that opens a sidecar binary payload file directly
// (imzML's ibd file), generalized from a single whole-file mmap.MMap
// field and the mmap.Map(f, mmap.RDONLY, 0) call in file.go.
package chunkio

import (
	"fmt"
	"os"

	mmap "github.com/edsrzf/mmap-go"
)

// MappedFile is a read-only memory-mapped file with range-fetch access,
// the same shape pe.File used for its whole-PE mmap but scoped to a
// single sidecar payload file.
type MappedFile struct {
	f    *os.File
	data mmap.MMap
}

// OpenReadOnly memory-maps path for reading.
func OpenReadOnly(path string) (*MappedFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("chunkio: opening %s: %w", path, err)
	}
	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("chunkio: mapping %s: %w", path, err)
	}
	return &MappedFile{f: f, data: data}, nil
}

// Size reports the mapped file's length in bytes.
func (m *MappedFile) Size() int64 { return int64(len(m.data)) }

// ReadRange copies [offset, offset+length) into a freshly allocated
// slice, failing if the range exceeds the mapped file's bounds.
func (m *MappedFile) ReadRange(offset, length int64) ([]byte, error) {
	if offset < 0 || length < 0 || offset+length > int64(len(m.data)) {
		return nil, fmt.Errorf("chunkio: range [%d:%d) exceeds file size %d", offset, offset+length, len(m.data))
	}
	out := make([]byte, length)
	copy(out, m.data[offset:offset+length])
	return out, nil
}

// Close unmaps and closes the underlying file.
func (m *MappedFile) Close() error {
	if err := m.data.Unmap(); err != nil {
		return err
	}
	return m.f.Close()
}
