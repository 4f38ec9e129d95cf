// Copyright 2026 The asdb Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package mmap maps byte ranges of database files read-only into
// memory, so record lookups read file-resident bytes without copying.
package mmap

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Mapping is a read-only, shared view of a byte range of a file.
// Multiple goroutines may read the mapped bytes concurrently; nothing
// ever writes through the mapping.
type Mapping struct {
	// raw is the page-aligned region returned by mmap; it is what
	// gets unmapped, at its exact original length.
	raw []byte
	// data is the requested [off, off+length) window into raw.
	data []byte
}

// Map maps length bytes of f starting at off.  The offset does not
// need to be page aligned; alignment is handled internally.  A zero
// length is valid and produces an empty mapping with nothing to unmap.
func Map(f *os.File, off int64, length int) (*Mapping, error) {
	if length == 0 {
		return &Mapping{}, nil
	}
	if off < 0 || length < 0 {
		return nil, fmt.Errorf("mmap: negative range (off %d, len %d)", off, length)
	}

	pagesize := int64(os.Getpagesize())
	aligned := off &^ (pagesize - 1)
	shift := int(off - aligned)

	raw, err := unix.Mmap(int(f.Fd()), aligned, shift+length, unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmap(off: %d, len: %d): %w", off, length, err)
	}
	// lookups binary-search the mapped records, so access is random
	if err := unix.Madvise(raw, unix.MADV_RANDOM); err != nil {
		_ = unix.Munmap(raw)
		return nil, fmt.Errorf("madvise: %w", err)
	}

	return &Mapping{
		raw:  raw,
		data: raw[shift : shift+length],
	}, nil
}

// Data returns the mapped window.  The slice is only valid until Close.
func (m *Mapping) Data() []byte {
	return m.data
}

// Len returns the length of the mapped window in bytes.
func (m *Mapping) Len() int {
	return len(m.data)
}

// Close unmaps the region.  It unmaps exactly the length originally
// mapped, and calling it more than once is safe.
func (m *Mapping) Close() error {
	m.data = nil
	if m.raw == nil {
		return nil
	}
	raw := m.raw
	m.raw = nil
	if err := unix.Munmap(raw); err != nil {
		return fmt.Errorf("munmap: %w", err)
	}
	return nil
}
