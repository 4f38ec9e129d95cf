// Copyright 2026 The asdb Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package stringpool implements the interned-string section of a
// database file: an append-only blob of NUL-terminated strings,
// referenced elsewhere by byte offset instead of inline copies.
//
// A pool is either loaded from a file range (read-only, the common
// case) or built up in memory by the database writer.  Offset 0 always
// resolves to the empty string.
package stringpool

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/dgryski/go-farm"

	"github.com/asdb/asdb/internal/unsafestring"
)

var (
	ErrReadOnly = errors.New("stringpool: pool was loaded from a file and is read-only")
)

// Pool holds the string blob.  Get is safe for concurrent use; Add is
// not.
type Pool struct {
	data []byte

	// index maps a 64-bit hash of a string to the pool offsets of
	// candidate matches, so Add can intern duplicates without
	// storing every string twice.  nil for loaded pools.
	index map[uint64][]uint32
}

// New returns an empty writable pool.  The pool starts with a single
// NUL byte so that offset 0 is the empty string.
func New() *Pool {
	return &Pool{
		data:  []byte{0},
		index: make(map[uint64][]uint32),
	}
}

// Load reads a pool from the byte range [off, off+length) of r.  The
// returned pool is read-only.  A zero-length range is a valid, empty
// pool.
func Load(r io.ReaderAt, off int64, length int) (*Pool, error) {
	if length < 0 || off < 0 {
		return nil, fmt.Errorf("stringpool: negative range (off %d, len %d)", off, length)
	}
	if length == 0 {
		return &Pool{}, nil
	}

	data := make([]byte, length)
	if n, err := r.ReadAt(data, off); n < length {
		if err == nil || err == io.EOF {
			err = fmt.Errorf("short read (%d < %d bytes)", n, length)
		}
		return nil, fmt.Errorf("stringpool: read at %d: %w", off, err)
	}
	if data[length-1] != 0 {
		return nil, fmt.Errorf("stringpool: pool of %d bytes is not NUL-terminated", length)
	}

	return &Pool{data: data}, nil
}

// Get resolves a pool offset to the string stored there.  The returned
// string aliases the pool's backing bytes and must not outlive it.
func (p *Pool) Get(off uint32) (string, error) {
	if uint64(off) >= uint64(len(p.data)) {
		return "", fmt.Errorf("stringpool: offset %d out of range (pool is %d bytes)", off, len(p.data))
	}
	end := bytes.IndexByte(p.data[off:], 0)
	if end < 0 {
		return "", fmt.Errorf("stringpool: string at offset %d is not NUL-terminated", off)
	}
	return unsafestring.FromBytes(p.data[off : int(off)+end]), nil
}

// Add interns s and returns its offset.  Adding a string that is
// already in the pool returns the existing offset.
func (p *Pool) Add(s string) (uint32, error) {
	if p.index == nil {
		return 0, ErrReadOnly
	}
	if s == "" {
		return 0, nil
	}
	if bytes.IndexByte(unsafestring.ToBytes(s), 0) >= 0 {
		return 0, fmt.Errorf("stringpool: string %q contains a NUL byte", s)
	}

	h := farm.Hash64(unsafestring.ToBytes(s))
	for _, off := range p.index[h] {
		// hash collisions are possible, verify the actual bytes
		if existing, err := p.Get(off); err == nil && existing == s {
			return off, nil
		}
	}

	off := uint64(len(p.data))
	if off+uint64(len(s))+1 > math.MaxUint32 {
		return 0, fmt.Errorf("stringpool: pool too large to address %q with a 32-bit offset", s)
	}
	p.data = append(p.data, s...)
	p.data = append(p.data, 0)
	p.index[h] = append(p.index[h], uint32(off))

	return uint32(off), nil
}

// Bytes returns the serialized pool.
func (p *Pool) Bytes() []byte {
	return p.data
}
