// Copyright 2026 The asdb Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package asdb

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/asdb/asdb/internal/format"
	"github.com/asdb/asdb/internal/stringpool"
)

// Writer builds a database file.  Strings are interned into a shared
// pool as they are added; Write emits a version-0 file with the AS
// records sorted ascending by number, as Database.GetAS requires.
//
// A Writer is not safe for concurrent use.
type Writer struct {
	ctx *Context

	pool        *stringpool.Pool
	vendor      uint32
	description uint32

	// AS number -> name pool offset; adding a number twice keeps
	// the latest name
	entries map[uint32]uint32
}

// NewWriter returns an empty Writer.  The Writer borrows ctx for
// logging and does not take a reference on it.
func NewWriter(ctx *Context) *Writer {
	return &Writer{
		ctx:     ctx,
		pool:    stringpool.New(),
		entries: make(map[uint32]uint32),
	}
}

// SetVendor interns s as the database's vendor string.
func (w *Writer) SetVendor(s string) error {
	off, err := w.pool.Add(s)
	if err != nil {
		return err
	}
	w.vendor = off
	return nil
}

// Vendor returns the vendor string set so far.
func (w *Writer) Vendor() (string, error) {
	return w.pool.Get(w.vendor)
}

// SetDescription interns s as the database's description string.
func (w *Writer) SetDescription(s string) error {
	off, err := w.pool.Add(s)
	if err != nil {
		return err
	}
	w.description = off
	return nil
}

// Description returns the description string set so far.
func (w *Writer) Description() (string, error) {
	return w.pool.Get(w.description)
}

// AddAS records an autonomous system.  Adding the same number again
// replaces its name.
func (w *Writer) AddAS(number uint32, name string) error {
	off, err := w.pool.Add(name)
	if err != nil {
		return err
	}
	w.entries[number] = off
	return nil
}

// CountAS returns the number of distinct AS numbers added so far.
func (w *Writer) CountAS() int {
	return len(w.entries)
}

// Write emits the database to out.  The layout is magic, header,
// string pool, then the sorted AS section.
func (w *Writer) Write(out io.Writer) error {
	records := make([]format.ASRecordV0, 0, len(w.entries))
	for number, name := range w.entries {
		records = append(records, format.ASRecordV0{Number: number, Name: name})
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Number < records[j].Number
	})

	poolBytes := w.pool.Bytes()
	poolOffset := uint32(format.MagicSize + format.HeaderV0Size)
	h := format.HeaderV0{
		CreatedAt:   uint64(time.Now().Unix()),
		PoolOffset:  poolOffset,
		PoolLength:  uint32(len(poolBytes)),
		ASOffset:    poolOffset + uint32(len(poolBytes)),
		ASLength:    uint32(len(records)) * format.ASRecordV0Size,
		Vendor:      w.vendor,
		Description: w.description,
	}

	bw := bufio.NewWriter(out)

	var magicBuf [format.MagicSize]byte
	format.PutMagic(magicBuf[:], 0)
	if _, err := bw.Write(magicBuf[:]); err != nil {
		return fmt.Errorf("write magic: %w", err)
	}

	var headerBuf [format.HeaderV0Size]byte
	h.Encode(headerBuf[:])
	if _, err := bw.Write(headerBuf[:]); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	if _, err := bw.Write(poolBytes); err != nil {
		return fmt.Errorf("write string pool: %w", err)
	}

	var recordBuf [format.ASRecordV0Size]byte
	for _, rec := range records {
		rec.Encode(recordBuf[:])
		if _, err := bw.Write(recordBuf[:]); err != nil {
			return fmt.Errorf("write AS record: %w", err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	w.ctx.logger.Debug("wrote database",
		"records", len(records), "pool_bytes", len(poolBytes))

	return nil
}

// WriteFile emits the database to path: it writes to a temp file in
// the destination directory, syncs, marks it read-only, and atomically
// renames it into place.
func (w *Writer) WriteFile(path string) error {
	path, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("filepath.Abs: %w", err)
	}
	f, err := os.CreateTemp(filepath.Dir(path), "asdb-writer.*.db")
	if err != nil {
		return fmt.Errorf("os.CreateTemp: %w", err)
	}

	if err := w.Write(f); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return fmt.Errorf("f.Sync: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(f.Name())
		return fmt.Errorf("f.Close: %w", err)
	}

	// the database is immutable once built
	if err := os.Chmod(f.Name(), 0444); err != nil {
		_ = os.Remove(f.Name())
		return fmt.Errorf("os.Chmod(0444): %w", err)
	}
	if err := os.Rename(f.Name(), path); err != nil {
		_ = os.Remove(f.Name())
		return fmt.Errorf("os.Rename: %w", err)
	}

	return nil
}
