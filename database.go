// Copyright 2026 The asdb Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package asdb

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"time"

	"golang.org/x/sys/unix"

	"github.com/asdb/asdb/internal/format"
	"github.com/asdb/asdb/internal/mmap"
	"github.com/asdb/asdb/internal/stringpool"
)

// Database is a read-only handle to an open database file.
//
// A handle owns a duplicated file descriptor, the string pool, and the
// memory-mapped AS section; all three live until the last reference is
// released with Unref.  Everything parsed at open time (version,
// section mappings, metadata offsets) is immutable afterwards, so
// lookups are safe to run concurrently from multiple goroutines
// sharing one handle.  Ref and Unref themselves are atomic, but no
// operation may be called once the reference count has reached zero.
type Database struct {
	ctx  *Context
	refs atomic.Int32

	// f is the duplicated descriptor, independent of the file the
	// caller passed to Open.
	f *os.File

	version     uint16
	createdAt   time.Time
	vendor      uint32 // string pool offsets, resolved lazily
	description uint32

	pool    *stringpool.Pool
	as      *mmap.Mapping
	asCount int
}

// Open reads and validates the database in f and returns a handle with
// a reference count of 1.  The file descriptor is duplicated, so the
// caller may close f at any time after Open returns.
//
// Open fails with ErrFormat if the file is shorter than the magic
// prologue, the signature does not match, or the header's section
// table does not fit the file; with ErrUnsupportedVersion if the magic
// declares an unknown version; and with a wrapped system error if
// duplication, reading, or mapping fails.  On failure no handle is
// returned and every partially acquired resource has been released.
func Open(ctx *Context, f *os.File) (*Database, error) {
	db := &Database{ctx: ctx.Ref()}
	db.refs.Store(1)

	if err := db.open(f); err != nil {
		db.free()
		return nil, err
	}

	return db, nil
}

func (db *Database) open(f *os.File) error {
	newfd, err := unix.Dup(int(f.Fd()))
	if err != nil {
		return fmt.Errorf("dup(%q): %w", f.Name(), err)
	}
	db.f = os.NewFile(uintptr(newfd), f.Name())

	if err := db.readMagic(); err != nil {
		return err
	}
	return db.readHeader()
}

func (db *Database) readMagic() error {
	buf := make([]byte, format.MagicSize)
	n, err := db.f.ReadAt(buf, 0)
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read magic: %w", err)
	}
	if n < format.MagicSize {
		return fmt.Errorf("%w: short read of magic (%d < %d bytes)", ErrFormat, n, format.MagicSize)
	}

	if !format.HasSignature(buf) {
		return fmt.Errorf("%w: bad signature", ErrFormat)
	}
	db.version = format.MagicVersion(buf)
	db.ctx.logger.Debug("validated database magic", "version", db.version)

	return nil
}

// readHeader dispatches on the version negotiated from the magic.
// Unknown versions fail before any further read.
func (db *Database) readHeader() error {
	switch db.version {
	case 0:
		return db.readHeaderV0()
	default:
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, db.version)
	}
}

func (db *Database) readHeaderV0() error {
	buf := make([]byte, format.HeaderV0Size)
	n, err := db.f.ReadAt(buf, int64(format.MagicSize))
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read header: %w", err)
	}
	if n < format.HeaderV0Size {
		return fmt.Errorf("%w: short read of v0 header (%d < %d bytes)", ErrFormat, n, format.HeaderV0Size)
	}
	h := format.DecodeHeaderV0(buf)

	db.createdAt = time.Unix(int64(h.CreatedAt), 0).UTC()
	db.vendor = h.Vendor
	db.description = h.Description

	// the header is untrusted input: make sure both sections really
	// live inside the file before touching them
	fi, err := db.f.Stat()
	if err != nil {
		return fmt.Errorf("stat: %w", err)
	}
	size := fi.Size()
	if int64(h.PoolOffset)+int64(h.PoolLength) > size {
		return fmt.Errorf("%w: string pool section [%d, %d) outside file of %d bytes",
			ErrFormat, h.PoolOffset, int64(h.PoolOffset)+int64(h.PoolLength), size)
	}
	if int64(h.ASOffset)+int64(h.ASLength) > size {
		return fmt.Errorf("%w: AS section [%d, %d) outside file of %d bytes",
			ErrFormat, h.ASOffset, int64(h.ASOffset)+int64(h.ASLength), size)
	}
	if h.ASLength%format.ASRecordV0Size != 0 {
		return fmt.Errorf("%w: AS section length %d is not a multiple of the %d-byte record size",
			ErrFormat, h.ASLength, format.ASRecordV0Size)
	}

	pool, err := stringpool.Load(db.f, int64(h.PoolOffset), int(h.PoolLength))
	if err != nil {
		return fmt.Errorf("load string pool: %w", err)
	}
	db.pool = pool

	m, err := mmap.Map(db.f, int64(h.ASOffset), int(h.ASLength))
	if err != nil {
		return fmt.Errorf("map AS section: %w", err)
	}
	db.as = m
	db.asCount = int(h.ASLength) / format.ASRecordV0Size
	db.ctx.logger.Debug("read AS section", "records", db.asCount)

	return nil
}

// Ref takes an additional reference and returns the same handle.
func (db *Database) Ref() *Database {
	db.refs.Add(1)
	return db
}

// Unref releases one reference.  When the count reaches zero the AS
// section is unmapped, the string pool and duplicated file are closed,
// and the handle must not be used again.
func (db *Database) Unref() {
	if db.refs.Add(-1) > 0 {
		return
	}
	db.free()
}

func (db *Database) free() {
	db.ctx.logger.Debug("releasing database")

	if db.as != nil {
		if err := db.as.Close(); err != nil {
			db.ctx.logger.Error("unmapping AS section", "err", err)
		}
		db.as = nil
	}
	db.pool = nil
	if db.f != nil {
		_ = db.f.Close()
		db.f = nil
	}

	db.ctx.Unref()
	db.ctx = nil
}

// Version returns the negotiated format version.
func (db *Database) Version() uint16 {
	return db.version
}

// CreatedAt returns the time the database was built.
func (db *Database) CreatedAt() time.Time {
	return db.createdAt
}

// Vendor resolves the vendor string from the string pool.
func (db *Database) Vendor() (string, error) {
	return db.pool.Get(db.vendor)
}

// Description resolves the description string from the string pool.
func (db *Database) Description() (string, error) {
	return db.pool.Get(db.description)
}

// CountAS returns the number of AS records in the database.
func (db *Database) CountAS() int {
	return db.asCount
}

// FetchAS decodes the record at the given position.  Positions outside
// [0, CountAS()) fail with ErrInvalidArgument.
func (db *Database) FetchAS(pos int) (*AS, error) {
	if pos < 0 || pos >= db.asCount {
		return nil, fmt.Errorf("%w: position %d out of range (%d records)", ErrInvalidArgument, pos, db.asCount)
	}

	raw := db.as.Data()[pos*format.ASRecordV0Size : (pos+1)*format.ASRecordV0Size]
	switch db.version {
	case 0:
		return newASv0(db.pool, raw), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, db.version)
	}
}

// GetAS binary-searches the AS section for the given number.  A miss
// is not an error: GetAS returns (nil, nil) when no record matches.
//
// Correctness depends on the writer's contract that records are sorted
// ascending by number; a database violating it yields wrong results,
// not crashes.
func (db *Database) GetAS(number uint32) (*AS, error) {
	lo, hi := 0, db.asCount-1

	for lo <= hi {
		mid := lo + (hi-lo)/2

		as, err := db.FetchAS(mid)
		if err != nil {
			return nil, err
		}

		n := as.Number()
		if n == number {
			return as, nil
		}
		if n < number {
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}

	return nil, nil
}
