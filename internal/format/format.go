// Copyright 2026 The asdb Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package format defines the on-disk layout of asdb database files and
// the encode/decode routines for each fixed-width structure.  All
// byte-order conversion happens here; the rest of the module works with
// host-native, named fields.
//
// A version-0 database looks like:
//
//	┌───────────────────┐
//	│ magic (6 bytes)   │  "ASDB" + big-endian uint16 version
//	├───────────────────┤
//	│ header (32 bytes) │  created_at, section table, vendor, description
//	├───────────────────┤
//	│ string pool       │  NUL-terminated strings, referenced by offset
//	├───────────────────┤
//	│ AS records        │  8 bytes each, sorted ascending by number
//	└───────────────────┘
//
// All multi-byte fields are big-endian (network byte order).
package format

import (
	"bytes"
	"encoding/binary"
)

const (
	// Signature identifies a file as an asdb database.  Only the
	// leading len(Signature) bytes of the magic are compared; the
	// version field that follows is interpreted separately.
	Signature = "ASDB"

	// MagicSize is the size of the magic prologue: the signature
	// followed by a 16-bit version.
	MagicSize = len(Signature) + 2

	// HeaderV0Size is the size of the version-0 header that
	// immediately follows the magic.
	HeaderV0Size = 32

	// ASRecordV0Size is the fixed width of one version-0 AS record.
	ASRecordV0Size = 8
)

// HasSignature reports whether buf starts with the database signature.
// buf must be at least MagicSize bytes.
func HasSignature(buf []byte) bool {
	return bytes.HasPrefix(buf, []byte(Signature))
}

// MagicVersion decodes the format version from a magic prologue whose
// signature has already been checked.
func MagicVersion(buf []byte) uint16 {
	return binary.BigEndian.Uint16(buf[len(Signature):MagicSize])
}

// PutMagic encodes the magic prologue into buf, which must be at least
// MagicSize bytes.
func PutMagic(buf []byte, version uint16) {
	copy(buf, Signature)
	binary.BigEndian.PutUint16(buf[len(Signature):MagicSize], version)
}

// HeaderV0 is the decoded version-0 header.  Offsets and lengths are in
// bytes from the start of the file; Vendor and Description are string
// pool offsets.
type HeaderV0 struct {
	CreatedAt   uint64 // unix seconds
	PoolOffset  uint32
	PoolLength  uint32
	ASOffset    uint32
	ASLength    uint32
	Vendor      uint32
	Description uint32
}

// DecodeHeaderV0 decodes a version-0 header.  buf must be at least
// HeaderV0Size bytes.
func DecodeHeaderV0(buf []byte) HeaderV0 {
	_ = buf[HeaderV0Size-1]
	return HeaderV0{
		CreatedAt:   binary.BigEndian.Uint64(buf[0:8]),
		PoolOffset:  binary.BigEndian.Uint32(buf[8:12]),
		PoolLength:  binary.BigEndian.Uint32(buf[12:16]),
		ASOffset:    binary.BigEndian.Uint32(buf[16:20]),
		ASLength:    binary.BigEndian.Uint32(buf[20:24]),
		Vendor:      binary.BigEndian.Uint32(buf[24:28]),
		Description: binary.BigEndian.Uint32(buf[28:32]),
	}
}

// Encode writes the header into buf, which must be at least
// HeaderV0Size bytes.
func (h HeaderV0) Encode(buf []byte) {
	_ = buf[HeaderV0Size-1]
	binary.BigEndian.PutUint64(buf[0:8], h.CreatedAt)
	binary.BigEndian.PutUint32(buf[8:12], h.PoolOffset)
	binary.BigEndian.PutUint32(buf[12:16], h.PoolLength)
	binary.BigEndian.PutUint32(buf[16:20], h.ASOffset)
	binary.BigEndian.PutUint32(buf[20:24], h.ASLength)
	binary.BigEndian.PutUint32(buf[24:28], h.Vendor)
	binary.BigEndian.PutUint32(buf[28:32], h.Description)
}

// ASRecordV0 is one decoded AS record.  Name is a string pool offset.
type ASRecordV0 struct {
	Number uint32
	Name   uint32
}

// DecodeASRecordV0 decodes one AS record.  buf must be at least
// ASRecordV0Size bytes.
func DecodeASRecordV0(buf []byte) ASRecordV0 {
	_ = buf[ASRecordV0Size-1]
	return ASRecordV0{
		Number: binary.BigEndian.Uint32(buf[0:4]),
		Name:   binary.BigEndian.Uint32(buf[4:8]),
	}
}

// Encode writes the record into buf, which must be at least
// ASRecordV0Size bytes.
func (r ASRecordV0) Encode(buf []byte) {
	_ = buf[ASRecordV0Size-1]
	binary.BigEndian.PutUint32(buf[0:4], r.Number)
	binary.BigEndian.PutUint32(buf[4:8], r.Name)
}
