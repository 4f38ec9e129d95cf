// Copyright 2026 The asdb Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package asdb

import (
	"errors"
)

var (
	// ErrFormat reports structurally invalid input: a short read of
	// the magic or header, a signature mismatch, or section bounds
	// that don't fit the file.
	ErrFormat = errors.New("asdb: malformed database")

	// ErrUnsupportedVersion reports a well-formed magic that
	// declares a format version this library cannot read.
	ErrUnsupportedVersion = errors.New("asdb: unsupported database version")

	// ErrInvalidArgument reports a caller-supplied record position
	// outside the valid range.
	ErrInvalidArgument = errors.New("asdb: invalid argument")
)
