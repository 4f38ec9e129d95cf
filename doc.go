// Copyright 2026 The asdb Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

// Package asdb reads and writes a compact, versioned binary database
// mapping autonomous-system numbers to descriptive records.
//
// A database is built once with a Writer and distributed as an
// immutable file.  Open validates the file's magic and version, parses
// the version-specific header, loads the interned-string pool, and
// memory-maps the fixed-width AS-record array so that lookups read
// file-resident bytes directly.  GetAS binary-searches the mapped
// records, which the writer stores sorted ascending by AS number.
//
// Handles are reference counted: Open returns a Database with one
// reference, Ref takes another, and the mapping, string pool, and
// duplicated file descriptor are released when the last reference is
// dropped with Unref.
package asdb
