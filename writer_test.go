// Copyright 2026 The asdb Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package asdb

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/asdb/asdb/internal/format"
)

func TestWriterMetadataGetters(t *testing.T) {
	ctx := NewContext()
	defer ctx.Unref()

	w := NewWriter(ctx)

	vendor, err := w.Vendor()
	require.NoError(t, err)
	require.Equal(t, "", vendor)

	require.NoError(t, w.SetVendor("Test Vendor"))
	require.NoError(t, w.SetDescription("a test database"))

	vendor, err = w.Vendor()
	require.NoError(t, err)
	require.Equal(t, "Test Vendor", vendor)

	description, err := w.Description()
	require.NoError(t, err)
	require.Equal(t, "a test database", description)
}

func TestWriterSortsRecords(t *testing.T) {
	ctx := NewContext()
	defer ctx.Unref()

	w := NewWriter(ctx)
	for _, number := range []uint32{500, 3, 77, 900, 12} {
		require.NoError(t, w.AddAS(number, "org"))
	}

	var buf bytes.Buffer
	require.NoError(t, w.Write(&buf))

	out := buf.Bytes()
	require.True(t, format.HasSignature(out))
	h := format.DecodeHeaderV0(out[format.MagicSize:])
	require.EqualValues(t, 5*format.ASRecordV0Size, h.ASLength)

	var prev uint32
	for i := 0; i < 5; i++ {
		rec := format.DecodeASRecordV0(out[int(h.ASOffset)+i*format.ASRecordV0Size:])
		if i > 0 {
			require.Greater(t, rec.Number, prev)
		}
		prev = rec.Number
	}
}

func TestWriterLastAddWins(t *testing.T) {
	ctx := NewContext()
	defer ctx.Unref()

	w := NewWriter(ctx)
	require.NoError(t, w.AddAS(64512, "old name"))
	require.NoError(t, w.AddAS(64512, "new name"))
	require.Equal(t, 1, w.CountAS())

	path := filepath.Join(t.TempDir(), "dup.db")
	require.NoError(t, w.WriteFile(path))

	ctx2, db := openTestDB(t, path)
	defer ctx2.Unref()
	defer db.Unref()

	require.Equal(t, 1, db.CountAS())
	as, err := db.GetAS(64512)
	require.NoError(t, err)
	require.NotNil(t, as)
	name, err := as.Name()
	require.NoError(t, err)
	require.Equal(t, "new name", name)
}

func TestWriterInternsDuplicateNames(t *testing.T) {
	ctx := NewContext()
	defer ctx.Unref()

	w := NewWriter(ctx)
	require.NoError(t, w.AddAS(1, "Shared Org"))
	require.NoError(t, w.AddAS(2, "Shared Org"))

	var buf bytes.Buffer
	require.NoError(t, w.Write(&buf))

	out := buf.Bytes()
	h := format.DecodeHeaderV0(out[format.MagicSize:])
	first := format.DecodeASRecordV0(out[h.ASOffset:])
	second := format.DecodeASRecordV0(out[int(h.ASOffset)+format.ASRecordV0Size:])
	require.Equal(t, first.Name, second.Name)

	// the pool holds the shared string once
	require.EqualValues(t, 1+len("Shared Org")+1, h.PoolLength)
}

func TestWriteFileReadOnlyAndAtomic(t *testing.T) {
	ctx := NewContext()
	defer ctx.Unref()

	w := NewWriter(ctx)
	require.NoError(t, w.SetVendor("v"))
	require.NoError(t, w.AddAS(1, "one"))

	dir := t.TempDir()
	path := filepath.Join(dir, "out.db")
	require.NoError(t, w.WriteFile(path))

	fi, err := os.Stat(path)
	require.NoError(t, err)
	require.EqualValues(t, 0444, fi.Mode().Perm())

	// no writer temp files left behind
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	ctx2, db := openTestDB(t, path)
	defer ctx2.Unref()
	defer db.Unref()
	require.Equal(t, 1, db.CountAS())
}

func TestWriterRejectsNULBytes(t *testing.T) {
	ctx := NewContext()
	defer ctx.Unref()

	w := NewWriter(ctx)
	require.Error(t, w.SetVendor("bad\x00vendor"))
	require.Error(t, w.AddAS(1, "bad\x00name"))
}
