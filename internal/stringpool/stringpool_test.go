// Copyright 2026 The asdb Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package stringpool

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAddDedup(t *testing.T) {
	p := New()

	off, err := p.Add("")
	require.NoError(t, err)
	require.EqualValues(t, 0, off)

	first, err := p.Add("IPFire Project")
	require.NoError(t, err)
	require.NotZero(t, first)

	other, err := p.Add("Another Org")
	require.NoError(t, err)
	require.NotEqual(t, first, other)

	again, err := p.Add("IPFire Project")
	require.NoError(t, err)
	require.Equal(t, first, again)

	s, err := p.Get(first)
	require.NoError(t, err)
	require.Equal(t, "IPFire Project", s)
}

func TestGetBounds(t *testing.T) {
	p := New()
	off, err := p.Add("abc")
	require.NoError(t, err)

	s, err := p.Get(0)
	require.NoError(t, err)
	require.Equal(t, "", s)

	s, err = p.Get(off)
	require.NoError(t, err)
	require.Equal(t, "abc", s)

	// offsets into the middle of a string resolve to its tail
	s, err = p.Get(off + 1)
	require.NoError(t, err)
	require.Equal(t, "bc", s)

	_, err = p.Get(off + 4)
	require.Error(t, err)
	_, err = p.Get(1 << 30)
	require.Error(t, err)
}

func TestAddRejectsNUL(t *testing.T) {
	p := New()
	_, err := p.Add("a\x00b")
	require.Error(t, err)
}

func TestLoad(t *testing.T) {
	blob := []byte("\x00vendor\x00description\x00")
	p, err := Load(bytes.NewReader(blob), 0, len(blob))
	require.NoError(t, err)

	s, err := p.Get(1)
	require.NoError(t, err)
	require.Equal(t, "vendor", s)

	s, err = p.Get(8)
	require.NoError(t, err)
	require.Equal(t, "description", s)

	// loaded pools cannot grow
	_, err = p.Add("more")
	require.ErrorIs(t, err, ErrReadOnly)
}

func TestLoadEmpty(t *testing.T) {
	p, err := Load(bytes.NewReader(nil), 0, 0)
	require.NoError(t, err)
	_, err = p.Get(0)
	require.Error(t, err)
}

func TestLoadRejectsUnterminated(t *testing.T) {
	blob := []byte("\x00not terminated")
	_, err := Load(bytes.NewReader(blob), 0, len(blob))
	require.Error(t, err)
}

func TestLoadRejectsShortRange(t *testing.T) {
	blob := []byte("\x00abc\x00")
	_, err := Load(bytes.NewReader(blob), 2, len(blob))
	require.Error(t, err)
}

func TestGetDoesNotAllocate(t *testing.T) {
	blob := []byte("\x00Test Vendor\x00")
	p, err := Load(bytes.NewReader(blob), 0, len(blob))
	require.NoError(t, err)

	allocs := testing.AllocsPerRun(10, func() {
		s, err := p.Get(1)
		if err != nil || s != "Test Vendor" {
			t.Fatal("unexpected resolution")
		}
	})
	require.Zero(t, allocs)
}
