// Copyright 2026 The asdb Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package unsafestring

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToBytes(t *testing.T) {
	for _, input := range []string{
		"",
		"abc",
		"😀",
	} {
		allocs := testing.AllocsPerRun(1, func() {
			initialLen := len(input)
			b := ToBytes(input)
			if input != string(b) {
				t.Fatal("expected contents equal")
			}
			if initialLen != len(b) {
				t.Fatal("expected lens equal")
			}
		})
		require.Zero(t, allocs)
	}
}

func TestFromBytes(t *testing.T) {
	for _, input := range [][]byte{
		nil,
		{},
		[]byte("Test Vendor"),
		[]byte("😀"),
	} {
		allocs := testing.AllocsPerRun(1, func() {
			s := FromBytes(input)
			if string(input) != s {
				t.Fatal("expected contents equal")
			}
			if len(input) != len(s) {
				t.Fatal("expected lens equal")
			}
		})
		require.Zero(t, allocs)
	}
}
