// Copyright 2026 The asdb Authors. All rights reserved.
// Use of this source code is governed by the MIT License
// that can be found in the LICENSE file.

package asdb

import (
	"fmt"

	"github.com/asdb/asdb/internal/format"
	"github.com/asdb/asdb/internal/stringpool"
)

// AS is a decoded autonomous-system record.
//
// An AS borrows the string pool of the Database that produced it: it
// must not be used after that handle's last reference is released.
type AS struct {
	number uint32
	name   uint32 // string pool offset, resolved lazily
	pool   *stringpool.Pool
}

func newASv0(pool *stringpool.Pool, raw []byte) *AS {
	rec := format.DecodeASRecordV0(raw)
	return &AS{
		number: rec.Number,
		name:   rec.Name,
		pool:   pool,
	}
}

// Number returns the autonomous-system number.
func (a *AS) Number() uint32 {
	return a.number
}

// Name resolves the organization name from the string pool.
func (a *AS) Name() (string, error) {
	return a.pool.Get(a.name)
}

func (a *AS) String() string {
	name, err := a.Name()
	if err != nil || name == "" {
		return fmt.Sprintf("AS%d", a.number)
	}
	return fmt.Sprintf("AS%d (%s)", a.number, name)
}
