// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: Copyright The DuckDB Go Authors

package internal

/*
#include <duckdb.h>
*/
import "C"

import (
	"encoding/binary"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/duckdb-go/duckdb-go/pkg/contracts"
)

// hugeIntToBig reconstructs the signed 128-bit value from its upper and
// lower halves.
func hugeIntToBig(hi C.duckdb_hugeint) *big.Int {
	out := big.NewInt(int64(hi.upper))
	out.Lsh(out, 64)
	lower := new(big.Int).SetUint64(uint64(hi.lower))
	return out.Add(out, lower)
}

// bigToHugeInt splits x into upper and lower 64-bit halves, failing when it
// does not fit a signed 128-bit integer.
func bigToHugeInt(x *big.Int) (C.duckdb_hugeint, error) {
	if x.BitLen() > 127 {
		return C.duckdb_hugeint{}, contracts.NewErrorf(contracts.ErrTypeMismatch, "%s overflows HUGEINT", x)
	}
	var full [16]byte
	x.FillBytes(full[:])
	upper := int64(binary.BigEndian.Uint64(full[:8]))
	lower := binary.BigEndian.Uint64(full[8:])
	if x.Sign() < 0 {
		// FillBytes wrote the magnitude; negate in two's complement.
		lower = ^lower + 1
		upper = ^upper
		if lower == 0 {
			upper++
		}
	}
	return C.duckdb_hugeint{
		lower: C.uint64_t(lower),
		upper: C.int64_t(upper),
	}, nil
}

// The engine stores UUIDs as hugeints with the most significant bit flipped
// so that lexical and numeric ordering agree.

func uuidToHugeInt(u uuid.UUID) C.duckdb_hugeint {
	upper := binary.BigEndian.Uint64(u[:8]) ^ (1 << 63)
	lower := binary.BigEndian.Uint64(u[8:])
	return C.duckdb_hugeint{
		lower: C.uint64_t(lower),
		upper: C.int64_t(upper),
	}
}

func timeFromMicros(us int64) time.Time {
	return time.UnixMicro(us).UTC()
}

func hugeIntToUUID(hi C.duckdb_hugeint) uuid.UUID {
	var u uuid.UUID
	binary.BigEndian.PutUint64(u[:8], uint64(hi.upper)^(1<<63))
	binary.BigEndian.PutUint64(u[8:], uint64(hi.lower))
	return u
}
