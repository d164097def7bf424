// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: Copyright The DuckDB Go Authors

package internal

import (
	"math/big"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestHugeIntRoundTrip(t *testing.T) {
	maxHuge, _ := new(big.Int).SetString("170141183460469231731687303715884105727", 10)
	minHuge := new(big.Int).Neg(maxHuge)

	cases := []*big.Int{
		big.NewInt(0),
		big.NewInt(1),
		big.NewInt(-1),
		big.NewInt(1 << 62),
		new(big.Int).Lsh(big.NewInt(1), 100),
		new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 100)),
		maxHuge,
		minHuge,
	}

	for _, want := range cases {
		hi, err := bigToHugeInt(want)
		if err != nil {
			t.Fatalf("bigToHugeInt(%s) failed: %v", want, err)
		}
		got := hugeIntToBig(hi)
		if got.Cmp(want) != 0 {
			t.Fatalf("round trip for %s: got %s", want, got)
		}
	}
}

func TestHugeIntOverflow(t *testing.T) {
	tooBig := new(big.Int).Lsh(big.NewInt(1), 127)
	if _, err := bigToHugeInt(tooBig); err == nil {
		t.Fatalf("Expected overflow for 2^127")
	}
}

func TestUUIDHugeIntRoundTrip(t *testing.T) {
	cases := []uuid.UUID{
		uuid.Nil,
		uuid.MustParse("a0eebc99-9c0b-4ef8-bb6d-6bb9bd380a11"),
		uuid.MustParse("ffffffff-ffff-ffff-ffff-ffffffffffff"),
		uuid.MustParse("00000000-0000-0000-0000-000000000001"),
		uuid.MustParse("80000000-0000-0000-0000-000000000000"),
	}

	for _, want := range cases {
		got := hugeIntToUUID(uuidToHugeInt(want))
		assert.Equal(t, want, got)
	}
}

func TestUUIDOrderingBitFlip(t *testing.T) {
	// The sign-bit flip keeps numeric ordering aligned with byte ordering:
	// a UUID starting 0x00.. must map below one starting 0xff...
	low := hugeIntToBig(uuidToHugeInt(uuid.MustParse("00000000-0000-0000-0000-000000000000")))
	high := hugeIntToBig(uuidToHugeInt(uuid.MustParse("ffffffff-ffff-ffff-ffff-ffffffffffff")))

	if low.Cmp(high) >= 0 {
		t.Fatalf("expected flipped encoding to preserve order: %s vs %s", low, high)
	}
}

func TestMicrosSinceMidnight(t *testing.T) {
	ts := timeFromMicros(45_296_789_000) // 12:34:56.789 on 1970-01-01
	assert.Equal(t, int64(45_296_789_000), microsSinceMidnight(ts))
}
