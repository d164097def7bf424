// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: Copyright The DuckDB Go Authors

package contracts

import (
	"time"

	"github.com/google/uuid"
)

// IChunk is one fixed-capacity columnar batch. Table functions write output
// through it; result streaming reads through it. The validity mask always
// spans the row count; a NULL entry's data slot is unspecified.
type IChunk interface {
	// Capacity is the engine-defined maximum rows per chunk.
	Capacity() int

	// Size is the number of valid rows currently in the chunk.
	Size() int

	// SetSize declares the number of rows written. Table function produce
	// callbacks must call this; zero signals end of data.
	SetSize(n int)

	ColumnCount() int

	// Column returns the writable vector for the given column.
	Column(index int) IVector
}

// IVector is one column within a chunk: a logical type, a validity mask and
// raw data. Setters check the vector's logical-type tag and fail with a
// type-mismatch error on incompatible writes.
type IVector interface {
	Type() LogicalType

	// SetNull marks the row NULL in the validity mask.
	SetNull(row int)

	SetBool(row int, v bool) error
	SetInt8(row int, v int8) error
	SetInt16(row int, v int16) error
	SetInt32(row int, v int32) error
	SetInt64(row int, v int64) error
	SetUint8(row int, v uint8) error
	SetUint16(row int, v uint16) error
	SetUint32(row int, v uint32) error
	SetUint64(row int, v uint64) error
	SetFloat32(row int, v float32) error
	SetFloat64(row int, v float64) error
	SetString(row int, v string) error
	SetBytes(row int, v []byte) error
	SetTime(row int, v time.Time) error
	SetUUID(row int, v uuid.UUID) error
	SetInterval(row int, v Interval) error

	// SetEnum writes the dictionary index of an enum member.
	SetEnum(row int, member string) error

	// SetValue encodes v dynamically: nil or Null writes NULL, slices
	// write lists, map[string]any writes structs. Values implementing
	// no fixed representation fail with a type-mismatch error.
	SetValue(row int, v any) error

	// ListChild returns the child vector of a LIST vector, reserving
	// capacity entries.
	ListChild(capacity int) (IVector, error)

	// SetListEntry records the child offset and length backing row.
	SetListEntry(row, offset, length int) error

	// SetListSize declares the total child length of a LIST vector.
	SetListSize(n int) error

	// StructChild returns the child vector of a STRUCT vector field.
	StructChild(index int) (IVector, error)
}
