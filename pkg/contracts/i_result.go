// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: Copyright The DuckDB Go Authors

package contracts

import (
	"time"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/google/uuid"
)

// IResult owns the data produced by one execution. Chunks are pulled from
// the engine lazily, one at a time, in the engine's native order.
type IResult interface {
	ColumnCount() int
	ColumnName(index int) string
	ColumnType(index int) LogicalType

	// RowsChanged reports the affected row count for DML statements.
	RowsChanged() int64

	// FetchChunk pulls the next columnar batch. It returns (nil, nil)
	// when the result is exhausted; exhaustion is not an error. Chunks
	// already fetched remain valid if a later fetch fails.
	FetchChunk() (IChunk, error)

	// Rows adapts the remaining chunks into a row cursor. The stream is
	// finite and non-restartable: consuming it twice requires
	// re-executing the statement.
	Rows() IRows

	// ReadAll drains the remaining chunks into Arrow records.
	ReadAll() ([]arrow.Record, error)

	// Close releases the native result and any live chunk. Idempotent.
	Close() error
}

// IRows is a lazy, forward-only row cursor over a result. Within the
// current chunk access is random by column; advancing past the last chunk
// ends iteration cleanly.
type IRows interface {
	// Next advances to the next row, pulling the next chunk when the
	// current one is drained. It returns false at end of data or on
	// error; check Err afterwards.
	Next() bool

	// Err reports the first error encountered while streaming.
	Err() error

	ColumnCount() int
	ColumnName(index int) string
	ColumnType(index int) LogicalType

	// IsNull reports whether the column is NULL in the current row. The
	// data slot of a NULL entry is unspecified and is never read.
	IsNull(index int) bool

	// Typed getters. Each checks the column's logical-type tag first and
	// fails with a type-mismatch error instead of reinterpreting bytes.
	GetBool(index int) (bool, error)
	GetInt8(index int) (int8, error)
	GetInt16(index int) (int16, error)
	GetInt32(index int) (int32, error)
	GetInt64(index int) (int64, error)
	GetUint8(index int) (uint8, error)
	GetUint16(index int) (uint16, error)
	GetUint32(index int) (uint32, error)
	GetUint64(index int) (uint64, error)
	GetFloat32(index int) (float32, error)
	GetFloat64(index int) (float64, error)
	GetString(index int) (string, error)
	GetBytes(index int) ([]byte, error)
	GetTime(index int) (time.Time, error)
	GetUUID(index int) (uuid.UUID, error)
	GetInterval(index int) (Interval, error)
	GetDecimal(index int) (Decimal, error)

	// GetValue decodes the column dynamically: NULL becomes nil, lists
	// become []any, structs become map[string]any, enums become their
	// member string.
	GetValue(index int) (any, error)

	// Scan decodes the current row into dest, one target per column read.
	// Targets are pointers to the fixed primitive representations or
	// implementations of ColumnScanner.
	Scan(dest ...any) error

	// Close stops iteration early and releases the underlying result.
	Close() error
}
