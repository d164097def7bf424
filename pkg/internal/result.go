// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: Copyright The DuckDB Go Authors

package internal

/*
#include <duckdb.h>
*/
import "C"

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/duckdb-go/duckdb-go/pkg/contracts"
)

// resultError converts the failure recorded in a native result into a typed
// error. An interrupt that raced a context cancellation carries the context
// error as its cause.
func resultError(res *C.duckdb_result, ctx context.Context) error {
	msg := C.GoString(C.duckdb_result_error(res))
	if msg == "" {
		msg = "unknown error"
	}
	if C.duckdb_result_error_type(res) == C.DUCKDB_ERROR_INTERRUPT && ctx != nil && ctx.Err() != nil {
		return contracts.WrapError(contracts.ErrExecution, ctx.Err(), "query canceled")
	}
	return contracts.NewErrorf(contracts.ErrExecution, "query failed: %s", msg)
}

// Result wraps one native query result. Chunks stream out through FetchChunk
// exactly once each; the result owns the native handle until Close.
type Result struct {
	res    C.duckdb_result
	mu     sync.Mutex
	closed bool
	types  []contracts.LogicalType
}

var _ contracts.IResult = (*Result)(nil)

func newResult(res C.duckdb_result) *Result {
	return &Result{res: res}
}

func (r *Result) ColumnCount() int {
	return int(C.duckdb_column_count(&r.res))
}

func (r *Result) ColumnName(index int) string {
	return C.GoString(C.duckdb_column_name(&r.res, C.idx_t(index)))
}

func (r *Result) ColumnType(index int) contracts.LogicalType {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.types == nil {
		count := r.ColumnCount()
		r.types = make([]contracts.LogicalType, count)
		for i := 0; i < count; i++ {
			lt := C.duckdb_column_logical_type(&r.res, C.idx_t(i))
			r.types[i] = describeLogicalType(lt)
			destroyLogicalType(&lt)
		}
	}
	return r.types[index]
}

// RowsChanged reports the affected row count of a data-changing statement.
func (r *Result) RowsChanged() int64 {
	return int64(C.duckdb_rows_changed(&r.res))
}

// FetchChunk returns the next chunk of rows, or (nil, nil) once the result
// is exhausted. The caller observes each chunk exactly once.
func (r *Result) FetchChunk() (contracts.IChunk, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil, contracts.NewError(contracts.ErrResource, "result is closed")
	}

	chunk := C.duckdb_fetch_chunk(r.res)
	if chunk == nil {
		return nil, nil
	}
	return newChunk(chunk, true), nil
}

// Rows returns a forward-only cursor over this result. The cursor takes
// over chunk consumption; do not mix it with FetchChunk.
func (r *Result) Rows() contracts.IRows {
	return &Rows{result: r}
}

// Close releases the native result. Idempotent.
func (r *Result) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true
	C.duckdb_destroy_result(&r.res)
	return nil
}

// Rows is a non-restartable forward cursor. Next advances through the
// result chunk by chunk; once it reports false it never reports true again.
type Rows struct {
	result *Result
	chunk  *Chunk
	row    int
	done   bool
	err    error
}

var _ contracts.IRows = (*Rows)(nil)

// Next advances to the next row, fetching the next chunk when the current
// one is drained.
func (r *Rows) Next() bool {
	if r.done {
		return false
	}
	if r.chunk != nil {
		r.row++
		if r.row < r.chunk.Size() {
			return true
		}
		r.chunk.close()
		r.chunk = nil
	}
	for {
		chunk, err := r.result.FetchChunk()
		if err != nil {
			r.err = err
			r.done = true
			return false
		}
		if chunk == nil {
			r.done = true
			return false
		}
		c := chunk.(*Chunk)
		if c.Size() == 0 {
			c.close()
			continue
		}
		r.chunk = c
		r.row = 0
		return true
	}
}

func (r *Rows) Err() error { return r.err }

func (r *Rows) ColumnCount() int { return r.result.ColumnCount() }

func (r *Rows) ColumnName(index int) string { return r.result.ColumnName(index) }

func (r *Rows) ColumnType(index int) contracts.LogicalType { return r.result.ColumnType(index) }

func (r *Rows) vector(index int) (*Vector, error) {
	if r.chunk == nil {
		return nil, contracts.NewError(contracts.ErrResource, "no current row")
	}
	if index < 0 || index >= r.chunk.ColumnCount() {
		return nil, contracts.NewErrorf(contracts.ErrResource, "column index %d out of range", index)
	}
	return r.chunk.column(index), nil
}

func (r *Rows) IsNull(index int) bool {
	v, err := r.vector(index)
	if err != nil {
		return true
	}
	return v.isNull(r.row)
}

func (r *Rows) GetBool(index int) (bool, error) {
	v, err := r.vector(index)
	if err != nil {
		return false, err
	}
	return v.getBool(r.row)
}

func (r *Rows) GetInt8(index int) (int8, error) {
	v, err := r.vector(index)
	if err != nil {
		return 0, err
	}
	return v.getInt8(r.row)
}

func (r *Rows) GetInt16(index int) (int16, error) {
	v, err := r.vector(index)
	if err != nil {
		return 0, err
	}
	return v.getInt16(r.row)
}

func (r *Rows) GetInt32(index int) (int32, error) {
	v, err := r.vector(index)
	if err != nil {
		return 0, err
	}
	return v.getInt32(r.row)
}

func (r *Rows) GetInt64(index int) (int64, error) {
	v, err := r.vector(index)
	if err != nil {
		return 0, err
	}
	return v.getInt64(r.row)
}

func (r *Rows) GetUint8(index int) (uint8, error) {
	v, err := r.vector(index)
	if err != nil {
		return 0, err
	}
	return v.getUint8(r.row)
}

func (r *Rows) GetUint16(index int) (uint16, error) {
	v, err := r.vector(index)
	if err != nil {
		return 0, err
	}
	return v.getUint16(r.row)
}

func (r *Rows) GetUint32(index int) (uint32, error) {
	v, err := r.vector(index)
	if err != nil {
		return 0, err
	}
	return v.getUint32(r.row)
}

func (r *Rows) GetUint64(index int) (uint64, error) {
	v, err := r.vector(index)
	if err != nil {
		return 0, err
	}
	return v.getUint64(r.row)
}

func (r *Rows) GetFloat32(index int) (float32, error) {
	v, err := r.vector(index)
	if err != nil {
		return 0, err
	}
	return v.getFloat32(r.row)
}

func (r *Rows) GetFloat64(index int) (float64, error) {
	v, err := r.vector(index)
	if err != nil {
		return 0, err
	}
	return v.getFloat64(r.row)
}

func (r *Rows) GetString(index int) (string, error) {
	v, err := r.vector(index)
	if err != nil {
		return "", err
	}
	return v.getString(r.row)
}

func (r *Rows) GetBytes(index int) ([]byte, error) {
	v, err := r.vector(index)
	if err != nil {
		return nil, err
	}
	return v.getBytes(r.row)
}

func (r *Rows) GetTime(index int) (time.Time, error) {
	v, err := r.vector(index)
	if err != nil {
		return time.Time{}, err
	}
	return v.getTime(r.row)
}

func (r *Rows) GetUUID(index int) (uuid.UUID, error) {
	v, err := r.vector(index)
	if err != nil {
		return uuid.UUID{}, err
	}
	return v.getUUID(r.row)
}

func (r *Rows) GetInterval(index int) (contracts.Interval, error) {
	v, err := r.vector(index)
	if err != nil {
		return contracts.Interval{}, err
	}
	return v.getInterval(r.row)
}

func (r *Rows) GetDecimal(index int) (contracts.Decimal, error) {
	v, err := r.vector(index)
	if err != nil {
		return contracts.Decimal{}, err
	}
	return v.getDecimal(r.row)
}

// GetValue decodes the column dynamically; NULL decodes to nil.
func (r *Rows) GetValue(index int) (any, error) {
	v, err := r.vector(index)
	if err != nil {
		return nil, err
	}
	return v.getValue(r.row)
}

// Scan copies the current row into dest, one pointer per column. Values
// implementing contracts.ColumnScanner scan themselves.
func (r *Rows) Scan(dest ...any) error {
	if len(dest) != r.ColumnCount() {
		return contracts.NewErrorf(contracts.ErrTypeMismatch, "expected %d destinations, got %d", r.ColumnCount(), len(dest))
	}
	for i, d := range dest {
		if err := r.scanColumn(i, d); err != nil {
			return err
		}
	}
	return nil
}

func (r *Rows) scanColumn(index int, dest any) error {
	if scanner, ok := dest.(contracts.ColumnScanner); ok {
		return scanner.ScanColumn(r, index)
	}

	switch d := dest.(type) {
	case *bool:
		v, err := r.GetBool(index)
		if err != nil {
			return err
		}
		*d = v
	case *int8:
		v, err := r.GetInt8(index)
		if err != nil {
			return err
		}
		*d = v
	case *int16:
		v, err := r.GetInt16(index)
		if err != nil {
			return err
		}
		*d = v
	case *int32:
		v, err := r.GetInt32(index)
		if err != nil {
			return err
		}
		*d = v
	case *int64:
		v, err := r.GetInt64(index)
		if err != nil {
			return err
		}
		*d = v
	case *uint8:
		v, err := r.GetUint8(index)
		if err != nil {
			return err
		}
		*d = v
	case *uint16:
		v, err := r.GetUint16(index)
		if err != nil {
			return err
		}
		*d = v
	case *uint32:
		v, err := r.GetUint32(index)
		if err != nil {
			return err
		}
		*d = v
	case *uint64:
		v, err := r.GetUint64(index)
		if err != nil {
			return err
		}
		*d = v
	case *float32:
		v, err := r.GetFloat32(index)
		if err != nil {
			return err
		}
		*d = v
	case *float64:
		v, err := r.GetFloat64(index)
		if err != nil {
			return err
		}
		*d = v
	case *string:
		v, err := r.GetString(index)
		if err != nil {
			return err
		}
		*d = v
	case *[]byte:
		v, err := r.GetBytes(index)
		if err != nil {
			return err
		}
		*d = v
	case *time.Time:
		v, err := r.GetTime(index)
		if err != nil {
			return err
		}
		*d = v
	case *uuid.UUID:
		v, err := r.GetUUID(index)
		if err != nil {
			return err
		}
		*d = v
	case *contracts.Interval:
		v, err := r.GetInterval(index)
		if err != nil {
			return err
		}
		*d = v
	case *contracts.Decimal:
		v, err := r.GetDecimal(index)
		if err != nil {
			return err
		}
		*d = v
	case **big.Int:
		vec, err := r.vector(index)
		if err != nil {
			return err
		}
		v, err := vec.getHugeInt(r.row)
		if err != nil {
			return err
		}
		*d = v
	case *any:
		v, err := r.GetValue(index)
		if err != nil {
			return err
		}
		*d = v
	default:
		return contracts.NewErrorf(contracts.ErrTypeMismatch, "cannot scan column %d into %T", index, dest)
	}
	return nil
}

// Close releases the cursor and its underlying result. Idempotent.
func (r *Rows) Close() error {
	if r.chunk != nil {
		r.chunk.close()
		r.chunk = nil
	}
	r.done = true
	return r.result.Close()
}
