// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: Copyright The DuckDB Go Authors

package internal

/*
#include <duckdb.h>
#include <stdlib.h>
*/
import "C"

import (
	"context"
	"math/big"
	"runtime"
	"sync"
	"time"
	"unsafe"

	"github.com/google/uuid"

	"github.com/duckdb-go/duckdb-go/pkg/contracts"
)

// Statement wraps one native prepared statement. Parameter indexes are
// 1-based, matching SQL placeholder numbering.
type Statement struct {
	stmt   C.duckdb_prepared_statement
	conn   *Connection
	mu     sync.RWMutex
	closed bool

	// bound tracks which 1-based slots hold a value, so executing with
	// unbound parameters fails before reaching the engine.
	bound map[int]bool
}

var _ contracts.IStatement = (*Statement)(nil)

func newStatement(stmt C.duckdb_prepared_statement, conn *Connection) *Statement {
	return &Statement{stmt: stmt, conn: conn, bound: make(map[int]bool)}
}

func (s *Statement) ParameterCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0
	}
	return int(C.duckdb_nparams(s.stmt))
}

// Bind binds value to the 1-based placeholder index. Values implementing
// contracts.ParameterBinder bind themselves; their implementation must
// bottom out in one of the primitive representations.
func (s *Statement) Bind(index int, value any) error {
	if binder, ok := value.(contracts.ParameterBinder); ok {
		return binder.BindParameter(s, index)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return contracts.NewError(contracts.ErrBinding, "statement is closed")
	}
	if index < 1 || index > int(C.duckdb_nparams(s.stmt)) {
		return contracts.NewErrorf(contracts.ErrBinding, "parameter index %d out of range", index)
	}
	if err := s.bindValue(index, value); err != nil {
		return err
	}
	s.bound[index] = true
	return nil
}

// BindNamed binds value to the placeholder $name.
func (s *Statement) BindNamed(name string, value any) error {
	if binder, ok := value.(contracts.ParameterBinder); ok {
		s.mu.RLock()
		var index C.idx_t
		cName := C.CString(name)
		state := C.duckdb_bind_parameter_index(s.stmt, &index, cName)
		// #nosec G103 - Required for freeing C allocated string memory
		C.free(unsafe.Pointer(cName))
		s.mu.RUnlock()
		if state == C.DuckDBError {
			return contracts.NewErrorf(contracts.ErrBinding, "statement has no parameter named %q", name)
		}
		return binder.BindParameter(s, int(index))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return contracts.NewError(contracts.ErrBinding, "statement is closed")
	}

	cName := C.CString(name)
	// #nosec G103 - Required for freeing C allocated string memory
	defer C.free(unsafe.Pointer(cName))

	var index C.idx_t
	if state := C.duckdb_bind_parameter_index(s.stmt, &index, cName); state == C.DuckDBError {
		return contracts.NewErrorf(contracts.ErrBinding, "statement has no parameter named %q", name)
	}
	if err := s.bindValue(int(index), value); err != nil {
		return err
	}
	s.bound[int(index)] = true
	return nil
}

func (s *Statement) bindValue(index int, value any) error {
	idx := C.idx_t(index)
	var state C.duckdb_state

	switch v := value.(type) {
	case nil:
		state = C.duckdb_bind_null(s.stmt, idx)
	case contracts.Null:
		state = C.duckdb_bind_null(s.stmt, idx)
	case bool:
		state = C.duckdb_bind_boolean(s.stmt, idx, C.bool(v))
	case int8:
		state = C.duckdb_bind_int8(s.stmt, idx, C.int8_t(v))
	case int16:
		state = C.duckdb_bind_int16(s.stmt, idx, C.int16_t(v))
	case int32:
		state = C.duckdb_bind_int32(s.stmt, idx, C.int32_t(v))
	case int64:
		state = C.duckdb_bind_int64(s.stmt, idx, C.int64_t(v))
	case int:
		state = C.duckdb_bind_int64(s.stmt, idx, C.int64_t(v))
	case uint8:
		state = C.duckdb_bind_uint8(s.stmt, idx, C.uint8_t(v))
	case uint16:
		state = C.duckdb_bind_uint16(s.stmt, idx, C.uint16_t(v))
	case uint32:
		state = C.duckdb_bind_uint32(s.stmt, idx, C.uint32_t(v))
	case uint64:
		state = C.duckdb_bind_uint64(s.stmt, idx, C.uint64_t(v))
	case uint:
		state = C.duckdb_bind_uint64(s.stmt, idx, C.uint64_t(v))
	case float32:
		state = C.duckdb_bind_float(s.stmt, idx, C.float(v))
	case float64:
		state = C.duckdb_bind_double(s.stmt, idx, C.double(v))
	case string:
		cStr := C.CString(v)
		// #nosec G103 - Required for freeing C allocated string memory
		defer C.free(unsafe.Pointer(cStr))
		state = C.duckdb_bind_varchar(s.stmt, idx, cStr)
	case []byte:
		var ptr unsafe.Pointer
		if len(v) > 0 {
			// #nosec G103 - the engine copies the bytes before returning
			ptr = unsafe.Pointer(&v[0])
		}
		state = C.duckdb_bind_blob(s.stmt, idx, ptr, C.idx_t(len(v)))
	case time.Time:
		ts := C.duckdb_timestamp{micros: C.int64_t(v.UnixMicro())}
		state = C.duckdb_bind_timestamp(s.stmt, idx, ts)
	case contracts.Interval:
		iv := C.duckdb_interval{
			months: C.int32_t(v.Months),
			days:   C.int32_t(v.Days),
			micros: C.int64_t(v.Micros),
		}
		state = C.duckdb_bind_interval(s.stmt, idx, iv)
	case uuid.UUID:
		// Bound textually; the engine casts VARCHAR to UUID implicitly.
		cStr := C.CString(v.String())
		// #nosec G103 - Required for freeing C allocated string memory
		defer C.free(unsafe.Pointer(cStr))
		state = C.duckdb_bind_varchar(s.stmt, idx, cStr)
	case *big.Int:
		hi, err := bigToHugeInt(v)
		if err != nil {
			return contracts.WrapError(contracts.ErrBinding, err, "cannot bind big.Int")
		}
		state = C.duckdb_bind_hugeint(s.stmt, idx, hi)
	case contracts.Decimal:
		if v.Value == nil {
			state = C.duckdb_bind_null(s.stmt, idx)
			break
		}
		hi, err := bigToHugeInt(v.Value)
		if err != nil {
			return contracts.WrapError(contracts.ErrBinding, err, "cannot bind decimal")
		}
		dec := C.duckdb_decimal{
			width: C.uint8_t(v.Width),
			scale: C.uint8_t(v.Scale),
			value: hi,
		}
		state = C.duckdb_bind_decimal(s.stmt, idx, dec)
	default:
		return contracts.NewErrorf(contracts.ErrBinding, "cannot bind value of type %T", value)
	}

	if state == C.DuckDBError {
		return contracts.NewErrorf(contracts.ErrBinding, "failed to bind parameter %d", index)
	}
	return nil
}

func (s *Statement) ClearBindings() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return contracts.NewError(contracts.ErrBinding, "statement is closed")
	}
	if state := C.duckdb_clear_bindings(s.stmt); state == C.DuckDBError {
		return contracts.NewError(contracts.ErrBinding, "failed to clear bindings")
	}
	s.bound = make(map[int]bool)
	return nil
}

// Execute runs the statement with its current bindings. The statement stays
// usable for rebinding and re-execution afterwards.
func (s *Statement) Execute(ctx context.Context) (contracts.IResult, error) {
	return s.execute(ctx)
}

// Query runs the statement and returns a forward-only row cursor.
func (s *Statement) Query(ctx context.Context) (contracts.IRows, error) {
	res, err := s.execute(ctx)
	if err != nil {
		return nil, err
	}
	return res.Rows(), nil
}

func (s *Statement) execute(ctx context.Context) (*Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, contracts.NewError(contracts.ErrExecution, "statement is closed")
	}
	for i := 1; i <= int(C.duckdb_nparams(s.stmt)); i++ {
		if !s.bound[i] {
			return nil, contracts.NewErrorf(contracts.ErrBinding, "parameter %d has no bound value", i)
		}
	}

	stop := s.conn.interruptOnCancel(ctx)
	var result C.duckdb_result
	state := C.duckdb_execute_prepared(s.stmt, &result)
	stop()

	if state == C.DuckDBError {
		err := resultError(&result, ctx)
		C.duckdb_destroy_result(&result)
		return nil, err
	}
	return newResult(result), nil
}

// Close releases the prepared statement. Idempotent.
func (s *Statement) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	C.duckdb_destroy_prepare(&s.stmt)
	runtime.SetFinalizer(s, nil)
	return nil
}
