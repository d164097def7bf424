// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: Copyright The DuckDB Go Authors

package internal

/*
#include <duckdb.h>
#include <stdlib.h>

extern void tableFunctionBindCallback(duckdb_bind_info info);
extern void tableFunctionInitCallback(duckdb_init_info info);
extern void tableFunctionLocalInitCallback(duckdb_init_info info);
extern void tableFunctionCallback(duckdb_function_info info, duckdb_data_chunk output);
extern void pinnedHandleDeleteCallback(void *data);
*/
import "C"

import (
	"runtime/cgo"
	"sync"
	"unsafe"

	"github.com/duckdb-go/duckdb-go/pkg/contracts"
)

// tableFunctionHandle is the extra-info payload shared by every callback of
// one registered function. It carries the user implementation plus the
// declared parameter types needed to decode bind arguments.
type tableFunctionHandle struct {
	fn          contracts.TableFunction
	params      []contracts.LogicalType
	namedParams map[string]contracts.LogicalType
}

func (h *tableFunctionHandle) release() {
	// The engine owns the pinned handle and frees it through the delete
	// callback when the function is dropped.
	h.fn = nil
}

// bindDataHandle is the pinned per-prepare bind state. The current
// execution's global state is stashed here after InitGlobal so the
// local-init callback, which only sees bind data, can reach it. The
// reference is non-owning; each globalStateHandle owns its teardown.
type bindDataHandle struct {
	data    contracts.IBindData
	columns []contracts.ColumnDef

	mu     sync.Mutex
	global contracts.IGlobalState
}

// globalStateHandle is pinned as one execution's init data. Re-executing a
// prepared statement re-runs global init against the same bind data, so
// each execution gets its own handle and its own delete callback.
type globalStateHandle struct {
	state contracts.IGlobalState
	bd    *bindDataHandle
}

// localStateHandle owns one worker's state plus its end-of-partition latch.
// Once the state declares zero rows it is never asked to produce again.
type localStateHandle struct {
	state    contracts.ILocalState
	finished bool
}

// pinHandle pins v for the engine: the cgo handle goes into a C-allocated
// slot so native code can carry it without holding a Go pointer.
func pinHandle(v any) unsafe.Pointer {
	h := cgo.NewHandle(v)
	// #nosec G103 - C-allocated slot carries the handle across the FFI boundary
	slot := (*C.uintptr_t)(C.malloc(C.sizeof_uintptr_t))
	*slot = C.uintptr_t(h)
	return unsafe.Pointer(slot)
}

func loadHandle(p unsafe.Pointer) cgo.Handle {
	return cgo.Handle(*(*C.uintptr_t)(p))
}

// registerTableFunction builds the native function descriptor for fn and
// registers it on conn. The descriptor handle is destroyed after
// registration; the engine keeps its own copy.
func registerTableFunction(conn C.duckdb_connection, fn contracts.TableFunction) (*tableFunctionHandle, error) {
	name := fn.Name()
	if name == "" {
		return nil, contracts.NewError(contracts.ErrTableFunction, "table function has no name")
	}

	tf := C.duckdb_create_table_function()
	defer C.duckdb_destroy_table_function(&tf)

	cName := C.CString(name)
	// #nosec G103 - Required for freeing C allocated string memory
	defer C.free(unsafe.Pointer(cName))
	C.duckdb_table_function_set_name(tf, cName)

	params := fn.Parameters()
	for _, p := range params {
		lt, err := createLogicalType(p)
		if err != nil {
			return nil, contracts.WrapError(contracts.ErrTableFunction, err, "invalid parameter type")
		}
		C.duckdb_table_function_add_parameter(tf, lt)
		destroyLogicalType(&lt)
	}

	namedParams := fn.NamedParameters()
	for pname, p := range namedParams {
		lt, err := createLogicalType(p)
		if err != nil {
			return nil, contracts.WrapError(contracts.ErrTableFunction, err, "invalid named parameter type")
		}
		cPName := C.CString(pname)
		C.duckdb_table_function_add_named_parameter(tf, cPName, lt)
		// #nosec G103 - Required for freeing C allocated string memory
		C.free(unsafe.Pointer(cPName))
		destroyLogicalType(&lt)
	}

	handle := &tableFunctionHandle{
		fn:          fn,
		params:      params,
		namedParams: namedParams,
	}
	C.duckdb_table_function_set_extra_info(tf, pinHandle(handle),
		C.duckdb_delete_callback_t(C.pinnedHandleDeleteCallback))

	C.duckdb_table_function_supports_projection_pushdown(tf, C.bool(fn.SupportsProjectionPushdown()))

	C.duckdb_table_function_set_bind(tf, C.duckdb_table_function_bind_t(C.tableFunctionBindCallback))
	C.duckdb_table_function_set_init(tf, C.duckdb_table_function_init_t(C.tableFunctionInitCallback))
	C.duckdb_table_function_set_local_init(tf, C.duckdb_table_function_init_t(C.tableFunctionLocalInitCallback))
	C.duckdb_table_function_set_function(tf, C.duckdb_table_function_t(C.tableFunctionCallback))

	if state := C.duckdb_register_table_function(conn, tf); state == C.DuckDBError {
		return nil, contracts.NewErrorf(contracts.ErrTableFunction, "failed to register table function %q", name)
	}
	return handle, nil
}

// bindInput exposes the bind-time call arguments. Valid only inside the
// bind callback.
type bindInput struct {
	info   C.duckdb_bind_info
	handle *tableFunctionHandle
}

var _ contracts.IBindInput = (*bindInput)(nil)

func (b *bindInput) ParameterCount() int {
	return int(C.duckdb_bind_get_parameter_count(b.info))
}

func (b *bindInput) Parameter(index int) (any, error) {
	if index < 0 || index >= len(b.handle.params) {
		return nil, contracts.NewErrorf(contracts.ErrTableFunction, "parameter index %d out of range", index)
	}
	val := C.duckdb_bind_get_parameter(b.info, C.idx_t(index))
	if val == nil {
		return nil, contracts.NewErrorf(contracts.ErrTableFunction, "parameter %d unavailable", index)
	}
	defer C.duckdb_destroy_value(&val)
	return decodeValue(val, b.handle.params[index])
}

func (b *bindInput) NamedParameter(name string) (any, error) {
	t, ok := b.handle.namedParams[name]
	if !ok {
		return nil, contracts.NewErrorf(contracts.ErrTableFunction, "no named parameter %q declared", name)
	}
	cName := C.CString(name)
	// #nosec G103 - Required for freeing C allocated string memory
	defer C.free(unsafe.Pointer(cName))

	val := C.duckdb_bind_get_named_parameter(b.info, cName)
	if val == nil {
		return nil, nil
	}
	defer C.duckdb_destroy_value(&val)
	return decodeValue(val, t)
}

// decodeValue converts a native scalar value using its declared type. SQL
// NULL decodes to nil so bind logic can tell it apart from a zero value.
func decodeValue(val C.duckdb_value, t contracts.LogicalType) (any, error) {
	if bool(C.duckdb_is_null_value(val)) {
		return nil, nil
	}
	switch t.ID {
	case contracts.TypeBoolean:
		return bool(C.duckdb_get_bool(val)), nil
	case contracts.TypeTinyInt:
		return int8(C.duckdb_get_int8(val)), nil
	case contracts.TypeSmallInt:
		return int16(C.duckdb_get_int16(val)), nil
	case contracts.TypeInteger:
		return int32(C.duckdb_get_int32(val)), nil
	case contracts.TypeBigInt:
		return int64(C.duckdb_get_int64(val)), nil
	case contracts.TypeUTinyInt:
		return uint8(C.duckdb_get_uint8(val)), nil
	case contracts.TypeUSmallInt:
		return uint16(C.duckdb_get_uint16(val)), nil
	case contracts.TypeUInteger:
		return uint32(C.duckdb_get_uint32(val)), nil
	case contracts.TypeUBigInt:
		return uint64(C.duckdb_get_uint64(val)), nil
	case contracts.TypeFloat:
		return float32(C.duckdb_get_float(val)), nil
	case contracts.TypeDouble:
		return float64(C.duckdb_get_double(val)), nil
	case contracts.TypeVarchar:
		cStr := C.duckdb_get_varchar(val)
		defer C.duckdb_free(unsafe.Pointer(cStr))
		return C.GoString(cStr), nil
	case contracts.TypeHugeInt:
		return hugeIntToBig(C.duckdb_get_hugeint(val)), nil
	case contracts.TypeInterval:
		iv := C.duckdb_get_interval(val)
		return contracts.Interval{
			Months: int32(iv.months),
			Days:   int32(iv.days),
			Micros: int64(iv.micros),
		}, nil
	case contracts.TypeDate:
		d := C.duckdb_get_date(val)
		return contracts.DaysToDate(int32(d.days)), nil
	case contracts.TypeTimestamp:
		ts := C.duckdb_get_timestamp(val)
		return timeFromMicros(int64(ts.micros)), nil
	}
	return nil, contracts.NewErrorf(contracts.ErrTableFunction, "cannot decode parameter of type %s", t.ID)
}

// initInput exposes planning decisions to the init callbacks.
type initInput struct {
	projected []int
}

var _ contracts.IInitInput = (*initInput)(nil)

func (i *initInput) ProjectedColumns() []int { return i.projected }

func projectedColumns(info C.duckdb_init_info) []int {
	count := int(C.duckdb_init_get_column_count(info))
	cols := make([]int, count)
	for i := 0; i < count; i++ {
		cols[i] = int(C.duckdb_init_get_column_index(info, C.idx_t(i)))
	}
	return cols
}
