// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: Copyright The DuckDB Go Authors

package internal

/*
#include <duckdb.h>
#include <stdlib.h>
*/
import "C"

import (
	"fmt"
	"io"
	"unsafe"
)

// The engine drives these trampolines on its own threads. Each one recovers
// panics from user code and reports them through the native error slot so a
// misbehaving function fails its query instead of crashing the process.

//export pinnedHandleDeleteCallback
func pinnedHandleDeleteCallback(data unsafe.Pointer) {
	// The engine has no error slot here; a panic must not unwind into it.
	defer func() {
		if r := recover(); r != nil {
			log().WithField("panic", r).Error("table function state teardown panicked")
		}
	}()

	h := loadHandle(data)
	defer func() {
		h.Delete()
		C.free(data)
	}()

	switch v := h.Value().(type) {
	case *localStateHandle:
		closeState(v.state)
	case *globalStateHandle:
		v.bd.mu.Lock()
		if v.bd.global == v.state {
			v.bd.global = nil
		}
		v.bd.mu.Unlock()
		closeState(v.state)
	case *bindDataHandle:
		closeState(v.data)
	default:
		closeState(v)
	}
}

// closeState runs a state's Close hook when it has one. The engine calls
// each delete callback exactly once, so Close runs exactly once per state.
func closeState(v any) {
	closer, ok := v.(io.Closer)
	if !ok {
		return
	}
	if err := closer.Close(); err != nil {
		log().WithError(err).Warn("table function state close failed")
	}
}

func recoverToMessage(errp *string) {
	if r := recover(); r != nil {
		*errp = fmt.Sprintf("panic: %v", r)
		log().WithField("panic", r).Error("table function callback panicked")
	}
}

//export tableFunctionBindCallback
func tableFunctionBindCallback(info C.duckdb_bind_info) {
	var failure string
	defer func() {
		if failure != "" {
			setBindError(info, failure)
		}
	}()
	defer recoverToMessage(&failure)

	handle := loadHandle(C.duckdb_bind_get_extra_info(info)).Value().(*tableFunctionHandle)

	data, err := handle.fn.Bind(&bindInput{info: info, handle: handle})
	if err != nil {
		failure = err.Error()
		return
	}

	columns := data.Columns()
	if len(columns) == 0 {
		failure = "table function bound no output columns"
		return
	}
	for _, col := range columns {
		lt, err := createLogicalType(col.Type)
		if err != nil {
			failure = err.Error()
			return
		}
		cName := C.CString(col.Name)
		C.duckdb_bind_add_result_column(info, cName, lt)
		// #nosec G103 - Required for freeing C allocated string memory
		C.free(unsafe.Pointer(cName))
		destroyLogicalType(&lt)
	}

	if rows, exact, known := data.Cardinality(); known {
		C.duckdb_bind_set_cardinality(info, C.idx_t(rows), C.bool(exact))
	}

	C.duckdb_bind_set_bind_data(info,
		pinHandle(&bindDataHandle{data: data, columns: columns}),
		C.duckdb_delete_callback_t(C.pinnedHandleDeleteCallback))
}

//export tableFunctionInitCallback
func tableFunctionInitCallback(info C.duckdb_init_info) {
	var failure string
	defer func() {
		if failure != "" {
			setInitError(info, failure)
		}
	}()
	defer recoverToMessage(&failure)

	bd := loadHandle(C.duckdb_init_get_bind_data(info)).Value().(*bindDataHandle)

	global, err := bd.data.InitGlobal(&initInput{projected: projectedColumns(info)})
	if err != nil {
		failure = err.Error()
		return
	}

	maxThreads := global.MaxThreads()
	if maxThreads < 1 {
		maxThreads = 1
	}
	C.duckdb_init_set_max_threads(info, C.idx_t(maxThreads))

	// Stashed on the bind data so the local-init callback can reach it. The
	// pinned init data owns the teardown, so re-executing a prepared
	// statement closes every execution's global state, not just the last.
	bd.mu.Lock()
	bd.global = global
	bd.mu.Unlock()

	C.duckdb_init_set_init_data(info, pinHandle(&globalStateHandle{state: global, bd: bd}),
		C.duckdb_delete_callback_t(C.pinnedHandleDeleteCallback))
}

//export tableFunctionLocalInitCallback
func tableFunctionLocalInitCallback(info C.duckdb_init_info) {
	var failure string
	defer func() {
		if failure != "" {
			setInitError(info, failure)
		}
	}()
	defer recoverToMessage(&failure)

	bd := loadHandle(C.duckdb_init_get_bind_data(info)).Value().(*bindDataHandle)

	bd.mu.Lock()
	global := bd.global
	bd.mu.Unlock()
	if global == nil {
		failure = "global state not initialized"
		return
	}

	local, err := global.InitLocal(&initInput{projected: projectedColumns(info)})
	if err != nil {
		failure = err.Error()
		return
	}

	C.duckdb_init_set_init_data(info, pinHandle(&localStateHandle{state: local}),
		C.duckdb_delete_callback_t(C.pinnedHandleDeleteCallback))
}

//export tableFunctionCallback
func tableFunctionCallback(info C.duckdb_function_info, output C.duckdb_data_chunk) {
	var failure string
	defer func() {
		if failure != "" {
			setFunctionError(info, failure)
		}
	}()
	defer recoverToMessage(&failure)

	local := loadHandle(C.duckdb_function_get_local_init_data(info)).Value().(*localStateHandle)

	out := newChunk(output, false)
	if local.finished {
		out.SetSize(0)
		return
	}

	if err := local.state.FillChunk(out); err != nil {
		failure = err.Error()
		return
	}
	if out.Size() == 0 {
		local.finished = true
	}
}

func setBindError(info C.duckdb_bind_info, msg string) {
	cMsg := C.CString(msg)
	// #nosec G103 - Required for freeing C allocated string memory
	defer C.free(unsafe.Pointer(cMsg))
	C.duckdb_bind_set_error(info, cMsg)
}

func setInitError(info C.duckdb_init_info, msg string) {
	cMsg := C.CString(msg)
	// #nosec G103 - Required for freeing C allocated string memory
	defer C.free(unsafe.Pointer(cMsg))
	C.duckdb_init_set_error(info, cMsg)
}

func setFunctionError(info C.duckdb_function_info, msg string) {
	cMsg := C.CString(msg)
	// #nosec G103 - Required for freeing C allocated string memory
	defer C.free(unsafe.Pointer(cMsg))
	C.duckdb_function_set_error(info, cMsg)
}
