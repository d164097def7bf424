// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: Copyright The DuckDB Go Authors

package internal

/*
#include <duckdb.h>
#include <stdlib.h>

// The access struct carries function pointers; these thunks let Go call
// them.
static duckdb_database *extension_get_database(duckdb_extension_access *access, duckdb_extension_info info) {
	return access->get_database(info);
}

static void extension_set_error(duckdb_extension_access *access, duckdb_extension_info info, const char *msg) {
	access->set_error(info, msg);
}
*/
import "C"

import (
	"fmt"
	"unsafe"

	"github.com/duckdb-go/duckdb-go/pkg/contracts"
)

// ExtensionInitFunc runs inside the host process when the extension loads.
// The connection belongs to the host database; registrations made through
// it, such as table functions, become visible to the host.
type ExtensionInitFunc func(conn contracts.IConnection) error

// InitializeExtension is the bridge behind a loadable extension's C entry
// point. info and access are the opaque pointers the host passes to the
// entry point. It reports success to the host; on failure or panic the
// message goes through the host's error slot and false is returned.
func InitializeExtension(info, access unsafe.Pointer, init ExtensionInitFunc) (ok bool) {
	acc := (*C.duckdb_extension_access)(access)
	extInfo := C.duckdb_extension_info(info)

	var failure string
	defer func() {
		if r := recover(); r != nil {
			failure = fmt.Sprintf("panic: %v", r)
		}
		if failure != "" {
			reportExtensionError(acc, extInfo, failure)
			ok = false
		}
	}()

	dbp := C.extension_get_database(acc, extInfo)
	if dbp == nil {
		failure = "host provided no database handle"
		return false
	}

	var handle C.duckdb_connection
	if state := C.duckdb_connect(*dbp, &handle); state == C.DuckDBError {
		failure = "failed to connect to host database"
		return false
	}
	conn := newConnection(handle, nil)
	defer func() {
		if err := conn.Close(); err != nil {
			log().WithError(err).Warn("extension connection close failed")
		}
	}()

	if err := init(conn); err != nil {
		failure = contracts.WrapError(contracts.ErrExtension, err, "extension initialization failed").Error()
		return false
	}
	return failure == ""
}

func reportExtensionError(acc *C.duckdb_extension_access, info C.duckdb_extension_info, msg string) {
	cMsg := C.CString(msg)
	// #nosec G103 - Required for freeing C allocated string memory
	defer C.free(unsafe.Pointer(cMsg))
	C.extension_set_error(acc, info, cMsg)
}
