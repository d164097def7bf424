// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: Copyright The DuckDB Go Authors

package internal

/*
#cgo CFLAGS: -I${SRCDIR}/../../include
#cgo darwin,amd64 LDFLAGS: -L${SRCDIR}/../../lib/darwin_amd64 -lduckdb
#cgo darwin,arm64 LDFLAGS: -L${SRCDIR}/../../lib/darwin_arm64 -lduckdb
#cgo linux,amd64 LDFLAGS: -L${SRCDIR}/../../lib/linux_amd64 -lduckdb -lm -ldl -lpthread
#cgo linux,arm64 LDFLAGS: -L${SRCDIR}/../../lib/linux_arm64 -lduckdb -lm -ldl -lpthread
#cgo windows,amd64 LDFLAGS: -L${SRCDIR}/../../lib/windows_amd64 -lduckdb
#include <duckdb.h>
#include <stdlib.h>
*/
import "C"

import (
	"context"
	"runtime"
	"sync"
	"unsafe"

	"github.com/hashicorp/go-multierror"

	"github.com/duckdb-go/duckdb-go/pkg/contracts"
)

// Database wraps one native database instance. Safe for concurrent use;
// connections derived from it are not.
type Database struct {
	db     C.duckdb_database
	mu     sync.RWMutex
	closed bool

	// Open connections, tracked so Close can tear them down first.
	conns map[*Connection]struct{}
}

var _ contracts.IDatabase = (*Database)(nil)

// OpenDatabase opens or creates the database at path. An empty path opens an
// in-memory database. The returned handle must be closed; a finalizer backstop
// covers leaked handles.
func OpenDatabase(path string, cfg *contracts.Config) (*Database, error) {
	var config C.duckdb_config
	if state := C.duckdb_create_config(&config); state == C.DuckDBError {
		return nil, contracts.NewError(contracts.ErrConfiguration, "failed to allocate database config")
	}
	defer C.duckdb_destroy_config(&config)

	if cfg != nil {
		for _, flag := range cfg.Flags() {
			if err := setConfigFlag(config, flag[0], flag[1]); err != nil {
				return nil, err
			}
		}
	}

	var cPath *C.char
	if path != "" {
		cPath = C.CString(path)
		// #nosec G103 - Required for freeing C allocated string memory
		defer C.free(unsafe.Pointer(cPath))
	}

	var handle C.duckdb_database
	var errMsg *C.char
	state := C.duckdb_open_ext(cPath, &handle, config, &errMsg)
	if state == C.DuckDBError {
		defer C.duckdb_free(unsafe.Pointer(errMsg))
		if errMsg != nil {
			return nil, contracts.NewErrorf(contracts.ErrConnection, "failed to open database at %q: %s", path, C.GoString(errMsg))
		}
		return nil, contracts.NewErrorf(contracts.ErrConnection, "failed to open database at %q: unknown error", path)
	}

	db := &Database{
		db:    handle,
		conns: make(map[*Connection]struct{}),
	}

	// Finalizer backstop for leaked handles; explicit Close clears it.
	runtime.SetFinalizer(db, func(d *Database) { _ = d.Close() })

	log().WithField("path", path).Debug("opened database")
	return db, nil
}

func setConfigFlag(config C.duckdb_config, name, value string) error {
	cName := C.CString(name)
	// #nosec G103 - Required for freeing C allocated string memory
	defer C.free(unsafe.Pointer(cName))
	cValue := C.CString(value)
	// #nosec G103 - Required for freeing C allocated string memory
	defer C.free(unsafe.Pointer(cValue))

	if state := C.duckdb_set_config(config, cName, cValue); state == C.DuckDBError {
		return contracts.NewErrorf(contracts.ErrConfiguration, "unrecognized config option %q", name)
	}
	return nil
}

// Connect creates a new connection. Each connection is single-threaded;
// open one per goroutine.
func (d *Database) Connect(_ context.Context) (contracts.IConnection, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil, contracts.NewError(contracts.ErrConnection, "database is closed")
	}

	var handle C.duckdb_connection
	if state := C.duckdb_connect(d.db, &handle); state == C.DuckDBError {
		return nil, contracts.NewError(contracts.ErrConnection, "failed to connect to database")
	}

	conn := newConnection(handle, d)
	d.conns[conn] = struct{}{}

	runtime.SetFinalizer(conn, func(c *Connection) { _ = c.Close() })
	return conn, nil
}

func (d *Database) forget(conn *Connection) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.conns, conn)
}

// Close tears down all remaining connections, then the database itself.
// Idempotent.
func (d *Database) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	conns := make([]*Connection, 0, len(d.conns))
	for c := range d.conns {
		conns = append(conns, c)
	}
	d.conns = nil
	d.mu.Unlock()

	var errs *multierror.Error
	for _, c := range conns {
		if err := c.closeInternal(false); err != nil {
			errs = multierror.Append(errs, err)
		}
	}

	d.mu.Lock()
	C.duckdb_close(&d.db)
	d.mu.Unlock()

	runtime.SetFinalizer(d, nil)
	log().Debug("closed database")
	return errs.ErrorOrNil()
}

func (d *Database) IsClosed() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.closed
}
