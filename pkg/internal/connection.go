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
	"runtime"
	"sync"
	"unsafe"

	"github.com/duckdb-go/duckdb-go/pkg/contracts"
)

// Connection wraps one native connection. A connection serializes its
// statements; use one connection per goroutine for parallel queries.
// Interrupt and Close are safe to call from other goroutines.
type Connection struct {
	conn   C.duckdb_connection
	db     *Database
	mu     sync.RWMutex
	closed bool

	// Table functions registered on this connection, kept reachable so
	// their callback state outlives registration.
	tableFunctions []*tableFunctionHandle
}

var _ contracts.IConnection = (*Connection)(nil)

func newConnection(conn C.duckdb_connection, db *Database) *Connection {
	return &Connection{conn: conn, db: db}
}

// Prepare compiles sql into a reusable prepared statement. Syntax and
// binder errors surface here, not at execution.
func (c *Connection) Prepare(_ context.Context, sql string) (contracts.IStatement, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return nil, contracts.NewError(contracts.ErrConnection, "connection is closed")
	}

	cSQL := C.CString(sql)
	// #nosec G103 - Required for freeing C allocated string memory
	defer C.free(unsafe.Pointer(cSQL))

	var stmt C.duckdb_prepared_statement
	if state := C.duckdb_prepare(c.conn, cSQL, &stmt); state == C.DuckDBError {
		msg := C.GoString(C.duckdb_prepare_error(stmt))
		C.duckdb_destroy_prepare(&stmt)
		if msg == "" {
			msg = "unknown error"
		}
		return nil, contracts.NewErrorf(contracts.ErrPreparation, "failed to prepare statement: %s", msg)
	}

	s := newStatement(stmt, c)
	runtime.SetFinalizer(s, func(st *Statement) { _ = st.Close() })
	return s, nil
}

// Execute runs sql to completion and discards any rows. The returned result
// reports the affected row count for data-changing statements.
func (c *Connection) Execute(ctx context.Context, sql string) (contracts.IResult, error) {
	res, err := c.query(ctx, sql)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Query runs sql and returns a forward-only row cursor over the result.
func (c *Connection) Query(ctx context.Context, sql string) (contracts.IRows, error) {
	res, err := c.query(ctx, sql)
	if err != nil {
		return nil, err
	}
	return res.Rows(), nil
}

func (c *Connection) query(ctx context.Context, sql string) (*Result, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.closed {
		return nil, contracts.NewError(contracts.ErrConnection, "connection is closed")
	}

	cSQL := C.CString(sql)
	// #nosec G103 - Required for freeing C allocated string memory
	defer C.free(unsafe.Pointer(cSQL))

	stop := c.interruptOnCancel(ctx)
	var result C.duckdb_result
	state := C.duckdb_query(c.conn, cSQL, &result)
	stop()

	if state == C.DuckDBError {
		err := resultError(&result, ctx)
		C.duckdb_destroy_result(&result)
		return nil, err
	}
	return newResult(result), nil
}

// interruptOnCancel fires a native interrupt when ctx is canceled while a
// statement runs. The returned stop function must be called once the
// statement finishes.
func (c *Connection) interruptOnCancel(ctx context.Context) func() {
	if ctx == nil || ctx.Done() == nil {
		return func() {}
	}
	done := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			c.Interrupt()
		case <-done:
		}
	}()
	return func() { close(done) }
}

// Interrupt requests cancellation of the statement currently running on
// this connection. Safe to call from any goroutine.
func (c *Connection) Interrupt() {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.closed {
		C.duckdb_interrupt(c.conn)
	}
}

// RegisterTableFunction makes fn callable from SQL on this connection.
func (c *Connection) RegisterTableFunction(_ context.Context, fn contracts.TableFunction) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return contracts.NewError(contracts.ErrConnection, "connection is closed")
	}

	handle, err := registerTableFunction(c.conn, fn)
	if err != nil {
		return err
	}
	c.tableFunctions = append(c.tableFunctions, handle)
	log().WithField("function", fn.Name()).Debug("registered table function")
	return nil
}

// Close disconnects. Idempotent; outstanding statements and results keep
// their own handles and must be closed separately.
func (c *Connection) Close() error {
	return c.closeInternal(true)
}

func (c *Connection) closeInternal(unregister bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	C.duckdb_disconnect(&c.conn)
	for _, h := range c.tableFunctions {
		h.release()
	}
	c.tableFunctions = nil

	runtime.SetFinalizer(c, nil)
	if unregister && c.db != nil {
		c.db.forget(c)
	}
	return nil
}

func (c *Connection) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}
