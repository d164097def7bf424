// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: Copyright The DuckDB Go Authors

package contracts

import "context"

// IConnection is one native connection bound to a database. A connection is
// not safe for concurrent use by multiple goroutines; callers needing
// parallelism open one connection per goroutine or use an external pool.
type IConnection interface {
	// Prepare compiles sql into a reusable statement. The statement must
	// not outlive the connection.
	Prepare(ctx context.Context, sql string) (IStatement, error)

	// Execute runs sql directly and returns its materialized result.
	Execute(ctx context.Context, sql string) (IResult, error)

	// Query runs sql directly and returns a lazy row stream.
	Query(ctx context.Context, sql string) (IRows, error)

	// RegisterTableFunction registers a virtual table the engine can plan
	// and execute as if it were a stored table.
	RegisterTableFunction(ctx context.Context, fn TableFunction) error

	// Interrupt asks the engine to cancel the running query on this
	// connection. Safe to call from another goroutine.
	Interrupt()

	// Close releases the native connection. Idempotent.
	Close() error

	IsClosed() bool
}
