// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: Copyright The DuckDB Go Authors

package contracts

import "context"

// IStatement is a compiled query plus its parameter slots. Parameters are
// addressed positionally (1-based, matching the engine) or by name.
// Rebinding and re-executing is permitted. A statement must not outlive its
// connection.
type IStatement interface {
	// ParameterCount reports the number of parameter slots the compiled
	// query declares.
	ParameterCount() int

	// Bind encodes value into the 1-based parameter slot. Values either
	// are one of the fixed primitive representations (nil / Null, bool,
	// signed and unsigned integers, float32/64, string, []byte,
	// time.Time, uuid.UUID, Interval, Decimal, *big.Int) or implement
	// ParameterBinder.
	Bind(index int, value any) error

	// BindNamed encodes value into the named parameter slot.
	BindNamed(name string, value any) error

	// ClearBindings resets all parameter slots to unbound.
	ClearBindings() error

	// Execute runs the statement. Executing with unbound parameter slots
	// fails with a binding error before reaching the engine.
	Execute(ctx context.Context) (IResult, error)

	// Query runs the statement and returns a lazy row stream.
	Query(ctx context.Context) (IRows, error)

	// Close releases the compiled statement. Idempotent.
	Close() error
}
