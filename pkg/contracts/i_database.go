// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: Copyright The DuckDB Go Authors

package contracts

import "context"

// IDatabase owns one native database instance. Multiple connections may be
// derived from a single database; the database must outlive all of them.
type IDatabase interface {
	// Connect derives a new connection. Connections are not safe for
	// concurrent use; open one per goroutine.
	Connect(ctx context.Context) (IConnection, error)

	// Close releases the native database. Idempotent. Connections still
	// open are closed first; their errors are aggregated.
	Close() error

	IsClosed() bool
}
