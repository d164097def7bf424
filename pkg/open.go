// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: Copyright The DuckDB Go Authors

package duckdb

import (
	"context"
	"unsafe"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/sirupsen/logrus"

	"github.com/duckdb-go/duckdb-go/pkg/contracts"
	"github.com/duckdb-go/duckdb-go/pkg/internal"
)

// Open opens or creates the database at path with default settings. An
// empty path opens a transient in-memory database.
func Open(path string) (contracts.IDatabase, error) {
	return internal.OpenDatabase(path, nil)
}

// OpenConfig opens the database at path with the given configuration.
func OpenConfig(path string, cfg *contracts.Config) (contracts.IDatabase, error) {
	return internal.OpenDatabase(path, cfg)
}

// SetLogger routes diagnostics from the callback boundary, where errors
// have no return path, to the given logger. Logging is discarded by
// default.
func SetLogger(l *logrus.Logger) {
	internal.SetLogger(l)
}

// QueryArrow runs sql on conn and drains the full result into Arrow
// records. The caller must Release every returned record.
func QueryArrow(ctx context.Context, conn contracts.IConnection, sql string) ([]arrow.Record, error) {
	res, err := conn.Execute(ctx, sql)
	if err != nil {
		return nil, err
	}
	return res.ReadAll()
}

// ExtensionInitFunc runs when a loadable extension built from this package
// is loaded into a host database.
type ExtensionInitFunc = internal.ExtensionInitFunc

// InitializeExtension bridges a loadable extension's C entry point to Go.
// Call it from the exported entry point with the opaque info and access
// pointers the host supplies; it connects to the host database, runs init,
// and reports failures through the host's error slot.
func InitializeExtension(info, access unsafe.Pointer, init ExtensionInitFunc) bool {
	return internal.InitializeExtension(info, access, init)
}
