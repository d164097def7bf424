// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: Copyright The DuckDB Go Authors

package duckdb

import (
	"github.com/duckdb-go/duckdb-go/pkg/contracts"
)

// Re-exported contract types so most programs only import this package.

type (
	Config      = contracts.Config
	AccessMode  = contracts.AccessMode
	TypeID      = contracts.TypeID
	LogicalType = contracts.LogicalType
	StructField = contracts.StructField
	ColumnDef   = contracts.ColumnDef
	Null        = contracts.Null
	Interval    = contracts.Interval
	Decimal     = contracts.Decimal
	Error       = contracts.Error
	ErrorKind   = contracts.ErrorKind

	Database      = contracts.IDatabase
	Connection    = contracts.IConnection
	Statement     = contracts.IStatement
	Result        = contracts.IResult
	Rows          = contracts.IRows
	Chunk         = contracts.IChunk
	Vector        = contracts.IVector
	TableFunction = contracts.TableFunction
	BindInput     = contracts.IBindInput
	BindData      = contracts.IBindData
	InitInput     = contracts.IInitInput
	GlobalState   = contracts.IGlobalState
	LocalState    = contracts.ILocalState

	ParameterBinder = contracts.ParameterBinder
	ColumnScanner   = contracts.ColumnScanner
)

const (
	AccessModeAutomatic = contracts.AccessModeAutomatic
	AccessModeReadOnly  = contracts.AccessModeReadOnly
	AccessModeReadWrite = contracts.AccessModeReadWrite
)

const (
	ErrConfiguration = contracts.ErrConfiguration
	ErrConnection    = contracts.ErrConnection
	ErrPreparation   = contracts.ErrPreparation
	ErrBinding       = contracts.ErrBinding
	ErrExecution     = contracts.ErrExecution
	ErrTypeMismatch  = contracts.ErrTypeMismatch
	ErrResource      = contracts.ErrResource
	ErrTableFunction = contracts.ErrTableFunction
	ErrExtension     = contracts.ErrExtension
)

// IsKind reports whether err carries the given error kind anywhere in its
// chain.
func IsKind(err error, kind ErrorKind) bool {
	return contracts.IsKind(err, kind)
}
