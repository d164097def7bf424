// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: Copyright The DuckDB Go Authors

package contracts

// ColumnDef is one column of a table function's resolved output schema.
type ColumnDef struct {
	Name string
	Type LogicalType
}

// TableFunction declares a virtual table. The engine drives the lifecycle:
// Bind once per query during planning, then InitGlobal once, InitLocal once
// per worker, FillChunk repeatedly per worker, and state teardown exactly
// once per state object when the query ends, including on cancellation.
//
// States that need cleanup implement io.Closer; Close runs exactly once
// even when produce was never fully drained.
type TableFunction interface {
	// Name is the function name registered in the catalog.
	Name() string

	// Parameters declares the positional bind-time parameter types.
	Parameters() []LogicalType

	// NamedParameters declares the named bind-time parameter types.
	NamedParameters() map[string]LogicalType

	// SupportsProjectionPushdown declares whether the function honors the
	// projected column set passed through IInitInput.
	SupportsProjectionPushdown() bool

	// Bind resolves the output schema from the call arguments. A failure
	// here aborts planning; no further callbacks occur for the query.
	Bind(input IBindInput) (IBindData, error)
}

// IBindInput exposes the user-supplied call arguments during Bind. It is
// only valid for the duration of the Bind call.
type IBindInput interface {
	ParameterCount() int
	// Parameter decodes the positional argument at 0-based index.
	Parameter(index int) (any, error)
	// NamedParameter decodes the named argument, or returns nil when the
	// caller did not supply it.
	NamedParameter(name string) (any, error)
}

// IBindData is the per-query state produced by Bind. It is referenced, not
// owned, by later callbacks; the engine owns it for the query's lifetime.
type IBindData interface {
	// Columns is the resolved output schema, in order.
	Columns() []ColumnDef

	// Cardinality estimates the row count, exact or not. Return
	// (0, false, false) when unknown.
	Cardinality() (rows uint64, exact bool, known bool)

	// InitGlobal produces the per-query shared state. The engine calls it
	// once per query.
	InitGlobal(input IInitInput) (IGlobalState, error)
}

// IInitInput exposes planning decisions during global and local init. Only
// valid for the duration of the init call.
type IInitInput interface {
	// ProjectedColumns lists the 0-based output columns the query reads,
	// when the function declared projection pushdown support. Without
	// pushdown it lists every column.
	ProjectedColumns() []int
}

// IGlobalState is shared read-only across worker-local states while the
// query runs. Mutation by one worker is not made visible to others by the
// framework; user logic must synchronize internally if it mutates.
type IGlobalState interface {
	// MaxThreads hints how many local states the engine may create.
	// Return 1 to force single-threaded production.
	MaxThreads() int

	// InitLocal produces per-worker state derived from this global state.
	// Called once per worker; must not assume single-threaded execution.
	InitLocal(input IInitInput) (ILocalState, error)
}

// ILocalState is exclusively owned by one worker and never accessed by
// another.
type ILocalState interface {
	// FillChunk writes up to out.Capacity() rows and declares the count
	// with out.SetSize. Declaring zero rows signals end of this worker's
	// partition; after that, FillChunk must keep declaring zero rows and
	// never error.
	FillChunk(out IChunk) error
}
