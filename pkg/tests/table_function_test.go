// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: Copyright The DuckDB Go Authors

package tests

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/duckdb-go/duckdb-go/pkg/contracts"
)

// rangeFunction produces rows [start, stop] with optional step. It counts
// state teardowns so tests can assert close-exactly-once behavior.
type rangeFunction struct {
	bindErr      error
	produceErr   error
	panicInFill  bool
	panicInClose bool

	bindCloses   atomic.Int64
	globalCloses atomic.Int64
	localCloses  atomic.Int64
}

var _ contracts.TableFunction = (*rangeFunction)(nil)

func (f *rangeFunction) Name() string { return "go_range" }

func (f *rangeFunction) Parameters() []contracts.LogicalType {
	return []contracts.LogicalType{
		contracts.Primitive(contracts.TypeBigInt),
		contracts.Primitive(contracts.TypeBigInt),
	}
}

func (f *rangeFunction) NamedParameters() map[string]contracts.LogicalType {
	return map[string]contracts.LogicalType{
		"step": contracts.Primitive(contracts.TypeBigInt),
	}
}

func (f *rangeFunction) SupportsProjectionPushdown() bool { return false }

func (f *rangeFunction) Bind(input contracts.IBindInput) (contracts.IBindData, error) {
	if f.bindErr != nil {
		return nil, f.bindErr
	}

	start, err := input.Parameter(0)
	if err != nil {
		return nil, err
	}
	stop, err := input.Parameter(1)
	if err != nil {
		return nil, err
	}
	if start == nil || stop == nil {
		return nil, contracts.NewError(contracts.ErrTableFunction, "range bounds must not be NULL")
	}

	step := int64(1)
	if v, err := input.NamedParameter("step"); err != nil {
		return nil, err
	} else if v != nil {
		step = v.(int64)
	}
	if step <= 0 {
		return nil, contracts.NewError(contracts.ErrTableFunction, "step must be positive")
	}

	return &rangeBindData{
		fn:    f,
		start: start.(int64),
		stop:  stop.(int64),
		step:  step,
	}, nil
}

type rangeBindData struct {
	fn          *rangeFunction
	start, stop int64
	step        int64
}

func (b *rangeBindData) Columns() []contracts.ColumnDef {
	return []contracts.ColumnDef{
		{Name: "value", Type: contracts.Primitive(contracts.TypeBigInt)},
	}
}

func (b *rangeBindData) Cardinality() (uint64, bool, bool) {
	if b.stop < b.start {
		return 0, true, true
	}
	return uint64((b.stop-b.start)/b.step + 1), true, true
}

func (b *rangeBindData) InitGlobal(_ contracts.IInitInput) (contracts.IGlobalState, error) {
	return &rangeGlobalState{bind: b}, nil
}

func (b *rangeBindData) Close() error {
	b.fn.bindCloses.Add(1)
	return nil
}

type rangeGlobalState struct {
	bind *rangeBindData
}

func (g *rangeGlobalState) MaxThreads() int { return 1 }

func (g *rangeGlobalState) InitLocal(_ contracts.IInitInput) (contracts.ILocalState, error) {
	return &rangeLocalState{
		fn:   g.bind.fn,
		next: g.bind.start,
		stop: g.bind.stop,
		step: g.bind.step,
	}, nil
}

func (g *rangeGlobalState) Close() error {
	g.bind.fn.globalCloses.Add(1)
	return nil
}

type rangeLocalState struct {
	fn         *rangeFunction
	next, stop int64
	step       int64
}

func (s *rangeLocalState) FillChunk(out contracts.IChunk) error {
	if s.fn.panicInFill {
		panic("deliberate panic in produce")
	}
	if s.fn.produceErr != nil {
		return s.fn.produceErr
	}

	col := out.Column(0)
	row := 0
	for ; row < out.Capacity() && s.next <= s.stop; row++ {
		if err := col.SetInt64(row, s.next); err != nil {
			return err
		}
		s.next += s.step
	}
	out.SetSize(row)
	return nil
}

func (s *rangeLocalState) Close() error {
	s.fn.localCloses.Add(1)
	if s.fn.panicInClose {
		panic("deliberate panic in close")
	}
	return nil
}

func TestTableFunctionProducesRows(t *testing.T) {
	conn, cleanup := setupTestConn(t)
	defer cleanup()

	ctx := context.Background()
	fn := &rangeFunction{}
	if err := conn.RegisterTableFunction(ctx, fn); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	rows, err := conn.Query(ctx, "SELECT value FROM go_range(1, 5000)")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	defer rows.Close()

	var count, sum int64
	for rows.Next() {
		v, err := rows.GetInt64(0)
		if err != nil {
			t.Fatalf("GetInt64 failed: %v", err)
		}
		count++
		sum += v
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("Stream error: %v", err)
	}

	assert.Equal(t, int64(5000), count)
	assert.Equal(t, int64(5000*5001/2), sum)
}

func TestTableFunctionNamedParameter(t *testing.T) {
	conn, cleanup := setupTestConn(t)
	defer cleanup()

	ctx := context.Background()
	fn := &rangeFunction{}
	if err := conn.RegisterTableFunction(ctx, fn); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	rows, err := conn.Query(ctx, "SELECT value FROM go_range(0, 10, step=2)")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	defer rows.Close()

	var got []int64
	for rows.Next() {
		v, err := rows.GetInt64(0)
		if err != nil {
			t.Fatalf("GetInt64 failed: %v", err)
		}
		got = append(got, v)
	}
	assert.Equal(t, []int64{0, 2, 4, 6, 8, 10}, got)
}

func TestTableFunctionComposesWithSQL(t *testing.T) {
	conn, cleanup := setupTestConn(t)
	defer cleanup()

	ctx := context.Background()
	fn := &rangeFunction{}
	if err := conn.RegisterTableFunction(ctx, fn); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	rows, err := conn.Query(ctx,
		"SELECT sum(value)::BIGINT FROM go_range(1, 100) WHERE value % 2 = 0")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	defer rows.Close()

	if !rows.Next() {
		t.Fatalf("Expected one row")
	}
	v, err := rows.GetInt64(0)
	if err != nil {
		t.Fatalf("GetInt64 failed: %v", err)
	}
	assert.Equal(t, int64(2550), v)
}

func TestTableFunctionBindErrorFailsQuery(t *testing.T) {
	conn, cleanup := setupTestConn(t)
	defer cleanup()

	ctx := context.Background()
	fn := &rangeFunction{
		bindErr: contracts.NewError(contracts.ErrTableFunction, "bad arguments for range"),
	}
	if err := conn.RegisterTableFunction(ctx, fn); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	_, err := conn.Query(ctx, "SELECT * FROM go_range(1, 10)")
	if err == nil {
		t.Fatalf("Expected bind failure to fail the query")
	}
	assert.Contains(t, err.Error(), "bad arguments for range")
}

func TestTableFunctionProduceErrorFailsQuery(t *testing.T) {
	conn, cleanup := setupTestConn(t)
	defer cleanup()

	ctx := context.Background()
	fn := &rangeFunction{
		produceErr: contracts.NewError(contracts.ErrTableFunction, "storage unavailable"),
	}
	if err := conn.RegisterTableFunction(ctx, fn); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	rows, err := conn.Query(ctx, "SELECT * FROM go_range(1, 10)")
	if err == nil {
		defer rows.Close()
		for rows.Next() {
		}
		err = rows.Err()
	}
	if err == nil {
		t.Fatalf("Expected produce failure to surface")
	}
	assert.Contains(t, err.Error(), "storage unavailable")
}

func TestTableFunctionPanicBecomesQueryError(t *testing.T) {
	conn, cleanup := setupTestConn(t)
	defer cleanup()

	ctx := context.Background()
	fn := &rangeFunction{panicInFill: true}
	if err := conn.RegisterTableFunction(ctx, fn); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	rows, err := conn.Query(ctx, "SELECT * FROM go_range(1, 10)")
	if err == nil {
		defer rows.Close()
		for rows.Next() {
		}
		err = rows.Err()
	}
	if err == nil {
		t.Fatalf("Expected panic in produce to fail the query, not crash")
	}
	assert.Contains(t, err.Error(), "panic")
}

func TestTableFunctionStatesCloseExactlyOnce(t *testing.T) {
	conn, cleanup := setupTestConn(t)

	ctx := context.Background()
	fn := &rangeFunction{}
	if err := conn.RegisterTableFunction(ctx, fn); err != nil {
		cleanup()
		t.Fatalf("Register failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		rows, err := conn.Query(ctx, "SELECT * FROM go_range(1, 10)")
		if err != nil {
			cleanup()
			t.Fatalf("Query %d failed: %v", i, err)
		}
		for rows.Next() {
		}
		rows.Close()
	}

	// Teardown happens when the engine drops the per-query states; closing
	// the connection and database forces everything down.
	cleanup()

	assert.Equal(t, int64(3), fn.bindCloses.Load(), "bind data closes")
	assert.Equal(t, int64(3), fn.globalCloses.Load(), "global state closes")
	assert.Equal(t, int64(3), fn.localCloses.Load(), "local state closes")
}

func TestTableFunctionPanicInCloseDoesNotCrash(t *testing.T) {
	conn, cleanup := setupTestConn(t)

	ctx := context.Background()
	fn := &rangeFunction{panicInClose: true}
	if err := conn.RegisterTableFunction(ctx, fn); err != nil {
		cleanup()
		t.Fatalf("Register failed: %v", err)
	}

	// Teardown has no error slot; a panicking Close is contained and the
	// query still succeeds.
	rows, err := conn.Query(ctx, "SELECT * FROM go_range(1, 10)")
	if err != nil {
		cleanup()
		t.Fatalf("Query failed: %v", err)
	}
	count := 0
	for rows.Next() {
		count++
	}
	rows.Close()
	cleanup()

	assert.Equal(t, 10, count)
	assert.Equal(t, int64(1), fn.localCloses.Load(), "local state closes")
}

func TestTableFunctionGlobalStateClosesPerExecution(t *testing.T) {
	conn, cleanup := setupTestConn(t)

	ctx := context.Background()
	fn := &rangeFunction{}
	if err := conn.RegisterTableFunction(ctx, fn); err != nil {
		cleanup()
		t.Fatalf("Register failed: %v", err)
	}

	// Re-executing a prepared statement binds once but runs global init per
	// execution; every execution's global state must still be torn down.
	stmt, err := conn.Prepare(ctx, "SELECT * FROM go_range(1, 10)")
	if err != nil {
		cleanup()
		t.Fatalf("Prepare failed: %v", err)
	}
	for i := 0; i < 2; i++ {
		rows, err := stmt.Query(ctx)
		if err != nil {
			cleanup()
			t.Fatalf("Query %d failed: %v", i, err)
		}
		for rows.Next() {
		}
		rows.Close()
	}
	stmt.Close()
	cleanup()

	assert.Equal(t, int64(2), fn.globalCloses.Load(), "global state closes")
	assert.Equal(t, int64(2), fn.localCloses.Load(), "local state closes")
}

func TestTableFunctionStatesCloseOnceWhenAbandonedEarly(t *testing.T) {
	conn, cleanup := setupTestConn(t)

	ctx := context.Background()
	fn := &rangeFunction{}
	if err := conn.RegisterTableFunction(ctx, fn); err != nil {
		cleanup()
		t.Fatalf("Register failed: %v", err)
	}

	// The scan stops after the first chunk; the states still close, once.
	rows, err := conn.Query(ctx, "SELECT * FROM go_range(1, 100000) LIMIT 1")
	if err != nil {
		cleanup()
		t.Fatalf("Query failed: %v", err)
	}
	if !rows.Next() {
		cleanup()
		t.Fatalf("Expected one row")
	}
	rows.Close()
	cleanup()

	assert.Equal(t, int64(1), fn.bindCloses.Load(), "bind data closes")
	assert.Equal(t, int64(1), fn.globalCloses.Load(), "global state closes")
	assert.Equal(t, int64(1), fn.localCloses.Load(), "local state closes")
}

func TestTableFunctionNullArgumentReachesBind(t *testing.T) {
	conn, cleanup := setupTestConn(t)
	defer cleanup()

	ctx := context.Background()
	fn := &rangeFunction{}
	if err := conn.RegisterTableFunction(ctx, fn); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	// A NULL argument arrives as nil, not as a zero value.
	_, err := conn.Query(ctx, "SELECT * FROM go_range(NULL, 5)")
	if err == nil {
		t.Fatalf("Expected NULL range bound to fail the bind")
	}
	assert.Contains(t, err.Error(), "must not be NULL")
}

func TestTableFunctionEmptyResult(t *testing.T) {
	conn, cleanup := setupTestConn(t)
	defer cleanup()

	ctx := context.Background()
	fn := &rangeFunction{}
	if err := conn.RegisterTableFunction(ctx, fn); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	rows, err := conn.Query(ctx, "SELECT * FROM go_range(10, 1)")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	defer rows.Close()

	if rows.Next() {
		t.Fatalf("Expected no rows from empty range")
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("Unexpected stream error: %v", err)
	}
}

func TestRegisterTableFunctionRequiresName(t *testing.T) {
	conn, cleanup := setupTestConn(t)
	defer cleanup()

	err := conn.RegisterTableFunction(context.Background(), &namelessFunction{})
	if err == nil {
		t.Fatalf("Expected registration of nameless function to fail")
	}
}

type namelessFunction struct{ rangeFunction }

func (f *namelessFunction) Name() string { return "" }
