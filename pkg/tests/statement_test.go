// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: Copyright The DuckDB Go Authors

package tests

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	duckdb "github.com/duckdb-go/duckdb-go/pkg"
	"github.com/duckdb-go/duckdb-go/pkg/contracts"
)

func TestPrepareReportsSyntaxErrors(t *testing.T) {
	conn, cleanup := setupTestConn(t)
	defer cleanup()

	_, err := conn.Prepare(context.Background(), "SELEC broken")
	if err == nil {
		t.Fatalf("Expected syntax error at prepare time")
	}
	if !duckdb.IsKind(err, duckdb.ErrPreparation) {
		t.Fatalf("Expected preparation error, got %v", err)
	}
}

func TestStatementBindAndQuery(t *testing.T) {
	conn, cleanup := setupTestConn(t)
	defer cleanup()

	ctx := context.Background()
	stmt, err := conn.Prepare(ctx, "SELECT ?::BIGINT + ?::BIGINT")
	if err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	defer stmt.Close()

	assert.Equal(t, 2, stmt.ParameterCount())

	if err := stmt.Bind(1, int64(40)); err != nil {
		t.Fatalf("Bind 1 failed: %v", err)
	}
	if err := stmt.Bind(2, int64(2)); err != nil {
		t.Fatalf("Bind 2 failed: %v", err)
	}

	rows, err := stmt.Query(ctx)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	defer rows.Close()

	if !rows.Next() {
		t.Fatalf("Expected one row")
	}
	got, err := rows.GetInt64(0)
	if err != nil {
		t.Fatalf("GetInt64 failed: %v", err)
	}
	assert.Equal(t, int64(42), got)
}

func TestStatementBindIndexOutOfRange(t *testing.T) {
	conn, cleanup := setupTestConn(t)
	defer cleanup()

	stmt, err := conn.Prepare(context.Background(), "SELECT ?::INTEGER")
	if err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	defer stmt.Close()

	if err := stmt.Bind(0, int32(1)); err == nil {
		t.Fatalf("Expected error for index 0; parameters are 1-based")
	} else if !duckdb.IsKind(err, duckdb.ErrBinding) {
		t.Fatalf("Expected binding error, got %v", err)
	}

	if err := stmt.Bind(2, int32(1)); err == nil {
		t.Fatalf("Expected error for index past parameter count")
	}
}

func TestStatementNamedParameters(t *testing.T) {
	conn, cleanup := setupTestConn(t)
	defer cleanup()

	ctx := context.Background()
	stmt, err := conn.Prepare(ctx, "SELECT $lo::BIGINT, $hi::BIGINT")
	if err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	defer stmt.Close()

	if err := stmt.BindNamed("lo", int64(1)); err != nil {
		t.Fatalf("BindNamed lo failed: %v", err)
	}
	if err := stmt.BindNamed("hi", int64(99)); err != nil {
		t.Fatalf("BindNamed hi failed: %v", err)
	}
	if err := stmt.BindNamed("missing", int64(0)); err == nil {
		t.Fatalf("Expected error for unknown parameter name")
	}

	rows, err := stmt.Query(ctx)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	defer rows.Close()

	if !rows.Next() {
		t.Fatalf("Expected one row")
	}
	var lo, hi int64
	if err := rows.Scan(&lo, &hi); err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	assert.Equal(t, int64(1), lo)
	assert.Equal(t, int64(99), hi)
}

func TestStatementReuseWithRebinding(t *testing.T) {
	conn, cleanup := setupTestConn(t)
	defer cleanup()

	ctx := context.Background()
	if _, err := conn.Execute(ctx, "CREATE TABLE t (a INTEGER)"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	stmt, err := conn.Prepare(ctx, "INSERT INTO t VALUES (?)")
	if err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	defer stmt.Close()

	for i := int32(0); i < 10; i++ {
		if err := stmt.Bind(1, i); err != nil {
			t.Fatalf("Bind failed at %d: %v", i, err)
		}
		res, err := stmt.Execute(ctx)
		if err != nil {
			t.Fatalf("Execute failed at %d: %v", i, err)
		}
		res.Close()
	}

	rows, err := conn.Query(ctx, "SELECT count(*), sum(a) FROM t")
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	defer rows.Close()

	if !rows.Next() {
		t.Fatalf("Expected one row")
	}
	count, err := rows.GetInt64(0)
	if err != nil {
		t.Fatalf("GetInt64 failed: %v", err)
	}
	assert.Equal(t, int64(10), count)
}

func TestStatementClearBindings(t *testing.T) {
	conn, cleanup := setupTestConn(t)
	defer cleanup()

	stmt, err := conn.Prepare(context.Background(), "SELECT ?::INTEGER")
	if err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	defer stmt.Close()

	if err := stmt.Bind(1, int32(5)); err != nil {
		t.Fatalf("Bind failed: %v", err)
	}
	if err := stmt.ClearBindings(); err != nil {
		t.Fatalf("ClearBindings failed: %v", err)
	}

	// Cleared statements are back to unbound and refuse to execute.
	if _, err := stmt.Execute(context.Background()); err == nil {
		t.Fatalf("Expected execute after ClearBindings to fail")
	}
}

func TestStatementExecuteWithUnboundParameters(t *testing.T) {
	conn, cleanup := setupTestConn(t)
	defer cleanup()

	ctx := context.Background()
	stmt, err := conn.Prepare(ctx, "SELECT ?::INTEGER + ?::INTEGER")
	if err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	defer stmt.Close()

	if err := stmt.Bind(1, int32(1)); err != nil {
		t.Fatalf("Bind failed: %v", err)
	}
	if _, err := stmt.Execute(ctx); err == nil {
		t.Fatalf("Expected execute with unbound parameter to fail")
	} else if !duckdb.IsKind(err, duckdb.ErrBinding) {
		t.Fatalf("Expected binding error, got %v", err)
	}

	if err := stmt.Bind(2, int32(2)); err != nil {
		t.Fatalf("Bind failed: %v", err)
	}
	res, err := stmt.Execute(ctx)
	if err != nil {
		t.Fatalf("Execute failed once fully bound: %v", err)
	}
	res.Close()
}

func TestStatementBindNullAndBlob(t *testing.T) {
	conn, cleanup := setupTestConn(t)
	defer cleanup()

	ctx := context.Background()
	stmt, err := conn.Prepare(ctx, "SELECT ?, ?::BLOB")
	if err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	defer stmt.Close()

	if err := stmt.Bind(1, nil); err != nil {
		t.Fatalf("Bind nil failed: %v", err)
	}
	blob := []byte{0x00, 0x01, 0xfe, 0xff}
	if err := stmt.Bind(2, blob); err != nil {
		t.Fatalf("Bind blob failed: %v", err)
	}

	rows, err := stmt.Query(ctx)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	defer rows.Close()

	if !rows.Next() {
		t.Fatalf("Expected one row")
	}
	assert.True(t, rows.IsNull(0))
	got, err := rows.GetBytes(1)
	if err != nil {
		t.Fatalf("GetBytes failed: %v", err)
	}
	assert.Equal(t, blob, got)
}

// money stores cents and binds itself as BIGINT.
type money struct {
	cents int64
}

func (m money) BindParameter(stmt contracts.IStatement, index int) error {
	return stmt.Bind(index, m.cents)
}

func (m *money) ScanColumn(rows contracts.IRows, index int) error {
	cents, err := rows.GetInt64(index)
	if err != nil {
		return err
	}
	m.cents = cents
	return nil
}

func TestCapabilityTraits(t *testing.T) {
	conn, cleanup := setupTestConn(t)
	defer cleanup()

	ctx := context.Background()
	stmt, err := conn.Prepare(ctx, "SELECT ?::BIGINT * 2")
	if err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	defer stmt.Close()

	if err := stmt.Bind(1, money{cents: 150}); err != nil {
		t.Fatalf("Bind via ParameterBinder failed: %v", err)
	}

	rows, err := stmt.Query(ctx)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	defer rows.Close()

	if !rows.Next() {
		t.Fatalf("Expected one row")
	}
	var got money
	if err := rows.Scan(&got); err != nil {
		t.Fatalf("Scan via ColumnScanner failed: %v", err)
	}
	assert.Equal(t, int64(300), got.cents)
}

func TestStatementCloseIsIdempotent(t *testing.T) {
	conn, cleanup := setupTestConn(t)
	defer cleanup()

	stmt, err := conn.Prepare(context.Background(), "SELECT 1")
	if err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	if err := stmt.Close(); err != nil {
		t.Fatalf("First close failed: %v", err)
	}
	if err := stmt.Close(); err != nil {
		t.Fatalf("Second close failed: %v", err)
	}
	if _, err := stmt.Execute(context.Background()); err == nil {
		t.Fatalf("Expected execute on closed statement to fail")
	}
}
