// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: Copyright The DuckDB Go Authors

package tests

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	duckdb "github.com/duckdb-go/duckdb-go/pkg"
	"github.com/duckdb-go/duckdb-go/pkg/contracts"
)

// setupTestConn opens an in-memory database and one connection
func setupTestConn(t *testing.T) (contracts.IConnection, func()) {
	t.Helper()

	db, err := duckdb.Open("")
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}

	conn, err := db.Connect(context.Background())
	if err != nil {
		db.Close()
		t.Fatalf("Failed to connect: %v", err)
	}

	cleanup := func() {
		conn.Close()
		db.Close()
	}
	return conn, cleanup
}

func TestOpenInMemory(t *testing.T) {
	db, err := duckdb.Open("")
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}
	defer db.Close()

	if db.IsClosed() {
		t.Fatalf("Expected database to be open")
	}
}

func TestOpenFilePersists(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "duckdb_open_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	path := filepath.Join(tmpDir, "test.db")

	db, err := duckdb.Open(path)
	if err != nil {
		t.Fatalf("Failed to open database at %s: %v", path, err)
	}

	conn, err := db.Connect(context.Background())
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	if _, err := conn.Execute(context.Background(), "CREATE TABLE t (a INTEGER)"); err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}
	if _, err := conn.Execute(context.Background(), "INSERT INTO t VALUES (42)"); err != nil {
		t.Fatalf("Failed to insert: %v", err)
	}
	conn.Close()
	db.Close()

	// Reopen and read back
	db2, err := duckdb.Open(path)
	if err != nil {
		t.Fatalf("Failed to reopen database: %v", err)
	}
	defer db2.Close()

	conn2, err := db2.Connect(context.Background())
	if err != nil {
		t.Fatalf("Failed to reconnect: %v", err)
	}
	defer conn2.Close()

	rows, err := conn2.Query(context.Background(), "SELECT a FROM t")
	if err != nil {
		t.Fatalf("Failed to query: %v", err)
	}
	defer rows.Close()

	if !rows.Next() {
		t.Fatalf("Expected one row")
	}
	got, err := rows.GetInt32(0)
	if err != nil {
		t.Fatalf("Failed to read value: %v", err)
	}
	if got != 42 {
		t.Fatalf("Expected 42, got %d", got)
	}
}

func TestOpenConfigRejectsBadOption(t *testing.T) {
	_, err := duckdb.OpenConfig("", &duckdb.Config{
		Options: map[string]string{"definitely_not_an_option": "1"},
	})
	if err == nil {
		t.Fatalf("Expected error for unknown config option")
	}
	if !duckdb.IsKind(err, duckdb.ErrConfiguration) {
		t.Fatalf("Expected configuration error, got %v", err)
	}
}

func TestOpenConfigReadOnly(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "duckdb_readonly_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	path := filepath.Join(tmpDir, "ro.db")

	// Create the file first
	db, err := duckdb.Open(path)
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	db.Close()

	ro, err := duckdb.OpenConfig(path, &duckdb.Config{AccessMode: duckdb.AccessModeReadOnly})
	if err != nil {
		t.Fatalf("Failed to open read-only: %v", err)
	}
	defer ro.Close()

	conn, err := ro.Connect(context.Background())
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	defer conn.Close()

	if _, err := conn.Execute(context.Background(), "CREATE TABLE t (a INTEGER)"); err == nil {
		t.Fatalf("Expected write to fail on read-only database")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	db, err := duckdb.Open("")
	if err != nil {
		t.Fatalf("Failed to open: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("First close failed: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Second close failed: %v", err)
	}
	if !db.IsClosed() {
		t.Fatalf("Expected database to report closed")
	}
}

func TestConnectAfterCloseFails(t *testing.T) {
	db, err := duckdb.Open("")
	if err != nil {
		t.Fatalf("Failed to open: %v", err)
	}
	db.Close()

	if _, err := db.Connect(context.Background()); err == nil {
		t.Fatalf("Expected connect on closed database to fail")
	} else if !duckdb.IsKind(err, duckdb.ErrConnection) {
		t.Fatalf("Expected connection error, got %v", err)
	}
}

func TestDatabaseCloseTearsDownConnections(t *testing.T) {
	db, err := duckdb.Open("")
	if err != nil {
		t.Fatalf("Failed to open: %v", err)
	}

	conn, err := db.Connect(context.Background())
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}

	if err := db.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if !conn.IsClosed() {
		t.Fatalf("Expected connection to be closed with the database")
	}
}

func TestOperationsOnClosedConnection(t *testing.T) {
	conn, cleanup := setupTestConn(t)
	cleanup()

	ctx := context.Background()
	if _, err := conn.Query(ctx, "SELECT 1"); err == nil {
		t.Fatalf("Expected query on closed connection to fail")
	}
	if _, err := conn.Prepare(ctx, "SELECT 1"); err == nil {
		t.Fatalf("Expected prepare on closed connection to fail")
	}
}
