// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: Copyright The DuckDB Go Authors

/*
Package duckdb provides Go bindings for DuckDB, an in-process analytical
database.

DuckDB executes SQL over columnar data entirely inside the host process.
This package wraps the engine's C API behind a safe, idiomatic Go surface:
explicit handles with Close semantics, typed accessors over columnar result
chunks, prepared statements with parameter binding, user-defined table
functions written in Go, and zero-copy-friendly export to Apache Arrow
records.

# Basic Usage

Open a database, connect, and run queries:

	db, err := duckdb.Open("./my.db")
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	conn, err := db.Connect(context.Background())
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	rows, err := conn.Query(context.Background(), "SELECT id, name FROM users")
	if err != nil {
		log.Fatal(err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			log.Fatal(err)
		}
	}
	if err := rows.Err(); err != nil {
		log.Fatal(err)
	}

An empty path opens a transient in-memory database:

	db, err := duckdb.Open("")

# Configuration

OpenConfig applies engine options before the database starts:

	db, err := duckdb.OpenConfig("./my.db", &duckdb.Config{
		AccessMode: duckdb.AccessModeReadOnly,
		Threads:    4,
		MaxMemory:  "2GB",
	})

# Prepared Statements

Statements compile once and re-execute with fresh bindings:

	stmt, err := conn.Prepare(ctx, "SELECT * FROM t WHERE a > ? AND b = ?")
	if err != nil {
		log.Fatal(err)
	}
	defer stmt.Close()

	stmt.Bind(1, int64(10))
	stmt.Bind(2, "active")
	rows, err := stmt.Query(ctx)

# Table Functions

Go code can back a SQL table. Implement TableFunction and register it; the
engine calls Bind during planning and streams rows out through chunk
callbacks:

	err := conn.RegisterTableFunction(ctx, &sequenceFunction{})
	// ...
	rows, err := conn.Query(ctx, "SELECT * FROM sequence(1, 100)")

# Arrow Export

Full results convert to Arrow records, one per chunk:

	res, err := conn.Execute(ctx, "SELECT * FROM big_table")
	if err != nil {
		log.Fatal(err)
	}
	records, err := res.ReadAll()

# Thread Safety

A Database is safe for concurrent use and hands out independent
connections. A Connection serializes its work; use one connection per
goroutine for parallel queries. Interrupt and Close are safe to call from
any goroutine, which is how context cancellation is implemented.

# Memory Management

Every handle (database, connection, statement, result, rows) owns native
memory and must be closed. Finalizers back up forgotten Close calls, but
relying on them delays reclamation until garbage collection.
*/
package duckdb
