// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: Copyright The DuckDB Go Authors

package contracts

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessageIncludesKind(t *testing.T) {
	err := NewError(ErrPreparation, "syntax error near SELEC")
	assert.Equal(t, `duckdb: preparation error: syntax error near SELEC`, err.Error())

	empty := NewError(ErrConnection, "")
	assert.Equal(t, `duckdb: connection error`, empty.Error())
}

func TestErrorfFormats(t *testing.T) {
	err := NewErrorf(ErrBinding, "parameter index %d out of range", 7)
	assert.Contains(t, err.Error(), "parameter index 7 out of range")
}

func TestWrapErrorKeepsCause(t *testing.T) {
	cause := errors.New("disk full")
	err := WrapError(ErrExecution, cause, "query failed")

	if !errors.Is(err, cause) {
		t.Fatalf("wrapped error lost its cause")
	}
	assert.Contains(t, err.Error(), "query failed")
	assert.Contains(t, err.Error(), "disk full")
}

func TestWrapErrorNil(t *testing.T) {
	if err := WrapError(ErrExecution, nil, "context"); err != nil {
		t.Fatalf("expected nil for nil cause, got %v", err)
	}
}

func TestIsKind(t *testing.T) {
	err := NewError(ErrTypeMismatch, "requested BIGINT but value is VARCHAR")

	assert.True(t, IsKind(err, ErrTypeMismatch))
	assert.False(t, IsKind(err, ErrExecution))
	assert.False(t, IsKind(nil, ErrTypeMismatch))

	wrapped := fmt.Errorf("outer: %w", err)
	assert.True(t, IsKind(wrapped, ErrTypeMismatch))
}

func TestTypeMismatchErrorNamesBothTypes(t *testing.T) {
	err := NewTypeMismatchError(TypeBigInt, TypeVarchar)
	assert.Contains(t, err.Error(), "BIGINT")
	assert.Contains(t, err.Error(), "VARCHAR")
	assert.True(t, IsKind(err, ErrTypeMismatch))
}

func TestErrorKindStrings(t *testing.T) {
	kinds := map[ErrorKind]string{
		ErrConfiguration: "configuration",
		ErrConnection:    "connection",
		ErrPreparation:   "preparation",
		ErrBinding:       "binding",
		ErrExecution:     "execution",
		ErrTypeMismatch:  "type mismatch",
		ErrResource:      "resource",
		ErrTableFunction: "table function",
		ErrExtension:     "extension",
	}
	for kind, want := range kinds {
		if kind.String() != want {
			t.Fatalf("kind %d: expected %q, got %q", kind, want, kind.String())
		}
	}
}
