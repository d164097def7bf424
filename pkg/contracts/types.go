// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: Copyright The DuckDB Go Authors

package contracts

import (
	"math/big"
	"time"
)

// TypeID identifies an engine logical type. The values mirror the native
// DUCKDB_TYPE_* enumeration; conversion code must check the tag before
// interpreting raw column data.
type TypeID int

const (
	TypeInvalid TypeID = iota
	TypeBoolean
	TypeTinyInt
	TypeSmallInt
	TypeInteger
	TypeBigInt
	TypeUTinyInt
	TypeUSmallInt
	TypeUInteger
	TypeUBigInt
	TypeFloat
	TypeDouble
	TypeTimestamp
	TypeDate
	TypeTime
	TypeInterval
	TypeHugeInt
	TypeUHugeInt
	TypeVarchar
	TypeBlob
	TypeDecimal
	TypeTimestampS
	TypeTimestampMS
	TypeTimestampNS
	TypeEnum
	TypeList
	TypeStruct
	TypeMap
	TypeArray
	TypeUUID
	TypeUnion
	TypeBit
	TypeTimeTZ
	TypeTimestampTZ
	TypeAny
	TypeVarInt
	TypeSQLNull
)

func (t TypeID) String() string {
	switch t {
	case TypeBoolean:
		return "BOOLEAN"
	case TypeTinyInt:
		return "TINYINT"
	case TypeSmallInt:
		return "SMALLINT"
	case TypeInteger:
		return "INTEGER"
	case TypeBigInt:
		return "BIGINT"
	case TypeUTinyInt:
		return "UTINYINT"
	case TypeUSmallInt:
		return "USMALLINT"
	case TypeUInteger:
		return "UINTEGER"
	case TypeUBigInt:
		return "UBIGINT"
	case TypeFloat:
		return "FLOAT"
	case TypeDouble:
		return "DOUBLE"
	case TypeTimestamp:
		return "TIMESTAMP"
	case TypeDate:
		return "DATE"
	case TypeTime:
		return "TIME"
	case TypeInterval:
		return "INTERVAL"
	case TypeHugeInt:
		return "HUGEINT"
	case TypeUHugeInt:
		return "UHUGEINT"
	case TypeVarchar:
		return "VARCHAR"
	case TypeBlob:
		return "BLOB"
	case TypeDecimal:
		return "DECIMAL"
	case TypeTimestampS:
		return "TIMESTAMP_S"
	case TypeTimestampMS:
		return "TIMESTAMP_MS"
	case TypeTimestampNS:
		return "TIMESTAMP_NS"
	case TypeEnum:
		return "ENUM"
	case TypeList:
		return "LIST"
	case TypeStruct:
		return "STRUCT"
	case TypeMap:
		return "MAP"
	case TypeArray:
		return "ARRAY"
	case TypeUUID:
		return "UUID"
	case TypeUnion:
		return "UNION"
	case TypeBit:
		return "BIT"
	case TypeTimeTZ:
		return "TIME_TZ"
	case TypeTimestampTZ:
		return "TIMESTAMP_TZ"
	case TypeAny:
		return "ANY"
	case TypeVarInt:
		return "VARINT"
	case TypeSQLNull:
		return "SQLNULL"
	}
	return "INVALID"
}

// LogicalType is the runtime description of a column or value type: a tag
// plus nested descriptors for the container types.
type LogicalType struct {
	ID TypeID

	// Child is set for LIST and ARRAY types.
	Child *LogicalType
	// ArraySize is set for ARRAY types.
	ArraySize int
	// Fields is set for STRUCT types, in declaration order.
	Fields []StructField
	// Members is set for ENUM types, indexed by the stored dictionary index.
	Members []string
	// Width and Scale are set for DECIMAL types.
	Width uint8
	Scale uint8
}

// StructField is one named member of a STRUCT logical type.
type StructField struct {
	Name string
	Type LogicalType
}

// Type constructors for the common cases.

func Primitive(id TypeID) LogicalType { return LogicalType{ID: id} }

func ListOf(child LogicalType) LogicalType {
	return LogicalType{ID: TypeList, Child: &child}
}

func StructOf(fields ...StructField) LogicalType {
	return LogicalType{ID: TypeStruct, Fields: fields}
}

func EnumOf(members ...string) LogicalType {
	return LogicalType{ID: TypeEnum, Members: members}
}

func DecimalOf(width, scale uint8) LogicalType {
	return LogicalType{ID: TypeDecimal, Width: width, Scale: scale}
}

// Null is the sentinel used to bind a NULL parameter or write a NULL cell.
type Null struct{}

// Interval mirrors the engine's INTERVAL storage.
type Interval struct {
	Months int32
	Days   int32
	Micros int64
}

// Decimal carries a DECIMAL value as an exact integer mantissa with the
// declared width and scale.
type Decimal struct {
	Width uint8
	Scale uint8
	Value *big.Int
}

// Float64 returns the approximate floating point rendition of the decimal.
func (d Decimal) Float64() float64 {
	if d.Value == nil {
		return 0
	}
	f := new(big.Float).SetInt(d.Value)
	for i := uint8(0); i < d.Scale; i++ {
		f.Quo(f, big.NewFloat(10))
	}
	out, _ := f.Float64()
	return out
}

// ParameterBinder is the encode capability: a type that knows how to bind
// itself into a statement parameter. Implementations must bottom out in one
// of the fixed primitive representations exposed by IStatement.
type ParameterBinder interface {
	BindParameter(stmt IStatement, index int) error
}

// ColumnScanner is the decode capability: a type that knows how to populate
// itself from a row column. Implementations must bottom out in the typed
// getters exposed by IRows, which enforce the logical-type tag check.
type ColumnScanner interface {
	ScanColumn(rows IRows, index int) error
}

var unixEpoch = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)

// DateToDays converts a civil date to the engine's days-since-epoch storage.
func DateToDays(t time.Time) int32 {
	return int32(t.UTC().Truncate(24*time.Hour).Sub(unixEpoch) / (24 * time.Hour))
}

// DaysToDate converts days-since-epoch back to a UTC time at midnight.
func DaysToDate(days int32) time.Time {
	return unixEpoch.AddDate(0, 0, int(days))
}
