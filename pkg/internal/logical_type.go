// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: Copyright The DuckDB Go Authors

package internal

/*
#include <duckdb.h>
#include <stdlib.h>
*/
import "C"

import (
	"unsafe"

	"github.com/duckdb-go/duckdb-go/pkg/contracts"
)

// typeIDFromNative maps the native type tag onto the contracts enumeration.
func typeIDFromNative(t C.duckdb_type) contracts.TypeID {
	switch t {
	case C.DUCKDB_TYPE_BOOLEAN:
		return contracts.TypeBoolean
	case C.DUCKDB_TYPE_TINYINT:
		return contracts.TypeTinyInt
	case C.DUCKDB_TYPE_SMALLINT:
		return contracts.TypeSmallInt
	case C.DUCKDB_TYPE_INTEGER:
		return contracts.TypeInteger
	case C.DUCKDB_TYPE_BIGINT:
		return contracts.TypeBigInt
	case C.DUCKDB_TYPE_UTINYINT:
		return contracts.TypeUTinyInt
	case C.DUCKDB_TYPE_USMALLINT:
		return contracts.TypeUSmallInt
	case C.DUCKDB_TYPE_UINTEGER:
		return contracts.TypeUInteger
	case C.DUCKDB_TYPE_UBIGINT:
		return contracts.TypeUBigInt
	case C.DUCKDB_TYPE_FLOAT:
		return contracts.TypeFloat
	case C.DUCKDB_TYPE_DOUBLE:
		return contracts.TypeDouble
	case C.DUCKDB_TYPE_TIMESTAMP:
		return contracts.TypeTimestamp
	case C.DUCKDB_TYPE_DATE:
		return contracts.TypeDate
	case C.DUCKDB_TYPE_TIME:
		return contracts.TypeTime
	case C.DUCKDB_TYPE_INTERVAL:
		return contracts.TypeInterval
	case C.DUCKDB_TYPE_HUGEINT:
		return contracts.TypeHugeInt
	case C.DUCKDB_TYPE_UHUGEINT:
		return contracts.TypeUHugeInt
	case C.DUCKDB_TYPE_VARCHAR:
		return contracts.TypeVarchar
	case C.DUCKDB_TYPE_BLOB:
		return contracts.TypeBlob
	case C.DUCKDB_TYPE_DECIMAL:
		return contracts.TypeDecimal
	case C.DUCKDB_TYPE_TIMESTAMP_S:
		return contracts.TypeTimestampS
	case C.DUCKDB_TYPE_TIMESTAMP_MS:
		return contracts.TypeTimestampMS
	case C.DUCKDB_TYPE_TIMESTAMP_NS:
		return contracts.TypeTimestampNS
	case C.DUCKDB_TYPE_ENUM:
		return contracts.TypeEnum
	case C.DUCKDB_TYPE_LIST:
		return contracts.TypeList
	case C.DUCKDB_TYPE_STRUCT:
		return contracts.TypeStruct
	case C.DUCKDB_TYPE_MAP:
		return contracts.TypeMap
	case C.DUCKDB_TYPE_ARRAY:
		return contracts.TypeArray
	case C.DUCKDB_TYPE_UUID:
		return contracts.TypeUUID
	case C.DUCKDB_TYPE_UNION:
		return contracts.TypeUnion
	case C.DUCKDB_TYPE_BIT:
		return contracts.TypeBit
	case C.DUCKDB_TYPE_TIME_TZ:
		return contracts.TypeTimeTZ
	case C.DUCKDB_TYPE_TIMESTAMP_TZ:
		return contracts.TypeTimestampTZ
	case C.DUCKDB_TYPE_SQLNULL:
		return contracts.TypeSQLNull
	}
	return contracts.TypeInvalid
}

func typeIDToNative(t contracts.TypeID) C.duckdb_type {
	switch t {
	case contracts.TypeBoolean:
		return C.DUCKDB_TYPE_BOOLEAN
	case contracts.TypeTinyInt:
		return C.DUCKDB_TYPE_TINYINT
	case contracts.TypeSmallInt:
		return C.DUCKDB_TYPE_SMALLINT
	case contracts.TypeInteger:
		return C.DUCKDB_TYPE_INTEGER
	case contracts.TypeBigInt:
		return C.DUCKDB_TYPE_BIGINT
	case contracts.TypeUTinyInt:
		return C.DUCKDB_TYPE_UTINYINT
	case contracts.TypeUSmallInt:
		return C.DUCKDB_TYPE_USMALLINT
	case contracts.TypeUInteger:
		return C.DUCKDB_TYPE_UINTEGER
	case contracts.TypeUBigInt:
		return C.DUCKDB_TYPE_UBIGINT
	case contracts.TypeFloat:
		return C.DUCKDB_TYPE_FLOAT
	case contracts.TypeDouble:
		return C.DUCKDB_TYPE_DOUBLE
	case contracts.TypeTimestamp:
		return C.DUCKDB_TYPE_TIMESTAMP
	case contracts.TypeDate:
		return C.DUCKDB_TYPE_DATE
	case contracts.TypeTime:
		return C.DUCKDB_TYPE_TIME
	case contracts.TypeInterval:
		return C.DUCKDB_TYPE_INTERVAL
	case contracts.TypeHugeInt:
		return C.DUCKDB_TYPE_HUGEINT
	case contracts.TypeUHugeInt:
		return C.DUCKDB_TYPE_UHUGEINT
	case contracts.TypeVarchar:
		return C.DUCKDB_TYPE_VARCHAR
	case contracts.TypeBlob:
		return C.DUCKDB_TYPE_BLOB
	case contracts.TypeTimestampS:
		return C.DUCKDB_TYPE_TIMESTAMP_S
	case contracts.TypeTimestampMS:
		return C.DUCKDB_TYPE_TIMESTAMP_MS
	case contracts.TypeTimestampNS:
		return C.DUCKDB_TYPE_TIMESTAMP_NS
	case contracts.TypeUUID:
		return C.DUCKDB_TYPE_UUID
	case contracts.TypeBit:
		return C.DUCKDB_TYPE_BIT
	case contracts.TypeTimeTZ:
		return C.DUCKDB_TYPE_TIME_TZ
	case contracts.TypeTimestampTZ:
		return C.DUCKDB_TYPE_TIMESTAMP_TZ
	case contracts.TypeSQLNull:
		return C.DUCKDB_TYPE_SQLNULL
	}
	return C.DUCKDB_TYPE_INVALID
}

// createLogicalType builds a native logical type from its description. The
// caller owns the returned handle and must release it with
// destroyLogicalType.
func createLogicalType(t contracts.LogicalType) (C.duckdb_logical_type, error) {
	switch t.ID {
	case contracts.TypeDecimal:
		return C.duckdb_create_decimal_type(C.uint8_t(t.Width), C.uint8_t(t.Scale)), nil

	case contracts.TypeList:
		if t.Child == nil {
			return nil, contracts.NewError(contracts.ErrConfiguration, "list type missing child type")
		}
		child, err := createLogicalType(*t.Child)
		if err != nil {
			return nil, err
		}
		defer destroyLogicalType(&child)
		return C.duckdb_create_list_type(child), nil

	case contracts.TypeArray:
		if t.Child == nil {
			return nil, contracts.NewError(contracts.ErrConfiguration, "array type missing child type")
		}
		child, err := createLogicalType(*t.Child)
		if err != nil {
			return nil, err
		}
		defer destroyLogicalType(&child)
		return C.duckdb_create_array_type(child, C.idx_t(t.ArraySize)), nil

	case contracts.TypeStruct:
		if len(t.Fields) == 0 {
			return nil, contracts.NewError(contracts.ErrConfiguration, "struct type has no fields")
		}
		count := len(t.Fields)
		types := make([]C.duckdb_logical_type, count)
		names := make([]*C.char, count)
		defer func() {
			for i := range types {
				if types[i] != nil {
					destroyLogicalType(&types[i])
				}
				if names[i] != nil {
					C.free(unsafe.Pointer(names[i]))
				}
			}
		}()
		for i, f := range t.Fields {
			child, err := createLogicalType(f.Type)
			if err != nil {
				return nil, err
			}
			types[i] = child
			names[i] = C.CString(f.Name)
		}
		return C.duckdb_create_struct_type(&types[0], &names[0], C.idx_t(count)), nil

	case contracts.TypeEnum:
		if len(t.Members) == 0 {
			return nil, contracts.NewError(contracts.ErrConfiguration, "enum type has no members")
		}
		names := make([]*C.char, len(t.Members))
		defer func() {
			for i := range names {
				if names[i] != nil {
					C.free(unsafe.Pointer(names[i]))
				}
			}
		}()
		for i, m := range t.Members {
			names[i] = C.CString(m)
		}
		return C.duckdb_create_enum_type(&names[0], C.idx_t(len(names))), nil

	default:
		native := typeIDToNative(t.ID)
		if native == C.DUCKDB_TYPE_INVALID {
			return nil, contracts.NewErrorf(contracts.ErrConfiguration, "cannot construct logical type %s", t.ID)
		}
		return C.duckdb_create_logical_type(native), nil
	}
}

func destroyLogicalType(t *C.duckdb_logical_type) {
	if t != nil && *t != nil {
		C.duckdb_destroy_logical_type(t)
	}
}

// describeLogicalType walks a native logical type into its description.
// The native handle stays owned by the caller.
func describeLogicalType(t C.duckdb_logical_type) contracts.LogicalType {
	id := typeIDFromNative(C.duckdb_get_type_id(t))
	out := contracts.LogicalType{ID: id}

	switch id {
	case contracts.TypeDecimal:
		out.Width = uint8(C.duckdb_decimal_width(t))
		out.Scale = uint8(C.duckdb_decimal_scale(t))

	case contracts.TypeList:
		child := C.duckdb_list_type_child_type(t)
		defer destroyLogicalType(&child)
		inner := describeLogicalType(child)
		out.Child = &inner

	case contracts.TypeArray:
		child := C.duckdb_array_type_child_type(t)
		defer destroyLogicalType(&child)
		inner := describeLogicalType(child)
		out.Child = &inner
		out.ArraySize = int(C.duckdb_array_type_array_size(t))

	case contracts.TypeStruct:
		count := int(C.duckdb_struct_type_child_count(t))
		out.Fields = make([]contracts.StructField, count)
		for i := 0; i < count; i++ {
			name := C.duckdb_struct_type_child_name(t, C.idx_t(i))
			child := C.duckdb_struct_type_child_type(t, C.idx_t(i))
			out.Fields[i] = contracts.StructField{
				Name: C.GoString(name),
				Type: describeLogicalType(child),
			}
			C.duckdb_free(unsafe.Pointer(name))
			destroyLogicalType(&child)
		}

	case contracts.TypeEnum:
		count := int(C.duckdb_enum_dictionary_size(t))
		out.Members = make([]string, count)
		for i := 0; i < count; i++ {
			member := C.duckdb_enum_dictionary_value(t, C.idx_t(i))
			out.Members[i] = C.GoString(member)
			C.duckdb_free(unsafe.Pointer(member))
		}
	}
	return out
}
