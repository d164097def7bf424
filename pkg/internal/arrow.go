// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: Copyright The DuckDB Go Authors

package internal

import (
	"math/big"
	"time"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/decimal128"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/google/uuid"

	"github.com/duckdb-go/duckdb-go/pkg/contracts"
)

// ReadAll drains the result into Arrow records, one record per chunk. The
// caller releases the records; the result is closed afterwards either way.
func (r *Result) ReadAll() ([]arrow.Record, error) {
	defer r.Close()

	schema, err := r.arrowSchema()
	if err != nil {
		return nil, err
	}

	var records []arrow.Record
	release := func() {
		for _, rec := range records {
			rec.Release()
		}
	}

	for {
		chunk, err := r.FetchChunk()
		if err != nil {
			release()
			return nil, err
		}
		if chunk == nil {
			return records, nil
		}
		c := chunk.(*Chunk)
		rec, err := chunkToRecord(schema, c)
		c.close()
		if err != nil {
			release()
			return nil, err
		}
		records = append(records, rec)
	}
}

func (r *Result) arrowSchema() (*arrow.Schema, error) {
	fields := make([]arrow.Field, r.ColumnCount())
	for i := range fields {
		dt, err := arrowDataType(r.ColumnType(i))
		if err != nil {
			return nil, err
		}
		fields[i] = arrow.Field{Name: r.ColumnName(i), Type: dt, Nullable: true}
	}
	return arrow.NewSchema(fields, nil), nil
}

func arrowDataType(t contracts.LogicalType) (arrow.DataType, error) {
	switch t.ID {
	case contracts.TypeBoolean:
		return arrow.FixedWidthTypes.Boolean, nil
	case contracts.TypeTinyInt:
		return arrow.PrimitiveTypes.Int8, nil
	case contracts.TypeSmallInt:
		return arrow.PrimitiveTypes.Int16, nil
	case contracts.TypeInteger:
		return arrow.PrimitiveTypes.Int32, nil
	case contracts.TypeBigInt:
		return arrow.PrimitiveTypes.Int64, nil
	case contracts.TypeUTinyInt:
		return arrow.PrimitiveTypes.Uint8, nil
	case contracts.TypeUSmallInt:
		return arrow.PrimitiveTypes.Uint16, nil
	case contracts.TypeUInteger:
		return arrow.PrimitiveTypes.Uint32, nil
	case contracts.TypeUBigInt:
		return arrow.PrimitiveTypes.Uint64, nil
	case contracts.TypeFloat:
		return arrow.PrimitiveTypes.Float32, nil
	case contracts.TypeDouble:
		return arrow.PrimitiveTypes.Float64, nil
	case contracts.TypeVarchar, contracts.TypeEnum:
		return arrow.BinaryTypes.String, nil
	case contracts.TypeBlob:
		return arrow.BinaryTypes.Binary, nil
	case contracts.TypeDate:
		return arrow.FixedWidthTypes.Date32, nil
	case contracts.TypeTimestamp, contracts.TypeTimestampTZ,
		contracts.TypeTimestampS, contracts.TypeTimestampMS, contracts.TypeTimestampNS:
		return arrow.FixedWidthTypes.Timestamp_us, nil
	case contracts.TypeInterval:
		return arrow.FixedWidthTypes.MonthDayNanoInterval, nil
	case contracts.TypeHugeInt:
		return &arrow.Decimal128Type{Precision: 38, Scale: 0}, nil
	case contracts.TypeDecimal:
		return &arrow.Decimal128Type{Precision: int32(t.Width), Scale: int32(t.Scale)}, nil
	case contracts.TypeUUID:
		return &arrow.FixedSizeBinaryType{ByteWidth: 16}, nil
	case contracts.TypeList:
		if t.Child == nil {
			return nil, contracts.NewError(contracts.ErrTypeMismatch, "list type missing child type")
		}
		child, err := arrowDataType(*t.Child)
		if err != nil {
			return nil, err
		}
		return arrow.ListOf(child), nil
	case contracts.TypeStruct:
		fields := make([]arrow.Field, len(t.Fields))
		for i, f := range t.Fields {
			dt, err := arrowDataType(f.Type)
			if err != nil {
				return nil, err
			}
			fields[i] = arrow.Field{Name: f.Name, Type: dt, Nullable: true}
		}
		return arrow.StructOf(fields...), nil
	}
	return nil, contracts.NewErrorf(contracts.ErrTypeMismatch, "no Arrow representation for %s", t.ID)
}

func chunkToRecord(schema *arrow.Schema, c *Chunk) (arrow.Record, error) {
	builder := array.NewRecordBuilder(memory.DefaultAllocator, schema)
	defer builder.Release()

	size := c.Size()
	for col := 0; col < c.ColumnCount(); col++ {
		vec := c.column(col)
		fb := builder.Field(col)
		for row := 0; row < size; row++ {
			val, err := vec.getValue(row)
			if err != nil {
				return nil, err
			}
			if err := appendArrowValue(fb, val); err != nil {
				return nil, err
			}
		}
	}
	return builder.NewRecord(), nil
}

// appendArrowValue writes one dynamically decoded cell into its builder.
func appendArrowValue(b array.Builder, val any) error {
	if val == nil {
		b.AppendNull()
		return nil
	}
	switch fb := b.(type) {
	case *array.BooleanBuilder:
		fb.Append(val.(bool))
	case *array.Int8Builder:
		fb.Append(val.(int8))
	case *array.Int16Builder:
		fb.Append(val.(int16))
	case *array.Int32Builder:
		fb.Append(val.(int32))
	case *array.Int64Builder:
		fb.Append(val.(int64))
	case *array.Uint8Builder:
		fb.Append(val.(uint8))
	case *array.Uint16Builder:
		fb.Append(val.(uint16))
	case *array.Uint32Builder:
		fb.Append(val.(uint32))
	case *array.Uint64Builder:
		fb.Append(val.(uint64))
	case *array.Float32Builder:
		fb.Append(val.(float32))
	case *array.Float64Builder:
		fb.Append(val.(float64))
	case *array.StringBuilder:
		fb.Append(val.(string))
	case *array.BinaryBuilder:
		fb.Append(val.([]byte))
	case *array.Date32Builder:
		fb.Append(arrow.Date32(contracts.DateToDays(val.(time.Time))))
	case *array.TimestampBuilder:
		fb.Append(arrow.Timestamp(val.(time.Time).UnixMicro()))
	case *array.MonthDayNanoIntervalBuilder:
		iv := val.(contracts.Interval)
		fb.Append(arrow.MonthDayNanoInterval{
			Months:      iv.Months,
			Days:        iv.Days,
			Nanoseconds: iv.Micros * 1000,
		})
	case *array.Decimal128Builder:
		var x *big.Int
		switch v := val.(type) {
		case contracts.Decimal:
			x = v.Value
		case *big.Int:
			x = v
		default:
			return contracts.NewErrorf(contracts.ErrTypeMismatch, "cannot append %T as decimal", val)
		}
		fb.Append(decimal128.FromBigInt(x))
	case *array.FixedSizeBinaryBuilder:
		u := val.(uuid.UUID)
		fb.Append(u[:])
	case *array.ListBuilder:
		fb.Append(true)
		for _, item := range val.([]any) {
			if err := appendArrowValue(fb.ValueBuilder(), item); err != nil {
				return err
			}
		}
	case *array.StructBuilder:
		fb.Append(true)
		st := fb.Type().(*arrow.StructType)
		fields := val.(map[string]any)
		for i := 0; i < fb.NumField(); i++ {
			if err := appendArrowValue(fb.FieldBuilder(i), fields[st.Field(i).Name]); err != nil {
				return err
			}
		}
	default:
		return contracts.NewErrorf(contracts.ErrTypeMismatch, "unsupported Arrow builder %T", b)
	}
	return nil
}
