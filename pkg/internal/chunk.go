// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: Copyright The DuckDB Go Authors

package internal

/*
#include <duckdb.h>
#include <stdlib.h>
*/
import "C"

import (
	"math"
	"math/big"
	"reflect"
	"time"
	"unsafe"

	"github.com/google/uuid"

	"github.com/duckdb-go/duckdb-go/pkg/contracts"
)

// Chunk wraps one native data chunk. Result chunks own their handle and are
// destroyed on close; table-function output chunks are engine-owned views.
type Chunk struct {
	chunk C.duckdb_data_chunk
	owned bool
	cols  []*Vector
}

var _ contracts.IChunk = (*Chunk)(nil)

func newChunk(chunk C.duckdb_data_chunk, owned bool) *Chunk {
	c := &Chunk{chunk: chunk, owned: owned}
	count := int(C.duckdb_data_chunk_get_column_count(chunk))
	c.cols = make([]*Vector, count)
	for i := 0; i < count; i++ {
		c.cols[i] = newVector(C.duckdb_data_chunk_get_vector(chunk, C.idx_t(i)))
	}
	return c
}

// Capacity is the engine-defined maximum rows per chunk.
func (c *Chunk) Capacity() int {
	return int(C.duckdb_vector_size())
}

func (c *Chunk) Size() int {
	return int(C.duckdb_data_chunk_get_size(c.chunk))
}

func (c *Chunk) SetSize(n int) {
	C.duckdb_data_chunk_set_size(c.chunk, C.idx_t(n))
}

func (c *Chunk) ColumnCount() int { return len(c.cols) }

func (c *Chunk) Column(index int) contracts.IVector { return c.cols[index] }

func (c *Chunk) column(index int) *Vector { return c.cols[index] }

// close destroys an owned chunk handle. Unowned chunks are views into
// engine memory and must not be destroyed here.
func (c *Chunk) close() {
	if c.owned && c.chunk != nil {
		C.duckdb_destroy_data_chunk(&c.chunk)
		c.chunk = nil
	}
}

// Vector is one column within a chunk: logical type, validity mask and raw
// data, all borrowed from the engine.
type Vector struct {
	// #nosec G103 - native vector handle from C interop
	vec C.duckdb_vector
	typ contracts.LogicalType
}

var _ contracts.IVector = (*Vector)(nil)

func newVector(vec C.duckdb_vector) *Vector {
	lt := C.duckdb_vector_get_column_type(vec)
	defer destroyLogicalType(&lt)
	return &Vector{vec: vec, typ: describeLogicalType(lt)}
}

func (v *Vector) Type() contracts.LogicalType { return v.typ }

// data returns the raw data pointer. Fetched per access because list child
// reservations may reallocate the backing buffer.
func (v *Vector) data() unsafe.Pointer {
	return C.duckdb_vector_get_data(v.vec)
}

func (v *Vector) isNull(row int) bool {
	validity := C.duckdb_vector_get_validity(v.vec)
	// A nil validity mask means every row is valid.
	if validity == nil {
		return false
	}
	return !bool(C.duckdb_validity_row_is_valid(validity, C.idx_t(row)))
}

func (v *Vector) SetNull(row int) {
	C.duckdb_vector_ensure_validity_writable(v.vec)
	validity := C.duckdb_vector_get_validity(v.vec)
	C.duckdb_validity_set_row_invalid(validity, C.idx_t(row))
}

func (v *Vector) requireType(op string, ids ...contracts.TypeID) error {
	for _, id := range ids {
		if v.typ.ID == id {
			return nil
		}
	}
	return contracts.NewErrorf(contracts.ErrTypeMismatch,
		"%s write requested %s but column is %s", op, ids[0], v.typ.ID)
}

// Typed setters. Each writes directly into the engine's column buffer after
// checking the logical-type tag.

func (v *Vector) SetBool(row int, val bool) error {
	if err := v.requireType("bool", contracts.TypeBoolean); err != nil {
		return err
	}
	*(*C.bool)(unsafe.Add(v.data(), uintptr(row)*C.sizeof_bool)) = C.bool(val)
	return nil
}

func (v *Vector) SetInt8(row int, val int8) error {
	if err := v.requireType("int8", contracts.TypeTinyInt); err != nil {
		return err
	}
	*(*C.int8_t)(unsafe.Add(v.data(), uintptr(row)*1)) = C.int8_t(val)
	return nil
}

func (v *Vector) SetInt16(row int, val int16) error {
	if err := v.requireType("int16", contracts.TypeSmallInt); err != nil {
		return err
	}
	*(*C.int16_t)(unsafe.Add(v.data(), uintptr(row)*2)) = C.int16_t(val)
	return nil
}

func (v *Vector) SetInt32(row int, val int32) error {
	if err := v.requireType("int32", contracts.TypeInteger); err != nil {
		return err
	}
	*(*C.int32_t)(unsafe.Add(v.data(), uintptr(row)*4)) = C.int32_t(val)
	return nil
}

func (v *Vector) SetInt64(row int, val int64) error {
	if err := v.requireType("int64", contracts.TypeBigInt); err != nil {
		return err
	}
	*(*C.int64_t)(unsafe.Add(v.data(), uintptr(row)*8)) = C.int64_t(val)
	return nil
}

func (v *Vector) SetUint8(row int, val uint8) error {
	if err := v.requireType("uint8", contracts.TypeUTinyInt); err != nil {
		return err
	}
	*(*C.uint8_t)(unsafe.Add(v.data(), uintptr(row)*1)) = C.uint8_t(val)
	return nil
}

func (v *Vector) SetUint16(row int, val uint16) error {
	if err := v.requireType("uint16", contracts.TypeUSmallInt); err != nil {
		return err
	}
	*(*C.uint16_t)(unsafe.Add(v.data(), uintptr(row)*2)) = C.uint16_t(val)
	return nil
}

func (v *Vector) SetUint32(row int, val uint32) error {
	if err := v.requireType("uint32", contracts.TypeUInteger); err != nil {
		return err
	}
	*(*C.uint32_t)(unsafe.Add(v.data(), uintptr(row)*4)) = C.uint32_t(val)
	return nil
}

func (v *Vector) SetUint64(row int, val uint64) error {
	if err := v.requireType("uint64", contracts.TypeUBigInt); err != nil {
		return err
	}
	*(*C.uint64_t)(unsafe.Add(v.data(), uintptr(row)*8)) = C.uint64_t(val)
	return nil
}

func (v *Vector) SetFloat32(row int, val float32) error {
	if err := v.requireType("float32", contracts.TypeFloat); err != nil {
		return err
	}
	*(*C.float)(unsafe.Add(v.data(), uintptr(row)*4)) = C.float(val)
	return nil
}

func (v *Vector) SetFloat64(row int, val float64) error {
	if err := v.requireType("float64", contracts.TypeDouble); err != nil {
		return err
	}
	*(*C.double)(unsafe.Add(v.data(), uintptr(row)*8)) = C.double(val)
	return nil
}

func (v *Vector) SetString(row int, val string) error {
	if err := v.requireType("string", contracts.TypeVarchar); err != nil {
		return err
	}
	v.assignStringElement(row, []byte(val))
	return nil
}

func (v *Vector) SetBytes(row int, val []byte) error {
	if err := v.requireType("bytes", contracts.TypeBlob, contracts.TypeVarchar); err != nil {
		return err
	}
	v.assignStringElement(row, val)
	return nil
}

// assignStringElement also covers binary data per the C API contract.
func (v *Vector) assignStringElement(row int, val []byte) {
	var ptr *C.char
	if len(val) > 0 {
		// #nosec G103 - the engine copies the bytes before returning
		ptr = (*C.char)(unsafe.Pointer(&val[0]))
	}
	C.duckdb_vector_assign_string_element_len(v.vec, C.idx_t(row), ptr, C.idx_t(len(val)))
}

func (v *Vector) SetTime(row int, val time.Time) error {
	switch v.typ.ID {
	case contracts.TypeDate:
		*(*C.int32_t)(unsafe.Add(v.data(), uintptr(row)*4)) = C.int32_t(contracts.DateToDays(val))
	case contracts.TypeTime:
		micros := microsSinceMidnight(val)
		*(*C.int64_t)(unsafe.Add(v.data(), uintptr(row)*8)) = C.int64_t(micros)
	case contracts.TypeTimestamp, contracts.TypeTimestampTZ:
		*(*C.int64_t)(unsafe.Add(v.data(), uintptr(row)*8)) = C.int64_t(val.UnixMicro())
	case contracts.TypeTimestampS:
		*(*C.int64_t)(unsafe.Add(v.data(), uintptr(row)*8)) = C.int64_t(val.Unix())
	case contracts.TypeTimestampMS:
		*(*C.int64_t)(unsafe.Add(v.data(), uintptr(row)*8)) = C.int64_t(val.UnixMilli())
	case contracts.TypeTimestampNS:
		*(*C.int64_t)(unsafe.Add(v.data(), uintptr(row)*8)) = C.int64_t(val.UnixNano())
	default:
		return contracts.NewTypeMismatchError(contracts.TypeTimestamp, v.typ.ID)
	}
	return nil
}

func (v *Vector) SetUUID(row int, val uuid.UUID) error {
	if err := v.requireType("uuid", contracts.TypeUUID); err != nil {
		return err
	}
	hi := uuidToHugeInt(val)
	*(*C.duckdb_hugeint)(unsafe.Add(v.data(), uintptr(row)*C.sizeof_duckdb_hugeint)) = hi
	return nil
}

func (v *Vector) SetInterval(row int, val contracts.Interval) error {
	if err := v.requireType("interval", contracts.TypeInterval); err != nil {
		return err
	}
	iv := C.duckdb_interval{
		months: C.int32_t(val.Months),
		days:   C.int32_t(val.Days),
		micros: C.int64_t(val.Micros),
	}
	*(*C.duckdb_interval)(unsafe.Add(v.data(), uintptr(row)*C.sizeof_duckdb_interval)) = iv
	return nil
}

func (v *Vector) SetEnum(row int, member string) error {
	if err := v.requireType("enum", contracts.TypeEnum); err != nil {
		return err
	}
	idx := -1
	for i, m := range v.typ.Members {
		if m == member {
			idx = i
			break
		}
	}
	if idx < 0 {
		return contracts.NewErrorf(contracts.ErrTypeMismatch, "%q is not a member of the enum", member)
	}
	v.writeEnumIndex(row, uint32(idx))
	return nil
}

// writeEnumIndex stores the dictionary index in the narrowest unsigned
// representation the dictionary size requires, matching the engine layout.
func (v *Vector) writeEnumIndex(row int, idx uint32) {
	switch {
	case len(v.typ.Members) <= 1<<8:
		*(*C.uint8_t)(unsafe.Add(v.data(), uintptr(row)*1)) = C.uint8_t(idx)
	case len(v.typ.Members) <= 1<<16:
		*(*C.uint16_t)(unsafe.Add(v.data(), uintptr(row)*2)) = C.uint16_t(idx)
	default:
		*(*C.uint32_t)(unsafe.Add(v.data(), uintptr(row)*4)) = C.uint32_t(idx)
	}
}

func (v *Vector) readEnumIndex(row int) uint32 {
	switch {
	case len(v.typ.Members) <= 1<<8:
		return uint32(*(*C.uint8_t)(unsafe.Add(v.data(), uintptr(row)*1)))
	case len(v.typ.Members) <= 1<<16:
		return uint32(*(*C.uint16_t)(unsafe.Add(v.data(), uintptr(row)*2)))
	default:
		return uint32(*(*C.uint32_t)(unsafe.Add(v.data(), uintptr(row)*4)))
	}
}

// SetValue encodes val dynamically against the vector's logical type.
// nil and contracts.Null write NULL; slices write lists; map[string]any
// writes structs field by field.
func (v *Vector) SetValue(row int, val any) error {
	if val == nil {
		v.SetNull(row)
		return nil
	}
	switch x := val.(type) {
	case contracts.Null:
		v.SetNull(row)
		return nil
	case bool:
		return v.SetBool(row, x)
	case int8:
		return v.SetInt8(row, x)
	case int16:
		return v.SetInt16(row, x)
	case int32:
		return v.SetInt32(row, x)
	case int64:
		return v.setSigned(row, x)
	case int:
		return v.setSigned(row, int64(x))
	case uint8:
		return v.SetUint8(row, x)
	case uint16:
		return v.SetUint16(row, x)
	case uint32:
		return v.SetUint32(row, x)
	case uint64:
		return v.SetUint64(row, x)
	case float32:
		return v.SetFloat32(row, x)
	case float64:
		return v.SetFloat64(row, x)
	case string:
		if v.typ.ID == contracts.TypeEnum {
			return v.SetEnum(row, x)
		}
		return v.SetString(row, x)
	case []byte:
		return v.SetBytes(row, x)
	case time.Time:
		return v.SetTime(row, x)
	case uuid.UUID:
		return v.SetUUID(row, x)
	case contracts.Interval:
		return v.SetInterval(row, x)
	case *big.Int:
		return v.setHugeInt(row, x)
	case contracts.Decimal:
		return v.setDecimal(row, x)
	case map[string]any:
		return v.setStructValue(row, x)
	}

	rv := reflect.ValueOf(val)
	if rv.Kind() == reflect.Slice && v.typ.ID == contracts.TypeList {
		return v.setListValue(row, rv)
	}
	return contracts.NewErrorf(contracts.ErrTypeMismatch, "cannot encode %T into %s", val, v.typ.ID)
}

// setSigned lets int and int64 flow into any signed integral column when
// the value fits.
func (v *Vector) setSigned(row int, x int64) error {
	switch v.typ.ID {
	case contracts.TypeBigInt:
		return v.SetInt64(row, x)
	case contracts.TypeInteger:
		if x < math.MinInt32 || x > math.MaxInt32 {
			return contracts.NewErrorf(contracts.ErrTypeMismatch, "%d overflows INTEGER", x)
		}
		return v.SetInt32(row, int32(x))
	case contracts.TypeSmallInt:
		if x < math.MinInt16 || x > math.MaxInt16 {
			return contracts.NewErrorf(contracts.ErrTypeMismatch, "%d overflows SMALLINT", x)
		}
		return v.SetInt16(row, int16(x))
	case contracts.TypeTinyInt:
		if x < math.MinInt8 || x > math.MaxInt8 {
			return contracts.NewErrorf(contracts.ErrTypeMismatch, "%d overflows TINYINT", x)
		}
		return v.SetInt8(row, int8(x))
	case contracts.TypeHugeInt:
		return v.setHugeInt(row, big.NewInt(x))
	}
	return contracts.NewTypeMismatchError(contracts.TypeBigInt, v.typ.ID)
}

func (v *Vector) setHugeInt(row int, x *big.Int) error {
	if err := v.requireType("hugeint", contracts.TypeHugeInt); err != nil {
		return err
	}
	hi, err := bigToHugeInt(x)
	if err != nil {
		return err
	}
	*(*C.duckdb_hugeint)(unsafe.Add(v.data(), uintptr(row)*C.sizeof_duckdb_hugeint)) = hi
	return nil
}

func (v *Vector) setDecimal(row int, d contracts.Decimal) error {
	if err := v.requireType("decimal", contracts.TypeDecimal); err != nil {
		return err
	}
	if d.Value == nil {
		v.SetNull(row)
		return nil
	}
	if !d.Value.IsInt64() && v.typ.Width <= 18 {
		return contracts.NewErrorf(contracts.ErrTypeMismatch, "decimal value overflows width %d", v.typ.Width)
	}
	switch {
	case v.typ.Width <= 4:
		*(*C.int16_t)(unsafe.Add(v.data(), uintptr(row)*2)) = C.int16_t(d.Value.Int64())
	case v.typ.Width <= 9:
		*(*C.int32_t)(unsafe.Add(v.data(), uintptr(row)*4)) = C.int32_t(d.Value.Int64())
	case v.typ.Width <= 18:
		*(*C.int64_t)(unsafe.Add(v.data(), uintptr(row)*8)) = C.int64_t(d.Value.Int64())
	default:
		hi, err := bigToHugeInt(d.Value)
		if err != nil {
			return err
		}
		*(*C.duckdb_hugeint)(unsafe.Add(v.data(), uintptr(row)*C.sizeof_duckdb_hugeint)) = hi
	}
	return nil
}

func (v *Vector) setListValue(row int, rv reflect.Value) error {
	length := rv.Len()
	size := int(C.duckdb_list_vector_get_size(v.vec))
	child, err := v.ListChild(size + length)
	if err != nil {
		return err
	}
	for i := 0; i < length; i++ {
		if err := child.SetValue(size+i, rv.Index(i).Interface()); err != nil {
			return err
		}
	}
	if err := v.SetListEntry(row, size, length); err != nil {
		return err
	}
	return v.SetListSize(size + length)
}

func (v *Vector) setStructValue(row int, fields map[string]any) error {
	if v.typ.ID != contracts.TypeStruct {
		return contracts.NewTypeMismatchError(contracts.TypeStruct, v.typ.ID)
	}
	for i, f := range v.typ.Fields {
		child, err := v.StructChild(i)
		if err != nil {
			return err
		}
		val, ok := fields[f.Name]
		if !ok {
			child.SetNull(row)
			continue
		}
		if err := child.SetValue(row, val); err != nil {
			return err
		}
	}
	return nil
}

func (v *Vector) ListChild(capacity int) (contracts.IVector, error) {
	if v.typ.ID != contracts.TypeList {
		return nil, contracts.NewTypeMismatchError(contracts.TypeList, v.typ.ID)
	}
	C.duckdb_list_vector_reserve(v.vec, C.idx_t(capacity))
	return newVector(C.duckdb_list_vector_get_child(v.vec)), nil
}

func (v *Vector) SetListEntry(row, offset, length int) error {
	if v.typ.ID != contracts.TypeList {
		return contracts.NewTypeMismatchError(contracts.TypeList, v.typ.ID)
	}
	entry := (*C.duckdb_list_entry)(unsafe.Add(v.data(), uintptr(row)*C.sizeof_duckdb_list_entry))
	entry.offset = C.uint64_t(offset)
	entry.length = C.uint64_t(length)
	return nil
}

func (v *Vector) SetListSize(n int) error {
	if v.typ.ID != contracts.TypeList {
		return contracts.NewTypeMismatchError(contracts.TypeList, v.typ.ID)
	}
	C.duckdb_list_vector_set_size(v.vec, C.idx_t(n))
	return nil
}

func (v *Vector) StructChild(index int) (contracts.IVector, error) {
	if v.typ.ID != contracts.TypeStruct {
		return nil, contracts.NewTypeMismatchError(contracts.TypeStruct, v.typ.ID)
	}
	if index < 0 || index >= len(v.typ.Fields) {
		return nil, contracts.NewErrorf(contracts.ErrTypeMismatch, "struct has no field %d", index)
	}
	return newVector(C.duckdb_struct_vector_get_child(v.vec, C.idx_t(index))), nil
}

// Typed readers. Each checks the validity mask and the logical-type tag
// before touching the raw buffer; a NULL data slot is never read.

func (v *Vector) checkRead(row int, ids ...contracts.TypeID) error {
	for _, id := range ids {
		if v.typ.ID == id {
			if v.isNull(row) {
				return contracts.NewErrorf(contracts.ErrTypeMismatch, "value is NULL, not %s", id)
			}
			return nil
		}
	}
	return contracts.NewTypeMismatchError(ids[0], v.typ.ID)
}

func (v *Vector) getBool(row int) (bool, error) {
	if err := v.checkRead(row, contracts.TypeBoolean); err != nil {
		return false, err
	}
	return bool(*(*C.bool)(unsafe.Add(v.data(), uintptr(row)*C.sizeof_bool))), nil
}

func (v *Vector) getInt8(row int) (int8, error) {
	if err := v.checkRead(row, contracts.TypeTinyInt); err != nil {
		return 0, err
	}
	return int8(*(*C.int8_t)(unsafe.Add(v.data(), uintptr(row)*1))), nil
}

func (v *Vector) getInt16(row int) (int16, error) {
	if err := v.checkRead(row, contracts.TypeSmallInt); err != nil {
		return 0, err
	}
	return int16(*(*C.int16_t)(unsafe.Add(v.data(), uintptr(row)*2))), nil
}

func (v *Vector) getInt32(row int) (int32, error) {
	if err := v.checkRead(row, contracts.TypeInteger); err != nil {
		return 0, err
	}
	return int32(*(*C.int32_t)(unsafe.Add(v.data(), uintptr(row)*4))), nil
}

func (v *Vector) getInt64(row int) (int64, error) {
	if err := v.checkRead(row, contracts.TypeBigInt); err != nil {
		return 0, err
	}
	return int64(*(*C.int64_t)(unsafe.Add(v.data(), uintptr(row)*8))), nil
}

func (v *Vector) getUint8(row int) (uint8, error) {
	if err := v.checkRead(row, contracts.TypeUTinyInt); err != nil {
		return 0, err
	}
	return uint8(*(*C.uint8_t)(unsafe.Add(v.data(), uintptr(row)*1))), nil
}

func (v *Vector) getUint16(row int) (uint16, error) {
	if err := v.checkRead(row, contracts.TypeUSmallInt); err != nil {
		return 0, err
	}
	return uint16(*(*C.uint16_t)(unsafe.Add(v.data(), uintptr(row)*2))), nil
}

func (v *Vector) getUint32(row int) (uint32, error) {
	if err := v.checkRead(row, contracts.TypeUInteger); err != nil {
		return 0, err
	}
	return uint32(*(*C.uint32_t)(unsafe.Add(v.data(), uintptr(row)*4))), nil
}

func (v *Vector) getUint64(row int) (uint64, error) {
	if err := v.checkRead(row, contracts.TypeUBigInt); err != nil {
		return 0, err
	}
	return uint64(*(*C.uint64_t)(unsafe.Add(v.data(), uintptr(row)*8))), nil
}

func (v *Vector) getFloat32(row int) (float32, error) {
	if err := v.checkRead(row, contracts.TypeFloat); err != nil {
		return 0, err
	}
	return float32(*(*C.float)(unsafe.Add(v.data(), uintptr(row)*4))), nil
}

func (v *Vector) getFloat64(row int) (float64, error) {
	if err := v.checkRead(row, contracts.TypeDouble); err != nil {
		return 0, err
	}
	return float64(*(*C.double)(unsafe.Add(v.data(), uintptr(row)*8))), nil
}

func (v *Vector) getString(row int) (string, error) {
	if err := v.checkRead(row, contracts.TypeVarchar); err != nil {
		return "", err
	}
	return string(v.stringElement(row)), nil
}

func (v *Vector) getBytes(row int) ([]byte, error) {
	if err := v.checkRead(row, contracts.TypeBlob); err != nil {
		return nil, err
	}
	return v.stringElement(row), nil
}

// stringElement copies the row's string_t payload, inlined or pointed-to,
// out of engine memory.
func (v *Vector) stringElement(row int) []byte {
	s := (*C.duckdb_string_t)(unsafe.Add(v.data(), uintptr(row)*C.sizeof_duckdb_string_t))
	length := int(C.duckdb_string_t_length(*s))
	if length == 0 {
		return []byte{}
	}
	return C.GoBytes(unsafe.Pointer(C.duckdb_string_t_data(s)), C.int(length))
}

func (v *Vector) getTime(row int) (time.Time, error) {
	if v.isNull(row) {
		return time.Time{}, contracts.NewErrorf(contracts.ErrTypeMismatch, "value is NULL, not %s", v.typ.ID)
	}
	switch v.typ.ID {
	case contracts.TypeDate:
		days := int32(*(*C.int32_t)(unsafe.Add(v.data(), uintptr(row)*4)))
		return contracts.DaysToDate(days), nil
	case contracts.TypeTime:
		micros := int64(*(*C.int64_t)(unsafe.Add(v.data(), uintptr(row)*8)))
		return time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(micros) * time.Microsecond), nil
	case contracts.TypeTimestamp, contracts.TypeTimestampTZ:
		micros := int64(*(*C.int64_t)(unsafe.Add(v.data(), uintptr(row)*8)))
		return time.UnixMicro(micros).UTC(), nil
	case contracts.TypeTimestampS:
		secs := int64(*(*C.int64_t)(unsafe.Add(v.data(), uintptr(row)*8)))
		return time.Unix(secs, 0).UTC(), nil
	case contracts.TypeTimestampMS:
		ms := int64(*(*C.int64_t)(unsafe.Add(v.data(), uintptr(row)*8)))
		return time.UnixMilli(ms).UTC(), nil
	case contracts.TypeTimestampNS:
		ns := int64(*(*C.int64_t)(unsafe.Add(v.data(), uintptr(row)*8)))
		return time.Unix(0, ns).UTC(), nil
	}
	return time.Time{}, contracts.NewTypeMismatchError(contracts.TypeTimestamp, v.typ.ID)
}

func (v *Vector) getUUID(row int) (uuid.UUID, error) {
	if err := v.checkRead(row, contracts.TypeUUID); err != nil {
		return uuid.UUID{}, err
	}
	hi := *(*C.duckdb_hugeint)(unsafe.Add(v.data(), uintptr(row)*C.sizeof_duckdb_hugeint))
	return hugeIntToUUID(hi), nil
}

func (v *Vector) getInterval(row int) (contracts.Interval, error) {
	if err := v.checkRead(row, contracts.TypeInterval); err != nil {
		return contracts.Interval{}, err
	}
	iv := *(*C.duckdb_interval)(unsafe.Add(v.data(), uintptr(row)*C.sizeof_duckdb_interval))
	return contracts.Interval{
		Months: int32(iv.months),
		Days:   int32(iv.days),
		Micros: int64(iv.micros),
	}, nil
}

func (v *Vector) getHugeInt(row int) (*big.Int, error) {
	if err := v.checkRead(row, contracts.TypeHugeInt); err != nil {
		return nil, err
	}
	hi := *(*C.duckdb_hugeint)(unsafe.Add(v.data(), uintptr(row)*C.sizeof_duckdb_hugeint))
	return hugeIntToBig(hi), nil
}

func (v *Vector) getDecimal(row int) (contracts.Decimal, error) {
	if err := v.checkRead(row, contracts.TypeDecimal); err != nil {
		return contracts.Decimal{}, err
	}
	d := contracts.Decimal{Width: v.typ.Width, Scale: v.typ.Scale}
	// The engine stores decimals in the narrowest integer type the
	// declared width fits in.
	switch {
	case v.typ.Width <= 4:
		d.Value = big.NewInt(int64(*(*C.int16_t)(unsafe.Add(v.data(), uintptr(row)*2))))
	case v.typ.Width <= 9:
		d.Value = big.NewInt(int64(*(*C.int32_t)(unsafe.Add(v.data(), uintptr(row)*4))))
	case v.typ.Width <= 18:
		d.Value = big.NewInt(int64(*(*C.int64_t)(unsafe.Add(v.data(), uintptr(row)*8))))
	default:
		hi := *(*C.duckdb_hugeint)(unsafe.Add(v.data(), uintptr(row)*C.sizeof_duckdb_hugeint))
		d.Value = hugeIntToBig(hi)
	}
	return d, nil
}

func (v *Vector) getEnum(row int) (string, error) {
	if err := v.checkRead(row, contracts.TypeEnum); err != nil {
		return "", err
	}
	idx := v.readEnumIndex(row)
	if int(idx) >= len(v.typ.Members) {
		return "", contracts.NewErrorf(contracts.ErrTypeMismatch, "enum index %d out of range", idx)
	}
	return v.typ.Members[idx], nil
}

// getValue decodes the row dynamically. NULL becomes nil, lists become
// []any, structs become map[string]any, enums become their member string.
func (v *Vector) getValue(row int) (any, error) {
	if v.isNull(row) {
		return nil, nil
	}
	switch v.typ.ID {
	case contracts.TypeBoolean:
		return v.getBool(row)
	case contracts.TypeTinyInt:
		return v.getInt8(row)
	case contracts.TypeSmallInt:
		return v.getInt16(row)
	case contracts.TypeInteger:
		return v.getInt32(row)
	case contracts.TypeBigInt:
		return v.getInt64(row)
	case contracts.TypeUTinyInt:
		return v.getUint8(row)
	case contracts.TypeUSmallInt:
		return v.getUint16(row)
	case contracts.TypeUInteger:
		return v.getUint32(row)
	case contracts.TypeUBigInt:
		return v.getUint64(row)
	case contracts.TypeFloat:
		return v.getFloat32(row)
	case contracts.TypeDouble:
		return v.getFloat64(row)
	case contracts.TypeVarchar:
		return v.getString(row)
	case contracts.TypeBlob:
		return v.getBytes(row)
	case contracts.TypeDate, contracts.TypeTime,
		contracts.TypeTimestamp, contracts.TypeTimestampTZ,
		contracts.TypeTimestampS, contracts.TypeTimestampMS, contracts.TypeTimestampNS:
		return v.getTime(row)
	case contracts.TypeInterval:
		return v.getInterval(row)
	case contracts.TypeHugeInt:
		return v.getHugeInt(row)
	case contracts.TypeDecimal:
		return v.getDecimal(row)
	case contracts.TypeUUID:
		return v.getUUID(row)
	case contracts.TypeEnum:
		return v.getEnum(row)
	case contracts.TypeList:
		return v.getList(row)
	case contracts.TypeStruct:
		return v.getStruct(row)
	case contracts.TypeSQLNull:
		return nil, nil
	}
	return nil, contracts.NewErrorf(contracts.ErrTypeMismatch, "cannot decode %s dynamically", v.typ.ID)
}

func (v *Vector) getList(row int) ([]any, error) {
	entry := *(*C.duckdb_list_entry)(unsafe.Add(v.data(), uintptr(row)*C.sizeof_duckdb_list_entry))
	child := newVector(C.duckdb_list_vector_get_child(v.vec))
	out := make([]any, int(entry.length))
	for i := range out {
		val, err := child.getValue(int(entry.offset) + i)
		if err != nil {
			return nil, err
		}
		out[i] = val
	}
	return out, nil
}

func (v *Vector) getStruct(row int) (map[string]any, error) {
	out := make(map[string]any, len(v.typ.Fields))
	for i, f := range v.typ.Fields {
		child := newVector(C.duckdb_struct_vector_get_child(v.vec, C.idx_t(i)))
		val, err := child.getValue(row)
		if err != nil {
			return nil, err
		}
		out[f.Name] = val
	}
	return out, nil
}

func microsSinceMidnight(t time.Time) int64 {
	t = t.UTC()
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return t.Sub(midnight).Microseconds()
}
