// Copyright 2026 The apk-bitminer Authors.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package dex

import "fmt"

// Encoded value type tags (the low 5 bits of an encoded_value header byte).
const (
	ValueByte       = 0x00
	ValueShort      = 0x02
	ValueChar       = 0x03
	ValueInt        = 0x04
	ValueLong       = 0x06
	ValueFloat      = 0x10
	ValueDouble     = 0x11
	ValueString     = 0x17
	ValueTypeIndex  = 0x18
	ValueField      = 0x19
	ValueMethod     = 0x1A
	ValueEnum       = 0x1B
	ValueArray      = 0x1C
	ValueAnnotation = 0x1D
	ValueNull       = 0x1E
	ValueBoolean    = 0x1F
)

// EncodedValue is the tagged payload form used within dex annotations and
// static field initializers. Only the field(s) matching Type are
// meaningful; EncodedArray and EncodedAnnotation are mutually recursive
// with this type via plain recursion, no dynamic dispatch.
type EncodedValue struct {
	Type byte

	IntValue    int64   // Byte, Short, Char, Int, Long (sign/zero-extended as appropriate)
	FloatValue  float32 // Float
	DoubleValue float64 // Double
	Index       uint32  // String, TypeIndex, Field, Method, Enum pool index
	Array       *EncodedArray
	Annotation  *EncodedAnnotation
	Bool        bool // Boolean
}

// EncodedArray is a LEB128 size followed by that many EncodedValues.
type EncodedArray struct {
	Values []EncodedValue
}

// AnnotationElement is one (name index, value) pair within an
// EncodedAnnotation.
type AnnotationElement struct {
	NameIndex uint32
	Value     EncodedValue
}

// EncodedAnnotation is a LEB128 type index, a LEB128 element count, and
// that many AnnotationElements.
type EncodedAnnotation struct {
	TypeIndex uint32
	Elements  []AnnotationElement
}

// readULEBPayload reads the size-byte little-endian unsigned payload common
// to STRING/TYPE/FIELD/METHOD/ENUM encoded values, where size = arg+1.
func (f *File) readULEBPayload(size int) (uint32, error) {
	var v uint32
	for i := 0; i < size; i++ {
		b, err := f.r.ReadU8()
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrMalformedInput, err)
		}
		v |= uint32(b) << uint(8*i)
	}
	return v, nil
}

// readSignedPayload reads size little-endian bytes and sign-extends the
// result from the top bit of the highest byte read, per the dex encoding
// of BYTE/SHORT/INT/LONG.
func (f *File) readSignedPayload(size int) (int64, error) {
	var v uint64
	for i := 0; i < size; i++ {
		b, err := f.r.ReadU8()
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrMalformedInput, err)
		}
		v |= uint64(b) << uint(8*i)
	}
	shift := uint(64 - 8*size)
	return int64(v<<shift) >> shift, nil
}

// readUnsignedPayload reads size little-endian bytes zero-extended, per the
// dex encoding of CHAR.
func (f *File) readUnsignedPayload(size int) (uint64, error) {
	var v uint64
	for i := 0; i < size; i++ {
		b, err := f.r.ReadU8()
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrMalformedInput, err)
		}
		v |= uint64(b) << uint(8*i)
	}
	return v, nil
}

// EncodedValue decodes one tagged encoded_value at the current cursor
// position: a header byte split into value_arg (upper 3 bits) and
// value_type (lower 5 bits), followed by a type-dependent payload. Unknown
// value_type fails with ErrUnknownEncodedValueType.
func (f *File) EncodedValue() (EncodedValue, error) {
	header, err := f.r.ReadU8()
	if err != nil {
		return EncodedValue{}, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	arg := int(header >> 5)
	typ := header & 0x1F
	size := arg + 1

	v := EncodedValue{Type: typ}

	switch typ {
	case ValueByte:
		i, err := f.readSignedPayload(1)
		if err != nil {
			return v, err
		}
		v.IntValue = i
	case ValueShort:
		i, err := f.readSignedPayload(size)
		if err != nil {
			return v, err
		}
		v.IntValue = i
	case ValueChar:
		u, err := f.readUnsignedPayload(size)
		if err != nil {
			return v, err
		}
		v.IntValue = int64(u)
	case ValueInt:
		i, err := f.readSignedPayload(size)
		if err != nil {
			return v, err
		}
		v.IntValue = i
	case ValueLong:
		i, err := f.readSignedPayload(size)
		if err != nil {
			return v, err
		}
		v.IntValue = i
	case ValueFloat:
		fl, err := f.r.ReadF32LE()
		if err != nil {
			return v, fmt.Errorf("%w: %v", ErrMalformedInput, err)
		}
		v.FloatValue = fl
	case ValueDouble:
		d, err := f.r.ReadF64LE()
		if err != nil {
			return v, fmt.Errorf("%w: %v", ErrMalformedInput, err)
		}
		v.DoubleValue = d
	case ValueString, ValueTypeIndex, ValueField, ValueMethod, ValueEnum:
		idx, err := f.readULEBPayload(size)
		if err != nil {
			return v, err
		}
		v.Index = idx
	case ValueArray:
		arr, err := f.EncodedArray()
		if err != nil {
			return v, err
		}
		v.Array = arr
	case ValueAnnotation:
		ann, err := f.readEncodedAnnotation()
		if err != nil {
			return v, err
		}
		v.Annotation = ann
	case ValueNull:
		// zero payload.
	case ValueBoolean:
		// value_arg itself carries the boolean; zero payload bytes follow.
		v.Bool = arg != 0
	default:
		return v, fmt.Errorf("%w: %w", ErrMalformedInput, ErrUnknownEncodedValueType)
	}

	return v, nil
}

// EncodedArray decodes a LEB128 size followed by that many EncodedValues.
func (f *File) EncodedArray() (*EncodedArray, error) {
	size, err := f.r.ReadULEB128()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	arr := &EncodedArray{}
	for i := uint32(0); i < size; i++ {
		val, err := f.EncodedValue()
		if err != nil {
			return nil, err
		}
		arr.Values = append(arr.Values, val)
	}
	return arr, nil
}

// readEncodedAnnotation decodes a LEB128 type index, a LEB128 element
// count, and that many (LEB128 name index, EncodedValue) pairs.
func (f *File) readEncodedAnnotation() (*EncodedAnnotation, error) {
	typeIdx, err := f.r.ReadULEB128()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	size, err := f.r.ReadULEB128()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	ann := &EncodedAnnotation{TypeIndex: typeIdx}
	for i := uint32(0); i < size; i++ {
		nameIdx, err := f.r.ReadULEB128()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
		}
		val, err := f.EncodedValue()
		if err != nil {
			return nil, err
		}
		ann.Elements = append(ann.Elements, AnnotationElement{NameIndex: nameIdx, Value: val})
	}
	return ann, nil
}
