// Copyright 2026 The apk-bitminer Authors.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package dex

import (
	"fmt"

	"github.com/jrusnakli/apk-bitminer/bitstream"
)

// StringIDItem locates a pooled string's data within the file.
type StringIDItem struct {
	DataOffset uint32
}

// TypeIDItem names a type by its string-pool index.
type TypeIDItem struct {
	DescriptorIndex uint32
}

// ProtoIDItem describes a method prototype (shorty form, return type, and
// the offset of its parameter type list).
type ProtoIDItem struct {
	ShortyIndex      uint32
	ReturnTypeIndex  uint32
	ParametersOffset uint32
}

// IDItem is the shared two-16-bit-index-plus-name layout of FieldIdItem and
// MethodIdItem. The pools are semantically distinct (field vs. method) but
// share this representation.
type IDItem struct {
	DeclaringClassIndex uint16
	TypeOrProtoIndex    uint16
	NameIndex           uint32
}

// ClassDefItem is one fixed eight-i32-field record in the class defs table.
type ClassDefItem struct {
	ClassIndex       uint32
	AccessFlags      uint32
	SuperclassIndex  int32 // negative means "no superclass"
	InterfacesOffset uint32
	SourceFileIndex  uint32
	AnnotationsOffset uint32 // 0 => none
	ClassDataOffset  uint32  // 0 => none
	StaticValuesOffset uint32
}

func readStringIDItem(r *bitstream.Reader) (StringIDItem, error) {
	v, err := r.ReadU32LE()
	if err != nil {
		return StringIDItem{}, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	return StringIDItem{DataOffset: v}, nil
}

func readTypeIDItem(r *bitstream.Reader) (TypeIDItem, error) {
	v, err := r.ReadU32LE()
	if err != nil {
		return TypeIDItem{}, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	return TypeIDItem{DescriptorIndex: v}, nil
}

func readProtoIDItem(r *bitstream.Reader) (ProtoIDItem, error) {
	var p ProtoIDItem
	var err error
	if p.ShortyIndex, err = r.ReadU32LE(); err != nil {
		return p, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	if p.ReturnTypeIndex, err = r.ReadU32LE(); err != nil {
		return p, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	if p.ParametersOffset, err = r.ReadU32LE(); err != nil {
		return p, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	return p, nil
}

func readIDItem(r *bitstream.Reader) (IDItem, error) {
	var it IDItem
	var err error
	if it.DeclaringClassIndex, err = r.ReadU16LE(); err != nil {
		return it, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	if it.TypeOrProtoIndex, err = r.ReadU16LE(); err != nil {
		return it, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	if it.NameIndex, err = r.ReadU32LE(); err != nil {
		return it, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	return it, nil
}

func readClassDefItem(r *bitstream.Reader) (ClassDefItem, error) {
	var c ClassDefItem
	var err error
	if c.ClassIndex, err = r.ReadU32LE(); err != nil {
		return c, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	if c.AccessFlags, err = r.ReadU32LE(); err != nil {
		return c, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	super, err := r.ReadI32LE()
	if err != nil {
		return c, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	c.SuperclassIndex = super
	fields := []*uint32{
		&c.InterfacesOffset, &c.SourceFileIndex, &c.AnnotationsOffset,
		&c.ClassDataOffset, &c.StaticValuesOffset,
	}
	for _, f := range fields {
		if *f, err = r.ReadU32LE(); err != nil {
			return c, fmt.Errorf("%w: %v", ErrMalformedInput, err)
		}
	}
	return c, nil
}

// loadIDTables seeks to each of the first six header table offsets in turn
// and decodes Count fixed-size records into slices. The ClassDefData header
// entry is bookkeeping only; its records are reached indirectly, per class,
// through ClassDefItem.ClassDataOffset.
func loadIDTables(r *bitstream.Reader, h Header) (strings []StringIDItem, types []TypeIDItem, protos []ProtoIDItem, fields []IDItem, methods []IDItem, classDefs []ClassDefItem, err error) {
	r.Seek(h.StringIDs.Offset)
	for i := uint32(0); i < h.StringIDs.Count; i++ {
		s, e := readStringIDItem(r)
		if e != nil {
			return nil, nil, nil, nil, nil, nil, e
		}
		strings = append(strings, s)
	}

	r.Seek(h.TypeIDs.Offset)
	for i := uint32(0); i < h.TypeIDs.Count; i++ {
		s, e := readTypeIDItem(r)
		if e != nil {
			return nil, nil, nil, nil, nil, nil, e
		}
		types = append(types, s)
	}

	r.Seek(h.ProtoIDs.Offset)
	for i := uint32(0); i < h.ProtoIDs.Count; i++ {
		s, e := readProtoIDItem(r)
		if e != nil {
			return nil, nil, nil, nil, nil, nil, e
		}
		protos = append(protos, s)
	}

	r.Seek(h.FieldIDs.Offset)
	for i := uint32(0); i < h.FieldIDs.Count; i++ {
		s, e := readIDItem(r)
		if e != nil {
			return nil, nil, nil, nil, nil, nil, e
		}
		fields = append(fields, s)
	}

	r.Seek(h.MethodIDs.Offset)
	for i := uint32(0); i < h.MethodIDs.Count; i++ {
		s, e := readIDItem(r)
		if e != nil {
			return nil, nil, nil, nil, nil, nil, e
		}
		methods = append(methods, s)
	}

	r.Seek(h.ClassDefs.Offset)
	for i := uint32(0); i < h.ClassDefs.Count; i++ {
		s, e := readClassDefItem(r)
		if e != nil {
			return nil, nil, nil, nil, nil, nil, e
		}
		classDefs = append(classDefs, s)
	}

	return strings, types, protos, fields, methods, classDefs, nil
}
