// Copyright 2026 The apk-bitminer Authors.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package dex

import "fmt"

// EncodedField is one LEB128-encoded field record within a ClassDefData
// stream.
type EncodedField struct {
	IndexDiff   uint32
	AccessFlags uint32
}

// EncodedMethod is one LEB128-encoded method record within a ClassDefData
// stream. IndexDiff is consumed by this package's resolvers as an absolute
// index into the method pool, not accumulated as a delta against the
// previous entry.
type EncodedMethod struct {
	IndexDiff   uint32
	AccessFlags uint32
	CodeOffset  uint32
}

// ClassDefData is the class_data_item reached through a ClassDefItem's
// non-zero ClassDataOffset: four LEB128 sizes followed by that many encoded
// fields and methods.
type ClassDefData struct {
	StaticFields   []EncodedField
	InstanceFields []EncodedField
	DirectMethods  []EncodedMethod
	VirtualMethods []EncodedMethod
}

func readEncodedField(f *File) (EncodedField, error) {
	var e EncodedField
	var err error
	if e.IndexDiff, err = f.r.ReadULEB128(); err != nil {
		return e, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	if e.AccessFlags, err = f.r.ReadULEB128(); err != nil {
		return e, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	return e, nil
}

func readEncodedMethod(f *File) (EncodedMethod, error) {
	var e EncodedMethod
	var err error
	if e.IndexDiff, err = f.r.ReadULEB128(); err != nil {
		return e, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	if e.AccessFlags, err = f.r.ReadULEB128(); err != nil {
		return e, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	if e.CodeOffset, err = f.r.ReadULEB128(); err != nil {
		return e, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	return e, nil
}

// ClassData decodes the class_data_item at offset. It returns (nil, nil)
// for offset == 0, the "no class data" sentinel.
func (f *File) ClassData(offset uint32) (*ClassDefData, error) {
	if offset == 0 {
		return nil, nil
	}
	f.r.Seek(offset)

	staticFieldsSize, err := f.r.ReadULEB128()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	instanceFieldsSize, err := f.r.ReadULEB128()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	directMethodsSize, err := f.r.ReadULEB128()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	virtualMethodsSize, err := f.r.ReadULEB128()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}

	data := &ClassDefData{}

	for i := uint32(0); i < staticFieldsSize; i++ {
		ef, err := readEncodedField(f)
		if err != nil {
			return nil, err
		}
		data.StaticFields = append(data.StaticFields, ef)
	}
	for i := uint32(0); i < instanceFieldsSize; i++ {
		ef, err := readEncodedField(f)
		if err != nil {
			return nil, err
		}
		data.InstanceFields = append(data.InstanceFields, ef)
	}
	for i := uint32(0); i < directMethodsSize; i++ {
		em, err := readEncodedMethod(f)
		if err != nil {
			return nil, err
		}
		data.DirectMethods = append(data.DirectMethods, em)
	}
	for i := uint32(0); i < virtualMethodsSize; i++ {
		em, err := readEncodedMethod(f)
		if err != nil {
			return nil, err
		}
		data.VirtualMethods = append(data.VirtualMethods, em)
	}

	return data, nil
}
