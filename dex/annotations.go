// Copyright 2026 The apk-bitminer Authors.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package dex

import "fmt"

// FieldAnnotation, MethodAnnotation and ParameterAnnotation are the
// (index, annotations_offset) pairs listed after an
// AnnotationsDirectoryItem's header.
type FieldAnnotation struct {
	FieldIndex        uint32
	AnnotationsOffset uint32
}

// MethodAnnotation pairs a method-pool index with the offset of its
// annotation set.
type MethodAnnotation struct {
	MethodIndex       uint32
	AnnotationsOffset uint32
}

// ParameterAnnotation pairs a method-pool index with the offset of its
// per-parameter annotation set list.
type ParameterAnnotation struct {
	MethodIndex       uint32
	AnnotationsOffset uint32
}

// AnnotationsDirectoryItem is reached through a ClassDefItem's non-zero
// AnnotationsOffset: a class annotations offset plus the field-, method-,
// and parameter-level annotation index pairs.
type AnnotationsDirectoryItem struct {
	ClassAnnotationsOffset uint32
	FieldAnnotations       []FieldAnnotation
	MethodAnnotations      []MethodAnnotation
	ParameterAnnotations   []ParameterAnnotation
}

// AnnotationsDirectory decodes the annotations_directory_item at offset. It
// returns (nil, nil) for offset == 0.
func (f *File) AnnotationsDirectory(offset uint32) (*AnnotationsDirectoryItem, error) {
	if offset == 0 {
		return nil, nil
	}
	f.r.Seek(offset)

	classAnnotationsOffset, err := f.r.ReadU32LE()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	fieldsSize, err := f.r.ReadU32LE()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	methodsSize, err := f.r.ReadU32LE()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	parametersSize, err := f.r.ReadU32LE()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}

	dir := &AnnotationsDirectoryItem{ClassAnnotationsOffset: classAnnotationsOffset}

	for i := uint32(0); i < fieldsSize; i++ {
		idx, err := f.r.ReadU32LE()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
		}
		off, err := f.r.ReadU32LE()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
		}
		dir.FieldAnnotations = append(dir.FieldAnnotations, FieldAnnotation{FieldIndex: idx, AnnotationsOffset: off})
	}
	for i := uint32(0); i < methodsSize; i++ {
		idx, err := f.r.ReadU32LE()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
		}
		off, err := f.r.ReadU32LE()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
		}
		dir.MethodAnnotations = append(dir.MethodAnnotations, MethodAnnotation{MethodIndex: idx, AnnotationsOffset: off})
	}
	for i := uint32(0); i < parametersSize; i++ {
		idx, err := f.r.ReadU32LE()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
		}
		off, err := f.r.ReadU32LE()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
		}
		dir.ParameterAnnotations = append(dir.ParameterAnnotations, ParameterAnnotation{MethodIndex: idx, AnnotationsOffset: off})
	}

	return dir, nil
}

// AnnotationSet decodes the annotation_set_item at offset: a 32-bit count
// followed by that many annotation_offset entries. It returns nil for
// offset == 0.
func (f *File) AnnotationSet(offset uint32) ([]uint32, error) {
	if offset == 0 {
		return nil, nil
	}
	f.r.Seek(offset)
	count, err := f.r.ReadU32LE()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	offsets := make([]uint32, 0, count)
	for i := uint32(0); i < count; i++ {
		o, err := f.r.ReadU32LE()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
		}
		offsets = append(offsets, o)
	}
	return offsets, nil
}

// Annotation decodes the annotation_item at offset: a one-byte visibility
// followed by an encoded_annotation.
func (f *File) Annotation(offset uint32) (visibility byte, ann *EncodedAnnotation, err error) {
	f.r.Seek(offset)
	visibility, err = f.r.ReadU8()
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	ann, err = f.readEncodedAnnotation()
	if err != nil {
		return 0, nil, err
	}
	return visibility, ann, nil
}
