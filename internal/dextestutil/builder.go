// Copyright 2026 The apk-bitminer Authors.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

// Package dextestutil assembles minimal, spec-shaped dex byte streams for
// unit tests, so the dex and testdiscovery packages don't need checked-in
// binary fixtures to exercise every decode path. It is a test-only helper,
// not part of the decoder proper.
package dextestutil

import (
	"encoding/binary"
)

// MethodSpec describes one method to place in a class's class_data_item,
// and (optionally) the annotation type descriptors attached to it via the
// class's annotations_directory_item.
type MethodSpec struct {
	Name        string
	Virtual     bool // false => direct method
	Annotations []string
}

// ClassSpec describes one class_def_item plus its class_data_item and
// annotations_directory_item.
type ClassSpec struct {
	Descriptor string // e.g. "Lcom/foo/BarTest;"
	Super      string // descriptor, or "" for no superclass
	Methods    []MethodSpec
}

// header size is fixed: 8 (magic) + 4 (checksum) + 20 (signature) +
// 6*4 (file_size..map_off) + 7*8 (id table count/offset pairs) = 0x70.
const headerSize = 8 + 4 + 20 + 6*4 + 7*8

type stringPool struct {
	order []string
	index map[string]uint32
}

func newStringPool() *stringPool {
	return &stringPool{index: map[string]uint32{}}
}

func (p *stringPool) intern(s string) uint32 {
	if idx, ok := p.index[s]; ok {
		return idx
	}
	idx := uint32(len(p.order))
	p.index[s] = idx
	p.order = append(p.order, s)
	return idx
}

type methodEntry struct {
	declaringType uint32
	nameIndex     uint32
}

// Build assembles a dex byte stream: one class_def_item per ClassSpec, with
// string/type/method pools populated from the descriptors and method names
// referenced, and class_data_item / annotations_directory_item sections
// wired to match the resolvers' expectations (EncodedMethod.IndexDiff is
// written as an absolute method-pool index; AnnotationsDirectoryItem's
// method pairs carry an absolute method-pool index too).
func Build(classes []ClassSpec) []byte {
	strs := newStringPool()
	types := []uint32{} // type index -> string index
	typeIndex := map[string]uint32{}

	internType := func(descriptor string) uint32 {
		if idx, ok := typeIndex[descriptor]; ok {
			return idx
		}
		sIdx := strs.intern(descriptor)
		idx := uint32(len(types))
		types = append(types, sIdx)
		typeIndex[descriptor] = idx
		return idx
	}

	var methods []methodEntry
	// classMethodIndex[classPosition][methodName] = index into methods pool.
	classMethodIndex := make([]map[string]uint32, len(classes))

	for ci, c := range classes {
		classType := internType(c.Descriptor)
		if c.Super != "" {
			internType(c.Super)
		}
		classMethodIndex[ci] = map[string]uint32{}
		for _, m := range c.Methods {
			nameIdx := strs.intern(m.Name)
			midx := uint32(len(methods))
			methods = append(methods, methodEntry{declaringType: classType, nameIndex: nameIdx})
			classMethodIndex[ci][m.Name] = midx
			for _, a := range m.Annotations {
				internType(a)
			}
		}
	}

	// --- layout offsets for the fixed-size pool tables ---
	offStringIDs := uint32(headerSize)
	sizeStringIDs := uint32(len(strs.order)) * 4
	offTypeIDs := offStringIDs + sizeStringIDs
	sizeTypeIDs := uint32(len(types)) * 4
	offProtoIDs := offTypeIDs + sizeTypeIDs
	offFieldIDs := offProtoIDs
	offMethodIDs := offFieldIDs
	sizeMethodIDs := uint32(len(methods)) * 8
	offClassDefs := offMethodIDs + sizeMethodIDs
	sizeClassDefs := uint32(len(classes)) * 32
	offClassData := offClassDefs + sizeClassDefs

	// --- class_data_item section ---
	var classDataBuf []byte
	classDataOffset := make([]uint32, len(classes)) // 0 => none
	for ci, c := range classes {
		var virt, direct []uint32
		for _, m := range c.Methods {
			idx := classMethodIndex[ci][m.Name]
			if m.Virtual {
				virt = append(virt, idx)
			} else {
				direct = append(direct, idx)
			}
		}
		if len(virt) == 0 && len(direct) == 0 {
			classDataOffset[ci] = 0
			continue
		}
		classDataOffset[ci] = offClassData + uint32(len(classDataBuf))
		classDataBuf = appendULEB128(classDataBuf, 0) // static fields
		classDataBuf = appendULEB128(classDataBuf, 0) // instance fields
		classDataBuf = appendULEB128(classDataBuf, uint32(len(direct)))
		classDataBuf = appendULEB128(classDataBuf, uint32(len(virt)))
		for _, idx := range direct {
			classDataBuf = appendULEB128(classDataBuf, idx) // index_diff (absolute)
			classDataBuf = appendULEB128(classDataBuf, 0)    // access_flags
			classDataBuf = appendULEB128(classDataBuf, 0)    // code_offset
		}
		for _, idx := range virt {
			classDataBuf = appendULEB128(classDataBuf, idx)
			classDataBuf = appendULEB128(classDataBuf, 0)
			classDataBuf = appendULEB128(classDataBuf, 0)
		}
	}

	offAnnotations := offClassData + uint32(len(classDataBuf))

	// --- annotations section: annotation_item(s), then annotation_set_item(s),
	// then one annotations_directory_item per annotated class ---
	var annBuf []byte
	annotationsOffset := make([]uint32, len(classes)) // 0 => none
	for ci, c := range classes {
		var methodPairs []struct {
			methodIdx uint32
			setOffset uint32
		}
		for _, m := range c.Methods {
			if len(m.Annotations) == 0 {
				continue
			}
			var itemOffsets []uint32
			for _, a := range m.Annotations {
				itemOffset := offAnnotations + uint32(len(annBuf))
				annBuf = append(annBuf, 0x00) // visibility
				annBuf = appendULEB128(annBuf, typeIndex[a])
				annBuf = appendULEB128(annBuf, 0) // zero elements
				itemOffsets = append(itemOffsets, itemOffset)
			}
			setOffset := offAnnotations + uint32(len(annBuf))
			annBuf = appendU32(annBuf, uint32(len(itemOffsets)))
			for _, o := range itemOffsets {
				annBuf = appendU32(annBuf, o)
			}
			methodPairs = append(methodPairs, struct {
				methodIdx uint32
				setOffset uint32
			}{classMethodIndex[ci][m.Name], setOffset})
		}
		if len(methodPairs) == 0 {
			annotationsOffset[ci] = 0
			continue
		}
		dirOffset := offAnnotations + uint32(len(annBuf))
		annBuf = appendU32(annBuf, 0) // class_annotations_offset
		annBuf = appendU32(annBuf, 0) // fields_size
		annBuf = appendU32(annBuf, uint32(len(methodPairs)))
		annBuf = appendU32(annBuf, 0) // parameters_size
		for _, p := range methodPairs {
			annBuf = appendU32(annBuf, p.methodIdx)
			annBuf = appendU32(annBuf, p.setOffset)
		}
		annotationsOffset[ci] = dirOffset
	}

	offStringData := offAnnotations + uint32(len(annBuf))

	// --- string data section ---
	var strDataBuf []byte
	stringOffsets := make([]uint32, len(strs.order))
	for i, s := range strs.order {
		stringOffsets[i] = offStringData + uint32(len(strDataBuf))
		strDataBuf = appendULEB128(strDataBuf, uint32(len(s)))
		strDataBuf = append(strDataBuf, []byte(s)...)
		strDataBuf = append(strDataBuf, 0)
	}

	fileSize := offStringData + uint32(len(strDataBuf))

	buf := make([]byte, 0, fileSize)

	// header
	buf = append(buf, 'd', 'e', 'x', '\n', '0', '3', '5', 0)
	buf = appendU32(buf, 0) // checksum
	buf = append(buf, make([]byte, 20)...) // signature
	buf = appendU32(buf, fileSize)
	buf = appendU32(buf, headerSize)
	buf = appendU32(buf, 0x12345678) // endian_tag
	buf = appendU32(buf, 0)          // link_size
	buf = appendU32(buf, 0)          // link_off
	buf = appendU32(buf, 0)          // map_off
	buf = appendU32(buf, uint32(len(strs.order)))
	buf = appendU32(buf, offStringIDs)
	buf = appendU32(buf, uint32(len(types)))
	buf = appendU32(buf, offTypeIDs)
	buf = appendU32(buf, 0)
	buf = appendU32(buf, offProtoIDs)
	buf = appendU32(buf, 0)
	buf = appendU32(buf, offFieldIDs)
	buf = appendU32(buf, uint32(len(methods)))
	buf = appendU32(buf, offMethodIDs)
	buf = appendU32(buf, uint32(len(classes)))
	buf = appendU32(buf, offClassDefs)
	buf = appendU32(buf, uint32(len(classDataBuf)))
	buf = appendU32(buf, offClassData)

	// string_ids
	for _, sIdx := range stringOffsets {
		buf = appendU32(buf, sIdx)
	}
	// type_ids
	for _, sIdx := range types {
		buf = appendU32(buf, sIdx)
	}
	// method_ids
	for _, m := range methods {
		buf = appendU16(buf, uint16(m.declaringType))
		buf = appendU16(buf, 0)
		buf = appendU32(buf, m.nameIndex)
	}
	// class_defs
	for ci, c := range classes {
		buf = appendU32(buf, internType(c.Descriptor))
		buf = appendU32(buf, 0) // access_flags
		if c.Super == "" {
			buf = appendI32(buf, -1)
		} else {
			buf = appendI32(buf, int32(internType(c.Super)))
		}
		buf = appendU32(buf, 0) // interfaces_offset
		buf = appendU32(buf, 0) // source_file_index
		buf = appendU32(buf, annotationsOffset[ci])
		buf = appendU32(buf, classDataOffset[ci])
		buf = appendU32(buf, 0) // static_values_offset
	}

	buf = append(buf, classDataBuf...)
	buf = append(buf, annBuf...)
	buf = append(buf, strDataBuf...)

	return buf
}

func appendU32(buf []byte, v uint32) []byte {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return append(buf, b[:]...)
}

func appendI32(buf []byte, v int32) []byte {
	return appendU32(buf, uint32(v))
}

func appendU16(buf []byte, v uint16) []byte {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	return append(buf, b[:]...)
}

func appendULEB128(buf []byte, v uint32) []byte {
	for {
		b := byte(v & 0x7F)
		v >>= 7
		if v != 0 {
			buf = append(buf, b|0x80)
		} else {
			buf = append(buf, b)
			break
		}
	}
	return buf
}
