// Copyright 2026 The apk-bitminer Authors.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

// Package axmltestutil assembles minimal, spec-shaped AXML byte streams for
// unit tests, so the axml package doesn't need a checked-in
// AndroidManifest.xml fixture to exercise its decode paths.
package axmltestutil

import "encoding/binary"

// AttrSpec is one attribute to attach to an ElementSpec.
type AttrSpec struct {
	Name  string
	Value string
}

// ElementSpec describes one element and its subtree.
type ElementSpec struct {
	Name     string
	Attrs    []AttrSpec
	Children []ElementSpec
}

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

const (
	fileTag          = 0x00080003
	stringChunkTag   = 0x001c0001
	nsEndOrDocEndTag = 0x00100101
	startTagTag      = 0x00100102
	endTagTag        = 0x00100103
)

// Build assembles a complete AXML byte stream for root (and its subtree).
// Every string referenced anywhere in the tree is interned once into a
// single document-wide string pool, encoded with the single-byte-length
// UTF-8 form (a duplicated length byte, e.g. "abc" -> 0x03 0x03 'a' 'b' 'c').
func Build(root ElementSpec) []byte {
	strs := newStringPool()
	strs.intern(root.Name) // ensure root name interned even if childless

	var collect func(e ElementSpec)
	collect = func(e ElementSpec) {
		strs.intern(e.Name)
		for _, a := range e.Attrs {
			strs.intern(a.Name)
			strs.intern(a.Value)
		}
		for _, c := range e.Children {
			collect(c)
		}
	}
	collect(root)

	var elementBuf []byte
	var emit func(e ElementSpec)
	emit = func(e ElementSpec) {
		elementBuf = appendU32(elementBuf, startTagTag)
		elementBuf = appendU32(elementBuf, 0) // size, unchecked by the decoder
		elementBuf = appendU32(elementBuf, 0) // line number
		elementBuf = appendU32(elementBuf, 0) // comment
		elementBuf = appendI32(elementBuf, -1) // namespace
		elementBuf = appendI32(elementBuf, int32(strs.intern(e.Name)))
		elementBuf = appendU32(elementBuf, uint32(len(e.Attrs)))
		for _, a := range e.Attrs {
			elementBuf = appendI32(elementBuf, -1) // namespace
			elementBuf = appendI32(elementBuf, int32(strs.intern(a.Name)))
			elementBuf = appendI32(elementBuf, int32(strs.intern(a.Value))) // raw value index
			elementBuf = appendU32(elementBuf, 0x03)                         // value type: string
			elementBuf = appendU32(elementBuf, 0)                            // value data, unused when raw index >= 0
		}

		for _, c := range e.Children {
			emit(c)
		}

		elementBuf = appendU32(elementBuf, endTagTag)
		elementBuf = appendU32(elementBuf, 0)
		elementBuf = appendU32(elementBuf, 0)
		elementBuf = appendU32(elementBuf, 0)
		elementBuf = appendI32(elementBuf, -1)
		elementBuf = appendI32(elementBuf, int32(strs.intern(e.Name)))
	}
	emit(root)
	// Terminal DOC_END record: the decoder stops as soon as the path stack
	// empties on the matching END_TAG above, so this is never actually
	// consumed, but real AXML streams always carry it.
	elementBuf = appendU32(elementBuf, nsEndOrDocEndTag)
	elementBuf = appendU32(elementBuf, 0)
	elementBuf = appendU32(elementBuf, 0)
	elementBuf = appendU32(elementBuf, 0)
	elementBuf = appendU32(elementBuf, 0)
	elementBuf = appendU32(elementBuf, 0)

	offsets := make([]uint32, len(strs.order))
	var rawBuf []byte
	for i, s := range strs.order {
		offsets[i] = uint32(len(rawBuf))
		n := len(s)
		rawBuf = append(rawBuf, byte(n), byte(n))
		rawBuf = append(rawBuf, []byte(s)...)
		rawBuf = append(rawBuf, 0)
	}

	stringDataOff := uint32(7*4 + len(offsets)*4)
	chunkSize := stringDataOff + uint32(len(rawBuf))

	var stringChunk []byte
	stringChunk = appendU32(stringChunk, stringChunkTag)
	stringChunk = appendU32(stringChunk, chunkSize)
	stringChunk = appendU32(stringChunk, uint32(len(strs.order)))
	stringChunk = appendU32(stringChunk, 0) // style count
	stringChunk = appendU32(stringChunk, 0) // reserved
	stringChunk = appendU32(stringChunk, stringDataOff)
	stringChunk = appendU32(stringChunk, 0) // style data offset (none)
	for _, off := range offsets {
		stringChunk = appendU32(stringChunk, off)
	}
	stringChunk = append(stringChunk, rawBuf...)

	fileSize := uint32(8) + uint32(len(stringChunk)) + uint32(len(elementBuf))

	var buf []byte
	buf = appendU32(buf, fileTag)
	buf = appendU32(buf, fileSize)
	buf = append(buf, stringChunk...)
	buf = append(buf, elementBuf...)
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
