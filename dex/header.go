// Copyright 2026 The apk-bitminer Authors.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package dex

import (
	"fmt"

	"github.com/jrusnakli/apk-bitminer/bitstream"
)

// expectedEndianTag is the only byte order this decoder accepts; dex files
// with the swapped tag (0x78563412) are big-endian and rejected.
const expectedEndianTag = 0x12345678

// dexMagic is the fixed 8-byte magic group: "dex\n035\0".
var dexMagic = [8]byte{'d', 'e', 'x', '\n', '0', '3', '5', 0}

// idTable records a pooled ID table's element count and its file offset.
type idTable struct {
	Count  uint32
	Offset uint32
}

// Header is the fixed 0x70-byte dex header.
type Header struct {
	Magic      [8]byte
	Checksum   uint32
	Signature  [20]byte
	FileSize   uint32
	HeaderSize uint32
	EndianTag  uint32
	LinkSize   uint32
	LinkOffset uint32
	MapOffset  uint32

	StringIDs   idTable
	TypeIDs     idTable
	ProtoIDs    idTable
	FieldIDs    idTable
	MethodIDs   idTable
	ClassDefs   idTable
	ClassDefData idTable
}

// readHeader decodes and validates the dex header at the current cursor
// position (offset 0). It fails with ErrBadMagic or ErrBadEndianTag on
// mismatch, per spec; it does not verify the checksum or signature beyond
// capturing them.
func readHeader(r *bitstream.Reader) (Header, error) {
	var h Header

	magic, err := r.ReadBytes(8)
	if err != nil {
		return h, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	copy(h.Magic[:], magic)
	if h.Magic != dexMagic {
		return h, ErrBadMagic
	}

	if h.Checksum, err = r.ReadU32LE(); err != nil {
		return h, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	sig, err := r.ReadBytes(20)
	if err != nil {
		return h, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	copy(h.Signature[:], sig)

	fields := []*uint32{
		&h.FileSize, &h.HeaderSize, &h.EndianTag, &h.LinkSize, &h.LinkOffset,
		&h.MapOffset,
	}
	for _, f := range fields {
		if *f, err = r.ReadU32LE(); err != nil {
			return h, fmt.Errorf("%w: %v", ErrMalformedInput, err)
		}
	}

	if h.EndianTag != expectedEndianTag {
		return h, ErrBadEndianTag
	}

	tables := []*idTable{
		&h.StringIDs, &h.TypeIDs, &h.ProtoIDs, &h.FieldIDs, &h.MethodIDs,
		&h.ClassDefs, &h.ClassDefData,
	}
	for _, t := range tables {
		if t.Count, err = r.ReadU32LE(); err != nil {
			return h, fmt.Errorf("%w: %v", ErrMalformedInput, err)
		}
		if t.Offset, err = r.ReadU32LE(); err != nil {
			return h, fmt.Errorf("%w: %v", ErrMalformedInput, err)
		}
	}

	return h, nil
}
