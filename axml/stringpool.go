// Copyright 2026 The apk-bitminer Authors.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package axml

import (
	"fmt"

	"github.com/jrusnakli/apk-bitminer/bitstream"
	"golang.org/x/text/encoding/unicode"
)

// stringChunkTag identifies the string pool chunk (item 3 of the header).
const stringChunkTag = 0x001c0001

// utf16Decoder decodes UTF-16LE byte runs into Go strings.
var utf16Decoder = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()

// stringPoolHeader captures the string pool chunk's header words.
type stringPoolHeader struct {
	chunkTag      uint32
	chunkSize     uint32
	stringCount   uint32
	styleCount    uint32
	stringDataOff uint32
	styleDataOff  uint32
	chunkStart    uint32 // absolute file offset where this chunk began
}

// readStringPool decodes the string chunk starting at the reader's current
// position (immediately after the file tag + file size words) and returns
// the resolved strings plus the absolute offset immediately following the
// string chunk (where the resource chunk is expected to begin).
func readStringPool(r *bitstream.Reader) ([]string, uint32, error) {
	var h stringPoolHeader
	h.chunkStart = r.Tell()

	var err error
	if h.chunkTag, err = r.ReadU32LE(); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	if h.chunkTag != stringChunkTag {
		return nil, 0, ErrBadStringChunkTag
	}
	if h.chunkSize, err = r.ReadU32LE(); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	if h.stringCount, err = r.ReadU32LE(); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	if h.styleCount, err = r.ReadU32LE(); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	if _, err = r.ReadU32LE(); err != nil { // reserved word
		return nil, 0, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	if h.stringDataOff, err = r.ReadU32LE(); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	if h.styleDataOff, err = r.ReadU32LE(); err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}

	offsets := make([]uint32, h.stringCount)
	for i := range offsets {
		if offsets[i], err = r.ReadU32LE(); err != nil {
			return nil, 0, fmt.Errorf("%w: %v", ErrMalformedInput, err)
		}
	}
	// Style offset table: styleCount entries, skipped.
	for i := uint32(0); i < h.styleCount; i++ {
		if _, err = r.ReadU32LE(); err != nil {
			return nil, 0, fmt.Errorf("%w: %v", ErrMalformedInput, err)
		}
	}

	var rawLen uint32
	if h.styleDataOff != 0 {
		rawLen = h.styleDataOff - h.stringDataOff
	} else {
		rawLen = h.chunkSize - h.stringDataOff
	}
	rawBase := h.chunkStart + h.stringDataOff
	raw, err := readAt(r, rawBase, rawLen)
	if err != nil {
		return nil, 0, err
	}

	strs := make([]string, h.stringCount)
	for i, off := range offsets {
		s, err := decodeStringAt(raw, off)
		if err != nil {
			return nil, 0, err
		}
		strs[i] = s
	}

	// Skip the style raw-data block, if present, by seeking past the whole
	// string chunk.
	r.Seek(h.chunkStart + h.chunkSize)

	return strs, h.chunkStart + h.chunkSize, nil
}

// readAt reads n bytes at absolute offset off without disturbing the
// reader's own cursor (it is restored afterwards).
func readAt(r *bitstream.Reader, off, n uint32) ([]byte, error) {
	saved := r.Tell()
	r.Seek(off)
	b, err := r.ReadBytes(n)
	r.Seek(saved)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	return b, nil
}

// decodeStringAt decodes one pool entry from raw starting at local offset
// off: a 16-bit length field, then either UTF-8 or UTF-16LE bytes. If the
// length field's high and low bytes match, it is a duplicated single-byte
// UTF-8 length; otherwise it is a UTF-16 code-unit count.
func decodeStringAt(raw []byte, off uint32) (string, error) {
	if off+2 > uint32(len(raw)) {
		return "", fmt.Errorf("%w: string offset %d out of range", ErrMalformedInput, off)
	}
	lengthField := uint16(raw[off]) | uint16(raw[off+1])<<8
	hi := byte(lengthField >> 8)
	lo := byte(lengthField & 0xFF)

	if hi == lo {
		n := uint32(lo)
		start := off + 2
		if start+n > uint32(len(raw)) {
			return "", fmt.Errorf("%w: utf-8 string run out of range", ErrMalformedInput)
		}
		return string(raw[start : start+n]), nil
	}

	n := uint32(lengthField)
	start := off + 2
	byteLen := n * 2
	if start+byteLen > uint32(len(raw)) {
		return "", fmt.Errorf("%w: utf-16 string run out of range", ErrMalformedInput)
	}
	decoded, err := utf16Decoder.Bytes(raw[start : start+byteLen])
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	return string(decoded), nil
}
