// Copyright 2026 The apk-bitminer Authors.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

// Package bitstream implements a positionable little-endian byte cursor
// over a file-backed buffer, with the LEB128 and string primitives that
// the dex and AXML decoders are built on.
package bitstream

import (
	"errors"
	"math"
	"os"

	mmap "github.com/edsrzf/mmap-go"
)

// ErrMalformedInput is returned whenever a read runs past the end of the
// buffer, or a variable-length encoding fails to terminate where expected.
var ErrMalformedInput = errors.New("bitstream: malformed input")

// ErrLEB128Overflow is returned when an unsigned LEB128 value does not
// terminate within 5 bytes (35 bits of accumulated shift).
var ErrLEB128Overflow = errors.New("bitstream: leb128 overflow")

// maxLEB128Bytes bounds a ULEB128 read to 5 bytes (35 bits of shift), per
// the dex format's unsigned-LEB128 convention.
const maxLEB128Bytes = 5

// Reader is a random-access little-endian cursor over an in-memory or
// memory-mapped byte buffer. It holds no reference to any OS resource other
// than the backing mmap.MMap and its *os.File, if any; once Close is called
// the buffer must not be used.
type Reader struct {
	data []byte
	mm   mmap.MMap
	f    *os.File
	pos  uint32
}

// NewBytes wraps an in-memory buffer. The Reader does not take ownership of
// data beyond holding a reference to it.
func NewBytes(data []byte) *Reader {
	return &Reader{data: data}
}

// OpenFile memory-maps path read-only and wraps it in a Reader. Call Close
// when done to release the mapping and the file handle.
func OpenFile(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, err
	}

	return &Reader{data: data, mm: data, f: f}, nil
}

// Close releases the underlying mmap and file handle, if any. It is a no-op
// for byte-backed readers.
func (r *Reader) Close() error {
	if r.mm != nil {
		if err := r.mm.Unmap(); err != nil {
			return err
		}
		r.mm = nil
	}
	if r.f != nil {
		return r.f.Close()
	}
	return nil
}

// Size returns the total number of bytes in the underlying buffer.
func (r *Reader) Size() uint32 { return uint32(len(r.data)) }

// Tell returns the current cursor position.
func (r *Reader) Tell() uint32 { return r.pos }

// Seek moves the cursor to an absolute offset. It does not itself validate
// that abs is within bounds; the next read will fail with ErrMalformedInput
// if it is not.
func (r *Reader) Seek(abs uint32) {
	r.pos = abs
}

func (r *Reader) require(n uint32) ([]byte, error) {
	if n > 0 && (r.pos+n < r.pos || r.pos+n > uint32(len(r.data))) {
		return nil, ErrMalformedInput
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b, nil
}

// ReadU8 reads a single unsigned byte.
func (r *Reader) ReadU8() (uint8, error) {
	b, err := r.require(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadI16LE reads a signed 16-bit little-endian integer.
func (r *Reader) ReadI16LE() (int16, error) {
	b, err := r.require(2)
	if err != nil {
		return 0, err
	}
	return int16(uint16(b[0]) | uint16(b[1])<<8), nil
}

// ReadI32LE reads a signed 32-bit little-endian integer.
func (r *Reader) ReadI32LE() (int32, error) {
	b, err := r.require(4)
	if err != nil {
		return 0, err
	}
	return int32(uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24), nil
}

// ReadU32LE reads an unsigned 32-bit little-endian integer. Most dex header
// and pool fields are naturally unsigned (sizes, offsets); this is a thin
// convenience over ReadI32LE.
func (r *Reader) ReadU32LE() (uint32, error) {
	v, err := r.ReadI32LE()
	return uint32(v), err
}

// ReadU16LE reads an unsigned 16-bit little-endian integer.
func (r *Reader) ReadU16LE() (uint16, error) {
	v, err := r.ReadI16LE()
	return uint16(v), err
}

// ReadI64LE reads a signed 64-bit little-endian integer.
func (r *Reader) ReadI64LE() (int64, error) {
	b, err := r.require(8)
	if err != nil {
		return 0, err
	}
	var v uint64
	for i := 7; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return int64(v), nil
}

// ReadF32LE reads an IEEE-754 binary32 little-endian float.
func (r *Reader) ReadF32LE() (float32, error) {
	v, err := r.ReadI32LE()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(uint32(v)), nil
}

// ReadF64LE reads an IEEE-754 binary64 little-endian float.
func (r *Reader) ReadF64LE() (float64, error) {
	v, err := r.ReadI64LE()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(uint64(v)), nil
}

// ReadBytes returns exactly n bytes starting at the current position.
func (r *Reader) ReadBytes(n uint32) ([]byte, error) {
	b, err := r.require(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

// ReadFixedString decodes n bytes as Latin-1. Dex descriptors are ASCII in
// practice; Latin-1 is a total, lossless decoding for them.
func (r *Reader) ReadFixedString(n uint32) (string, error) {
	b, err := r.require(n)
	if err != nil {
		return "", err
	}
	return latin1(b), nil
}

// ReadCString reads Latin-1 bytes until (and past) the first NUL. The
// cursor lands immediately after the terminating NUL.
func (r *Reader) ReadCString() (string, error) {
	start := r.pos
	for {
		b, err := r.ReadU8()
		if err != nil {
			return "", ErrMalformedInput
		}
		if b == 0 {
			break
		}
	}
	return latin1(r.data[start : r.pos-1]), nil
}

// ReadULEB128 decodes a standard unsigned LEB128 integer, failing once the
// accumulated shift would reach 35 bits without a terminating byte.
func (r *Reader) ReadULEB128() (uint32, error) {
	var result uint32
	var shift uint
	for i := 0; i < maxLEB128Bytes; i++ {
		b, err := r.ReadU8()
		if err != nil {
			return 0, ErrMalformedInput
		}
		result |= uint32(b&0x7F) << shift
		if b&0x80 == 0 {
			return result, nil
		}
		shift += 7
	}
	return 0, ErrLEB128Overflow
}

func latin1(b []byte) string {
	r := make([]rune, len(b))
	for i, c := range b {
		r[i] = rune(c)
	}
	return string(r)
}
