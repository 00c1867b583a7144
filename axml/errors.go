// Copyright 2026 The apk-bitminer Authors.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package axml

import "errors"

// Errors returned while decoding an AXML document.
var (
	// ErrBadFileTag is returned when the outer chunk tag is not 0x00080003.
	ErrBadFileTag = errors.New("axml: bad file chunk tag")

	// ErrBadStringChunkTag is returned when the string pool chunk tag is
	// not 0x001c0001.
	ErrBadStringChunkTag = errors.New("axml: bad string chunk tag")

	// ErrBadResourceChunkTag names a resource IDs chunk tag other than
	// 0x00080180. Parse does not return it: the resource chunk is optional,
	// and when the word after the string pool is not 0x00080180 it is read
	// as the start of the element stream.
	ErrBadResourceChunkTag = errors.New("axml: bad resource chunk tag")

	// ErrUnalignedResourceChunk is returned when the resource chunk size
	// is not a multiple of 4.
	ErrUnalignedResourceChunk = errors.New("axml: resource chunk size not a multiple of 4")

	// ErrUnexpectedTag is returned when the element stream contains a tag
	// this decoder does not recognize.
	ErrUnexpectedTag = errors.New("axml: unexpected element-stream tag")

	// ErrMalformedInput covers short reads and string-pool entries whose
	// offset or length runs past the pool's data. An out-of-range
	// string-pool index is not an error; it resolves to "".
	ErrMalformedInput = errors.New("axml: malformed input")
)
