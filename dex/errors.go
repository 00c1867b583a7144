// Copyright 2026 The apk-bitminer Authors.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package dex

import "errors"

// Errors returned while decoding a dex file. Each failure mode gets its own
// sentinel so callers can errors.Is a specific cause rather than
// string-matching a generic error.
var (
	// ErrBadMagic is returned when the 8-byte magic group does not read
	// "dex\n035\0".
	ErrBadMagic = errors.New("dex: bad magic, not a dex\\n035\\0 file")

	// ErrBadEndianTag is returned when the endian_tag header field is not
	// 0x12345678 (i.e. the file is big-endian, or not a dex file at all).
	ErrBadEndianTag = errors.New("dex: bad endian tag")

	// ErrMalformedInput covers LEB128 overflow, unknown encoded-value
	// types, out-of-range pool indices, and short reads surfaced from the
	// underlying bitstream.Reader.
	ErrMalformedInput = errors.New("dex: malformed input")

	// ErrUnknownEncodedValueType is returned when an EncodedValue header
	// byte's low 5 bits name a value_type this decoder does not recognize.
	ErrUnknownEncodedValueType = errors.New("dex: unknown encoded_value type")
)
