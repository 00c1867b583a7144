// Copyright 2026 The apk-bitminer Authors.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package bitstream

import "testing"

func TestReadULEB128(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		out  uint32
		err  error
	}{
		{"single byte zero", []byte{0x00}, 0, nil},
		{"single byte max 7 bit", []byte{0x7F}, 127, nil},
		{"two byte 128", []byte{0x80, 0x01}, 128, nil},
		{"overflow", []byte{0x80, 0x80, 0x80, 0x80, 0x80}, 0, ErrLEB128Overflow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewBytes(tt.in)
			got, err := r.ReadULEB128()
			if tt.err != nil {
				if err != tt.err {
					t.Fatalf("ReadULEB128() err = %v, want %v", err, tt.err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ReadULEB128() unexpected err: %v", err)
			}
			if got != tt.out {
				t.Errorf("ReadULEB128() = %d, want %d", got, tt.out)
			}
		})
	}
}

func TestReadCString(t *testing.T) {
	r := NewBytes([]byte("hello\x00world"))
	s, err := r.ReadCString()
	if err != nil {
		t.Fatalf("ReadCString() unexpected err: %v", err)
	}
	if s != "hello" {
		t.Errorf("ReadCString() = %q, want %q", s, "hello")
	}
	if r.Tell() != 6 {
		t.Errorf("Tell() = %d, want 6", r.Tell())
	}
}

func TestReadPrimitivesAdvanceCursor(t *testing.T) {
	r := NewBytes([]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08})
	b, err := r.ReadU8()
	if err != nil || b != 0x01 {
		t.Fatalf("ReadU8() = %d, %v", b, err)
	}
	i16, err := r.ReadI16LE()
	if err != nil || i16 != int16(0x0302) {
		t.Fatalf("ReadI16LE() = %d, %v", i16, err)
	}
	i32, err := r.ReadI32LE()
	if err != nil || i32 != int32(0x07060504) {
		t.Fatalf("ReadI32LE() = %d, %v", i32, err)
	}
	if r.Tell() != 7 {
		t.Errorf("Tell() = %d, want 7", r.Tell())
	}
}

func TestReadBytesShortReadFails(t *testing.T) {
	r := NewBytes([]byte{0x01, 0x02})
	if _, err := r.ReadBytes(3); err != ErrMalformedInput {
		t.Errorf("ReadBytes() err = %v, want %v", err, ErrMalformedInput)
	}
}

func TestSeekAndTell(t *testing.T) {
	r := NewBytes([]byte{1, 2, 3, 4})
	r.Seek(2)
	b, err := r.ReadU8()
	if err != nil || b != 3 {
		t.Fatalf("ReadU8() after Seek = %d, %v", b, err)
	}
	if r.Tell() != 3 {
		t.Errorf("Tell() = %d, want 3", r.Tell())
	}
}
