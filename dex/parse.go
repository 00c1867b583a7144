// Copyright 2026 The apk-bitminer Authors.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

// Package dex decodes the Dalvik Executable (.dex) container: its fixed
// header, the six pooled ID tables, class data streams, and the recursive
// tagged encoded_value tree used by annotations. It supports version 035,
// little-endian dex files only, and never executes or re-encodes bytecode.
package dex

import (
	"fmt"

	"github.com/jrusnakli/apk-bitminer/bitstream"
	"github.com/jrusnakli/apk-bitminer/internal/elog"
)

// Options configures a Parse call. A nil *Options is replaced with
// zero-value defaults.
type Options struct {
	// Logger receives diagnostics during decoding. Defaults to a Warn-level
	// stderr logger when nil.
	Logger *elog.Helper
}

// File is a fully decoded dex file: the header plus the six pooled ID
// tables. All entities are read once in a single pass and are thereafter
// read-only; File holds no reference to the backing bitstream.Reader once
// Parse returns other than for on-demand pool lookups, which re-seek the
// same reader and never mutate shared state between calls.
type File struct {
	Header    Header
	StringIDs []StringIDItem
	TypeIDs   []TypeIDItem
	ProtoIDs  []ProtoIDItem
	FieldIDs  []IDItem
	MethodIDs []IDItem
	ClassDefs []ClassDefItem

	r      *bitstream.Reader
	logger *elog.Helper
}

// Parse decodes a dex file from r. r must remain valid for the lifetime of
// the returned *File, since pool lookups (StringAt, TypeDescriptor, ...)
// and class-data/annotation decoding re-seek it on demand.
func Parse(r *bitstream.Reader, opts *Options) (*File, error) {
	if opts == nil {
		opts = &Options{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = elog.NewDefault()
	}

	h, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	strs, types, protos, fields, methods, classDefs, err := loadIDTables(r, h)
	if err != nil {
		return nil, err
	}

	f := &File{
		Header:    h,
		StringIDs: strs,
		TypeIDs:   types,
		ProtoIDs:  protos,
		FieldIDs:  fields,
		MethodIDs: methods,
		ClassDefs: classDefs,
		r:         r,
		logger:    logger,
	}
	logger.Debugf("dex: parsed %d classes, %d strings, %d types", len(classDefs), len(strs), len(types))
	return f, nil
}

// StringAt resolves the string-pool entry at idx: seeks to its data_offset,
// skips the leading (unused) LEB128 UTF-16 unit count, and reads a
// NUL-terminated Latin-1 string.
func (f *File) StringAt(idx uint32) (string, error) {
	if idx >= uint32(len(f.StringIDs)) {
		return "", fmt.Errorf("%w: string index %d out of range", ErrMalformedInput, idx)
	}
	f.r.Seek(f.StringIDs[idx].DataOffset)
	if _, err := f.r.ReadULEB128(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	s, err := f.r.ReadCString()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	return s, nil
}

// TypeDescriptor resolves a type-pool index to its JVM-form descriptor
// string (e.g. "Ljava/lang/Object;").
func (f *File) TypeDescriptor(idx uint32) (string, error) {
	if idx >= uint32(len(f.TypeIDs)) {
		return "", fmt.Errorf("%w: type index %d out of range", ErrMalformedInput, idx)
	}
	return f.StringAt(f.TypeIDs[idx].DescriptorIndex)
}

// MethodName resolves a method-pool index to its name string.
func (f *File) MethodName(idx uint32) (string, error) {
	if idx >= uint32(len(f.MethodIDs)) {
		return "", fmt.Errorf("%w: method index %d out of range", ErrMalformedInput, idx)
	}
	return f.StringAt(f.MethodIDs[idx].NameIndex)
}

// ClassDescriptor resolves a ClassDefItem's own type descriptor.
func (f *File) ClassDescriptor(c ClassDefItem) (string, error) {
	return f.TypeDescriptor(c.ClassIndex)
}

// SuperclassDescriptor resolves a ClassDefItem's superclass descriptor. It
// returns ("", false) when the class has no superclass (SuperclassIndex < 0).
func (f *File) SuperclassDescriptor(c ClassDefItem) (string, bool, error) {
	if c.SuperclassIndex < 0 {
		return "", false, nil
	}
	d, err := f.TypeDescriptor(uint32(c.SuperclassIndex))
	if err != nil {
		return "", false, err
	}
	return d, true, nil
}

// DescriptorToName converts a JVM type descriptor like "Lcom/foo/Bar;" to
// its dot-separated name "com.foo.Bar": strip the leading 'L' and trailing
// ';', replace '/' with '.'.
func DescriptorToName(descriptor string) string {
	d := descriptor
	if len(d) > 0 && d[0] == 'L' {
		d = d[1:]
	}
	if len(d) > 0 && d[len(d)-1] == ';' {
		d = d[:len(d)-1]
	}
	out := make([]byte, len(d))
	for i := 0; i < len(d); i++ {
		if d[i] == '/' {
			out[i] = '.'
		} else {
			out[i] = d[i]
		}
	}
	return string(out)
}
