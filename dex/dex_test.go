// Copyright 2026 The apk-bitminer Authors.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package dex

import (
	"errors"
	"testing"

	"github.com/jrusnakli/apk-bitminer/bitstream"
	"github.com/jrusnakli/apk-bitminer/internal/dextestutil"
)

func buildSample(t *testing.T) *File {
	t.Helper()
	data := dextestutil.Build([]dextestutil.ClassSpec{
		{
			Descriptor: "Lcom/example/FooTest;",
			Super:      "Ljunit/framework/TestCase;",
			Methods: []dextestutil.MethodSpec{
				{Name: "testAlpha", Virtual: true},
				{Name: "helper", Virtual: false},
				{Name: "testBeta", Virtual: true, Annotations: []string{"Lorg/junit/Test;"}},
				{Name: "testIgnored", Virtual: true, Annotations: []string{"Lorg/junit/Test;", "Lorg/junit/Ignore;"}},
			},
		},
	})
	f, err := Parse(bitstream.NewBytes(data), nil)
	if err != nil {
		t.Fatalf("Parse() unexpected err: %v", err)
	}
	return f
}

func TestParseHeaderAndPools(t *testing.T) {
	f := buildSample(t)

	if len(f.ClassDefs) != 1 {
		t.Fatalf("len(ClassDefs) = %d, want 1", len(f.ClassDefs))
	}

	c := f.ClassDefs[0]
	descriptor, err := f.ClassDescriptor(c)
	if err != nil {
		t.Fatalf("ClassDescriptor() err: %v", err)
	}
	if descriptor != "Lcom/example/FooTest;" {
		t.Errorf("ClassDescriptor() = %q, want %q", descriptor, "Lcom/example/FooTest;")
	}

	super, ok, err := f.SuperclassDescriptor(c)
	if err != nil || !ok {
		t.Fatalf("SuperclassDescriptor() = %q, %v, %v", super, ok, err)
	}
	if super != "Ljunit/framework/TestCase;" {
		t.Errorf("SuperclassDescriptor() = %q, want Ljunit/framework/TestCase;", super)
	}
}

func TestClassDataVirtualMethodCount(t *testing.T) {
	f := buildSample(t)
	c := f.ClassDefs[0]

	data, err := f.ClassData(c.ClassDataOffset)
	if err != nil {
		t.Fatalf("ClassData() err: %v", err)
	}
	if data == nil {
		t.Fatal("ClassData() = nil, want non-nil")
	}
	// P2: virtual method count matches the number of virtual methods built.
	if len(data.VirtualMethods) != 3 {
		t.Errorf("len(VirtualMethods) = %d, want 3", len(data.VirtualMethods))
	}
	if len(data.DirectMethods) != 1 {
		t.Errorf("len(DirectMethods) = %d, want 1", len(data.DirectMethods))
	}

	names := map[string]bool{}
	for _, vm := range data.VirtualMethods {
		name, err := f.MethodName(vm.IndexDiff)
		if err != nil {
			t.Fatalf("MethodName() err: %v", err)
		}
		names[name] = true
	}
	for _, want := range []string{"testAlpha", "testBeta", "testIgnored"} {
		if !names[want] {
			t.Errorf("virtual methods missing %q, got %v", want, names)
		}
	}
}

func TestAnnotationsDirectory(t *testing.T) {
	f := buildSample(t)
	c := f.ClassDefs[0]

	dir, err := f.AnnotationsDirectory(c.AnnotationsOffset)
	if err != nil {
		t.Fatalf("AnnotationsDirectory() err: %v", err)
	}
	if dir == nil {
		t.Fatal("AnnotationsDirectory() = nil, want non-nil")
	}
	if len(dir.MethodAnnotations) != 2 {
		t.Fatalf("len(MethodAnnotations) = %d, want 2", len(dir.MethodAnnotations))
	}

	seenTest, seenIgnore := false, false
	for _, ma := range dir.MethodAnnotations {
		name, err := f.MethodName(ma.MethodIndex)
		if err != nil {
			t.Fatalf("MethodName() err: %v", err)
		}
		offsets, err := f.AnnotationSet(ma.AnnotationsOffset)
		if err != nil {
			t.Fatalf("AnnotationSet() err: %v", err)
		}
		for _, off := range offsets {
			_, ann, err := f.Annotation(off)
			if err != nil {
				t.Fatalf("Annotation() err: %v", err)
			}
			descriptor, err := f.TypeDescriptor(ann.TypeIndex)
			if err != nil {
				t.Fatalf("TypeDescriptor() err: %v", err)
			}
			switch descriptor {
			case "Lorg/junit/Test;":
				seenTest = true
			case "Lorg/junit/Ignore;":
				seenIgnore = true
			}
			_ = name
		}
	}
	if !seenTest || !seenIgnore {
		t.Errorf("seenTest=%v seenIgnore=%v, want both true", seenTest, seenIgnore)
	}
}

func TestParseRejectsBadMagic(t *testing.T) {
	data := dextestutil.Build([]dextestutil.ClassSpec{{Descriptor: "Lfoo/Bar;"}})
	data[4] = '0'
	data[5] = '3'
	data[6] = '6'
	_, err := Parse(bitstream.NewBytes(data), nil)
	if !errors.Is(err, ErrBadMagic) {
		t.Errorf("Parse() err = %v, want ErrBadMagic", err)
	}
}

func TestParseRejectsBadEndianTag(t *testing.T) {
	data := dextestutil.Build([]dextestutil.ClassSpec{{Descriptor: "Lfoo/Bar;"}})
	// endian_tag sits right after the 40-byte magic+checksum+signature+
	// file_size+header_size block.
	const endianTagOffset = 8 + 4 + 20 + 4 + 4
	data[endianTagOffset+0] = 0x12
	data[endianTagOffset+1] = 0x34
	data[endianTagOffset+2] = 0x56
	data[endianTagOffset+3] = 0x78
	_, err := Parse(bitstream.NewBytes(data), nil)
	if !errors.Is(err, ErrBadEndianTag) {
		t.Errorf("Parse() err = %v, want ErrBadEndianTag", err)
	}
}

func TestDescriptorToName(t *testing.T) {
	tests := []struct{ in, out string }{
		{"Lcom/example/FooTest;", "com.example.FooTest"},
		{"Ljava/lang/Object;", "java.lang.Object"},
	}
	for _, tt := range tests {
		if got := DescriptorToName(tt.in); got != tt.out {
			t.Errorf("DescriptorToName(%q) = %q, want %q", tt.in, got, tt.out)
		}
	}
}

func TestEncodedValueBoolean(t *testing.T) {
	// header byte: value_arg=1 (true), value_type=BOOLEAN(0x1F) -> 0x3F
	r := bitstream.NewBytes([]byte{0x3F})
	f := &File{r: r}
	v, err := f.EncodedValue()
	if err != nil {
		t.Fatalf("EncodedValue() err: %v", err)
	}
	if v.Type != ValueBoolean || !v.Bool {
		t.Errorf("EncodedValue() = %+v, want Bool=true", v)
	}
}

func TestEncodedValueUnknownType(t *testing.T) {
	// value_type = 0x02 with a bogus upper tag combo is actually valid
	// (SHORT); use an out-of-range low 5 bits instead, e.g. 0x15 (0b10101).
	r := bitstream.NewBytes([]byte{0x15, 0x00})
	f := &File{r: r}
	_, err := f.EncodedValue()
	if !errors.Is(err, ErrUnknownEncodedValueType) {
		t.Errorf("EncodedValue() err = %v, want ErrUnknownEncodedValueType", err)
	}
}
