// Copyright 2026 The apk-bitminer Authors.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

// Package testdiscovery walks a decoded dex.File looking for JUnit3- and
// JUnit4-style test methods, the same discovery a test runner performs
// before instrumenting an APK.
package testdiscovery

import (
	"fmt"
	"strings"

	"github.com/jrusnakli/apk-bitminer/dex"
	"github.com/jrusnakli/apk-bitminer/internal/elog"
)

// defaultJUnit3BaseClasses are the known JUnit3-style base classes a
// candidate test class's immediate superclass is checked against when
// Options.BaseClasses is empty. Only a single inheritance hop is followed:
// a class two levels below one of these is not discovered.
var defaultJUnit3BaseClasses = []string{
	"Ljunit/framework/TestCase;",
	"Landroid/test/AndroidTestCase;",
	"Landroid/test/InstrumentationTestCase;",
	"Landroid/test/ActivityInstrumentationTestCase2;",
}

const (
	junit4TestAnnotation   = "Lorg/junit/Test;"
	junit4IgnoreAnnotation = "Lorg/junit/Ignore;"
)

// Options configures the resolvers. A nil Options behaves like a
// zero-value one.
type Options struct {
	// BaseClasses seeds the JUnit3 superclass check. Defaults to
	// defaultJUnit3BaseClasses when empty.
	BaseClasses []string

	Logger *elog.Helper
}

func (o *Options) logger() *elog.Helper {
	if o != nil && o.Logger != nil {
		return o.Logger
	}
	return elog.NewDefault()
}

func (o *Options) baseClasses() map[string]bool {
	classes := defaultJUnit3BaseClasses
	if o != nil && len(o.BaseClasses) > 0 {
		classes = o.BaseClasses
	}
	set := make(map[string]bool, len(classes))
	for _, c := range classes {
		set[c] = true
	}
	return set
}

// junit3Admits reports whether className is admitted by packageFilters: a
// class is admitted iff at least one filter string contains the class name
// as a substring. An empty filter list admits everything.
func junit3Admits(className string, packageFilters []string) bool {
	if len(packageFilters) == 0 {
		return true
	}
	for _, f := range packageFilters {
		if strings.Contains(f, className) {
			return true
		}
	}
	return false
}

// junit4Admits reports whether className is admitted by packageFilters: a
// class is admitted iff at least one filter string is a substring of the
// class name. An empty filter list admits everything. This is the opposite
// substring direction from junit3Admits.
func junit4Admits(className string, packageFilters []string) bool {
	if len(packageFilters) == 0 {
		return true
	}
	for _, f := range packageFilters {
		if strings.Contains(className, f) {
			return true
		}
	}
	return false
}

// ResolveJUnit3 returns "<dotted-class>#<method>" entries for every
// test-prefixed virtual method on a class whose immediate superclass is
// one of the configured JUnit3 base classes. When packageFilters is
// non-empty, only classes it admits (see junit3Admits) are considered.
func ResolveJUnit3(f *dex.File, packageFilters []string, opts *Options) ([]string, error) {
	logger := opts.logger()
	baseClasses := opts.baseClasses()
	var results []string

	for _, c := range f.ClassDefs {
		superDescriptor, ok, err := f.SuperclassDescriptor(c)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
		}
		if !ok || !baseClasses[superDescriptor] {
			continue
		}

		classDescriptor, err := f.ClassDescriptor(c)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
		}
		className := dex.DescriptorToName(classDescriptor)
		if !junit3Admits(className, packageFilters) {
			continue
		}

		data, err := f.ClassData(c.ClassDataOffset)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
		}
		if data == nil {
			continue
		}

		for _, vm := range data.VirtualMethods {
			name, err := f.MethodName(vm.IndexDiff)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
			}
			if strings.HasPrefix(name, "test") {
				results = append(results, className+"#"+name)
			}
		}
	}

	logger.Debugf("testdiscovery: junit3 resolved %d methods", len(results))
	return results, nil
}

// ResolveJUnit4 returns "<dotted-class>#<method>" entries for every method
// annotated @Test and not also annotated @Ignore, across every class in f.
// When packageFilters is non-empty, only classes it admits (see
// junit4Admits) are considered.
func ResolveJUnit4(f *dex.File, packageFilters []string, opts *Options) ([]string, error) {
	logger := opts.logger()
	var results []string

	for _, c := range f.ClassDefs {
		dir, err := f.AnnotationsDirectory(c.AnnotationsOffset)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
		}
		if dir == nil {
			continue
		}

		classDescriptor, err := f.ClassDescriptor(c)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
		}
		className := dex.DescriptorToName(classDescriptor)
		if !junit4Admits(className, packageFilters) {
			continue
		}

		for _, ma := range dir.MethodAnnotations {
			isTest, isIgnore, err := classifyMethodAnnotations(f, ma.AnnotationsOffset)
			if err != nil {
				return nil, err
			}
			if !isTest || isIgnore {
				continue
			}
			name, err := f.MethodName(ma.MethodIndex)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
			}
			results = append(results, className+"#"+name)
		}
	}

	logger.Debugf("testdiscovery: junit4 resolved %d methods (filters=%v)", len(results), packageFilters)
	return results, nil
}

func classifyMethodAnnotations(f *dex.File, setOffset uint32) (isTest, isIgnore bool, err error) {
	offsets, err := f.AnnotationSet(setOffset)
	if err != nil {
		return false, false, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	for _, off := range offsets {
		_, ann, err := f.Annotation(off)
		if err != nil {
			return false, false, fmt.Errorf("%w: %v", ErrMalformedInput, err)
		}
		descriptor, err := f.TypeDescriptor(ann.TypeIndex)
		if err != nil {
			return false, false, fmt.Errorf("%w: %v", ErrMalformedInput, err)
		}
		switch descriptor {
		case junit4TestAnnotation:
			isTest = true
		case junit4IgnoreAnnotation:
			isIgnore = true
		}
	}
	return isTest, isIgnore, nil
}
