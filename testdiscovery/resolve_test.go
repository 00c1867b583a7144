// Copyright 2026 The apk-bitminer Authors.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package testdiscovery

import (
	"sort"
	"testing"

	"github.com/jrusnakli/apk-bitminer/bitstream"
	"github.com/jrusnakli/apk-bitminer/dex"
	"github.com/jrusnakli/apk-bitminer/internal/dextestutil"
)

func buildMixedFile(t *testing.T) *dex.File {
	t.Helper()
	data := dextestutil.Build([]dextestutil.ClassSpec{
		{
			Descriptor: "Lcom/example/LegacyTest;",
			Super:      "Ljunit/framework/TestCase;",
			Methods: []dextestutil.MethodSpec{
				{Name: "testAlpha", Virtual: true},
				{Name: "testBeta", Virtual: true},
				{Name: "helper", Virtual: false},
				{Name: "notATest", Virtual: true},
			},
		},
		{
			Descriptor: "Lcom/example/ModernTest;",
			Super:      "Ljava/lang/Object;",
			Methods: []dextestutil.MethodSpec{
				{Name: "testGamma", Virtual: true, Annotations: []string{"Lorg/junit/Test;"}},
				{Name: "testDelta", Virtual: true, Annotations: []string{"Lorg/junit/Test;", "Lorg/junit/Ignore;"}},
				{Name: "notAnnotated", Virtual: true},
			},
		},
		{
			// Two inheritance hops below TestCase; must NOT be discovered
			// under the single-hop resolution rule.
			Descriptor: "Lcom/example/GrandchildTest;",
			Super:      "Lcom/example/LegacyTest;",
			Methods: []dextestutil.MethodSpec{
				{Name: "testEpsilon", Virtual: true},
			},
		},
	})
	f, err := dex.Parse(bitstream.NewBytes(data), nil)
	if err != nil {
		t.Fatalf("dex.Parse() unexpected err: %v", err)
	}
	return f
}

func TestResolveJUnit3(t *testing.T) {
	f := buildMixedFile(t)
	got, err := ResolveJUnit3(f, nil, nil)
	if err != nil {
		t.Fatalf("ResolveJUnit3() err: %v", err)
	}
	sort.Strings(got)

	want := []string{
		"com.example.LegacyTest#testAlpha",
		"com.example.LegacyTest#testBeta",
	}
	sort.Strings(want)

	if len(got) != len(want) {
		t.Fatalf("ResolveJUnit3() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ResolveJUnit3()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestResolveJUnit3PackageFilter(t *testing.T) {
	f := buildMixedFile(t)

	// JUnit3's filter direction is the opposite of JUnit4's: a class is
	// admitted iff the class name is a substring of a filter entry.
	got, err := ResolveJUnit3(f, []string{"com.example.LegacyTest and then some"}, nil)
	if err != nil {
		t.Fatalf("ResolveJUnit3() err: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("ResolveJUnit3() with matching filter = %v, want 2 entries", got)
	}

	got, err = ResolveJUnit3(f, []string{"nonexistent.pkg"}, nil)
	if err != nil {
		t.Fatalf("ResolveJUnit3() err: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("ResolveJUnit3() with non-matching filter = %v, want 0 entries", got)
	}
}

func TestResolveJUnit4(t *testing.T) {
	f := buildMixedFile(t)
	got, err := ResolveJUnit4(f, nil, nil)
	if err != nil {
		t.Fatalf("ResolveJUnit4() err: %v", err)
	}

	if len(got) != 1 || got[0] != "com.example.ModernTest#testGamma" {
		t.Errorf("ResolveJUnit4() = %v, want [com.example.ModernTest#testGamma]", got)
	}
}

func TestResolveJUnit4PackageFilter(t *testing.T) {
	f := buildMixedFile(t)

	got, err := ResolveJUnit4(f, []string{"example.Modern"}, nil)
	if err != nil {
		t.Fatalf("ResolveJUnit4() err: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("ResolveJUnit4() with matching filter = %v, want 1 entry", got)
	}

	got, err = ResolveJUnit4(f, []string{"nonexistent.pkg"}, nil)
	if err != nil {
		t.Fatalf("ResolveJUnit4() err: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("ResolveJUnit4() with non-matching filter = %v, want 0 entries", got)
	}
}
