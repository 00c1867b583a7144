// Copyright 2026 The apk-bitminer Authors.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package axml

import (
	"errors"
	"strings"
	"testing"

	"github.com/jrusnakli/apk-bitminer/bitstream"
	"github.com/jrusnakli/apk-bitminer/internal/axmltestutil"
)

func buildManifest(t *testing.T) *Document {
	t.Helper()
	data := axmltestutil.Build(axmltestutil.ElementSpec{
		Name: "manifest",
		Attrs: []axmltestutil.AttrSpec{
			{Name: "package", Value: "com.example.app"},
		},
		Children: []axmltestutil.ElementSpec{
			{
				Name: "uses-sdk",
				Attrs: []axmltestutil.AttrSpec{
					{Name: "minSdkVersion", Value: "21"},
					{Name: "targetSdkVersion", Value: "30"},
				},
			},
			{
				Name: "uses-permission",
				Attrs: []axmltestutil.AttrSpec{
					{Name: "name", Value: "android.permission.INTERNET"},
				},
			},
			{
				Name: "instrumentation",
				Attrs: []axmltestutil.AttrSpec{
					{Name: "name", Value: "androidx.test.runner.AndroidJUnitRunner"},
					{Name: "targetPackage", Value: "com.example.app"},
				},
			},
		},
	})
	d, err := Parse(bitstream.NewBytes(data), nil)
	if err != nil {
		t.Fatalf("Parse() unexpected err: %v", err)
	}
	return d
}

func TestParseTreeShape(t *testing.T) {
	d := buildManifest(t)

	root := d.Root()
	if root == nil {
		t.Fatal("Root() = nil")
	}
	if root.Name != "manifest" {
		t.Errorf("Root().Name = %q, want manifest", root.Name)
	}
	if len(root.Children) != 3 {
		t.Fatalf("len(Root().Children) = %d, want 3", len(root.Children))
	}

	pkg, ok := root.Attr("package")
	if !ok || pkg != "com.example.app" {
		t.Errorf("package attr = %q, %v, want com.example.app, true", pkg, ok)
	}
}

func TestManifestAccessor(t *testing.T) {
	d := buildManifest(t)
	info := d.Manifest()

	if info.Package != "com.example.app" {
		t.Errorf("Package = %q, want com.example.app", info.Package)
	}
	if info.SDK.MinSdkVersion != "21" || info.SDK.TargetSdkVersion != "30" {
		t.Errorf("SDK = %+v, want Min=21 Target=30", info.SDK)
	}
	if len(info.Permissions) != 1 || info.Permissions[0].Name != "android.permission.INTERNET" {
		t.Errorf("Permissions = %+v", info.Permissions)
	}
	if len(info.Instrumentations) != 1 {
		t.Fatalf("len(Instrumentations) = %d, want 1", len(info.Instrumentations))
	}
	inst := info.Instrumentations[0]
	if inst.Name != "androidx.test.runner.AndroidJUnitRunner" || inst.TargetPackage != "com.example.app" {
		t.Errorf("Instrumentation = %+v", inst)
	}
}

func TestRenderProducesNestedTags(t *testing.T) {
	d := buildManifest(t)
	out := d.Render(d.Root())

	if !strings.HasPrefix(out, "<manifest ") {
		t.Errorf("Render() does not start with <manifest , got %q", out[:20])
	}
	if !strings.Contains(out, "package='com.example.app'") {
		t.Errorf("Render() missing package attribute, got:\n%s", out)
	}
	if !strings.Contains(out, "<uses-sdk") {
		t.Errorf("Render() missing nested <uses-sdk, got:\n%s", out)
	}
	if !strings.HasSuffix(out, "</manifest>") {
		t.Errorf("Render() does not end with </manifest>, got %q", out[len(out)-20:])
	}
}

func TestParseRejectsBadFileTag(t *testing.T) {
	data := axmltestutil.Build(axmltestutil.ElementSpec{Name: "manifest"})
	data[0] = 0xFF
	_, err := Parse(bitstream.NewBytes(data), nil)
	if !errors.Is(err, ErrBadFileTag) {
		t.Errorf("Parse() err = %v, want ErrBadFileTag", err)
	}
}

func TestDecodeStringAtUTF8(t *testing.T) {
	// length byte duplicated: 0x03 0x03 "abc" 0x00
	raw := []byte{0x03, 0x03, 'a', 'b', 'c', 0x00}
	s, err := decodeStringAt(raw, 0)
	if err != nil {
		t.Fatalf("decodeStringAt() err: %v", err)
	}
	if s != "abc" {
		t.Errorf("decodeStringAt() = %q, want abc", s)
	}
}

func TestDecodeStringAtUTF16(t *testing.T) {
	// length field 5 (code units), distinct high/low bytes: 0x05 0x00
	raw := []byte{0x05, 0x00, 'h', 0, 'e', 0, 'l', 0, 'l', 0, 'o', 0}
	s, err := decodeStringAt(raw, 0)
	if err != nil {
		t.Fatalf("decodeStringAt() err: %v", err)
	}
	if s != "hello" {
		t.Errorf("decodeStringAt() = %q, want hello", s)
	}
}
