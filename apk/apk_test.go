// Copyright 2026 The apk-bitminer Authors.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package apk

import (
	"archive/zip"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/jrusnakli/apk-bitminer/internal/axmltestutil"
	"github.com/jrusnakli/apk-bitminer/internal/dextestutil"
)

func buildSampleAPK(t *testing.T) string {
	t.Helper()

	manifest := axmltestutil.Build(axmltestutil.ElementSpec{
		Name: "manifest",
		Attrs: []axmltestutil.AttrSpec{
			{Name: "package", Value: "com.example.app"},
		},
		Children: []axmltestutil.ElementSpec{
			{
				Name: "uses-sdk",
				Attrs: []axmltestutil.AttrSpec{
					{Name: "minSdkVersion", Value: "21"},
				},
			},
		},
	})

	classesDex := dextestutil.Build([]dextestutil.ClassSpec{
		{
			Descriptor: "Lcom/example/FooTest;",
			Super:      "Ljunit/framework/TestCase;",
			Methods: []dextestutil.MethodSpec{
				{Name: "testAlpha", Virtual: true},
			},
		},
	})

	dir := t.TempDir()
	apkPath := filepath.Join(dir, "sample.apk")
	out, err := os.Create(apkPath)
	if err != nil {
		t.Fatalf("os.Create() err: %v", err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	writeEntry(t, zw, "AndroidManifest.xml", manifest)
	writeEntry(t, zw, "classes.dex", classesDex)
	if err := zw.Close(); err != nil {
		t.Fatalf("zip.Writer.Close() err: %v", err)
	}

	return apkPath
}

func writeEntry(t *testing.T, zw *zip.Writer, name string, content []byte) {
	t.Helper()
	w, err := zw.Create(name)
	if err != nil {
		t.Fatalf("zip.Writer.Create(%q) err: %v", name, err)
	}
	if _, err := w.Write(content); err != nil {
		t.Fatalf("write entry %q err: %v", name, err)
	}
}

func TestOpenExtractsManifestAndDex(t *testing.T) {
	path := buildSampleAPK(t)

	f, err := Open(path, nil)
	if err != nil {
		t.Fatalf("Open() err: %v", err)
	}
	defer f.Close()

	if f.Manifest == nil {
		t.Fatal("Manifest is nil")
	}
	info := f.Manifest.Manifest()
	if info.Package != "com.example.app" {
		t.Errorf("Package = %q, want com.example.app", info.Package)
	}

	if len(f.DexFiles) != 1 {
		t.Fatalf("len(DexFiles) = %d, want 1", len(f.DexFiles))
	}
}

func TestResolveTestsAcrossDex(t *testing.T) {
	path := buildSampleAPK(t)

	f, err := Open(path, nil)
	if err != nil {
		t.Fatalf("Open() err: %v", err)
	}
	defer f.Close()

	got, err := f.ResolveTests(nil)
	if err != nil {
		t.Fatalf("ResolveTests() err: %v", err)
	}
	sort.Strings(got)

	want := []string{"com.example.FooTest#testAlpha"}
	if len(got) != len(want) || got[0] != want[0] {
		t.Errorf("ResolveTests() = %v, want %v", got, want)
	}
}

func TestCloseRemovesScratchDir(t *testing.T) {
	path := buildSampleAPK(t)

	f, err := Open(path, nil)
	if err != nil {
		t.Fatalf("Open() err: %v", err)
	}
	scratchDir := f.scratchDir

	if err := f.Close(); err != nil {
		t.Fatalf("Close() err: %v", err)
	}
	if _, err := ioutil.ReadDir(scratchDir); !os.IsNotExist(err) {
		t.Errorf("scratch dir %s still exists after Close()", scratchDir)
	}
}

func TestOpenRejectsNonZip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "not-an-apk.apk")
	if err := ioutil.WriteFile(path, []byte("not a zip"), 0o600); err != nil {
		t.Fatalf("WriteFile() err: %v", err)
	}

	_, err := Open(path, nil)
	if err == nil {
		t.Fatal("Open() err = nil, want non-nil")
	}
}
