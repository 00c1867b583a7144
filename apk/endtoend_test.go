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
	"github.com/jrusnakli/apk-bitminer/internal/goldentest"
)

func buildAPKFromScenario(t *testing.T, scenario *goldentest.Scenario) string {
	t.Helper()

	var rootAttrs, sdkAttrs []axmltestutil.AttrSpec
	for _, a := range scenario.ManifestAttrs {
		switch a.Name {
		case "minSdkVersion", "targetSdkVersion":
			sdkAttrs = append(sdkAttrs, axmltestutil.AttrSpec{Name: a.Name, Value: a.Value})
		default:
			rootAttrs = append(rootAttrs, axmltestutil.AttrSpec{Name: a.Name, Value: a.Value})
		}
	}
	var children []axmltestutil.ElementSpec
	if len(sdkAttrs) > 0 {
		children = append(children, axmltestutil.ElementSpec{Name: "uses-sdk", Attrs: sdkAttrs})
	}
	manifest := axmltestutil.Build(axmltestutil.ElementSpec{
		Name:     "manifest",
		Attrs:    rootAttrs,
		Children: children,
	})

	classes := make([]dextestutil.ClassSpec, 0, len(scenario.Classes))
	for _, c := range scenario.Classes {
		methods := make([]dextestutil.MethodSpec, 0, len(c.Methods))
		for _, m := range c.Methods {
			methods = append(methods, dextestutil.MethodSpec{
				Name:        m.Name,
				Virtual:     m.Virtual,
				Annotations: m.Annotations,
			})
		}
		classes = append(classes, dextestutil.ClassSpec{
			Descriptor: c.Descriptor,
			Super:      c.Super,
			Methods:    methods,
		})
	}
	classesDex := dextestutil.Build(classes)

	dir := t.TempDir()
	apkPath := filepath.Join(dir, "golden.apk")
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

func TestEndToEndScenario(t *testing.T) {
	raw, err := ioutil.ReadFile(filepath.Join("testdata", "basic_scenario.txtar"))
	if err != nil {
		t.Fatalf("ReadFile() err: %v", err)
	}
	scenario, err := goldentest.Parse(raw)
	if err != nil {
		t.Fatalf("goldentest.Parse() err: %v", err)
	}

	apkPath := buildAPKFromScenario(t, scenario)

	f, err := Open(apkPath, nil)
	if err != nil {
		t.Fatalf("Open() err: %v", err)
	}
	defer f.Close()

	info := f.Manifest.Manifest()
	if info.Package != "com.example.golden" {
		t.Errorf("Package = %q, want com.example.golden", info.Package)
	}
	if info.SDK.MinSdkVersion != "24" {
		t.Errorf("MinSdkVersion = %q, want 24", info.SDK.MinSdkVersion)
	}

	got, err := f.ResolveTests(nil)
	if err != nil {
		t.Fatalf("ResolveTests() err: %v", err)
	}
	sort.Strings(got)

	want := []string{
		"com.example.golden.LegacyTest#testOne",
		"com.example.golden.ModernTest#testTwo",
	}
	if len(got) != len(want) {
		t.Fatalf("ResolveTests() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ResolveTests()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
