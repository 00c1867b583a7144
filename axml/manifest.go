// Copyright 2026 The apk-bitminer Authors.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package axml

// UsesPermission is one <uses-permission> declaration.
type UsesPermission struct {
	Name string
}

// UsesSDK captures an <uses-sdk> element's version bounds. A field whose
// attribute is absent is left empty.
type UsesSDK struct {
	MinSdkVersion    string
	TargetSdkVersion string
}

// Instrumentation captures an <instrumentation> element, the entry point
// test runners discover APK test packages through. FunctionalTest and
// HandleProfiling are true iff the attribute's literal value is "true";
// otherwise (including "resourceID 0x..." fallback values) they are false.
type Instrumentation struct {
	Name            string
	TargetPackage   string
	Label           string
	FunctionalTest  bool
	HandleProfiling bool
}

// ManifestInfo is the subset of an AndroidManifest.xml document the test
// resolver and CLI care about.
type ManifestInfo struct {
	Package          string
	Permissions      []UsesPermission
	SDK              UsesSDK
	Instrumentations []Instrumentation
}

// Manifest walks d looking for the standard <manifest>/<uses-sdk>/
// <uses-permission>/<instrumentation> element shapes and returns the
// information found. It does not fail on an unexpected tree shape; missing
// elements simply leave their corresponding fields zero-valued.
func (d *Document) Manifest() *ManifestInfo {
	info := &ManifestInfo{}

	root := d.Root()
	if root == nil {
		return info
	}
	if pkg, ok := root.Attr("package"); ok {
		info.Package = pkg
	}

	d.Walk(root, func(t *Tag) bool {
		switch t.Name {
		case "uses-sdk":
			if v, ok := t.Attr("minSdkVersion"); ok {
				info.SDK.MinSdkVersion = v
			}
			if v, ok := t.Attr("targetSdkVersion"); ok {
				info.SDK.TargetSdkVersion = v
			}
		case "uses-permission":
			if v, ok := t.Attr("name"); ok {
				info.Permissions = append(info.Permissions, UsesPermission{Name: v})
			}
		case "instrumentation":
			inst := Instrumentation{}
			if v, ok := t.Attr("name"); ok {
				inst.Name = v
			}
			if v, ok := t.Attr("targetPackage"); ok {
				inst.TargetPackage = v
			}
			if v, ok := t.Attr("label"); ok {
				inst.Label = v
			}
			if v, ok := t.Attr("functionalTest"); ok {
				inst.FunctionalTest = v == "true"
			}
			if v, ok := t.Attr("handleProfiling"); ok {
				inst.HandleProfiling = v == "true"
			}
			info.Instrumentations = append(info.Instrumentations, inst)
		}
		return true
	})

	return info
}
