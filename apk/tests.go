// Copyright 2026 The apk-bitminer Authors.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package apk

import "github.com/jrusnakli/apk-bitminer/testdiscovery"

// ResolveTests runs both the JUnit3 and JUnit4 resolvers across every dex
// file the archive carries, applying packageFilters to both passes (each in
// its own substring direction; see testdiscovery.ResolveJUnit3/ResolveJUnit4).
func (f *File) ResolveTests(packageFilters []string) ([]string, error) {
	var all []string
	for _, df := range f.DexFiles {
		j3, err := testdiscovery.ResolveJUnit3(df, packageFilters, &testdiscovery.Options{Logger: f.logger})
		if err != nil {
			return nil, err
		}
		all = append(all, j3...)

		j4, err := testdiscovery.ResolveJUnit4(df, packageFilters, &testdiscovery.Options{Logger: f.logger})
		if err != nil {
			return nil, err
		}
		all = append(all, j4...)
	}
	return all, nil
}
