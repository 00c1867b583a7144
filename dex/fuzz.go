// Copyright 2026 The apk-bitminer Authors.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package dex

import "github.com/jrusnakli/apk-bitminer/bitstream"

// FuzzParse is a go-fuzz harness: returns 1 on a successful parse, 0
// otherwise. It never panics on malformed input; any decode failure is
// reported as a plain 0.
func FuzzParse(data []byte) int {
	r := bitstream.NewBytes(data)
	if _, err := Parse(r, nil); err != nil {
		return 0
	}
	return 1
}
