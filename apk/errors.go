// Copyright 2026 The apk-bitminer Authors.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package apk

import "errors"

var (
	// ErrNotAZip is returned when the opened file is not a valid ZIP archive.
	ErrNotAZip = errors.New("apk: not a zip archive")

	// ErrNoManifest is returned when the archive has no AndroidManifest.xml
	// entry.
	ErrNoManifest = errors.New("apk: archive has no AndroidManifest.xml")

	// ErrNoSignature is returned by parseSignerInfo when a META-INF/*.RSA or
	// META-INF/*.DSA block parses as PKCS#7 but lists no signers.
	ErrNoSignature = errors.New("apk: archive carries no PKCS#7 signature block")
)
