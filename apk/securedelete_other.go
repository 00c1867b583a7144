// Copyright 2026 The apk-bitminer Authors.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

//go:build !linux && !darwin

package apk

import "os"

// secureRemoveAll falls back to a plain recursive remove on platforms
// without the unix fsync-before-unlink primitive.
func secureRemoveAll(dir string) error {
	return os.RemoveAll(dir)
}
