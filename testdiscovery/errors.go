// Copyright 2026 The apk-bitminer Authors.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package testdiscovery

import "errors"

// ErrMalformedInput wraps decode failures surfaced by the underlying dex
// file while resolving test methods.
var ErrMalformedInput = errors.New("testdiscovery: malformed input")
