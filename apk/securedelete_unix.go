// Copyright 2026 The apk-bitminer Authors.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

//go:build linux || darwin

package apk

import (
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// secureRemoveAll fsyncs every regular file under dir before unlinking it,
// so extracted dex/manifest scratch files are flushed to stable storage
// rather than left recoverable in a page-cache-only state, then removes
// dir itself.
func secureRemoveAll(dir string) error {
	err := filepath.Walk(dir, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if info.IsDir() {
			return nil
		}
		f, err := os.OpenFile(path, os.O_WRONLY, 0)
		if err != nil {
			return err
		}
		err = unix.Fsync(int(f.Fd()))
		f.Close()
		return err
	})
	if err != nil {
		return err
	}
	return os.RemoveAll(dir)
}
