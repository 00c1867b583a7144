// Copyright 2026 The apk-bitminer Authors.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

// Package apk is the front end tying the dex, axml and testdiscovery
// packages together over a real .apk archive: it extracts the manifest and
// every entry whose name ends in .dex to a scratch directory, decodes them, and
// exposes the discovered test methods and (best-effort) signer identity.
package apk

import (
	"archive/zip"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jrusnakli/apk-bitminer/axml"
	"github.com/jrusnakli/apk-bitminer/bitstream"
	"github.com/jrusnakli/apk-bitminer/dex"
	"github.com/jrusnakli/apk-bitminer/internal/elog"
)

const manifestEntryName = "AndroidManifest.xml"

// Options configures Open. A nil Options behaves like a zero-value one.
type Options struct {
	// TempDir is the parent directory the scratch directory is created
	// under. Defaults to os.TempDir() when empty.
	TempDir string

	// SecureDelete fsyncs every extracted scratch file before removing it
	// on Close, rather than a plain recursive remove.
	SecureDelete bool

	// Logger receives diagnostics. Defaults to a Warn-level stderr logger.
	Logger *elog.Helper
}

func (o *Options) logger() *elog.Helper {
	if o != nil && o.Logger != nil {
		return o.Logger
	}
	return elog.NewDefault()
}

func (o *Options) tempDir() string {
	if o != nil && o.TempDir != "" {
		return o.TempDir
	}
	return ""
}

// File is a decoded APK: its manifest, every .dex entry it carries, and
// (if present) its JAR-signing signer identity.
type File struct {
	Manifest *axml.Document
	DexFiles []*dex.File
	DexNames []string
	Signer   *SignerInfo

	scratchDir   string
	readers      []*bitstream.Reader
	secureDelete bool
	logger       *elog.Helper
}

// Open extracts path's AndroidManifest.xml and every entry whose name ends
// in .dex into a fresh scratch directory and decodes them. If Open itself
// fails, the readers it opened are closed and the scratch directory is
// removed; once it succeeds, the caller must call Close to remove it.
func Open(path string, opts *Options) (f *File, err error) {
	logger := opts.logger()

	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotAZip, err)
	}
	defer zr.Close()

	scratchDir, err := ioutil.TempDir(opts.tempDir(), "apk-bitminer-")
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			os.RemoveAll(scratchDir)
		}
	}()

	secureDelete := false
	if opts != nil {
		secureDelete = opts.SecureDelete
	}
	out := &File{scratchDir: scratchDir, logger: logger, secureDelete: secureDelete}
	defer func() {
		if err != nil {
			for _, r := range out.readers {
				r.Close()
			}
		}
	}()

	var manifestPath string
	var dexPaths []string

	for _, zf := range zr.File {
		switch {
		case zf.Name == manifestEntryName:
			manifestPath, err = extractEntry(zf, scratchDir)
			if err != nil {
				return nil, err
			}
		case isDexEntry(zf.Name):
			var p string
			p, err = extractEntry(zf, scratchDir)
			if err != nil {
				return nil, err
			}
			dexPaths = append(dexPaths, p)
			out.DexNames = append(out.DexNames, zf.Name)
		case isSignatureEntry(zf.Name):
			var raw []byte
			raw, err = readEntry(zf)
			if err != nil {
				return nil, err
			}
			if signer, sErr := parseSignerInfo(raw); sErr == nil {
				out.Signer = signer
			} else {
				logger.Debugf("apk: signature block %s did not parse: %v", zf.Name, sErr)
			}
		}
	}

	if manifestPath == "" {
		err = ErrNoManifest
		return nil, err
	}

	var manifestReader *bitstream.Reader
	manifestReader, err = bitstream.OpenFile(manifestPath)
	if err != nil {
		return nil, err
	}
	out.readers = append(out.readers, manifestReader)

	out.Manifest, err = axml.Parse(manifestReader, nil)
	if err != nil {
		return nil, err
	}

	sort.Strings(dexPaths)
	for _, p := range dexPaths {
		var r *bitstream.Reader
		r, err = bitstream.OpenFile(p)
		if err != nil {
			return nil, err
		}
		out.readers = append(out.readers, r)

		var df *dex.File
		df, err = dex.Parse(r, &dex.Options{Logger: logger})
		if err != nil {
			return nil, err
		}
		out.DexFiles = append(out.DexFiles, df)
	}

	logger.Infof("apk: opened %s: %d dex file(s), manifest=%v, signed=%v",
		path, len(out.DexFiles), out.Manifest != nil, out.Signer != nil)

	return out, nil
}

// Close releases the memory-mapped scratch files and removes the scratch
// directory, regardless of how many of its steps succeed.
func (f *File) Close() error {
	var firstErr error
	for _, r := range f.readers {
		if err := r.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	remove := os.RemoveAll
	if f.secureDelete {
		remove = secureRemoveAll
	}
	if err := remove(f.scratchDir); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

func isDexEntry(name string) bool {
	return strings.HasSuffix(name, ".dex")
}

func isSignatureEntry(name string) bool {
	if filepath.Dir(name) != "META-INF" {
		return false
	}
	upper := strings.ToUpper(name)
	return strings.HasSuffix(upper, ".RSA") || strings.HasSuffix(upper, ".DSA")
}

func readEntry(zf *zip.File) ([]byte, error) {
	rc, err := zf.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return ioutil.ReadAll(rc)
}

// extractEntry copies a zip entry to scratchDir, preserving only its base
// name (entry paths inside an untrusted archive are never trusted as
// filesystem paths).
func extractEntry(zf *zip.File, scratchDir string) (path string, err error) {
	rc, err := zf.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	name := strings.ReplaceAll(filepath.Base(zf.Name), string(filepath.Separator), "_")
	dst := filepath.Join(scratchDir, name)

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, rc); err != nil {
		return "", err
	}
	return dst, nil
}
