// Copyright 2026 The apk-bitminer Authors.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

// Package htmlassets hand-authors the small generated-code surface that
// go-bindata normally produces (Asset/AssetDir/AssetInfo), so axmldump's
// --html flag can back an elazarl/go-bindata-assetfs.AssetFS without a
// build step. The asset set here is one template and one stylesheet; a
// generator is not worth the extra build dependency at this size.
package htmlassets

import (
	"os"
	"time"
)

var files = map[string][]byte{
	"tree.html.tmpl": []byte(treeTemplate),
	"style.css":      []byte(styleCSS),
}

// Asset returns the named asset's bytes, matching go-bindata's generated
// Asset signature.
func Asset(name string) ([]byte, error) {
	b, ok := files[name]
	if !ok {
		return nil, os.ErrNotExist
	}
	return b, nil
}

// AssetDir lists the names under a directory asset. Every asset here is
// stored flat, so only the root ("") is a valid directory.
func AssetDir(name string) ([]string, error) {
	if name != "" {
		return nil, os.ErrNotExist
	}
	names := make([]string, 0, len(files))
	for n := range files {
		names = append(names, n)
	}
	return names, nil
}

// AssetInfo returns file metadata for the named asset.
func AssetInfo(name string) (os.FileInfo, error) {
	b, ok := files[name]
	if !ok {
		return nil, os.ErrNotExist
	}
	return assetInfo{name: name, size: int64(len(b))}, nil
}

type assetInfo struct {
	name string
	size int64
}

func (a assetInfo) Name() string       { return a.name }
func (a assetInfo) Size() int64        { return a.size }
func (a assetInfo) Mode() os.FileMode  { return 0o444 }
func (a assetInfo) ModTime() time.Time { return time.Time{} }
func (a assetInfo) IsDir() bool        { return false }
func (a assetInfo) Sys() interface{}   { return nil }

const treeTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<link rel="stylesheet" href="style.css">
</head>
<body>
<pre class="axml-tree">{{.Tree}}</pre>
</body>
</html>
`

const styleCSS = `body { font-family: monospace; background: #1e1e1e; color: #ddd; }
.axml-tree { white-space: pre; }
`
