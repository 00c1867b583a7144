// Copyright 2026 The apk-bitminer Authors.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

package axml

import (
	"strings"
)

// Render produces the dump tool's deliberately non-conformant XML-ish text
// rendering of t and its subtree: "<NAME  ATTR='VAL' ...>\n  CHILDREN\n</NAME>".
// The "\n  " prefix in front of the children is flat, not cumulative with
// nesting depth: each tag's own rendering joins its children with "\n  "
// regardless of how deep t itself sits in the tree. It is meant for human
// inspection by axmldump, not for re-parsing.
func (d *Document) Render(t *Tag) string {
	return renderTag(d, t)
}

func renderAttr(a Attr) string {
	return a.Name + "='" + a.Value + "'"
}

func renderTag(d *Document, t *Tag) string {
	if t == nil {
		return ""
	}

	attrs := make([]string, len(t.Attrs))
	for i, a := range t.Attrs {
		attrs[i] = renderAttr(a)
	}
	content := strings.Join(attrs, " ")

	children := make([]string, len(t.Children))
	for i, ci := range t.Children {
		children[i] = renderTag(d, d.Tag(ci))
	}
	childContent := strings.Join(children, "\n  ")

	return "<" + t.Name + "  " + content + ">\n  " + childContent + "\n</" + t.Name + ">"
}
