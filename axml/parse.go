// Copyright 2026 The apk-bitminer Authors.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

// Package axml decodes Android's binary XML manifest format: a chunked
// header (file tag, string pool, optional resource-ID table) followed by a
// flat stream of namespace/element events that this package reassembles
// into a Document tree.
package axml

import (
	"fmt"

	"github.com/jrusnakli/apk-bitminer/bitstream"
	"github.com/jrusnakli/apk-bitminer/internal/elog"
)

const (
	fileTag          = 0x00080003
	resourceChunkTag = 0x00080180
	nsStartTag       = 0x00100100
	nsEndOrDocEndTag = 0x00100101
	startTagTag      = 0x00100102
	endTagTag        = 0x00100103
)

// Options configures Parse. A nil Options behaves like a zero-value one.
type Options struct {
	Logger *elog.Helper
}

func (o *Options) logger() *elog.Helper {
	if o != nil && o.Logger != nil {
		return o.Logger
	}
	return elog.NewDefault()
}

// Parse decodes a complete AXML document from r.
func Parse(r *bitstream.Reader, opts *Options) (*Document, error) {
	logger := opts.logger()

	fileTagWord, err := r.ReadU32LE()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	if fileTagWord != fileTag {
		return nil, ErrBadFileTag
	}
	if _, err := r.ReadU32LE(); err != nil { // file size, unchecked
		return nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}

	strs, _, err := readStringPool(r)
	if err != nil {
		return nil, err
	}

	if err := skipResourceChunk(r); err != nil {
		return nil, err
	}

	d := &Document{Strings: strs, root: -1}
	if err := decodeElementStream(r, d); err != nil {
		return nil, err
	}

	logger.Debugf("axml: decoded document with %d strings, %d tags", len(strs), len(d.tags))
	return d, nil
}

// skipResourceChunk consumes the optional resource-IDs chunk, if the next
// tag word in the stream is one. It leaves the cursor untouched when the
// next chunk is not a resource chunk, since that case means the element
// stream begins immediately.
func skipResourceChunk(r *bitstream.Reader) error {
	save := r.Tell()
	tag, err := r.ReadU32LE()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	if tag != resourceChunkTag {
		r.Seek(save)
		return nil
	}
	size, err := r.ReadU32LE()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	if size < 8 || size%4 != 0 {
		return ErrUnalignedResourceChunk
	}
	if _, err := r.ReadBytes(size - 8); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	return nil
}

// decodeElementStream reads namespace and element events until the
// document's root element has been closed, building d's tag arena via a
// path stack of arena indices: START_TAG pushes, END_TAG pops, and a pop
// that empties the stack closes the root. NS_START/NS_END bodies carry no
// tree-shape information here and are simply skipped.
func decodeElementStream(r *bitstream.Reader, d *Document) error {
	var stack []int

	for {
		tag, err := r.ReadU32LE()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedInput, err)
		}
		size, err := r.ReadU32LE()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedInput, err)
		}
		if _, err := r.ReadU32LE(); err != nil { // line number
			return fmt.Errorf("%w: %v", ErrMalformedInput, err)
		}
		if _, err := r.ReadU32LE(); err != nil { // comment
			return fmt.Errorf("%w: %v", ErrMalformedInput, err)
		}

		switch tag {
		case nsStartTag:
			if _, err := r.ReadBytes(8); err != nil { // prefix, uri
				return fmt.Errorf("%w: %v", ErrMalformedInput, err)
			}

		case nsEndOrDocEndTag:
			if len(stack) == 0 {
				return nil
			}
			if _, err := r.ReadBytes(8); err != nil { // prefix, uri
				return fmt.Errorf("%w: %v", ErrMalformedInput, err)
			}

		case startTagTag:
			nsIdx, err := r.ReadI32LE()
			if err != nil {
				return fmt.Errorf("%w: %v", ErrMalformedInput, err)
			}
			nameIdx, err := r.ReadI32LE()
			if err != nil {
				return fmt.Errorf("%w: %v", ErrMalformedInput, err)
			}
			attrCount, err := r.ReadU32LE()
			if err != nil {
				return fmt.Errorf("%w: %v", ErrMalformedInput, err)
			}

			attrs := make([]Attr, 0, attrCount)
			for i := uint32(0); i < attrCount; i++ {
				a, err := readAttr(r, d)
				if err != nil {
					return err
				}
				attrs = append(attrs, a)
			}

			t := Tag{
				Name:      d.stringAt(nameIdx),
				Namespace: d.stringAt(nsIdx),
				Attrs:     attrs,
				Parent:    -1,
			}
			if len(stack) > 0 {
				t.Parent = stack[len(stack)-1]
			}
			idx := len(d.tags)
			d.tags = append(d.tags, t)
			if t.Parent >= 0 {
				d.tags[t.Parent].Children = append(d.tags[t.Parent].Children, idx)
			} else {
				d.root = idx
			}
			stack = append(stack, idx)

		case endTagTag:
			if _, err := r.ReadBytes(8); err != nil { // namespace, name
				return fmt.Errorf("%w: %v", ErrMalformedInput, err)
			}
			if len(stack) == 0 {
				return ErrUnexpectedTag
			}
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				return nil
			}

		default:
			return ErrUnexpectedTag
		}

		_ = size
	}
}

// readAttr decodes one 5-word attribute record: namespace index, name
// index, raw string value index (or -1), a reserved word, and a resource
// ID. When the raw value index is -1 and the resource ID is non-negative,
// the attribute's effective value is the literal string "resourceID 0x<hex>".
func readAttr(r *bitstream.Reader, d *Document) (Attr, error) {
	nsIdx, err := r.ReadI32LE()
	if err != nil {
		return Attr{}, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	nameIdx, err := r.ReadI32LE()
	if err != nil {
		return Attr{}, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	rawIdx, err := r.ReadI32LE()
	if err != nil {
		return Attr{}, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	if _, err := r.ReadU32LE(); err != nil { // reserved
		return Attr{}, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}
	resourceID, err := r.ReadU32LE()
	if err != nil {
		return Attr{}, fmt.Errorf("%w: %v", ErrMalformedInput, err)
	}

	a := Attr{Namespace: d.stringAt(nsIdx), Name: d.stringAt(nameIdx)}

	if rawIdx >= 0 {
		a.Value = d.stringAt(rawIdx)
	} else {
		a.Value = fmt.Sprintf("resourceID 0x%x", resourceID)
	}
	return a, nil
}

// stringAt resolves a possibly-negative string pool index (-1 meaning "no
// string") to its text, returning "" when absent or out of range.
func (d *Document) stringAt(idx int32) string {
	if idx < 0 || int(idx) >= len(d.Strings) {
		return ""
	}
	return d.Strings[idx]
}
