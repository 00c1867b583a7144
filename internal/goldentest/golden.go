// Copyright 2026 The apk-bitminer Authors.
// Use of this source code is governed by an Apache v2 license
// that can be found in the LICENSE file.

// Package goldentest loads end-to-end test scenarios from golang.org/x/tools/txtar
// archives: a single text file holding a manifest attribute section and a
// small class-declaration DSL, so apk-level integration tests read their
// fixture data from a checked-in file instead of a Go literal.
package goldentest

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/tools/txtar"
)

// ErrMissingSection is returned when a required txtar file section is absent.
var ErrMissingSection = errors.New("goldentest: missing required section")

// Attr is one "name = value" manifest attribute line.
type Attr struct {
	Name  string
	Value string
}

// Method is one declared test method.
type Method struct {
	Name        string
	Virtual     bool
	Annotations []string
}

// Class is one declared class and its methods.
type Class struct {
	Descriptor string
	Super      string
	Methods    []Method
}

// Scenario is a fully parsed end-to-end fixture.
type Scenario struct {
	ManifestAttrs []Attr
	Classes       []Class
}

// Parse reads a txtar archive with a "manifest.attrs" section (one
// "name = value" pair per line) and a "classes.spec" section (the DSL
// documented on parseClassesSpec).
func Parse(data []byte) (*Scenario, error) {
	ar := txtar.Parse(data)

	var manifestRaw, classesRaw []byte
	for _, f := range ar.Files {
		switch f.Name {
		case "manifest.attrs":
			manifestRaw = f.Data
		case "classes.spec":
			classesRaw = f.Data
		}
	}
	if classesRaw == nil {
		return nil, fmt.Errorf("%w: classes.spec", ErrMissingSection)
	}

	s := &Scenario{}

	for _, line := range strings.Split(string(manifestRaw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		s.ManifestAttrs = append(s.ManifestAttrs, Attr{
			Name:  strings.TrimSpace(parts[0]),
			Value: strings.TrimSpace(parts[1]),
		})
	}

	classes, err := parseClassesSpec(string(classesRaw))
	if err != nil {
		return nil, err
	}
	s.Classes = classes

	return s, nil
}

// parseClassesSpec parses lines of the form:
//
//	class <descriptor> super <descriptor-or-->
//	  method <name> <virtual|direct> [annotation ...]
//
// Method lines must be indented with at least one leading space or tab and
// belong to the most recently declared class.
func parseClassesSpec(text string) ([]Class, error) {
	var classes []Class

	for _, raw := range strings.Split(text, "\n") {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		if raw[0] == ' ' || raw[0] == '\t' {
			if len(classes) == 0 {
				return nil, fmt.Errorf("goldentest: method line before any class: %q", raw)
			}
			fields := strings.Fields(raw)
			if len(fields) < 3 || fields[0] != "method" {
				return nil, fmt.Errorf("goldentest: malformed method line: %q", raw)
			}
			m := Method{Name: fields[1]}
			virtual, err := strconv.ParseBool(map[string]string{"virtual": "true", "direct": "false"}[fields[2]])
			if err != nil {
				return nil, fmt.Errorf("goldentest: method %q: invalid kind %q", fields[1], fields[2])
			}
			m.Virtual = virtual
			m.Annotations = fields[3:]
			last := &classes[len(classes)-1]
			last.Methods = append(last.Methods, m)
			continue
		}

		fields := strings.Fields(raw)
		if len(fields) < 2 || fields[0] != "class" {
			return nil, fmt.Errorf("goldentest: malformed class line: %q", raw)
		}
		c := Class{Descriptor: fields[1]}
		if len(fields) >= 4 && fields[2] == "super" && fields[3] != "-" {
			c.Super = fields[3]
		}
		classes = append(classes, c)
	}

	return classes, nil
}
