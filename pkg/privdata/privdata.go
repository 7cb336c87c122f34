// Package privdata expands device private data nested inside JSON bodies.
//
// Some producers store a JSON document inside a string field of another JSON
// document, percent-encoded. Expand decodes that nesting in place so the
// inner document shows up as structured JSON.
package privdata

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"unicode/utf8"
)

// Path is a sequence of object keys leading to a private data field.
type Path []string

func (p Path) String() string {
	return strings.Join(p, ".")
}

// DefaultPaths are the locations searched for private data, in order.
var DefaultPaths = []Path{
	{"AddDevice", "DevicePrivateData"},
	{"Resource", "Device", "DevicePrivateData"},
}

// Expansion stages reported by ExpansionError.
const (
	StageJSON          = "json"
	StagePercentDecode = "percent-decode"
	StageUTF8          = "utf-8"
	StageNestedJSON    = "nested-json"
)

// ExpansionError reports a body whose private data could not be expanded.
type ExpansionError struct {
	Path  string // dotted path of the field, empty for StageJSON
	Stage string
	Err   error
}

func (e *ExpansionError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("expand private data: %s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("expand private data at %s: %s: %v", e.Path, e.Stage, e.Err)
}

func (e *ExpansionError) Unwrap() error {
	return e.Err
}

// Expander finds and decodes private data at a fixed list of paths.
type Expander struct {
	paths []Path
}

// New returns an Expander searching paths in order. With no paths it uses
// DefaultPaths.
func New(paths ...Path) *Expander {
	if len(paths) == 0 {
		paths = DefaultPaths
	}
	return &Expander{paths: paths}
}

// Expand parses text as JSON and replaces the first non-null private data
// field with the JSON document it encodes. Later paths are not consulted once
// one matches. A body with no private data is returned parsed and otherwise
// unchanged.
func (x *Expander) Expand(text string) (any, error) {
	doc, err := decodeJSON(text)
	if err != nil {
		return nil, &ExpansionError{Stage: StageJSON, Err: err}
	}

	for _, p := range x.paths {
		parent, key, val, ok := lookup(doc, p)
		if !ok || val == nil {
			continue
		}

		s, isString := val.(string)
		if !isString {
			// Already structured.
			return doc, nil
		}

		inner, err := decodePrivate(s)
		if err != nil {
			err.Path = p.String()
			return nil, err
		}
		parent[key] = inner
		return doc, nil
	}

	return doc, nil
}

// ExpandText runs Expand and renders the result as indented JSON.
func (x *Expander) ExpandText(text string) (string, error) {
	doc, err := x.Expand(text)
	if err != nil {
		return "", err
	}
	return Format(doc)
}

// Expand runs the default expander.
func Expand(text string) (any, error) {
	return New().Expand(text)
}

// ExpandText runs the default expander and renders the result.
func ExpandText(text string) (string, error) {
	return New().ExpandText(text)
}

// lookup walks p through nested objects. It returns the object holding the
// last key so the caller can replace the value. A step through a non-object
// counts as absent.
func lookup(doc any, p Path) (map[string]any, string, any, bool) {
	if len(p) == 0 {
		return nil, "", nil, false
	}

	cur := doc
	for _, key := range p[:len(p)-1] {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil, "", nil, false
		}
		cur = obj[key]
	}

	obj, ok := cur.(map[string]any)
	if !ok {
		return nil, "", nil, false
	}
	last := p[len(p)-1]
	val, ok := obj[last]
	return obj, last, val, ok
}

func decodePrivate(s string) (any, *ExpansionError) {
	raw, err := url.PathUnescape(s)
	if err != nil {
		return nil, &ExpansionError{Stage: StagePercentDecode, Err: err}
	}
	if !utf8.ValidString(raw) {
		return nil, &ExpansionError{Stage: StageUTF8, Err: errors.New("decoded bytes are not valid UTF-8")}
	}
	inner, err := decodeJSON(raw)
	if err != nil {
		return nil, &ExpansionError{Stage: StageNestedJSON, Err: err}
	}
	return inner, nil
}

// decodeJSON decodes a single JSON value, keeping numbers as json.Number so
// that re-rendering does not alter them.
func decodeJSON(text string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("invalid character after top-level value")
	}
	return v, nil
}

// Marshal renders v as compact JSON without HTML escaping.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
