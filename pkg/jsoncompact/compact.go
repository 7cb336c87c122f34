// Package jsoncompact shortens JSON bodies by trimming long arrays and strings,
// keeping their shape readable in a small amount of text.
package jsoncompact

import (
	"bytes"
	"encoding/json"
	"fmt"
	"unicode/utf8"
)

// Options controls JSON compaction behavior.
type Options struct {
	MaxArrayItems  int // keep the first N items of an array (0 = no limit)
	MaxStringRunes int // keep the first N runes of a string (0 = no limit)
}

// Defaults
const (
	DefaultMaxArrayItems  = 3
	DefaultMaxStringRunes = 200
)

// DefaultOptions returns the default compaction settings.
func DefaultOptions() Options {
	return Options{
		MaxArrayItems:  DefaultMaxArrayItems,
		MaxStringRunes: DefaultMaxStringRunes,
	}
}

// Compact trims the JSON document in text and returns it re-encoded, along
// with whether anything was cut. Numbers keep their original text. A trimmed
// array ends with a marker string "… (N more items)".
func Compact(text string, opts Options) (string, bool, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(text)))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return "", false, fmt.Errorf("invalid JSON: %w", err)
	}

	c := compactor{opts: opts}
	out := c.value(v)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return "", false, err
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), c.trimmed, nil
}

type compactor struct {
	opts    Options
	trimmed bool
}

func (c *compactor) value(v any) any {
	switch val := v.(type) {
	case []any:
		return c.array(val)
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = c.value(item)
		}
		return out
	case string:
		return c.string(val)
	default:
		return v
	}
}

func (c *compactor) array(arr []any) []any {
	n := len(arr)
	if c.opts.MaxArrayItems > 0 && n > c.opts.MaxArrayItems {
		n = c.opts.MaxArrayItems
	}

	out := make([]any, 0, n+1)
	for _, item := range arr[:n] {
		out = append(out, c.value(item))
	}
	if n < len(arr) {
		c.trimmed = true
		out = append(out, fmt.Sprintf("… (%d more items)", len(arr)-n))
	}
	return out
}

func (c *compactor) string(s string) string {
	max := c.opts.MaxStringRunes
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}

	cut := 0
	for i := 0; i < max; i++ {
		_, size := utf8.DecodeRuneInString(s[cut:])
		cut += size
	}
	c.trimmed = true
	return fmt.Sprintf("%s… (%d more chars)", s[:cut], utf8.RuneCountInString(s[cut:]))
}
