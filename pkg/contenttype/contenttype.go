// Package contenttype classifies the mime types recorded in captures.
package contenttype

import (
	"mime"
	"strings"
	"unicode/utf8"
)

// Category represents a broad content-type classification.
type Category string

const (
	JSON       Category = "json"
	XML        Category = "xml"
	HTML       Category = "html"
	CSS        Category = "css"
	JavaScript Category = "javascript"
	YAML       Category = "yaml"
	Form       Category = "form"
	Text       Category = "text"
	Binary     Category = "binary"
	Unknown    Category = "unknown"
)

// MediaType returns the lowercased media type of a content-type value with
// its parameters dropped. Malformed values are cut at the first ';'.
func MediaType(contentType string) string {
	if mt, _, err := mime.ParseMediaType(contentType); err == nil {
		return mt
	}
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}

// Classify returns the broad content category for a content-type value.
// An empty value is Unknown.
func Classify(contentType string) Category {
	mt := MediaType(contentType)
	switch {
	case mt == "":
		return Unknown
	case strings.Contains(mt, "json"):
		return JSON
	case mt == "text/html" || mt == "application/xhtml+xml":
		return HTML
	case strings.Contains(mt, "xml"):
		return XML
	case mt == "text/css":
		return CSS
	case strings.Contains(mt, "javascript") || strings.Contains(mt, "ecmascript"):
		return JavaScript
	case strings.Contains(mt, "yaml"):
		return YAML
	case mt == "application/x-www-form-urlencoded":
		return Form
	case strings.HasPrefix(mt, "text/"):
		return Text
	case strings.HasPrefix(mt, "image/"),
		strings.HasPrefix(mt, "audio/"),
		strings.HasPrefix(mt, "video/"),
		strings.HasPrefix(mt, "font/"),
		strings.Contains(mt, "octet-stream"),
		strings.Contains(mt, "pdf"),
		strings.Contains(mt, "zip"),
		strings.Contains(mt, "protobuf"):
		return Binary
	}
	return Unknown
}

// IsBinary reports whether a body should not be shown as text. Unknown
// content types fall back to UTF-8 validation of text.
func IsBinary(contentType, text string) bool {
	switch Classify(contentType) {
	case Binary:
		return true
	case Unknown:
		return !utf8.ValidString(text)
	}
	return false
}
