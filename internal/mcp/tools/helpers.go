// Package tools contains MCP tool implementations for HAR captures.
package tools

import (
	"github.com/usestring/harlens/internal/index"
)

// Limits
const (
	DefaultFindLimit  = 50
	MaxFindLimit      = 500
	DefaultMaxResults = 1000
)

// EntrySummary is the one-line view of an entry returned by search tools.
type EntrySummary struct {
	Entry       int    `json:"entry"`
	Method      string `json:"method"`
	URL         string `json:"url"`
	Status      int    `json:"status"`
	MimeType    string `json:"mime_type,omitempty"`
	HasPostData bool   `json:"has_post_data,omitempty"`
	Line        string `json:"line"`
}

// BuildEntrySummary creates an EntrySummary from indexed metadata.
func BuildEntrySummary(m *index.Meta) EntrySummary {
	return EntrySummary{
		Entry:       m.Entry,
		Method:      m.Method,
		URL:         m.URL,
		Status:      m.Status,
		MimeType:    m.MimeType,
		HasPostData: m.HasPostData,
		Line:        m.Line(),
	}
}

// clampLimit applies the default when n is unset and caps it at ceiling.
func clampLimit(n, def, ceiling int) int {
	if n <= 0 {
		return def
	}
	if n > ceiling {
		return ceiling
	}
	return n
}
