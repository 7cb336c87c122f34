package tools

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/harlens/internal/index"
)

// FindEntriesInput is the input for har_find_entries.
type FindEntriesInput struct {
	Path        string   `json:"path" jsonschema:"Path to the HAR file"`
	Methods     []string `json:"methods,omitempty" jsonschema:"HTTP methods, any of which may match"`
	Hosts       []string `json:"hosts,omitempty" jsonschema:"Hosts, exact or *.example.com for a domain and its subdomains"`
	Statuses    []string `json:"statuses,omitempty" jsonschema:"Status codes (404) or classes (4xx)"`
	MimeTypes   []string `json:"mime_types,omitempty" jsonschema:"Response mime type prefixes, e.g. application/json"`
	HasPostData bool     `json:"has_post_data,omitempty" jsonschema:"Only requests that carry a body"`
	Text        string   `json:"text,omitempty" jsonschema:"Free text matched against URL tokens (all must match)"`
	Limit       int      `json:"limit,omitempty" jsonschema:"Max entries to return (default: 50, max: 500)"`
}

// FindEntriesOutput is the output of har_find_entries.
type FindEntriesOutput struct {
	Total     int            `json:"total"`
	Entries   []EntrySummary `json:"entries,omitzero"`
	Truncated bool           `json:"truncated,omitempty"`
}

// ToolFindEntries filters the entries of a capture by indexed attributes.
func ToolFindEntries(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input FindEntriesInput) (*sdkmcp.CallToolResult, FindEntriesOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input FindEntriesInput) (*sdkmcp.CallToolResult, FindEntriesOutput, error) {
		snap, err := d.Load(input.Path)
		if err != nil {
			return nil, FindEntriesOutput{}, err
		}

		idx, err := snap.Index()
		if err != nil {
			return nil, FindEntriesOutput{}, WrapError(err)
		}

		matches, err := idx.Find(index.Filter{
			Methods:     input.Methods,
			Hosts:       input.Hosts,
			Statuses:    input.Statuses,
			MimeTypes:   input.MimeTypes,
			HasPostData: input.HasPostData,
			Text:        input.Text,
		})
		if err != nil {
			return nil, FindEntriesOutput{}, ErrInvalidInput(err.Error())
		}

		limit := clampLimit(input.Limit, DefaultFindLimit, MaxFindLimit)
		output := FindEntriesOutput{
			Total:   len(matches),
			Entries: make([]EntrySummary, 0, min(limit, len(matches))),
		}
		for _, i := range matches {
			if len(output.Entries) >= limit {
				output.Truncated = true
				break
			}
			output.Entries = append(output.Entries, BuildEntrySummary(idx.Meta(i)))
		}
		return nil, output, nil
	}
}
