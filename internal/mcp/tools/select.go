package tools

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/harlens/internal/body"
	"github.com/usestring/harlens/internal/query"
	"github.com/usestring/harlens/pkg/textquery"
)

// SelectBodyInput is the input for har_select_body.
type SelectBodyInput struct {
	Path       string `json:"path" jsonschema:"Path to the HAR file"`
	Entry      int    `json:"entry" jsonschema:"0-based entry index"`
	Expression string `json:"expression" jsonschema:"CSS selector, XPath expression, regex or form key ('*' for every pair)"`
	Mode       string `json:"mode,omitempty" jsonschema:"css, xpath, regex or form (default: detected from the body mime type)"`
	Side       string `json:"side,omitempty" jsonschema:"Which body: request or response (default: response)"`
	MaxResults int    `json:"max_results,omitempty" jsonschema:"Max values to return (default: 1000)"`
}

// SelectBodyOutput is the output of har_select_body.
type SelectBodyOutput struct {
	Mode      string   `json:"mode"`
	Values    []string `json:"values,omitzero"`
	Truncated bool     `json:"truncated,omitempty"`
}

// ToolSelectBody extracts text from a non-JSON body.
func ToolSelectBody(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input SelectBodyInput) (*sdkmcp.CallToolResult, SelectBodyOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input SelectBodyInput) (*sdkmcp.CallToolResult, SelectBodyOutput, error) {
		mode, err := textquery.ParseMode(input.Mode)
		if err != nil {
			return nil, SelectBodyOutput{}, ErrInvalidInput(err.Error())
		}
		if mode != "" {
			if err := textquery.Validate(mode, input.Expression); err != nil {
				return nil, SelectBodyOutput{}, ErrInvalidInput(err.Error())
			}
		}

		side, err := parseSide(input.Side)
		if err != nil {
			return nil, SelectBodyOutput{}, err
		}

		snap, err := d.Load(input.Path)
		if err != nil {
			return nil, SelectBodyOutput{}, err
		}

		res, err := body.Extract(snap.Doc, input.Entry, side, false)
		if err != nil {
			return nil, SelectBodyOutput{}, WrapError(err)
		}
		if res.NoPostData {
			return nil, SelectBodyOutput{}, WrapError(query.ErrNoPostData)
		}

		limit := clampLimit(input.MaxResults, DefaultMaxResults, DefaultMaxResults)
		sel, err := textquery.Select(res.Text, res.MimeType, mode, input.Expression, limit)
		if err != nil {
			return nil, SelectBodyOutput{}, ErrInvalidInput(err.Error())
		}

		return nil, SelectBodyOutput{
			Mode:      string(sel.Mode),
			Values:    sel.Values,
			Truncated: sel.Truncated,
		}, nil
	}
}
