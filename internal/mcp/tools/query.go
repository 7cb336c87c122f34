package tools

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/harlens/internal/query"
)

// QueryBodyInput is the input for har_query_body.
type QueryBodyInput struct {
	Path        string `json:"path" jsonschema:"Path to the HAR file"`
	Expression  string `json:"expression" jsonschema:"jq expression evaluated against the JSON body"`
	Entry       *int   `json:"entry,omitempty" jsonschema:"0-based entry index to query"`
	All         bool   `json:"all,omitempty" jsonschema:"Query every entry instead of one (entries without a body are skipped)"`
	Side        string `json:"side,omitempty" jsonschema:"Which body: request or response (default: response)"`
	Expand      *bool  `json:"expand,omitempty" jsonschema:"Decode nested device private data before querying (default: configured expand_private)"`
	Deduplicate bool   `json:"deduplicate,omitempty" jsonschema:"Remove duplicate values"`
	MaxResults  int    `json:"max_results,omitempty" jsonschema:"Max values to return (default: 1000)"`
}

// QueryBodyOutput is the output of har_query_body.
type QueryBodyOutput struct {
	Values         []any          `json:"values,omitzero"`
	Errors         []string       `json:"errors,omitzero"`
	RawCount       int            `json:"raw_count"`
	MatchedEntries []int          `json:"matched_entries,omitzero"`
	LabelCounts    map[string]int `json:"label_counts,omitempty"`
}

// ToolQueryBody evaluates a jq expression against one entry's body or
// against every entry.
func ToolQueryBody(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input QueryBodyInput) (*sdkmcp.CallToolResult, QueryBodyOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input QueryBodyInput) (*sdkmcp.CallToolResult, QueryBodyOutput, error) {
		if input.Expression == "" {
			return nil, QueryBodyOutput{}, ErrInvalidInput("expression is required")
		}
		if input.All == (input.Entry != nil) {
			return nil, QueryBodyOutput{}, ErrInvalidInput("exactly one of entry or all is required")
		}
		if err := d.Query.ValidateExpression(input.Expression); err != nil {
			return nil, QueryBodyOutput{}, ErrInvalidInput(err.Error())
		}

		side, err := parseSide(input.Side)
		if err != nil {
			return nil, QueryBodyOutput{}, err
		}

		snap, err := d.Load(input.Path)
		if err != nil {
			return nil, QueryBodyOutput{}, err
		}

		opts := query.Options{
			Side:        side,
			Expand:      d.Config.ExpandPrivate,
			Deduplicate: input.Deduplicate,
			MaxResults:  clampLimit(input.MaxResults, DefaultMaxResults, DefaultMaxResults),
		}
		if input.Expand != nil {
			opts.Expand = *input.Expand
		}

		var res *query.Result
		if input.All {
			res, err = d.Query.QueryAll(snap.Doc, input.Expression, opts)
		} else {
			res, err = d.Query.QueryEntry(snap.Doc, *input.Entry, input.Expression, opts)
		}
		if err != nil {
			return nil, QueryBodyOutput{}, WrapError(err)
		}

		return nil, QueryBodyOutput{
			Values:         res.Values,
			Errors:         res.Errors,
			RawCount:       res.RawCount,
			MatchedEntries: res.MatchedEntries,
			LabelCounts:    res.LabelCounts,
		}, nil
	}
}
