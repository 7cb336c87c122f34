package tools

import (
	"context"
	"log/slog"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/harlens/internal/body"
	"github.com/usestring/harlens/internal/overview"
	"github.com/usestring/harlens/internal/render"
	"github.com/usestring/harlens/pkg/contenttype"
	"github.com/usestring/harlens/pkg/jsoncompact"
	"github.com/usestring/harlens/pkg/privdata"
)

// CountEntriesInput is the input for har_count_entries.
type CountEntriesInput struct {
	Path string `json:"path" jsonschema:"Path to the HAR file"`
}

// CountEntriesOutput is the output of har_count_entries.
type CountEntriesOutput struct {
	Path    string `json:"path"`
	Entries int    `json:"entries"`
}

// ToolCountEntries returns the number of entries in a capture.
func ToolCountEntries(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input CountEntriesInput) (*sdkmcp.CallToolResult, CountEntriesOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input CountEntriesInput) (*sdkmcp.CallToolResult, CountEntriesOutput, error) {
		snap, err := d.Load(input.Path)
		if err != nil {
			return nil, CountEntriesOutput{}, err
		}
		return nil, CountEntriesOutput{Path: snap.Path, Entries: snap.Doc.EntryCount()}, nil
	}
}

// OverviewInput is the input for har_overview.
type OverviewInput struct {
	Path            string `json:"path" jsonschema:"Path to the HAR file"`
	ECS             bool   `json:"ecs,omitempty" jsonschema:"Hide the configured noisy query parameters and headers"`
	WithQueryString bool   `json:"with_query_string,omitempty" jsonschema:"Keep the query string on each URL line (default: configured short_url)"`
}

// OverviewOutput is the output of har_overview.
type OverviewOutput struct {
	Entries  int    `json:"entries"`
	Overview string `json:"overview"`
}

// ToolOverview renders the per-entry summary of a capture.
func ToolOverview(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input OverviewInput) (*sdkmcp.CallToolResult, OverviewOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input OverviewInput) (*sdkmcp.CallToolResult, OverviewOutput, error) {
		snap, err := d.Load(input.Path)
		if err != nil {
			return nil, OverviewOutput{}, err
		}

		lines, err := overview.New(OverviewOptions(d, input.ECS, input.WithQueryString)).Lines(snap.Doc)
		if err != nil {
			return nil, OverviewOutput{}, WrapError(err)
		}

		return nil, OverviewOutput{
			Entries:  snap.Doc.EntryCount(),
			Overview: strings.Join(lines, "\n"),
		}, nil
	}
}

// OverviewOptions builds formatter options from the configuration. The
// exclude lists only apply with ecs set.
func OverviewOptions(d *Deps, ecs, withQueryString bool) overview.Options {
	opts := overview.Options{
		ShortURL:     d.Config.ShortURL && !withQueryString,
		PreviewChars: d.Config.PreviewMaxChars,
	}
	if ecs {
		opts.QueryStringExcludes = overview.NewNameSet(d.Config.QueryStringExcludes...)
		opts.HeaderExcludes = overview.NewNameSet(d.Config.HeaderExcludes...)
	}
	return opts
}

// GetBodyInput is the input for har_get_body.
type GetBodyInput struct {
	Path    string `json:"path" jsonschema:"Path to the HAR file"`
	Entry   int    `json:"entry" jsonschema:"0-based entry index"`
	Side    string `json:"side,omitempty" jsonschema:"Which body: request or response (default: response)"`
	Expand  *bool  `json:"expand,omitempty" jsonschema:"Decode nested device private data (default: configured expand_private)"`
	Pretty  bool   `json:"pretty,omitempty" jsonschema:"Indent JSON bodies"`
	Compact bool   `json:"compact,omitempty" jsonschema:"Trim long JSON arrays and strings to keep the result small"`
}

// GetBodyOutput is the output of har_get_body.
type GetBodyOutput struct {
	Entry      int    `json:"entry"`
	Side       string `json:"side"`
	MimeType   string `json:"mime_type,omitempty"`
	Text       string `json:"text"`
	Expanded   bool   `json:"expanded,omitempty"`
	NoPostData bool   `json:"no_post_data,omitempty"`
	Compacted  bool   `json:"compacted,omitempty"`
	Message    string `json:"message,omitempty"`
}

// ToolGetBody returns the raw or expanded body of one entry.
func ToolGetBody(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input GetBodyInput) (*sdkmcp.CallToolResult, GetBodyOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input GetBodyInput) (*sdkmcp.CallToolResult, GetBodyOutput, error) {
		side, err := parseSide(input.Side)
		if err != nil {
			return nil, GetBodyOutput{}, err
		}

		snap, err := d.Load(input.Path)
		if err != nil {
			return nil, GetBodyOutput{}, err
		}

		expand := d.Config.ExpandPrivate
		if input.Expand != nil {
			expand = *input.Expand
		}
		var x *privdata.Expander
		if expand {
			x = privdata.New()
		}

		res, err := body.ExtractWith(snap.Doc, input.Entry, side, x)
		if err != nil {
			return nil, GetBodyOutput{}, WrapError(err)
		}

		output := GetBodyOutput{
			Entry:      res.Entry,
			Side:       res.Side.String(),
			MimeType:   res.MimeType,
			Text:       res.Text,
			Expanded:   res.Expanded,
			NoPostData: res.NoPostData,
		}
		if res.NoPostData {
			output.Message = res.String()
			return nil, output, nil
		}
		if res.Expanded {
			return nil, output, nil
		}

		if input.Compact && contenttype.Classify(res.MimeType) == contenttype.JSON {
			text, trimmed, err := jsoncompact.Compact(res.Text, jsoncompact.DefaultOptions())
			if err != nil {
				slog.Debug("body not compacted", "entry", res.Entry, "error", err)
			} else {
				output.Text = text
				output.Compacted = trimmed
			}
		}
		if input.Pretty {
			output.Text = render.Body(output.Text, res.MimeType, render.Options{Pretty: true})
		}
		return nil, output, nil
	}
}

func parseSide(s string) (body.Side, error) {
	if s == "" {
		return body.Response, nil
	}
	side, err := body.ParseSide(s)
	if err != nil {
		return 0, ErrInvalidInput(err.Error())
	}
	return side, nil
}
