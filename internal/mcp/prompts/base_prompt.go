package prompts

import (
	"context"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// HandleBasePrompt serves the tool usage guide. Default values quoted in the
// guide follow the server configuration.
func HandleBasePrompt(cfg *Config) func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
	return func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
		var sb strings.Builder

		sb.WriteString("# HAR Tool Usage Guide\n\n")

		sb.WriteString("## Tools\n\n")
		sb.WriteString("| Goal | Tool | Example |\n")
		sb.WriteString("|------|------|--------|\n")
		sb.WriteString("| Size up a capture | `har_count_entries` | `har_count_entries(path: \"capture.har\")` |\n")
		sb.WriteString("| Read every exchange at a glance | `har_overview` | `har_overview(path: \"capture.har\", ecs: true)` |\n")
		sb.WriteString("| Narrow down entries | `har_find_entries` | `har_find_entries(path: ..., statuses: [\"4xx\"])` |\n")
		sb.WriteString("| Read one body in full | `har_get_body` | `har_get_body(path: ..., entry: 3, side: \"request\")` |\n")
		sb.WriteString("| Pull values out of JSON bodies | `har_query_body` | `har_query_body(path: ..., all: true, expression: \".id\")` |\n")
		sb.WriteString("| Pull text out of HTML, XML or form bodies | `har_select_body` | `har_select_body(path: ..., entry: 7, expression: \"td.name\")` |\n")

		sb.WriteString("\n**Key rules**:\n")
		sb.WriteString("- Entries are numbered from 0 in capture order. Every tool uses the same numbering.\n")
		sb.WriteString("- `har_overview` previews bodies, cut at a fixed number of characters and marked with `…`. Fetch the full text with `har_get_body`.\n")
		sb.WriteString("- Large JSON bodies: pass `compact: true` to `har_get_body` to cut long arrays and strings.\n")
		if cfg.ShortURL {
			sb.WriteString("- Overview URLs omit the query string by default; the parsed pairs are listed under `Query String:`. Pass `with_query_string: true` to keep it.\n")
		} else {
			sb.WriteString("- Overview URLs keep their query string.\n")
		}
		sb.WriteString("- `ecs: true` hides paging parameters and noisy headers such as `Cookie` and `User-Agent`.\n")
		sb.WriteString("- A request without a body is reported with `no_post_data: true`. This is not an error.\n")

		sb.WriteString("\n## Device Private Data\n")
		sb.WriteString("Device requests carry a percent-encoded JSON document in `AddDevice.DevicePrivateData` or `Resource.Device.DevicePrivateData`.\n")
		if cfg.ExpandPrivate {
			sb.WriteString("- Expansion is on by default. Pass `expand: false` to see the raw encoded string.\n")
		} else {
			sb.WriteString("- Pass `expand: true` to `har_get_body` or `har_query_body` to decode it in place.\n")
		}
		sb.WriteString("- A body that is not JSON, or private data that does not decode, fails with `EXPANSION_ERROR`.\n")

		sb.WriteString("\n## Errors\n")
		sb.WriteString("- `PARSE_ERROR`: the file is missing, not JSON, or not a valid HAR 1.2 document\n")
		sb.WriteString("- `NOT_FOUND`: the entry number is out of range, or the request has no body\n")
		sb.WriteString("- `URL_ERROR`: an entry URL is not absolute\n")
		sb.WriteString("- `INVALID_INPUT`: fix the arguments and retry\n")

		return &sdkmcp.GetPromptResult{
			Description: "HAR tool usage guide",
			Messages: []*sdkmcp.PromptMessage{
				{
					Role:    "user",
					Content: &sdkmcp.TextContent{Text: sb.String()},
				},
			},
		}, nil
	}
}
