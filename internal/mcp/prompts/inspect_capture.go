package prompts

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// HandleInspectCapture walks the model through reading a capture file.
func HandleInspectCapture(cfg *Config) func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
	return func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
		args := req.Params.Arguments

		path := ""
		focus := ""
		if args != nil {
			path = strings.TrimSpace(args["path"])
			focus = strings.TrimSpace(args["focus"])
		}
		if path == "" {
			return nil, fmt.Errorf("argument path is required")
		}

		var sb strings.Builder

		sb.WriteString("# Inspect a HAR Capture\n\n")
		fmt.Fprintf(&sb, "Capture file: `%s`\n", path)
		if focus != "" {
			fmt.Fprintf(&sb, "Focus: %s\n", focus)
		}
		sb.WriteString("\nYou are reviewing recorded HTTP traffic. Describe what the client did, in order, and point out failures.\n\n")

		sb.WriteString("## Workflow Steps\n\n")
		fmt.Fprintf(&sb, "1. **Size it up** - `har_count_entries(path: %q)`\n", path)
		sb.WriteString("   - Above a few hundred entries, go to step 3 first and only overview what you need\n\n")
		fmt.Fprintf(&sb, "2. **Overview** - `har_overview(path: %q, ecs: true)`\n", path)
		sb.WriteString("   - Each entry shows method, URL, query pairs, headers, a post data preview, then status and a content preview\n")
		sb.WriteString("   - Previews stop at a fixed length and end in `…`\n\n")
		sb.WriteString("3. **Narrow down** - `har_find_entries`\n")
		sb.WriteString("   - `statuses: [\"4xx\", \"5xx\"]` for failures\n")
		sb.WriteString("   - `has_post_data: true` for requests that sent a body\n")
		sb.WriteString("   - `hosts: [\"*.example.com\"]` to keep one domain and its subdomains\n\n")
		sb.WriteString("4. **Read bodies** - `har_get_body(entry: N, side: \"request\" | \"response\")`\n")
		if cfg.ExpandPrivate {
			sb.WriteString("   - Device private data is expanded by default\n\n")
		} else {
			sb.WriteString("   - Add `expand: true` when a body carries `DevicePrivateData`\n\n")
		}
		sb.WriteString("5. **Extract values** - `har_query_body(all: true, expression: \"...\")`\n")
		sb.WriteString("   - Use `deduplicate: true` to list distinct values across the capture\n\n")

		sb.WriteString("## Output\n\n")
		sb.WriteString("- A numbered timeline of the significant exchanges, using entry numbers\n")
		sb.WriteString("- Every failed exchange with its status and the relevant part of the body\n")
		if focus != "" {
			fmt.Fprintf(&sb, "- A short answer about: %s\n", focus)
		}

		return &sdkmcp.GetPromptResult{
			Description: "Inspect a HAR capture",
			Messages: []*sdkmcp.PromptMessage{
				{
					Role:    "user",
					Content: &sdkmcp.TextContent{Text: sb.String()},
				},
			},
		}, nil
	}
}
