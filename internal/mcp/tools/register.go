package tools

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Register registers all tools with the MCP server.
func Register(srv *sdkmcp.Server, d *Deps) {
	// Tool 1: har_count_entries
	AddTool(srv, &sdkmcp.Tool{
		Name:        "har_count_entries",
		Description: "Count the entries in a HAR capture. Use before har_overview on large files.",
	}, ToolCountEntries(d))

	// Tool 2: har_overview
	AddTool(srv, &sdkmcp.Tool{
		Name:        "har_overview",
		Description: "Render a per-entry overview of a HAR capture: method and URL, query string, headers, request post data preview, then status, response headers and a content preview. Set ecs=true to hide noisy headers and paging parameters. Entries are numbered from 0; pass that number to har_get_body or har_query_body.",
	}, ToolOverview(d))

	// Tool 3: har_get_body
	AddTool(srv, &sdkmcp.Tool{
		Name:        "har_get_body",
		Description: "Get the full request or response body of one entry. Set expand=true to decode nested device private data into readable JSON. A request without a body returns no_post_data=true rather than an error.",
	}, ToolGetBody(d))

	// Tool 4: har_find_entries
	AddTool(srv, &sdkmcp.Tool{
		Name:        "har_find_entries",
		Description: "Find entries by method, host, status, response mime type, presence of a request body, or URL text. Filters combine with AND; values within one filter combine with OR. Returns one summary line per entry.",
	}, ToolFindEntries(d))

	// Tool 5: har_query_body
	AddTool(srv, &sdkmcp.Tool{
		Name:        "har_query_body",
		Description: "Run a jq expression against the JSON body of one entry (entry) or every entry (all=true). Returns the values, per-entry errors and the entries that matched. Use har_get_body to view a body as text.",
	}, ToolQueryBody(d))

	// Tool 6: har_select_body
	AddTool(srv, &sdkmcp.Tool{
		Name:        "har_select_body",
		Description: "Extract text from an HTML, XML, form or plain text body of one entry with a CSS selector, XPath, regex or form key. The mode is detected from the mime type when omitted. JSON bodies are rejected; use har_query_body for those.",
	}, ToolSelectBody(d))
}
