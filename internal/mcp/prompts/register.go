package prompts

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Register registers all prompts with the MCP server.
func Register(srv *sdkmcp.Server, cfg *Config) {
	// Prompt 1: Inspect a capture
	srv.AddPrompt(&sdkmcp.Prompt{
		Name:        "inspect_capture",
		Description: "RECOMMENDED: Step-by-step review of a HAR capture: overview, narrowing, bodies and value extraction.",
		Arguments: []*sdkmcp.PromptArgument{
			{
				Name:        "path",
				Description: "Path to the HAR file",
				Required:    true,
			},
			{
				Name:        "focus",
				Description: "What to look for (e.g., 'why did device registration fail')",
				Required:    false,
			},
		},
	}, HandleInspectCapture(cfg))

	// Prompt 2: Tool usage guide
	srv.AddPrompt(&sdkmcp.Prompt{
		Name:        "har_usage_guide",
		Description: "Guide to the HAR tools: which one to use, entry numbering, private data expansion and error codes.",
	}, HandleBasePrompt(cfg))
}
