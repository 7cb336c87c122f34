package mcpsrv

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/harlens/internal/mcp/tools"
)

// AddTool registers a tool with the server after checking that the zero
// value of Out passes the JSON schema the SDK infers for it. A nil slice
// marshals as null, which an inferred "array" schema rejects at call time.
//
// Panics with the offending field when the check fails. Use this instead of
// [sdkmcp.AddTool] to get the additional check.
func AddTool[In, Out any](srv *sdkmcp.Server, t *sdkmcp.Tool, h sdkmcp.ToolHandlerFor[In, Out]) {
	tools.AddTool(srv, t, h)
}
