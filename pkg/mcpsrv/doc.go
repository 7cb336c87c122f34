// Package mcpsrv provides an extensible MCP server for HAR captures.
//
// The server exposes the builtin HAR tools, prompts, and resources over
// stdio. Functional options add custom tools, prompts, and resources.
//
// # Basic Usage
//
//	server, err := mcpsrv.NewServer()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer server.Close()
//	server.Run(ctx)
//
// # Extension
//
// Tools that need the capture cache are registered with WithDepsTool:
//
//	type StatusInput struct {
//	    Path string `json:"path"`
//	}
//
//	type StatusOutput struct {
//	    Failed int `json:"failed"`
//	}
//
//	func statusTool(d *mcpsrv.Deps) func(context.Context, *mcp.CallToolRequest, StatusInput) (*mcp.CallToolResult, StatusOutput, error) {
//	    return func(ctx context.Context, req *mcp.CallToolRequest, in StatusInput) (*mcp.CallToolResult, StatusOutput, error) {
//	        snap, err := d.Load(in.Path)
//	        if err != nil {
//	            return nil, StatusOutput{}, err
//	        }
//	        var out StatusOutput
//	        for _, e := range snap.Doc.Log.Entries {
//	            if e.Response.Status >= 400 {
//	                out.Failed++
//	            }
//	        }
//	        return nil, out, nil
//	    }
//	}
//
//	server, err := mcpsrv.NewServer(
//	    mcpsrv.WithDepsTool(&mcp.Tool{Name: "failed_count"}, statusTool),
//	)
//
// # Configuration
//
// Settings come from a .env file, an optional YAML file and HAR_* variables:
//
//	server, err := mcpsrv.NewServer(
//	    mcpsrv.WithConfigFile("harlens.yaml"),
//	    mcpsrv.WithLogLevel("debug"),
//	    mcpsrv.WithLogFile("/var/log/harlens.log"),
//	)
package mcpsrv
