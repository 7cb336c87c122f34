// Package mcp wires the HAR tools, prompts and resources into an MCP server.
package mcp

import (
	"context"
	"errors"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/harlens/internal/mcp/prompts"
	"github.com/usestring/harlens/internal/mcp/tools"
)

// Implementation identity reported to clients.
const (
	ServerName    = "harlens"
	ServerVersion = "1.0.0"
)

// Instructions is sent to clients during initialization.
const Instructions = "Tools for reading HAR 1.2 captures from disk. Every tool takes the capture path; " +
	"entries are numbered from 0 in capture order. Start with har_overview or har_find_entries, " +
	"then read single bodies with har_get_body. Call the har_usage_guide prompt for details."

// Server is an MCP server over a shared document cache.
type Server struct {
	mcpServer *sdkmcp.Server
	deps      *tools.Deps

	tools   bool
	prompts bool
	extra   []func(*sdkmcp.Server)
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithBuiltinTools enables the builtin HAR tools and resources.
func WithBuiltinTools() ServerOption {
	return func(s *Server) {
		s.tools = true
	}
}

// WithBuiltinPrompts enables the builtin HAR prompts.
func WithBuiltinPrompts() ServerOption {
	return func(s *Server) {
		s.prompts = true
	}
}

// WithCustomRegistration runs fn against the SDK server after the builtins
// are registered.
func WithCustomRegistration(fn func(*sdkmcp.Server)) ServerOption {
	return func(s *Server) {
		s.extra = append(s.extra, fn)
	}
}

// NewServer builds the server. Nothing is registered unless an option asks
// for it.
func NewServer(deps *tools.Deps, opts ...ServerOption) (*Server, error) {
	if deps == nil || deps.Config == nil {
		return nil, errors.New("deps with a config is required")
	}

	s := &Server{deps: deps}
	for _, opt := range opts {
		opt(s)
	}

	s.mcpServer = sdkmcp.NewServer(
		&sdkmcp.Implementation{Name: ServerName, Version: ServerVersion},
		&sdkmcp.ServerOptions{Instructions: Instructions},
	)
	s.mcpServer.AddReceivingMiddleware(LoggingMiddleware())

	if s.tools {
		tools.Register(s.mcpServer, deps)
		s.registerResources()
	}
	if s.prompts {
		prompts.Register(s.mcpServer, &prompts.Config{
			ExpandPrivate: deps.Config.ExpandPrivate,
			ShortURL:      deps.Config.ShortURL,
		})
	}

	for _, fn := range s.extra {
		fn(s.mcpServer)
	}

	return s, nil
}

// Run serves MCP over stdio until ctx is done or the client disconnects.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &sdkmcp.StdioTransport{})
}

// MCPServer returns the SDK server.
func (s *Server) MCPServer() *sdkmcp.Server {
	return s.mcpServer
}
