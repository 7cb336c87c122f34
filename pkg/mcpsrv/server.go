package mcpsrv

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/harlens/internal/config"
	"github.com/usestring/harlens/internal/logging"
	"github.com/usestring/harlens/internal/mcp"
	"github.com/usestring/harlens/internal/mcp/tools"
)

// Server is the HAR MCP server with its extensions.
type Server struct {
	internal   *mcp.Server
	deps       *Deps
	logCleanup func() error
}

// NewServer creates a server with the builtin HAR tools, prompts and
// resources plus whatever the options add.
func NewServer(opts ...Option) (*Server, error) {
	sc := &serverConfig{}
	for _, opt := range opts {
		opt(sc)
	}

	cfg := sc.config
	if cfg == nil {
		var err error
		if cfg, err = config.Load(sc.configFile); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	logCleanup, err := sc.setupLogging(cfg)
	if err != nil {
		return nil, err
	}

	toolDeps, err := tools.NewDeps(cfg)
	if err != nil {
		_ = logCleanup()
		return nil, fmt.Errorf("failed to create document cache: %w", err)
	}
	deps := &Deps{Cache: toolDeps.Cache, Config: toolDeps.Config, Query: toolDeps.Query}

	internal, err := mcp.NewServer(toolDeps, sc.serverOptions(deps)...)
	if err != nil {
		_ = logCleanup()
		return nil, fmt.Errorf("failed to create server: %w", err)
	}

	return &Server{
		internal:   internal,
		deps:       deps,
		logCleanup: logCleanup,
	}, nil
}

func (sc *serverConfig) setupLogging(cfg *config.Config) (func() error, error) {
	if sc.skipLogSetup {
		return func() error { return nil }, nil
	}

	logCfg := logging.FromConfig(cfg.Log)
	if sc.logLevel != "" {
		logCfg.Level = sc.logLevel
	}
	if sc.logFile != "" {
		logCfg.FilePath = sc.logFile
	}
	cleanup, err := logging.Setup(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to setup logging: %w", err)
	}
	return cleanup, nil
}

func (sc *serverConfig) serverOptions(deps *Deps) []mcp.ServerOption {
	var opts []mcp.ServerOption
	if !sc.noTools {
		opts = append(opts, mcp.WithBuiltinTools())
	}
	if !sc.noPrompts {
		opts = append(opts, mcp.WithBuiltinPrompts())
	}
	for _, fn := range sc.registrations {
		opts = append(opts, mcp.WithCustomRegistration(func(srv *sdkmcp.Server) {
			fn(srv, deps)
		}))
	}
	return opts
}

// Run serves MCP over stdio until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.internal.Run(ctx)
}

// Close closes the log file, if any.
func (s *Server) Close() error {
	if s.logCleanup != nil {
		return s.logCleanup()
	}
	return nil
}

// Deps returns the dependencies for building custom tools.
func (s *Server) Deps() *Deps {
	return s.deps
}

// MCPServer returns the SDK server, for in-process transports.
func (s *Server) MCPServer() *sdkmcp.Server {
	return s.internal.MCPServer()
}
