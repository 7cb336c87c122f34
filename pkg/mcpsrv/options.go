package mcpsrv

import (
	"context"

	mcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/harlens/internal/config"
)

// serverConfig holds configuration built from options.
type serverConfig struct {
	config     *config.Config
	configFile string

	logLevel     string
	logFile      string
	skipLogSetup bool

	noTools   bool
	noPrompts bool

	// Run in option order once Deps exist. The closures keep the generic
	// handler types intact.
	registrations []func(*mcp.Server, *Deps)
}

func (c *serverConfig) register(fn func(*mcp.Server, *Deps)) {
	c.registrations = append(c.registrations, fn)
}

// Option configures the server.
type Option func(*serverConfig)

// WithConfig uses cfg as is instead of loading settings.
func WithConfig(cfg *config.Config) Option {
	return func(c *serverConfig) {
		c.config = cfg
	}
}

// WithConfigFile loads settings from a YAML file, under .env and HAR_*
// environment overrides.
func WithConfigFile(path string) Option {
	return func(c *serverConfig) {
		c.configFile = path
	}
}

// WithLogLevel sets the log level (debug, info, warn, error).
func WithLogLevel(level string) Option {
	return func(c *serverConfig) {
		c.logLevel = level
	}
}

// WithLogFile sets the log file path.
// If empty, logs are written to stderr only.
func WithLogFile(path string) Option {
	return func(c *serverConfig) {
		c.logFile = path
	}
}

// WithoutLogSetup leaves the default slog logger alone. Use it when the
// embedding program configures logging itself.
func WithoutLogSetup() Option {
	return func(c *serverConfig) {
		c.skipLogSetup = true
	}
}

// WithoutBuiltinTools disables the builtin HAR tools and resources.
func WithoutBuiltinTools() Option {
	return func(c *serverConfig) {
		c.noTools = true
	}
}

// WithoutBuiltinPrompts disables the builtin HAR prompts.
func WithoutBuiltinPrompts() Option {
	return func(c *serverConfig) {
		c.noPrompts = true
	}
}

// WithTool registers a custom tool with the server. In is unmarshaled from
// the call arguments and Out is marshaled as the structured result.
func WithTool[In, Out any](tool *mcp.Tool, handler func(context.Context, *mcp.CallToolRequest, In) (*mcp.CallToolResult, Out, error)) Option {
	return func(c *serverConfig) {
		c.register(func(srv *mcp.Server, _ *Deps) {
			AddTool(srv, tool, handler)
		})
	}
}

// WithDepsTool registers a custom tool whose handler is built from the
// server dependencies once they exist.
func WithDepsTool[In, Out any](tool *mcp.Tool, builder func(*Deps) func(context.Context, *mcp.CallToolRequest, In) (*mcp.CallToolResult, Out, error)) Option {
	return func(c *serverConfig) {
		c.register(func(srv *mcp.Server, deps *Deps) {
			AddTool(srv, tool, builder(deps))
		})
	}
}

// WithPrompt registers a custom prompt with the server.
func WithPrompt(prompt *mcp.Prompt, handler func(context.Context, *mcp.GetPromptRequest) (*mcp.GetPromptResult, error)) Option {
	return func(c *serverConfig) {
		c.register(func(srv *mcp.Server, _ *Deps) {
			srv.AddPrompt(prompt, handler)
		})
	}
}

// WithResource registers a custom static resource with the server.
func WithResource(resource *mcp.Resource, handler func(context.Context, *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error)) Option {
	return func(c *serverConfig) {
		c.register(func(srv *mcp.Server, _ *Deps) {
			srv.AddResource(resource, handler)
		})
	}
}

// WithResourceTemplate registers a custom resource template with the server.
func WithResourceTemplate(template *mcp.ResourceTemplate, handler func(context.Context, *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error)) Option {
	return func(c *serverConfig) {
		c.register(func(srv *mcp.Server, _ *Deps) {
			srv.AddResourceTemplate(template, handler)
		})
	}
}
