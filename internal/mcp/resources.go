package mcp

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"gopkg.in/yaml.v3"

	"github.com/usestring/harlens/pkg/har"
)

// Resource URIs
const (
	SchemaURI = "har://schema"
	ConfigURI = "har://config"
)

// registerResources registers the static resources.
func (s *Server) registerResources() {
	s.mcpServer.AddResource(&sdkmcp.Resource{
		URI:         SchemaURI,
		Name:        "HAR Schema",
		Description: "JSON Schema every capture must satisfy before the tools accept it. Read this when a tool reports PARSE_ERROR.",
		MIMEType:    "application/schema+json",
		Annotations: &sdkmcp.Annotations{
			Audience: []sdkmcp.Role{"assistant"},
			Priority: 0.3,
		},
	}, s.handleResourceSchema)

	s.mcpServer.AddResource(&sdkmcp.Resource{
		URI:         ConfigURI,
		Name:        "Effective Configuration",
		Description: "Settings the server runs with, including the header and query string names hidden by ecs=true.",
		MIMEType:    "application/yaml",
		Annotations: &sdkmcp.Annotations{
			Audience: []sdkmcp.Role{"assistant"},
			Priority: 0.2,
		},
	}, s.handleResourceConfig)
}

func (s *Server) handleResourceSchema(ctx context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
	data, err := har.SchemaJSON()
	if err != nil {
		return nil, fmt.Errorf("serializing schema: %w", err)
	}
	return textResource(req.Params.URI, "application/schema+json", string(data)), nil
}

func (s *Server) handleResourceConfig(ctx context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
	data, err := yaml.Marshal(s.deps.Config)
	if err != nil {
		return nil, fmt.Errorf("serializing config: %w", err)
	}
	return textResource(req.Params.URI, "application/yaml", string(data)), nil
}

func textResource(uri, mimeType, text string) *sdkmcp.ReadResourceResult {
	return &sdkmcp.ReadResourceResult{
		Contents: []*sdkmcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: mimeType,
				Text:     text,
			},
		},
	}
}
