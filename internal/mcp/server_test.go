package mcp

import (
	"context"
	"encoding/json"
	"sort"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/harlens/internal/config"
	"github.com/usestring/harlens/internal/mcp/tools"
)

func connect(t *testing.T, opts ...ServerOption) *sdkmcp.ClientSession {
	t.Helper()

	deps, err := tools.NewDeps(config.Default())
	require.NoError(t, err)
	s, err := NewServer(deps, opts...)
	require.NoError(t, err)

	serverT, clientT := sdkmcp.NewInMemoryTransports()
	ctx := context.Background()
	go func() { _ = s.MCPServer().Run(ctx, serverT) }()

	cs, err := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test", Version: "0"}, nil).Connect(ctx, clientT, nil)
	require.NoError(t, err)
	t.Cleanup(func() { cs.Close() })
	return cs
}

func TestNewServer_Instructions(t *testing.T) {
	cs := connect(t)

	init := cs.InitializeResult()
	require.NotNil(t, init)
	assert.Equal(t, ServerName, init.ServerInfo.Name)
	assert.Contains(t, init.Instructions, "har_usage_guide")
}

func TestNewServer_RequiresDeps(t *testing.T) {
	_, err := NewServer(nil)
	assert.Error(t, err)

	_, err = NewServer(&tools.Deps{})
	assert.Error(t, err)
}

func TestServer_ListsBuiltins(t *testing.T) {
	cs := connect(t, WithBuiltinTools(), WithBuiltinPrompts())
	ctx := context.Background()

	toolsRes, err := cs.ListTools(ctx, nil)
	require.NoError(t, err)
	var names []string
	for _, tool := range toolsRes.Tools {
		names = append(names, tool.Name)
	}
	sort.Strings(names)
	assert.Equal(t, []string{
		"har_count_entries",
		"har_find_entries",
		"har_get_body",
		"har_overview",
		"har_query_body",
		"har_select_body",
	}, names)

	promptsRes, err := cs.ListPrompts(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, promptsRes.Prompts, 2)

	resources, err := cs.ListResources(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, resources.Resources, 2)
}

func TestServer_ReadSchema(t *testing.T) {
	cs := connect(t, WithBuiltinTools())

	res, err := cs.ReadResource(context.Background(), &sdkmcp.ReadResourceParams{URI: SchemaURI})
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)

	var schema map[string]any
	require.NoError(t, json.Unmarshal([]byte(res.Contents[0].Text), &schema))
	assert.Contains(t, schema, "properties")
}

func TestServer_ReadConfig(t *testing.T) {
	cs := connect(t, WithBuiltinTools())

	res, err := cs.ReadResource(context.Background(), &sdkmcp.ReadResourceParams{URI: ConfigURI})
	require.NoError(t, err)
	require.Len(t, res.Contents, 1)
	assert.Contains(t, res.Contents[0].Text, "preview_max_chars: 80")
	assert.Contains(t, res.Contents[0].Text, "- X-Barco-resource")
}

func TestServer_GetPrompt(t *testing.T) {
	cs := connect(t, WithBuiltinPrompts())

	res, err := cs.GetPrompt(context.Background(), &sdkmcp.GetPromptParams{
		Name:      "inspect_capture",
		Arguments: map[string]string{"path": "x.har"},
	})
	require.NoError(t, err)
	require.Len(t, res.Messages, 1)
	assert.Contains(t, res.Messages[0].Content.(*sdkmcp.TextContent).Text, "`x.har`")
}

func TestServer_CustomRegistration(t *testing.T) {
	type echoIn struct {
		Text string `json:"text"`
	}
	type echoOut struct {
		Text string `json:"text"`
	}

	cs := connect(t, WithCustomRegistration(func(srv *sdkmcp.Server) {
		sdkmcp.AddTool(srv, &sdkmcp.Tool{Name: "echo"}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in echoIn) (*sdkmcp.CallToolResult, echoOut, error) {
			return nil, echoOut(in), nil
		})
	}))

	toolsRes, err := cs.ListTools(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, toolsRes.Tools, 1)
	assert.Equal(t, "echo", toolsRes.Tools[0].Name)

	res, err := cs.CallTool(context.Background(), &sdkmcp.CallToolParams{Name: "echo", Arguments: map[string]any{"text": "hi"}})
	require.NoError(t, err)
	assert.False(t, res.IsError)
}
