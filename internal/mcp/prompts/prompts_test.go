package prompts

import (
	"context"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getPrompt(t *testing.T, h func(context.Context, *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error), args map[string]string) string {
	t.Helper()
	res, err := h(context.Background(), &sdkmcp.GetPromptRequest{
		Params: &sdkmcp.GetPromptParams{Arguments: args},
	})
	require.NoError(t, err)
	require.Len(t, res.Messages, 1)
	tc, ok := res.Messages[0].Content.(*sdkmcp.TextContent)
	require.True(t, ok)
	return tc.Text
}

func TestInspectCapture(t *testing.T) {
	text := getPrompt(t, HandleInspectCapture(&Config{}), map[string]string{
		"path":  "/tmp/login.har",
		"focus": "registration failures",
	})
	assert.Contains(t, text, "`/tmp/login.har`")
	assert.Contains(t, text, `har_overview(path: "/tmp/login.har", ecs: true)`)
	assert.Contains(t, text, "A short answer about: registration failures")
	assert.Contains(t, text, "Add `expand: true`")
}

func TestInspectCapture_ExpandDefault(t *testing.T) {
	text := getPrompt(t, HandleInspectCapture(&Config{ExpandPrivate: true}), map[string]string{"path": "a.har"})
	assert.Contains(t, text, "expanded by default")
	assert.NotContains(t, text, "Focus:")
}

func TestInspectCapture_RequiresPath(t *testing.T) {
	_, err := HandleInspectCapture(&Config{})(context.Background(), &sdkmcp.GetPromptRequest{
		Params: &sdkmcp.GetPromptParams{},
	})
	assert.Error(t, err)
}

func TestBasePrompt(t *testing.T) {
	text := getPrompt(t, HandleBasePrompt(&Config{ShortURL: true}), nil)
	assert.Contains(t, text, "har_find_entries")
	assert.Contains(t, text, "har_select_body")
	assert.Contains(t, text, "with_query_string: true")
	assert.Contains(t, text, "EXPANSION_ERROR")

	text = getPrompt(t, HandleBasePrompt(&Config{}), nil)
	assert.Contains(t, text, "keep their query string")
}
