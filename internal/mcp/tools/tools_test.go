package tools

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/harlens/internal/config"
	"github.com/usestring/harlens/internal/hartest"
	"github.com/usestring/harlens/pkg/har"
)

var testImpl = &sdkmcp.Implementation{Name: "harlens-test", Version: "0.0.1"}

func captureDoc() *har.Document {
	list := hartest.Entry("GET", "https://ecs.example.com/api/devices?countToFetch=10&site=a")
	list.Request.QueryString = hartest.Pairs("countToFetch", "10", "site", "a")
	list.Request.Headers = hartest.Pairs("Cookie", "session=1", "Accept", "application/json")
	list.Response.Content = har.Content{
		Size:     44,
		MimeType: "application/json",
		Text:     `{"devices":[{"id":"wall-1"},{"id":"wall-2"}]}`,
	}

	add := hartest.Entry("POST", "https://ecs.example.com/api/devices")
	add.Request.PostData = &har.PostData{
		MimeType: "application/json",
		Text:     `{"AddDevice":{"Name":"wall-3","DevicePrivateData":"%7B%22slot%22%3A4%7D"}}`,
	}
	add.Response.Status = 201
	add.Response.Content = har.Content{MimeType: "application/json; charset=utf-8", Text: `{"id":"wall-3"}`}

	missing := hartest.Entry("GET", "https://cdn.example.com/app.js")
	missing.Response.Status = 404
	missing.Response.Content = har.Content{MimeType: "text/html", Text: "<html>missing</html>"}

	return hartest.Doc(list, add, missing)
}

func session(t *testing.T) *sdkmcp.ClientSession {
	t.Helper()

	d, err := NewDeps(config.Default())
	require.NoError(t, err)

	srv := sdkmcp.NewServer(testImpl, nil)
	Register(srv, d)

	serverT, clientT := sdkmcp.NewInMemoryTransports()
	ctx := context.Background()
	go func() { _ = srv.Run(ctx, serverT) }()

	cs, err := sdkmcp.NewClient(testImpl, nil).Connect(ctx, clientT, nil)
	require.NoError(t, err)
	t.Cleanup(func() { cs.Close() })
	return cs
}

func call(t *testing.T, cs *sdkmcp.ClientSession, name string, args map[string]any) (string, bool) {
	t.Helper()
	res, err := cs.CallTool(context.Background(), &sdkmcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok, "expected text content")
	return tc.Text, res.IsError
}

func callInto(t *testing.T, cs *sdkmcp.ClientSession, name string, args map[string]any, out any) {
	t.Helper()
	text, isErr := call(t, cs, name, args)
	require.False(t, isErr, text)
	require.NoError(t, json.Unmarshal([]byte(text), out))
}

func TestCountEntries(t *testing.T) {
	cs := session(t)
	path := hartest.Write(t, captureDoc())

	var out CountEntriesOutput
	callInto(t, cs, "har_count_entries", map[string]any{"path": path}, &out)
	assert.Equal(t, 3, out.Entries)
	assert.Equal(t, path, out.Path)
}

func TestCountEntries_Errors(t *testing.T) {
	cs := session(t)

	text, isErr := call(t, cs, "har_count_entries", map[string]any{"path": filepath.Join(t.TempDir(), "nope.har")})
	assert.True(t, isErr)
	assert.Contains(t, text, ErrCodeParseError)

	text, isErr = call(t, cs, "har_count_entries", map[string]any{"path": hartest.WriteRaw(t, `{"log":{}}`)})
	assert.True(t, isErr)
	assert.Contains(t, text, ErrCodeParseError)
}

func TestOverview(t *testing.T) {
	cs := session(t)
	path := hartest.Write(t, captureDoc())

	var out OverviewOutput
	callInto(t, cs, "har_overview", map[string]any{"path": path}, &out)
	assert.Equal(t, 3, out.Entries)
	assert.Contains(t, out.Overview, "0/ GET https://ecs.example.com/api/devices\n")
	assert.Contains(t, out.Overview, "countToFetch")
	assert.Contains(t, out.Overview, "Cookie:")
	assert.Contains(t, out.Overview, "2/ RESPONSE:")
}

func TestOverview_ECS(t *testing.T) {
	cs := session(t)
	path := hartest.Write(t, captureDoc())

	var out OverviewOutput
	callInto(t, cs, "har_overview", map[string]any{"path": path, "ecs": true, "with_query_string": true}, &out)
	assert.Contains(t, out.Overview, "0/ GET https://ecs.example.com/api/devices?countToFetch=10&site=a")
	assert.NotContains(t, out.Overview, "countToFetch:")
	assert.Contains(t, out.Overview, "site:")
	assert.NotContains(t, out.Overview, "Cookie:")
	assert.Contains(t, out.Overview, "Accept:")
}

func TestGetBody(t *testing.T) {
	cs := session(t)
	path := hartest.Write(t, captureDoc())

	var out GetBodyOutput
	callInto(t, cs, "har_get_body", map[string]any{"path": path, "entry": 0}, &out)
	assert.Equal(t, "response", out.Side)
	assert.Equal(t, "application/json", out.MimeType)
	assert.Equal(t, `{"devices":[{"id":"wall-1"},{"id":"wall-2"}]}`, out.Text)

	var pretty GetBodyOutput
	callInto(t, cs, "har_get_body", map[string]any{"path": path, "entry": 0, "pretty": true}, &pretty)
	assert.Contains(t, pretty.Text, "\n")
}

func TestGetBody_Compact(t *testing.T) {
	cs := session(t)

	doc := captureDoc()
	doc.Log.Entries[0].Response.Content.Text = `{"devices":[1,2,3,4,5,6]}`
	path := hartest.Write(t, doc)

	var out GetBodyOutput
	callInto(t, cs, "har_get_body", map[string]any{"path": path, "entry": 0, "compact": true}, &out)
	assert.True(t, out.Compacted)
	assert.Equal(t, `{"devices":[1,2,3,"… (3 more items)"]}`, out.Text)

	var html GetBodyOutput
	callInto(t, cs, "har_get_body", map[string]any{"path": path, "entry": 2, "compact": true}, &html)
	assert.False(t, html.Compacted)
	assert.Equal(t, "<html>missing</html>", html.Text)
}

func TestGetBody_NoPostData(t *testing.T) {
	cs := session(t)
	path := hartest.Write(t, captureDoc())

	var out GetBodyOutput
	callInto(t, cs, "har_get_body", map[string]any{"path": path, "entry": 0, "side": "request"}, &out)
	assert.True(t, out.NoPostData)
	assert.Equal(t, "Request 0 has no post data", out.Message)
	assert.Empty(t, out.Text)
}

func TestGetBody_Expand(t *testing.T) {
	cs := session(t)
	path := hartest.Write(t, captureDoc())

	var raw GetBodyOutput
	callInto(t, cs, "har_get_body", map[string]any{"path": path, "entry": 1, "side": "req"}, &raw)
	assert.False(t, raw.Expanded)
	assert.Contains(t, raw.Text, "%7B%22slot")

	var out GetBodyOutput
	callInto(t, cs, "har_get_body", map[string]any{"path": path, "entry": 1, "side": "req", "expand": true}, &out)
	assert.True(t, out.Expanded)
	assert.Contains(t, out.Text, `"slot": 4`)
	assert.NotContains(t, out.Text, "%7B")
}

func TestGetBody_Errors(t *testing.T) {
	cs := session(t)
	path := hartest.Write(t, captureDoc())

	text, isErr := call(t, cs, "har_get_body", map[string]any{"path": path, "entry": 9})
	assert.True(t, isErr)
	assert.Contains(t, text, ErrCodeNotFound)

	text, isErr = call(t, cs, "har_get_body", map[string]any{"path": path, "entry": 0, "side": "both"})
	assert.True(t, isErr)
	assert.Contains(t, text, ErrCodeInvalidInput)

	text, isErr = call(t, cs, "har_get_body", map[string]any{"path": path, "entry": 2, "expand": true})
	assert.True(t, isErr)
	assert.Contains(t, text, ErrCodeExpansionError)
}

func TestFindEntries(t *testing.T) {
	cs := session(t)
	path := hartest.Write(t, captureDoc())

	testCases := []struct {
		name string
		args map[string]any
		want []int
	}{
		{"all", map[string]any{}, []int{0, 1, 2}},
		{"method", map[string]any{"methods": []string{"post"}}, []int{1}},
		{"status class", map[string]any{"statuses": []string{"4xx"}}, []int{2}},
		{"host and mime", map[string]any{"hosts": []string{"ecs.example.com"}, "mime_types": []string{"application/json"}}, []int{0, 1}},
		{"post data", map[string]any{"has_post_data": true}, []int{1}},
		{"text", map[string]any{"text": "app.js"}, []int{2}},
		{"nothing", map[string]any{"methods": []string{"DELETE"}}, nil},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tc.args["path"] = path
			var out FindEntriesOutput
			callInto(t, cs, "har_find_entries", tc.args, &out)

			var got []int
			for _, e := range out.Entries {
				got = append(got, e.Entry)
			}
			assert.Equal(t, tc.want, got)
			assert.Equal(t, len(tc.want), out.Total)
		})
	}
}

func TestFindEntries_Limit(t *testing.T) {
	cs := session(t)
	path := hartest.Write(t, captureDoc())

	var out FindEntriesOutput
	callInto(t, cs, "har_find_entries", map[string]any{"path": path, "hosts": []string{"*.example.com"}, "limit": 2}, &out)
	assert.Equal(t, 3, out.Total)
	assert.Len(t, out.Entries, 2)
	assert.True(t, out.Truncated)
	assert.Equal(t, "1/ POST https://ecs.example.com/api/devices -> 201", out.Entries[1].Line)

	text, isErr := call(t, cs, "har_find_entries", map[string]any{"path": path, "statuses": []string{"oops"}})
	assert.True(t, isErr)
	assert.Contains(t, text, ErrCodeInvalidInput)
}

func TestQueryBody_Entry(t *testing.T) {
	cs := session(t)
	path := hartest.Write(t, captureDoc())

	var out QueryBodyOutput
	callInto(t, cs, "har_query_body", map[string]any{"path": path, "entry": 0, "expression": ".devices[].id"}, &out)
	assert.Equal(t, []any{"wall-1", "wall-2"}, out.Values)
	assert.Equal(t, []int{0}, out.MatchedEntries)

	var expanded QueryBodyOutput
	callInto(t, cs, "har_query_body", map[string]any{
		"path": path, "entry": 1, "side": "request", "expand": true,
		"expression": ".AddDevice.DevicePrivateData.slot",
	}, &expanded)
	assert.Equal(t, []any{float64(4)}, expanded.Values)
}

func TestQueryBody_All(t *testing.T) {
	cs := session(t)
	path := hartest.Write(t, captureDoc())

	var out QueryBodyOutput
	callInto(t, cs, "har_query_body", map[string]any{"path": path, "all": true, "expression": ".id"}, &out)
	assert.Equal(t, []any{"wall-3"}, out.Values)
	assert.Equal(t, []int{1}, out.MatchedEntries)
	require.Len(t, out.Errors, 1)
	assert.Contains(t, out.Errors[0], "entry[2]")
}

func TestQueryBody_Errors(t *testing.T) {
	cs := session(t)
	path := hartest.Write(t, captureDoc())

	testCases := []struct {
		name string
		args map[string]any
		code string
	}{
		{"no target", map[string]any{"expression": "."}, ErrCodeInvalidInput},
		{"both targets", map[string]any{"expression": ".", "entry": 0, "all": true}, ErrCodeInvalidInput},
		{"bad expression", map[string]any{"expression": ".[", "entry": 0}, ErrCodeInvalidInput},
		{"no post data", map[string]any{"expression": ".", "entry": 0, "side": "request"}, ErrCodeNotFound},
		{"out of range", map[string]any{"expression": ".", "entry": 7}, ErrCodeNotFound},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tc.args["path"] = path
			text, isErr := call(t, cs, "har_query_body", tc.args)
			assert.True(t, isErr)
			assert.Contains(t, text, tc.code)
		})
	}
}

func TestSelectBody(t *testing.T) {
	cs := session(t)
	path := hartest.Write(t, captureDoc())

	var out SelectBodyOutput
	callInto(t, cs, "har_select_body", map[string]any{"path": path, "entry": 2, "expression": "html"}, &out)
	assert.Equal(t, "css", out.Mode)
	assert.Equal(t, []string{"missing"}, out.Values)

	var re SelectBodyOutput
	callInto(t, cs, "har_select_body", map[string]any{
		"path":       path,
		"entry":      1,
		"side":       "request",
		"mode":       "regex",
		"expression": `"Name":"([^"]+)"`,
	}, &re)
	assert.Equal(t, []string{"wall-3"}, re.Values)
}

func TestSelectBody_Errors(t *testing.T) {
	cs := session(t)
	path := hartest.Write(t, captureDoc())

	testCases := []struct {
		name string
		args map[string]any
		code string
	}{
		{"json body", map[string]any{"entry": 0, "expression": "li"}, ErrCodeInvalidInput},
		{"unknown mode", map[string]any{"entry": 2, "mode": "jq", "expression": "."}, ErrCodeInvalidInput},
		{"bad selector", map[string]any{"entry": 2, "mode": "xpath", "expression": "//li["}, ErrCodeInvalidInput},
		{"no post data", map[string]any{"entry": 0, "side": "request", "mode": "regex", "expression": "."}, ErrCodeNotFound},
		{"out of range", map[string]any{"entry": 9, "mode": "regex", "expression": "."}, ErrCodeNotFound},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tc.args["path"] = path
			text, isErr := call(t, cs, "har_select_body", tc.args)
			assert.True(t, isErr)
			assert.Contains(t, text, tc.code)
		})
	}
}
