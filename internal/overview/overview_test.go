package overview

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/harlens/internal/hartest"
	"github.com/usestring/harlens/pkg/har"
)

func sampleEntry() har.Entry {
	e := hartest.Entry("POST", "https://ecs.example.com/api/devices?b=2&a=1&a=3")
	e.Request.QueryString = hartest.Pairs("b", "2", "a", "1", "a", "3")
	e.Request.Headers = hartest.Pairs("User-Agent", "curl/8.0", "Accept", "application/json")
	e.Request.PostData = &har.PostData{MimeType: "application/json", Text: "{\"name\":\n\t\"wall\"}"}
	e.Response.Status = 201
	e.Response.StatusText = "Created"
	e.Response.Headers = hartest.Pairs("Server", "nginx", "Content-Type", "application/json")
	e.Response.Content = har.Content{Size: 9, MimeType: "application/json", Text: `{"id":7}`}
	return e
}

func TestLines_FullBlock(t *testing.T) {
	doc := hartest.Doc(sampleEntry())

	lines, err := New(Options{ShortURL: true}).Lines(doc)
	require.NoError(t, err)

	want := []string{
		"1 entries",
		"0/ POST https://ecs.example.com/api/devices",
		"    Query String:",
		"        a:                   1",
		"        a:                   3",
		"        b:                   2",
		"    Headers:",
		"        Accept:              application/json",
		"        User-Agent:          curl/8.0",
		"    Post Data:",
		"        Mime-Type:           application/json",
		"        Length:              17",
		`        Text:                {"name":\n\t"wall"}…`,
		"0/ RESPONSE:                 201 Created",
		"    Headers:",
		"        Content-Type:        application/json",
		"        Server:              nginx",
		"    Content:",
		"        Mime-Type:           application/json",
		"        Size:                9",
		`        Text:                {"id":7}…`,
		"",
		"",
		"",
	}
	assert.Equal(t, want, lines)
}

func TestLines_CountAndOrder(t *testing.T) {
	doc := hartest.Doc(
		hartest.Entry("GET", "https://a.example.com/one"),
		hartest.Entry("PUT", "https://b.example.com/two"),
		hartest.Entry("DELETE", "https://c.example.com/three"),
	)

	lines, err := New(Options{}).Lines(doc)
	require.NoError(t, err)
	assert.Equal(t, "3 entries", lines[0])

	var heads []string
	for _, l := range lines {
		if strings.Contains(l, "/ ") && !strings.Contains(l, "RESPONSE:") && !strings.HasPrefix(l, " ") {
			heads = append(heads, l)
		}
	}
	assert.Equal(t, []string{
		"0/ GET https://a.example.com/one",
		"1/ PUT https://b.example.com/two",
		"2/ DELETE https://c.example.com/three",
	}, heads)
}

func TestLines_EmptyDocument(t *testing.T) {
	lines, err := New(Options{}).Lines(hartest.Doc())
	require.NoError(t, err)
	assert.Equal(t, []string{"0 entries"}, lines)
}

func TestLines_ShortURL(t *testing.T) {
	doc := hartest.Doc(sampleEntry())

	short, err := New(Options{ShortURL: true}).Lines(doc)
	require.NoError(t, err)
	assert.Equal(t, "0/ POST https://ecs.example.com/api/devices", short[1])
	assert.Contains(t, short, "        b:                   2", "pairs are listed regardless of ShortURL")

	full, err := New(Options{ShortURL: false}).Lines(doc)
	require.NoError(t, err)
	assert.Equal(t, "0/ POST https://ecs.example.com/api/devices?b=2&a=1&a=3", full[1])
}

func TestLines_QueryStringExcludes(t *testing.T) {
	doc := hartest.Doc(sampleEntry())

	lines, err := New(Options{
		ShortURL:            false,
		QueryStringExcludes: NewNameSet("a"),
	}).Lines(doc)
	require.NoError(t, err)

	assert.Equal(t, "0/ POST https://ecs.example.com/api/devices?b=2&a=1&a=3", lines[1],
		"excludes never touch the URL line")
	assert.Equal(t, "    Query String:", lines[2])
	assert.Equal(t, "        b:                   2", lines[3])
	for _, l := range lines {
		assert.NotContains(t, l, "a:  ")
	}
}

func TestLines_HeaderExcludesApplyToBothSides(t *testing.T) {
	doc := hartest.Doc(sampleEntry())

	lines, err := New(Options{HeaderExcludes: NewNameSet("User-Agent", "Server")}).Lines(doc)
	require.NoError(t, err)

	joined := strings.Join(lines, "\n")
	assert.NotContains(t, joined, "User-Agent")
	assert.NotContains(t, joined, "nginx")
	assert.Contains(t, joined, "Accept:")
	assert.Contains(t, joined, "Content-Type:")
}

func TestLines_ExcludesAreCaseSensitive(t *testing.T) {
	doc := hartest.Doc(sampleEntry())

	lines, err := New(Options{HeaderExcludes: NewNameSet("server")}).Lines(doc)
	require.NoError(t, err)
	assert.Contains(t, lines, "        Server:              nginx")
}

func TestLines_SectionHeaderKeptWhenAllExcluded(t *testing.T) {
	e := hartest.Entry("GET", "https://example.com/x")
	e.Request.Headers = hartest.Pairs("Host", "example.com")
	doc := hartest.Doc(e)

	lines, err := New(Options{HeaderExcludes: NewNameSet("Host")}).Lines(doc)
	require.NoError(t, err)
	assert.Equal(t, "    Headers:", lines[2])
	assert.True(t, strings.HasPrefix(lines[3], "0/ RESPONSE:"))
}

func TestLines_NoPostDataSection(t *testing.T) {
	doc := hartest.Doc(hartest.Entry("GET", "https://example.com/"))

	lines, err := New(Options{}).Lines(doc)
	require.NoError(t, err)
	assert.NotContains(t, strings.Join(lines, "\n"), "Post Data:")
}

func TestLines_EmptyPostDataSectionShown(t *testing.T) {
	e := hartest.Entry("POST", "https://example.com/")
	e.Request.PostData = &har.PostData{MimeType: "text/plain", Text: ""}
	doc := hartest.Doc(e)

	lines, err := New(Options{}).Lines(doc)
	require.NoError(t, err)
	assert.Contains(t, lines, "    Post Data:")
	assert.Contains(t, lines, "        Length:              0")
	assert.Contains(t, lines, "        Text:                …")
}

func TestLines_URLErrorAbortsOverview(t *testing.T) {
	doc := hartest.Doc(
		hartest.Entry("GET", "https://example.com/ok"),
		hartest.Entry("GET", "http://[::1"),
		hartest.Entry("GET", "https://example.com/never"),
	)

	lines, err := New(Options{}).Lines(doc)
	require.Error(t, err)
	assert.Nil(t, lines)

	var uerr *URLError
	require.True(t, errors.As(err, &uerr))
	assert.Equal(t, 1, uerr.Entry)
	assert.Equal(t, "http://[::1", uerr.URL)
}

func TestWrite_NoPartialOutputOnError(t *testing.T) {
	doc := hartest.Doc(
		hartest.Entry("GET", "https://example.com/ok"),
		hartest.Entry("GET", "/relative/path"),
	)

	var buf bytes.Buffer
	err := New(Options{}).Write(&buf, doc)
	require.Error(t, err)
	assert.Empty(t, buf.String())

	var uerr *URLError
	require.True(t, errors.As(err, &uerr))
	assert.ErrorIs(t, err, ErrRelativeURL)
}

func TestWrite_Output(t *testing.T) {
	doc := hartest.Doc(hartest.Entry("GET", "https://example.com"))

	var buf bytes.Buffer
	require.NoError(t, New(Options{}).Write(&buf, doc))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "1 entries\n0/ GET https://example.com/\n"))
	assert.True(t, strings.HasSuffix(out, "…\n\n\n\n"))
}

func TestLines_DoesNotMutateDocument(t *testing.T) {
	e := sampleEntry()
	doc := hartest.Doc(e)

	_, err := New(Options{ShortURL: true}).Lines(doc)
	require.NoError(t, err)

	assert.Equal(t, "b", doc.Log.Entries[0].Request.QueryString[0].Name)
	assert.Equal(t, "https://ecs.example.com/api/devices?b=2&a=1&a=3", doc.Log.Entries[0].Request.URL)
}

func TestDisplayURL(t *testing.T) {
	testCases := []struct {
		raw   string
		short bool
		want  string
	}{
		{"https://example.com/a?x=1#frag", true, "https://example.com/a#frag"},
		{"https://example.com/a?x=1#frag", false, "https://example.com/a?x=1#frag"},
		{"https://example.com?", true, "https://example.com/"},
		{"HTTP://example.com", false, "http://example.com/"},
		{"mailto:ops@example.com", false, "mailto:ops@example.com"},
	}

	for _, tc := range testCases {
		t.Run(tc.raw, func(t *testing.T) {
			got, err := DisplayURL(tc.raw, tc.short)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestDisplayURL_Invalid(t *testing.T) {
	for _, raw := range []string{"", "not a url", "://missing-scheme", "http://[::1", "https://exa mple.com/"} {
		t.Run(raw, func(t *testing.T) {
			_, err := DisplayURL(raw, true)
			assert.Error(t, err)
		})
	}
}

func TestSortedPairs_Stable(t *testing.T) {
	in := hartest.Pairs("b", "2", "a", "1", "a", "3")

	got := SortedPairs(in)
	assert.Equal(t, hartest.Pairs("a", "1", "a", "3", "b", "2"), got)
	assert.Equal(t, "b", in[0].Name, "input is left untouched")
}

func TestNameSet_NilHasNothing(t *testing.T) {
	var s NameSet
	assert.False(t, s.Has("anything"))
	assert.True(t, NewNameSet("x").Has("x"))
}
