// Package hartest builds HAR documents and capture files for tests.
package hartest

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/usestring/harlens/pkg/har"
)

// Doc returns a document holding entries, with every required collection
// initialized so that it survives a marshal/decode round trip.
func Doc(entries ...har.Entry) *har.Document {
	if entries == nil {
		entries = []har.Entry{}
	}
	return &har.Document{
		Log: har.Log{
			Version: "1.2",
			Creator: har.Creator{Name: "hartest", Version: "1.0"},
			Pages:   []any{},
			Entries: entries,
		},
	}
}

// Entry returns an exchange for method and url with an empty 200 response.
func Entry(method, url string) har.Entry {
	return har.Entry{
		StartedDateTime: "2024-01-01T00:00:00.000Z",
		Time:            12.5,
		Request: har.Request{
			Method:      method,
			URL:         url,
			HTTPVersion: "HTTP/1.1",
			Headers:     []har.NameValue{},
			QueryString: []har.NameValue{},
			Cookies:     []any{},
			HeadersSize: -1,
			BodySize:    -1,
		},
		Response: har.Response{
			Status:      200,
			StatusText:  "OK",
			HTTPVersion: "HTTP/1.1",
			Headers:     []har.NameValue{},
			Cookies:     []any{},
			Content: har.Content{
				MimeType: "text/plain",
			},
			HeadersSize: -1,
			BodySize:    0,
		},
		Cache:   map[string]any{},
		Timings: map[string]any{},
	}
}

// Pairs builds a name/value list from alternating names and values.
func Pairs(kv ...string) []har.NameValue {
	out := make([]har.NameValue, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		out = append(out, har.NameValue{Name: kv[i], Value: kv[i+1]})
	}
	return out
}

// Write marshals doc into a file under t.TempDir and returns its path.
func Write(t testing.TB, doc *har.Document) string {
	t.Helper()
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal HAR: %v", err)
	}
	return WriteRaw(t, string(data))
}

// WriteRaw writes raw into a file under t.TempDir and returns its path.
func WriteRaw(t testing.TB, raw string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "capture.har")
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write HAR: %v", err)
	}
	return path
}
