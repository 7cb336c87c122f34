package contenttype

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		want        Category
	}{
		{"json", "application/json", JSON},
		{"vendor json", "application/vnd.api+json", JSON},
		{"json with charset", "application/json; charset=utf-8", JSON},
		{"upper case", "Application/JSON", JSON},
		{"html", "text/html; charset=utf-8", HTML},
		{"xhtml", "application/xhtml+xml", HTML},
		{"xml", "text/xml", XML},
		{"vendor xml", "application/vnd.foo+xml", XML},
		{"css", "text/css", CSS},
		{"javascript", "application/javascript", JavaScript},
		{"text javascript", "text/javascript; charset=utf-8", JavaScript},
		{"yaml", "application/x-yaml", YAML},
		{"form", "application/x-www-form-urlencoded", Form},
		{"plain", "text/plain", Text},
		{"csv", "text/csv", Text},
		{"png", "image/png", Binary},
		{"woff", "font/woff2", Binary},
		{"octet-stream", "application/octet-stream", Binary},
		{"grpc", "application/x-protobuf", Binary},
		{"empty", "", Unknown},
		{"odd", "application/x-thing", Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.contentType))
		})
	}
}

func TestMediaType(t *testing.T) {
	assert.Equal(t, "application/json", MediaType("application/json; charset=UTF-8"))
	assert.Equal(t, "text/html", MediaType(" Text/HTML "))
	assert.Equal(t, "text/plain", MediaType("text/plain; charset"))
	assert.Equal(t, "", MediaType(""))
}

func TestIsBinary(t *testing.T) {
	assert.True(t, IsBinary("image/png", "whatever"))
	assert.False(t, IsBinary("application/json", "{}"))
	assert.False(t, IsBinary("", "plain words"))
	assert.True(t, IsBinary("", "\xff\xfe"))
}
