// Package render formats body text for terminal display.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromastyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/mattn/go-isatty"
	"github.com/tidwall/pretty"

	"github.com/usestring/harlens/pkg/contenttype"
)

// ColorMode decides when output is highlighted.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ParseColorMode validates s. An empty string means ColorAuto.
func ParseColorMode(s string) (ColorMode, error) {
	switch m := ColorMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ColorAuto, nil
	case ColorAuto, ColorAlways, ColorNever:
		return m, nil
	}
	return "", fmt.Errorf("invalid color mode %q: want auto, always or never", s)
}

// Enabled reports whether output written to w should be highlighted.
func (m ColorMode) Enabled(w io.Writer) bool {
	switch m {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Options controls Body.
type Options struct {
	// Pretty reformats JSON bodies with indentation. Other bodies are left as is.
	Pretty bool
	// Color highlights the body with a lexer chosen from its mime type.
	Color bool
	// Style is the chroma style name. Empty uses monokai.
	Style string
}

// Body renders text for display. With zero Options the text is returned
// unchanged.
func Body(text, mimeType string, opts Options) string {
	lexerName := DetectLexer(mimeType)

	if opts.Pretty && (lexerName == "json" || lexerName == "text") {
		text = Pretty(text)
	}
	if opts.Color && !contenttype.IsBinary(mimeType, text) {
		text = highlight(text, lexerName, opts.Style)
	}
	return text
}

// Pretty indents a JSON document. Invalid input is returned unchanged.
func Pretty(text string) string {
	if !json.Valid([]byte(text)) {
		return text
	}
	return strings.TrimRight(string(pretty.Pretty([]byte(text))), "\n")
}

// DetectLexer maps a mime type to a chroma lexer name.
func DetectLexer(mimeType string) string {
	switch c := contenttype.Classify(mimeType); c {
	case contenttype.JSON, contenttype.HTML, contenttype.XML, contenttype.CSS, contenttype.JavaScript, contenttype.YAML:
		return string(c)
	default:
		return "text"
	}
}

func highlight(source, lexerName, styleName string) string {
	lexer := lexers.Get(lexerName)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	if styleName == "" {
		styleName = "monokai"
	}
	style := chromastyles.Get(styleName)
	if style == nil {
		style = chromastyles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		return source
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return source
	}
	return buf.String()
}
