// Package textquery selects text out of HTML, XML, form and plain text
// bodies with CSS selectors, XPath, regular expressions or form keys.
// JSON bodies are queried with jq instead.
package textquery

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/antchfx/xpath"

	"github.com/usestring/harlens/pkg/contenttype"
)

// Mode names a selection language.
type Mode string

const (
	ModeCSS   Mode = "css"
	ModeXPath Mode = "xpath"
	ModeRegex Mode = "regex"
	ModeForm  Mode = "form"
)

// ErrJSONBody is returned when auto-detection lands on a JSON body.
var ErrJSONBody = errors.New("body is JSON: use a jq query instead")

// ParseMode accepts a mode name in any case. Empty returns "" so the caller
// can fall back to DetectMode.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "", ModeCSS, ModeXPath, ModeRegex, ModeForm:
		return m, nil
	}
	return "", fmt.Errorf("unknown selector mode %q: want css, xpath, regex or form", s)
}

// DetectMode picks a mode from a body's MIME type.
func DetectMode(mimeType string) (Mode, error) {
	switch contenttype.Classify(mimeType) {
	case contenttype.JSON:
		return "", ErrJSONBody
	case contenttype.HTML:
		return ModeCSS, nil
	case contenttype.XML:
		return ModeXPath, nil
	case contenttype.Form:
		return ModeForm, nil
	default:
		return ModeRegex, nil
	}
}

// Validate checks that expression compiles in mode.
func Validate(mode Mode, expression string) error {
	if strings.TrimSpace(expression) == "" {
		return errors.New("selector expression is required")
	}
	switch mode {
	case ModeCSS:
		if _, err := cascadia.Compile(expression); err != nil {
			return fmt.Errorf("invalid CSS selector: %w", err)
		}
	case ModeXPath:
		if _, err := xpath.Compile(expression); err != nil {
			return fmt.Errorf("invalid XPath expression: %w", err)
		}
	case ModeRegex:
		if _, err := regexp.Compile(expression); err != nil {
			return fmt.Errorf("invalid regex: %w", err)
		}
	case ModeForm:
	default:
		return fmt.Errorf("unknown selector mode %q", mode)
	}
	return nil
}

// Result holds the selected strings in document order.
type Result struct {
	Mode      Mode
	Values    []string
	Truncated bool
}

// Select runs expression against text. An empty mode is detected from
// mimeType. maxResults of 0 means no limit.
func Select(text, mimeType string, mode Mode, expression string, maxResults int) (*Result, error) {
	if mode == "" {
		var err error
		if mode, err = DetectMode(mimeType); err != nil {
			return nil, err
		}
	}
	if err := Validate(mode, expression); err != nil {
		return nil, err
	}

	c := &collector{max: maxResults}
	var err error
	switch mode {
	case ModeCSS:
		err = selectCSS(text, expression, c)
	case ModeXPath:
		if contenttype.Classify(mimeType) == contenttype.HTML {
			err = selectHTMLXPath(text, expression, c)
		} else {
			err = selectXMLXPath(text, expression, c)
		}
	case ModeRegex:
		selectRegex(text, expression, c)
	case ModeForm:
		err = selectForm(text, expression, c)
	}
	if err != nil {
		return nil, err
	}

	return &Result{Mode: mode, Values: c.values, Truncated: c.truncated}, nil
}

type collector struct {
	max       int
	values    []string
	truncated bool
}

// add appends s unless blank. It returns false once the limit is hit.
func (c *collector) add(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return true
	}
	if c.max > 0 && len(c.values) >= c.max {
		c.truncated = true
		return false
	}
	c.values = append(c.values, s)
	return true
}
