// Package body extracts request and response bodies from a capture.
package body

import (
	"fmt"
	"strings"

	"github.com/usestring/harlens/pkg/har"
	"github.com/usestring/harlens/pkg/privdata"
)

// Side selects the request or the response half of an entry.
type Side int

const (
	Request Side = iota
	Response
)

func (s Side) String() string {
	if s == Request {
		return "request"
	}
	return "response"
}

// ParseSide accepts "req", "request", "resp" and "response", in any case.
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "req", "request":
		return Request, nil
	case "resp", "response":
		return Response, nil
	}
	return 0, fmt.Errorf("unknown body side %q: want request or response", s)
}

// IndexError reports an entry index outside the document.
type IndexError struct {
	Index int
	Count int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("entry %d out of range: capture has %d entries", e.Index, e.Count)
}

// Result is the outcome of an extraction. When NoPostData is set the request
// carried no body and Text is empty.
type Result struct {
	Entry      int
	Side       Side
	MimeType   string
	Text       string
	Expanded   bool
	NoPostData bool
}

// String returns the text to display: the body, or a notice naming the entry
// when the request had no body.
func (r *Result) String() string {
	if r.NoPostData {
		return fmt.Sprintf("Request %d has no post data", r.Entry)
	}
	return r.Text
}

// Extract returns the body of entry idx. With expand set the text is run
// through private data expansion and rendered as indented JSON. The document
// is never modified.
func Extract(doc *har.Document, idx int, side Side, expand bool) (*Result, error) {
	var x *privdata.Expander
	if expand {
		x = privdata.New()
	}
	return ExtractWith(doc, idx, side, x)
}

// ExtractWith is Extract with a caller-supplied expander. A nil expander
// returns the raw text.
func ExtractWith(doc *har.Document, idx int, side Side, x *privdata.Expander) (*Result, error) {
	e, ok := doc.Entry(idx)
	if !ok {
		return nil, &IndexError{Index: idx, Count: doc.EntryCount()}
	}

	res := &Result{Entry: idx, Side: side}
	switch side {
	case Request:
		pd := e.Request.PostData
		if pd == nil {
			res.NoPostData = true
			return res, nil
		}
		res.MimeType, res.Text = pd.MimeType, pd.Text
	default:
		res.MimeType, res.Text = e.Response.Content.MimeType, e.Response.Content.Text
	}

	if x == nil {
		return res, nil
	}
	text, err := x.ExpandText(res.Text)
	if err != nil {
		return nil, fmt.Errorf("entry %d %s body: %w", idx, side, err)
	}
	res.Text, res.Expanded = text, true
	return res, nil
}
