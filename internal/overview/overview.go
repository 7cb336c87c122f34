// Package overview renders the per-entry summary of a capture.
package overview

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strings"

	"github.com/usestring/harlens/pkg/har"
)

// NameSet is a set of exact, case-sensitive names hidden from a listing.
// A nil set hides nothing.
type NameSet map[string]struct{}

// NewNameSet returns a set holding names.
func NewNameSet(names ...string) NameSet {
	s := make(NameSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Has reports whether name is in the set.
func (s NameSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Options controls what the overview shows.
type Options struct {
	// ShortURL drops the query component from the URL line. Query pairs are
	// still listed.
	ShortURL bool
	// QueryStringExcludes hides query pairs by name. Nil shows all.
	QueryStringExcludes NameSet
	// HeaderExcludes hides request and response headers by name. Nil shows all.
	HeaderExcludes NameSet
	// PreviewChars limits body previews. Zero means DefaultPreviewChars.
	PreviewChars int
}

// URLError reports a request URL that does not parse as an absolute URL.
// It aborts the whole overview.
type URLError struct {
	Entry int
	URL   string
	Err   error
}

func (e *URLError) Error() string {
	return fmt.Sprintf("entry %d: invalid request URL %q: %v", e.Entry, e.URL, e.Err)
}

func (e *URLError) Unwrap() error {
	return e.Err
}

// ErrRelativeURL is reported for URLs that need a base to resolve.
var ErrRelativeURL = errors.New("relative URL without a base")

// Schemes whose serialization always carries a path.
var specialSchemes = map[string]bool{
	"http": true, "https": true, "ws": true, "wss": true, "ftp": true,
}

const (
	pairIndent    = "        "
	sectionIndent = "    "
)

// Formatter renders overviews. It never modifies the document.
type Formatter struct {
	opts Options
}

// New creates a Formatter.
func New(opts Options) *Formatter {
	if opts.PreviewChars == 0 {
		opts.PreviewChars = DefaultPreviewChars
	}
	return &Formatter{opts: opts}
}

// Lines renders the overview as lines without trailing newlines. The first
// line is the entry count; each entry is followed by a three-line gap.
func (f *Formatter) Lines(doc *har.Document) ([]string, error) {
	lines := []string{fmt.Sprintf("%d entries", doc.EntryCount())}

	for i := range doc.Log.Entries {
		block, err := f.entryLines(i, &doc.Log.Entries[i])
		if err != nil {
			return nil, err
		}
		lines = append(lines, block...)
	}
	return lines, nil
}

// Write renders the overview to w. Nothing is written when any entry fails.
func (f *Formatter) Write(w io.Writer, doc *har.Document) error {
	lines, err := f.Lines(doc)
	if err != nil {
		return err
	}
	for _, line := range lines {
		if _, err := io.WriteString(w, line+"\n"); err != nil {
			return err
		}
	}
	return nil
}

func (f *Formatter) entryLines(ix int, e *har.Entry) ([]string, error) {
	req := &e.Request
	displayURL, err := DisplayURL(req.URL, f.opts.ShortURL)
	if err != nil {
		return nil, &URLError{Entry: ix, URL: req.URL, Err: err}
	}

	var lines []string
	lines = append(lines, fmt.Sprintf("%d/ %s %s", ix, req.Method, displayURL))

	if len(req.QueryString) > 0 {
		lines = append(lines, sectionIndent+"Query String:")
		lines = append(lines, pairLines(req.QueryString, f.opts.QueryStringExcludes)...)
	}
	if len(req.Headers) > 0 {
		lines = append(lines, sectionIndent+"Headers:")
		lines = append(lines, pairLines(req.Headers, f.opts.HeaderExcludes)...)
	}
	if pd := req.PostData; pd != nil {
		lines = append(lines,
			sectionIndent+"Post Data:",
			field("Mime-Type:", pd.MimeType),
			field("Length:", fmt.Sprint(len(pd.Text))),
			field("Text:", Preview(pd.Text, f.opts.PreviewChars)),
		)
	}

	resp := &e.Response
	lines = append(lines, fmt.Sprintf("%d/ %-25s %d %s", ix, "RESPONSE:", resp.Status, resp.StatusText))
	if len(resp.Headers) > 0 {
		lines = append(lines, sectionIndent+"Headers:")
		lines = append(lines, pairLines(resp.Headers, f.opts.HeaderExcludes)...)
	}
	lines = append(lines,
		sectionIndent+"Content:",
		field("Mime-Type:", resp.Content.MimeType),
		field("Size:", fmt.Sprint(resp.Content.Size)),
		field("Text:", Preview(resp.Content.Text, f.opts.PreviewChars)),
	)

	return append(lines, "", "", ""), nil
}

// DisplayURL parses raw as an absolute URL and returns its serialization,
// without the query component when short is set.
func DisplayURL(raw string, short bool) (string, error) {
	u, err := ParseURL(raw)
	if err != nil {
		return "", err
	}
	if short {
		u.RawQuery = ""
		u.ForceQuery = false
	}
	if u.Opaque == "" && u.Path == "" && u.Host != "" && specialSchemes[strings.ToLower(u.Scheme)] {
		u.Path = "/"
	}
	return u.String(), nil
}

// ParseURL parses raw as an absolute URL.
func ParseURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if !u.IsAbs() {
		return nil, ErrRelativeURL
	}
	return u, nil
}

// SortedPairs returns a copy of pairs sorted by name. Equal names keep their
// original relative order.
func SortedPairs(pairs []har.NameValue) []har.NameValue {
	sorted := make([]har.NameValue, len(pairs))
	copy(sorted, pairs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})
	return sorted
}

func pairLines(pairs []har.NameValue, excludes NameSet) []string {
	var lines []string
	for _, nv := range SortedPairs(pairs) {
		if excludes.Has(nv.Name) {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s%-20s %s", pairIndent, nv.Name+":", nv.Value))
	}
	return lines
}

func field(label, value string) string {
	return fmt.Sprintf("%s%-20s %s", pairIndent, label, value)
}
