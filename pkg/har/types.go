package har

// Document is the root of a decoded HTTP Archive.
type Document struct {
	Log Log `json:"log"`
}

// Log holds the capture metadata and the recorded exchanges.
type Log struct {
	Version string  `json:"version"`
	Creator Creator `json:"creator"`
	// Pages are kept as opaque values; they are never interpreted.
	Pages []any `json:"pages"`
	// Entries are in capture order. Positions in this slice are the entry
	// numbers used by every operation that takes an index.
	Entries []Entry `json:"entries"`
}

// Creator identifies the tool that produced the capture.
type Creator struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// NameValue is a header or query-string pair. Names are not unique.
type NameValue struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Entry is one recorded request/response exchange.
type Entry struct {
	StartedDateTime string   `json:"startedDateTime"`
	Time            float64  `json:"time"` // elapsed milliseconds
	Request         Request  `json:"request"`
	Response        Response `json:"response"`

	// Producer-specific values, stored as decoded and never interpreted.
	Cache           any `json:"cache"`
	Timings         any `json:"timings"`
	ServerIPAddress any `json:"serverIPAddress"`
	Connection      any `json:"connection"`
}

// Request is the request half of an entry.
type Request struct {
	Method      string      `json:"method"`
	URL         string      `json:"url"`
	HTTPVersion string      `json:"httpVersion"`
	Headers     []NameValue `json:"headers"`
	QueryString []NameValue `json:"queryString"`
	Cookies     any         `json:"cookies"`
	HeadersSize int         `json:"headersSize"`
	BodySize    int         `json:"bodySize"`
	// PostData is nil when the request carried no body. A non-nil PostData
	// with empty Text is a body that happened to be empty.
	PostData *PostData `json:"postData,omitempty"`
}

// HasPostData reports whether the request carried a body.
func (r *Request) HasPostData() bool {
	return r.PostData != nil
}

// PostData is a request body as recorded by the capture tool.
type PostData struct {
	MimeType string `json:"mimeType"`
	Text     string `json:"text"`
}

// Response is the response half of an entry.
type Response struct {
	Status       int         `json:"status"`
	StatusText   string      `json:"statusText"`
	HTTPVersion  string      `json:"httpVersion"`
	Headers      []NameValue `json:"headers"`
	Cookies      any         `json:"cookies"`
	Content      Content     `json:"content"`
	RedirectURL  string      `json:"redirectURL"`
	HeadersSize  int         `json:"headersSize"`
	BodySize     int         `json:"bodySize"`
	TransferSize any         `json:"_transferSize"`
}

// Content describes the response body. Text is already decoded to text by
// the capture tool.
type Content struct {
	Size        int    `json:"size"`
	MimeType    string `json:"mimeType"`
	Compression int    `json:"compression"` // may be negative
	Text        string `json:"text"`
}

// EntryCount returns the number of entries in the capture.
func (d *Document) EntryCount() int {
	return len(d.Log.Entries)
}

// Entry returns the entry at position i and whether i is in range.
func (d *Document) Entry(i int) (*Entry, bool) {
	if i < 0 || i >= len(d.Log.Entries) {
		return nil, false
	}
	return &d.Log.Entries[i], true
}
