// Package index provides bitmap indexes over the entries of a capture.
package index

import (
	"fmt"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/usestring/harlens/internal/overview"
	"github.com/usestring/harlens/pkg/contenttype"
	"github.com/usestring/harlens/pkg/har"
)

// Meta holds the searchable fields of one entry.
type Meta struct {
	Entry       int
	Method      string
	URL         string
	Host        string
	Path        string
	Status      int
	MimeType    string // response content type, lowercased, parameters dropped
	HasPostData bool
}

// Line renders the entry as "{ix}/ {method} {url} -> {status}".
func (m *Meta) Line() string {
	return fmt.Sprintf("%d/ %s %s -> %d", m.Entry, m.Method, m.URL, m.Status)
}

// Index maintains inverted indexes over the entries of one document using
// Roaring bitmaps. Bit i stands for entry i. It is immutable once built.
type Index struct {
	metas []*Meta

	idxMethod   map[string]*roaring.Bitmap
	idxHost     map[string]*roaring.Bitmap
	idxStatus   map[int]*roaring.Bitmap
	idxMimeType map[string]*roaring.Bitmap
	idxToken    map[string]*roaring.Bitmap
	postData    *roaring.Bitmap
}

// Build indexes every entry of doc. A request URL that does not parse as an
// absolute URL fails the build with an *overview.URLError.
func Build(doc *har.Document) (*Index, error) {
	idx := &Index{
		metas:       make([]*Meta, 0, doc.EntryCount()),
		idxMethod:   make(map[string]*roaring.Bitmap),
		idxHost:     make(map[string]*roaring.Bitmap),
		idxStatus:   make(map[int]*roaring.Bitmap),
		idxMimeType: make(map[string]*roaring.Bitmap),
		idxToken:    make(map[string]*roaring.Bitmap),
		postData:    roaring.New(),
	}

	for i := range doc.Log.Entries {
		meta, err := newMeta(i, &doc.Log.Entries[i])
		if err != nil {
			return nil, err
		}
		idx.add(meta)
	}
	return idx, nil
}

func newMeta(i int, e *har.Entry) (*Meta, error) {
	u, err := overview.ParseURL(e.Request.URL)
	if err != nil {
		return nil, &overview.URLError{Entry: i, URL: e.Request.URL, Err: err}
	}
	return &Meta{
		Entry:       i,
		Method:      e.Request.Method,
		URL:         e.Request.URL,
		Host:        strings.ToLower(u.Hostname()),
		Path:        u.Path,
		Status:      e.Response.Status,
		MimeType:    NormalizeMimeType(e.Response.Content.MimeType),
		HasPostData: e.Request.HasPostData(),
	}, nil
}

func (idx *Index) add(meta *Meta) {
	docID := uint32(meta.Entry)
	idx.metas = append(idx.metas, meta)

	if meta.Method != "" {
		addToBitmap(idx.idxMethod, strings.ToUpper(meta.Method), docID)
	}
	if meta.Host != "" {
		addToBitmap(idx.idxHost, meta.Host, docID)
	}
	addToIntBitmap(idx.idxStatus, meta.Status, docID)
	if meta.MimeType != "" {
		addToBitmap(idx.idxMimeType, meta.MimeType, docID)
	}
	for _, token := range TokenizeURL(meta.URL) {
		addToBitmap(idx.idxToken, token, docID)
	}
	if meta.HasPostData {
		idx.postData.Add(docID)
	}
}

// Len returns the number of indexed entries.
func (idx *Index) Len() int {
	return len(idx.metas)
}

// Meta returns the metadata of entry i, or nil when i is out of range.
func (idx *Index) Meta(i int) *Meta {
	if i < 0 || i >= len(idx.metas) {
		return nil
	}
	return idx.metas[i]
}

// All returns a bitmap of every entry.
func (idx *Index) All() *roaring.Bitmap {
	bm := roaring.New()
	bm.AddRange(0, uint64(len(idx.metas)))
	return bm
}

// BitmapForMethod returns the entries sent with method, case-insensitively.
func (idx *Index) BitmapForMethod(method string) *roaring.Bitmap {
	return idx.idxMethod[strings.ToUpper(method)]
}

// BitmapForHost returns the entries sent to host.
// Supports wildcard prefix: "*.example.com" matches "example.com"
// and all of its subdomains. Without the prefix, matches exactly.
func (idx *Index) BitmapForHost(host string) *roaring.Bitmap {
	host = strings.ToLower(host)
	if !strings.HasPrefix(host, "*.") {
		return idx.idxHost[host]
	}

	baseDomain := host[2:]
	if baseDomain == "" {
		return nil
	}

	suffix := "." + baseDomain
	result := roaring.New()
	for key, bm := range idx.idxHost {
		if key == baseDomain || strings.HasSuffix(key, suffix) {
			result.Or(bm)
		}
	}
	if result.IsEmpty() {
		return nil
	}
	return result
}

// BitmapForStatusRange returns the entries whose status lies in [lo, hi].
func (idx *Index) BitmapForStatusRange(lo, hi int) *roaring.Bitmap {
	result := roaring.New()
	for status, bm := range idx.idxStatus {
		if status >= lo && status <= hi {
			result.Or(bm)
		}
	}
	if result.IsEmpty() {
		return nil
	}
	return result
}

// BitmapForMimePrefix returns the entries whose response mime type starts
// with prefix, so "image/" matches every image.
func (idx *Index) BitmapForMimePrefix(prefix string) *roaring.Bitmap {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	result := roaring.New()
	for mime, bm := range idx.idxMimeType {
		if strings.HasPrefix(mime, prefix) {
			result.Or(bm)
		}
	}
	if result.IsEmpty() {
		return nil
	}
	return result
}

// BitmapForToken returns the entries whose URL contains token.
func (idx *Index) BitmapForToken(token string) *roaring.Bitmap {
	return idx.idxToken[token]
}

// BitmapForPostData returns the entries whose request carried a body.
func (idx *Index) BitmapForPostData() *roaring.Bitmap {
	return idx.postData
}

// NormalizeMimeType lowercases a content type and drops its parameters.
func NormalizeMimeType(ct string) string {
	return contenttype.MediaType(ct)
}

func addToBitmap(index map[string]*roaring.Bitmap, key string, docID uint32) {
	bm, exists := index[key]
	if !exists {
		bm = roaring.New()
		index[key] = bm
	}
	bm.Add(docID)
}

func addToIntBitmap(index map[int]*roaring.Bitmap, key int, docID uint32) {
	bm, exists := index[key]
	if !exists {
		bm = roaring.New()
		index[key] = bm
	}
	bm.Add(docID)
}
