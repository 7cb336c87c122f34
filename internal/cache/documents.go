// Package cache keeps decoded captures in memory between requests.
package cache

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/usestring/harlens/internal/index"
	"github.com/usestring/harlens/pkg/har"
)

// Snapshot is a decoded capture together with the file state it was read at.
// It is shared between callers and must not be modified.
type Snapshot struct {
	Path    string
	Size    int64
	ModTime time.Time
	Doc     *har.Document

	index func() (*index.Index, error)
}

func newSnapshot(path string, info os.FileInfo, doc *har.Document) *Snapshot {
	s := &Snapshot{Path: path, Size: info.Size(), ModTime: info.ModTime(), Doc: doc}
	s.index = sync.OnceValues(func() (*index.Index, error) {
		return index.Build(doc)
	})
	return s
}

// Index returns the entry index, building it on first use.
func (s *Snapshot) Index() (*index.Index, error) {
	return s.index()
}

func (s *Snapshot) matches(info os.FileInfo) bool {
	return s.Size == info.Size() && s.ModTime.Equal(info.ModTime())
}

// DocumentCache provides thread-safe LRU caching of decoded captures keyed by
// absolute path. An entry is reloaded when the file's size or modification
// time changes. Concurrent loads of one path share a single decode.
type DocumentCache struct {
	cache *lru.Cache[string, *Snapshot]
	group singleflight.Group
}

// NewDocumentCache creates a cache holding at most maxItems captures.
func NewDocumentCache(maxItems int) (*DocumentCache, error) {
	c, err := lru.New[string, *Snapshot](maxItems)
	if err != nil {
		return nil, err
	}
	return &DocumentCache{cache: c}, nil
}

// Get returns the capture at path, decoding it when it is not cached or the
// file changed since it was cached. Errors are *har.ParseError values.
func (c *DocumentCache) Get(path string) (*Snapshot, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &har.ParseError{Path: path, Err: err}
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, &har.ParseError{Path: path, Err: err}
	}
	if info.IsDir() {
		return nil, &har.ParseError{Path: path, Err: fmt.Errorf("is a directory")}
	}

	if snap, ok := c.cache.Get(abs); ok && snap.matches(info) {
		return snap, nil
	}

	v, err, _ := c.group.Do(abs, func() (any, error) {
		// Another caller may have refreshed it while we waited.
		if snap, ok := c.cache.Get(abs); ok && snap.matches(info) {
			return snap, nil
		}

		start := time.Now()
		doc, err := har.Load(abs)
		if err != nil {
			return nil, err
		}
		snap := newSnapshot(abs, info, doc)
		c.cache.Add(abs, snap)

		slog.Debug("cached HAR file",
			slog.String("path", abs),
			slog.String("size", humanize.Bytes(uint64(info.Size()))),
			slog.Int("entries", doc.EntryCount()),
			slog.Duration("elapsed", time.Since(start)),
		)
		return snap, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Snapshot), nil
}

// Len returns the current number of cached captures.
func (c *DocumentCache) Len() int {
	return c.cache.Len()
}

// Purge drops every cached capture.
func (c *DocumentCache) Purge() {
	c.cache.Purge()
}
