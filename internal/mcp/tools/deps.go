package tools

import (
	"github.com/usestring/harlens/internal/cache"
	"github.com/usestring/harlens/internal/config"
	"github.com/usestring/harlens/internal/query"
)

// Deps contains all dependencies needed by tool handlers.
type Deps struct {
	Cache  *cache.DocumentCache
	Config *config.Config
	Query  *query.Engine
}

// NewDeps builds the tool dependencies from cfg.
func NewDeps(cfg *config.Config) (*Deps, error) {
	c, err := cache.NewDocumentCache(cfg.CacheMaxItems)
	if err != nil {
		return nil, err
	}
	return &Deps{Cache: c, Config: cfg, Query: query.NewEngine()}, nil
}

// Load returns the decoded capture at path, from cache when it is unchanged.
func (d *Deps) Load(path string) (*cache.Snapshot, error) {
	if path == "" {
		return nil, ErrInvalidInput("path is required")
	}
	snap, err := d.Cache.Get(path)
	if err != nil {
		return nil, WrapError(err)
	}
	return snap, nil
}
