package mcpsrv

import (
	"github.com/usestring/harlens/internal/cache"
	"github.com/usestring/harlens/internal/config"
	"github.com/usestring/harlens/internal/query"
)

// Deps contains all dependencies available to custom tools.
// Custom tools share the decoded-capture cache with the builtin tools.
type Deps struct {
	Cache  *cache.DocumentCache
	Config *config.Config
	Query  *query.Engine
}

// Load returns the decoded capture at path, from cache when it is unchanged.
func (d *Deps) Load(path string) (*cache.Snapshot, error) {
	return d.Cache.Get(path)
}
