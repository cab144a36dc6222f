package formula

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of formula texts a Cache remembers when no
// size is given.
const DefaultCacheSize = 1024

type cacheEntry struct {
	compiled *Compiled
	err      error
}

// Cache memoizes Compile by formula text. Domain errors are cached along with
// successful results. It is safe for concurrent use.
type Cache struct {
	entries *lru.Cache[string, cacheEntry]
}

// NewCache creates a cache holding up to size formulas. A size of zero or
// less selects DefaultCacheSize.
func NewCache(size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	entries, err := lru.New[string, cacheEntry](size)
	if err != nil {
		return nil, fmt.Errorf("creating formula cache: %w", err)
	}
	return &Cache{entries: entries}, nil
}

// Compile returns the compiled form of src, compiling it on first use.
func (c *Cache) Compile(src string) (*Compiled, error) {
	if e, ok := c.entries.Get(src); ok {
		return e.compiled, e.err
	}
	compiled, err := Compile(src)
	c.entries.Add(src, cacheEntry{compiled: compiled, err: err})
	return compiled, err
}

// Len returns the number of cached formulas.
func (c *Cache) Len() int {
	return c.entries.Len()
}
