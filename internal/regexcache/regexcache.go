// Package regexcache contains an LRU cache of compiled regular expressions,
// used by the classifier to avoid recompiling the same filter or match
// pattern on every lookup.
package regexcache

import (
	"fmt"
	"regexp"

	"github.com/AdguardTeam/golibs/errors"
	"github.com/bluele/gcache"
)

// notCompiled is stored in place of a pattern that failed to compile, so
// that a persistently bad pattern doesn't pay the compilation cost (and the
// failure path) on every lookup.
var notCompiled = &regexp.Regexp{}

// Config is the configuration structure for a *Cache.
type Config struct {
	// Size is the maximum number of compiled patterns to keep.  It must be
	// positive.
	Size int
}

// Cache is an LRU cache mapping a regular expression pattern to its
// compiled form.
type Cache struct {
	cache gcache.Cache
}

// New returns a new properly initialized *Cache.
func New(conf *Config) (c *Cache) {
	return &Cache{
		cache: gcache.New(conf.Size).LRU().Build(),
	}
}

// Compile returns the compiled form of pattern, using the cache when
// possible.  ok is false if pattern previously failed, or currently fails,
// to compile; compilation errors are never returned to the caller, since a
// bad pattern is simply skipped by callers, not treated as fatal.
func (c *Cache) Compile(pattern string) (re *regexp.Regexp, ok bool) {
	v, err := c.cache.Get(pattern)
	if err == nil {
		if v == notCompiled {
			return nil, false
		}

		return v.(*regexp.Regexp), true
	}

	if !errors.Is(err, gcache.KeyNotFoundError) {
		// Shouldn't happen, since we don't set a serialization function.
		panic(fmt.Errorf("regexcache: getting cache item: %w", err))
	}

	re, compileErr := regexp.Compile(pattern)
	if compileErr != nil {
		c.set(pattern, notCompiled)

		return nil, false
	}

	c.set(pattern, re)

	return re, true
}

// set stores val under key, panicking on the errors that gcache can only
// return when a serialization function is configured, which this cache
// never does.
func (c *Cache) set(key string, val any) {
	err := c.cache.Set(key, val)
	if err != nil {
		panic(fmt.Errorf("regexcache: setting cache item: %w", err))
	}
}

// Len returns the number of patterns currently cached, including the ones
// that failed to compile.
func (c *Cache) Len() (n int) {
	const checkExpired = false

	return c.cache.Len(checkExpired)
}

// Clear removes every cached pattern.
func (c *Cache) Clear() {
	c.cache.Purge()
}
