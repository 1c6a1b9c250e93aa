package http

import (
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// summaryCache keeps rendered page views keyed by tracker revision. A write
// bumps the revision, so stale entries are never served; Flush only frees
// them early.
type summaryCache struct {
	store  *gocache.Cache
	lookup func(hit bool)
}

// newSummaryCache returns nil when ttl is zero, which disables caching.
func newSummaryCache(ttl time.Duration, lookup func(bool)) *summaryCache {
	if ttl <= 0 {
		return nil
	}
	if lookup == nil {
		lookup = func(bool) {}
	}
	return &summaryCache{
		store:  gocache.New(ttl, 2*ttl),
		lookup: lookup,
	}
}

func revisionKey(rev uint64) string {
	return "view:" + strconv.FormatUint(rev, 10)
}

func (c *summaryCache) get(rev uint64) (*pageView, bool) {
	if c == nil {
		return nil, false
	}
	v, ok := c.store.Get(revisionKey(rev))
	c.lookup(ok)
	if !ok {
		return nil, false
	}
	return v.(*pageView), true
}

func (c *summaryCache) set(v *pageView) {
	if c == nil {
		return
	}
	c.store.SetDefault(revisionKey(v.Revision), v)
}

func (c *summaryCache) flush() {
	if c == nil {
		return
	}
	c.store.Flush()
}

func (c *summaryCache) size() int {
	if c == nil {
		return 0
	}
	return c.store.ItemCount()
}
