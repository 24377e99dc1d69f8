package geocoder

import (
	"container/list"
	"context"
	"strings"
	"sync"
)

// Cached wraps a Geocoder with an in-memory LRU cache keyed by the
// normalized address. Empty results are not cached so they can be retried.
type Cached struct {
	inner Geocoder

	mu         sync.Mutex
	maxEntries int
	ll         *list.List
	entries    map[string]*list.Element
}

type cacheEntry struct {
	key    string
	result Result
}

func NewCached(inner Geocoder, maxEntries int) *Cached {
	return &Cached{
		inner:      inner,
		maxEntries: maxEntries,
		ll:         list.New(),
		entries:    make(map[string]*list.Element),
	}
}

func (c *Cached) ForwardGeocode(ctx context.Context, address string) (Result, error) {
	key := strings.ToLower(strings.Join(strings.Fields(address), " "))
	if result, ok := c.get(key); ok {
		return result, nil
	}

	result, err := c.inner.ForwardGeocode(ctx, address)
	if err != nil {
		return result, err
	}
	if result.FormattedAddress != "" {
		c.put(key, result)
	}
	return result, nil
}

func (c *Cached) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

func (c *Cached) get(key string) (Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.entries[key]
	if !ok {
		return Result{}, false
	}
	c.ll.MoveToFront(el)
	return el.Value.(*cacheEntry).result, true
}

func (c *Cached) put(key string, result Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		el.Value.(*cacheEntry).result = result
		c.ll.MoveToFront(el)
		return
	}

	c.entries[key] = c.ll.PushFront(&cacheEntry{key: key, result: result})
	if c.ll.Len() > c.maxEntries {
		oldest := c.ll.Back()
		c.ll.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).key)
	}
}
