// Package cache provides a size-bounded, in-memory store for decoded or
// derived images, evicting the least recently used entries when full.
package cache

import (
	"image"
	"sort"
	"sync"

	"wmstudio/pkg/logger"
	"wmstudio/pkg/utils"
)

const (
	DefaultMaxSize = 64 << 20 // 64 MB

	// pruneTarget is the fill ratio eviction drains down to, so a full cache
	// does not prune on every insert.
	pruneTarget = 0.80
)

type item struct {
	img      image.Image
	size     int64
	lastUsed uint64
}

// ImageCache is safe for concurrent use. A nil *ImageCache is a valid,
// always-empty cache.
type ImageCache struct {
	mu        sync.Mutex
	items     map[string]*item
	totalSize int64
	maxSize   int64
	tick      uint64
}

// New creates a cache holding at most maxBytes of pixel data.
// A non-positive limit falls back to DefaultMaxSize.
func New(maxBytes int64) *ImageCache {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxSize
	}
	return &ImageCache{
		items:   make(map[string]*item),
		maxSize: maxBytes,
	}
}

// Get returns the cached image and marks it as recently used.
func (c *ImageCache) Get(key string) (image.Image, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	it, ok := c.items[key]
	if !ok {
		return nil, false
	}
	c.tick++
	it.lastUsed = c.tick
	return it.img, true
}

// Set stores img under key. Images larger than half the capacity are not cached.
func (c *ImageCache) Set(key string, img image.Image) {
	if c == nil || img == nil {
		return
	}
	size := pixelBytes(img)

	c.mu.Lock()
	defer c.mu.Unlock()

	if size > c.maxSize/2 {
		return
	}
	if old, exists := c.items[key]; exists {
		c.totalSize -= old.size
		delete(c.items, key)
	}
	if c.totalSize+size > c.maxSize {
		c.prune(size)
	}

	c.tick++
	c.items[key] = &item{img: img, size: size, lastUsed: c.tick}
	c.totalSize += size
}

func (c *ImageCache) Delete(key string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if it, ok := c.items[key]; ok {
		delete(c.items, key)
		c.totalSize -= it.size
	}
}

func (c *ImageCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Size reports the accounted bytes currently held.
func (c *ImageCache) Size() int64 {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalSize
}

// prune evicts least recently used items until needed bytes fit under the
// prune target. Caller holds the lock.
func (c *ImageCache) prune(needed int64) {
	target := int64(float64(c.maxSize)*pruneTarget) - needed

	type candidate struct {
		key      string
		lastUsed uint64
		size     int64
	}
	candidates := make([]candidate, 0, len(c.items))
	for k, v := range c.items {
		candidates = append(candidates, candidate{k, v.lastUsed, v.size})
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].lastUsed < candidates[j].lastUsed
	})

	var freed int64
	removed := 0
	for _, cand := range candidates {
		if c.totalSize <= target {
			break
		}
		delete(c.items, cand.key)
		c.totalSize -= cand.size
		freed += cand.size
		removed++
	}

	if removed > 0 {
		logger.LogInfo("[CACHE] Evicted %d images (%s freed)", removed, utils.FormatBytes(freed))
	}
}

func pixelBytes(img image.Image) int64 {
	b := img.Bounds()
	return int64(b.Dx()) * int64(b.Dy()) * 4
}
