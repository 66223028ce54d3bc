// Package pairwise computes similarity edges across a set of per-site
// logo features, per spec.md §4.J: a pHash-proximity shortlist avoids
// O(N^2) full comparisons, and ORB descriptors are computed lazily
// through a bounded LRU cache since only pairs landing in the uncertain
// band ever need them. Grounded on
// original_source/src/similarity/pairwise.py for the shortlist and
// iteration order.
package pairwise

import (
	"container/list"
	"image"
	"sort"
	"sync"

	"github.com/ashish-patro/logo-grouper/internal/config"
	"github.com/ashish-patro/logo-grouper/internal/model"
	"github.com/ashish-patro/logo-grouper/internal/orb"
	"github.com/ashish-patro/logo-grouper/internal/phash"
	"github.com/ashish-patro/logo-grouper/internal/similarity"
)

// ImageLoader loads a site's normalized RGBA image on demand, typically
// by reading model.LogoFeatures.NormalizedPath from disk.
type ImageLoader func(website string) (*image.RGBA, error)

// descriptorCache is a bounded LRU cache of ORB descriptors keyed by
// website, implemented with container/list per the teacher corpus's
// idiom for bounded caches.
type descriptorCache struct {
	mu       sync.Mutex
	capacity int
	ll       *list.List
	items    map[string]*list.Element
	loader   ImageLoader
}

type cacheEntry struct {
	key   string
	value orb.Descriptors
}

// DefaultCacheCapacity bounds how many sites' ORB descriptors are held in
// memory at once.
const DefaultCacheCapacity = 64

func newDescriptorCache(capacity int, loader ImageLoader) *descriptorCache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	return &descriptorCache{
		capacity: capacity,
		ll:       list.New(),
		items:    make(map[string]*list.Element),
		loader:   loader,
	}
}

func (c *descriptorCache) get(website string) orb.Descriptors {
	c.mu.Lock()
	if el, ok := c.items[website]; ok {
		c.ll.MoveToFront(el)
		entry := el.Value.(*cacheEntry)
		c.mu.Unlock()
		return entry.value
	}
	c.mu.Unlock()

	var desc orb.Descriptors
	if c.loader != nil {
		if img, err := c.loader(website); err == nil && img != nil {
			desc = orb.Detect(img)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[website]; ok {
		c.ll.MoveToFront(el)
		el.Value.(*cacheEntry).value = desc
		return desc
	}
	el := c.ll.PushFront(&cacheEntry{key: website, value: desc})
	c.items[website] = el
	if c.ll.Len() > c.capacity {
		oldest := c.ll.Back()
		if oldest != nil {
			c.ll.Remove(oldest)
			delete(c.items, oldest.Value.(*cacheEntry).key)
		}
	}
	return desc
}

// ComputeEdges builds the full similarity-edge set over features, per
// spec.md §4.J/§4.I/§4.K's data flow.
func ComputeEdges(features []model.LogoFeatures, cfg config.Config, loader ImageLoader) []model.Edge {
	sorted := make([]model.LogoFeatures, len(features))
	copy(sorted, features)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Website < sorted[j].Website })

	cache := newDescriptorCache(DefaultCacheCapacity, loader)
	descriptorFn := func(f model.LogoFeatures) orb.Descriptors {
		return cache.get(f.Website)
	}

	var edges []model.Edge
	for i := range sorted {
		shortlist := buildShortlist(sorted, i, cfg)
		for _, j := range shortlist {
			a, b := sorted[i], sorted[j]
			score, _ := similarity.Compare(a, b, cfg, descriptorFn)
			linked, confirmed := similarity.Classify(score, cfg)
			if !linked {
				continue
			}
			left, right := a.Website, b.Website
			if left > right {
				left, right = right, left
			}
			edges = append(edges, model.Edge{Left: left, Right: right, Score: score, Confirmed: confirmed})
		}
	}

	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Left != edges[j].Left {
			return edges[i].Left < edges[j].Left
		}
		return edges[i].Right < edges[j].Right
	})
	return edges
}

type shortlistEntry struct {
	index    int
	distance int
}

// buildShortlist returns indices j > i whose pHash Hamming distance from
// sorted[i] is within cfg.ShortlistDist, capped at cfg.ShortlistMax and
// ordered by ascending distance then ascending website for determinism,
// per spec.md §4.J.
func buildShortlist(sorted []model.LogoFeatures, i int, cfg config.Config) []int {
	maxDist := cfg.ShortlistDist
	if maxDist <= 0 {
		maxDist = 16
	}
	limit := cfg.ShortlistMax
	if limit <= 0 {
		limit = 50
	}

	var entries []shortlistEntry
	for j := i + 1; j < len(sorted); j++ {
		d := phash.Hamming(sorted[i].Perceptual.PHash, sorted[j].Perceptual.PHash)
		if d < 0 || d > maxDist {
			continue
		}
		entries = append(entries, shortlistEntry{index: j, distance: d})
	}

	sort.SliceStable(entries, func(a, b int) bool {
		if entries[a].distance != entries[b].distance {
			return entries[a].distance < entries[b].distance
		}
		return sorted[entries[a].index].Website < sorted[entries[b].index].Website
	})

	if len(entries) > limit {
		entries = entries[:limit]
	}

	indices := make([]int, len(entries))
	for k, e := range entries {
		indices[k] = e.index
	}
	return indices
}
