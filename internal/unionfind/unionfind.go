// Package unionfind partitions websites into visually-similar groups from
// a set of linking edges, per spec.md §4.K. Grounded on
// original_source/src/group/unionfind.py (path compression + union by
// rank) and on the concurrent variant documented in the pack's
// pantyukhov-distance-hashing/doc.go — this single-threaded pipeline use
// doesn't need that package's RWMutex, so it is omitted here.
package unionfind

import "sort"

// UnionFind is a disjoint-set-union over string keys.
type UnionFind struct {
	parent map[string]string
	rank   map[string]int
}

// New creates a UnionFind with every key in its own singleton set.
func New(keys []string) *UnionFind {
	uf := &UnionFind{
		parent: make(map[string]string, len(keys)),
		rank:   make(map[string]int, len(keys)),
	}
	for _, k := range keys {
		uf.parent[k] = k
		uf.rank[k] = 0
	}
	return uf
}

// Add registers key as its own singleton set if not already present.
func (uf *UnionFind) Add(key string) {
	if _, ok := uf.parent[key]; !ok {
		uf.parent[key] = key
		uf.rank[key] = 0
	}
}

// Find returns the representative of key's set, path-compressing via an
// iterative two-pass walk (find root, then relink every visited node
// directly to it) per the redesign noted in SPEC_FULL.md §9.
func (uf *UnionFind) Find(key string) string {
	root, ok := uf.parent[key]
	if !ok {
		return key
	}
	for root != uf.parent[root] {
		root = uf.parent[root]
	}

	cur := key
	for cur != root {
		next := uf.parent[cur]
		uf.parent[cur] = root
		cur = next
	}
	return root
}

// Union merges the sets containing a and b, using union by rank.
func (uf *UnionFind) Union(a, b string) {
	uf.Add(a)
	uf.Add(b)
	rootA, rootB := uf.Find(a), uf.Find(b)
	if rootA == rootB {
		return
	}

	rankA, rankB := uf.rank[rootA], uf.rank[rootB]
	switch {
	case rankA < rankB:
		uf.parent[rootA] = rootB
	case rankA > rankB:
		uf.parent[rootB] = rootA
	default:
		uf.parent[rootB] = rootA
		uf.rank[rootA]++
	}
}

// Group is a connected component: an id (its lexicographically-smallest
// member) and its sorted members.
type Group struct {
	ID      string
	Members []string
}

// Groups returns every connected component, sorted by descending size
// then ascending id, with members sorted ascending, per spec.md §4.K.
func (uf *UnionFind) Groups() []Group {
	byRoot := make(map[string][]string)
	for key := range uf.parent {
		root := uf.Find(key)
		byRoot[root] = append(byRoot[root], key)
	}

	groups := make([]Group, 0, len(byRoot))
	for _, members := range byRoot {
		sort.Strings(members)
		groups = append(groups, Group{ID: members[0], Members: members})
	}

	sort.Slice(groups, func(i, j int) bool {
		if len(groups[i].Members) != len(groups[j].Members) {
			return len(groups[i].Members) > len(groups[j].Members)
		}
		return groups[i].ID < groups[j].ID
	})
	return groups
}
