package aggregate

import "sort"

// IDSet is a set of entity ids. All counts go through it so that rows
// fanned out by joins are never counted twice.
type IDSet map[string]struct{}

// Add inserts id and reports whether it was new.
func (s IDSet) Add(id string) bool {
	if _, ok := s[id]; ok {
		return false
	}
	s[id] = struct{}{}
	return true
}

// Has reports membership.
func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Len is the number of distinct ids.
func (s IDSet) Len() int {
	return len(s)
}

// Sorted returns the ids in ascending order.
func (s IDSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// GroupedSet holds an IDSet per group key.
type GroupedSet map[string]IDSet

// Add records id under key.
func (g GroupedSet) Add(key, id string) {
	set, ok := g[key]
	if !ok {
		set = IDSet{}
		g[key] = set
	}
	set.Add(id)
}

// Count is the number of distinct ids under key.
func (g GroupedSet) Count(key string) int {
	return g[key].Len()
}

// Total is the number of distinct ids across all groups.
func (g GroupedSet) Total() int {
	all := IDSet{}
	for _, set := range g {
		for id := range set {
			all.Add(id)
		}
	}
	return all.Len()
}

// KeysByCount orders keys by count descending, then key ascending.
func (g GroupedSet) KeysByCount() []string {
	keys := make([]string, 0, len(g))
	for k := range g {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ci, cj := g.Count(keys[i]), g.Count(keys[j])
		if ci != cj {
			return ci > cj
		}
		return keys[i] < keys[j]
	})
	return keys
}
