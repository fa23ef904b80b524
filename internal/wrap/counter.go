package wrap

import (
	"sort"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// counter is a string histogram that remembers first-insertion order.
// Ranking is a stable sort by count, so equal counts keep that order.
type counter struct {
	m *orderedmap.OrderedMap[string, int]
}

type rankEntry struct {
	Key   string
	Count int
}

func newCounter() counter {
	return counter{m: orderedmap.New[string, int]()}
}

func (c counter) add(key string) {
	n, _ := c.m.Get(key)
	c.m.Set(key, n+1)
}

func (c counter) entries() []rankEntry {
	out := make([]rankEntry, 0, c.m.Len())
	for pair := c.m.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, rankEntry{Key: pair.Key, Count: pair.Value})
	}
	return out
}

// ranked returns at most limit entries by descending count. limit <= 0 means all.
func (c counter) ranked(limit int) []rankEntry {
	out := c.entries()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// top returns the highest-count key, or fallback when empty.
func (c counter) top(fallback string) (string, int) {
	best := c.ranked(1)
	if len(best) == 0 {
		return fallback, 0
	}
	return best[0].Key, best[0].Count
}

func (c counter) toMap() map[string]int {
	out := make(map[string]int, c.m.Len())
	for pair := c.m.Oldest(); pair != nil; pair = pair.Next() {
		out[pair.Key] = pair.Value
	}
	return out
}
