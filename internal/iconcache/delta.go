package iconcache

import "sort"

// Delta is the difference between the icons a cache needs and the icons it has.
type Delta struct {
	Stale   []string // cached but no longer required
	Missing []string // required but not cached
}

// ComputeDelta returns stale = cached − required and missing = required −
// cached. Both results are sorted and free of duplicates.
func ComputeDelta(required, cached []string) Delta {
	requiredSet := toSet(required)
	cachedSet := toSet(cached)

	var delta Delta
	for key := range cachedSet {
		if _, ok := requiredSet[key]; !ok {
			delta.Stale = append(delta.Stale, key)
		}
	}
	for key := range requiredSet {
		if _, ok := cachedSet[key]; !ok {
			delta.Missing = append(delta.Missing, key)
		}
	}
	sort.Strings(delta.Stale)
	sort.Strings(delta.Missing)
	return delta
}

// Empty reports whether the cache already matches the required set.
func (d Delta) Empty() bool {
	return len(d.Stale) == 0 && len(d.Missing) == 0
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
