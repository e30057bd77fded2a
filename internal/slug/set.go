package slug

import "strings"

// Set is a case-insensitive collection of reserved slugs.
type Set interface {
	// Contains reports whether slug is in the set.
	Contains(slug string) bool

	// Size returns the number of entries in the set.
	Size() int
}

// mapSet implements Set using a map for O(1) lookups.
type mapSet struct {
	entries map[string]struct{}
}

func newMapSet(capacity int) *mapSet {
	return &mapSet{entries: make(map[string]struct{}, capacity)}
}

// NewSet creates a set holding the given entries.
func NewSet(entries ...string) Set {
	s := newMapSet(len(entries))
	for _, e := range entries {
		s.Add(e)
	}
	return s
}

func (s *mapSet) Contains(slug string) bool {
	_, ok := s.entries[strings.ToLower(strings.TrimSpace(slug))]
	return ok
}

func (s *mapSet) Size() int {
	return len(s.entries)
}

// Add inserts slug in its lowercase form. Blank entries are ignored.
func (s *mapSet) Add(slug string) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return
	}
	s.entries[slug] = struct{}{}
}

func (s *mapSet) merge(other Set) {
	if m, ok := other.(*mapSet); ok {
		for e := range m.entries {
			s.entries[e] = struct{}{}
		}
	}
}
