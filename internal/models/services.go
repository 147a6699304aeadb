package models

import "sort"

// ServiceSet is a set of lower-case service names
type ServiceSet map[string]struct{}

// NewServiceSet returns a set holding the given names
func NewServiceSet(names ...string) ServiceSet {
	s := make(ServiceSet, len(names))
	for _, n := range names {
		s.Add(n)
	}
	return s
}

// Add inserts a name; empty names are ignored
func (s ServiceSet) Add(name string) {
	if name == "" {
		return
	}
	s[name] = struct{}{}
}

// Has reports membership
func (s ServiceSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Sorted returns the members in ascending order
func (s ServiceSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for name := range s {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
