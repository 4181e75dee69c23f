package typegen

import "github.com/teranos/contentful-typegen/contentful"

// TypeSet is the set of content type ids taking part in one generation run.
// Entry links are only narrowed to targets in the set.
type TypeSet struct {
	ids   []string
	index map[string]struct{}
}

// NewTypeSet builds a set from ids, keeping first-seen order.
func NewTypeSet(ids ...string) TypeSet {
	s := TypeSet{index: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		if _, ok := s.index[id]; ok {
			continue
		}
		s.index[id] = struct{}{}
		s.ids = append(s.ids, id)
	}
	return s
}

// TypeSetOf collects the ids of contentTypes.
func TypeSetOf(contentTypes []contentful.ContentType) TypeSet {
	ids := make([]string, len(contentTypes))
	for i, ct := range contentTypes {
		ids[i] = ct.ID()
	}
	return NewTypeSet(ids...)
}

// Has reports whether id is part of the run.
func (s TypeSet) Has(id string) bool {
	_, ok := s.index[id]
	return ok
}

// IDs returns the ids in insertion order.
func (s TypeSet) IDs() []string {
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

// Len returns the number of distinct ids.
func (s TypeSet) Len() int {
	return len(s.ids)
}
