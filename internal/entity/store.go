package entity

import "sort"

// Store is the ordered collection of entities on a canvas. Order is both the
// draw order and the hit-test order. With auto-sort enabled the store is kept
// stably sorted by ascending priority.
type Store struct {
	items    []*Entity
	autoSort bool
}

// NewStore creates an empty store with auto-sort enabled.
func NewStore() *Store {
	return &Store{autoSort: true}
}

// SetAutoSort toggles priority sorting. Enabling it sorts immediately.
func (s *Store) SetAutoSort(on bool) {
	s.autoSort = on
	s.Sort()
}

// Sort stably sorts by priority when auto-sort is enabled.
func (s *Store) Sort() {
	if s.autoSort {
		s.SortByPriority()
	}
}

// SortByPriority stably sorts by priority regardless of the auto-sort flag.
func (s *Store) SortByPriority() {
	sort.SliceStable(s.items, func(i, j int) bool {
		return s.items[i].Priority < s.items[j].Priority
	})
}

// Add appends entities and re-sorts.
func (s *Store) Add(es ...*Entity) {
	s.items = append(s.items, es...)
	s.Sort()
}

// Replace swaps the whole backing collection.
func (s *Store) Replace(es []*Entity) {
	s.items = append([]*Entity(nil), es...)
}

// RemoveFunc deletes every entity matching pred and returns how many went.
func (s *Store) RemoveFunc(pred func(*Entity) bool) int {
	kept := s.items[:0]
	for _, e := range s.items {
		if !pred(e) {
			kept = append(kept, e)
		}
	}
	removed := len(s.items) - len(kept)
	for i := len(kept); i < len(s.items); i++ {
		s.items[i] = nil
	}
	s.items = kept
	return removed
}

// Clear removes everything.
func (s *Store) Clear() {
	s.items = nil
}

// Len returns the number of entities.
func (s *Store) Len() int {
	return len(s.items)
}

// All returns the entities in store order. The slice is a copy.
func (s *Store) All() []*Entity {
	return append([]*Entity(nil), s.items...)
}

// Each calls f for every entity in store order.
func (s *Store) Each(f func(*Entity)) {
	for _, e := range s.items {
		f(e)
	}
}

// Selected returns the selected entities in store order.
func (s *Store) Selected() []*Entity {
	var out []*Entity
	for _, e := range s.items {
		if e.Selected {
			out = append(out, e)
		}
	}
	return out
}

// ClearSelection deselects everything and returns how many were selected.
func (s *Store) ClearSelection() int {
	n := 0
	for _, e := range s.items {
		if e.Selected {
			e.Selected = false
			n++
		}
	}
	return n
}

// Count returns the number of entities in a family.
func (s *Store) Count(f Family) int {
	n := 0
	for _, e := range s.items {
		if e.Family() == f {
			n++
		}
	}
	return n
}

// WipeGarbage removes wires shorter than one lambda.
func (s *Store) WipeGarbage() int {
	return s.RemoveFunc((*Entity).Degenerate)
}

// ByID finds an entity by its ID.
func (s *Store) ByID(id string) *Entity {
	for _, e := range s.items {
		if e.ID == id {
			return e
		}
	}
	return nil
}
