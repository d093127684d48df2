// Package selection tracks the set of selected media identifiers and the
// anchor used for range extension.
package selection

import "sync"

// Store is a multi-select set with a range anchor. The anchor, when
// non-empty, is the identifier of the most recent selection-affecting
// action; it is only consulted by SelectRange and never rendered.
//
// All mutations are local; callers drive bulk API operations separately
// using SelectedIDs. Safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	selected map[string]struct{}
	order    []string
	anchor   string

	subs    map[int]func()
	nextSub int
}

// NewStore creates an empty selection store.
func NewStore() *Store {
	return &Store{
		selected: make(map[string]struct{}),
		subs:     make(map[int]func()),
	}
}

// Subscribe registers fn to be called after every selection change.
// The returned function removes the subscription.
func (s *Store) Subscribe(fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// Toggle flips membership of id and makes it the anchor.
func (s *Store) Toggle(id string) {
	s.mu.Lock()
	if _, ok := s.selected[id]; ok {
		s.remove(id)
	} else {
		s.add(id)
	}
	s.anchor = id
	s.unlockAndNotify()
}

// SelectOnly resets the selection to exactly {id} and anchors there.
func (s *Store) SelectOnly(id string) {
	s.mu.Lock()
	s.reset()
	s.add(id)
	s.anchor = id
	s.unlockAndNotify()
}

// Add selects id without deselecting others and makes it the anchor.
func (s *Store) Add(id string) {
	s.mu.Lock()
	s.add(id)
	s.anchor = id
	s.unlockAndNotify()
}

// SelectRange extends the selection from the current anchor to toID,
// selecting every identifier between their positions in ordered
// (inclusive, either direction). Without an anchor, or when either
// endpoint is absent from ordered, it falls back to SelectOnly(toID).
// toID becomes the new anchor.
func (s *Store) SelectRange(ordered []string, toID string) {
	s.mu.Lock()

	from := -1
	to := -1
	for i, id := range ordered {
		if id == s.anchor {
			from = i
		}
		if id == toID {
			to = i
		}
	}

	if s.anchor == "" || from < 0 || to < 0 {
		s.reset()
		s.add(toID)
	} else {
		if from > to {
			from, to = to, from
		}
		for _, id := range ordered[from : to+1] {
			s.add(id)
		}
	}
	s.anchor = toID
	s.unlockAndNotify()
}

// SelectAll replaces the selection with every given identifier.
func (s *Store) SelectAll(ids []string) {
	s.mu.Lock()
	s.reset()
	for _, id := range ids {
		s.add(id)
	}
	s.unlockAndNotify()
}

// Clear empties the selection and resets the anchor.
func (s *Store) Clear() {
	s.mu.Lock()
	s.reset()
	s.anchor = ""
	s.unlockAndNotify()
}

// IsSelectionMode reports whether any item is selected.
func (s *Store) IsSelectionMode() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.selected) > 0
}

// Count returns the number of selected items.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.selected)
}

// IsSelected reports whether id is selected.
func (s *Store) IsSelected(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.selected[id]
	return ok
}

// SelectedIDs returns the selected identifiers in selection order.
func (s *Store) SelectedIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, len(s.order))
	copy(ids, s.order)
	return ids
}

// add inserts id preserving selection order. Lock must be held.
func (s *Store) add(id string) {
	if _, ok := s.selected[id]; ok {
		return
	}
	s.selected[id] = struct{}{}
	s.order = append(s.order, id)
}

// remove deletes id from the set and order. Lock must be held.
func (s *Store) remove(id string) {
	delete(s.selected, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}

// reset empties the set. Lock must be held.
func (s *Store) reset() {
	s.selected = make(map[string]struct{})
	s.order = s.order[:0]
}

// unlockAndNotify releases the lock and invokes subscribers outside it.
func (s *Store) unlockAndNotify() {
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
