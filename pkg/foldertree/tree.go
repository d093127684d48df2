// Package foldertree derives a rooted forest from a flat folder list and
// tracks which nodes are expanded in the sidebar.
package foldertree

import (
	"sync"

	"github.com/lumapix/lumapix-client/pkg/models"
)

// Tree composes a flat, ordered folder list into a forest and carries the
// expansion set for rendering. Folders whose declared parent is absent from
// the list are unreachable in the rendered forest; that silent-orphan
// condition mirrors the backend contract and is not defended against.
// Safe for concurrent use.
type Tree struct {
	mu       sync.RWMutex
	folders  []models.Folder
	byID     map[string]models.Folder
	roots    []models.Folder
	children map[string][]models.Folder
	expanded map[string]struct{}

	subs    map[int]func()
	nextSub int
}

// New builds a tree from a flat folder list. Original list order is
// preserved among roots and among siblings.
func New(folders []models.Folder) *Tree {
	t := &Tree{
		expanded: make(map[string]struct{}),
		subs:     make(map[int]func()),
	}
	t.index(folders)
	return t
}

// SetFolders replaces the folder list, keeping the current expansion set.
func (t *Tree) SetFolders(folders []models.Folder) {
	t.mu.Lock()
	t.index(folders)
	t.unlockAndNotify()
}

// index rebuilds the derived maps. Lock must be held (or the tree unshared).
func (t *Tree) index(folders []models.Folder) {
	t.folders = make([]models.Folder, len(folders))
	copy(t.folders, folders)

	t.byID = make(map[string]models.Folder, len(folders))
	t.roots = nil
	t.children = make(map[string][]models.Folder)

	for _, f := range t.folders {
		t.byID[f.ID] = f
		if f.IsRoot() {
			t.roots = append(t.roots, f)
		} else {
			pid := *f.ParentID
			t.children[pid] = append(t.children[pid], f)
		}
	}
}

// Roots returns the folders with no parent, in original list order.
func (t *Tree) Roots() []models.Folder {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]models.Folder(nil), t.roots...)
}

// ChildrenOf returns the direct children of id in original list order.
// An unknown id yields an empty result.
func (t *Tree) ChildrenOf(id string) []models.Folder {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]models.Folder(nil), t.children[id]...)
}

// Get returns the folder with the given id.
func (t *Tree) Get(id string) (models.Folder, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	f, ok := t.byID[id]
	return f, ok
}

// Len returns the number of folders in the list.
func (t *Tree) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.folders)
}

// Toggle flips the expansion state of id.
func (t *Tree) Toggle(id string) {
	t.mu.Lock()
	if _, ok := t.expanded[id]; ok {
		delete(t.expanded, id)
	} else {
		t.expanded[id] = struct{}{}
	}
	t.unlockAndNotify()
}

// Expand marks id expanded without collapsing anything else.
func (t *Tree) Expand(id string) {
	t.mu.Lock()
	t.expanded[id] = struct{}{}
	t.unlockAndNotify()
}

// Collapse marks id collapsed.
func (t *Tree) Collapse(id string) {
	t.mu.Lock()
	delete(t.expanded, id)
	t.unlockAndNotify()
}

// IsExpanded reports whether id is expanded.
func (t *Tree) IsExpanded(id string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.expanded[id]
	return ok
}

// AutoExpandPath expands every identifier along a root-to-node path.
// Idempotent; never collapses.
func (t *Tree) AutoExpandPath(pathIDs []string) {
	t.mu.Lock()
	for _, id := range pathIDs {
		t.expanded[id] = struct{}{}
	}
	t.unlockAndNotify()
}

// PathTo returns the root-to-node identifier path for id by following
// parent links. The walk stops at a root or at an orphaned link; an
// unknown id yields nil.
func (t *Tree) PathTo(id string) []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	f, ok := t.byID[id]
	if !ok {
		return nil
	}

	var reversed []string
	for {
		reversed = append(reversed, f.ID)
		if f.IsRoot() {
			break
		}
		parent, ok := t.byID[*f.ParentID]
		if !ok {
			break
		}
		f = parent
	}

	path := make([]string, len(reversed))
	for i, v := range reversed {
		path[len(reversed)-1-i] = v
	}
	return path
}

// Walk visits the forest top-down, calling fn with each visible folder and
// its depth. Children are visited only under expanded folders; indentation
// is a pure function of depth.
func (t *Tree) Walk(fn func(f models.Folder, depth int)) {
	t.mu.RLock()
	roots := append([]models.Folder(nil), t.roots...)
	t.mu.RUnlock()

	for _, f := range roots {
		t.walk(f, 0, fn)
	}
}

func (t *Tree) walk(f models.Folder, depth int, fn func(models.Folder, int)) {
	fn(f, depth)
	if !t.IsExpanded(f.ID) {
		return
	}
	for _, child := range t.ChildrenOf(f.ID) {
		t.walk(child, depth+1, fn)
	}
}

// Subscribe registers fn to be called after every tree or expansion change.
// The returned function removes the subscription.
func (t *Tree) Subscribe(fn func()) func() {
	t.mu.Lock()
	defer t.mu.Unlock()

	id := t.nextSub
	t.nextSub++
	t.subs[id] = fn

	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		delete(t.subs, id)
	}
}

func (t *Tree) unlockAndNotify() {
	fns := make([]func(), 0, len(t.subs))
	for _, fn := range t.subs {
		fns = append(fns, fn)
	}
	t.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
