package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToggle_IsItsOwnInverse(t *testing.T) {
	s := NewStore()

	s.Toggle("a")
	assert.True(t, s.IsSelected("a"))
	assert.True(t, s.IsSelectionMode())

	s.Toggle("a")
	assert.False(t, s.IsSelected("a"))
	assert.False(t, s.IsSelectionMode())
	assert.Equal(t, 0, s.Count())
}

func TestSelectOnly_ReplacesSelection(t *testing.T) {
	s := NewStore()

	s.Add("a")
	s.Add("b")
	s.SelectOnly("c")

	assert.Equal(t, []string{"c"}, s.SelectedIDs())
}

func TestAdd_KeepsExistingSelection(t *testing.T) {
	s := NewStore()

	s.Add("a")
	s.Add("b")
	s.Add("b") // duplicate add is a no-op

	assert.Equal(t, []string{"a", "b"}, s.SelectedIDs())
	assert.Equal(t, 2, s.Count())
}

func TestSelectRange_Ascending(t *testing.T) {
	s := NewStore()
	ordered := []string{"A", "B", "C", "D"}

	s.SelectOnly("A")
	s.SelectRange(ordered, "C")

	assert.ElementsMatch(t, []string{"A", "B", "C"}, s.SelectedIDs())
}

func TestSelectRange_Descending(t *testing.T) {
	s := NewStore()
	ordered := []string{"A", "B", "C", "D"}

	s.SelectOnly("D")
	s.SelectRange(ordered, "B")

	assert.ElementsMatch(t, []string{"B", "C", "D"}, s.SelectedIDs())
}

func TestSelectRange_ExtendsExistingSelection(t *testing.T) {
	s := NewStore()
	ordered := []string{"A", "B", "C", "D", "E"}

	s.Add("E")
	s.Add("A")
	s.SelectRange(ordered, "B")

	assert.ElementsMatch(t, []string{"A", "B", "E"}, s.SelectedIDs())
}

func TestSelectRange_NoAnchorFallsBackToSingle(t *testing.T) {
	s := NewStore()

	s.SelectRange([]string{"A", "B", "C"}, "B")

	assert.Equal(t, []string{"B"}, s.SelectedIDs())
}

func TestSelectRange_UnknownTargetFallsBackToSingle(t *testing.T) {
	s := NewStore()
	ordered := []string{"A", "B", "C"}

	s.SelectOnly("A")
	s.SelectRange(ordered, "Z")

	assert.Equal(t, []string{"Z"}, s.SelectedIDs())
}

func TestSelectRange_AnchorMissingFromOrderFallsBackToSingle(t *testing.T) {
	s := NewStore()

	s.SelectOnly("gone")
	s.SelectRange([]string{"A", "B", "C"}, "B")

	assert.Equal(t, []string{"B"}, s.SelectedIDs())
}

func TestSelectRange_TargetBecomesAnchor(t *testing.T) {
	s := NewStore()
	ordered := []string{"A", "B", "C", "D"}

	s.SelectOnly("A")
	s.SelectRange(ordered, "B")
	s.SelectRange(ordered, "D")

	assert.ElementsMatch(t, []string{"A", "B", "C", "D"}, s.SelectedIDs())
}

func TestSelectAllAndClear(t *testing.T) {
	s := NewStore()

	s.SelectAll([]string{"a", "b", "c"})
	assert.Equal(t, 3, s.Count())

	s.Clear()
	assert.Equal(t, 0, s.Count())
	assert.False(t, s.IsSelectionMode())

	// Clear also resets the anchor: the next range select is a single select.
	s.SelectRange([]string{"a", "b", "c"}, "c")
	assert.Equal(t, []string{"c"}, s.SelectedIDs())
}

func TestSubscribe_NotifiedOnEveryChange(t *testing.T) {
	s := NewStore()

	notified := 0
	unsubscribe := s.Subscribe(func() { notified++ })

	s.Add("a")
	s.Toggle("b")
	s.Clear()
	assert.Equal(t, 3, notified)

	unsubscribe()
	s.Add("c")
	assert.Equal(t, 3, notified)
}
