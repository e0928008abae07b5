package state

import "sort"

// ViewState tracks which wishlists are expanded. It is client-local, lives
// for one session and is independent of server data; ids no longer present
// in the collection are ignored.
type ViewState struct {
	expanded map[int64]struct{}
}

// NewViewState returns an empty view state with every wishlist collapsed.
func NewViewState() *ViewState {
	return &ViewState{expanded: make(map[int64]struct{})}
}

// IsExpanded reports whether the wishlist id is expanded.
func (v *ViewState) IsExpanded(id int64) bool {
	if v == nil {
		return false
	}
	_, ok := v.expanded[id]
	return ok
}

// SetExpanded records the expansion state for id. It is a no-op on a nil
// ViewState.
func (v *ViewState) SetExpanded(id int64, expanded bool) {
	if v == nil {
		return
	}
	if v.expanded == nil {
		v.expanded = make(map[int64]struct{})
	}
	if expanded {
		v.expanded[id] = struct{}{}
		return
	}
	delete(v.expanded, id)
}

// Toggle flips the state for id and returns the new value. A nil
// ViewState stays collapsed.
func (v *ViewState) Toggle(id int64) bool {
	if v == nil {
		return false
	}
	next := !v.IsExpanded(id)
	v.SetExpanded(id, next)
	return next
}

// Expanded lists the expanded ids in ascending order.
func (v *ViewState) Expanded() []int64 {
	if v == nil {
		return nil
	}
	ids := make([]int64, 0, len(v.expanded))
	for id := range v.expanded {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Reset collapses everything.
func (v *ViewState) Reset() {
	if v == nil {
		return
	}
	v.expanded = make(map[int64]struct{})
}
