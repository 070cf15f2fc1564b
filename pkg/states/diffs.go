package states

import "github.com/openpeace/peace/pkg/ident"

// StateDiffs holds one boxed Diff value (type `any`, since every item in
// a flow has its own concrete Diff type) per ItemID, produced by a
// DiffCmd block comparing two States maps (spec §4.5:
// "DiffCmd | (States<A>, States<B>) | (StateDiffs, States<A>, States<B>)").
type StateDiffs struct {
	entries map[ident.ItemID]any
}

// NewStateDiffs returns an empty StateDiffs.
func NewStateDiffs() *StateDiffs {
	return &StateDiffs{entries: make(map[ident.ItemID]any)}
}

// Insert records the diff computed for id.
func (d *StateDiffs) Insert(id ident.ItemID, diff any) {
	d.entries[id] = diff
}

// Get returns the diff recorded for id, if any.
func (d *StateDiffs) Get(id ident.ItemID) (any, bool) {
	v, ok := d.entries[id]
	return v, ok
}

// Len returns the number of recorded diffs.
func (d *StateDiffs) Len() int { return len(d.entries) }

// Each iterates diffs in map order, stopping early if fn returns false.
func (d *StateDiffs) Each(fn func(id ident.ItemID, diff any) bool) {
	for id, v := range d.entries {
		if !fn(id, v) {
			return
		}
	}
}
