package item

import "github.com/openpeace/peace/pkg/ident"

// StateMap holds one boxed state value (type `any`, since different items
// in the same Flow have different concrete S types) per ItemID, tagged
// with which purpose it was discovered for (current, goal, or clean) by
// the caller's own naming convention — a StatesCurrent, StatesGoal, and
// StatesClean are all a *StateMap under the hood.
//
// Per-item, a StateMap distinguishes two independent layers (grounded on
// original_source crate/resource_rt/src/states.rs's design note: "entry
// for each item, regardless of whether a State is recorded"):
//
//   - HasEntry: whether the item has a slot in this map at all. An item
//     added to the Flow after this map was last persisted has no entry.
//   - HasState: given an entry exists, whether a state was actually
//     discovered for it. TryStateCurrent returning nil for a not-yet-
//     creatable resource still gets an entry, with HasState false.
//
// Go's map already discriminates "key absent" from "key present"; what it
// can't discriminate on its own is "key present, but this slot's value is
// intentionally empty" versus "key present, holding the zero value",
// which is why entries are stored as *stateSlot rather than bare `any`.
type StateMap struct {
	entries map[ident.ItemID]*stateSlot
}

type stateSlot struct {
	value    any
	hasState bool
}

// NewStateMap returns an empty StateMap.
func NewStateMap() *StateMap {
	return &StateMap{entries: make(map[ident.ItemID]*stateSlot)}
}

// NewStateMapWithCapacity returns an empty StateMap pre-sized for n items.
func NewStateMapWithCapacity(n int) *StateMap {
	return &StateMap{entries: make(map[ident.ItemID]*stateSlot, n)}
}

// InsertState records a discovered state for id.
func (m *StateMap) InsertState(id ident.ItemID, state any) {
	m.entries[id] = &stateSlot{value: state, hasState: true}
}

// InsertNoState records that id has an entry but no state was discovered.
func (m *StateMap) InsertNoState(id ident.ItemID) {
	m.entries[id] = &stateSlot{hasState: false}
}

// Get returns (value, hasEntry, hasState). hasEntry is false if id has no
// slot in this map at all; hasState is only meaningful when hasEntry is
// true, and reports whether that slot actually holds a state.
func (m *StateMap) Get(id ident.ItemID) (value any, hasEntry bool, hasState bool) {
	slot, ok := m.entries[id]
	if !ok {
		return nil, false, false
	}
	return slot.value, true, slot.hasState
}

// Contains reports whether id has an entry (regardless of HasState).
func (m *StateMap) Contains(id ident.ItemID) bool {
	_, ok := m.entries[id]
	return ok
}

// Len returns the number of entries (with or without a recorded state).
func (m *StateMap) Len() int { return len(m.entries) }

// IDs returns the set of item IDs with an entry, in no particular order.
func (m *StateMap) IDs() []ident.ItemID {
	ids := make([]ident.ItemID, 0, len(m.entries))
	for id := range m.entries {
		ids = append(ids, id)
	}
	return ids
}

// Each iterates entries in map order, yielding (id, value, hasState). It
// stops early if fn returns false.
func (m *StateMap) Each(fn func(id ident.ItemID, value any, hasState bool) bool) {
	for id, slot := range m.entries {
		if !fn(id, slot.value, slot.hasState) {
			return
		}
	}
}
