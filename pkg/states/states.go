// Package states implements States<Phase>, the ResourceMap-stored
// wrapper around an item.StateMap tagged by which phase discovered it
// (spec §4.5's block table: States<Current>, States<Goal>,
// States<CurrentStored>, States<GoalStored>, States<Previous>,
// States<Applied>, States<Clean>).
//
// pkg/resource.Map keys slots on reflect.Type, so States[Current] and
// States[Goal] already occupy distinct slots purely from Go's generic
// instantiation — no separate named struct per phase is needed the way
// original_source's peace_resources::type_reg-tagged newtypes
// (StatesCurrent, StatesGoal, ...) are, since Rust's monomorphization and
// Go's reflect.Type-per-instantiation land in the same place here.
package states

import "github.com/openpeace/peace/pkg/item"

// Phase tags which discovery pass produced a States<Phase> value. The
// marker types below carry no data; they only exist to instantiate a
// distinct States[Phase] per phase.
type (
	// Current is state read by direct discovery against the real world.
	Current struct{}
	// Goal is state computed from an item's desired-state logic.
	Goal struct{}
	// CurrentStored is current state as last persisted to
	// states_current.yaml, read without re-discovering.
	CurrentStored struct{}
	// GoalStored is goal state as last persisted to states_goal.yaml.
	GoalStored struct{}
	// Previous is the current state captured immediately before an
	// apply ran, so a caller can diff what changed.
	Previous struct{}
	// Applied (originally "Ensured") is the state apply produced.
	Applied struct{}
	// Clean is the "nothing has ever been applied" state produced by
	// Item.StateClean, used by the clean command and from-scratch plans.
	Clean struct{}
)

// States is an item.StateMap tagged with a discovery phase, the type a
// CmdBlock declares as an input or outcome (spec §4.5).
type States[Phase any] struct {
	Map *item.StateMap
}

// New returns an empty States[Phase] wrapping a fresh StateMap.
func New[Phase any]() States[Phase] {
	return States[Phase]{Map: item.NewStateMap()}
}

// Wrap adapts an already-populated StateMap into a States[Phase],
// e.g. after reading one back from YAML via pkg/storage.
func Wrap[Phase any](m *item.StateMap) States[Phase] {
	return States[Phase]{Map: m}
}

// Len returns the number of item entries.
func (s States[Phase]) Len() int { return s.Map.Len() }
