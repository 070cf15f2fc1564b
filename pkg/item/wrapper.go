package item

import (
	"github.com/openpeace/peace/pkg/ident"
	"github.com/openpeace/peace/pkg/resource"
)

// Interface is the type-erased form of Item[P, PA, S, Diff, Dt], the
// shape CmdBlocks and Flow's graph actually store (spec §4.4: "the
// wrapper adapter erases the associated types into trait objects
// carrying type names and (de)serialization thunks"). Params, partials,
// states and diffs cross this boundary as `any` and are downcast inside
// the Wrap adapter, which is the one place that still knows the concrete
// types.
type Interface interface {
	ID() ident.ItemID
	Setup(rm *resource.Map) error

	// FetchData builds this item's Data aggregate from rm via the
	// DataFetcher supplied to Wrap, boxed as `any` for the caller (a
	// CmdBlock) to thread into the other lifecycle methods below. A
	// wrapper with no DataFetcher returns its Dt's zero value.
	FetchData(rm *resource.Map) (any, error)

	ParamsTypeName() string
	StateTypeName() string
	DiffTypeName() string

	StateClean(partial any, data any) (any, error)
	TryStateCurrent(fnCtx FnCtx, partial any, data any) (any, error)
	StateCurrent(fnCtx FnCtx, params any, data any) (any, error)
	TryStateGoal(fnCtx FnCtx, partial any, data any) (any, error)
	StateGoal(fnCtx FnCtx, params any, data any) (any, error)
	StateDiff(partial any, data any, current, goal any) (any, error)
	ApplyCheck(params any, data any, current, target, diff any) (ApplyCheckResult, error)
	ApplyDry(fnCtx FnCtx, params any, data any, current, target, diff any) (any, error)
	Apply(fnCtx FnCtx, params any, data any, current, target, diff any) (any, error)

	// StateEqual compares two boxed states for equality, used to compare a
	// stored state with a freshly discovered one (ApplyStateSyncCheck, the
	// status command) (spec §4.1: "state_eq").
	StateEqual(a, b any) bool
}

// DataFetcher builds an item's Data aggregate by borrowing from rm. The
// item is responsible for releasing any resource.Borrow/BorrowMut it
// holds onto once its lifecycle call returns; the wrapper only owns
// construction, not teardown, matching the item-defined-aggregate
// ownership model described in spec §4.1.
type DataFetcher[Dt any] func(rm *resource.Map) (Dt, error)

type wrapper[P Params[PA], PA Partial[P], S any, Diff any, Dt any] struct {
	item  Item[P, PA, S, Diff, Dt]
	fetch DataFetcher[Dt]
}

// Wrap adapts a concrete Item into the type-erased Interface a Flow's
// graph stores. fetch builds the item's Data aggregate from the shared
// ResourceMap each time FetchData is called.
func Wrap[P Params[PA], PA Partial[P], S any, Diff any, Dt any](
	it Item[P, PA, S, Diff, Dt],
	fetch DataFetcher[Dt],
) Interface {
	return &wrapper[P, PA, S, Diff, Dt]{item: it, fetch: fetch}
}

func (w *wrapper[P, PA, S, Diff, Dt]) ID() ident.ItemID { return w.item.ID() }

func (w *wrapper[P, PA, S, Diff, Dt]) Setup(rm *resource.Map) error {
	return w.item.Setup(rm)
}

func (w *wrapper[P, PA, S, Diff, Dt]) ParamsTypeName() string {
	var zero P
	return typeName(zero)
}

func (w *wrapper[P, PA, S, Diff, Dt]) StateTypeName() string {
	var zero S
	return typeName(zero)
}

func (w *wrapper[P, PA, S, Diff, Dt]) DiffTypeName() string {
	var zero Diff
	return typeName(zero)
}

func (w *wrapper[P, PA, S, Diff, Dt]) data(rm *resource.Map) (Dt, error) {
	if w.fetch == nil {
		var zero Dt
		return zero, nil
	}
	return w.fetch(rm)
}

func (w *wrapper[P, PA, S, Diff, Dt]) FetchData(rm *resource.Map) (any, error) {
	return w.data(rm)
}

func (w *wrapper[P, PA, S, Diff, Dt]) StateClean(partial any, data any) (any, error) {
	pa, dt := partial.(PA), data.(Dt)
	return w.item.StateClean(pa, dt)
}

func (w *wrapper[P, PA, S, Diff, Dt]) TryStateCurrent(fnCtx FnCtx, partial any, data any) (any, error) {
	pa, dt := partial.(PA), data.(Dt)
	s, err := w.item.TryStateCurrent(fnCtx, pa, dt)
	if err != nil || s == nil {
		return nil, err
	}
	return *s, nil
}

func (w *wrapper[P, PA, S, Diff, Dt]) StateCurrent(fnCtx FnCtx, params any, data any) (any, error) {
	p, dt := params.(P), data.(Dt)
	return w.item.StateCurrent(fnCtx, p, dt)
}

func (w *wrapper[P, PA, S, Diff, Dt]) TryStateGoal(fnCtx FnCtx, partial any, data any) (any, error) {
	pa, dt := partial.(PA), data.(Dt)
	s, err := w.item.TryStateGoal(fnCtx, pa, dt)
	if err != nil || s == nil {
		return nil, err
	}
	return *s, nil
}

func (w *wrapper[P, PA, S, Diff, Dt]) StateGoal(fnCtx FnCtx, params any, data any) (any, error) {
	p, dt := params.(P), data.(Dt)
	return w.item.StateGoal(fnCtx, p, dt)
}

func (w *wrapper[P, PA, S, Diff, Dt]) StateDiff(partial any, data any, current, goal any) (any, error) {
	pa, dt := partial.(PA), data.(Dt)
	cur, gl := current.(S), goal.(S)
	return w.item.StateDiff(pa, dt, cur, gl)
}

func (w *wrapper[P, PA, S, Diff, Dt]) ApplyCheck(params any, data any, current, target, diff any) (ApplyCheckResult, error) {
	p, dt := params.(P), data.(Dt)
	cur, tgt, df := current.(S), target.(S), diff.(Diff)
	return w.item.ApplyCheck(p, dt, cur, tgt, df)
}

func (w *wrapper[P, PA, S, Diff, Dt]) ApplyDry(fnCtx FnCtx, params any, data any, current, target, diff any) (any, error) {
	p, dt := params.(P), data.(Dt)
	cur, tgt, df := current.(S), target.(S), diff.(Diff)
	return w.item.ApplyDry(fnCtx, p, dt, cur, tgt, df)
}

func (w *wrapper[P, PA, S, Diff, Dt]) Apply(fnCtx FnCtx, params any, data any, current, target, diff any) (any, error) {
	p, dt := params.(P), data.(Dt)
	cur, tgt, df := current.(S), target.(S), diff.(Diff)
	return w.item.Apply(fnCtx, p, dt, cur, tgt, df)
}

func (w *wrapper[P, PA, S, Diff, Dt]) StateEqual(a, b any) bool {
	sa, okA := a.(S)
	sb, okB := b.(S)
	if !okA || !okB {
		return false
	}
	if eq, ok := any(sa).(interface{ StateEqual(other any) bool }); ok {
		return eq.StateEqual(sb)
	}
	return deepEqual(sa, sb)
}
