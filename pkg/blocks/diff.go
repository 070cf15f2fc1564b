package blocks

import (
	"github.com/openpeace/peace/pkg/cmdblock"
	"github.com/openpeace/peace/pkg/cmdctx"
	"github.com/openpeace/peace/pkg/ident"
	"github.com/openpeace/peace/pkg/resource"
	"github.com/openpeace/peace/pkg/states"
)

// Diff is DiffCmd (spec §4.5's table: "DiffCmd | (States<A>, States<B>) |
// (StateDiffs, States<A>, States<B>)"): it compares two already-discovered
// States maps item by item and produces a StateDiffs, re-inserting the
// two input maps unchanged since CmdExecution's persistence step moves
// whatever outcome tuple a block returns back into the ResourceMap (spec
// §4.6 step 4) — Diff's own job is purely comparison, not discovery, so A
// and B pass through untouched.
type Diff[A, B any] struct{}

func (b *Diff[A, B]) Desc() string { return "Diff" }

func (b *Diff[A, B]) InputNamesShort() []string {
	return []string{resource.TypeName[states.States[A]](), resource.TypeName[states.States[B]]()}
}
func (b *Diff[A, B]) InputNamesFull() []string {
	return []string{resource.TypeNameFull[states.States[A]](), resource.TypeNameFull[states.States[B]]()}
}
func (b *Diff[A, B]) OutcomeNamesShort() []string {
	return []string{
		resource.TypeName[states.StateDiffs](),
		resource.TypeName[states.States[A]](),
		resource.TypeName[states.States[B]](),
	}
}
func (b *Diff[A, B]) OutcomeNamesFull() []string {
	return []string{
		resource.TypeNameFull[states.StateDiffs](),
		resource.TypeNameFull[states.States[A]](),
		resource.TypeNameFull[states.States[B]](),
	}
}

func (b *Diff[A, B]) CheckInputs(rm *resource.Map) error {
	if err := cmdblock.CheckResourcePresent[states.States[A]](rm); err != nil {
		return err
	}
	return cmdblock.CheckResourcePresent[states.States[B]](rm)
}

func (b *Diff[A, B]) Exec(cc *cmdctx.CmdCtx, itemIDs []ident.ItemID) cmdblock.Result {
	borrowA, err := resource.TryBorrow[states.States[A]](cc.Resources)
	if err != nil {
		return failAll(itemIDs, err)
	}
	borrowB, err := resource.TryBorrow[states.States[B]](cc.Resources)
	if err != nil {
		return failAll(itemIDs, err)
	}
	a, bState := borrowA.Value(), borrowB.Value()
	borrowA.Release()
	borrowB.Release()

	diffs := states.NewStateDiffs()
	result := cmdblock.RunItems(cc.Interrupt, itemIDs, func(id ident.ItemID) (struct{}, error) {
		currentVal, _, hasCurrent := a.Map.Get(id)
		goalVal, _, hasGoal := bState.Map.Get(id)
		if !hasCurrent || !hasGoal {
			return struct{}{}, nil
		}

		it, err := boxedItem(cc, id)
		if err != nil {
			return struct{}{}, err
		}
		partial, err := resolvePartial(cc, id)
		if err != nil {
			return struct{}{}, err
		}
		data, err := it.FetchData(cc.Resources)
		if err != nil {
			return struct{}{}, err
		}

		diff, err := it.StateDiff(partial, data, currentVal, goalVal)
		if err != nil {
			return struct{}{}, err
		}
		diffs.Insert(id, diff)
		return struct{}{}, nil
	}, runOptionsFrom(cc))

	stream := cmdblock.NewItemStreamOutcome(diffs)
	stream.Processed = result.Processed
	stream.NotProcessed = result.NotProcessed

	if result.Interrupted {
		return cmdblock.Interrupted(stream)
	}
	if len(result.Errors) > 0 {
		return cmdblock.ItemErr(stream, result.Errors)
	}

	resource.Insert(cc.Resources, diffs)
	resource.Insert(cc.Resources, a)
	resource.Insert(cc.Resources, bState)
	return cmdblock.Complete(diffs)
}

// failAll builds an ItemError result naming every item, used when a
// block-level (not per-item) precondition like a borrow fails outright.
func failAll(itemIDs []ident.ItemID, err error) cmdblock.Result {
	stream := cmdblock.NewItemStreamOutcome(nil)
	stream.NotProcessed = itemIDs
	errs := make(map[ident.ItemID]error, len(itemIDs))
	for _, id := range itemIDs {
		errs[id] = err
	}
	return cmdblock.ItemErr(stream, errs)
}
