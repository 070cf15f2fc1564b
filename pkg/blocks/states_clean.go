package blocks

import (
	"github.com/openpeace/peace/pkg/cmdblock"
	"github.com/openpeace/peace/pkg/cmdctx"
	"github.com/openpeace/peace/pkg/ident"
	"github.com/openpeace/peace/pkg/resource"
	"github.com/openpeace/peace/pkg/states"
)

// StatesClean computes each item's "nothing has ever been applied" state
// via Item.StateClean (supplemented feature, grounded on original_source
// workspace_tests/src/rt/clean_cmd.rs: CleanCmd discovers a from-scratch
// state, then runs the usual diff/apply pipeline against it as the goal).
// A CleanCmd CmdExecution wires this block's States<Clean> outcome into
// the same States<Goal> slot ApplyExec already reads, since the apply
// pipeline doesn't otherwise distinguish "goal computed from item logic"
// from "goal computed as the clean state" — both are just a target to
// diff and apply towards.
type StatesClean struct{}

func (b *StatesClean) Desc() string             { return "StatesClean" }
func (b *StatesClean) InputNamesShort() []string { return nil }
func (b *StatesClean) InputNamesFull() []string  { return nil }
func (b *StatesClean) OutcomeNamesShort() []string {
	return []string{resource.TypeName[states.States[states.Clean]]()}
}
func (b *StatesClean) OutcomeNamesFull() []string {
	return []string{resource.TypeNameFull[states.States[states.Clean]]()}
}
func (b *StatesClean) CheckInputs(rm *resource.Map) error { return nil }

func (b *StatesClean) Exec(cc *cmdctx.CmdCtx, itemIDs []ident.ItemID) cmdblock.Result {
	result := cmdblock.RunItems(cc.Interrupt, itemIDs, func(id ident.ItemID) (any, error) {
		it, err := boxedItem(cc, id)
		if err != nil {
			return nil, err
		}
		partial, err := resolvePartial(cc, id)
		if err != nil {
			return nil, err
		}
		data, err := it.FetchData(cc.Resources)
		if err != nil {
			return nil, err
		}
		return it.StateClean(partial, data)
	}, runOptionsFrom(cc))

	clean := states.New[states.Clean]()
	for id, v := range result.Results {
		clean.Map.InsertState(id, v)
	}

	stream := cmdblock.NewItemStreamOutcome(clean)
	stream.Processed = result.Processed
	stream.NotProcessed = result.NotProcessed

	if result.Interrupted {
		return cmdblock.Interrupted(stream)
	}
	if len(result.Errors) > 0 {
		return cmdblock.ItemErr(stream, result.Errors)
	}

	resource.Insert(cc.Resources, clean)
	// CleanCmd's ApplyExec reads States<Goal>; wire the clean state in
	// under that slot too so the same apply pipeline drives towards it.
	resource.Insert(cc.Resources, states.States[states.Goal](clean))
	return cmdblock.Complete(clean)
}
