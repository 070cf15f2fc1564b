package blocks

import (
	"github.com/openpeace/peace/pkg/cmdblock"
	"github.com/openpeace/peace/pkg/cmdctx"
	"github.com/openpeace/peace/pkg/ident"
	"github.com/openpeace/peace/pkg/resource"
	"github.com/openpeace/peace/pkg/states"
)

// ApplyExec is ApplyExec (spec §4.5's table: "ApplyExec | (States<Current>,
// States<Goal>) | (States<Previous>, States<Applied>, States<Goal>)"). For
// each item it diffs current against goal, asks apply_check whether work
// is needed, and if so runs apply; an item whose apply_check reports
// ExecNotRequired is recorded unchanged in both Previous and Applied.
type ApplyExec struct{}

func (b *ApplyExec) Desc() string { return "ApplyExec" }

func (b *ApplyExec) InputNamesShort() []string {
	return []string{
		resource.TypeName[states.States[states.Current]](),
		resource.TypeName[states.States[states.Goal]](),
	}
}
func (b *ApplyExec) InputNamesFull() []string {
	return []string{
		resource.TypeNameFull[states.States[states.Current]](),
		resource.TypeNameFull[states.States[states.Goal]](),
	}
}
func (b *ApplyExec) OutcomeNamesShort() []string {
	return []string{
		resource.TypeName[states.States[states.Previous]](),
		resource.TypeName[states.States[states.Applied]](),
		resource.TypeName[states.States[states.Goal]](),
	}
}
func (b *ApplyExec) OutcomeNamesFull() []string {
	return []string{
		resource.TypeNameFull[states.States[states.Previous]](),
		resource.TypeNameFull[states.States[states.Applied]](),
		resource.TypeNameFull[states.States[states.Goal]](),
	}
}

func (b *ApplyExec) CheckInputs(rm *resource.Map) error {
	if err := cmdblock.CheckResourcePresent[states.States[states.Current]](rm); err != nil {
		return err
	}
	return cmdblock.CheckResourcePresent[states.States[states.Goal]](rm)
}

type applyOutcome struct {
	previous any
	applied  any
}

func (b *ApplyExec) Exec(cc *cmdctx.CmdCtx, itemIDs []ident.ItemID) cmdblock.Result {
	currentBorrow, err := resource.TryBorrow[states.States[states.Current]](cc.Resources)
	if err != nil {
		return failAll(itemIDs, err)
	}
	goalBorrow, err := resource.TryBorrow[states.States[states.Goal]](cc.Resources)
	if err != nil {
		return failAll(itemIDs, err)
	}
	current, goal := currentBorrow.Value(), goalBorrow.Value()
	currentBorrow.Release()
	goalBorrow.Release()

	fnCtx := fnCtxFor(cc)

	result := cmdblock.RunItems(cc.Interrupt, itemIDs, func(id ident.ItemID) (applyOutcome, error) {
		currentVal, _, hasCurrent := current.Map.Get(id)
		goalVal, _, hasGoal := goal.Map.Get(id)
		if !hasCurrent || !hasGoal {
			return applyOutcome{}, nil
		}

		it, err := boxedItem(cc, id)
		if err != nil {
			return applyOutcome{}, err
		}
		partial, err := resolvePartial(cc, id)
		if err != nil {
			return applyOutcome{}, err
		}
		full, err := resolveFull(cc, id)
		if err != nil {
			return applyOutcome{}, err
		}
		data, err := it.FetchData(cc.Resources)
		if err != nil {
			return applyOutcome{}, err
		}

		diff, err := it.StateDiff(partial, data, currentVal, goalVal)
		if err != nil {
			return applyOutcome{}, err
		}

		check, err := it.ApplyCheck(full, data, currentVal, goalVal, diff)
		if err != nil {
			return applyOutcome{}, err
		}
		if !check.Required {
			return applyOutcome{previous: currentVal, applied: currentVal}, nil
		}

		applied, err := it.Apply(fnCtx, full, data, currentVal, goalVal, diff)
		if err != nil {
			return applyOutcome{}, err
		}
		return applyOutcome{previous: currentVal, applied: applied}, nil
	}, runOptionsFrom(cc))

	previous := states.New[states.Previous]()
	applied := states.New[states.Applied]()
	for id, r := range result.Results {
		previous.Map.InsertState(id, r.previous)
		applied.Map.InsertState(id, r.applied)
	}

	stream := cmdblock.NewItemStreamOutcome(applied)
	stream.Processed = result.Processed
	stream.NotProcessed = result.NotProcessed

	if result.Interrupted {
		return cmdblock.Interrupted(stream)
	}
	if len(result.Errors) > 0 {
		return cmdblock.ItemErr(stream, result.Errors)
	}

	resource.Insert(cc.Resources, previous)
	resource.Insert(cc.Resources, applied)
	resource.Insert(cc.Resources, goal)
	return cmdblock.Complete(applied)
}
