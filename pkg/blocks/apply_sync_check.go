package blocks

import (
	"github.com/openpeace/peace/pkg/cmdblock"
	"github.com/openpeace/peace/pkg/cmdctx"
	"github.com/openpeace/peace/pkg/ident"
	"github.com/openpeace/peace/pkg/resource"
	"github.com/openpeace/peace/pkg/states"
)

// SyncReport records, per item, whether freshly discovered current state
// matches what was last persisted — the "stored+current+goal states, plus
// a sync report" outcome ApplyStateSyncCheck adds (spec §4.5's table).
// An item out of sync means something changed current state outside of
// Peace since the last apply; ApplyExec still runs against the freshly
// discovered state either way, so the report is diagnostic, not a gate.
type SyncReport struct {
	InSync map[ident.ItemID]bool
}

// ApplyStateSyncCheck compares States<CurrentStored> against a freshly
// discovered States<Current>, using each item's own StateEqual (spec
// §4.1: "state_eq").
type ApplyStateSyncCheck struct{}

func (b *ApplyStateSyncCheck) Desc() string { return "ApplyStateSyncCheck" }

func (b *ApplyStateSyncCheck) InputNamesShort() []string {
	return []string{
		resource.TypeName[states.States[states.CurrentStored]](),
		resource.TypeName[states.States[states.Current]](),
		resource.TypeName[states.States[states.Goal]](),
	}
}
func (b *ApplyStateSyncCheck) InputNamesFull() []string {
	return []string{
		resource.TypeNameFull[states.States[states.CurrentStored]](),
		resource.TypeNameFull[states.States[states.Current]](),
		resource.TypeNameFull[states.States[states.Goal]](),
	}
}
func (b *ApplyStateSyncCheck) OutcomeNamesShort() []string {
	return append(b.InputNamesShort(), resource.TypeName[SyncReport]())
}
func (b *ApplyStateSyncCheck) OutcomeNamesFull() []string {
	return append(b.InputNamesFull(), resource.TypeNameFull[SyncReport]())
}

func (b *ApplyStateSyncCheck) CheckInputs(rm *resource.Map) error {
	if err := cmdblock.CheckResourcePresent[states.States[states.CurrentStored]](rm); err != nil {
		return err
	}
	if err := cmdblock.CheckResourcePresent[states.States[states.Current]](rm); err != nil {
		return err
	}
	return cmdblock.CheckResourcePresent[states.States[states.Goal]](rm)
}

func (b *ApplyStateSyncCheck) Exec(cc *cmdctx.CmdCtx, itemIDs []ident.ItemID) cmdblock.Result {
	storedBorrow, err := resource.TryBorrow[states.States[states.CurrentStored]](cc.Resources)
	if err != nil {
		return failAll(itemIDs, err)
	}
	currentBorrow, err := resource.TryBorrow[states.States[states.Current]](cc.Resources)
	if err != nil {
		return failAll(itemIDs, err)
	}
	goalBorrow, err := resource.TryBorrow[states.States[states.Goal]](cc.Resources)
	if err != nil {
		return failAll(itemIDs, err)
	}
	stored, current, goal := storedBorrow.Value(), currentBorrow.Value(), goalBorrow.Value()
	storedBorrow.Release()
	currentBorrow.Release()
	goalBorrow.Release()

	report := SyncReport{InSync: make(map[ident.ItemID]bool, len(itemIDs))}
	result := cmdblock.RunItems(cc.Interrupt, itemIDs, func(id ident.ItemID) (struct{}, error) {
		storedVal, _, hasStored := stored.Map.Get(id)
		currentVal, _, hasCurrent := current.Map.Get(id)
		if !hasStored || !hasCurrent {
			return struct{}{}, nil
		}
		it, err := boxedItem(cc, id)
		if err != nil {
			return struct{}{}, err
		}
		report.InSync[id] = it.StateEqual(storedVal, currentVal)
		return struct{}{}, nil
	}, runOptionsFrom(cc))

	stream := cmdblock.NewItemStreamOutcome(report)
	stream.Processed = result.Processed
	stream.NotProcessed = result.NotProcessed

	if result.Interrupted {
		return cmdblock.Interrupted(stream)
	}
	if len(result.Errors) > 0 {
		return cmdblock.ItemErr(stream, result.Errors)
	}

	resource.Insert(cc.Resources, stored)
	resource.Insert(cc.Resources, current)
	resource.Insert(cc.Resources, goal)
	resource.Insert(cc.Resources, report)
	return cmdblock.Complete(report)
}
