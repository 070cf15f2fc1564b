package blocks

import (
	"context"

	"github.com/openpeace/peace/pkg/cmdblock"
	"github.com/openpeace/peace/pkg/cmdctx"
	"github.com/openpeace/peace/pkg/ident"
	"github.com/openpeace/peace/pkg/perr"
	"github.com/openpeace/peace/pkg/resource"
	"github.com/openpeace/peace/pkg/states"
	"github.com/openpeace/peace/pkg/storage"
	"github.com/openpeace/peace/pkg/typereg"
)

// StatesCurrentRead loads States<CurrentStored> from
// <flow_dir>/states_current.yaml without re-discovering anything (spec
// §4.5's table: "StatesCurrentRead | () | States<CurrentStored>"). A
// never-persisted flow (first-ever run) decodes to an empty map rather
// than erroring, mirroring StatesDiscover's "no entry yet" case.
type StatesCurrentRead struct {
	Storage  *storage.Storage
	Registry *typereg.Registry[ident.ItemID]
}

func (b *StatesCurrentRead) Desc() string               { return "StatesCurrentRead" }
func (b *StatesCurrentRead) InputNamesShort() []string   { return nil }
func (b *StatesCurrentRead) InputNamesFull() []string    { return nil }
func (b *StatesCurrentRead) OutcomeNamesShort() []string {
	return []string{resource.TypeName[states.States[states.CurrentStored]]()}
}
func (b *StatesCurrentRead) OutcomeNamesFull() []string {
	return []string{resource.TypeNameFull[states.States[states.CurrentStored]]()}
}
func (b *StatesCurrentRead) CheckInputs(rm *resource.Map) error { return nil }

func (b *StatesCurrentRead) Exec(cc *cmdctx.CmdCtx, itemIDs []ident.ItemID) cmdblock.Result {
	ctx := cc.Ctx
	if ctx == nil {
		ctx = context.Background()
	}

	decoded, err := b.Storage.ReadMap(ctx, cc.Workspace.StatesCurrentPath(), b.Registry)
	if err != nil {
		if kind, ok := perr.KindOf(err); ok && kind == perr.KindPersistenceNotFound {
			decoded = map[ident.ItemID]any{}
		} else {
			stream := cmdblock.NewItemStreamOutcome(nil)
			stream.NotProcessed = itemIDs
			errs := make(map[ident.ItemID]error, len(itemIDs))
			for _, id := range itemIDs {
				errs[id] = err
			}
			return cmdblock.ItemErr(stream, errs)
		}
	}

	out := states.New[states.CurrentStored]()
	for _, id := range itemIDs {
		if v, ok := decoded[id]; ok {
			out.Map.InsertState(id, v)
		} else {
			out.Map.InsertNoState(id)
		}
	}

	resource.Insert(cc.Resources, out)
	return cmdblock.Complete(out)
}
