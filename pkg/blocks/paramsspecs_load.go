package blocks

import (
	"context"

	"github.com/openpeace/peace/pkg/cmdblock"
	"github.com/openpeace/peace/pkg/cmdctx"
	"github.com/openpeace/peace/pkg/ident"
	"github.com/openpeace/peace/pkg/params"
	"github.com/openpeace/peace/pkg/perr"
	"github.com/openpeace/peace/pkg/resource"
	"github.com/openpeace/peace/pkg/storage"
	"github.com/openpeace/peace/pkg/typereg"
)

// ParamsSpecsLoad reads params_specs.yaml and, for every item that has
// both an entry in that file and an Inserter, replaces its entry in
// cc.ParamsSpecs with the spec the Inserter builds from the persisted
// value, whatever Kind the previously registered Spec had; the persisted
// entry is not checked for being a Stored spec itself
// (spec §4.5's table: "ParamsSpecsLoad | (stored specs file) |
// ParamsSpecs"). Inserters supplies the erased "decode this item's raw
// YAML fragment into its own Value spec" thunk per item, the same
// closure-erasure idiom item.Wrap uses for Data (pkg/item/wrapper.go):
// each item's concrete Params type is only known where the item is
// registered, never inside this block.
type ParamsSpecsLoad struct {
	Storage   *storage.Storage
	Registry  *typereg.Registry[ident.ItemID]
	Inserters map[ident.ItemID]func(raw any) (params.ResolvableSpec, error)
}

func (b *ParamsSpecsLoad) Desc() string               { return "ParamsSpecsLoad" }
func (b *ParamsSpecsLoad) InputNamesShort() []string   { return nil }
func (b *ParamsSpecsLoad) InputNamesFull() []string    { return nil }
func (b *ParamsSpecsLoad) OutcomeNamesShort() []string { return []string{"ParamsSpecs"} }
func (b *ParamsSpecsLoad) OutcomeNamesFull() []string  { return []string{"cmdctx.ParamsSpecs"} }
func (b *ParamsSpecsLoad) CheckInputs(rm *resource.Map) error { return nil }

func (b *ParamsSpecsLoad) Exec(cc *cmdctx.CmdCtx, itemIDs []ident.ItemID) cmdblock.Result {
	ctx := cc.Ctx
	if ctx == nil {
		ctx = context.Background()
	}

	decoded, err := b.Storage.ReadMap(ctx, cc.Workspace.ParamsSpecsPath(), b.Registry)
	if err != nil {
		if kind, ok := perr.KindOf(err); ok && kind == perr.KindPersistenceNotFound {
			// First-ever run: nothing stored yet, every item keeps
			// whatever Spec it was already registered with.
			resource.Insert(cc.Resources, cc.ParamsSpecs)
			return cmdblock.Complete(cc.ParamsSpecs)
		}
		return failAll(itemIDs, err)
	}

	errs := make(map[ident.ItemID]error)
	var processed []ident.ItemID
	for _, id := range itemIDs {
		raw, ok := decoded[id]
		if !ok {
			processed = append(processed, id)
			continue
		}
		insert, ok := b.Inserters[id]
		if !ok {
			processed = append(processed, id)
			continue
		}
		spec, err := insert(raw)
		if err != nil {
			errs[id] = err
			continue
		}
		cc.WithParamsSpec(id, spec)
		processed = append(processed, id)
	}

	stream := cmdblock.NewItemStreamOutcome(cc.ParamsSpecs)
	stream.Processed = processed
	if len(errs) > 0 {
		return cmdblock.ItemErr(stream, errs)
	}

	resource.Insert(cc.Resources, cc.ParamsSpecs)
	return cmdblock.Complete(cc.ParamsSpecs)
}
