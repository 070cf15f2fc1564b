package params

import (
	"github.com/openpeace/peace/pkg/perr"
	"github.com/openpeace/peace/pkg/resource"
)

// FieldWiseSpec resolves a composite Params type one field at a time,
// each field carrying its own Spec. In the original crate this is
// `#[derive(Params)]`-generated; since this port has no derive macros
// (spec §1 Non-goals), item authors hand-write one FieldWiseSpec
// implementation per composite Params struct, analogous to how the
// teacher's config layer hand-writes validation methods per schema type
// (pkg/config/types.go) rather than deriving them.
type FieldWiseSpec[P item_Params[PA], PA item_Partial[P]] interface {
	Resolve(rm *resource.Map, ctx *perr.ResolutionCtx) (P, error)
	ResolvePartial(rm *resource.Map, ctx *perr.ResolutionCtx) (PA, error)
}

// ResolveField is a helper FieldWiseSpec implementations call once per
// field: it pushes a ResolutionCtx frame naming the field before
// resolving the nested Spec, and pops it on the way out, so a deeply
// nested failure names the whole path (spec §4.3).
func ResolveField[P item_Params[PA], PA item_Partial[P]](
	spec Spec[P, PA],
	fieldName, typeNameShort, typeNameFull string,
	rm *resource.Map,
	ctx *perr.ResolutionCtx,
) (P, error) {
	ctx.Push(fieldName, typeNameShort, typeNameFull)
	defer ctx.Pop()
	return spec.Resolve(rm, ctx)
}

// ResolvePartialField is ResolveField's ResolvePartial counterpart.
func ResolvePartialField[P item_Params[PA], PA item_Partial[P]](
	spec Spec[P, PA],
	fieldName, typeNameShort, typeNameFull string,
	rm *resource.Map,
	ctx *perr.ResolutionCtx,
) (PA, error) {
	ctx.Push(fieldName, typeNameShort, typeNameFull)
	defer ctx.Pop()
	return spec.ResolvePartial(rm, ctx)
}
