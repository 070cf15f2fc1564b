// Package params implements the ValueSpec/ParamsSpec resolution system
// (spec §4.3): for every item in a flow, the user supplies a Spec
// describing how that item's Params should be populated at run time.
// Resolution runs per-item in topological order, threading a
// pkg/perr.ResolutionCtx frame stack so a failure names exactly which
// item and field couldn't be resolved.
//
// Go has no sum types, so Spec is the common discriminated-union-struct
// idiom the teacher itself reaches for (pkg/engine's OperationType/
// DependencyType-tagged structs): a Kind enum plus the one payload field
// that kind actually uses. Grounded field-for-field on original_source
// crate/params/src/params_spec.rs's five-variant ParamsSpec<T> enum.
package params

import (
	"github.com/openpeace/peace/pkg/perr"
	"github.com/openpeace/peace/pkg/resource"
)

// Kind discriminates how a Spec resolves a value.
type Kind int

const (
	// Stored loads whatever ValueSpec was last persisted to
	// params_specs.yaml; resolution behaves like InMemory once loaded.
	Stored Kind = iota
	// Value uses a value fixed at CmdCtx-build time.
	Value
	// InMemory loads a value inserted into the ResourceMap by workspace
	// params or a predecessor item at run time.
	InMemory
	// MappingFn computes a value from the ResourceMap via a user function.
	MappingFn
	// FieldWise resolves a composite Params type field by field, each
	// field carrying its own nested Spec.
	FieldWise
)

func (k Kind) String() string {
	switch k {
	case Stored:
		return "Stored"
	case Value:
		return "Value"
	case InMemory:
		return "InMemory"
	case MappingFn:
		return "MappingFn"
	case FieldWise:
		return "FieldWise"
	default:
		return "Unknown"
	}
}

// Spec is how one item's Params (or one field of a FieldWise Params) is
// populated at CmdCtx build / resolution time. P is the resolved type,
// PA its partial companion (see pkg/item.Params/Partial).
type Spec[P item_Params[PA], PA item_Partial[P]] struct {
	Kind          Kind
	value         P
	mappingFn     Fn[P]
	fieldWiseSpec FieldWiseSpec[P, PA]
}

// item_Params/item_Partial mirror pkg/item's Params[PA]/Partial[P]
// constraints without importing pkg/item, since pkg/item does not (and
// should not) depend on pkg/params — Spec is generic over any type
// satisfying the same shape, including pkg/item's own Params/Partial.
type item_Params[PA any] interface {
	ToPartial() PA
}

type item_Partial[P any] interface {
	Merge(base P) P
	TryBuild() (P, bool)
}

// OfStored returns a Spec that loads whatever value was last persisted.
func OfStored[P item_Params[PA], PA item_Partial[P]]() Spec[P, PA] {
	return Spec[P, PA]{Kind: Stored}
}

// OfValue returns a Spec fixed to value.
func OfValue[P item_Params[PA], PA item_Partial[P]](value P) Spec[P, PA] {
	return Spec[P, PA]{Kind: Value, value: value}
}

// OfInMemory returns a Spec that loads from the ResourceMap at resolve
// time.
func OfInMemory[P item_Params[PA], PA item_Partial[P]]() Spec[P, PA] {
	return Spec[P, PA]{Kind: InMemory}
}

// OfMappingFn returns a Spec that computes its value via fn.
func OfMappingFn[P item_Params[PA], PA item_Partial[P]](fn Fn[P]) Spec[P, PA] {
	return Spec[P, PA]{Kind: MappingFn, mappingFn: fn}
}

// OfFieldWise returns a Spec that resolves a composite Params field by
// field.
func OfFieldWise[P item_Params[PA], PA item_Partial[P]](fw FieldWiseSpec[P, PA]) Spec[P, PA] {
	return Spec[P, PA]{Kind: FieldWise, fieldWiseSpec: fw}
}

// Resolve computes the fully resolved P, failing if any referenced
// ResourceMap value is missing or conflictingly borrowed.
func (s Spec[P, PA]) Resolve(rm *resource.Map, ctx *perr.ResolutionCtx) (P, error) {
	var zero P
	switch s.Kind {
	case Value:
		return s.value, nil
	case Stored, InMemory:
		b, err := resource.TryBorrow[P](rm)
		if err != nil {
			return zero, TranslateInMemoryBorrowFail(err, ctx)
		}
		defer b.Release()
		return b.Value(), nil
	case MappingFn:
		v, err := s.mappingFn.Map(rm, ctx)
		if err != nil {
			if _, ok := perr.KindOf(err); ok {
				return zero, err
			}
			return zero, perr.NewParamsMappingFn(ctx, err)
		}
		return v, nil
	case FieldWise:
		return s.fieldWiseSpec.Resolve(rm, ctx)
	default:
		return zero, perr.NewParamsInMemory(ctx)
	}
}

// ResolvePartial computes a best-effort PA, leaving fields unset (rather
// than failing) when the underlying value or mapping function can't yet
// be resolved — used by the read-only lifecycle functions that must run
// before every item's params are guaranteed resolvable (spec §4.2: "the
// spec resolver... consulted to order discovery").
func (s Spec[P, PA]) ResolvePartial(rm *resource.Map, ctx *perr.ResolutionCtx) (PA, error) {
	var zero PA
	switch s.Kind {
	case Value:
		return s.value.ToPartial(), nil
	case Stored, InMemory:
		b, err := resource.TryBorrow[P](rm)
		if err != nil {
			if kind, _ := perr.KindOf(err); kind == perr.KindValueNotFound {
				return zero, nil
			}
			return zero, TranslateInMemoryBorrowFail(err, ctx)
		}
		defer b.Release()
		return b.Value().ToPartial(), nil
	case MappingFn:
		v, err := s.mappingFn.TryMap(rm, ctx)
		if err != nil {
			return zero, perr.NewParamsMappingFn(ctx, err)
		}
		if v == nil {
			return zero, nil
		}
		return (*v).ToPartial(), nil
	case FieldWise:
		return s.fieldWiseSpec.ResolvePartial(rm, ctx)
	default:
		return zero, nil
	}
}

// ResolvableSpec is Spec[P, PA] with its type parameters erased, the
// shape a Block needs to resolve an item's params without itself being
// generic over that item's P/PA (mirroring how item.Interface erases
// Item[P, PA, S, Diff, Dt] for the same reason). cmdctx.ParamsSpecs stores
// one of these per item, boxed as `any`; a Spec[P, PA] value satisfies it
// automatically since Go interfaces are structural.
type ResolvableSpec interface {
	ResolveAny(rm *resource.Map, ctx *perr.ResolutionCtx) (any, error)
	ResolvePartialAny(rm *resource.Map, ctx *perr.ResolutionCtx) (any, error)
}

// ResolveAny is Resolve with its result boxed as `any`.
func (s Spec[P, PA]) ResolveAny(rm *resource.Map, ctx *perr.ResolutionCtx) (any, error) {
	return s.Resolve(rm, ctx)
}

// ResolvePartialAny is ResolvePartial with its result boxed as `any`.
func (s Spec[P, PA]) ResolvePartialAny(rm *resource.Map, ctx *perr.ResolutionCtx) (any, error) {
	return s.ResolvePartial(rm, ctx)
}

// TranslateInMemoryBorrowFail maps a pkg/resource borrow failure into the
// params-resolution error it represents for an InMemory/Stored Spec.
func TranslateInMemoryBorrowFail(err error, ctx *perr.ResolutionCtx) error {
	kind, _ := perr.KindOf(err)
	switch kind {
	case perr.KindBorrowConflictImm, perr.KindBorrowConflictMut:
		return perr.NewParamsInMemoryBorrowConflict(ctx)
	default:
		return perr.NewParamsInMemory(ctx)
	}
}

// TranslateMappingFnBorrowFail maps a pkg/resource borrow failure into the
// params-resolution error it represents for a MappingFn that borrows its
// own declared input from the ResourceMap.
func TranslateMappingFnBorrowFail(err error, ctx *perr.ResolutionCtx) error {
	kind, _ := perr.KindOf(err)
	switch kind {
	case perr.KindBorrowConflictImm, perr.KindBorrowConflictMut:
		return perr.NewParamsFromBorrowConflict(ctx)
	default:
		return perr.NewParamsFrom(ctx)
	}
}
