package params

import (
	"github.com/openpeace/peace/pkg/perr"
	"github.com/openpeace/peace/pkg/resource"
)

// Fn computes a value of type T from the shared ResourceMap, typically by
// borrowing a predecessor item's state or a workspace param and
// transforming it. Grounded on original_source crate/params/src/mapping_fn.rs's
// `MappingFn` trait (`map`/`try_map`).
type Fn[T any] interface {
	// Map resolves the value, failing if a required input is absent.
	Map(rm *resource.Map, ctx *perr.ResolutionCtx) (T, error)
	// TryMap resolves the value if possible, returning (nil, nil) rather
	// than failing when a required input isn't yet available — used by
	// ResolvePartial during discovery.
	TryMap(rm *resource.Map, ctx *perr.ResolutionCtx) (*T, error)
	// FieldName names the field this function was registered against, for
	// diagnostics and re-serialization (original_source: "The FromMap
	// variant's mapping function is None when deserialized" — Go mirrors
	// that by keeping the name even when Fn itself can't round-trip).
	FieldName() string
}

// FnImpl is a Fn built from two plain closures, the common case for item
// authors who don't need TryMap's partial-success behavior to differ from
// Map's.
type FnImpl[T any] struct {
	Name   string
	MapFn  func(rm *resource.Map, ctx *perr.ResolutionCtx) (T, error)
	// TryMapFn is optional; if nil, TryMap calls MapFn and treats any
	// error whose kind is a ValueNotFound-class params error as "not yet
	// resolvable" rather than a hard failure.
	TryMapFn func(rm *resource.Map, ctx *perr.ResolutionCtx) (*T, error)
}

func (f FnImpl[T]) FieldName() string { return f.Name }

func (f FnImpl[T]) Map(rm *resource.Map, ctx *perr.ResolutionCtx) (T, error) {
	return f.MapFn(rm, ctx)
}

func (f FnImpl[T]) TryMap(rm *resource.Map, ctx *perr.ResolutionCtx) (*T, error) {
	if f.TryMapFn != nil {
		return f.TryMapFn(rm, ctx)
	}
	v, err := f.MapFn(rm, ctx)
	if err != nil {
		if kind, ok := perr.KindOf(err); ok && kind == perr.KindParamsFrom {
			return nil, nil
		}
		return nil, err
	}
	return &v, nil
}

// UnusableFn is the Fn a Stored/FromMap spec deserializes into when no
// backing closure can be reconstructed from YAML (original_source: "it is
// impossible to determine the underlying F and U type parameters ...
// for the backing MappingFnImpl"). Any attempt to resolve it fails with
// a ParamsMappingFn error naming the original field, until the caller
// re-attaches a real Fn for this field via a fresh CmdCtx build.
type UnusableFn[T any] struct {
	Name string
}

func (f UnusableFn[T]) FieldName() string { return f.Name }

func (f UnusableFn[T]) Map(rm *resource.Map, ctx *perr.ResolutionCtx) (T, error) {
	var zero T
	return zero, perr.NewParamsMappingFn(ctx, errUnusableMappingFn(f.Name))
}

func (f UnusableFn[T]) TryMap(rm *resource.Map, ctx *perr.ResolutionCtx) (*T, error) {
	return nil, perr.NewParamsMappingFn(ctx, errUnusableMappingFn(f.Name))
}

type unusableMappingFnError struct{ field string }

func (e unusableMappingFnError) Error() string {
	return "mapping function for field " + e.field + " was not reattached after deserialization"
}

func errUnusableMappingFn(field string) error { return unusableMappingFnError{field: field} }
