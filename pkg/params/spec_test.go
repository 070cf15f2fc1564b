package params_test

import (
	"testing"

	"github.com/openpeace/peace/pkg/params"
	"github.com/openpeace/peace/pkg/perr"
	"github.com/openpeace/peace/pkg/resource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type hostParams struct{ Name string }

func (p hostParams) ToPartial() hostPartial {
	return hostPartial{Name: &p.Name}
}

type hostPartial struct{ Name *string }

func (p hostPartial) Merge(base hostParams) hostParams {
	if p.Name != nil {
		base.Name = *p.Name
	}
	return base
}

func (p hostPartial) TryBuild() (hostParams, bool) {
	if p.Name == nil {
		return hostParams{}, false
	}
	return hostParams{Name: *p.Name}, true
}

func TestSpecValueResolvesWithoutResourceMap(t *testing.T) {
	rm := resource.New()
	ctx := perr.NewResolutionCtx("host")
	spec := params.OfValue[hostParams, hostPartial](hostParams{Name: "web-01"})

	v, err := spec.Resolve(rm, ctx)
	require.NoError(t, err)
	assert.Equal(t, hostParams{Name: "web-01"}, v)
}

func TestSpecInMemoryResolvesFromResourceMap(t *testing.T) {
	rm := resource.New()
	resource.Insert(rm, hostParams{Name: "db-01"})
	ctx := perr.NewResolutionCtx("host")
	spec := params.OfInMemory[hostParams, hostPartial]()

	v, err := spec.Resolve(rm, ctx)
	require.NoError(t, err)
	assert.Equal(t, hostParams{Name: "db-01"}, v)
}

func TestSpecInMemoryMissingFailsWithParamsInMemoryKind(t *testing.T) {
	rm := resource.New()
	ctx := perr.NewResolutionCtx("host")
	spec := params.OfInMemory[hostParams, hostPartial]()

	_, err := spec.Resolve(rm, ctx)
	require.Error(t, err)
	kind, ok := perr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, perr.KindParamsInMemory, kind)
}

func TestSpecMappingFnResolves(t *testing.T) {
	rm := resource.New()
	resource.Insert(rm, hostParams{Name: "upstream"})
	ctx := perr.NewResolutionCtx("host")

	fn := params.FnImpl[hostParams]{
		Name: "name",
		MapFn: func(rm *resource.Map, ctx *perr.ResolutionCtx) (hostParams, error) {
			b, err := resource.TryBorrow[hostParams](rm)
			if err != nil {
				return hostParams{}, params.TranslateMappingFnBorrowFail(err, ctx)
			}
			defer b.Release()
			return hostParams{Name: b.Value().Name + "-mapped"}, nil
		},
	}
	spec := params.OfMappingFn[hostParams, hostPartial](fn)

	v, err := spec.Resolve(rm, ctx)
	require.NoError(t, err)
	assert.Equal(t, "upstream-mapped", v.Name)
}

func TestSpecMappingFnMissingInputFailsWithParamsFromKind(t *testing.T) {
	rm := resource.New()
	ctx := perr.NewResolutionCtx("host")

	fn := params.FnImpl[hostParams]{
		Name: "name",
		MapFn: func(rm *resource.Map, ctx *perr.ResolutionCtx) (hostParams, error) {
			_, err := resource.TryBorrow[hostParams](rm)
			if err != nil {
				return hostParams{}, params.TranslateMappingFnBorrowFail(err, ctx)
			}
			return hostParams{}, nil
		},
	}
	spec := params.OfMappingFn[hostParams, hostPartial](fn)

	_, err := spec.Resolve(rm, ctx)
	require.Error(t, err)
	kind, ok := perr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, perr.KindParamsFrom, kind)
}

func TestSpecResolvePartialFailsWhenMappingFnUnusable(t *testing.T) {
	rm := resource.New()
	ctx := perr.NewResolutionCtx("host")
	spec := params.OfMappingFn[hostParams, hostPartial](params.UnusableFn[hostParams]{Name: "name"})

	_, err := spec.ResolvePartial(rm, ctx)
	require.Error(t, err)
	kind, ok := perr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, perr.KindParamsMappingFn, kind)
}

func TestResolveFieldPushesAndPopsContextFrame(t *testing.T) {
	rm := resource.New()
	ctx := perr.NewResolutionCtx("host")
	spec := params.OfValue[hostParams, hostPartial](hostParams{Name: "x"})

	before := len(ctx.Frames())
	_, err := params.ResolveField[hostParams, hostPartial](spec, "name", "hostParams", "pkg.hostParams", rm, ctx)
	require.NoError(t, err)
	assert.Equal(t, before, len(ctx.Frames()), "frame should be popped after resolution")
}
