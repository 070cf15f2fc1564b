package vecitem_test

import (
	"context"
	"testing"

	"github.com/openpeace/peace/internal/vecitem"
	"github.com/openpeace/peace/pkg/item"
	"github.com/openpeace/peace/pkg/resource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFnCtx() item.FnCtx {
	return item.FnCtx{Ctx: context.Background()}
}

func TestSetupSeedsEmptyVecB(t *testing.T) {
	rm := resource.New()
	v := vecitem.NewDefault()
	require.NoError(t, v.Setup(rm))

	b, err := resource.TryBorrow[vecitem.VecB](rm)
	require.NoError(t, err)
	defer b.Release()
	assert.Empty(t, b.Value().Bytes)
}

func TestSetupIsIdempotent(t *testing.T) {
	rm := resource.New()
	v := vecitem.NewDefault()
	require.NoError(t, v.Setup(rm))
	resource.Insert(rm, vecitem.VecB{Bytes: []byte{1, 2, 3}})

	require.NoError(t, v.Setup(rm))

	b, err := resource.TryBorrow[vecitem.VecB](rm)
	require.NoError(t, err)
	defer b.Release()
	assert.Equal(t, []byte{1, 2, 3}, b.Value().Bytes)
}

func TestStateCleanIsEmpty(t *testing.T) {
	v := vecitem.NewDefault()
	s, err := v.StateClean(vecitem.Partial{}, vecitem.Data{})
	require.NoError(t, err)
	assert.Empty(t, s.Bytes)
}

func TestTryStateCurrentReflectsVecB(t *testing.T) {
	rm := resource.New()
	resource.Insert(rm, vecitem.VecB{Bytes: []byte{1, 2, 3}})
	v := vecitem.NewDefault()

	data, err := vecitem.Wrap(v).FetchData(rm)
	require.NoError(t, err)
	vData := data.(vecitem.Data)

	s, err := v.TryStateCurrent(newFnCtx(), vecitem.Partial{}, vData)
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, []byte{1, 2, 3}, s.Bytes)
}

func TestTryStateGoalNilWhenTargetUnset(t *testing.T) {
	v := vecitem.NewDefault()
	s, err := v.TryStateGoal(newFnCtx(), vecitem.Partial{}, vecitem.Data{})
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestTryStateGoalReflectsTarget(t *testing.T) {
	v := vecitem.NewDefault()
	s, err := v.TryStateGoal(newFnCtx(), vecitem.Partial{Target: []byte{9, 8, 7}}, vecitem.Data{})
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, []byte{9, 8, 7}, s.Bytes)
}

func TestStateDiffMatchesDiffBytes(t *testing.T) {
	v := vecitem.NewDefault()
	current := vecitem.State{Bytes: []byte{1, 2}}
	goal := vecitem.State{Bytes: []byte{1, 2, 3}}

	diff, err := v.StateDiff(vecitem.Partial{}, vecitem.Data{}, current, goal)
	require.NoError(t, err)
	assert.Equal(t, vecitem.DiffBytes(current.Bytes, goal.Bytes), vecitem.VecDiff(diff))
}

func TestApplyCheckNoopWhenDiffEmpty(t *testing.T) {
	v := vecitem.NewDefault()
	s := vecitem.State{Bytes: []byte{1, 2}}
	check, err := v.ApplyCheck(vecitem.Params{}, vecitem.Data{}, s, s, nil)
	require.NoError(t, err)
	assert.False(t, check.Required)
}

func TestApplyCheckRequiredWhenDiffNonEmpty(t *testing.T) {
	v := vecitem.NewDefault()
	current := vecitem.State{Bytes: []byte{1, 2}}
	goal := vecitem.State{Bytes: []byte{1, 2, 3}}
	diff, err := v.StateDiff(vecitem.Partial{}, vecitem.Data{}, current, goal)
	require.NoError(t, err)

	check, err := v.ApplyCheck(vecitem.Params{}, vecitem.Data{}, current, goal, diff)
	require.NoError(t, err)
	assert.True(t, check.Required)
}

func TestApplyWritesThroughToVecB(t *testing.T) {
	rm := resource.New()
	resource.Insert(rm, vecitem.VecB{})
	v := vecitem.NewDefault()

	data, err := vecitem.Wrap(v).FetchData(rm)
	require.NoError(t, err)
	vData := data.(vecitem.Data)

	target := vecitem.State{Bytes: []byte{4, 5, 6}}
	applied, err := v.Apply(newFnCtx(), vecitem.Params{Target: target.Bytes}, vData,
		vecitem.State{}, target, nil)
	require.NoError(t, err)
	assert.Equal(t, target.Bytes, applied.Bytes)

	b, err := resource.TryBorrow[vecitem.VecB](rm)
	require.NoError(t, err)
	defer b.Release()
	assert.Equal(t, []byte{4, 5, 6}, b.Value().Bytes)
}

func TestWrapRoundTripsThroughInterface(t *testing.T) {
	rm := resource.New()
	v := vecitem.NewDefault()
	require.NoError(t, v.Setup(rm))

	wrapped := vecitem.Wrap(v)
	assert.Equal(t, vecitem.IDDefault, wrapped.ID())

	data, err := wrapped.FetchData(rm)
	require.NoError(t, err)

	currentAny, err := wrapped.TryStateCurrent(newFnCtx(), vecitem.Partial{}, data)
	require.NoError(t, err)
	current := currentAny.(vecitem.State)
	assert.Empty(t, current.Bytes)

	goalAny, err := wrapped.TryStateGoal(newFnCtx(), vecitem.Partial{Target: []byte{7, 7}}, data)
	require.NoError(t, err)
	require.NotNil(t, goalAny)
	goal := goalAny.(vecitem.State)
	assert.Equal(t, []byte{7, 7}, goal.Bytes)

	diffAny, err := wrapped.StateDiff(vecitem.Partial{}, data, current, goal)
	require.NoError(t, err)
	diff := diffAny.(vecitem.Diff)
	assert.NotEmpty(t, diff)

	check, err := wrapped.ApplyCheck(vecitem.Params{Target: goal.Bytes}, data, current, goal, diff)
	require.NoError(t, err)
	assert.True(t, check.Required)

	appliedAny, err := wrapped.Apply(newFnCtx(), vecitem.Params{Target: goal.Bytes}, data, current, goal, diff)
	require.NoError(t, err)
	applied := appliedAny.(vecitem.State)
	assert.Equal(t, goal.Bytes, applied.Bytes)

	b, err := resource.TryBorrow[vecitem.VecB](rm)
	require.NoError(t, err)
	defer b.Release()
	assert.Equal(t, []byte{7, 7}, b.Value().Bytes)
}
