package perr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/openpeace/peace/pkg/perr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorIsMatchesByKind(t *testing.T) {
	e1 := perr.NewValueNotFound("States[Current]")
	e2 := perr.NewValueNotFound("States[Goal]")

	assert.True(t, errors.Is(e1, e2), "two ValueNotFound errors should match regardless of resource")
	assert.False(t, errors.Is(e1, perr.NewBorrowConflictMut("States[Current]")))
}

func TestErrorUnwrap(t *testing.T) {
	cause := fmt.Errorf("disk full")
	wrapped := perr.NewPersistenceSerialize("states_current.yaml", cause)

	require.ErrorIs(t, wrapped, cause)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, perr.IsRetryable(perr.NewBorrowConflictMut("VecA")))
	assert.False(t, perr.IsRetryable(perr.NewInvalidIdentifier("9bad", "bad")))
}

func TestKindOf(t *testing.T) {
	kind, ok := perr.KindOf(perr.NewValueNotFound("VecA"))
	require.True(t, ok)
	assert.Equal(t, perr.KindValueNotFound, kind)

	_, ok = perr.KindOf(fmt.Errorf("plain error"))
	assert.False(t, ok)
}

func TestResolutionCtxString(t *testing.T) {
	ctx := perr.NewResolutionCtx("vec_copy")
	ctx.Push("dest", "VecB", "example::VecB")

	err := perr.NewParamsInMemory(ctx)
	assert.Contains(t, err.Error(), "vec_copy.dest: VecB")

	storedCtx, ok := perr.ResolutionCtxOf(err)
	require.True(t, ok)
	assert.Equal(t, "vec_copy.dest: VecB", storedCtx.String())
}

func TestResolutionCtxPushPopNesting(t *testing.T) {
	ctx := perr.NewResolutionCtx("composite_item")
	ctx.Push("outer", "Outer", "pkg.Outer")
	ctx.Push("inner", "Inner", "pkg.Inner")
	assert.Equal(t, "composite_item.outer.inner: Inner", ctx.String())

	ctx.Pop()
	assert.Equal(t, "composite_item.outer: Outer", ctx.String())
}
