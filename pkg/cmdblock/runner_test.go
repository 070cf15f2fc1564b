package cmdblock_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/openpeace/peace/pkg/cmdblock"
	"github.com/openpeace/peace/pkg/ident"
	"github.com/openpeace/peace/pkg/interrupt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func idsOf(names ...string) []ident.ItemID {
	out := make([]ident.ItemID, len(names))
	for i, n := range names {
		out[i] = ident.ItemID(n)
	}
	return out
}

func TestRunItemsProcessesEveryItem(t *testing.T) {
	ids := idsOf("a", "b", "c", "d", "e")
	result := cmdblock.RunItems(interrupt.New(), ids, func(id ident.ItemID) (int, error) {
		return len(id.String()), nil
	}, cmdblock.RunOptions{MaxWorkers: 2})

	assert.Empty(t, result.NotProcessed)
	assert.Len(t, result.Processed, len(ids))
	assert.Len(t, result.Results, len(ids))
	assert.False(t, result.Interrupted)
}

// TestRunItemsMidStreamInterrupt exercises spec §8 scenario S4: interrupt
// tripped partway through a stream of homogeneous items leaves
// processed + not_processed == total, with processed a subset of items
// that actually ran.
func TestRunItemsMidStreamInterrupt(t *testing.T) {
	names := make([]string, 10)
	for i := range names {
		names[i] = string(rune('a' + i))
	}
	ids := idsOf(names...)

	h := interrupt.New()
	var started int32

	result := cmdblock.RunItems(h, ids, func(id ident.ItemID) (struct{}, error) {
		n := atomic.AddInt32(&started, 1)
		if n == 3 {
			h.Trigger()
		}
		time.Sleep(2 * time.Millisecond)
		return struct{}{}, nil
	}, cmdblock.RunOptions{MaxWorkers: 1})

	assert.Equal(t, len(ids), len(result.Processed)+len(result.NotProcessed))
	assert.True(t, result.Interrupted)
	assert.NotEmpty(t, result.NotProcessed)
}

func TestRunItemsCollectsPerItemErrors(t *testing.T) {
	ids := idsOf("ok", "bad")
	result := cmdblock.RunItems(interrupt.New(), ids, func(id ident.ItemID) (int, error) {
		if id == "bad" {
			return 0, assert.AnError
		}
		return 1, nil
	}, cmdblock.RunOptions{})

	require.Contains(t, result.Errors, ident.ItemID("bad"))
	require.Contains(t, result.Results, ident.ItemID("ok"))
}

func TestRunItemsEmptyInputReturnsEmptyResult(t *testing.T) {
	result := cmdblock.RunItems(interrupt.New(), nil, func(id ident.ItemID) (int, error) {
		t.Fatal("worker should not be called for empty input")
		return 0, nil
	}, cmdblock.RunOptions{})
	assert.Empty(t, result.Processed)
	assert.Empty(t, result.NotProcessed)
}

func TestItemStreamOutcomeMapPreservesPartition(t *testing.T) {
	o := cmdblock.NewItemStreamOutcome(1)
	o.Processed = idsOf("a")
	o.NotProcessed = idsOf("b")

	mapped := o.Map(func(v any) any { return v.(int) + 1 })
	assert.Equal(t, 2, mapped.Value)
	assert.Equal(t, idsOf("a"), mapped.Processed)
	assert.Equal(t, idsOf("b"), mapped.NotProcessed)
}

func TestItemStreamOutcomeMapAsyncPropagatesError(t *testing.T) {
	o := cmdblock.NewItemStreamOutcome(1)
	_, err := o.MapAsync(func(v any) (any, error) {
		return nil, assert.AnError
	})
	assert.Error(t, err)
}
