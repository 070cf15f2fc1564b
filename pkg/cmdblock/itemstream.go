package cmdblock

import "github.com/openpeace/peace/pkg/ident"

// ItemStreamOutcome is a block's per-run accumulator plus the
// processed/not-processed partition of the item IDs it was given (spec
// §4.6). Value is `any` because each block's accumulator has its own
// concrete type (e.g. a States map, a diff map).
type ItemStreamOutcome struct {
	Value        any
	Processed    []ident.ItemID
	NotProcessed []ident.ItemID
}

// NewItemStreamOutcome returns an ItemStreamOutcome with the given
// initial accumulator and no items yet processed.
func NewItemStreamOutcome(value any) ItemStreamOutcome {
	return ItemStreamOutcome{Value: value}
}

// Map transforms the accumulator in place, keeping the
// processed/not-processed partition untouched (spec §4.6: "map...
// without losing the processed/not-processed partition").
func (o ItemStreamOutcome) Map(fn func(any) any) ItemStreamOutcome {
	o.Value = fn(o.Value)
	return o
}

// Replace swaps the accumulator for a differently-typed value, again
// preserving the partition.
func (o ItemStreamOutcome) Replace(value any) ItemStreamOutcome {
	o.Value = value
	return o
}

// MapAsync applies fn to the accumulator, allowing fn to fail — the Go
// equivalent of the original's "replace, await, replace back" dance,
// which exists there only because the mapping step may itself suspend;
// here fn is simply a function that may return an error, called
// synchronously since pkg/cmdexec already runs each block to completion
// before moving on.
func (o ItemStreamOutcome) MapAsync(fn func(any) (any, error)) (ItemStreamOutcome, error) {
	v, err := fn(o.Value)
	if err != nil {
		return o, err
	}
	o.Value = v
	return o, nil
}
