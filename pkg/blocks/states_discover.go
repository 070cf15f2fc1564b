package blocks

import (
	"github.com/openpeace/peace/pkg/cmdblock"
	"github.com/openpeace/peace/pkg/cmdctx"
	"github.com/openpeace/peace/pkg/ident"
	"github.com/openpeace/peace/pkg/resource"
	"github.com/openpeace/peace/pkg/states"
)

// DiscoverMode selects which of an item's two read-only discovery
// functions StatesDiscover calls.
type DiscoverMode int

const (
	DiscoverCurrent DiscoverMode = iota
	DiscoverGoal
)

// StatesDiscover is the discover-style block for both
// "StatesDiscover::current" and "StatesDiscover::goal" (spec §4.5's
// table lists them as two rows of one family distinguished only by which
// of the item's try_state_* functions runs). Phase picks the
// States[Phase] type this instance produces — instantiate
// StatesDiscover[states.Current]{Mode: DiscoverCurrent} and
// StatesDiscover[states.Goal]{Mode: DiscoverGoal}.
type StatesDiscover[Phase any] struct {
	Mode DiscoverMode
}

func (b *StatesDiscover[Phase]) Desc() string {
	if b.Mode == DiscoverGoal {
		return "StatesDiscover::goal"
	}
	return "StatesDiscover::current"
}

func (b *StatesDiscover[Phase]) InputNamesShort() []string { return nil }
func (b *StatesDiscover[Phase]) InputNamesFull() []string  { return nil }

func (b *StatesDiscover[Phase]) OutcomeNamesShort() []string {
	return []string{resource.TypeName[states.States[Phase]]()}
}
func (b *StatesDiscover[Phase]) OutcomeNamesFull() []string {
	return []string{resource.TypeNameFull[states.States[Phase]]()}
}

func (b *StatesDiscover[Phase]) CheckInputs(rm *resource.Map) error { return nil }

func (b *StatesDiscover[Phase]) Exec(cc *cmdctx.CmdCtx, itemIDs []ident.ItemID) cmdblock.Result {
	fnCtx := fnCtxFor(cc)

	result := cmdblock.RunItems(cc.Interrupt, itemIDs, func(id ident.ItemID) (discovered, error) {
		it, err := boxedItem(cc, id)
		if err != nil {
			return discovered{}, err
		}
		partial, err := resolvePartial(cc, id)
		if err != nil {
			return discovered{}, err
		}
		data, err := it.FetchData(cc.Resources)
		if err != nil {
			return discovered{}, err
		}

		var state any
		if b.Mode == DiscoverGoal {
			state, err = it.TryStateGoal(fnCtx, partial, data)
		} else {
			state, err = it.TryStateCurrent(fnCtx, partial, data)
		}
		if err != nil {
			return discovered{}, err
		}
		return discovered{value: state, found: state != nil}, nil
	}, runOptionsFrom(cc))

	out := states.New[Phase]()
	for id, d := range result.Results {
		if d.found {
			out.Map.InsertState(id, d.value)
		} else {
			out.Map.InsertNoState(id)
		}
	}

	stream := cmdblock.NewItemStreamOutcome(out)
	stream.Processed = result.Processed
	stream.NotProcessed = result.NotProcessed

	if result.Interrupted {
		return cmdblock.Interrupted(stream)
	}
	if len(result.Errors) > 0 {
		return cmdblock.ItemErr(stream, result.Errors)
	}

	resource.Insert(cc.Resources, out)
	return cmdblock.Complete(out)
}

type discovered struct {
	value any
	found bool
}
