package cmdblock

import "github.com/openpeace/peace/pkg/ident"

// ResultKind discriminates how a Block's Exec concluded (spec §4.6 step
// 3: "Complete(outcome_tuple), Interrupted(item_stream_outcome), or
// ItemError(item_stream_outcome, errors_by_item_id)").
type ResultKind int

const (
	ResultComplete ResultKind = iota
	ResultInterrupted
	ResultItemError
)

// Result is the outcome of one Block.Exec call.
type Result struct {
	Kind    ResultKind
	Outcome any // set when Kind == ResultComplete
	Stream  ItemStreamOutcome
	Errors  map[ident.ItemID]error // set when Kind == ResultItemError
}

// Complete builds a ResultComplete carrying the block's finished outcome
// tuple (represented here as a single `any`, typically a struct
// aggregating the block's Outcome types).
func Complete(outcome any) Result {
	return Result{Kind: ResultComplete, Outcome: outcome}
}

// Interrupted builds a ResultInterrupted carrying the stream state at the
// moment cancellation was observed.
func Interrupted(stream ItemStreamOutcome) Result {
	return Result{Kind: ResultInterrupted, Stream: stream}
}

// ItemErr builds a ResultItemError carrying the stream state and the
// per-item errors that halted the block.
func ItemErr(stream ItemStreamOutcome, errs map[ident.ItemID]error) Result {
	return Result{Kind: ResultItemError, Stream: stream, Errors: errs}
}
