// Package cmdblock implements the Block contract (spec §4.5): a typed
// computation over the item stream, declaring the ResourceMap types it
// consumes (Input) and produces (Outcome), and driving per-item work
// concurrently via RunItems.
//
// Go has no tuple types, so where the spec's Input/Outcome are described
// as tuples of ResourceMap types, a Block here declares them as ordered
// name lists (InputNames*/OutcomeNames*) for the diagnostic
// renderer (spec §4.7) and fetches/inserts the actual values itself in
// Exec via pkg/resource, matching how the teacher's ParallelScheduler
// units declare typed fields rather than reflecting over a tuple.
package cmdblock

import (
	"fmt"

	"github.com/openpeace/peace/pkg/cmdctx"
	"github.com/openpeace/peace/pkg/ident"
	"github.com/openpeace/peace/pkg/resource"
)

// Block is one phase of a CmdExecution.
type Block interface {
	// Desc names the block for diagnostics (spec §4.7: "one line for the
	// block name").
	Desc() string

	// InputNamesShort/Full and OutcomeNamesShort/Full list the
	// ResourceMap type names this block consumes/produces, in the order
	// the diagnostic renderer should display them. An empty slice
	// renders as "()".
	InputNamesShort() []string
	InputNamesFull() []string
	OutcomeNamesShort() []string
	OutcomeNamesFull() []string

	// CheckInputs is the CmdExecution driver's preflight (spec §4.6 step
	// 2, "fetch the block's inputs"): it verifies every declared input is
	// present in rm without holding a borrow, returning an
	// *InputUnavailable naming the first input that isn't. Exec performs
	// the actual TryBorrow calls once the stream is running.
	CheckInputs(rm *resource.Map) error

	// Exec drives the block's per-item work against cc, over the given
	// item IDs (already topologically ordered by the caller). It returns
	// one of Complete/Interrupted/ItemError (see Result).
	Exec(cc *cmdctx.CmdCtx, itemIDs []ident.ItemID) Result
}

// InputUnavailable reports that a Block's declared input could not be
// found in the ResourceMap when
// CmdExecution's driver ran its preflight check (spec §4.6 step 2). The
// CmdExecution driver translates this into a CmdExecutionError::InputFetch
// diagnostic naming the offending block and reconstructing the
// YAML-shaped execution source (spec §4.7).
type InputUnavailable struct {
	ShortName string
	FullName  string
	Cause     error
}

func (e *InputUnavailable) Error() string {
	return fmt.Sprintf("input %q unavailable: %v", e.ShortName, e.Cause)
}

func (e *InputUnavailable) Unwrap() error { return e.Cause }
