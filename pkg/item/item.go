// Package item defines the Item contract: the unit of work a Flow's graph
// is built from (spec §4.1). An Item is generic over five associated
// types that the Rust trait left as trait associated types and Go models
// as ordinary type parameters:
//
//	P  — Params, the fully resolved parameters the item's logic runs with.
//	PA — Partial, the params type with every field optional, used by the
//	     read-only lifecycle functions (state_clean, try_state_*) that must
//	     run even when some params can't yet be resolved.
//	S  — State, the item's discovered-or-desired state.
//	D  — Diff, the comparison between two States.
//	Dt — Data, references into the shared ResourceMap the item needs for
//	     its lifecycle functions (e.g. a shared SSH client, an HTTP client).
//
// P and PA are mutually constrained: P must know how to produce its own
// PA (ToPartial) and PA must know how to merge onto / build a P (Merge,
// TryBuild). This is the Go stand-in for the derive-macro-generated
// `Params`/`...Partial` companion types the original crate's
// #[derive(Params)] macro produces (spec §1 Non-goals: no macros; spec
// §9: "item authors write the params/partial pair as a matched struct
// pair and hand-write the two small interface methods each way").
package item

import (
	"github.com/openpeace/peace/pkg/ident"
	"github.com/openpeace/peace/pkg/resource"
)

// Params is implemented by an item's fully resolved parameter struct. PA
// is that struct's partial companion type.
type Params[PA any] interface {
	ToPartial() PA
}

// Partial is implemented by an item's partial parameter struct. P is the
// corresponding fully resolved type.
type Partial[P any] interface {
	// Merge overlays this partial's set fields onto base, returning the
	// result. Fields left unset in the partial keep base's value.
	Merge(base P) P
	// TryBuild attempts to build a fully resolved P from this partial
	// alone; ok is false if a required field is still unset.
	TryBuild() (P, bool)
}

// Item is the generic contract every managed resource's logic
// implements (spec §4.1). Diff is named D in the spec's prose; it's
// spelled out here to avoid colliding with the Data type parameter Dt.
type Item[P Params[PA], PA Partial[P], S any, Diff any, Dt any] interface {
	// ID returns the item's identifier within its Flow.
	ID() ident.ItemID

	// Setup inserts or borrows from rm whatever long-lived resources this
	// item's other lifecycle functions will need (spec §4.1: "setup runs
	// once per CmdCtx build, before any block executes").
	Setup(rm *resource.Map) error

	// StateClean returns the item's "nothing has ever been applied" state,
	// used to diff against state_goal on a from-scratch plan and by the
	// clean command (spec §4.1, Supplemented Features: state_clean).
	StateClean(partial PA, data Dt) (S, error)

	// TryStateCurrent discovers current state using only the params
	// available in partial, returning (nil, nil) if state can't yet be
	// determined (e.g. a referenced upstream resource doesn't exist yet).
	TryStateCurrent(fnCtx FnCtx, partial PA, data Dt) (*S, error)

	// StateCurrent discovers current state given fully resolved params.
	// Call only after TryStateCurrent has confirmed state is determinable.
	StateCurrent(fnCtx FnCtx, params P, data Dt) (S, error)

	// TryStateGoal computes desired state using only the params available
	// in partial.
	TryStateGoal(fnCtx FnCtx, partial PA, data Dt) (*S, error)

	// StateGoal computes desired state given fully resolved params.
	StateGoal(fnCtx FnCtx, params P, data Dt) (S, error)

	// StateDiff compares two states. It receives only partial params
	// because diffing runs during the discovery phase, before params
	// resolution for apply is guaranteed complete.
	StateDiff(partial PA, data Dt, current, goal S) (Diff, error)

	// ApplyCheck inspects diff and reports whether apply has anything to
	// do, and if so how to budget its progress bar.
	ApplyCheck(params P, data Dt, current, target S, diff Diff) (ApplyCheckResult, error)

	// ApplyDry simulates apply without making changes, returning the state
	// apply would produce.
	ApplyDry(fnCtx FnCtx, params P, data Dt, current, target S, diff Diff) (S, error)

	// Apply reconciles current towards target per diff, returning the
	// resulting state.
	Apply(fnCtx FnCtx, params P, data Dt, current, target S, diff Diff) (S, error)
}
