package item

import (
	"context"

	"github.com/openpeace/peace/pkg/interrupt"
)

// ProgressLimitKind discriminates the unit an apply budgets progress in.
type ProgressLimitKind int

const (
	// ProgressUnknown means the item cannot estimate how much work apply
	// will do.
	ProgressUnknown ProgressLimitKind = iota
	// ProgressSteps means N discrete steps.
	ProgressSteps
	// ProgressBytes means N bytes of data transfer.
	ProgressBytes
)

// ProgressLimit budgets a progress bar for an item's apply (spec §4.1:
// "ApplyRequired { progress_limit }").
type ProgressLimit struct {
	Kind ProgressLimitKind
	N    uint64
}

// ProgressLimitUnknownValue is the zero-information limit.
var ProgressLimitUnknownValue = ProgressLimit{Kind: ProgressUnknown}

// ProgressLimitOfSteps budgets N discrete steps.
func ProgressLimitOfSteps(n uint64) ProgressLimit {
	return ProgressLimit{Kind: ProgressSteps, N: n}
}

// ProgressLimitOfBytes budgets N bytes.
func ProgressLimitOfBytes(n uint64) ProgressLimit {
	return ProgressLimit{Kind: ProgressBytes, N: n}
}

// ProgressMsgUpdate describes whether a progress increment changes the
// displayed message.
type ProgressMsgUpdate int

const (
	ProgressMsgNoChange ProgressMsgUpdate = iota
	ProgressMsgSet
)

// ProgressUpdate is one increment sent on FnCtx.Progress during apply.
type ProgressUpdate struct {
	Delta     uint64
	MsgUpdate ProgressMsgUpdate
	Message   string
}

// ApplyCheckResult is the result of Item.ApplyCheck: either no work is
// needed, or work is needed and budgeted by a ProgressLimit (spec §4.1).
type ApplyCheckResult struct {
	Required      bool
	ProgressLimit ProgressLimit
}

// ExecNotRequired reports that apply_check determined no work is needed.
func ExecNotRequired() ApplyCheckResult {
	return ApplyCheckResult{Required: false}
}

// ExecRequired reports that apply_check determined work is needed, budgeted
// by limit.
func ExecRequired(limit ProgressLimit) ApplyCheckResult {
	return ApplyCheckResult{Required: true, ProgressLimit: limit}
}

// FnCtx is the bundle every Item lifecycle function receives: the run's
// context.Context (for deadlines and the stdlib cancellation idiom), the
// cooperative interrupt handle items may poll for fine-grained cancellation
// (spec §5), and a channel to report apply progress on.
type FnCtx struct {
	Ctx       context.Context
	Interrupt *interrupt.Handle
	Progress  chan<- ProgressUpdate
}

// Interrupted reports whether the shared interrupt signal has fired.
func (f FnCtx) Interrupted() bool {
	if f.Interrupt == nil {
		return false
	}
	return f.Interrupt.Triggered()
}

// SendProgress reports a progress increment, silently no-op if no progress
// channel was wired (e.g. a dry run invoked outside a CmdBlock that tracks
// progress).
func (f FnCtx) SendProgress(delta uint64, update ProgressMsgUpdate) {
	if f.Progress == nil {
		return
	}
	select {
	case f.Progress <- ProgressUpdate{Delta: delta, MsgUpdate: update}:
	default:
	}
}
