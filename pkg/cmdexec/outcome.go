// Package cmdexec implements CmdExecution: the sequential block driver
// (spec §4.6) and its CmdOutcome four-variant result, plus the
// YAML-shaped diagnostic source reconstruction for a block's unfetchable
// input (spec §4.7).
package cmdexec

import (
	"github.com/google/uuid"
	"github.com/openpeace/peace/pkg/cmdblock"
	"github.com/openpeace/peace/pkg/ident"
)

// OutcomeKind discriminates a CmdOutcome's variant (spec §4.6: "CmdOutcome
// mirrors the four outcome kinds").
type OutcomeKind int

const (
	OutcomeComplete OutcomeKind = iota
	OutcomeBlockInterrupted
	OutcomeExecutionInterrupted
	OutcomeItemError
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeComplete:
		return "Complete"
	case OutcomeBlockInterrupted:
		return "BlockInterrupted"
	case OutcomeExecutionInterrupted:
		return "ExecutionInterrupted"
	case OutcomeItemError:
		return "ItemError"
	default:
		return "Unknown"
	}
}

// CmdOutcome is the result of running a CmdExecution to completion or to
// its earliest stopping point (spec §4.6).
//
//   - Complete: Value holds the reducer's output; ItemStream is zero.
//   - BlockInterrupted: the interrupted block's ItemStreamOutcome; Value
//     is zero. ProcessedBlocks does not include the interrupted block;
//     NotProcessedBlocks' first element is the interrupted block.
//   - ExecutionInterrupted: the signal fired between blocks; Value is set
//     only if a caller later supplies one via MapOutcome's Some-preserving
//     semantics (mirrors the original's Option<T>; here Value is simply
//     absent, HasValue false).
//   - ItemError: the erroring block's ItemStreamOutcome plus per-item
//     Errors; NotProcessedBlocks' first element is the block that erred.
type CmdOutcome[T any] struct {
	// RunID correlates this execution's telemetry events (teacher's
	// scheduler.go stamps each Run with a uuid.UUID the same way).
	RunID              uuid.UUID
	Kind               OutcomeKind
	Value              T
	HasValue           bool
	ItemStream         cmdblock.ItemStreamOutcome
	ProcessedBlocks    []BlockDesc
	NotProcessedBlocks []BlockDesc
	Errors             map[ident.ItemID]error
}

// Complete builds an OutcomeComplete CmdOutcome.
func Complete[T any](value T, processed []BlockDesc) CmdOutcome[T] {
	return CmdOutcome[T]{Kind: OutcomeComplete, Value: value, HasValue: true, ProcessedBlocks: processed}
}

// BlockInterrupted builds an OutcomeBlockInterrupted CmdOutcome.
func BlockInterrupted[T any](stream cmdblock.ItemStreamOutcome, processed, notProcessed []BlockDesc) CmdOutcome[T] {
	return CmdOutcome[T]{
		Kind:               OutcomeBlockInterrupted,
		ItemStream:         stream,
		ProcessedBlocks:    processed,
		NotProcessedBlocks: notProcessed,
	}
}

// ExecutionInterrupted builds an OutcomeExecutionInterrupted CmdOutcome
// (the signal fired between blocks, so there is no in-progress stream).
func ExecutionInterrupted[T any](processed, notProcessed []BlockDesc) CmdOutcome[T] {
	return CmdOutcome[T]{
		Kind:               OutcomeExecutionInterrupted,
		ProcessedBlocks:    processed,
		NotProcessedBlocks: notProcessed,
	}
}

// ItemError builds an OutcomeItemError CmdOutcome.
func ItemError[T any](
	stream cmdblock.ItemStreamOutcome,
	processed, notProcessed []BlockDesc,
	errs map[ident.ItemID]error,
) CmdOutcome[T] {
	return CmdOutcome[T]{
		Kind:               OutcomeItemError,
		ItemStream:         stream,
		ProcessedBlocks:    processed,
		NotProcessedBlocks: notProcessed,
		Errors:             errs,
	}
}

// IsComplete reports whether execution ran every block successfully.
func (o CmdOutcome[T]) IsComplete() bool { return o.Kind == OutcomeComplete }

// IsInterrupted reports whether execution stopped on the interrupt
// signal, inside a block or between blocks.
func (o CmdOutcome[T]) IsInterrupted() bool {
	return o.Kind == OutcomeBlockInterrupted || o.Kind == OutcomeExecutionInterrupted
}

// IsItemError reports whether execution stopped because a block produced
// item errors.
func (o CmdOutcome[T]) IsItemError() bool { return o.Kind == OutcomeItemError }

// MapOutcome lifts f over a CmdOutcome's inner value, preserving whichever
// variant it already was (spec §4.6: "CmdOutcome mirrors the four outcome
// kinds with a shared map ... surface").
func MapOutcome[T, U any](o CmdOutcome[T], f func(T) U) CmdOutcome[U] {
	out := CmdOutcome[U]{
		RunID:              o.RunID,
		Kind:               o.Kind,
		ItemStream:         o.ItemStream.Map(func(v any) any { return v }),
		ProcessedBlocks:    o.ProcessedBlocks,
		NotProcessedBlocks: o.NotProcessedBlocks,
		Errors:             o.Errors,
	}
	if o.Kind == OutcomeComplete {
		out.Value = f(o.Value)
		out.HasValue = true
	} else if o.HasValue {
		out.Value = f(o.Value)
		out.HasValue = true
	}
	return out
}

// MapOutcomeErr is MapOutcome's fallible counterpart (the original's
// map_async — here synchronous since pkg/cmdexec already runs blocks to
// completion one at a time before the caller ever sees a CmdOutcome).
func MapOutcomeErr[T, U any](o CmdOutcome[T], f func(T) (U, error)) (CmdOutcome[U], error) {
	out := CmdOutcome[U]{
		RunID:              o.RunID,
		Kind:               o.Kind,
		ItemStream:         o.ItemStream.Map(func(v any) any { return v }),
		ProcessedBlocks:    o.ProcessedBlocks,
		NotProcessedBlocks: o.NotProcessedBlocks,
		Errors:             o.Errors,
	}
	if o.Kind == OutcomeComplete || o.HasValue {
		u, err := f(o.Value)
		if err != nil {
			return CmdOutcome[U]{}, err
		}
		out.Value = u
		out.HasValue = true
	}
	return out, nil
}

// ResultT pairs a value with an error, the shape Transpose needs to lift a
// fallible accumulator out of a CmdOutcome (the original's
// CmdOutcome<Result<T, E>, E>::transpose).
type ResultT[T any] struct {
	Value T
	Err   error
}

// Transpose turns a CmdOutcome[ResultT[T]] into a (CmdOutcome[T], error):
// if the wrapped value carries an error, that error is returned directly
// and the outcome is discarded; otherwise the outcome is unwrapped to its
// plain value.
func Transpose[T any](o CmdOutcome[ResultT[T]]) (CmdOutcome[T], error) {
	if (o.Kind == OutcomeComplete || o.HasValue) && o.Value.Err != nil {
		return CmdOutcome[T]{}, o.Value.Err
	}
	return MapOutcome(o, func(r ResultT[T]) T { return r.Value }), nil
}
