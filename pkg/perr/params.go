package perr

import "strings"

// ResolutionFrame is one entry in a ValueResolutionCtx stack: the item and
// field a params-spec resolution was working on when it needed a resource,
// and the type it needed.
//
// Pushed as FieldWise specs recurse into sub-specs, popped on the way back
// out, so the final error names the precise path into a nested params
// structure (spec §4.3).
type ResolutionFrame struct {
	ItemID        string
	FieldName     string
	TypeNameShort string
	TypeNameFull  string
}

// ResolutionCtx is the stack of frames accumulated while resolving a
// (possibly nested) params spec.
type ResolutionCtx struct {
	frames []ResolutionFrame
}

// NewResolutionCtx starts a resolution context for the given item.
func NewResolutionCtx(itemID string) *ResolutionCtx {
	return &ResolutionCtx{frames: []ResolutionFrame{{ItemID: itemID}}}
}

// Push adds a frame describing the field and type currently being resolved.
func (c *ResolutionCtx) Push(fieldName, typeNameShort, typeNameFull string) {
	c.frames = append(c.frames, ResolutionFrame{
		ItemID:        c.frames[0].ItemID,
		FieldName:     fieldName,
		TypeNameShort: typeNameShort,
		TypeNameFull:  typeNameFull,
	})
}

// Pop removes the most recently pushed frame.
func (c *ResolutionCtx) Pop() {
	if len(c.frames) > 1 {
		c.frames = c.frames[:len(c.frames)-1]
	}
}

// Frames returns the accumulated frame stack, oldest first. The slice is
// returned by value-copy semantics are the caller's responsibility; the
// returned slice must not be mutated.
func (c *ResolutionCtx) Frames() []ResolutionFrame {
	return c.frames
}

// Clone returns an independent copy, so an error can capture the stack at
// the moment it occurred without being mutated by further Pop calls.
func (c *ResolutionCtx) Clone() *ResolutionCtx {
	frames := make([]ResolutionFrame, len(c.frames))
	copy(frames, c.frames)
	return &ResolutionCtx{frames: frames}
}

// String renders the frame stack as "item.field1.field2: TypeNameShort".
func (c *ResolutionCtx) String() string {
	var b strings.Builder
	b.WriteString(c.frames[0].ItemID)
	last := c.frames[len(c.frames)-1]
	for _, f := range c.frames[1:] {
		b.WriteString(".")
		b.WriteString(f.FieldName)
	}
	if last.TypeNameShort != "" {
		b.WriteString(": ")
		b.WriteString(last.TypeNameShort)
	}
	return b.String()
}

const detailResolutionCtx = "resolution_ctx"

func withResolutionCtx(e *Error, ctx *ResolutionCtx) *Error {
	if ctx != nil {
		e.WithDetail(detailResolutionCtx, ctx.Clone())
		e.Resource = ctx.String()
	}
	return e
}

// ResolutionCtxOf extracts the ResolutionCtx stashed on a params-resolution
// error, if any.
func ResolutionCtxOf(e *Error) (*ResolutionCtx, bool) {
	v, ok := e.Detail(detailResolutionCtx)
	if !ok {
		return nil, false
	}
	ctx, ok := v.(*ResolutionCtx)
	return ctx, ok
}

// NewParamsInMemory reports that an InMemory/Stored ValueSpec's resource
// was absent (spec §7: ParamsResolutionError::From corresponds to the
// generalized "InMemory" case here since Peace's Stored/InMemory both
// borrow from the ResourceMap).
func NewParamsInMemory(ctx *ResolutionCtx) *Error {
	return withResolutionCtx(&Error{
		Class:   ClassPermanent,
		Kind:    KindParamsInMemory,
		Message: "value not found in resource map while resolving params",
	}, ctx)
}

// NewParamsInMemoryBorrowConflict reports a borrow conflict while resolving
// an InMemory/Stored ValueSpec.
func NewParamsInMemoryBorrowConflict(ctx *ResolutionCtx) *Error {
	return withResolutionCtx(&Error{
		Class:   ClassConflict,
		Kind:    KindParamsInMemoryBorrowConflict,
		Message: "resource map borrow conflict while resolving params",
	}, ctx)
}

// NewParamsFrom reports that a MappingFn's declared input was absent.
func NewParamsFrom(ctx *ResolutionCtx) *Error {
	return withResolutionCtx(&Error{
		Class:   ClassPermanent,
		Kind:    KindParamsFrom,
		Message: "mapping function input not found in resource map",
	}, ctx)
}

// NewParamsFromBorrowConflict reports a borrow conflict while a MappingFn
// fetched its declared input.
func NewParamsFromBorrowConflict(ctx *ResolutionCtx) *Error {
	return withResolutionCtx(&Error{
		Class:   ClassConflict,
		Kind:    KindParamsFromBorrowConflict,
		Message: "resource map borrow conflict while resolving mapping function input",
	}, ctx)
}

// NewParamsMappingFn wraps an error returned by a MappingFn's own closure.
func NewParamsMappingFn(ctx *ResolutionCtx, cause error) *Error {
	e := &Error{
		Class:   ClassPermanent,
		Kind:    KindParamsMappingFn,
		Message: "mapping function returned an error",
		Err:     cause,
	}
	return withResolutionCtx(e, ctx)
}

// NewParamsStoredSpecCycle reports that a Stored spec's persisted backing
// spec was itself Stored — an unresolvable cycle (spec §9 Open Questions).
func NewParamsStoredSpecCycle(itemID string) *Error {
	return &Error{
		Class:    ClassPermanent,
		Kind:     KindParamsStoredSpecCycle,
		Message:  "stored params spec resolves to another stored spec",
		Resource: itemID,
	}
}
