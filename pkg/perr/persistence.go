package perr

import "fmt"

// Span is a byte offset and length into a source document, used to
// highlight the offending part of a persisted file or a reconstructed
// diagnostic source (spec §4.7, §7).
type Span struct {
	Start int
	Len   int
}

// NewPersistenceNotFound reports that a persisted file was expected but is
// absent (e.g. a Stored params spec with nothing ever written).
func NewPersistenceNotFound(path string) *Error {
	return &Error{
		Class:    ClassPermanent,
		Kind:     KindPersistenceNotFound,
		Message:  "persisted file not found",
		Resource: path,
	}
}

// NewPersistenceDeserialize reports a YAML decode failure, optionally
// carrying the byte span of the offending fragment.
func NewPersistenceDeserialize(path string, cause error, span *Span) *Error {
	e := &Error{
		Class:    ClassPermanent,
		Kind:     KindPersistenceDeserialize,
		Message:  "failed to deserialize persisted file",
		Resource: path,
		Err:      cause,
	}
	if span != nil {
		e.WithDetail("span", *span)
	}
	return e
}

// NewPersistenceSerialize reports a YAML encode failure.
func NewPersistenceSerialize(path string, cause error) *Error {
	return &Error{
		Class:    ClassTransient,
		Kind:     KindPersistenceSerialize,
		Message:  "failed to serialize data for persistence",
		Resource: path,
		Err:      cause,
	}
}

// SpanOf extracts the byte span stashed on a persistence error, if any.
func SpanOf(e *Error) (Span, bool) {
	v, ok := e.Detail("span")
	if !ok {
		return Span{}, false
	}
	span, ok := v.(Span)
	return span, ok
}

// NewCmdExecutionInputFetch reports that a CmdBlock could not fetch one of
// its declared inputs from the ResourceMap (spec §4.6, §4.7).
//
// source is the reconstructed YAML-shaped execution description; span (if
// non-nil) highlights the first occurrence of inputNameShort within it.
// blockDescs lists the name of every block in the execution, in order, for
// callers that want them without re-parsing source.
func NewCmdExecutionInputFetch(
	blockIndex int,
	inputNameShort, inputNameFull string,
	blockDescs []string,
	source string,
	span *Span,
) *Error {
	e := &Error{
		Class:   ClassPermanent,
		Kind:    KindCmdExecutionInputFetch,
		Message: fmt.Sprintf("command block %d could not fetch input %q", blockIndex, inputNameShort),
		Err:     nil,
	}
	e.WithDetail("block_index", blockIndex)
	e.WithDetail("input_name_short", inputNameShort)
	e.WithDetail("input_name_full", inputNameFull)
	e.WithDetail("block_descs", blockDescs)
	e.WithDetail("source", source)
	if span != nil {
		e.WithDetail("span", *span)
	}
	return e
}

// NewItemError wraps a user-defined error returned by an Item's lifecycle
// function, keyed by item ID for the caller to aggregate (spec §7: "Item
// errors ... surfaced keyed by ItemId").
func NewItemError(itemID string, cause error) *Error {
	return &Error{
		Class:    ClassPermanent,
		Kind:     KindItem,
		Message:  "item operation failed",
		Resource: itemID,
		Err:      cause,
	}
}
