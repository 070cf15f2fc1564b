// Package perr defines Peace's error taxonomy: a small set of error kinds
// covering every failure mode named in the specification (identifier
// validation, resource borrowing, params resolution, persistence, command
// execution, and item errors), built on one classified, chainable error
// type.
//
// The shape is grounded on the teacher's EngineError (see
// pkg/engine/errors.go in the pre-transform tree): a struct carrying a
// retry-relevant Class, a Kind discriminator, and With*-style chained
// builder methods, with Unwrap/Is support for the standard errors package.
package perr

import (
	"errors"
	"fmt"
	"strings"
)

// Class classifies an error for retry and recovery logic, independent of
// which specific Kind produced it.
type Class string

const (
	// ClassPermanent indicates a non-recoverable error: fixing the flow,
	// the params spec, or the input is the only way forward.
	ClassPermanent Class = "permanent"

	// ClassConflict indicates a resource state conflict (a borrow
	// conflict, a concurrent modification) that may succeed if retried
	// after the conflicting access completes.
	ClassConflict Class = "conflict"

	// ClassTransient indicates a failure in a collaborator (disk I/O,
	// network) that may succeed on retry without any change to inputs.
	ClassTransient Class = "transient"
)

// Kind discriminates the specific error shape within a Class, matching the
// taxonomy in spec §7.
type Kind string

const (
	KindInvalidIdentifier Kind = "InvalidIdentifier"

	KindValueNotFound      Kind = "ValueNotFound"
	KindBorrowConflictImm  Kind = "BorrowConflictImm"
	KindBorrowConflictMut  Kind = "BorrowConflictMut"

	KindParamsInMemory              Kind = "ParamsInMemory"
	KindParamsInMemoryBorrowConflict Kind = "ParamsInMemoryBorrowConflict"
	KindParamsFrom                  Kind = "ParamsFrom"
	KindParamsFromBorrowConflict    Kind = "ParamsFromBorrowConflict"
	KindParamsMappingFn             Kind = "ParamsMappingFn"
	KindParamsStoredSpecCycle       Kind = "ParamsStoredSpecCycle"

	KindPersistenceNotFound     Kind = "PersistenceNotFound"
	KindPersistenceDeserialize  Kind = "PersistenceDeserialize"
	KindPersistenceSerialize    Kind = "PersistenceSerialize"

	KindCmdExecutionInputFetch Kind = "CmdExecutionInputFetch"

	KindItem Kind = "Item"
)

// Error is Peace's classified error type. Every constructor in this package
// returns one, pre-populated with the appropriate Class and Kind.
type Error struct {
	Class   Class
	Kind    Kind
	Message string

	// Resource names the type, field, or path the error concerns, for
	// display (e.g. "States[Current]", "vec_copy.dest").
	Resource string

	// Err is the underlying cause, if any.
	Err error

	// Details carries kind-specific structured context (a resolution
	// chain, a byte span, block descriptors) that callers can type-assert
	// out; see the WithDetail accessors below each constructor group.
	Details map[string]any
}

func (e *Error) Error() string {
	if e.Resource != "" {
		if e.Err != nil {
			return fmt.Sprintf("[%s] %s (%s): %s", e.Kind, e.Message, e.Resource, e.Err)
		}
		return fmt.Sprintf("[%s] %s (%s)", e.Kind, e.Message, e.Resource)
	}
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is implements errors.Is by Kind equality; callers that need Class-level
// matching should use IsRetryable/Class directly.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// WithResource sets the Resource field and returns e for chaining.
func (e *Error) WithResource(resource string) *Error {
	e.Resource = resource
	return e
}

// WithDetail stashes a kind-specific value under key and returns e for
// chaining.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// Detail retrieves a value previously stored with WithDetail.
func (e *Error) Detail(key string) (any, bool) {
	v, ok := e.Details[key]
	return v, ok
}

// Render underlines a stashed "source"/"span" detail pair with carets,
// the CLI-friendly substitute for a miette diagnostic (out of scope, spec
// §1). Errors without both details render as their plain Error() string.
func (e *Error) Render() string {
	src, ok := e.Detail("source")
	if !ok {
		return e.Error()
	}
	source, ok := src.(string)
	if !ok {
		return e.Error()
	}
	spanVal, ok := e.Detail("span")
	if !ok {
		return e.Error() + "\n\n" + source
	}
	span, ok := spanVal.(Span)
	if !ok {
		return e.Error() + "\n\n" + source
	}

	lineStart := strings.LastIndexByte(source[:span.Start], '\n') + 1
	lineEnd := strings.IndexByte(source[span.Start:], '\n')
	if lineEnd == -1 {
		lineEnd = len(source)
	} else {
		lineEnd += span.Start
	}
	line := source[lineStart:lineEnd]
	carets := strings.Repeat(" ", span.Start-lineStart) + strings.Repeat("^", span.Len)

	var b strings.Builder
	b.WriteString(e.Error())
	b.WriteString("\n\n")
	b.WriteString(source[:lineStart])
	b.WriteString(line)
	b.WriteString("\n")
	b.WriteString(carets)
	b.WriteString("\n")
	b.WriteString(source[lineEnd:])
	return b.String()
}

// IsRetryable reports whether err (or any error it wraps) is classified as
// conflict or transient.
func IsRetryable(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Class == ClassConflict || e.Class == ClassTransient
	}
	return false
}

// KindOf returns the Kind of err if it is (or wraps) a *Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

// NewInvalidIdentifier reports that value fails the identifier grammar
// (spec §3): a leading letter or underscore, then letters/digits/underscores.
func NewInvalidIdentifier(value, reason string) *Error {
	return &Error{
		Class:    ClassPermanent,
		Kind:     KindInvalidIdentifier,
		Message:  reason,
		Resource: value,
	}
}

// NewValueNotFound reports that no value of the named type is present in a
// ResourceMap.
func NewValueNotFound(typeName string) *Error {
	return &Error{
		Class:    ClassPermanent,
		Kind:     KindValueNotFound,
		Message:  "no value of this type is present in the resource map",
		Resource: typeName,
	}
}

// NewBorrowConflictImm reports that an immutable borrow of the named type
// failed because it is currently held mutably.
func NewBorrowConflictImm(typeName string) *Error {
	return &Error{
		Class:    ClassConflict,
		Kind:     KindBorrowConflictImm,
		Message:  "value is already borrowed mutably",
		Resource: typeName,
	}
}

// NewBorrowConflictMut reports that a mutable borrow of the named type
// failed because it is currently held (mutably or immutably) elsewhere.
func NewBorrowConflictMut(typeName string) *Error {
	return &Error{
		Class:    ClassConflict,
		Kind:     KindBorrowConflictMut,
		Message:  "value is already borrowed",
		Resource: typeName,
	}
}
