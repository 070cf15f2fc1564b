// Package ident provides the validated string identifiers used throughout
// Peace: ItemID, FlowID, and Profile.
//
// All three share one grammar: a leading letter or underscore, followed by
// any number of letters, digits, or underscores. Construction is the only
// place validation happens; once built, an identifier is immutable and
// cheap to pass around by value.
package ident

import (
	"strings"

	"github.com/openpeace/peace/pkg/perr"
)

// ItemID identifies an Item within a Flow.
type ItemID string

// FlowID identifies a Flow within a Profile.
type FlowID string

// Profile identifies a named environment (dev, prod, ...) that scopes
// persisted state on disk.
type Profile string

// NewItemID validates s and returns an ItemID.
func NewItemID(s string) (ItemID, error) {
	if err := validate(s); err != nil {
		return "", err
	}
	return ItemID(s), nil
}

// NewFlowID validates s and returns a FlowID.
func NewFlowID(s string) (FlowID, error) {
	if err := validate(s); err != nil {
		return "", err
	}
	return FlowID(s), nil
}

// NewProfile validates s and returns a Profile.
func NewProfile(s string) (Profile, error) {
	if err := validate(s); err != nil {
		return "", err
	}
	return Profile(s), nil
}

// validate checks s against the identifier grammar: [A-Za-z_][A-Za-z0-9_]*.
//
// A hand-rolled scan is used rather than regexp.MustCompile: the grammar is
// two character classes and a fixed anchor, and regexp's backtracking
// engine and compiled-program allocation buy nothing here — every
// identifier in a flow is validated once at construction, not on a hot
// path, so the only cost that matters is clarity.
func validate(s string) error {
	if s == "" {
		return perr.NewInvalidIdentifier(s, "identifier must not be empty")
	}

	first := rune(s[0])
	if !isLetter(first) && first != '_' {
		return perr.NewInvalidIdentifier(s, "identifier must start with a letter or underscore")
	}

	for _, r := range s[1:] {
		if !isLetter(r) && !isDigit(r) && r != '_' {
			return perr.NewInvalidIdentifier(s, "identifier must contain only letters, digits, or underscores")
		}
	}

	return nil
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// String implementations, so %s and fmt.Stringer consumers don't need a
// type switch between the three newtypes.

func (id ItemID) String() string  { return string(id) }
func (id FlowID) String() string  { return string(id) }
func (p Profile) String() string  { return string(p) }

// ItemIDsEqual reports whether two slices of ItemID contain the same IDs,
// ignoring order. Used by test scenarios that check processed/not-processed
// partitions cover the flow exactly once (spec §8 property 8).
func ItemIDsEqual(a, b []ItemID) bool {
	if len(a) != len(b) {
		return false
	}
	counts := make(map[ItemID]int, len(a))
	for _, id := range a {
		counts[id]++
	}
	for _, id := range b {
		counts[id]--
	}
	for _, c := range counts {
		if c != 0 {
			return false
		}
	}
	return true
}

// Join renders a slice of ItemID as a comma-separated string, for error
// messages and diagnostics.
func Join(ids []ItemID, sep string) string {
	ss := make([]string, len(ids))
	for i, id := range ids {
		ss[i] = string(id)
	}
	return strings.Join(ss, sep)
}
