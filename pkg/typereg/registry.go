// Package typereg implements TypeRegistry: a key-keyed set of
// deserialization and equality thunks that lets a heterogeneous map (keyed
// by ItemID, or by a user-chosen params key) round-trip through YAML
// without the reader knowing every concrete type up front (spec §3, §4.8).
//
// Each registration pairs a key (typically an ident.ItemID rendered as a
// string) with a zero-value factory and an equality thunk for the
// concrete Go type that key's value decodes into. Decoding a persisted
// map then proceeds key-by-key: look up the registered factory, decode the
// YAML fragment into it, and box the result — exactly the role
// type_reg::untagged::TypeMap plays for the original Rust states files
// (original_source crate/rt_model_core/src/params/params_type_regs_builder.rs,
// crate/rt_model/src/states_deserializer.rs), reimplemented against
// gopkg.in/yaml.v3's yaml.Node for per-key staged decoding — the same
// "decode the discriminator, then decode the payload with a registered
// type" idiom encoding/json uses RawMessage for.
package typereg

import (
	"reflect"

	"github.com/openpeace/peace/pkg/perr"
	"gopkg.in/yaml.v3"
)

type entry struct {
	typeNameFull string
	newValue     func() any
	equal        func(a, b any) bool
}

// Registry maps keys of type K to deserialization/equality thunks.
type Registry[K comparable] struct {
	entries map[K]entry
}

// New returns an empty Registry.
func New[K comparable]() *Registry[K] {
	return &Registry[K]{entries: make(map[K]entry)}
}

// Register associates key with type T: a zero *T will be used as the
// unmarshal target, and reflect.DeepEqual is used for equality unless T
// implements the Equatable interface below.
func Register[K comparable, T any](r *Registry[K], key K) {
	var zero T
	typeName := reflect.TypeOf(&zero).Elem().String()

	r.entries[key] = entry{
		typeNameFull: typeName,
		newValue: func() any {
			return new(T)
		},
		equal: func(a, b any) bool {
			if eq, ok := a.(Equatable); ok {
				return eq.StateEqual(b)
			}
			return reflect.DeepEqual(a, b)
		},
	}
}

// Equatable lets a registered type define its own equality, for state
// types whose semantic equality differs from field-wise DeepEqual (spec
// §4.1: "state_eq" — erased equality comparison of boxed state). When a
// type does not implement it, Registry falls back to reflect.DeepEqual.
type Equatable interface {
	StateEqual(other any) bool
}

// Has reports whether key is registered.
func (r *Registry[K]) Has(key K) bool {
	_, ok := r.entries[key]
	return ok
}

// TypeNameFull returns the fully-qualified Go type name registered under
// key, for diagnostics.
func (r *Registry[K]) TypeNameFull(key K) (string, bool) {
	e, ok := r.entries[key]
	if !ok {
		return "", false
	}
	return e.typeNameFull, true
}

// Equal compares two values previously decoded (or inserted) under key
// using key's registered equality thunk, falling back to reflect.DeepEqual
// if key was never registered.
func (r *Registry[K]) Equal(key K, a, b any) bool {
	e, ok := r.entries[key]
	if !ok {
		return reflect.DeepEqual(a, b)
	}
	return e.equal(a, b)
}

// DecodeValue decodes a single YAML node into the type registered for key,
// returning the decoded T value (not a pointer) as any (the caller
// downcasts via a type assertion it already knows the type of).
func (r *Registry[K]) DecodeValue(key K, node *yaml.Node, path string) (any, error) {
	e, ok := r.entries[key]
	if !ok {
		// Unregistered keys survive as opaque nodes (spec §3: "unknown
		// items survive as opaque entries").
		return node, nil
	}
	target := e.newValue()
	if err := node.Decode(target); err != nil {
		return nil, perr.NewPersistenceDeserialize(path, err, nil)
	}
	return reflect.ValueOf(target).Elem().Interface(), nil
}

// DecodeMap decodes a flat YAML mapping document (spec §3: "all .yaml
// files are flat maps") into map[K]any, using DecodeValue per entry. Keys
// present in raw but not registered decode as *yaml.Node, preserved
// opaquely for round-tripping across flow versions that no longer know
// about them.
func DecodeMap[K comparable](r *Registry[K], raw map[K]yaml.Node, path string) (map[K]any, error) {
	out := make(map[K]any, len(raw))
	for k, node := range raw {
		n := node
		v, err := r.DecodeValue(k, &n, path)
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}
