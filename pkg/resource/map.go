// Package resource implements ResourceMap: a dynamically typed,
// single-instance-per-type container with interior borrow tracking,
// accessed concurrently by item tasks within one CmdBlock (spec §4.4, §9).
//
// Inserting a second value of a type replaces the first. Borrowing a type
// that isn't present, or that's held under a conflicting mode, fails with a
// typed error rather than panicking or blocking — see ResourceMap's
// generalization of BorrowFail in pkg/perr (ValueNotFound,
// BorrowConflictImm, BorrowConflictMut).
//
// Borrow state is an atomic int32 per slot (spec §9's own prescription):
// 0 means unborrowed, -1 means held mutably, and any positive N means held
// immutably by N concurrent borrowers. The Map's slot table is guarded by
// an RWMutex: Insert/Remove take it exclusively, while Contains and the
// slot lookup at the start of every borrow take it shared. Each slot also
// has its own mutex, held briefly while a borrow copies the value out and
// while a mutable borrow's Release writes it back; releasing an immutable
// borrow only touches the atomic counter.
package resource

import (
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/openpeace/peace/pkg/perr"
)

const (
	stateUnborrowed int32 = 0
	stateMut        int32 = -1
)

type slot struct {
	mu    sync.Mutex // guards value during a mutable borrow's write-back
	value any
	state int32 // atomic
}

// Map is the ResourceMap: a map from type to a single owned value of that
// type, plus per-slot borrow tracking.
type Map struct {
	mu    sync.RWMutex
	slots map[reflect.Type]*slot
}

// New returns an empty Map.
func New() *Map {
	return &Map{slots: make(map[reflect.Type]*slot)}
}

func typeOf[T any]() reflect.Type {
	var zero T
	return reflect.TypeOf(&zero).Elem()
}

// TypeName returns T's type name without its package (e.g. "StateDiffs"),
// the name a Block declares in its InputNamesShort/OutcomeNamesShort for
// the diagnostic renderer (spec §4.7). For an instantiated generic type the
// type arguments keep their import path (e.g.
// "States[github.com/openpeace/peace/pkg/states.Current]").
func TypeName[T any]() string {
	return typeOf[T]().Name()
}

// TypeNameFull returns T's package-qualified type name (e.g.
// "states.States[github.com/openpeace/peace/pkg/states.Current]"), for
// InputNamesFull/OutcomeNamesFull.
func TypeNameFull[T any]() string {
	return typeOf[T]().String()
}

// CheckPresent reports whether a value of type T is available, returning
// a *perr.Error carrying T's full name if not — the building block
// for a Block's CheckInputs preflight (spec §4.6 step 2).
func CheckPresent[T any](m *Map) error {
	if Contains[T](m) {
		return nil
	}
	return perr.NewValueNotFound(TypeNameFull[T]())
}

// Insert stores value, replacing any existing value of the same type.
func Insert[T any](m *Map, value T) {
	t := typeOf[T]()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slots[t] = &slot{value: value}
}

// Contains reports whether a value of type T is present.
func Contains[T any](m *Map) bool {
	t := typeOf[T]()
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.slots[t]
	return ok
}

// Remove deletes the value of type T, if any.
func Remove[T any](m *Map) {
	t := typeOf[T]()
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.slots, t)
}

func findSlot[T any](m *Map) (*slot, bool) {
	t := typeOf[T]()
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.slots[t]
	return s, ok
}

// Borrow is a live immutable borrow of a value of type T.
type Borrow[T any] struct {
	value T
	slot  *slot
}

// Value returns the borrowed value.
func (b Borrow[T]) Value() T { return b.value }

// Release returns the immutable borrow.
func (b Borrow[T]) Release() {
	atomic.AddInt32(&b.slot.state, -1)
}

// TryBorrow attempts a non-blocking immutable borrow of type T.
func TryBorrow[T any](m *Map) (Borrow[T], error) {
	s, ok := findSlot[T](m)
	if !ok {
		return Borrow[T]{}, perr.NewValueNotFound(typeOf[T]().String())
	}
	for {
		cur := atomic.LoadInt32(&s.state)
		if cur == stateMut {
			return Borrow[T]{}, perr.NewBorrowConflictImm(typeOf[T]().String())
		}
		if atomic.CompareAndSwapInt32(&s.state, cur, cur+1) {
			s.mu.Lock()
			v, _ := s.value.(T)
			s.mu.Unlock()
			return Borrow[T]{value: v, slot: s}, nil
		}
	}
}

// BorrowMut is a live, exclusive borrow of a value of type T. Changes made
// through the pointer Value returns become visible to subsequent borrowers
// once Release writes the value back into the map.
type BorrowMut[T any] struct {
	value T
	slot  *slot
	m     *Map
}

// Value returns the mutably borrowed value.
func (b *BorrowMut[T]) Value() *T { return &b.value }

// Release writes the (possibly mutated) value back into the map and
// releases the mutable borrow.
func (b *BorrowMut[T]) Release() {
	b.slot.mu.Lock()
	b.slot.value = b.value
	b.slot.mu.Unlock()
	atomic.StoreInt32(&b.slot.state, stateUnborrowed)
}

// TryBorrowMut attempts a non-blocking mutable borrow of type T.
func TryBorrowMut[T any](m *Map) (*BorrowMut[T], error) {
	s, ok := findSlot[T](m)
	if !ok {
		return nil, perr.NewValueNotFound(typeOf[T]().String())
	}
	if !atomic.CompareAndSwapInt32(&s.state, stateUnborrowed, stateMut) {
		return nil, perr.NewBorrowConflictMut(typeOf[T]().String())
	}
	s.mu.Lock()
	v, _ := s.value.(T)
	s.mu.Unlock()
	return &BorrowMut[T]{value: v, slot: s, m: m}, nil
}
