// Package interrupt implements InterruptHandle: the single cooperative
// cancellation signal shared across one CmdExecution (spec §5, §6
// glossary: "External signal that cooperatively halts the execution at
// the next safe point").
//
// Firing it is a one-shot, idempotent operation; every reader of
// Triggered/Done observes the trip exactly once it happens, however many
// readers there are and regardless of ordering. This generalizes the
// teacher scheduler's per-run ctx.Done() poll (pkg/engine/scheduler.go's
// handleCancellation / ctx.Err() checks between units) into a
// freestanding signal, since an item-stream interrupt here is an
// operator action, not a context deadline: CmdExecution still takes a
// context.Context for deadlines and plumbs it alongside this handle, but
// the two are independent triggers.
package interrupt

import "sync"

// Handle is a cooperative cancellation signal. The zero value is not
// usable; construct with New.
type Handle struct {
	once      sync.Once
	triggered chan struct{}
}

// New returns an untriggered Handle.
func New() *Handle {
	return &Handle{triggered: make(chan struct{})}
}

// Trigger trips the signal. Safe to call more than once or concurrently;
// only the first call has effect.
func (h *Handle) Trigger() {
	h.once.Do(func() { close(h.triggered) })
}

// Triggered reports whether Trigger has been called.
func (h *Handle) Triggered() bool {
	select {
	case <-h.triggered:
		return true
	default:
		return false
	}
}

// Done returns a channel that's closed once Trigger is called, for use in
// select statements alongside a context.Context's Done channel.
func (h *Handle) Done() <-chan struct{} {
	return h.triggered
}
