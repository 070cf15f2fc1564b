// Package output implements Output, the second external collaborator
// interface the core consumes (spec §6): a "present" method family for
// emitting markdown-like structured text plus the destination for
// fn_ctx's progress channel. The core calls Output.Progress when it builds
// an item's fn_ctx (pkg/blocks) and hands that channel to item lifecycle
// functions as fn_ctx.Progress (pkg/item.FnCtx); the core itself never
// reads from it.
package output

import (
	"fmt"
	"io"
	"sync"

	"github.com/openpeace/peace/pkg/item"
)

// Output is the collaborator interface CmdCtx is built with.
type Output interface {
	// Present writes a block of markdown-like structured text (spec §6).
	Present(heading string, lines []string) error
	// Progress returns the channel item lifecycle functions report
	// progress on via fn_ctx.
	Progress() chan<- item.ProgressUpdate
}

// Writer is a minimal concrete Output writing to an io.Writer, the
// equivalent of the teacher's plain-stdout CLI presentation path before
// its telemetry layer's structured logging takes over (pkg/telemetry's
// Logger is for operational logs; Output is for the tool's user-facing
// command results, a distinct concern spec §6 keeps separate).
type Writer struct {
	w        io.Writer
	mu       sync.Mutex
	progress chan item.ProgressUpdate
}

// NewWriter returns a Writer presenting to w, with a progress channel of
// the given buffer size (0 for unbuffered).
func NewWriter(w io.Writer, progressBuffer int) *Writer {
	return &Writer{w: w, progress: make(chan item.ProgressUpdate, progressBuffer)}
}

func (o *Writer) Present(heading string, lines []string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, err := fmt.Fprintf(o.w, "## %s\n", heading); err != nil {
		return err
	}
	for _, line := range lines {
		if _, err := fmt.Fprintf(o.w, "%s\n", line); err != nil {
			return err
		}
	}
	return nil
}

func (o *Writer) Progress() chan<- item.ProgressUpdate { return o.progress }

// Drain reads every progress update sent so far without blocking,
// useful for tests and for a CLI's own trailing summary.
func (o *Writer) Drain() []item.ProgressUpdate {
	var out []item.ProgressUpdate
	for {
		select {
		case u := <-o.progress:
			out = append(out, u)
		default:
			return out
		}
	}
}
