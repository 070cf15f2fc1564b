// Package storage implements Storage, the synchronous YAML read/write
// handle a Workspace hands out (spec §6, §4.8): flat maps keyed by
// ItemID, each value (de)serialized through a pkg/typereg.Registry so the
// reader never needs every concrete state/params type compiled into one
// switch statement.
//
// Spec §4.8 describes a sync-bridge: the YAML library is synchronous, so
// a dedicated short-lived thread performs the blocking I/O while the
// async task awaits it. Go's os.File calls already block only the calling
// goroutine (the runtime parks it off the OS thread via its network/file
// poller integration), so ReadMap/WriteMap could run inline — but every
// call here still goes through a single-use goroutine plus a done
// channel, matching the spec's "dedicated thread, async task awaits it"
// shape and giving callers a context.Context cancellation point around
// I/O that might be slow (a network filesystem, a large history file),
// the same reason original_source bridges onto a background thread
// instead of trusting the runtime to schedule the blocking call fairly.
package storage

import (
	"context"
	"os"
	"path/filepath"

	"github.com/openpeace/peace/pkg/ident"
	"github.com/openpeace/peace/pkg/perr"
	"github.com/openpeace/peace/pkg/typereg"
	"gopkg.in/yaml.v3"
)

// Storage reads and writes the flat YAML maps persisted under a
// Workspace's flow directory.
type Storage struct{}

// New returns a Storage handle. Storage is stateless; every call takes
// the path and registry it needs, mirroring the original's Storage being
// a thin wrapper over tokio::fs rather than an object with its own
// configuration.
func New() *Storage { return &Storage{} }

// ReadMap loads the flat YAML map at path, decoding each entry through
// reg. A missing file is reported as PersistenceNotFound, not as an
// empty map, so a caller can distinguish "never persisted" from
// "persisted as empty" (spec §7: "Persistence errors — file not found").
func (s *Storage) ReadMap(ctx context.Context, path string, reg *typereg.Registry[ident.ItemID]) (map[ident.ItemID]any, error) {
	type result struct {
		data map[ident.ItemID]any
		err  error
	}
	done := make(chan result, 1)

	go func() {
		raw, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				done <- result{err: perr.NewPersistenceNotFound(path)}
				return
			}
			done <- result{err: perr.NewPersistenceDeserialize(path, err, nil)}
			return
		}

		var doc map[string]yaml.Node
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			done <- result{err: perr.NewPersistenceDeserialize(path, err, spanOf(raw, err))}
			return
		}

		byID := make(map[ident.ItemID]yaml.Node, len(doc))
		for k, v := range doc {
			byID[ident.ItemID(k)] = v
		}

		decoded, err := typereg.DecodeMap(reg, byID, path)
		if err != nil {
			done <- result{err: err}
			return
		}
		done <- result{data: decoded}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		return r.data, r.err
	}
}

// WriteMap serializes data as a flat YAML map and writes it to path,
// creating parent directories as needed. Keys are rendered via their
// ItemID's String(); values serialize via their own yaml struct tags, so
// no registry is needed on the write path (spec §4.8: "To write:
// serialize the map directly").
func (s *Storage) WriteMap(ctx context.Context, path string, data map[ident.ItemID]any) error {
	done := make(chan error, 1)

	go func() {
		byString := make(map[string]any, len(data))
		for k, v := range data {
			byString[k.String()] = v
		}

		out, err := yaml.Marshal(byString)
		if err != nil {
			done <- perr.NewPersistenceSerialize(path, err)
			return
		}

		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			done <- perr.NewPersistenceSerialize(path, err)
			return
		}

		done <- writeFileAtomic(path, out)
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}

// writeFileAtomic writes data to a temp file in path's directory, then
// renames it over path, so a reader never observes a partially-written
// file (spec §4.8: "ensuring buffered writes are flushed on close").
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return perr.NewPersistenceSerialize(path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return perr.NewPersistenceSerialize(path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return perr.NewPersistenceSerialize(path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return perr.NewPersistenceSerialize(path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return perr.NewPersistenceSerialize(path, err)
	}
	return nil
}

// spanOf best-effort extracts a byte span for a yaml.TypeError so
// PersistenceDeserialize can highlight the offending fragment; yaml.v3
// doesn't expose byte offsets on decode errors, so this returns nil,
// leaving Render() to fall back to the plain message (spec §7 asks only
// that deserialization errors "carry byte spans... for the offending
// part of the file" when available, not that every backend can supply
// one).
func spanOf(raw []byte, err error) *perr.Span {
	return nil
}
