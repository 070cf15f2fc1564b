package storage_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/openpeace/peace/pkg/ident"
	"github.com/openpeace/peace/pkg/perr"
	"github.com/openpeace/peace/pkg/storage"
	"github.com/openpeace/peace/pkg/typereg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type vecState struct {
	Values []int `yaml:"values"`
}

func TestWriteMapThenReadMapRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "states_current.yaml")

	s := storage.New()
	err := s.WriteMap(context.Background(), path, map[ident.ItemID]any{
		"vec_copy": vecState{Values: []int{1, 2, 3}},
	})
	require.NoError(t, err)

	reg := typereg.New[ident.ItemID]()
	typereg.Register[ident.ItemID, vecState](reg, "vec_copy")

	decoded, err := s.ReadMap(context.Background(), path, reg)
	require.NoError(t, err)

	state, ok := decoded["vec_copy"].(vecState)
	require.True(t, ok)
	assert.Equal(t, []int{1, 2, 3}, state.Values)
}

func TestReadMapMissingFileReportsPersistenceNotFound(t *testing.T) {
	s := storage.New()
	reg := typereg.New[ident.ItemID]()

	_, err := s.ReadMap(context.Background(), filepath.Join(t.TempDir(), "absent.yaml"), reg)
	require.Error(t, err)

	kind, ok := perr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, perr.KindPersistenceNotFound, kind)
}

func TestReadMapRespectsContextCancellation(t *testing.T) {
	s := storage.New()
	reg := typereg.New[ident.ItemID]()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.ReadMap(ctx, filepath.Join(t.TempDir(), "whatever.yaml"), reg)
	require.Error(t, err)
}

func TestWriteMapOverwritesExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "states_current.yaml")
	s := storage.New()

	require.NoError(t, s.WriteMap(context.Background(), path, map[ident.ItemID]any{
		"vec_copy": vecState{Values: []int{1}},
	}))
	require.NoError(t, s.WriteMap(context.Background(), path, map[ident.ItemID]any{
		"vec_copy": vecState{Values: []int{9, 9}},
	}))

	reg := typereg.New[ident.ItemID]()
	typereg.Register[ident.ItemID, vecState](reg, "vec_copy")
	decoded, err := s.ReadMap(context.Background(), path, reg)
	require.NoError(t, err)
	assert.Equal(t, []int{9, 9}, decoded["vec_copy"].(vecState).Values)
}
