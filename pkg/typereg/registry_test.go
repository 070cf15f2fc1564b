package typereg_test

import (
	"testing"

	"github.com/openpeace/peace/pkg/typereg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type vecCopyState struct {
	Bytes []byte `yaml:"bytes"`
}

func TestDecodeMapUsesRegisteredType(t *testing.T) {
	r := typereg.New[string]()
	typereg.Register[string, vecCopyState](r, "vec_copy")

	raw := map[string]yaml.Node{}
	doc := "bytes: [1, 2, 3]"
	var node yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(doc), &node))
	// yaml.Unmarshal into yaml.Node wraps in a document node; unwrap it.
	raw["vec_copy"] = *node.Content[0]

	decoded, err := typereg.DecodeMap(r, raw, "states_current.yaml")
	require.NoError(t, err)

	state, ok := decoded["vec_copy"].(vecCopyState)
	require.True(t, ok)
	assert.Equal(t, []byte{1, 2, 3}, state.Bytes)
}

func TestDecodeMapPreservesUnregisteredKeysOpaquely(t *testing.T) {
	r := typereg.New[string]()

	raw := map[string]yaml.Node{}
	doc := "foo: bar"
	var node yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte(doc), &node))
	raw["unknown_item"] = *node.Content[0]

	decoded, err := typereg.DecodeMap(r, raw, "states_current.yaml")
	require.NoError(t, err)

	_, ok := decoded["unknown_item"].(*yaml.Node)
	assert.True(t, ok, "unregistered keys should survive as opaque *yaml.Node entries")
}

type customEqual struct{ n int }

func (c customEqual) StateEqual(other any) bool {
	o, ok := other.(customEqual)
	return ok && c.n == o.n
}

func TestEqualUsesEquatableWhenImplemented(t *testing.T) {
	r := typereg.New[string]()
	typereg.Register[string, customEqual](r, "thing")

	assert.True(t, r.Equal("thing", customEqual{n: 1}, customEqual{n: 1}))
	assert.False(t, r.Equal("thing", customEqual{n: 1}, customEqual{n: 2}))
}

func TestEqualFallsBackToDeepEqual(t *testing.T) {
	r := typereg.New[string]()
	typereg.Register[string, vecCopyState](r, "vec_copy")

	a := vecCopyState{Bytes: []byte{1, 2}}
	b := vecCopyState{Bytes: []byte{1, 2}}
	assert.True(t, r.Equal("vec_copy", a, b))

	c := vecCopyState{Bytes: []byte{9}}
	assert.False(t, r.Equal("vec_copy", a, c))
}
