package cmdctx_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/openpeace/peace/pkg/cmdctx"
	"github.com/openpeace/peace/pkg/flow"
	"github.com/openpeace/peace/pkg/ident"
	"github.com/openpeace/peace/pkg/output"
	"github.com/openpeace/peace/pkg/workspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCmdCtxWiresCollaborators(t *testing.T) {
	ws := workspace.New("/tmp/ws", "peace", ident.Profile("default"), ident.FlowID("deploy"))
	fl := flow.New(ident.FlowID("deploy"), flow.NewGraph())
	out := output.NewWriter(&bytes.Buffer{}, 0)

	cc := cmdctx.New(context.Background(), ws, fl, out)
	require.NotNil(t, cc.Resources)
	require.NotNil(t, cc.Interrupt)
	assert.False(t, cc.Interrupt.Triggered())
	assert.Empty(t, cc.ParamsSpecs)

	cc.WithParamsSpec(ident.ItemID("vec_copy"), "some-spec")
	assert.Equal(t, "some-spec", cc.ParamsSpecs[ident.ItemID("vec_copy")])
}
