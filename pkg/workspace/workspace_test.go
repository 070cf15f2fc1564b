package workspace_test

import (
	"path/filepath"
	"testing"

	"github.com/openpeace/peace/pkg/ident"
	"github.com/openpeace/peace/pkg/perr"
	"github.com/openpeace/peace/pkg/workspace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkspacePathLayout(t *testing.T) {
	w := workspace.New("/srv/app", "envman", ident.Profile("dev"), ident.FlowID("deploy"))

	assert.Equal(t, "/srv/app", w.WorkspaceDir())
	assert.Equal(t, filepath.Join("/srv/app", ".peace", "envman"), w.PeaceDir())
	assert.Equal(t, filepath.Join("/srv/app", ".peace", "envman", "dev"), w.ProfileDir())
	assert.Equal(t, filepath.Join("/srv/app", ".peace", "envman", "dev", "deploy"), w.FlowDir())
	assert.Equal(t, filepath.Join(w.FlowDir(), ".history"), w.HistoryDir())
	assert.Equal(t, filepath.Join(w.PeaceDir(), "workspace_params.yaml"), w.WorkspaceParamsPath())
	assert.Equal(t, filepath.Join(w.ProfileDir(), "profile_params.yaml"), w.ProfileParamsPath())
	assert.Equal(t, filepath.Join(w.FlowDir(), "flow_params.yaml"), w.FlowParamsPath())
	assert.Equal(t, filepath.Join(w.FlowDir(), "params_specs.yaml"), w.ParamsSpecsPath())
	assert.Equal(t, filepath.Join(w.FlowDir(), "states_current.yaml"), w.StatesCurrentPath())
}

type sampleParams struct {
	Name string `validate:"required"`
}

func TestValidateParamsRejectsMissingRequiredField(t *testing.T) {
	err := workspace.ValidateParams("workspace_params.yaml", sampleParams{})
	require.Error(t, err)
	kind, ok := perr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, perr.KindPersistenceDeserialize, kind)
}

func TestValidateParamsAcceptsValidStruct(t *testing.T) {
	err := workspace.ValidateParams("workspace_params.yaml", sampleParams{Name: "web"})
	assert.NoError(t, err)
}
