// Package workspace implements Workspace, one of the two external
// collaborator interfaces the core consumes (spec §6): it supplies the
// directory layout a CmdCtx persists into, and hands out a Storage handle
// for synchronous YAML read/write.
//
// On-disk layout (spec §6):
//
//	<workspace>/.peace/<app>/workspace_params.yaml
//	                         /<profile>/profile_params.yaml
//	                                   /<flow_id>/flow_params.yaml
//	                                             /params_specs.yaml
//	                                             /states_current.yaml
//	                                             /states_goal.yaml
//	                                             /states_previous.yaml
//	                                             /.history/
package workspace

import (
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/openpeace/peace/pkg/ident"
	"github.com/openpeace/peace/pkg/perr"
)

// Workspace supplies the paths a CmdCtx build resolves storage against,
// grounded on the teacher's config layer's validated-struct idiom
// (pkg/config/types.go's `validate:"..."` tags) for the params structs
// loaded from each of those paths.
type Workspace struct {
	appName string
	rootDir string
	profile ident.Profile
	flowID  ident.FlowID
}

// New returns a Workspace rooted at rootDir for the given app, profile,
// and flow.
func New(rootDir, appName string, profile ident.Profile, flowID ident.FlowID) *Workspace {
	return &Workspace{rootDir: rootDir, appName: appName, profile: profile, flowID: flowID}
}

// WorkspaceDir is the directory the tool was invoked in.
func (w *Workspace) WorkspaceDir() string { return w.rootDir }

// PeaceDir is <workspace>/.peace/<app>.
func (w *Workspace) PeaceDir() string {
	return filepath.Join(w.rootDir, ".peace", w.appName)
}

// ProfileDir is <peace_dir>/<profile>.
func (w *Workspace) ProfileDir() string {
	return filepath.Join(w.PeaceDir(), w.profile.String())
}

// FlowDir is <profile_dir>/<flow_id>.
func (w *Workspace) FlowDir() string {
	return filepath.Join(w.ProfileDir(), w.flowID.String())
}

// HistoryDir is <flow_dir>/.history.
func (w *Workspace) HistoryDir() string {
	return filepath.Join(w.FlowDir(), ".history")
}

// WorkspaceParamsPath is <peace_dir>/workspace_params.yaml.
func (w *Workspace) WorkspaceParamsPath() string {
	return filepath.Join(w.PeaceDir(), "workspace_params.yaml")
}

// ProfileParamsPath is <profile_dir>/profile_params.yaml.
func (w *Workspace) ProfileParamsPath() string {
	return filepath.Join(w.ProfileDir(), "profile_params.yaml")
}

// FlowParamsPath is <flow_dir>/flow_params.yaml.
func (w *Workspace) FlowParamsPath() string {
	return filepath.Join(w.FlowDir(), "flow_params.yaml")
}

// ParamsSpecsPath is <flow_dir>/params_specs.yaml.
func (w *Workspace) ParamsSpecsPath() string {
	return filepath.Join(w.FlowDir(), "params_specs.yaml")
}

// StatesCurrentPath is <flow_dir>/states_current.yaml.
func (w *Workspace) StatesCurrentPath() string {
	return filepath.Join(w.FlowDir(), "states_current.yaml")
}

// StatesGoalPath is <flow_dir>/states_goal.yaml.
func (w *Workspace) StatesGoalPath() string {
	return filepath.Join(w.FlowDir(), "states_goal.yaml")
}

// StatesPreviousPath is <flow_dir>/states_previous.yaml.
func (w *Workspace) StatesPreviousPath() string {
	return filepath.Join(w.FlowDir(), "states_previous.yaml")
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateParams runs struct-tag validation over a loaded params struct
// (WorkspaceParams/ProfileParams/FlowParams), translating validator's
// error into the taxonomy's PersistenceDeserialize kind.
func ValidateParams(path string, v any) error {
	if err := validate.Struct(v); err != nil {
		return perr.NewPersistenceDeserialize(path, err, nil)
	}
	return nil
}
