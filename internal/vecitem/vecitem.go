package vecitem

import (
	"fmt"

	"github.com/openpeace/peace/pkg/ident"
	"github.com/openpeace/peace/pkg/item"
	"github.com/openpeace/peace/pkg/resource"
)

// IDDefault is VecCopy's default item ID (original_source: VecCopyItem::ID_DEFAULT).
const IDDefault ident.ItemID = "vec_copy"

// Params is VecCopy's single parameter: the goal bytes to copy into VecB.
// Unlike most items, VecCopy has no separate params/partial split beyond
// "all of it, or none of it" — Partial.Target is nil until the whole goal
// vec is known (original_source: VecA(pub Vec<u8>), params_partial is
// Option<VecA>).
type Params struct {
	Target []byte
}

func (p Params) ToPartial() Partial { return Partial{Target: p.Target} }

// Partial is Params with Target possibly unset (nil slice vs present-but-
// empty is not distinguished; TryBuild treats nil as unset).
type Partial struct {
	Target []byte
}

func (p Partial) Merge(base Params) Params {
	if p.Target != nil {
		base.Target = p.Target
	}
	return base
}

func (p Partial) TryBuild() (Params, bool) {
	if p.Target == nil {
		return Params{}, false
	}
	return Params{Target: p.Target}, true
}

// State is the observed contents of VecB at a point in time.
type State struct {
	Bytes []byte
}

func (s State) String() string {
	return fmt.Sprintf("%v", s.Bytes)
}

// Diff is the edit list between two States.
type Diff VecDiff

func (d Diff) String() string { return VecDiff(d).String() }

// Data holds the shared ResourceMap VecCopy reads VecB from and writes
// VecB to. Each accessor below borrows and releases around a single
// access rather than holding VecB borrowed for Data's whole lifetime,
// since item.Interface has no hook to release a FetchData result once a
// CmdBlock is done with it (original_source's W<'exec, VecB> instead
// relies on Rust's borrow checker to scope the borrow to one execution).
type Data struct {
	rm *resource.Map
}

// Dest returns VecB's current bytes.
func (d Data) Dest() []byte {
	b, err := resource.TryBorrow[VecB](d.rm)
	if err != nil {
		return nil
	}
	defer b.Release()
	return b.Value().Bytes
}

// SetDest overwrites VecB's bytes.
func (d Data) SetDest(bytes []byte) {
	b, err := resource.TryBorrowMut[VecB](d.rm)
	if err != nil {
		return
	}
	b.Value().Bytes = bytes
	b.Release()
}

// VecA is the goal vec resource slot — inserted by whatever upstream
// workspace-param wiring feeds VecCopy's Params, read here only via
// Params.Target, not through the ResourceMap (original_source borrows it
// as a Params field, not a Data field, for the same reason).

// VecB is the destination vec resource slot VecCopy's Setup seeds and
// Apply mutates (original_source: VecB(pub Vec<u8>)).
type VecB struct {
	Bytes []byte
}

// VecCopy copies VecA's bytes onto VecB, tracking the edit list between
// VecB's current and goal contents (original_source workspace_tests
// VecCopyItem — the worked example spec §8's scenarios drive end to end).
type VecCopy struct {
	id ident.ItemID
}

// New returns a VecCopy item with the given ID.
func New(id ident.ItemID) *VecCopy { return &VecCopy{id: id} }

// NewDefault returns a VecCopy item using IDDefault.
func NewDefault() *VecCopy { return &VecCopy{id: IDDefault} }

func (v *VecCopy) ID() ident.ItemID { return v.id }

// Setup inserts an empty VecB unless the ResourceMap already holds one.
// It does not read StatesCurrentStored.
func (v *VecCopy) Setup(rm *resource.Map) error {
	if resource.Contains[VecB](rm) {
		return nil
	}
	resource.Insert(rm, VecB{})
	return nil
}

func (v *VecCopy) StateClean(partial Partial, data Data) (State, error) {
	return State{Bytes: nil}, nil
}

func (v *VecCopy) TryStateCurrent(fnCtx item.FnCtx, partial Partial, data Data) (*State, error) {
	s, err := v.stateCurrentInternal(fnCtx, data)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (v *VecCopy) StateCurrent(fnCtx item.FnCtx, params Params, data Data) (State, error) {
	return v.stateCurrentInternal(fnCtx, data)
}

func (v *VecCopy) stateCurrentInternal(fnCtx item.FnCtx, data Data) (State, error) {
	dest := append([]byte(nil), data.Dest()...)
	fnCtx.SendProgress(uint64(len(dest)), item.ProgressMsgNoChange)
	return State{Bytes: dest}, nil
}

func (v *VecCopy) TryStateGoal(fnCtx item.FnCtx, partial Partial, data Data) (*State, error) {
	if partial.Target == nil {
		return nil, nil
	}
	s := v.stateGoalInternal(fnCtx, partial.Target)
	return &s, nil
}

func (v *VecCopy) StateGoal(fnCtx item.FnCtx, params Params, data Data) (State, error) {
	return v.stateGoalInternal(fnCtx, params.Target), nil
}

func (v *VecCopy) stateGoalInternal(fnCtx item.FnCtx, vecA []byte) State {
	goal := append([]byte(nil), vecA...)
	fnCtx.SendProgress(uint64(len(goal)), item.ProgressMsgNoChange)
	return State{Bytes: goal}
}

func (v *VecCopy) StateDiff(partial Partial, data Data, current, goal State) (Diff, error) {
	return Diff(DiffBytes(current.Bytes, goal.Bytes)), nil
}

func (v *VecCopy) ApplyCheck(params Params, data Data, current, target State, diff Diff) (item.ApplyCheckResult, error) {
	if len(diff) == 0 {
		return item.ExecNotRequired(), nil
	}
	return item.ExecRequired(item.ProgressLimitOfBytes(uint64(len(current.Bytes) + len(target.Bytes)))), nil
}

func (v *VecCopy) ApplyDry(fnCtx item.FnCtx, params Params, data Data, current, target State, diff Diff) (State, error) {
	// Would replace VecB's contents with VecA's; no mutation happens here.
	return target, nil
}

func (v *VecCopy) Apply(fnCtx item.FnCtx, params Params, data Data, current, target State, diff Diff) (State, error) {
	data.SetDest(append([]byte(nil), target.Bytes...))
	fnCtx.SendProgress(uint64(len(target.Bytes)), item.ProgressMsgNoChange)
	return target, nil
}

// Wrap adapts a *VecCopy into the type-erased item.Interface a Flow's
// graph stores (mirrors pkg/blocks' counterItem test fixture, the
// smallest real item.Wrap round trip in the tree).
func Wrap(v *VecCopy) item.Interface {
	return item.Wrap[Params, Partial, State, Diff, Data](v, func(rm *resource.Map) (Data, error) {
		return Data{rm: rm}, nil
	})
}
