package engine

import (
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/sysu-dev/sysu/model"
)

// Executor is the subset of ShellExecutor's behavior UnitExecution depends
// on, so tests can substitute a fake that counts invocations instead of
// spawning a real subprocess.
type Executor interface {
	RunOp(op model.Operation, script string, args *model.ValueSet, evh OpEventHandler) (model.OpResult, error)
}

// UnitExecution is the per-unit state machine: it owns the unit's script
// text, its merged effective args, the emitted values accumulated from
// running operations, and the cached Meta/Deps results (invariants I4,
// I5: each is fetched at most once).
type UnitExecution struct {
	Unit   *model.Unit
	Script string

	mu       sync.Mutex
	args     *model.ValueSet
	emitted  *model.ValueSet
	meta     *model.Meta
	deps     *model.Dependencies
	metaOnce singleflight.Group
	depsOnce singleflight.Group

	executor Executor
}

func NewUnitExecution(unit *model.Unit, script string, executor Executor) *UnitExecution {
	return &UnitExecution{
		Unit:     unit,
		Script:   script,
		args:     unit.Args,
		emitted:  model.NewValueSet(),
		executor: executor,
	}
}

// SetArgs merges values into the unit's effective args (right-biased
// merge; later calls win on key collision).
func (u *UnitExecution) SetArgs(values *model.ValueSet) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.args = u.args.Merge(values)
}

// Args returns the current effective args.
func (u *UnitExecution) Args() *model.ValueSet {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.args
}

// Emitted returns the values accumulated across this execution's
// operations so far.
func (u *UnitExecution) Emitted() *model.ValueSet {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.emitted
}

// GetMeta runs the Meta operation at most once for this execution,
// caching the result; subsequent calls return the cached Meta without
// touching the executor again.
func (u *UnitExecution) GetMeta(ev OpEventHandler) (model.Meta, error) {
	v, err, _ := u.metaOnce.Do("meta", func() (interface{}, error) {
		u.mu.Lock()
		if u.meta != nil {
			m := *u.meta
			u.mu.Unlock()
			return m, nil
		}
		u.mu.Unlock()

		result, err := u.executor.RunOp(model.OpMeta, u.Script, u.Args(), ev)
		if err != nil {
			_ = ev.Handle(OpErrorEvent{Message: err.Error()})
			return model.Meta{}, err
		}
		if !result.Status.Ok() {
			opErr := fmt.Errorf("meta operation failed with status %s", result.Status)
			_ = ev.Handle(OpErrorEvent{Message: opErr.Error()})
			return model.Meta{}, opErr
		}
		mc, ok := result.Completion.(model.MetaCompletion)
		if !ok {
			return model.Meta{}, fmt.Errorf("unexpected completion type for meta operation")
		}
		if err := ev.Handle(CompleteEvent{Completion: mc}); err != nil {
			return model.Meta{}, err
		}

		u.mu.Lock()
		u.meta = &mc.Meta
		u.mu.Unlock()
		return mc.Meta, nil
	})
	if err != nil {
		return model.Meta{}, err
	}
	return v.(model.Meta), nil
}

// GetDeps runs the Deps operation at most once for this execution.
func (u *UnitExecution) GetDeps(ev OpEventHandler) (model.Dependencies, error) {
	v, err, _ := u.depsOnce.Do("deps", func() (interface{}, error) {
		u.mu.Lock()
		if u.deps != nil {
			d := *u.deps
			u.mu.Unlock()
			return d, nil
		}
		u.mu.Unlock()

		result, err := u.executor.RunOp(model.OpDeps, u.Script, u.Args(), ev)
		if err != nil {
			_ = ev.Handle(OpErrorEvent{Message: err.Error()})
			return model.Dependencies{}, err
		}
		if !result.Status.Ok() {
			opErr := fmt.Errorf("deps operation failed with status %s", result.Status)
			_ = ev.Handle(OpErrorEvent{Message: opErr.Error()})
			return model.Dependencies{}, opErr
		}
		dc, ok := result.Completion.(model.DepsCompletion)
		if !ok {
			return model.Dependencies{}, fmt.Errorf("unexpected completion type for deps operation")
		}
		if err := ev.Handle(CompleteEvent{Completion: dc}); err != nil {
			return model.Dependencies{}, err
		}

		u.mu.Lock()
		u.deps = &dc.Dependencies
		u.mu.Unlock()
		return dc.Dependencies, nil
	})
	if err != nil {
		return model.Dependencies{}, err
	}
	return v.(model.Dependencies), nil
}

// Check runs the Check operation, merges any emitted values, and returns
// presence.
func (u *UnitExecution) Check(ev OpEventHandler) (bool, error) {
	result, err := u.runAndMerge(model.OpCheck, ev)
	if err != nil {
		return false, err
	}
	cc, ok := result.(model.CheckCompletion)
	if !ok {
		return false, fmt.Errorf("unexpected completion type for check operation")
	}
	return cc.Present, nil
}

// Apply runs the Apply operation and merges emitted values.
func (u *UnitExecution) Apply(ev OpEventHandler) error {
	_, err := u.runAndMerge(model.OpApply, ev)
	return err
}

// Remove runs the Remove operation and merges emitted values.
func (u *UnitExecution) Remove(ev OpEventHandler) error {
	_, err := u.runAndMerge(model.OpRemove, ev)
	return err
}

func (u *UnitExecution) runAndMerge(op model.Operation, ev OpEventHandler) (model.OpCompletion, error) {
	result, err := u.executor.RunOp(op, u.Script, u.Args(), ev)
	if err != nil {
		_ = ev.Handle(OpErrorEvent{Message: err.Error()})
		return nil, err
	}
	if !result.Status.Ok() {
		opErr := fmt.Errorf("%s operation failed with status %s", op, result.Status)
		_ = ev.Handle(OpErrorEvent{Message: opErr.Error()})
		return nil, opErr
	}

	var emitted *model.ValueSet
	switch c := result.Completion.(type) {
	case model.CheckCompletion:
		emitted = c.Emitted
	case model.ApplyCompletion:
		emitted = c.Emitted
	case model.RemoveCompletion:
		emitted = c.Emitted
	default:
		return nil, fmt.Errorf("unexpected completion type for %s operation", op)
	}

	u.mu.Lock()
	u.emitted = u.emitted.Merge(emitted)
	u.mu.Unlock()

	if err := ev.Handle(CompleteEvent{Completion: result.Completion}); err != nil {
		return nil, err
	}
	return result.Completion, nil
}
