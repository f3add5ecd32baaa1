package engine

import (
	"context"
	"fmt"

	"github.com/sysu-dev/sysu/model"
)

// Runner owns the loader, executor pool, and the per-unit execution cache.
// It is the component that actually drives operations against units;
// Engine sits above it and implements dispatch (resolve, iterate, finalize).
type Runner struct {
	ctx        context.Context
	loader     *Loader
	pool       *ExecutorPool
	evh        *EventHandler
	executions map[model.ExecutionKey]*UnitExecution
}

func NewRunner(ctx context.Context, loader *Loader, pool *ExecutorPool, evh *EventHandler) *Runner {
	return &Runner{
		ctx:        ctx,
		loader:     loader,
		pool:       pool,
		evh:        evh,
		executions: make(map[model.ExecutionKey]*UnitExecution),
	}
}

func (r *Runner) executorFor(unit *model.Unit) (*ShellExecutor, error) {
	if unit.Target == nil {
		return r.pool.GetLocal(r.ctx)
	}
	return r.pool.Get(r.ctx, *unit.Target)
}

func (r *Runner) resolvedTarget(unit *model.Unit) model.Target {
	if unit.Target == nil {
		return model.Target{}
	}
	return *unit.Target
}

func (r *Runner) executionFor(unit *model.Unit) (*UnitExecution, bool) {
	ex, ok := r.executions[unit.ExecutionKey(r.resolvedTarget(unit))]
	return ex, ok
}

// GetMeta returns unit's Meta. Used directly by the CLI's standalone
// "meta" operation, which introspects a unit's declared params without
// supplying them, so unlike loadUnit it deliberately skips arg
// validation and Deps: a caller runs "meta" precisely to discover what
// args a unit needs before providing them.
func (r *Runner) GetMeta(unit *model.Unit) (model.Meta, error) {
	evh := NewOpEventHandler(r.evh, unit, model.OpMeta)

	if ex, ok := r.executionFor(unit); ok {
		return ex.GetMeta(evh)
	}

	script, err := r.loader.Load(unit.Name)
	if err != nil {
		return model.Meta{}, err
	}
	executor, err := r.executorFor(unit)
	if err != nil {
		return model.Meta{}, err
	}
	ex := NewUnitExecution(unit, script, executor)

	meta, err := ex.GetMeta(evh)
	if err != nil {
		return model.Meta{}, err
	}
	r.executions[unit.ExecutionKey(r.resolvedTarget(unit))] = ex
	return meta, nil
}

// GetDeps returns unit's dependencies, loading the unit first if needed.
func (r *Runner) GetDeps(unit *model.Unit) (model.Dependencies, error) {
	ex, ok := r.executionFor(unit)
	if !ok {
		var err error
		ex, err = r.loadUnit(unit)
		if err != nil {
			return model.Dependencies{}, err
		}
	}
	evh := NewOpEventHandler(r.evh, unit, model.OpDeps)
	return ex.GetDeps(evh)
}

// Check runs the Check operation, injecting captures assembled from unit's
// dependencies first.
func (r *Runner) Check(unit *model.Unit) (bool, error) {
	deps, err := r.GetDeps(unit)
	if err != nil {
		return false, err
	}
	captures, err := r.captureValuesFor(unit, deps)
	if err != nil {
		return false, err
	}

	ex, ok := r.executionFor(unit)
	if !ok {
		return false, fmt.Errorf("engine: unit not initialized: %s", unit)
	}
	ex.SetArgs(captures)

	evh := NewOpEventHandler(r.evh, unit, model.OpCheck)
	return ex.Check(evh)
}

// Apply runs the Apply operation.
func (r *Runner) Apply(unit *model.Unit) error {
	ex, ok := r.executionFor(unit)
	if !ok {
		return fmt.Errorf("engine: unit not initialized: %s", unit)
	}
	evh := NewOpEventHandler(r.evh, unit, model.OpApply)
	return ex.Apply(evh)
}

// Remove runs the Remove operation.
func (r *Runner) Remove(unit *model.Unit) error {
	ex, ok := r.executionFor(unit)
	if !ok {
		return fmt.Errorf("engine: unit not initialized: %s", unit)
	}
	evh := NewOpEventHandler(r.evh, unit, model.OpRemove)
	return ex.Remove(evh)
}

// Finalize finalizes every executor this runner's pool has opened.
func (r *Runner) Finalize() error {
	return r.pool.Finalize()
}

// buildArgsFor validates unit's provided args against meta's declared
// params and returns them unchanged (validation-only; error text matches
// the diagnostics sysu units have always produced).
func buildArgsFor(unit *model.Unit, meta model.Meta) (*model.ValueSet, error) {
	for _, param := range meta.Params {
		if _, ok := unit.Args.Get(param.Name); param.Required && !ok {
			return nil, fmt.Errorf("Missing required parameter: %s", param.Name)
		}
	}

	for _, key := range unit.Args.Keys() {
		value, _ := unit.Args.Get(key)
		param, ok := meta.ParamByName(key)
		if !ok {
			return nil, fmt.Errorf("Parameter %s is provided, but not accepted", key)
		}
		if value.Type() != param.Type {
			return nil, fmt.Errorf("Argument %s is of type %s not %s as expected", key, value.Type(), param.Type)
		}
	}

	return unit.Args, nil
}

// captureValuesFor assembles the ValueSet a unit's dependency captures
// contribute: for each dependency edge, the dependency unit's already-run
// execution is looked up and its emitted values checked against the
// declared CaptureDefinitions.
func (r *Runner) captureValuesFor(unit *model.Unit, deps model.Dependencies) (*model.ValueSet, error) {
	captures := model.NewValueSet()

	for _, dep := range deps.Units {
		if len(dep.Captures) == 0 {
			// Plain ordering dependency: standalone Check never resolves or
			// loads dependency units (only runWithDependencies does), so
			// there is nothing to look up and nothing to assemble.
			continue
		}

		target := dep.Target
		if target == nil {
			target = unit.Target
		}
		depUnit := model.NewUnit(dep.Name, dep.Args, target)

		depEx, ok := r.executionFor(depUnit)
		if !ok {
			return nil, fmt.Errorf("engine: capture dependency %s has not run yet, can't read its emitted values", depUnit)
		}
		emitted := depEx.Emitted()

		for _, capture := range dep.Captures {
			value, ok := emitted.Get(capture.Name)
			if !ok {
				return nil, fmt.Errorf("Capture could not be satisfied: %s:%s", depUnit, capture.Name)
			}
			if value.Type() != capture.Type {
				return nil, fmt.Errorf("Capture %q from %q is of type %s not %s as expected", capture.Name, depUnit.Name, value.Type(), capture.Type)
			}
			captures.Add(capture.EffectiveAlias(), value)
		}
	}

	return captures, nil
}

// loadUnit initializes a unit's execution: it loads the script, runs Meta
// to validate args, runs Deps, and caches the result. Captures are not
// assembled here (see Check).
func (r *Runner) loadUnit(unit *model.Unit) (*UnitExecution, error) {
	script, err := r.loader.Load(unit.Name)
	if err != nil {
		return nil, err
	}

	executor, err := r.executorFor(unit)
	if err != nil {
		return nil, err
	}

	ex := NewUnitExecution(unit, script, executor)

	metaEvh := NewOpEventHandler(r.evh, unit, model.OpMeta)
	meta, err := ex.GetMeta(metaEvh)
	if err != nil {
		return nil, err
	}

	args, err := buildArgsFor(unit, meta)
	if err != nil {
		return nil, err
	}
	ex.SetArgs(args)

	depsEvh := NewOpEventHandler(r.evh, unit, model.OpDeps)
	if _, err := ex.GetDeps(depsEvh); err != nil {
		return nil, err
	}

	// Dependency captures are deliberately NOT assembled here: a unit's
	// dependencies have only been loaded at this point (meta+deps), not
	// run, so their emitted values don't exist yet. Capture assembly
	// happens in Check, once resolution order has guaranteed every
	// dependency has already been applied.
	r.executions[unit.ExecutionKey(r.resolvedTarget(unit))] = ex

	return ex, nil
}

// Dependencies implements DependencyFetcher for *model.Unit,
// loading a unit on first reference so its Deps can be read.
func (r *Runner) Dependencies(unit *model.Unit) ([]*model.Unit, error) {
	ex, ok := r.executionFor(unit)
	if !ok {
		var err error
		ex, err = r.loadUnit(unit)
		if err != nil {
			return nil, err
		}
	}

	depsEvh := NewOpEventHandler(r.evh, unit, model.OpDeps)
	deps, err := ex.GetDeps(depsEvh)
	if err != nil {
		return nil, err
	}

	units := make([]*model.Unit, len(deps.Units))
	for i, dep := range deps.Units {
		target := dep.Target
		if target == nil {
			target = unit.Target
		}
		units[i] = model.NewUnit(dep.Name, dep.Args, target)
	}
	return units, nil
}
